package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/fairy-rpc/config"
	"github.com/wippyai/fairy-rpc/rpcclient"
	"github.com/wippyai/fairy-rpc/stackitem"
)

type options struct {
	configPath  string
	endpoint    string
	session     string
	contract    string
	operation   string
	decodePath  string
	args        argList
	pageSize    int
	relay       bool
	encodeOnly  bool
	verbose     bool
	interactive bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to fairy.toml (default: search upwards from the working directory)")
	flag.StringVar(&o.endpoint, "url", "", "RPC endpoint URL")
	flag.StringVar(&o.session, "session", "", "Fairy session name")
	flag.StringVar(&o.contract, "contract", "", "Contract script hash or address")
	flag.StringVar(&o.operation, "op", "", "Contract method to invoke")
	flag.BoolVar(&o.relay, "relay", false, "Write the invocation into the session snapshot")
	flag.IntVar(&o.pageSize, "page-size", 0, "Iterator page size")
	flag.StringVar(&o.decodePath, "decode", "", "Decode a saved JSON-RPC response file")
	flag.BoolVar(&o.encodeOnly, "encode", false, "Print the wire form of the arguments and exit")
	flag.BoolVar(&o.verbose, "v", false, "Debug logging")
	flag.BoolVar(&o.interactive, "i", false, "Interactive mode with TUI")
	flag.Var(&o.args, "arg", "Argument as kind:value, repeatable (int bool str hex b64 h160 h256 pubkey addr, or null)")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := run(o, set); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options, set map[string]bool) error {
	ctx := context.Background()
	out := newRenderer(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))

	if o.encodeOnly {
		data, err := encodeArgs(o.args)
		if err != nil {
			return err
		}
		fmt.Fprintln(out.out, string(data))
		return nil
	}

	cfg, err := loadConfig(o, set)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	stackitem.SetLogger(logger)
	rpcclient.SetLogger(logger)

	client := rpcclient.New(cfg.Endpoint,
		rpcclient.WithLogger(logger),
		rpcclient.WithPageSize(cfg.PageSize),
		rpcclient.WithMaxPages(cfg.MaxPages),
		rpcclient.WithTimeout(cfg.TimeoutDuration()),
	)

	if o.decodePath != "" {
		dec := stackitem.NewDecoder(nil, stackitem.WithLogger(logger))
		if set["url"] {
			dec = client.Decoder()
		}
		inv, err := decodeFile(ctx, o.decodePath, dec)
		if err != nil {
			return err
		}
		out.title("Decoded " + o.decodePath)
		out.invocation(inv)
		return nil
	}

	contract, err := cfg.ContractHash()
	if err != nil {
		return fmt.Errorf("contract: %w", err)
	}

	if o.interactive {
		return runInteractive(client, contract, cfg.Session, cfg.Relay)
	}

	if o.operation == "" {
		fmt.Fprintln(os.Stderr, "Usage: fairy -contract <hash> -op <method> [-arg kind:value ...] [-session name [-relay]]")
		fmt.Fprintln(os.Stderr, "       fairy -contract <hash> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       fairy -decode <response.json> [-url endpoint]")
		fmt.Fprintln(os.Stderr, "       fairy -encode -arg kind:value ...")
		return fmt.Errorf("no operation given")
	}

	args, err := parseArgs(o.args)
	if err != nil {
		return err
	}

	logger.Debug("invoking",
		zap.String("contract", contract.String()),
		zap.String("operation", o.operation),
		zap.String("session", cfg.Session),
		zap.Int("args", len(args)))

	var inv *rpcclient.Invocation
	if cfg.Session != "" {
		inv, err = client.InvokeFunctionWithSession(ctx, cfg.Session, cfg.Relay, contract, o.operation, args)
	} else {
		inv, err = client.InvokeFunction(ctx, contract, o.operation, args)
	}
	if inv != nil {
		out.title(o.operation)
		out.invocation(inv)
	}
	return err
}

// loadConfig reads the configuration file and applies explicitly set flags
// over it.
func loadConfig(o options, set map[string]bool) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if set["url"] {
		cfg.Endpoint = o.endpoint
	}
	if set["session"] {
		cfg.Session = o.session
	}
	if set["contract"] {
		cfg.Contract = o.contract
	}
	if set["relay"] {
		cfg.Relay = o.relay
	}
	if set["page-size"] {
		cfg.PageSize = o.pageSize
	}
	if o.verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// encodeArgs returns the indented wire form of kind:value tokens.
func encodeArgs(tokens []string) ([]byte, error) {
	args, err := parseArgs(tokens)
	if err != nil {
		return nil, err
	}
	items, err := stackitem.EncodeParams(args)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(items, "", "  ")
}

// decodeFile decodes a saved invoke response. Both the full JSON-RPC
// envelope and a bare result object are accepted.
func decodeFile(ctx context.Context, path string, dec *stackitem.Decoder) (*rpcclient.Invocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var envelope struct {
		Result *rpcclient.InvokeResult `json:"result"`
		Error  json.RawMessage         `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		return nil, fmt.Errorf("response holds an error: %s", envelope.Error)
	}

	res := envelope.Result
	if res == nil {
		res = new(rpcclient.InvokeResult)
		if err := json.Unmarshal(data, res); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	inv := &rpcclient.Invocation{Result: res}
	if res.Exception != "" {
		return inv, nil
	}
	inv.Value, err = dec.DecodeStack(ctx, res.Session, res.Stack)
	if err != nil {
		return nil, fmt.Errorf("decode stack: %w", err)
	}
	return inv, nil
}
