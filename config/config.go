// Package config handles fairy.toml client configuration.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
)

// FileName is the file FindAndLoad looks for.
const FileName = "fairy.toml"

// Config is a fairy.toml client configuration.
type Config struct {
	Log      Log      `toml:"log"`
	Endpoint string   `toml:"endpoint"`
	Session  string   `toml:"session"`
	Contract string   `toml:"contract"`
	PageSize int      `toml:"page-size"`
	MaxPages int      `toml:"max-pages"`
	Timeout  Duration `toml:"timeout"`
	Relay    bool     `toml:"relay"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// Log configures the CLI logger.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Endpoint: "http://localhost:16868",
		PageSize: 100,
		Timeout:  Duration(30 * time.Second),
		Log:      Log{Level: "info"},
	}
}

// Load reads and validates the configuration at path. Keys missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "cannot read "+path)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "cannot resolve path "+path)
	}
	return c, nil
}

// Parse decodes and validates a TOML document over the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse error")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Detail("unknown key %q", undecoded[0].String()).
			Build()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FindAndLoad walks up from startDir looking for fairy.toml. It returns
// nil, nil when there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "cannot resolve path "+startDir)
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("endpoint must be an http(s) URL, got %q", c.Endpoint)
	}
	if c.PageSize <= 0 {
		return invalid("page-size must be positive, got %d", c.PageSize)
	}
	if c.MaxPages < 0 {
		return invalid("max-pages must not be negative, got %d", c.MaxPages)
	}
	if c.Timeout < 0 {
		return invalid("timeout must not be negative, got %s", time.Duration(c.Timeout))
	}
	if c.Contract != "" {
		if _, err := identifier.Hash160FromString(c.Contract); err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "contract")
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return invalid("unknown log level %q", c.Log.Level)
	}
	return nil
}

// ContractHash parses Contract as a hex script hash or an address.
func (c *Config) ContractHash() (identifier.Hash160, error) {
	if c.Contract == "" {
		return identifier.Hash160{}, errors.NotInitialized(errors.PhaseConfig, "contract")
	}
	return identifier.Hash160FromString(c.Contract)
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout)
}

// Build creates a zap logger for this log configuration.
func (l Log) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}

	cfg := zap.NewProductionConfig()
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func invalid(format string, args ...any) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).Detail(format, args...).Build()
}
