package rpcclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
	"github.com/wippyai/fairy-rpc/stackitem"
)

// InvokeResult is the result object of the invoke* family.
type InvokeResult struct {
	Script        string           `json:"script"`
	State         string           `json:"state"`
	GasConsumed   string           `json:"gasconsumed"`
	Exception     string           `json:"exception"`
	Traceback     string           `json:"traceback,omitempty"`
	Session       string           `json:"session,omitempty"`
	Tx            string           `json:"tx,omitempty"`
	Notifications json.RawMessage  `json:"notifications,omitempty"`
	Stack         []stackitem.Item `json:"stack"`
}

// Gas parses GasConsumed.
func (r *InvokeResult) Gas() (int64, error) {
	if r.GasConsumed == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(r.GasConsumed, 10, 64)
	if err != nil {
		return 0, errors.New(errors.PhaseDecode, errors.KindMalformedWireValue).
			Detail("gasconsumed %q", r.GasConsumed).
			Cause(err).
			Build()
	}
	return n, nil
}

// Invocation pairs the decoded stack with the raw result it came from.
type Invocation struct {
	Value  any
	Result *InvokeResult
}

// InvokeFunction test-invokes operation on contract.
func (c *Client) InvokeFunction(ctx context.Context, contract identifier.Hash160, operation string, args []any, signers ...Signer) (*Invocation, error) {
	params, err := c.functionParams(contract, operation, args, signers)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "invokefunction", params)
}

// InvokeFunctionWithSession invokes operation inside a named Fairy session
// snapshot. relay writes the resulting state into the snapshot.
func (c *Client) InvokeFunctionWithSession(ctx context.Context, session string, relay bool, contract identifier.Hash160, operation string, args []any, signers ...Signer) (*Invocation, error) {
	if session == "" {
		return nil, errors.InvalidInput(errors.PhaseEncode, "session name is required")
	}
	params, err := c.functionParams(contract, operation, args, signers)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "invokefunctionwithsession", append([]any{session, relay}, params...))
}

// InvokeScript test-invokes a raw VM script.
func (c *Client) InvokeScript(ctx context.Context, script []byte, signers ...Signer) (*Invocation, error) {
	if err := validateSigners(signers); err != nil {
		return nil, err
	}
	return c.invoke(ctx, "invokescript", []any{
		base64.StdEncoding.EncodeToString(script),
		signerParams(signers),
	})
}

// InvokeScriptWithSession runs a raw VM script inside a Fairy session.
func (c *Client) InvokeScriptWithSession(ctx context.Context, session string, relay bool, script []byte, signers ...Signer) (*Invocation, error) {
	if session == "" {
		return nil, errors.InvalidInput(errors.PhaseEncode, "session name is required")
	}
	if err := validateSigners(signers); err != nil {
		return nil, err
	}
	return c.invoke(ctx, "invokescriptwithsession", []any{
		session,
		relay,
		base64.StdEncoding.EncodeToString(script),
		signerParams(signers),
	})
}

// Deserialize asks the node to deserialize binary-serialized stack items and
// decodes each of them.
func (c *Client) Deserialize(ctx context.Context, data ...[]byte) ([]any, error) {
	params := make([]any, len(data))
	for i, d := range data {
		params[i] = base64.StdEncoding.EncodeToString(d)
	}

	var items []stackitem.Item
	if err := c.Call(ctx, "deserialize", params, &items); err != nil {
		return nil, err
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := c.decoder.Decode(ctx, "", item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *Client) functionParams(contract identifier.Hash160, operation string, args []any, signers []Signer) ([]any, error) {
	if operation == "" {
		return nil, errors.InvalidInput(errors.PhaseEncode, "operation is required")
	}
	if err := validateSigners(signers); err != nil {
		return nil, err
	}
	encoded, err := stackitem.EncodeParams(args)
	if err != nil {
		return nil, err
	}
	return []any{contract.String(), operation, encoded, signerParams(signers)}, nil
}

func (c *Client) invoke(ctx context.Context, method string, params []any) (*Invocation, error) {
	var res InvokeResult
	if err := c.Call(ctx, method, params, &res); err != nil {
		return nil, err
	}

	inv := &Invocation{Result: &res}
	if res.Exception != "" {
		detail := res.Exception
		if res.Traceback != "" {
			detail = res.Traceback
		}
		return inv, errors.VMFault(method, detail)
	}

	v, err := c.decoder.DecodeStack(ctx, res.Session, res.Stack)
	if err != nil {
		return inv, err
	}
	inv.Value = v
	return inv, nil
}
