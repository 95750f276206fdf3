package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/wippyai/fairy-rpc/identifier"
)

// argList collects repeated -arg flags.
type argList []string

func (a *argList) String() string { return strings.Join(*a, " ") }

func (a *argList) Set(s string) error {
	*a = append(*a, s)
	return nil
}

// parseArgs turns kind:value tokens into invocation parameters.
func parseArgs(tokens []string) ([]any, error) {
	args := make([]any, 0, len(tokens))
	for i, tok := range tokens {
		v, err := parseArg(tok)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		args = append(args, v)
	}
	return args, nil
}

// parseArg parses one kind:value token, e.g. int:42 or h160:0x... The bare
// token null is a null argument.
func parseArg(tok string) (any, error) {
	if tok == "null" {
		return nil, nil
	}
	kind, value, ok := strings.Cut(tok, ":")
	if !ok {
		return nil, fmt.Errorf("%q: want kind:value", tok)
	}

	switch kind {
	case "int":
		n, ok := new(big.Int).SetString(value, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", value)
		}
		return n, nil
	case "bool":
		return strconv.ParseBool(value)
	case "str":
		return value, nil
	case "hex":
		b, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
		if err != nil {
			return nil, fmt.Errorf("hex: %w", err)
		}
		return b, nil
	case "b64":
		b, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("b64: %w", err)
		}
		return b, nil
	case "h160":
		return identifier.Hash160FromString(value)
	case "h256":
		return identifier.ParseHash256(value)
	case "pubkey":
		return identifier.ParsePublicKey(value)
	case "addr":
		return identifier.ParseAddress(value)
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

// abiKinds maps ABI parameter types to the kind used for bare input.
var abiKinds = map[string]string{
	"Integer":   "int",
	"Boolean":   "bool",
	"String":    "str",
	"ByteArray": "hex",
	"Hash160":   "h160",
	"Hash256":   "h256",
	"PublicKey": "pubkey",
}

// convertArg parses interactive input for an ABI parameter type. Input that
// already carries a kind prefix is parsed as is.
func convertArg(value, abiType string) (any, error) {
	value = strings.TrimSpace(value)
	if value == "null" || value == "" && abiType == "Any" {
		return nil, nil
	}
	kind, ok := abiKinds[abiType]
	if !ok || strings.HasPrefix(value, kind+":") {
		return parseArg(value)
	}
	return parseArg(kind + ":" + value)
}
