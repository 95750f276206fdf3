package rpcclient

import (
	"context"

	"github.com/wippyai/fairy-rpc/identifier"
)

// ContractState is the subset of getcontractstate the client uses.
type ContractState struct {
	Manifest Manifest           `json:"manifest"`
	ID       int64              `json:"id"`
	Hash     identifier.Hash160 `json:"hash"`
}

type Manifest struct {
	Name string `json:"name"`
	ABI  ABI    `json:"abi"`
}

type ABI struct {
	Methods []Method `json:"methods"`
}

// Method is one ABI method. Parameter and return types use stack item type
// names such as Hash160 or Integer.
type Method struct {
	Name       string      `json:"name"`
	ReturnType string      `json:"returntype"`
	Parameters []Parameter `json:"parameters"`
	Offset     int         `json:"offset"`
	Safe       bool        `json:"safe"`
}

type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// GetContractState fetches the deployed state of contract.
func (c *Client) GetContractState(ctx context.Context, contract identifier.Hash160) (*ContractState, error) {
	var state ContractState
	if err := c.Call(ctx, "getcontractstate", []any{contract.String()}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
