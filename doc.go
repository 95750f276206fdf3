// Package fairyrpc is a Go client toolkit for Neo N3 nodes and Fairy test
// servers, centred on the marshaller between native Go values and the
// JSON-RPC stack item form.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	fairyrpc/            Root package (documentation only)
//	├── stackitem/       Encoder, Decoder and iterator Pager
//	├── identifier/      Hash160, Hash256, PublicKey and Neo addresses
//	├── rpcclient/       JSON-RPC client, invoke helpers and PageFetcher
//	├── config/          fairy.toml loading and validation
//	├── errors/          Structured error types for debugging
//	└── cmd/fairy/       Command line client
//
// # Quick Start
//
// Invoke a contract method inside a Fairy session:
//
//	c := rpcclient.New("http://localhost:16868")
//
//	inv, err := c.InvokeFunctionWithSession(ctx, "alice", false,
//	    contract, "balanceOf", []any{account})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(inv.Value) // *big.Int
//
// # Value Mapping
//
// Parameters are encoded by their Go type:
//
//   - nil: Any
//   - bool: Boolean (checked before integers)
//   - integers and *big.Int: Integer
//   - string: String
//   - []byte: String when valid UTF-8, ByteArray otherwise
//   - identifier.Hash160, Hash256, PublicKey: their own tags
//   - slices and stackitem.Struct: Array
//   - *stackitem.Map and Go maps: Map
//
// Results decode the other way. Byte strings become string when valid UTF-8,
// then Hash160 at 20 bytes, Hash256 at 32 bytes, and []byte otherwise. Maps
// become *stackitem.Map, keyed by value. Iterator handles are drained page by
// page into a *stackitem.Map before the call returns.
//
// # Error Handling
//
// Errors carry structured context for debugging:
//
//	var fe *errors.Error
//	if errors.As(err, &fe) {
//	    fmt.Println(fe.Phase) // encode, decode, validate, transport or config
//	    fmt.Println(fe.Kind)  // unsupported_type, malformed_wire_value, ...
//	    fmt.Println(fe.Path)  // [param[0] value[2] key]
//	}
//
// Floating point values are never encoded; they fail with unsupported_type.
package fairyrpc
