// Package stackitem converts between native Go values and the tagged stack
// items a Neo N3 RPC node uses for invocation parameters and results.
//
//	Go value → [Encoder] → Item → node → Item → [Decoder] → Go value
//
// # Wire Form
//
// Every item is a {"type", "value"} record:
//
//	Type              value              Go (decoded)
//	─────────────────────────────────────────────────────────
//	Any               absent             nil
//	Boolean           true/false         bool
//	Integer           "decimal"          *big.Int
//	ByteString        "base64"           string | Hash160 | Hash256 | []byte
//	Array             [item...]          []any
//	Struct            [item...]          Struct
//	Map               [{key,value}...]   *Map
//	Pointer           "decimal"          *big.Int
//	InteropInterface  id, interface      *Map (iterator, drained)
//
// String, Hash160, Hash256 and PublicKey appear only in parameters the
// Encoder produces.
//
// # Encoding
//
// Encoder.Encode dispatches on the exact Go type. Identifier types come first,
// bool is checked before integers, and []byte that is valid UTF-8 is sent as
// String. Named scalar types and Valuer implementations travel as their
// underlying value. Floats and arbitrary structs fail with
// errors.KindUnsupportedType.
//
// # Decoding
//
// Byte strings carry no declared meaning, so the Decoder guesses: valid UTF-8
// becomes string, then 20 bytes become identifier.Hash160, then 32 bytes
// become identifier.Hash256, else []byte. The order is part of the contract.
//
// DecodeStack returns a lone result bare and several results as []any.
//
// # Iterators
//
// A node either inlines iterator elements ({"iterator": [...]}) or returns an
// InteropInterface handle scoped to a session. Inlined iterators are read as
// key/value pairs when the first element carries a list payload and as plain
// values otherwise. Handles are drained by the Pager through a PageFetcher,
// DefaultPageSize entries at a time, until a page comes back short.
//
// # Thread Safety
//
// Encoder, Decoder and Pager hold no mutable state and may be shared.
// Iterator handles are only valid while their session lives on the node;
// a reset session shows up as a transport error from the PageFetcher.
package stackitem
