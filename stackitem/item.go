package stackitem

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/wippyai/fairy-rpc/identifier"
)

// Type is the wire tag of a stack item or call parameter.
type Type string

const (
	TypeAny              Type = "Any"
	TypeBoolean          Type = "Boolean"
	TypeInteger          Type = "Integer"
	TypeByteString       Type = "ByteString"
	TypeBuffer           Type = "Buffer"
	TypeByteArray        Type = "ByteArray"
	TypeString           Type = "String"
	TypeArray            Type = "Array"
	TypeStruct           Type = "Struct"
	TypeMap              Type = "Map"
	TypePointer          Type = "Pointer"
	TypeHash160          Type = "Hash160"
	TypeHash256          Type = "Hash256"
	TypePublicKey        Type = "PublicKey"
	TypeInteropInterface Type = "InteropInterface"
)

// Item is one tagged value on the wire.
//
// Value holds the payload in its JSON shape:
//
//	Any, InteropInterface           nil
//	Boolean                         bool
//	Integer, Pointer                string (decimal)
//	ByteString, Buffer, ByteArray   string (base64)
//	String, Hash160/256, PublicKey  string
//	Array, Struct                   []Item
//	Map                             []MapEntry
//
// A payload that does not match its tag is kept as json.RawMessage and is
// reported by the Decoder.
//
// When IsIterator is set the item is an expanded iterator: Iterator holds the
// elements the server inlined and Type is empty.
type Item struct {
	Value      any
	Type       Type
	Interface  string
	ID         string
	Iterator   []Item
	IsIterator bool
	Truncated  bool
}

// MapEntry is one key/value pair of a Map item.
type MapEntry struct {
	Key   Item `json:"key"`
	Value Item `json:"value"`
}

// PageEntry is one key/value pair returned by an iterator page.
type PageEntry struct {
	Key   Item
	Value Item
}

func AnyItem() Item { return Item{Type: TypeAny} }

func BooleanItem(b bool) Item { return Item{Type: TypeBoolean, Value: b} }

func IntegerItem(n *big.Int) Item { return Item{Type: TypeInteger, Value: n.String()} }

func Int64Item(n int64) Item { return IntegerItem(big.NewInt(n)) }

func PointerItem(n int64) Item { return Item{Type: TypePointer, Value: big.NewInt(n).String()} }

func StringItem(s string) Item { return Item{Type: TypeString, Value: s} }

func ByteStringItem(b []byte) Item {
	return Item{Type: TypeByteString, Value: base64.StdEncoding.EncodeToString(b)}
}

func BufferItem(b []byte) Item {
	return Item{Type: TypeBuffer, Value: base64.StdEncoding.EncodeToString(b)}
}

func ByteArrayItem(b []byte) Item {
	return Item{Type: TypeByteArray, Value: base64.StdEncoding.EncodeToString(b)}
}

func Hash160Item(h identifier.Hash160) Item { return Item{Type: TypeHash160, Value: h.String()} }

func Hash256Item(h identifier.Hash256) Item { return Item{Type: TypeHash256, Value: h.String()} }

func PublicKeyItem(k identifier.PublicKey) Item { return Item{Type: TypePublicKey, Value: k.String()} }

func ArrayItem(items ...Item) Item {
	if items == nil {
		items = []Item{}
	}
	return Item{Type: TypeArray, Value: items}
}

func StructItem(items ...Item) Item {
	if items == nil {
		items = []Item{}
	}
	return Item{Type: TypeStruct, Value: items}
}

func MapItem(entries ...MapEntry) Item {
	if entries == nil {
		entries = []MapEntry{}
	}
	return Item{Type: TypeMap, Value: entries}
}

// InteropItem is a server-side iterator handle.
func InteropItem(iface, id string) Item {
	return Item{Type: TypeInteropInterface, Interface: iface, ID: id}
}

// IteratorItem is an iterator whose elements the server expanded inline.
func IteratorItem(truncated bool, items ...Item) Item {
	if items == nil {
		items = []Item{}
	}
	return Item{IsIterator: true, Iterator: items, Truncated: truncated}
}

type wireItem struct {
	Type      Type            `json:"type"`
	Value     json.RawMessage `json:"value,omitempty"`
	Interface string          `json:"interface,omitempty"`
	ID        string          `json:"id,omitempty"`
}

type wireIterator struct {
	Iterator  []Item `json:"iterator"`
	Truncated bool   `json:"truncated"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	if it.IsIterator {
		elems := it.Iterator
		if elems == nil {
			elems = []Item{}
		}
		return json.Marshal(wireIterator{Iterator: elems, Truncated: it.Truncated})
	}

	w := wireItem{Type: it.Type, Interface: it.Interface, ID: it.ID}
	if it.Value != nil {
		raw, err := json.Marshal(it.Value)
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	return json.Marshal(w)
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var w struct {
		Iterator  *[]Item         `json:"iterator"`
		Type      Type            `json:"type"`
		Value     json.RawMessage `json:"value"`
		Interface string          `json:"interface"`
		ID        string          `json:"id"`
		Truncated bool            `json:"truncated"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	if w.Iterator != nil {
		*it = Item{IsIterator: true, Iterator: *w.Iterator, Truncated: w.Truncated}
		if it.Iterator == nil {
			it.Iterator = []Item{}
		}
		return nil
	}

	*it = Item{
		Type:      w.Type,
		Interface: w.Interface,
		ID:        w.ID,
		Value:     unmarshalPayload(w.Type, w.Value),
	}
	return nil
}

// unmarshalPayload never fails: payloads of the wrong shape are kept raw.
func unmarshalPayload(t Type, raw json.RawMessage) any {
	if isNull(raw) {
		return nil
	}

	switch t {
	case TypeBoolean:
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			return b
		}
	case TypeInteger, TypePointer:
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
		var n json.Number
		if json.Unmarshal(raw, &n) == nil {
			return n.String()
		}
	case TypeByteString, TypeBuffer, TypeByteArray, TypeString,
		TypeHash160, TypeHash256, TypePublicKey:
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	case TypeArray, TypeStruct:
		var items []Item
		if json.Unmarshal(raw, &items) == nil {
			return items
		}
	case TypeMap:
		var entries []MapEntry
		if json.Unmarshal(raw, &entries) == nil {
			return entries
		}
	}
	return append(json.RawMessage(nil), raw...)
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
