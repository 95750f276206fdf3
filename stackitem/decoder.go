package stackitem

import (
	"context"
	"encoding/base64"
	"math/big"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
)

// Decoder turns stack items into native Go values:
//
//	Any               nil
//	Boolean           bool
//	Integer, Pointer  *big.Int
//	ByteString        string, identifier.Hash160, identifier.Hash256 or []byte
//	Array             []any
//	Struct            Struct
//	Map               *Map
//	InteropInterface  *Map (iterator drained through the PageFetcher)
//
// A Decoder holds no per-call state and is safe for concurrent use as long
// as its PageFetcher is.
type Decoder struct {
	pager    *Pager
	logger   *zap.Logger
	maxDepth int
}

// NewDecoder creates a decoder. fetcher may be nil when the caller knows the
// results contain no iterator handles.
func NewDecoder(fetcher PageFetcher, opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &Decoder{
		logger:   o.logger,
		maxDepth: o.maxDepth,
	}
	d.pager = &Pager{
		decoder:  d,
		fetcher:  fetcher,
		pageSize: o.pageSize,
		maxPages: o.maxPages,
		logger:   o.logger,
	}
	return d
}

// Pager returns the iterator pager bound to this decoder.
func (d *Decoder) Pager() *Pager {
	return d.pager
}

// Decode decodes one item. session scopes any iterator handles inside it.
func (d *Decoder) Decode(ctx context.Context, session string, item Item) (any, error) {
	return d.decode(ctx, session, item, nil, 0)
}

// DecodeStack decodes a result stack. A single item is returned bare; any
// other count is returned as []any.
func (d *Decoder) DecodeStack(ctx context.Context, session string, stack []Item) (any, error) {
	if len(stack) == 1 {
		return d.decode(ctx, session, stack[0], []string{"stack[0]"}, 0)
	}

	out := make([]any, len(stack))
	for i, item := range stack {
		v, err := d.decode(ctx, session, item, []string{"stack[" + strconv.Itoa(i) + "]"}, 0)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *Decoder) decode(ctx context.Context, session string, item Item, path []string, depth int) (any, error) {
	if depth > d.maxDepth {
		return nil, errors.Overflow(errors.PhaseDecode, path, "nesting exceeds MaxDepth")
	}

	if item.IsIterator {
		return d.decodeExpandedIterator(ctx, session, item, path, depth)
	}

	switch item.Type {
	case TypeAny:
		if item.Value != nil {
			return nil, errors.MalformedWireValue(path, string(item.Type), "Any carries a payload")
		}
		return nil, nil

	case TypeInteropInterface:
		if item.ID == "" {
			return nil, errors.MalformedWireValue(path, string(item.Type), "interop interface without iterator id")
		}
		return d.pager.drain(ctx, session, item.ID, path, depth)

	case TypeInteger, TypePointer:
		return decodeInteger(item, path)

	case TypeBoolean:
		b, ok := item.Value.(bool)
		if !ok {
			return nil, malformedPayload(item, path, "bool")
		}
		return b, nil

	case TypeByteString, TypeBuffer, TypeByteArray:
		raw, err := decodeBase64(item, path)
		if err != nil {
			return nil, err
		}
		return interpretBytes(raw), nil

	case TypeArray:
		elems, ok := item.Value.([]Item)
		if !ok {
			return nil, malformedPayload(item, path, "list")
		}
		return d.decodeList(ctx, session, elems, path, depth)

	case TypeStruct:
		elems, ok := item.Value.([]Item)
		if !ok {
			return nil, malformedPayload(item, path, "list")
		}
		values, err := d.decodeList(ctx, session, elems, path, depth)
		if err != nil {
			return nil, err
		}
		return Struct(values), nil

	case TypeMap:
		entries, ok := item.Value.([]MapEntry)
		if !ok {
			return nil, malformedPayload(item, path, "list of key/value entries")
		}
		return d.decodeMap(ctx, session, entries, path, depth)

	case TypeString:
		s, ok := item.Value.(string)
		if !ok {
			return nil, malformedPayload(item, path, "text")
		}
		return s, nil

	case TypeHash160, TypeHash256, TypePublicKey:
		return decodeIdentifier(item, path)
	}

	return nil, errors.UnknownTag(path, string(item.Type))
}

func (d *Decoder) decodeList(ctx context.Context, session string, elems []Item, path []string, depth int) ([]any, error) {
	out := make([]any, len(elems))
	for i, elem := range elems {
		v, err := d.decode(ctx, session, elem, appendPath(path, "value["+strconv.Itoa(i)+"]"), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *Decoder) decodeMap(ctx context.Context, session string, entries []MapEntry, path []string, depth int) (*Map, error) {
	m := NewMap()
	for i, entry := range entries {
		entryPath := appendPath(path, "value["+strconv.Itoa(i)+"]")
		if err := d.decodePair(ctx, session, m, entry.Key, entry.Value, entryPath, depth); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// decodePair decodes one key/value pair into m; a repeated key overwrites.
func (d *Decoder) decodePair(ctx context.Context, session string, m *Map, keyItem, valueItem Item, path []string, depth int) error {
	keyPath := appendPath(path, "key")
	key, err := d.decode(ctx, session, keyItem, keyPath, depth+1)
	if err != nil {
		return err
	}
	value, err := d.decode(ctx, session, valueItem, appendPath(path, "value"), depth+1)
	if err != nil {
		return err
	}
	if err := m.Set(key, value); err != nil {
		return errors.UnhashableKey(errors.PhaseDecode, keyPath, typeName(key))
	}
	return nil
}

// decodeExpandedIterator sniffs the first element: a list payload means the
// iterator yields key/value pairs, anything else means bare values. An
// iterator whose values happen to be two-element structs is read as pairs.
// A Map element carries entries rather than a list, so an iterator of maps
// is read as bare values.
func (d *Decoder) decodeExpandedIterator(ctx context.Context, session string, item Item, path []string, depth int) (any, error) {
	if len(item.Iterator) == 0 {
		return []any{}, nil
	}

	if _, pairs := item.Iterator[0].Value.([]Item); !pairs {
		values := make([]any, len(item.Iterator))
		for i, elem := range item.Iterator {
			v, err := d.decode(ctx, session, elem, appendPath(path, "iterator["+strconv.Itoa(i)+"]"), depth+1)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	}

	m := NewMap()
	for i, elem := range item.Iterator {
		elemPath := appendPath(path, "iterator["+strconv.Itoa(i)+"]")
		pair, ok := elem.Value.([]Item)
		if !ok || len(pair) != 2 {
			return nil, errors.MalformedWireValue(elemPath, string(elem.Type), "iterator element is not a key/value pair")
		}
		if err := d.decodePair(ctx, session, m, pair[0], pair[1], elemPath, depth); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeInteger(item Item, path []string) (*big.Int, error) {
	s, ok := item.Value.(string)
	if !ok {
		return nil, malformedPayload(item, path, "decimal text")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindMalformedWireValue).
			Path(path...).
			WireType(string(item.Type)).
			Detail("invalid decimal %q", s).
			Value(s).
			Build()
	}
	return n, nil
}

func decodeBase64(item Item, path []string) ([]byte, error) {
	s, ok := item.Value.(string)
	if !ok {
		return nil, malformedPayload(item, path, "base64 text")
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindMalformedWireValue).
			Path(path...).
			WireType(string(item.Type)).
			Detail("invalid base64").
			Cause(err).
			Build()
	}
	return raw, nil
}

// interpretBytes guesses what a byte string was meant to be. The order is
// fixed: UTF-8 text, then 20-byte hash, then 32-byte hash, then raw bytes.
// Text of length 20 or 32 therefore never comes back as a hash.
func interpretBytes(raw []byte) any {
	if utf8.Valid(raw) {
		return string(raw)
	}
	switch len(raw) {
	case identifier.Hash160Size:
		h, _ := identifier.Hash160FromLE(raw)
		return h
	case identifier.Hash256Size:
		h, _ := identifier.Hash256FromLE(raw)
		return h
	}
	return raw
}

func decodeIdentifier(item Item, path []string) (any, error) {
	s, ok := item.Value.(string)
	if !ok {
		return nil, malformedPayload(item, path, "hex text")
	}

	var (
		v   any
		err error
	)
	switch item.Type {
	case TypeHash160:
		v, err = identifier.ParseHash160(s)
	case TypeHash256:
		v, err = identifier.ParseHash256(s)
	default:
		v, err = identifier.ParsePublicKey(s)
	}
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindMalformedWireValue).
			Path(path...).
			WireType(string(item.Type)).
			Detail("invalid identifier").
			Cause(err).
			Build()
	}
	return v, nil
}

func malformedPayload(item Item, path []string, want string) *errors.Error {
	return errors.New(errors.PhaseDecode, errors.KindMalformedWireValue).
		Path(path...).
		WireType(string(item.Type)).
		GoType(typeName(item.Value)).
		Detail("payload is not %s", want).
		Build()
}
