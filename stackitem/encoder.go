package stackitem

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
)

// MaxDepth bounds nesting for both directions.
const MaxDepth = 64

// Valuer is implemented by enumerated values that travel as their
// underlying scalar.
type Valuer interface {
	ParamValue() any
}

// Encoder turns native Go values into call parameters. It is stateless and
// safe for concurrent use.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

var defaultEncoder = NewEncoder()

// EncodeParam encodes a single value with the default encoder.
func EncodeParam(value any) (Item, error) {
	return defaultEncoder.Encode(value)
}

// EncodeParams encodes a call argument list with the default encoder.
func EncodeParams(values []any) ([]Item, error) {
	return defaultEncoder.EncodeParams(values)
}

func (e *Encoder) Encode(value any) (Item, error) {
	return e.encode(value, nil, 0)
}

func (e *Encoder) EncodeParams(values []any) ([]Item, error) {
	items := make([]Item, len(values))
	for i, v := range values {
		item, err := e.encode(v, []string{"param[" + strconv.Itoa(i) + "]"}, 0)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

// encode dispatches on the exact Go type first. Identifier types are checked
// before anything else and bool before integers; the reflect fallback only
// sees named types and containers.
func (e *Encoder) encode(value any, path []string, depth int) (Item, error) {
	if depth > MaxDepth {
		return Item{}, errors.Overflow(errors.PhaseEncode, path, "nesting exceeds MaxDepth")
	}

	switch v := value.(type) {
	case nil:
		return AnyItem(), nil
	case Item:
		return v, nil
	case identifier.Hash160:
		return Hash160Item(v), nil
	case *identifier.Hash160:
		if v == nil {
			return AnyItem(), nil
		}
		return Hash160Item(*v), nil
	case identifier.Hash256:
		return Hash256Item(v), nil
	case *identifier.Hash256:
		if v == nil {
			return AnyItem(), nil
		}
		return Hash256Item(*v), nil
	case identifier.PublicKey:
		return encodePublicKey(v, path)
	case *identifier.PublicKey:
		if v == nil {
			return AnyItem(), nil
		}
		return encodePublicKey(*v, path)
	case bool:
		return BooleanItem(v), nil
	case int:
		return Int64Item(int64(v)), nil
	case int8:
		return Int64Item(int64(v)), nil
	case int16:
		return Int64Item(int64(v)), nil
	case int32:
		return Int64Item(int64(v)), nil
	case int64:
		return Int64Item(v), nil
	case uint:
		return IntegerItem(new(big.Int).SetUint64(uint64(v))), nil
	case uint8:
		return Int64Item(int64(v)), nil
	case uint16:
		return Int64Item(int64(v)), nil
	case uint32:
		return Int64Item(int64(v)), nil
	case uint64:
		return IntegerItem(new(big.Int).SetUint64(v)), nil
	case *big.Int:
		if v == nil {
			return AnyItem(), nil
		}
		return IntegerItem(v), nil
	case big.Int:
		return IntegerItem(&v), nil
	case string:
		return StringItem(v), nil
	case []byte:
		return encodeBytes(v), nil
	case Struct:
		return e.encodeList([]any(v), path, depth)
	case []any:
		return e.encodeList(v, path, depth)
	case []Item:
		return ArrayItem(append([]Item(nil), v...)...), nil
	case *Map:
		if v == nil {
			return AnyItem(), nil
		}
		return e.encodeMap(v, path, depth)
	case Valuer:
		return e.encode(v.ParamValue(), path, depth+1)
	case float32, float64, complex64, complex128:
		return Item{}, errors.UnsupportedType(path, typeName(value))
	}

	return e.encodeReflect(reflect.ValueOf(value), path, depth)
}

func encodePublicKey(k identifier.PublicKey, path []string) (Item, error) {
	if err := k.Validate(); err != nil {
		return Item{}, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(path...).
			GoType("identifier.PublicKey").
			Detail("not a compressed point").
			Cause(err).
			Build()
	}
	return PublicKeyItem(k), nil
}

// encodeBytes sends valid UTF-8 as String and everything else as ByteArray.
// The String choice loses the fact that the caller held bytes.
func encodeBytes(b []byte) Item {
	if utf8.Valid(b) {
		return StringItem(string(b))
	}
	return Item{Type: TypeByteArray, Value: base64.StdEncoding.EncodeToString(b)}
}

func (e *Encoder) encodeList(values []any, path []string, depth int) (Item, error) {
	items := make([]Item, len(values))
	for i, v := range values {
		item, err := e.encode(v, appendPath(path, "["+strconv.Itoa(i)+"]"), depth+1)
		if err != nil {
			return Item{}, err
		}
		items[i] = item
	}
	return ArrayItem(items...), nil
}

func (e *Encoder) encodeMap(m *Map, path []string, depth int) (Item, error) {
	entries := make([]MapEntry, 0, m.Len())
	for i, entry := range m.entries {
		entryPath := appendPath(path, "entry["+strconv.Itoa(i)+"]")
		key, err := e.encode(entry.Key, appendPath(entryPath, "key"), depth+1)
		if err != nil {
			return Item{}, err
		}
		value, err := e.encode(entry.Value, appendPath(entryPath, "value"), depth+1)
		if err != nil {
			return Item{}, err
		}
		entries = append(entries, MapEntry{Key: key, Value: value})
	}
	return MapItem(entries...), nil
}

// encodeReflect handles named scalars (enumerations), pointers, and
// containers whose static type is not one of the cases above.
func (e *Encoder) encodeReflect(rv reflect.Value, path []string, depth int) (Item, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return AnyItem(), nil
		}
		return e.encode(rv.Elem().Interface(), path, depth+1)
	case reflect.Bool:
		return BooleanItem(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int64Item(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return IntegerItem(new(big.Int).SetUint64(rv.Uint())), nil
	case reflect.String:
		return StringItem(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return encodeBytes(b), nil
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return ArrayItem(), nil
		}
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return e.encodeList(values, path, depth)
	case reflect.Map:
		return e.encodeGoMap(rv, path, depth)
	}

	var value any
	if rv.IsValid() {
		value = rv.Interface()
	}
	return Item{}, errors.UnsupportedType(path, typeName(value))
}

// encodeGoMap emits entries sorted by their encoded key since Go maps are
// unordered. Error paths index entries in the order of their printed Go keys.
// Distinct Go keys that share a wire form, such as 1 and int64(1), are
// rejected.
func (e *Encoder) encodeGoMap(rv reflect.Value, path []string, depth int) (Item, error) {
	type sortable struct {
		sortKey string
		index   int
		entry   MapEntry
	}

	keys := rv.MapKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		return printedKey(keys[i]) < printedKey(keys[j])
	})

	collected := make([]sortable, 0, len(keys))
	for i, k := range keys {
		entryPath := appendPath(path, "entry["+strconv.Itoa(i)+"]")
		key, err := e.encode(k.Interface(), appendPath(entryPath, "key"), depth+1)
		if err != nil {
			return Item{}, err
		}
		value, err := e.encode(rv.MapIndex(k).Interface(), appendPath(entryPath, "value"), depth+1)
		if err != nil {
			return Item{}, err
		}
		raw, err := json.Marshal(key)
		if err != nil {
			return Item{}, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "marshal map key")
		}
		collected = append(collected, sortable{sortKey: string(raw), index: i, entry: MapEntry{Key: key, Value: value}})
	}

	sort.Slice(collected, func(i, j int) bool {
		if collected[i].sortKey != collected[j].sortKey {
			return collected[i].sortKey < collected[j].sortKey
		}
		return collected[i].index < collected[j].index
	})

	entries := make([]MapEntry, len(collected))
	for i, c := range collected {
		if i > 0 && c.sortKey == collected[i-1].sortKey {
			return Item{}, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(appendPath(path, "entry["+strconv.Itoa(c.index)+"]")...).
				GoType(typeName(keys[c.index].Interface())).
				Detail("map key %s collides with another key", c.sortKey).
				Build()
		}
		entries[i] = c.entry
	}
	return MapItem(entries...), nil
}

func printedKey(k reflect.Value) string {
	v := k.Interface()
	return fmt.Sprintf("%T %#v", v, v)
}

func appendPath(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}
