package stackitem

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
)

// Struct is a decoded Struct item: a fixed-arity ordered tuple.
// It is distinct from the []any produced for Array items.
type Struct []any

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   any
	Value any
}

// Map is an associative map over decoded stack values.
//
// Keys are compared by value, so two separately decoded *big.Int keys with
// the same number address the same entry. Setting an existing key replaces
// its value and keeps its position.
type Map struct {
	index   map[string]int
	entries []Entry
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Set stores value under key. Array and Map keys are rejected.
func (m *Map) Set(key, value any) error {
	k, err := canonicalKey(key)
	if err != nil {
		return err
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = value
		return nil
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
	return nil
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	if m == nil {
		return nil, false
	}
	k, err := canonicalKey(key)
	if err != nil {
		return nil, false
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

func (m *Map) Keys() []any {
	if m == nil {
		return nil
	}
	keys := make([]any, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

func (m *Map) Values() []any {
	if m == nil {
		return nil
	}
	values := make([]any, len(m.entries))
	for i, e := range m.entries {
		values[i] = e.Value
	}
	return values
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return append([]Entry(nil), m.entries...)
}

// Range calls fn for each entry until fn returns false.
func (m *Map) Range(fn func(key, value any) bool) {
	if m == nil {
		return
	}
	for _, e := range m.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// canonicalKey renders a hashable native value as a type-prefixed string.
func canonicalKey(key any) (string, error) {
	var b strings.Builder
	if err := writeKey(&b, key); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeKey(b *strings.Builder, key any) error {
	switch k := key.(type) {
	case nil:
		b.WriteByte('n')
	case bool:
		if k {
			b.WriteString("b1")
		} else {
			b.WriteString("b0")
		}
	case *big.Int:
		if k == nil {
			b.WriteByte('n')
			return nil
		}
		b.WriteByte('i')
		b.WriteString(k.String())
	case string:
		writeLenPrefixed(b, 's', k)
	case []byte:
		writeLenPrefixed(b, 'x', string(k))
	case identifier.Hash160:
		writeLenPrefixed(b, 'h', string(k[:]))
	case identifier.Hash256:
		writeLenPrefixed(b, 'H', string(k[:]))
	case identifier.PublicKey:
		writeLenPrefixed(b, 'p', string(k[:]))
	case Struct:
		b.WriteString("t(")
		for _, elem := range k {
			if err := writeKey(b, elem); err != nil {
				return err
			}
			b.WriteByte(',')
		}
		b.WriteByte(')')
	default:
		rv := reflect.ValueOf(key)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			b.WriteByte('i')
			b.WriteString(strconv.FormatInt(rv.Int(), 10))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			b.WriteByte('i')
			b.WriteString(strconv.FormatUint(rv.Uint(), 10))
		default:
			return errors.UnhashableKey(errors.PhaseDecode, nil, typeName(key))
		}
	}
	return nil
}

func writeLenPrefixed(b *strings.Builder, tag byte, s string) {
	b.WriteByte(tag)
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}
