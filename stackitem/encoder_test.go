package stackitem

import (
	"encoding/json"
	"errors"
	"math/big"
	"reflect"
	"testing"

	fairyerrors "github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
)

type witnessScope string

const scopeGlobal witnessScope = "Global"

type opcodeCount uint16

type oracleCode struct{ code int }

func (c oracleCode) ParamValue() any { return c.code }

func mustHash160(t *testing.T, s string) identifier.Hash160 {
	t.Helper()
	h, err := identifier.ParseHash160(s)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestEncode_Scalars(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	gas := mustHash160(t, "0xd2a4cff31913016155e38e474a2c06d08be276cf")
	block, _ := identifier.ParseHash256("0x59916d8c2fc5feb06b77aec289ac34b49ae3bccb1f88fe64ea5172c79fc1af05")
	key, _ := identifier.ParsePublicKey("03f6829c418b7272efa93b19cc3336506fb84efac6a758be3d6d5216d0fbc4d6dd")

	tests := []struct {
		value     any
		wantValue any
		name      string
		wantType  Type
	}{
		{name: "true", value: true, wantType: TypeBoolean, wantValue: true},
		{name: "false", value: false, wantType: TypeBoolean, wantValue: false},
		{name: "int", value: 42, wantType: TypeInteger, wantValue: "42"},
		{name: "negative int64", value: int64(-7), wantType: TypeInteger, wantValue: "-7"},
		{name: "max uint64", value: uint64(18446744073709551615), wantType: TypeInteger, wantValue: "18446744073709551615"},
		{name: "big 2^200", value: huge, wantType: TypeInteger, wantValue: huge.String()},
		{name: "big value", value: *big.NewInt(9), wantType: TypeInteger, wantValue: "9"},
		{name: "string", value: "hello", wantType: TypeString, wantValue: "hello"},
		{name: "utf8 bytes", value: []byte("hello"), wantType: TypeString, wantValue: "hello"},
		{name: "binary bytes", value: []byte{0xff, 0xfe, 0x00}, wantType: TypeByteArray, wantValue: "//4A"},
		{name: "nil", value: nil, wantType: TypeAny, wantValue: nil},
		{name: "nil big", value: (*big.Int)(nil), wantType: TypeAny, wantValue: nil},
		{name: "hash160", value: gas, wantType: TypeHash160, wantValue: "0xd2a4cff31913016155e38e474a2c06d08be276cf"},
		{name: "hash160 pointer", value: &gas, wantType: TypeHash160, wantValue: "0xd2a4cff31913016155e38e474a2c06d08be276cf"},
		{name: "hash256", value: block, wantType: TypeHash256, wantValue: block.String()},
		{name: "public key", value: key, wantType: TypePublicKey, wantValue: key.String()},
		{name: "named string enum", value: scopeGlobal, wantType: TypeString, wantValue: "Global"},
		{name: "named uint enum", value: opcodeCount(3), wantType: TypeInteger, wantValue: "3"},
		{name: "valuer", value: oracleCode{code: 5}, wantType: TypeInteger, wantValue: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := EncodeParam(tt.value)
			if err != nil {
				t.Fatalf("EncodeParam(%v) failed: %v", tt.value, err)
			}
			if item.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", item.Type, tt.wantType)
			}
			if !reflect.DeepEqual(item.Value, tt.wantValue) {
				t.Errorf("Value = %#v, want %#v", item.Value, tt.wantValue)
			}
		})
	}
}

func TestEncode_BoolIsNeverInteger(t *testing.T) {
	item, err := EncodeParam(true)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"type":"Boolean","value":true}` {
		t.Errorf("encode(true) = %s", raw)
	}
}

func TestEncode_AnyHasNoPayload(t *testing.T) {
	item, _ := EncodeParam(nil)
	raw, _ := json.Marshal(item)
	if string(raw) != `{"type":"Any"}` {
		t.Errorf("encode(nil) = %s", raw)
	}
}

func TestEncode_NestedArray(t *testing.T) {
	item, err := EncodeParam([]any{1, "a", []any{true, nil}})
	if err != nil {
		t.Fatal(err)
	}
	want := ArrayItem(
		Int64Item(1),
		StringItem("a"),
		ArrayItem(BooleanItem(true), AnyItem()),
	)
	if !reflect.DeepEqual(item, want) {
		t.Errorf("got %#v\nwant %#v", item, want)
	}
}

func TestEncode_TypedSlicesAndStruct(t *testing.T) {
	item, err := EncodeParam([]int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(item, ArrayItem(Int64Item(1), Int64Item(2))) {
		t.Errorf("[]int encoded as %#v", item)
	}

	item, err = EncodeParam(Struct{1, "x"})
	if err != nil {
		t.Fatal(err)
	}
	if item.Type != TypeArray {
		t.Errorf("Struct parameters travel as Array, got %s", item.Type)
	}

	item, err = EncodeParam([]string(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(item, ArrayItem()) {
		t.Errorf("nil slice encoded as %#v", item)
	}
}

func TestEncode_MapKeepsInsertionOrder(t *testing.T) {
	m := NewMap()
	_ = m.Set("b", 1)
	_ = m.Set("a", 2)
	_ = m.Set("b", 3)

	item, err := EncodeParam(m)
	if err != nil {
		t.Fatal(err)
	}
	want := MapItem(
		MapEntry{Key: StringItem("b"), Value: Int64Item(3)},
		MapEntry{Key: StringItem("a"), Value: Int64Item(2)},
	)
	if !reflect.DeepEqual(item, want) {
		t.Errorf("got %#v\nwant %#v", item, want)
	}
}

func TestEncode_GoMapIsSorted(t *testing.T) {
	item, err := EncodeParam(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatal(err)
	}
	entries, ok := item.Value.([]MapEntry)
	if !ok || len(entries) != 3 {
		t.Fatalf("unexpected map item %#v", item)
	}
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].Key.Value != want {
			t.Errorf("entry %d key = %v, want %s", i, entries[i].Key.Value, want)
		}
	}
}

func TestEncode_GoMapKeyCollision(t *testing.T) {
	_, err := EncodeParam(map[any]any{1: "a", int64(1): "b"})
	var fe *fairyerrors.Error
	if !errors.As(err, &fe) || fe.Phase != fairyerrors.PhaseEncode || fe.Kind != fairyerrors.KindInvalidData {
		t.Fatalf("expected encode invalid_data, got %v", err)
	}
	if len(fe.Path) != 1 || fe.Path[0] != "entry[1]" {
		t.Errorf("Path = %v, want [entry[1]]", fe.Path)
	}
	if fe.GoType != "int64" {
		t.Errorf("GoType = %s, want int64", fe.GoType)
	}
}

func TestEncode_GoMapErrorPath(t *testing.T) {
	_, err := EncodeParam(map[string]any{"a": 1, "b": 2.5})
	var fe *fairyerrors.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected structured error, got %v", err)
	}
	want := []string{"entry[1]", "value"}
	if len(fe.Path) != 2 || fe.Path[0] != want[0] || fe.Path[1] != want[1] {
		t.Errorf("Path = %v, want %v", fe.Path, want)
	}
}

func TestEncode_Unsupported(t *testing.T) {
	tests := []struct {
		value any
		name  string
	}{
		{name: "float64", value: 1.5},
		{name: "float32", value: float32(2)},
		{name: "struct", value: struct{ A int }{1}},
		{name: "func", value: func() {}},
		{name: "nested float", value: []any{1, 2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeParam(tt.value)
			if !errors.Is(err, fairyerrors.ErrUnsupportedType) {
				t.Errorf("expected unsupported type error, got %v", err)
			}
		})
	}
}

func TestEncodeParams_ErrorPath(t *testing.T) {
	_, err := EncodeParams([]any{1, []any{"ok", 3.0}})
	var fe *fairyerrors.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if len(fe.Path) != 2 || fe.Path[0] != "param[1]" || fe.Path[1] != "[1]" {
		t.Errorf("Path = %v", fe.Path)
	}
	if fe.GoType != "float64" {
		t.Errorf("GoType = %s, want float64", fe.GoType)
	}
}

func TestEncodeParams(t *testing.T) {
	items, err := EncodeParams([]any{"transfer", 10, true})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || items[0].Type != TypeString || items[1].Type != TypeInteger || items[2].Type != TypeBoolean {
		t.Errorf("unexpected params %#v", items)
	}
}

func TestEncode_ItemPassThrough(t *testing.T) {
	in := ByteStringItem([]byte{1, 2, 3})
	out, err := EncodeParam(in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("item changed: %#v", out)
	}
}
