package identifier

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	fairyerrors "github.com/wippyai/fairy-rpc/errors"
)

const gasHash = "0xd2a4cff31913016155e38e474a2c06d08be276cf"

func TestHash160_TextRoundTrip(t *testing.T) {
	h, err := ParseHash160(gasHash)
	if err != nil {
		t.Fatalf("ParseHash160: %v", err)
	}
	if h.String() != gasHash {
		t.Errorf("String() = %s, want %s", h.String(), gasHash)
	}
	// Stored little-endian: the last rendered byte is the first stored byte.
	if h[0] != 0xcf || h[19] != 0xd2 {
		t.Errorf("unexpected byte order: %x", h[:])
	}

	bare, err := ParseHash160(strings.TrimPrefix(gasHash, "0x"))
	if err != nil {
		t.Fatalf("ParseHash160 without prefix: %v", err)
	}
	if bare != h {
		t.Error("prefixed and bare hex should parse to the same hash")
	}
}

func TestHash256_TextRoundTrip(t *testing.T) {
	text := "0x59916d8c2fc5feb06b77aec289ac34b49ae3bccb1f88fe64ea5172c79fc1af05"
	h, err := ParseHash256(text)
	if err != nil {
		t.Fatalf("ParseHash256: %v", err)
	}
	if h.String() != text {
		t.Errorf("String() = %s, want %s", h.String(), text)
	}
	if !bytes.Equal(h.BytesBE(), reversed(h.BytesLE())) {
		t.Error("BytesBE should reverse BytesLE")
	}
}

func TestPublicKey_TextRoundTrip(t *testing.T) {
	text := "03f6829c418b7272efa93b19cc3336506fb84efac6a758be3d6d5216d0fbc4d6dd"
	k, err := ParsePublicKey(text)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if k.String() != text {
		t.Errorf("String() = %s, want %s", k.String(), text)
	}
	if k[0] != 0x03 {
		t.Errorf("public keys keep point order, got first byte %02x", k[0])
	}
}

func TestParse_LengthMismatch(t *testing.T) {
	tests := []struct {
		parse func(string) error
		name  string
		input string
	}{
		{name: "hash160 short", input: "0xd2a4cff31913016155e38e474a2c06d08be276", parse: func(s string) error { _, err := ParseHash160(s); return err }},
		{name: "hash160 long", input: gasHash + "00", parse: func(s string) error { _, err := ParseHash160(s); return err }},
		{name: "hash256 as hash160", input: gasHash, parse: func(s string) error { _, err := ParseHash256(s); return err }},
		{name: "pubkey short", input: "03f6829c", parse: func(s string) error { _, err := ParsePublicKey(s); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.input)
			if !errors.Is(err, fairyerrors.ErrInvalidLength) {
				t.Errorf("expected invalid length error, got %v", err)
			}
		})
	}
}

func TestParse_InvalidHex(t *testing.T) {
	_, err := ParseHash160("0xzz" + strings.Repeat("0", 38))
	var fe *fairyerrors.Error
	if !errors.As(err, &fe) || fe.Kind != fairyerrors.KindInvalidData {
		t.Errorf("expected invalid data error, got %v", err)
	}
}

func TestPublicKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		prefix  byte
		wantErr bool
	}{
		{name: "even", prefix: 0x02},
		{name: "odd", prefix: 0x03},
		{name: "uncompressed", prefix: 0x04, wantErr: true},
		{name: "zero", prefix: 0x00, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k PublicKey
			k[0] = tt.prefix
			err := k.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePublicKey_BadPrefix(t *testing.T) {
	_, err := ParsePublicKey("04" + strings.Repeat("ab", 32))
	var fe *fairyerrors.Error
	if !errors.As(err, &fe) || fe.Kind != fairyerrors.KindInvalidData {
		t.Errorf("expected invalid data error, got %v", err)
	}
}

func TestFromLE(t *testing.T) {
	raw := make([]byte, Hash160Size)
	for i := range raw {
		raw[i] = byte(i)
	}
	h, err := Hash160FromLE(raw)
	if err != nil {
		t.Fatalf("Hash160FromLE: %v", err)
	}
	if !bytes.Equal(h.BytesLE(), raw) {
		t.Errorf("BytesLE = %x, want %x", h.BytesLE(), raw)
	}
	if !strings.HasPrefix(h.String(), "0x13") {
		t.Errorf("String() should start with the last stored byte, got %s", h.String())
	}

	if _, err := Hash160FromLE(raw[:19]); !errors.Is(err, fairyerrors.ErrInvalidLength) {
		t.Errorf("expected invalid length, got %v", err)
	}
	if _, err := Hash256FromLE(raw); !errors.Is(err, fairyerrors.ErrInvalidLength) {
		t.Errorf("expected invalid length, got %v", err)
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	h, err := ParseHash160(gasHash)
	if err != nil {
		t.Fatal(err)
	}
	addr := h.Address()
	if len(addr) != AddressLength || addr[0] != 'N' {
		t.Fatalf("Address() = %q, want 34 characters starting with N", addr)
	}

	back, err := ParseAddress(addr)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if back != h {
		t.Errorf("ParseAddress(%q) = %s, want %s", addr, back, h)
	}

	viaString, err := Hash160FromString(addr)
	if err != nil || viaString != h {
		t.Errorf("Hash160FromString(address) = %s, %v", viaString, err)
	}
	viaHex, err := Hash160FromString(gasHash)
	if err != nil || viaHex != h {
		t.Errorf("Hash160FromString(hex) = %s, %v", viaHex, err)
	}
}

func TestParseAddress_Corrupted(t *testing.T) {
	addr := Zero160().Address()
	last := addr[len(addr)-1]
	replacement := byte('2')
	if last == replacement {
		replacement = '3'
	}
	bad := addr[:len(addr)-1] + string(replacement)
	if _, err := ParseAddress(bad); err == nil {
		t.Error("expected checksum error")
	}
	if _, err := ParseAddress("0OIl"); err == nil {
		t.Error("expected base58 error")
	}
}

func TestTextMarshalers(t *testing.T) {
	var h Hash160
	if err := h.UnmarshalText([]byte(gasHash)); err != nil {
		t.Fatal(err)
	}
	out, _ := h.MarshalText()
	if string(out) != gasHash {
		t.Errorf("MarshalText = %s", out)
	}
	if h.IsZero() || !Zero160().IsZero() || !Zero256().IsZero() {
		t.Error("IsZero mismatch")
	}
}
