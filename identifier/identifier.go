// Package identifier implements the fixed-width identifiers that travel in
// stack items: 20-byte script hashes, 32-byte transaction/block hashes and
// 33-byte compressed public keys.
//
// Hashes are stored little-endian, the way the VM keeps them, and rendered
// as big-endian hex with a 0x prefix. Public keys are kept in their encoded
// point order and rendered as bare hex.
package identifier

import (
	"encoding/hex"
	"strings"

	"github.com/wippyai/fairy-rpc/errors"
)

const (
	Hash160Size   = 20
	Hash256Size   = 32
	PublicKeySize = 33
)

// Hash160 is a 20-byte script hash, little-endian.
type Hash160 [Hash160Size]byte

// Hash256 is a 32-byte hash, little-endian.
type Hash256 [Hash256Size]byte

// PublicKey is a 33-byte compressed EC point.
type PublicKey [PublicKeySize]byte

// Zero160 returns the all-zero script hash.
func Zero160() Hash160 { return Hash160{} }

// Zero256 returns the all-zero hash.
func Zero256() Hash256 { return Hash256{} }

// Hash160FromLE copies little-endian bytes into a Hash160.
func Hash160FromLE(b []byte) (Hash160, error) {
	var h Hash160
	if len(b) != Hash160Size {
		return h, errors.InvalidLength("Hash160", len(b), Hash160Size)
	}
	copy(h[:], b)
	return h, nil
}

// Hash256FromLE copies little-endian bytes into a Hash256.
func Hash256FromLE(b []byte) (Hash256, error) {
	var h Hash256
	if len(b) != Hash256Size {
		return h, errors.InvalidLength("Hash256", len(b), Hash256Size)
	}
	copy(h[:], b)
	return h, nil
}

// ParseHash160 parses big-endian hex, with or without the 0x prefix.
func ParseHash160(s string) (Hash160, error) {
	var h Hash160
	b, err := decodeHex("Hash160", s, Hash160Size)
	if err != nil {
		return h, err
	}
	reverseInto(h[:], b)
	return h, nil
}

// ParseHash256 parses big-endian hex, with or without the 0x prefix.
func ParseHash256(s string) (Hash256, error) {
	var h Hash256
	b, err := decodeHex("Hash256", s, Hash256Size)
	if err != nil {
		return h, err
	}
	reverseInto(h[:], b)
	return h, nil
}

// Hash160FromString accepts either a hex script hash or an N3 address.
func Hash160FromString(s string) (Hash160, error) {
	if strings.HasPrefix(s, "N") && len(s) == AddressLength {
		return ParseAddress(s)
	}
	return ParseHash160(s)
}

// String renders the hash as 0x-prefixed big-endian hex.
func (h Hash160) String() string { return "0x" + hex.EncodeToString(h.BytesBE()) }

// BytesLE returns a copy of the little-endian bytes.
func (h Hash160) BytesLE() []byte { return append([]byte(nil), h[:]...) }

// BytesBE returns the bytes in big-endian order.
func (h Hash160) BytesBE() []byte { return reversed(h[:]) }

// IsZero reports whether all bytes are zero.
func (h Hash160) IsZero() bool { return h == Hash160{} }

func (h Hash160) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash160) UnmarshalText(text []byte) error {
	parsed, err := ParseHash160(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// String renders the hash as 0x-prefixed big-endian hex.
func (h Hash256) String() string { return "0x" + hex.EncodeToString(h.BytesBE()) }

// BytesLE returns a copy of the little-endian bytes.
func (h Hash256) BytesLE() []byte { return append([]byte(nil), h[:]...) }

// BytesBE returns the bytes in big-endian order.
func (h Hash256) BytesBE() []byte { return reversed(h[:]) }

// IsZero reports whether all bytes are zero.
func (h Hash256) IsZero() bool { return h == Hash256{} }

func (h Hash256) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash256) UnmarshalText(text []byte) error {
	parsed, err := ParseHash256(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParsePublicKey parses 66 hex characters of a compressed point.
func ParsePublicKey(s string) (PublicKey, error) {
	var k PublicKey
	b, err := decodeHex("PublicKey", s, PublicKeySize)
	if err != nil {
		return k, err
	}
	if b[0] != 0x02 && b[0] != 0x03 {
		return k, badPrefix(b[0]).Value(s).Build()
	}
	copy(k[:], b)
	return k, nil
}

// Validate checks the compressed point prefix.
func (k PublicKey) Validate() error {
	if k[0] != 0x02 && k[0] != 0x03 {
		return badPrefix(k[0]).Build()
	}
	return nil
}

func badPrefix(p byte) *errors.Builder {
	return errors.New(errors.PhaseValidate, errors.KindInvalidData).
		Detail("PublicKey prefix must be 02 or 03, got %02x", p)
}

// String renders the key as bare hex.
func (k PublicKey) String() string { return hex.EncodeToString(k[:]) }

// Bytes returns a copy of the encoded point.
func (k PublicKey) Bytes() []byte { return append([]byte(nil), k[:]...) }

func (k PublicKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func decodeHex(what, s string, size int) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != size*2 {
		return nil, errors.New(errors.PhaseValidate, errors.KindInvalidLength).
			Detail("%s must be %d hex characters, got %d", what, size*2, len(s)).
			Value(s).
			Build()
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Detail("%s is not valid hex", what).
			Value(s).
			Cause(err).
			Build()
	}
	return b, nil
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	reverseInto(out, b)
	return out
}

func reverseInto(dst, src []byte) {
	n := len(src)
	for i := range src {
		dst[n-1-i] = src[i]
	}
}
