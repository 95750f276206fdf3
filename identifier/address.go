package identifier

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"

	"github.com/wippyai/fairy-rpc/errors"
)

// AddressVersion is the N3 address version byte; it makes addresses start with 'N'.
const AddressVersion byte = 0x35

// AddressLength is the length of a base58 N3 address.
const AddressLength = 34

// Address renders the script hash as a base58check N3 address.
func (h Hash160) Address() string {
	payload := make([]byte, 0, 1+Hash160Size+4)
	payload = append(payload, AddressVersion)
	payload = append(payload, h[:]...)
	payload = append(payload, checksum(payload)...)
	return base58.Encode(payload)
}

// ParseAddress decodes a base58check N3 address into its script hash.
func ParseAddress(addr string) (Hash160, error) {
	var h Hash160
	raw, err := base58.Decode(addr)
	if err != nil {
		return h, errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Detail("address %q is not base58", addr).
			Cause(err).
			Build()
	}
	if len(raw) != 1+Hash160Size+4 {
		return h, errors.InvalidLength("address payload", len(raw), 1+Hash160Size+4)
	}
	if raw[0] != AddressVersion {
		return h, errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Detail("address version %#x, want %#x", raw[0], AddressVersion).
			Value(addr).
			Build()
	}
	body, sum := raw[:1+Hash160Size], raw[1+Hash160Size:]
	if !bytes.Equal(checksum(body), sum) {
		return h, errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Detail("address %q has a bad checksum", addr).
			Build()
	}
	copy(h[:], body[1:])
	return h, nil
}

func checksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:4]
}
