// Package account defines the 20-byte account address used throughout the
// invoice system to identify owners, controllers, distributors, payout
// recipients and contract instances.
package account

import (
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 20

// Address identifies an account. The zero value is the null address, used
// as a sentinel for "no account" (renounced owner, cleared controller,
// unset platform wallet).
type Address [AddressSize]byte

// ZeroAddress is the null address sentinel.
var ZeroAddress Address

// IsZero reports whether the address is the null address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String returns the 0x-prefixed hex encoding of the address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// FromBytes converts a byte slice into an Address.
func FromBytes(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return ZeroAddress, fmt.Errorf("%w: got %d bytes", ErrInvalidLength, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// FromHex parses a hex-encoded address, with or without a 0x prefix.
func FromHex(s string) (Address, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroAddress, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return FromBytes(b)
}

// FromPublicKey derives an address as HASH160(compressed pubkey) =
// RIPEMD160(SHA256(pubkey)).
func FromPublicKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return ZeroAddress, ErrNilPublicKey
	}
	return FromBytes(bsvhash.Hash160(pub.Compressed()))
}
