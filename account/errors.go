package account

import "errors"

var (
	// ErrInvalidLength indicates the input is not exactly 20 bytes.
	ErrInvalidLength = errors.New("account: address must be 20 bytes")

	// ErrInvalidHex indicates the input is not valid hex.
	ErrInvalidHex = errors.New("account: invalid hex address")

	// ErrNilPublicKey indicates a nil public key was supplied.
	ErrNilPublicKey = errors.New("account: nil public key")
)
