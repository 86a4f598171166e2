package factory

import "errors"

var (
	// ErrOnlyOwner is returned when a caller other than the factory owner
	// invokes an owner-gated operation.
	ErrOnlyOwner = errors.New("factory: caller is not the owner")

	// ErrInvalidFeePercentage is returned when a fee rate exceeds the
	// denominator (more than 100%).
	ErrInvalidFeePercentage = errors.New("factory: invalid fee percentage")

	// ErrCloneFailed is returned when deployment would land on an address
	// already occupied by an earlier deployment.
	ErrCloneFailed = errors.New("factory: create2 failed")

	// ErrUnknownInvoice is returned when looking up an address the factory
	// never deployed to.
	ErrUnknownInvoice = errors.New("factory: unknown invoice")

	// ErrUnknownToken is returned when a persisted token invoice cannot be
	// rebound because no token resolver was supplied or the resolver does
	// not know the token.
	ErrUnknownToken = errors.New("factory: unknown token")

	ErrNullAddressOwner = errors.New("factory: owner is the null address")
	ErrNilBank          = errors.New("factory: nil bank")
	ErrCorruptRegistry  = errors.New("factory: corrupt registry")
)
