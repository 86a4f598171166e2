package asset

import "errors"

var (
	// ErrInsufficientFunds indicates the sender's balance cannot cover
	// the transfer amount.
	ErrInsufficientFunds = errors.New("asset: insufficient funds")

	// ErrTransferRejected indicates the destination's receiver hook
	// refused the incoming transfer.
	ErrTransferRejected = errors.New("asset: transfer rejected by receiver")

	// ErrNilAmount indicates an uninitialized amount was supplied.
	ErrNilAmount = errors.New("asset: nil amount")

	// ErrNegativeAmount indicates a negative transfer or deposit amount.
	ErrNegativeAmount = errors.New("asset: negative amount")
)
