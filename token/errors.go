package token

import "errors"

var (
	// ErrInsufficientBalance indicates the sender cannot cover the
	// transfer amount.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrNullRecipient indicates a mint or transfer to the null address.
	ErrNullRecipient = errors.New("token: null recipient address")

	// ErrNullTokenAddress indicates the token was given the null address
	// as its own account.
	ErrNullTokenAddress = errors.New("token: null token address")
)
