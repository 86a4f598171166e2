// Package asset defines the value-movement boundary of the invoice system.
//
// A Ledger holds balances for accounts and moves value between them. Two
// implementations exist: the native-currency Bank in this package and the
// fungible token in the token package. Snapshot and Restore model the host
// environment's all-or-nothing transaction semantics: a caller performing a
// multi-transfer operation captures a snapshot first and restores it if any
// transfer fails, so no partial payout is ever observable.
package asset

import (
	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
)

// Ledger is the minimal interface the invoice system requires from an
// asset: balance lookup, transfer, and rollback support.
type Ledger interface {
	// BalanceOf returns the current balance of the given account.
	BalanceOf(addr account.Address) big.Int

	// Transfer moves amount from one account to another. A failed
	// transfer (insufficient funds, rejecting receiver) returns an error
	// and leaves balances unchanged.
	Transfer(from, to account.Address, amount big.Int) error

	// Snapshot captures the full balance state.
	Snapshot() Snapshot

	// Restore rewinds the ledger to a previously captured snapshot.
	Restore(snap Snapshot)
}

// Snapshot is an opaque handle to a captured ledger state. Only the ledger
// that produced a snapshot can restore it.
type Snapshot interface{}

// ReceiverFunc is invoked when an account receives a native transfer.
// Returning a non-nil error rejects the transfer, which is then unwound.
// This models a receiving contract that reverts on incoming value.
type ReceiverFunc func(from, to account.Address, amount big.Int) error
