package asset

import (
	"fmt"
	"sync"

	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
)

// Bank is the native-currency ledger. Balances are created by Deposit
// (modeling inbound funding from outside the system) and moved by Transfer.
//
// An account may register a ReceiverFunc which is consulted on every
// incoming transfer and can reject it; the transfer is then unwound and
// reported as failed. Hooks run without the bank lock held, so a hook may
// call back into the bank (or into an invoice) without deadlocking.
type Bank struct {
	mu        sync.Mutex
	balances  map[account.Address]big.Int
	receivers map[account.Address]ReceiverFunc
}

var _ Ledger = (*Bank)(nil)

// NewBank returns an empty native-currency ledger.
func NewBank() *Bank {
	return &Bank{
		balances:  make(map[account.Address]big.Int),
		receivers: make(map[account.Address]ReceiverFunc),
	}
}

// Deposit credits amount to addr, creating the balance out of thin air.
// Receiver hooks are not consulted: funding an account is always accepted.
func (b *Bank) Deposit(addr account.Address, amount big.Int) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(addr, amount)
	return nil
}

// BalanceOf returns the current balance of addr. Accounts that never
// received funds have a zero balance.
func (b *Bank) BalanceOf(addr account.Address) big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance(addr)
}

// SetReceiver registers a hook consulted on incoming transfers to addr.
// Passing nil removes the hook.
func (b *Bank) SetReceiver(addr account.Address, fn ReceiverFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if fn == nil {
		delete(b.receivers, addr)
		return
	}
	b.receivers[addr] = fn
}

// Transfer moves amount from one account to another. The receiver hook of
// the destination account, if any, runs after the balances move; if it
// rejects, the movement is unwound and ErrTransferRejected is returned.
func (b *Bank) Transfer(from, to account.Address, amount big.Int) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	b.mu.Lock()
	bal := b.balance(from)
	if bal.LessThan(amount) {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, from, bal, amount)
	}
	b.debit(from, amount)
	b.credit(to, amount)
	hook := b.receivers[to]
	b.mu.Unlock()

	if hook == nil {
		return nil
	}
	if err := hook(from, to, amount); err != nil {
		b.mu.Lock()
		b.debit(to, amount)
		b.credit(from, amount)
		b.mu.Unlock()
		return fmt.Errorf("%w: %s: %w", ErrTransferRejected, to, err)
	}
	return nil
}

// Snapshot captures the current balances. Receiver hooks are configuration,
// not state, and are not captured.
func (b *Bank) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyBalances(b.balances)
}

// Restore rewinds balances to a snapshot previously taken from this bank.
// Panics if the snapshot came from a different ledger type.
func (b *Bank) Restore(snap Snapshot) {
	balances := snap.(map[account.Address]big.Int)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances = copyBalances(balances)
}

// balance returns the balance of addr. Caller must hold mu.
func (b *Bank) balance(addr account.Address) big.Int {
	if bal, ok := b.balances[addr]; ok {
		return bal.Copy()
	}
	return big.Zero()
}

func (b *Bank) credit(addr account.Address, amount big.Int) {
	b.balances[addr] = big.Add(b.balance(addr), amount)
}

func (b *Bank) debit(addr account.Address, amount big.Int) {
	b.balances[addr] = big.Sub(b.balance(addr), amount)
}

func copyBalances(src map[account.Address]big.Int) map[account.Address]big.Int {
	dst := make(map[account.Address]big.Int, len(src))
	for addr, bal := range src {
		dst[addr] = bal.Copy()
	}
	return dst
}

// ValidateAmount rejects nil and negative amounts.
func ValidateAmount(amount big.Int) error {
	if amount.Nil() {
		return ErrNilAmount
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	return nil
}
