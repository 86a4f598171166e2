// Package token provides the fungible-token collaborator consumed by
// token-asset invoices. The invoice system only depends on the
// asset.Ledger surface (balance lookup and transfer); everything else
// here — minting, supply tracking — exists so the token can be operated
// in-process and in tests.
package token

import (
	"fmt"
	"sync"

	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/asset"
)

// Token is an in-memory fungible token ledger. It lives at its own
// account address, which is what deal parameters reference when an
// invoice is configured for token payouts.
type Token struct {
	address account.Address
	name    string
	symbol  string

	mu          sync.Mutex
	balances    map[account.Address]big.Int
	totalSupply big.Int
}

var _ asset.Ledger = (*Token)(nil)

// New creates a token ledger with no supply. addr is the token's own
// account address and must not be the null address.
func New(addr account.Address, name, symbol string) (*Token, error) {
	if addr.IsZero() {
		return nil, ErrNullTokenAddress
	}
	return &Token{
		address:     addr,
		name:        name,
		symbol:      symbol,
		balances:    make(map[account.Address]big.Int),
		totalSupply: big.Zero(),
	}, nil
}

// Address returns the token's own account address.
func (t *Token) Address() account.Address { return t.address }

// Name returns the token name.
func (t *Token) Name() string { return t.name }

// Symbol returns the token symbol.
func (t *Token) Symbol() string { return t.symbol }

// TotalSupply returns the total minted supply.
func (t *Token) TotalSupply() big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalSupply.Copy()
}

// Mint credits amount to addr and grows the total supply.
func (t *Token) Mint(addr account.Address, amount big.Int) error {
	if err := asset.ValidateAmount(amount); err != nil {
		return err
	}
	if addr.IsZero() {
		return ErrNullRecipient
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[addr] = big.Add(t.balance(addr), amount)
	t.totalSupply = big.Add(t.totalSupply, amount)
	return nil
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr account.Address) big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balance(addr)
}

// Transfer moves amount between holders. Fails without moving anything
// when the sender's balance is insufficient.
func (t *Token) Transfer(from, to account.Address, amount big.Int) error {
	if err := asset.ValidateAmount(amount); err != nil {
		return err
	}
	if to.IsZero() {
		return ErrNullRecipient
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	bal := t.balance(from)
	if bal.LessThan(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from, bal, amount)
	}
	t.balances[from] = big.Sub(bal, amount)
	t.balances[to] = big.Add(t.balance(to), amount)
	return nil
}

// Snapshot captures the current holder balances.
func (t *Token) Snapshot() asset.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := tokenSnapshot{
		balances:    make(map[account.Address]big.Int, len(t.balances)),
		totalSupply: t.totalSupply.Copy(),
	}
	for addr, bal := range t.balances {
		snap.balances[addr] = bal.Copy()
	}
	return snap
}

// Restore rewinds balances and supply to a snapshot previously taken from
// this token. Panics if the snapshot came from a different ledger type.
func (t *Token) Restore(snap asset.Snapshot) {
	s := snap.(tokenSnapshot)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances = make(map[account.Address]big.Int, len(s.balances))
	for addr, bal := range s.balances {
		t.balances[addr] = bal.Copy()
	}
	t.totalSupply = s.totalSupply.Copy()
}

// balance returns the holder balance. Caller must hold mu.
func (t *Token) balance(addr account.Address) big.Int {
	if bal, ok := t.balances[addr]; ok {
		return bal.Copy()
	}
	return big.Zero()
}

type tokenSnapshot struct {
	balances    map[account.Address]big.Int
	totalSupply big.Int
}
