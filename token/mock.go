package token

import (
	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/asset"
)

// MockLedger is a test double for asset.Ledger. All function fields must
// be set before the corresponding method is called.
type MockLedger struct {
	BalanceOfFn func(addr account.Address) big.Int
	TransferFn  func(from, to account.Address, amount big.Int) error
	SnapshotFn  func() asset.Snapshot
	RestoreFn   func(snap asset.Snapshot)
}

var _ asset.Ledger = (*MockLedger)(nil)

func (m *MockLedger) BalanceOf(addr account.Address) big.Int {
	return m.BalanceOfFn(addr)
}

func (m *MockLedger) Transfer(from, to account.Address, amount big.Int) error {
	return m.TransferFn(from, to, amount)
}

func (m *MockLedger) Snapshot() asset.Snapshot {
	return m.SnapshotFn()
}

func (m *MockLedger) Restore(snap asset.Snapshot) {
	m.RestoreFn(snap)
}
