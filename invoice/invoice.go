// Package invoice implements the per-deal payment distribution contract:
// a ledger that holds received funds (native currency or one fungible
// token) and pays out pre-declared fixed amounts to a schedule of
// recipients, taking an optional platform fee, whenever its balance
// covers the full schedule.
//
// Every gated operation takes the caller's address explicitly; there is
// no ambient authorization. Each operation either fully commits or
// returns an error with no observable state change — a failed
// redistribution unwinds any transfers already made.
package invoice

import (
	"fmt"
	"sync"

	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/asset"
)

// Invoice is one deployed distribution contract instance. Create a shell
// with New and bring it to life with a single Initialize call; the
// factory does both.
type Invoice struct {
	mu          sync.Mutex
	initialized bool

	address      account.Address
	owner        account.Address // null after renounce
	controller   controllerState
	distributors map[account.Address]bool
	locked       bool

	assetKind    AssetKind
	tokenAddress account.Address // null for the native asset
	ledger       asset.Ledger
	platformFee  uint64 // parts per ten million, snapshotted at creation
	wallets      PlatformWalletSource

	schedule recipientLedger
	observer Observer
}

// InitParams carries everything a fresh invoice needs. The factory
// assembles it from the caller's deal parameters and its own globals.
type InitParams struct {
	Owner               account.Address
	Controller          account.Address
	Distributors        []account.Address
	ImmutableRecipients bool
	Recipients          []RecipientEntry
	Asset               AssetKind
	TokenAddress        account.Address // required when Asset == AssetToken
	Ledger              asset.Ledger
	PlatformFee         uint64
	Wallets             PlatformWalletSource // may be nil: no fee wallet
}

// New returns an uninitialized invoice shell at the given address.
func New(addr account.Address) *Invoice {
	return &Invoice{
		address:      addr,
		distributors: make(map[account.Address]bool),
		schedule:     emptyLedger(),
	}
}

// Initialize configures the invoice exactly once. Any subsequent call
// fails with ErrAlreadyInitialized regardless of arguments.
func (inv *Invoice) Initialize(p InitParams) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.initialized {
		return ErrAlreadyInitialized
	}
	if p.Owner.IsZero() {
		return ErrNullAddressOwner
	}
	if p.Ledger == nil {
		return ErrNilLedger
	}
	if p.Asset == AssetToken && p.TokenAddress.IsZero() {
		return ErrNullToken
	}

	schedule, err := buildLedger(p.Recipients)
	if err != nil {
		return err
	}

	inv.owner = p.Owner
	inv.controller = controllerState{addr: p.Controller}
	for _, d := range p.Distributors {
		inv.distributors[d] = true
	}
	inv.locked = p.ImmutableRecipients
	inv.assetKind = p.Asset
	inv.tokenAddress = p.TokenAddress
	inv.ledger = p.Ledger
	inv.platformFee = p.PlatformFee
	inv.wallets = p.Wallets
	inv.schedule = schedule
	inv.initialized = true
	return nil
}

// SetObserver attaches a lifecycle observer. Pass nil to detach.
func (inv *Invoice) SetObserver(o Observer) {
	inv.mu.Lock()
	inv.observer = o
	inv.mu.Unlock()
}

// Address returns the invoice's deterministic account address.
func (inv *Invoice) Address() account.Address { return inv.address }

// Owner returns the current owner, null after renouncement.
func (inv *Invoice) Owner() account.Address {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.owner
}

// Controller returns the current controller, null once cleared.
func (inv *Invoice) Controller() account.Address {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.controller.addr
}

// IsDistributor reports whether addr may trigger redistribution.
func (inv *Invoice) IsDistributor(addr account.Address) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.distributors[addr]
}

// IsImmutableRecipients reports whether the schedule is locked forever.
func (inv *Invoice) IsImmutableRecipients() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.locked
}

// Kind returns the configured asset kind.
func (inv *Invoice) Kind() AssetKind {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.assetKind
}

// TokenAddress returns the token account for token-asset invoices,
// null for native ones.
func (inv *Invoice) TokenAddress() account.Address {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.tokenAddress
}

// PlatformFee returns the fee rate snapshotted at creation, in parts per
// ten million.
func (inv *Invoice) PlatformFee() uint64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.platformFee
}

// Recipients returns the payout schedule in payout order.
func (inv *Invoice) Recipients() []RecipientEntry {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.schedule.copyEntries()
}

// NumberOfRecipients returns the schedule length.
func (inv *Invoice) NumberOfRecipients() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.schedule.entries)
}

// OwedTo returns the fixed amount owed to addr per redistribution, zero
// if addr is not on the schedule.
func (inv *Invoice) OwedTo(addr account.Address) big.Int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.schedule.owedTo(addr)
}

// TotalOwed returns the sum of all scheduled amounts.
func (inv *Invoice) TotalOwed() big.Int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.schedule.total.Copy()
}

// SetRecipients replaces the whole payout schedule. Controller only, and
// only while the schedule is not locked. On any validation error the
// previous schedule is left unchanged.
func (inv *Invoice) SetRecipients(caller account.Address, entries []RecipientEntry) error {
	inv.mu.Lock()
	if !inv.initialized {
		inv.mu.Unlock()
		return ErrNotInitialized
	}
	if err := inv.controller.authorize(caller); err != nil {
		inv.mu.Unlock()
		return err
	}
	if inv.locked {
		inv.mu.Unlock()
		return ErrImmutableRecipients
	}

	schedule, err := buildLedger(entries)
	if err != nil {
		inv.mu.Unlock()
		return err
	}
	inv.schedule = schedule
	count := len(schedule.entries)
	total := schedule.total.Copy()
	observer := inv.observer
	inv.mu.Unlock()

	if observer != nil {
		observer.RecipientsSet(inv.address, count, total)
		observer.StateChanged(inv)
	}
	return nil
}

// LockRecipients permanently freezes the schedule. Owner only. A second
// lock attempt fails rather than no-ops.
func (inv *Invoice) LockRecipients(caller account.Address) error {
	inv.mu.Lock()
	if err := inv.requireOwner(caller); err != nil {
		inv.mu.Unlock()
		return err
	}
	if inv.locked {
		inv.mu.Unlock()
		return ErrImmutableRecipients
	}
	inv.locked = true
	observer := inv.observer
	inv.mu.Unlock()

	inv.notifyStateChanged(observer)
	return nil
}

// SetController reassigns the configure role. Owner only. Reassignment to
// the current controller fails; once the controller is the null address
// the role is permanently immutable.
func (inv *Invoice) SetController(caller, newController account.Address) error {
	inv.mu.Lock()
	if err := inv.requireOwner(caller); err != nil {
		inv.mu.Unlock()
		return err
	}
	if err := inv.controller.reassign(newController); err != nil {
		inv.mu.Unlock()
		return err
	}
	observer := inv.observer
	inv.mu.Unlock()

	inv.notifyStateChanged(observer)
	return nil
}

// SetDistributor toggles an address's membership in the distributor set.
// Owner only.
func (inv *Invoice) SetDistributor(caller, addr account.Address, enabled bool) error {
	inv.mu.Lock()
	if err := inv.requireOwner(caller); err != nil {
		inv.mu.Unlock()
		return err
	}
	if enabled {
		inv.distributors[addr] = true
	} else {
		delete(inv.distributors, addr)
	}
	observer := inv.observer
	inv.mu.Unlock()

	inv.notifyStateChanged(observer)
	return nil
}

// TransferOwnership hands the owner role to newOwner. Owner only.
func (inv *Invoice) TransferOwnership(caller, newOwner account.Address) error {
	inv.mu.Lock()
	if err := inv.requireOwner(caller); err != nil {
		inv.mu.Unlock()
		return err
	}
	if newOwner.IsZero() {
		inv.mu.Unlock()
		return ErrNullAddressOwner
	}
	inv.owner = newOwner
	observer := inv.observer
	inv.mu.Unlock()

	inv.notifyStateChanged(observer)
	return nil
}

// RenounceOwnership sets the owner to the null address, permanently
// disabling every owner-gated operation. Owner only.
func (inv *Invoice) RenounceOwnership(caller account.Address) error {
	inv.mu.Lock()
	if err := inv.requireOwner(caller); err != nil {
		inv.mu.Unlock()
		return err
	}
	inv.owner = account.ZeroAddress
	observer := inv.observer
	inv.mu.Unlock()

	inv.notifyStateChanged(observer)
	return nil
}

// RedistributeNative pays out the schedule from the native-currency
// balance. Fails with ErrAssetMismatch on token-asset invoices.
func (inv *Invoice) RedistributeNative(caller account.Address) error {
	return inv.redistribute(caller, AssetNative)
}

// RedistributeToken pays out the schedule from the token balance. Fails
// with ErrAssetMismatch on native-asset invoices.
func (inv *Invoice) RedistributeToken(caller account.Address) error {
	return inv.redistribute(caller, AssetToken)
}

// redistribute runs the payout algorithm:
//
//  1. caller must be a distributor,
//  2. fee = floor(totalOwed * platformFee / FeeDenominator),
//  3. the held balance must cover totalOwed + fee in full — there is no
//     partial or pro-rata payout,
//  4. the fee goes to the platform wallet (read live, skipped when the
//     wallet is null or the fee is zero), then each recipient is paid its
//     fixed amount in schedule order,
//  5. any transfer failure unwinds everything,
//  6. the schedule is not consumed; surplus stays for a future call.
//
// The whole plan is computed and validated before the first transfer, so
// a reentrant call from a receiving hook observes a consistent ledger and
// simply fails its own balance check.
func (inv *Invoice) redistribute(caller account.Address, want AssetKind) error {
	inv.mu.Lock()
	if !inv.initialized {
		inv.mu.Unlock()
		return ErrNotInitialized
	}
	if inv.assetKind != want {
		inv.mu.Unlock()
		return fmt.Errorf("%w: invoice asset is %s", ErrAssetMismatch, inv.assetKind)
	}
	if !inv.distributors[caller] {
		inv.mu.Unlock()
		return ErrOnlyDistributor
	}
	if len(inv.schedule.entries) == 0 {
		inv.mu.Unlock()
		return ErrEmptySchedule
	}

	entries := inv.schedule.copyEntries()
	total := inv.schedule.total.Copy()
	fee := big.Div(big.Mul(total, big.NewInt(int64(inv.platformFee))), big.NewInt(FeeDenominator))
	required := big.Add(total, fee)

	ledger := inv.ledger
	source := inv.wallets
	observer := inv.observer

	balance := ledger.BalanceOf(inv.address)
	if balance.LessThan(required) {
		inv.mu.Unlock()
		return fmt.Errorf("%w: balance %s, required %s", ErrLowBalance, balance, required)
	}
	inv.mu.Unlock()

	wallet := account.ZeroAddress
	if source != nil {
		wallet = source.PlatformWallet()
	}

	snap := ledger.Snapshot()

	if fee.Sign() > 0 && !wallet.IsZero() {
		if err := ledger.Transfer(inv.address, wallet, fee); err != nil {
			ledger.Restore(snap)
			return fmt.Errorf("%w: platform fee to %s: %w", ErrTransferFailed, wallet, err)
		}
	}

	for _, e := range entries {
		if err := ledger.Transfer(inv.address, e.Recipient, e.Amount); err != nil {
			ledger.Restore(snap)
			return fmt.Errorf("%w: payout to %s: %w", ErrTransferFailed, e.Recipient, err)
		}
	}

	if observer != nil {
		observer.Distributed(inv.address, fee, total)
	}
	return nil
}

// requireOwner gates owner-only operations. A renounced owner (null
// address) authorizes nobody. Caller must hold mu.
func (inv *Invoice) requireOwner(caller account.Address) error {
	if !inv.initialized {
		return ErrNotInitialized
	}
	if inv.owner.IsZero() || caller != inv.owner {
		return ErrOnlyOwner
	}
	return nil
}

func (inv *Invoice) notifyStateChanged(observer Observer) {
	if observer != nil {
		observer.StateChanged(inv)
	}
}
