// Package factory deploys and tracks invoice contracts. Deployment is
// deterministic: the address of a new invoice is derived create2-style
// from the factory address, the creator and the full set of deal
// parameters, so the same creation request always lands on the same
// address — and a repeat of an already-executed request fails instead of
// deploying twice.
//
// The factory owns two platform globals, the fee rate and the fee wallet.
// The rate is snapshotted into each invoice at creation; the wallet is
// read live at every redistribution. Everything the factory knows — its
// identity, globals, deployments with their latest state, and an event
// journal — is persisted in a bbolt database and survives reopening.
package factory

import (
	"fmt"
	"sync"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/asset"
	"github.com/revenue-share-labs/contracts-invoice/config"
	"github.com/revenue-share-labs/contracts-invoice/invoice"
	"github.com/revenue-share-labs/contracts-invoice/token"
)

// TokenResolver maps a token address back to its live ledger when the
// factory reopens persisted token invoices.
type TokenResolver func(account.Address) (asset.Ledger, error)

// CreateParams carries the deal parameters of one invoice deployment. The
// caller of CreateInvoice becomes the invoice owner.
type CreateParams struct {
	Controller          account.Address
	Distributors        []account.Address
	ImmutableRecipients bool
	Recipients          []invoice.RecipientEntry
	Token               *token.Token // nil deploys a native-currency invoice
	CreationID          [32]byte
}

// Deployment describes one deployed invoice.
type Deployment struct {
	Address    account.Address
	Creator    account.Address
	CreationID [32]byte
}

// factoryMeta is the persisted factory identity and globals.
type factoryMeta struct {
	Address        account.Address
	Owner          account.Address
	PlatformFee    uint64
	PlatformWallet account.Address
}

// Factory deploys invoices and serves as their platform wallet source and
// lifecycle observer.
type Factory struct {
	mu  sync.Mutex
	reg *registry

	bank   *asset.Bank
	tokens TokenResolver

	address account.Address // fixed at first open
	impl    account.Address // derived from address, fixed

	owner          account.Address
	platformFee    uint64
	platformWallet account.Address

	invoices map[account.Address]*invoice.Invoice

	fresh bool // true when Open minted a new identity
}

// Compile-time interface checks.
var (
	_ invoice.PlatformWalletSource = (*Factory)(nil)
	_ invoice.Observer             = (*Factory)(nil)
)

// Open opens or creates a factory backed by the registry database at
// dbPath. On a fresh database the factory mints its identity and records
// owner; on an existing one the persisted identity, globals and
// deployments are restored and owner is ignored. Token invoices are
// rebound through tokens, which may be nil when none were deployed.
func Open(dbPath string, owner account.Address, bank *asset.Bank, tokens TokenResolver) (*Factory, error) {
	if bank == nil {
		return nil, ErrNilBank
	}

	reg, err := openRegistry(dbPath)
	if err != nil {
		return nil, err
	}

	meta, found, err := reg.LoadMeta()
	if err != nil {
		_ = reg.Close()
		return nil, err
	}
	fresh := !found
	if !found {
		if owner.IsZero() {
			_ = reg.Close()
			return nil, ErrNullAddressOwner
		}
		addr, err := newFactoryAddress()
		if err != nil {
			_ = reg.Close()
			return nil, err
		}
		meta = factoryMeta{Address: addr, Owner: owner}
		if err := reg.SaveMeta(meta); err != nil {
			_ = reg.Close()
			return nil, err
		}
	}

	f := &Factory{
		reg:            reg,
		bank:           bank,
		tokens:         tokens,
		address:        meta.Address,
		impl:           implementationAddress(meta.Address),
		owner:          meta.Owner,
		platformFee:    meta.PlatformFee,
		platformWallet: meta.PlatformWallet,
		invoices:       make(map[account.Address]*invoice.Invoice),
		fresh:          fresh,
	}
	if err := f.restoreDeployments(); err != nil {
		_ = reg.Close()
		return nil, err
	}
	return f, nil
}

// OpenFromConfig opens a factory as described by cfg. On a fresh registry
// the configured owner, fee rate and wallet become the starting globals;
// on an existing one the persisted values win, as with Open.
func OpenFromConfig(cfg config.Config, bank *asset.Bank, tokens TokenResolver) (*Factory, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	owner, err := cfg.OwnerAddress()
	if err != nil {
		return nil, err
	}
	wallet, err := cfg.WalletAddress()
	if err != nil {
		return nil, err
	}

	f, err := Open(cfg.RegistryPath(), owner, bank, tokens)
	if err != nil {
		return nil, err
	}
	if f.fresh {
		f.mu.Lock()
		f.platformFee = cfg.PlatformFee
		f.platformWallet = wallet
		err := f.saveMeta()
		f.mu.Unlock()
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// newFactoryAddress mints a fresh identity from a throwaway keypair.
func newFactoryAddress() (account.Address, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return account.ZeroAddress, fmt.Errorf("factory: generate identity: %w", err)
	}
	return account.FromPublicKey(priv.PubKey())
}

// restoreDeployments rebuilds every persisted invoice into a live one.
func (f *Factory) restoreDeployments() error {
	records, err := f.reg.Deployments()
	if err != nil {
		return err
	}
	for _, rec := range records {
		state, err := invoice.DecodeState(rec.State)
		if err != nil {
			return fmt.Errorf("factory: restore %s: %w", rec.Address, err)
		}

		var ledger asset.Ledger = f.bank
		if state.Asset == invoice.AssetToken {
			if f.tokens == nil {
				return fmt.Errorf("%w: %s (no resolver)", ErrUnknownToken, state.TokenAddress)
			}
			ledger, err = f.tokens(state.TokenAddress)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrUnknownToken, state.TokenAddress, err)
			}
		}

		inv, err := invoice.FromState(rec.Address, state, ledger, f)
		if err != nil {
			return fmt.Errorf("factory: restore %s: %w", rec.Address, err)
		}
		inv.SetObserver(f)
		f.invoices[rec.Address] = inv
	}
	return nil
}

// Close closes the registry database. Live invoices keep working but
// mutations are no longer persisted.
func (f *Factory) Close() error { return f.reg.Close() }

// Address returns the factory's own account address.
func (f *Factory) Address() account.Address { return f.address }

// Implementation returns the clone implementation address shared by every
// invoice this factory deploys.
func (f *Factory) Implementation() account.Address { return f.impl }

// CloneCodeHash returns the init-code hash of the proxy this factory
// deploys, the verifiable ingredient of address prediction.
func (f *Factory) CloneCodeHash() []byte { return cloneCodeHash(f.impl) }

// Owner returns the factory owner, null after renouncement.
func (f *Factory) Owner() account.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owner
}

// PlatformFee returns the current global fee rate in parts per ten
// million. Only invoices created after a change pick it up.
func (f *Factory) PlatformFee() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.platformFee
}

// PlatformWallet returns the current fee wallet. Invoices read it through
// this method at every redistribution, so changes apply retroactively.
func (f *Factory) PlatformWallet() account.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.platformWallet
}

// PredictAddress computes the address CreateInvoice would deploy to for
// the given creator and parameters, without deploying.
func (f *Factory) PredictAddress(creator account.Address, p CreateParams) account.Address {
	return predictCloneAddress(f.address, deploymentSalt(creator, p), f.impl)
}

// CreateInvoice deploys a new invoice at its deterministic address. caller
// becomes the invoice owner; the factory's current fee rate is snapshotted
// into it. Repeating an identical creation fails with ErrCloneFailed.
func (f *Factory) CreateInvoice(caller account.Address, p CreateParams) (*invoice.Invoice, error) {
	addr := f.PredictAddress(caller, p)

	f.mu.Lock()
	defer f.mu.Unlock()

	// The persisted registry is the source of truth for occupancy; the
	// in-memory map only caches the live instances.
	taken, err := f.reg.HasDeployment(addr)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s is occupied", ErrCloneFailed, addr)
	}

	kind := invoice.AssetNative
	tokenAddr := account.ZeroAddress
	var ledger asset.Ledger = f.bank
	if p.Token != nil {
		kind = invoice.AssetToken
		tokenAddr = p.Token.Address()
		ledger = p.Token
	}

	inv := invoice.New(addr)
	err = inv.Initialize(invoice.InitParams{
		Owner:               caller,
		Controller:          p.Controller,
		Distributors:        p.Distributors,
		ImmutableRecipients: p.ImmutableRecipients,
		Recipients:          p.Recipients,
		Asset:               kind,
		TokenAddress:        tokenAddr,
		Ledger:              ledger,
		PlatformFee:         f.platformFee,
		Wallets:             f,
	})
	if err != nil {
		return nil, err
	}

	state, err := inv.State().Encode()
	if err != nil {
		return nil, err
	}
	rec := &deploymentRecord{
		Address:    addr,
		Creator:    caller,
		CreationID: p.CreationID,
		State:      state,
	}
	if err := f.reg.PutDeployment(rec); err != nil {
		return nil, err
	}
	if _, err := f.reg.AppendEvent(&eventRecord{
		Kind:    EventInvoiceCreated,
		Invoice: addr,
		Account: caller,
	}); err != nil {
		return nil, err
	}

	inv.SetObserver(f)
	f.invoices[addr] = inv
	return inv, nil
}

// Invoice returns the deployed invoice at addr.
func (f *Factory) Invoice(addr account.Address) (*invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInvoice, addr)
	}
	return inv, nil
}

// Deployments lists every deployment in address order.
func (f *Factory) Deployments() ([]Deployment, error) {
	records, err := f.reg.Deployments()
	if err != nil {
		return nil, err
	}
	out := make([]Deployment, len(records))
	for i, rec := range records {
		out[i] = Deployment{
			Address:    rec.Address,
			Creator:    rec.Creator,
			CreationID: rec.CreationID,
		}
	}
	return out, nil
}

// Events returns the journaled events with sequence numbers greater than
// after, oldest first. Pass 0 for the full journal.
func (f *Factory) Events(after uint64) ([]Event, error) {
	records, err := f.reg.Events(after)
	if err != nil {
		return nil, err
	}
	out := make([]Event, len(records))
	for i, rec := range records {
		out[i] = rec.event()
	}
	return out, nil
}

// SetPlatformFee sets the global fee rate for future creations. Owner
// only. Rates above FeeDenominator (100%) are rejected.
func (f *Factory) SetPlatformFee(caller account.Address, fee uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireOwner(caller); err != nil {
		return err
	}
	if fee > invoice.FeeDenominator {
		return fmt.Errorf("%w: %d exceeds denominator %d", ErrInvalidFeePercentage, fee, invoice.FeeDenominator)
	}
	f.platformFee = fee
	if err := f.saveMeta(); err != nil {
		return err
	}
	_, err := f.reg.AppendEvent(&eventRecord{
		Kind:  EventPlatformFeeChanged,
		Count: int(fee),
	})
	return err
}

// SetPlatformWallet sets the global fee wallet, effective immediately for
// every deployed invoice. Owner only. The null address disables fee
// transfers.
func (f *Factory) SetPlatformWallet(caller, wallet account.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireOwner(caller); err != nil {
		return err
	}
	f.platformWallet = wallet
	if err := f.saveMeta(); err != nil {
		return err
	}
	_, err := f.reg.AppendEvent(&eventRecord{
		Kind:    EventPlatformWalletChanged,
		Account: wallet,
	})
	return err
}

// TransferOwnership hands the factory owner role to newOwner. Owner only.
func (f *Factory) TransferOwnership(caller, newOwner account.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireOwner(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrNullAddressOwner
	}
	f.owner = newOwner
	return f.saveMeta()
}

// RenounceOwnership sets the factory owner to the null address,
// permanently freezing the platform globals. Owner only.
func (f *Factory) RenounceOwnership(caller account.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireOwner(caller); err != nil {
		return err
	}
	f.owner = account.ZeroAddress
	return f.saveMeta()
}

// requireOwner gates owner-only operations. Caller must hold mu.
func (f *Factory) requireOwner(caller account.Address) error {
	if f.owner.IsZero() || caller != f.owner {
		return ErrOnlyOwner
	}
	return nil
}

// saveMeta persists the current globals. Caller must hold mu.
func (f *Factory) saveMeta() error {
	return f.reg.SaveMeta(factoryMeta{
		Address:        f.address,
		Owner:          f.owner,
		PlatformFee:    f.platformFee,
		PlatformWallet: f.platformWallet,
	})
}

// StateChanged implements invoice.Observer: it refreshes the persisted
// state snapshot of the mutated invoice. Persistence failures are dropped;
// the in-memory invoice stays authoritative until the next snapshot.
func (f *Factory) StateChanged(inv *invoice.Invoice) {
	state, err := inv.State().Encode()
	if err != nil {
		return
	}
	rec, err := f.reg.GetDeployment(inv.Address())
	if err != nil || rec == nil {
		return
	}
	rec.State = state
	_ = f.reg.PutDeployment(rec)
}

// RecipientsSet implements invoice.Observer: it journals the schedule
// replacement.
func (f *Factory) RecipientsSet(addr account.Address, count int, totalOwed big.Int) {
	_, _ = f.reg.AppendEvent(&eventRecord{
		Kind:    EventRecipientsSet,
		Invoice: addr,
		Count:   count,
		Amount:  bigToBytes(totalOwed),
	})
}

// Distributed implements invoice.Observer: it journals the payout.
func (f *Factory) Distributed(addr account.Address, fee, amount big.Int) {
	_, _ = f.reg.AppendEvent(&eventRecord{
		Kind:    EventDistributed,
		Invoice: addr,
		Amount:  bigToBytes(amount),
		Fee:     bigToBytes(fee),
	})
}
