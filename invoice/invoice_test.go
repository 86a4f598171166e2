package invoice

import (
	"testing"

	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/asset"
	"github.com/revenue-share-labs/contracts-invoice/token"
)

func makeAddr(seed byte) account.Address {
	var addr account.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

// eth returns n * 10^18, the native currency's base-unit scale.
func eth(n int64) big.Int {
	return big.Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

var (
	owner       = makeAddr(0x01)
	alice       = makeAddr(0xAA)
	bob         = makeAddr(0xBB)
	carol       = makeAddr(0xCC)
	dave        = makeAddr(0xDD)
	invoiceAddr = makeAddr(0xF0)
)

// walletStub is a settable PlatformWalletSource.
type walletStub struct {
	addr account.Address
}

func (w *walletStub) PlatformWallet() account.Address { return w.addr }

func newNativeInvoice(t *testing.T, bank *asset.Bank, p InitParams) *Invoice {
	t.Helper()
	if p.Owner.IsZero() {
		p.Owner = owner
	}
	if p.Controller.IsZero() {
		p.Controller = owner
	}
	if p.Distributors == nil {
		p.Distributors = []account.Address{owner}
	}
	p.Asset = AssetNative
	p.Ledger = bank
	inv := New(invoiceAddr)
	require.NoError(t, inv.Initialize(p))
	return inv
}

func TestInitialize_BaseAttrs(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{
		Recipients:  []RecipientEntry{{Recipient: alice, Amount: big.NewInt(10_000_000)}},
		PlatformFee: 0,
	})

	assert.Equal(t, owner, inv.Owner())
	assert.Equal(t, owner, inv.Controller())
	assert.True(t, inv.IsDistributor(owner))
	assert.False(t, inv.IsDistributor(alice))
	assert.False(t, inv.IsImmutableRecipients())
	assert.Equal(t, AssetNative, inv.Kind())
	assert.Equal(t, invoiceAddr, inv.Address())
	assert.Equal(t, 1, inv.NumberOfRecipients())
	assert.Equal(t, big.NewInt(10_000_000), inv.TotalOwed())
}

func TestInitialize_OnlyOnce(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{})

	err := inv.Initialize(InitParams{
		Owner:  bob,
		Ledger: bank,
	})
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, owner, inv.Owner())
}

func TestInitialize_Invalid(t *testing.T) {
	bank := asset.NewBank()

	tests := []struct {
		name string
		p    InitParams
		want error
	}{
		{"null owner", InitParams{Ledger: bank}, ErrNullAddressOwner},
		{"nil ledger", InitParams{Owner: owner}, ErrNilLedger},
		{"token without address", InitParams{Owner: owner, Ledger: bank, Asset: AssetToken}, ErrNullToken},
		{"null recipient", InitParams{
			Owner:      owner,
			Ledger:     bank,
			Recipients: []RecipientEntry{{Recipient: account.ZeroAddress, Amount: big.NewInt(1)}},
		}, ErrNullAddressRecipient},
		{"duplicate recipient", InitParams{
			Owner:  owner,
			Ledger: bank,
			Recipients: []RecipientEntry{
				{Recipient: alice, Amount: big.NewInt(1)},
				{Recipient: alice, Amount: big.NewInt(2)},
			},
		}, ErrRecipientAlreadyAdded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(invoiceAddr).Initialize(tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLockRecipients(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{})

	assert.ErrorIs(t, inv.LockRecipients(alice), ErrOnlyOwner)
	assert.False(t, inv.IsImmutableRecipients())

	require.NoError(t, inv.LockRecipients(owner))
	assert.True(t, inv.IsImmutableRecipients())

	// A second lock attempt fails rather than no-ops.
	assert.ErrorIs(t, inv.LockRecipients(owner), ErrImmutableRecipients)
	assert.True(t, inv.IsImmutableRecipients())
}

func TestSetRecipients(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{
		Recipients: []RecipientEntry{{Recipient: alice, Amount: big.NewInt(10_000_000)}},
	})

	entries := []RecipientEntry{
		{Recipient: alice, Amount: big.NewInt(2_000_000)},
		{Recipient: carol, Amount: big.NewInt(5_000_000)},
		{Recipient: dave, Amount: big.NewInt(3_000_000)},
	}

	assert.ErrorIs(t, inv.SetRecipients(carol, entries), ErrOnlyController)

	require.NoError(t, inv.SetRecipients(owner, entries))

	got := inv.Recipients()
	require.Len(t, got, 3)
	assert.Equal(t, alice, got[0].Recipient)
	assert.Equal(t, carol, got[1].Recipient)
	assert.Equal(t, dave, got[2].Recipient)
	assert.Equal(t, big.NewInt(2_000_000), inv.OwedTo(alice))
	assert.Equal(t, big.NewInt(5_000_000), inv.OwedTo(carol))
	assert.Equal(t, big.NewInt(3_000_000), inv.OwedTo(dave))
	assert.True(t, inv.OwedTo(bob).Sign() == 0)
	assert.Equal(t, 3, inv.NumberOfRecipients())
	assert.Equal(t, big.NewInt(10_000_000), inv.TotalOwed())

	// Clearing the controller disables configuration for good.
	require.NoError(t, inv.SetController(owner, account.ZeroAddress))
	assert.ErrorIs(t, inv.SetRecipients(owner, entries), ErrOnlyController)
}

func TestSetRecipients_Validation(t *testing.T) {
	bank := asset.NewBank()
	prior := []RecipientEntry{{Recipient: alice, Amount: big.NewInt(10_000_000)}}
	inv := newNativeInvoice(t, bank, InitParams{Recipients: prior})

	err := inv.SetRecipients(owner, []RecipientEntry{
		{Recipient: alice, Amount: big.NewInt(5_000_000)},
		{Recipient: account.ZeroAddress, Amount: big.NewInt(5_000_000)},
	})
	assert.ErrorIs(t, err, ErrNullAddressRecipient)

	err = inv.SetRecipients(owner, []RecipientEntry{
		{Recipient: alice, Amount: big.NewInt(5_000_000)},
		{Recipient: alice, Amount: big.NewInt(5_000_000)},
	})
	assert.ErrorIs(t, err, ErrRecipientAlreadyAdded)

	// Failed replacement leaves the prior schedule untouched.
	got := inv.Recipients()
	require.Len(t, got, 1)
	assert.Equal(t, alice, got[0].Recipient)
	assert.Equal(t, big.NewInt(10_000_000), inv.TotalOwed())
}

func TestSetRecipients_Locked(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{})

	require.NoError(t, inv.LockRecipients(owner))
	err := inv.SetRecipients(owner, []RecipientEntry{{Recipient: alice, Amount: big.NewInt(1)}})
	assert.ErrorIs(t, err, ErrImmutableRecipients)
}

func TestSetRecipients_ImmutableFromCreation(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{
		ImmutableRecipients: true,
		Recipients:          []RecipientEntry{{Recipient: alice, Amount: big.NewInt(1)}},
	})

	assert.True(t, inv.IsImmutableRecipients())
	err := inv.SetRecipients(owner, []RecipientEntry{{Recipient: bob, Amount: big.NewInt(1)}})
	assert.ErrorIs(t, err, ErrImmutableRecipients)
}

func TestSetRecipients_ZeroAmounts(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{})

	require.NoError(t, inv.SetRecipients(owner, []RecipientEntry{
		{Recipient: alice, Amount: big.Zero()},
		{Recipient: bob, Amount: big.NewInt(7)},
	}))
	assert.True(t, inv.OwedTo(alice).Sign() == 0)
	assert.Equal(t, big.NewInt(7), inv.TotalOwed())
}

func TestSetController(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{})

	assert.ErrorIs(t, inv.SetController(alice, alice), ErrOnlyOwner)

	// Reassignment to the current value is rejected.
	assert.ErrorIs(t, inv.SetController(owner, owner), ErrControllerAlreadyConfigured)

	require.NoError(t, inv.SetController(owner, bob))
	assert.Equal(t, bob, inv.Controller())

	// Clearing is allowed once and is terminal.
	require.NoError(t, inv.SetController(owner, account.ZeroAddress))
	assert.True(t, inv.Controller().IsZero())

	assert.ErrorIs(t, inv.SetController(owner, account.ZeroAddress), ErrImmutableController)
	assert.ErrorIs(t, inv.SetController(owner, alice), ErrImmutableController)
}

func TestSetDistributor(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{})

	assert.ErrorIs(t, inv.SetDistributor(carol, carol, true), ErrOnlyOwner)

	require.NoError(t, inv.SetDistributor(owner, carol, true))
	assert.True(t, inv.IsDistributor(carol))

	require.NoError(t, inv.SetDistributor(owner, carol, false))
	assert.False(t, inv.IsDistributor(carol))
}

func TestOwnership(t *testing.T) {
	bank := asset.NewBank()
	inv := newNativeInvoice(t, bank, InitParams{})

	assert.ErrorIs(t, inv.TransferOwnership(bob, bob), ErrOnlyOwner)
	assert.ErrorIs(t, inv.TransferOwnership(owner, account.ZeroAddress), ErrNullAddressOwner)

	require.NoError(t, inv.TransferOwnership(owner, alice))
	assert.Equal(t, alice, inv.Owner())

	// The previous owner lost the role.
	assert.ErrorIs(t, inv.TransferOwnership(owner, owner), ErrOnlyOwner)

	require.NoError(t, inv.RenounceOwnership(alice))
	assert.True(t, inv.Owner().IsZero())

	// Nobody holds the role after renouncement.
	assert.ErrorIs(t, inv.LockRecipients(alice), ErrOnlyOwner)
	assert.ErrorIs(t, inv.SetDistributor(owner, bob, true), ErrOnlyOwner)
}

func TestUninitialized(t *testing.T) {
	inv := New(invoiceAddr)

	assert.ErrorIs(t, inv.SetRecipients(owner, nil), ErrNotInitialized)
	assert.ErrorIs(t, inv.LockRecipients(owner), ErrNotInitialized)
	assert.ErrorIs(t, inv.RedistributeNative(owner), ErrNotInitialized)
}

func TestTokenInvoice_Attrs(t *testing.T) {
	tok, err := token.New(makeAddr(0x70), "Test Token", "TST")
	require.NoError(t, err)

	inv := New(invoiceAddr)
	require.NoError(t, inv.Initialize(InitParams{
		Owner:        owner,
		Controller:   owner,
		Distributors: []account.Address{owner},
		Recipients:   []RecipientEntry{{Recipient: alice, Amount: big.NewInt(10_000_000)}},
		Asset:        AssetToken,
		TokenAddress: tok.Address(),
		Ledger:       tok,
	}))

	assert.Equal(t, AssetToken, inv.Kind())
	assert.Equal(t, tok.Address(), inv.TokenAddress())
}
