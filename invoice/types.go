package invoice

import (
	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
)

// FeeDenominator is the scale of platform fee rates: a rate is expressed
// in parts per ten million, so FeeDenominator means 100%.
const FeeDenominator = 10_000_000

// RecipientEntry is one row of the payout schedule: a recipient and the
// fixed amount owed to it on every redistribution.
type RecipientEntry struct {
	Recipient account.Address
	Amount    big.Int
}

// AssetKind selects which asset an invoice holds and pays out.
type AssetKind uint8

const (
	// AssetNative pays out the native currency.
	AssetNative AssetKind = 0
	// AssetToken pays out a single fungible token.
	AssetToken AssetKind = 1
)

// String returns a human-readable representation of the asset kind.
func (k AssetKind) String() string {
	switch k {
	case AssetNative:
		return "NATIVE"
	case AssetToken:
		return "TOKEN"
	default:
		return "UNKNOWN"
	}
}

// PlatformWalletSource supplies the platform fee wallet at redistribution
// time. The factory implements it: the wallet is read live on every call,
// so factory-level wallet changes apply to already-deployed invoices.
type PlatformWalletSource interface {
	PlatformWallet() account.Address
}

// Observer receives notifications about invoice lifecycle events. All
// callbacks run outside the invoice's internal lock, after the operation
// has committed. The factory uses this to persist state snapshots and to
// journal events.
type Observer interface {
	// StateChanged fires after any persistent-state mutation.
	StateChanged(inv *Invoice)

	// RecipientsSet fires after the schedule has been replaced.
	RecipientsSet(addr account.Address, count int, totalOwed big.Int)

	// Distributed fires after a successful redistribution.
	Distributed(addr account.Address, fee, amount big.Int)
}

// controllerState tracks the configure-role address. Reassignment to the
// current value is rejected, and the null address is terminal: once the
// controller is cleared the role is gone forever.
type controllerState struct {
	addr account.Address
}

func (c *controllerState) reassign(to account.Address) error {
	if c.addr.IsZero() {
		return ErrImmutableController
	}
	if to == c.addr {
		return ErrControllerAlreadyConfigured
	}
	c.addr = to
	return nil
}

func (c controllerState) authorize(caller account.Address) error {
	if c.addr.IsZero() || caller != c.addr {
		return ErrOnlyController
	}
	return nil
}
