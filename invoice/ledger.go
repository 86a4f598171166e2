package invoice

import (
	"fmt"

	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/asset"
)

// recipientLedger is the payout schedule: an ordered list of entries,
// a per-recipient lookup kept consistent with it, and the running total.
// Insertion order is payout order. The ledger is replaced wholesale and
// never mutated in place.
type recipientLedger struct {
	entries []RecipientEntry
	owed    map[account.Address]big.Int
	total   big.Int
}

func emptyLedger() recipientLedger {
	return recipientLedger{
		owed:  make(map[account.Address]big.Int),
		total: big.Zero(),
	}
}

// buildLedger validates entries and assembles a fresh ledger. On error the
// caller's previous ledger is untouched. Duplicates are reported for the
// first repeated recipient in input order. Zero amounts are allowed.
func buildLedger(entries []RecipientEntry) (recipientLedger, error) {
	led := recipientLedger{
		entries: make([]RecipientEntry, 0, len(entries)),
		owed:    make(map[account.Address]big.Int, len(entries)),
		total:   big.Zero(),
	}

	for i, e := range entries {
		if e.Recipient.IsZero() {
			return recipientLedger{}, fmt.Errorf("%w: entry %d", ErrNullAddressRecipient, i)
		}
		if _, ok := led.owed[e.Recipient]; ok {
			return recipientLedger{}, fmt.Errorf("%w: %s", ErrRecipientAlreadyAdded, e.Recipient)
		}
		amount := e.Amount
		if amount.Nil() {
			amount = big.Zero()
		}
		if err := asset.ValidateAmount(amount); err != nil {
			return recipientLedger{}, fmt.Errorf("entry %d: %w", i, err)
		}
		amount = amount.Copy()

		led.entries = append(led.entries, RecipientEntry{Recipient: e.Recipient, Amount: amount})
		led.owed[e.Recipient] = amount
		led.total = big.Add(led.total, amount)
	}

	return led, nil
}

// copyEntries returns an independent copy of the schedule, safe to hand
// out or to iterate while the invoice lock is released.
func (l recipientLedger) copyEntries() []RecipientEntry {
	out := make([]RecipientEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = RecipientEntry{Recipient: e.Recipient, Amount: e.Amount.Copy()}
	}
	return out
}

// owedTo returns the amount owed to addr, zero if absent.
func (l recipientLedger) owedTo(addr account.Address) big.Int {
	if amount, ok := l.owed[addr]; ok {
		return amount.Copy()
	}
	return big.Zero()
}
