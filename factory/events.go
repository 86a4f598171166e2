package factory

import (
	gobig "math/big"

	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
)

// EventKind labels an entry in the factory's event journal.
type EventKind uint8

const (
	EventInvoiceCreated EventKind = iota + 1
	EventRecipientsSet
	EventDistributed
	EventPlatformFeeChanged
	EventPlatformWalletChanged
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventInvoiceCreated:
		return "invoice-created"
	case EventRecipientsSet:
		return "recipients-set"
	case EventDistributed:
		return "distributed"
	case EventPlatformFeeChanged:
		return "platform-fee-changed"
	case EventPlatformWalletChanged:
		return "platform-wallet-changed"
	default:
		return "unknown"
	}
}

// Event is one journaled factory or invoice lifecycle event. Which fields
// carry data depends on the kind:
//
//	InvoiceCreated:        Invoice, Account (creator)
//	RecipientsSet:         Invoice, Count, Amount (total owed)
//	Distributed:           Invoice, Amount (distributed), Fee
//	PlatformFeeChanged:    Count (new rate, parts per ten million)
//	PlatformWalletChanged: Account (new wallet)
type Event struct {
	Seq     uint64
	Kind    EventKind
	Invoice account.Address
	Account account.Address
	Count   int
	Amount  big.Int
	Fee     big.Int
}

// eventRecord is the gob-persisted form of an Event. Amounts are stored as
// unsigned big-endian bytes.
type eventRecord struct {
	Seq     uint64
	Kind    EventKind
	Invoice account.Address
	Account account.Address
	Count   int
	Amount  []byte
	Fee     []byte
}

func (rec *eventRecord) event() Event {
	return Event{
		Seq:     rec.Seq,
		Kind:    rec.Kind,
		Invoice: rec.Invoice,
		Account: rec.Account,
		Count:   rec.Count,
		Amount:  bytesToBig(rec.Amount),
		Fee:     bytesToBig(rec.Fee),
	}
}

func bigToBytes(v big.Int) []byte {
	if v.Nil() {
		return nil
	}
	return v.Int.Bytes()
}

func bytesToBig(b []byte) big.Int {
	return big.Int{Int: new(gobig.Int).SetBytes(b)}
}
