package invoice

import (
	"bytes"
	"encoding/binary"
	"fmt"
	gobig "math/big"
	"sort"

	"github.com/filecoin-project/go-state-types/big"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/asset"
)

// State is the serializable snapshot of an invoice's persistent state.
// Balances live in the asset ledger and are not part of it.
type State struct {
	Owner        account.Address
	Controller   account.Address
	Locked       bool
	Asset        AssetKind
	TokenAddress account.Address
	PlatformFee  uint64
	Distributors []account.Address
	Recipients   []RecipientEntry
}

const (
	stateVersion = 1

	// Fixed-size head: version(1) + owner(20) + controller(20) +
	// locked(1) + asset(1) + token(20) + fee(8) + numDistributors(4).
	stateHeaderSize = 1 + 20 + 20 + 1 + 1 + 20 + 8 + 4

	// Per-entry head: recipient(20) + amountLen(2).
	entryHeaderSize = 20 + 2

	// maxAmountBytes bounds a serialized amount; 32 bytes covers the
	// full 256-bit range of the original contract arithmetic.
	maxAmountBytes = 32
)

// State captures the invoice's current persistent state.
func (inv *Invoice) State() State {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	distributors := make([]account.Address, 0, len(inv.distributors))
	for d := range inv.distributors {
		distributors = append(distributors, d)
	}
	// Map iteration order is random; keep the encoding deterministic.
	sort.Slice(distributors, func(i, j int) bool {
		return bytes.Compare(distributors[i][:], distributors[j][:]) < 0
	})

	return State{
		Owner:        inv.owner,
		Controller:   inv.controller.addr,
		Locked:       inv.locked,
		Asset:        inv.assetKind,
		TokenAddress: inv.tokenAddress,
		PlatformFee:  inv.platformFee,
		Distributors: distributors,
		Recipients:   inv.schedule.copyEntries(),
	}
}

// Encode serializes the state to its binary format.
func (s State) Encode() ([]byte, error) {
	size := stateHeaderSize
	amounts := make([][]byte, len(s.Recipients))
	for i, e := range s.Recipients {
		amount := e.Amount
		if amount.Nil() {
			amount = big.Zero()
		}
		if amount.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative amount for %s", ErrInvalidStateData, e.Recipient)
		}
		b := amount.Int.Bytes()
		if len(b) > maxAmountBytes {
			return nil, fmt.Errorf("%w: amount for %s exceeds %d bytes", ErrInvalidStateData, e.Recipient, maxAmountBytes)
		}
		amounts[i] = b
		size += entryHeaderSize + len(b)
	}
	size += account.AddressSize * len(s.Distributors)
	size += 4 // numRecipients

	buf := make([]byte, size)
	offset := 0

	buf[offset] = stateVersion
	offset++

	copy(buf[offset:], s.Owner[:])
	offset += account.AddressSize

	copy(buf[offset:], s.Controller[:])
	offset += account.AddressSize

	buf[offset] = boolByte(s.Locked)
	offset++

	buf[offset] = byte(s.Asset)
	offset++

	copy(buf[offset:], s.TokenAddress[:])
	offset += account.AddressSize

	binary.BigEndian.PutUint64(buf[offset:], s.PlatformFee)
	offset += 8

	binary.BigEndian.PutUint32(buf[offset:], uint32(len(s.Distributors)))
	offset += 4
	for _, d := range s.Distributors {
		copy(buf[offset:], d[:])
		offset += account.AddressSize
	}

	binary.BigEndian.PutUint32(buf[offset:], uint32(len(s.Recipients)))
	offset += 4
	for i, e := range s.Recipients {
		copy(buf[offset:], e.Recipient[:])
		offset += account.AddressSize
		binary.BigEndian.PutUint16(buf[offset:], uint16(len(amounts[i])))
		offset += 2
		copy(buf[offset:], amounts[i])
		offset += len(amounts[i])
	}

	return buf, nil
}

// DecodeState deserializes binary data into a State.
func DecodeState(data []byte) (*State, error) {
	if len(data) < stateHeaderSize+4 {
		return nil, fmt.Errorf("%w: too short (%d bytes)", ErrInvalidStateData, len(data))
	}
	offset := 0

	if data[offset] != stateVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrInvalidStateData, data[offset])
	}
	offset++

	s := &State{}
	copy(s.Owner[:], data[offset:])
	offset += account.AddressSize

	copy(s.Controller[:], data[offset:])
	offset += account.AddressSize

	s.Locked = data[offset] != 0
	offset++

	s.Asset = AssetKind(data[offset])
	if s.Asset != AssetNative && s.Asset != AssetToken {
		return nil, fmt.Errorf("%w: unknown asset kind %d", ErrInvalidStateData, data[offset])
	}
	offset++

	copy(s.TokenAddress[:], data[offset:])
	offset += account.AddressSize

	s.PlatformFee = binary.BigEndian.Uint64(data[offset:])
	offset += 8

	numDistributors := int(binary.BigEndian.Uint32(data[offset:]))
	offset += 4
	if len(data) < offset+numDistributors*account.AddressSize+4 {
		return nil, fmt.Errorf("%w: truncated distributor set", ErrInvalidStateData)
	}
	s.Distributors = make([]account.Address, numDistributors)
	for i := 0; i < numDistributors; i++ {
		copy(s.Distributors[i][:], data[offset:])
		offset += account.AddressSize
	}

	numRecipients := int(binary.BigEndian.Uint32(data[offset:]))
	offset += 4
	s.Recipients = make([]RecipientEntry, numRecipients)
	for i := 0; i < numRecipients; i++ {
		if len(data) < offset+entryHeaderSize {
			return nil, fmt.Errorf("%w: truncated recipient entry %d", ErrInvalidStateData, i)
		}
		copy(s.Recipients[i].Recipient[:], data[offset:])
		offset += account.AddressSize
		amountLen := int(binary.BigEndian.Uint16(data[offset:]))
		offset += 2
		if amountLen > maxAmountBytes || len(data) < offset+amountLen {
			return nil, fmt.Errorf("%w: bad amount length in entry %d", ErrInvalidStateData, i)
		}
		s.Recipients[i].Amount = big.Int{Int: new(gobig.Int).SetBytes(data[offset : offset+amountLen])}
		offset += amountLen
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidStateData, len(data)-offset)
	}
	return s, nil
}

// FromState reconstructs a live invoice from a decoded state snapshot,
// rebinding it to its asset ledger and platform wallet source. Used by
// the factory when reopening its registry.
func FromState(addr account.Address, s *State, ledger asset.Ledger, wallets PlatformWalletSource) (*Invoice, error) {
	if ledger == nil {
		return nil, ErrNilLedger
	}
	if s.Asset == AssetToken && s.TokenAddress.IsZero() {
		return nil, ErrNullToken
	}

	schedule, err := buildLedger(s.Recipients)
	if err != nil {
		return nil, err
	}

	inv := New(addr)
	inv.owner = s.Owner
	inv.controller = controllerState{addr: s.Controller}
	for _, d := range s.Distributors {
		inv.distributors[d] = true
	}
	inv.locked = s.Locked
	inv.assetKind = s.Asset
	inv.tokenAddress = s.TokenAddress
	inv.ledger = ledger
	inv.platformFee = s.PlatformFee
	inv.wallets = wallets
	inv.schedule = schedule
	inv.initialized = true
	return inv, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
