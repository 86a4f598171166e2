package factory

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/revenue-share-labs/contracts-invoice/account"
)

// EIP-1167 minimal proxy bytecode, split around the 20-byte implementation
// address it delegates to.
var (
	cloneCodePrefix, _ = hex.DecodeString("3d602d80600a3d3981f3363d3d373d3d3d363d73")
	cloneCodeSuffix, _ = hex.DecodeString("5af43d82803e903d91602b57fd5bf3")
)

// implementationTag seeds the implementation address so that distinct
// factories deploy behaviourally identical but distinctly addressed clones.
const implementationTag = "invoice-implementation-v1"

// keccak256 returns the legacy Keccak-256 digest of the concatenated inputs.
func keccak256(chunks ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}

// addressFromHash takes the low 20 bytes of a 32-byte digest, the usual
// hash-to-address truncation.
func addressFromHash(digest []byte) account.Address {
	var addr account.Address
	copy(addr[:], digest[len(digest)-account.AddressSize:])
	return addr
}

// implementationAddress derives the factory's clone implementation address
// from the factory address.
func implementationAddress(factoryAddr account.Address) account.Address {
	return addressFromHash(keccak256(factoryAddr[:], []byte(implementationTag)))
}

// cloneCodeHash returns the init-code hash of the minimal proxy pointing at
// impl, the last ingredient of the deterministic address formula.
func cloneCodeHash(impl account.Address) []byte {
	return keccak256(cloneCodePrefix, impl[:], cloneCodeSuffix)
}

// deploymentSalt folds the creator and every deal parameter into a 32-byte
// salt. Two creations collide exactly when the same creator passes the same
// parameters, creation id included.
func deploymentSalt(creator account.Address, p CreateParams) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(creator[:])
	h.Write(p.Controller[:])

	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(p.Distributors)))
	h.Write(n[:])
	for _, d := range p.Distributors {
		h.Write(d[:])
	}

	h.Write([]byte{boolByte(p.ImmutableRecipients)})

	binary.BigEndian.PutUint32(n[:], uint32(len(p.Recipients)))
	h.Write(n[:])
	for _, e := range p.Recipients {
		h.Write(e.Recipient[:])
		amount := []byte{}
		if !e.Amount.Nil() {
			amount = e.Amount.Int.Bytes()
		}
		var alen [2]byte
		binary.BigEndian.PutUint16(alen[:], uint16(len(amount)))
		h.Write(alen[:])
		h.Write(amount)
	}

	tokenAddr := account.ZeroAddress
	if p.Token != nil {
		tokenAddr = p.Token.Address()
	}
	h.Write(tokenAddr[:])
	h.Write(p.CreationID[:])

	return h.Sum(nil)
}

// predictCloneAddress computes the create2-style deployment address:
// keccak256(0xff ++ factory ++ salt ++ keccak256(cloneCode))[12:].
func predictCloneAddress(factoryAddr account.Address, salt []byte, impl account.Address) account.Address {
	return addressFromHash(keccak256([]byte{0xff}, factoryAddr[:], salt, cloneCodeHash(impl)))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
