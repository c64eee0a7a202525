// Package account defines the address, balance, and signature value
// types shared by every transaction kind and by the account trie's key
// grammar.
package account

import (
	"encoding/hex"

	"github.com/purplecoin/pcore/crypto"
)

// Size is the fixed byte length of every address variant.
const Size = 33

// addressKind tags which variant an Address holds. It is not
// serialized as a separate byte: for a Normal address the tag is
// implicit in the standard secp256k1 compressed-point prefix (0x02 or
// 0x03), the same trick the teacher's stdscript package uses to
// recognize a pay-to-compressed-pubkey script by its leading byte
// (txscript/stdscript.ExtractCompressedPubKeyV0). MultiSig and
// Shareholders addresses use the otherwise-unused prefixes 0x04 and
// 0x05, which can never collide with a valid compressed point.
type addressKind byte

const (
	kindNormal       addressKind = 0x02 // or 0x03; see isNormalPrefix
	kindMultiSig     addressKind = 0x04
	kindShareholders addressKind = 0x05
)

func isNormalPrefix(b byte) bool {
	return b == 0x02 || b == 0x03
}

// Address is a tagged sum type over the three address kinds the ledger
// recognizes. All three share a 33-byte wire representation; the first
// byte discriminates the variant.
type Address struct {
	raw [Size]byte
}

// NormalAddress is an Address known to wrap a compressed secp256k1
// public key. It is the only variant that exposes its public key for
// direct signature verification.
type NormalAddress struct {
	Address
	pub crypto.PublicKey
}

// NewNormalAddress derives a Normal address from a public key. The
// address's raw bytes are the public key's compressed encoding
// verbatim.
func NewNormalAddress(pub crypto.PublicKey) NormalAddress {
	var a NormalAddress
	copy(a.raw[:], pub.Bytes())
	a.pub = pub
	return a
}

// PubKey returns the public key a Normal address was derived from.
func (a NormalAddress) PubKey() crypto.PublicKey {
	return a.pub
}

// NewMultiSigAddress builds a MultiSig address identifying a k-of-n
// policy by its policyHash (32 bytes: the hash of the serialized
// policy).
func NewMultiSigAddress(policyHash crypto.Hash) Address {
	var a Address
	a.raw[0] = byte(kindMultiSig)
	copy(a.raw[1:], policyHash[:])
	return a
}

// NewShareholdersAddress builds a Shareholders address identifying a
// share map by its shareMapHash.
func NewShareholdersAddress(shareMapHash crypto.Hash) Address {
	var a Address
	a.raw[0] = byte(kindShareholders)
	copy(a.raw[1:], shareMapHash[:])
	return a
}

// IsNormal reports whether the address is a Normal (pubkey-derived)
// address.
func (a Address) IsNormal() bool {
	return isNormalPrefix(a.raw[0])
}

// IsMultiSig reports whether the address is a MultiSig policy address.
func (a Address) IsMultiSig() bool {
	return a.raw[0] == byte(kindMultiSig)
}

// IsShareholders reports whether the address is a Shareholders share
// map address.
func (a Address) IsShareholders() bool {
	return a.raw[0] == byte(kindShareholders)
}

// AsNormal recovers the NormalAddress view of a, reconstructing the
// public key from the raw bytes. It returns ok=false if a is not a
// Normal address.
func (a Address) AsNormal() (NormalAddress, bool) {
	if !a.IsNormal() {
		return NormalAddress{}, false
	}
	pub, err := crypto.PublicKeyFromBytes(a.raw[:])
	if err != nil {
		return NormalAddress{}, false
	}
	return NormalAddress{Address: a, pub: pub}, true
}

// Bytes returns the address's canonical 33-byte encoding.
func (a Address) Bytes() []byte {
	return a.raw[:]
}

// Hex renders the address as lowercase hex, the form used to build
// trie keys ("<hex-address>.n").
func (a Address) Hex() string {
	return hex.EncodeToString(a.raw[:])
}

// Equal reports whether two addresses carry the same bytes.
func (a Address) Equal(other Address) bool {
	return a.raw == other.raw
}

// AddressFromBytes parses a 33-byte address of any variant.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, ErrInvalidAddressLength
	}
	copy(a.raw[:], b)
	switch {
	case isNormalPrefix(a.raw[0]):
	case a.raw[0] == byte(kindMultiSig):
	case a.raw[0] == byte(kindShareholders):
	default:
		return a, ErrUnknownAddressKind
	}
	return a, nil
}

// NormalAddressFromBytes parses a 33-byte Normal address, validating
// that the bytes decode to a point on the curve.
func NormalAddressFromBytes(b []byte) (NormalAddress, error) {
	a, err := AddressFromBytes(b)
	if err != nil {
		return NormalAddress{}, err
	}
	na, ok := a.AsNormal()
	if !ok {
		return NormalAddress{}, ErrNotNormalAddress
	}
	return na, nil
}
