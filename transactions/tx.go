// Package transactions implements the ledger's typed transaction
// universe: validation and application against the account trie,
// canonical byte encoding, signing, and hashing. Dispatch across kinds
// is a tagged sum (one Go type per kind implementing Transaction),
// matching the "trait-object polymorphism over transactions" design
// note — a match on the wire-level TX_TYPE byte, not an interface
// hierarchy grown by subclassing.
package transactions

import "github.com/purplecoin/pcore/trie"

// TxType tags a transaction's wire encoding and its place in the
// dispatch table. Only the types implemented here are registered;
// encountering an unregistered type byte on the wire is BadFormat.
type TxType byte

const (
	// TxTypeSend moves a balance from one account to another.
	TxTypeSend TxType = 1

	// TxTypeChangeMinter reassigns the minter of a mintable asset.
	TxTypeChangeMinter TxType = 8

	// TxTypeMint issues new supply of a mintable asset to its minter.
	TxTypeMint TxType = 10
)

// Transaction is the contract every transaction kind implements, per
// §4.C. Validate is side-effect-free; Apply assumes Validate already
// succeeded against the same trie state and panics on an internal
// invariant violation rather than returning an error, since those
// indicate corrupted state, not a bad transaction.
type Transaction interface {
	// TxType reports the kind's wire-level type tag.
	TxType() TxType

	// Validate reports whether the transaction may be applied to trie
	// as it currently stands. It performs no mutation.
	Validate(tr *trie.Trie) bool

	// Apply mutates trie according to the transaction. Callers must
	// only call this after a successful Validate against the same
	// state; Apply panics on an internal invariant violation (a
	// missing balance or minter entry the corresponding Validate
	// should have already ruled out).
	Apply(tr *trie.Trie)

	// ToBytes produces the canonical wire encoding. It returns an
	// error if a required optional field (Hash or Signature) has not
	// yet been computed.
	ToBytes() ([]byte, error)

	// Sign computes Signature over AssembleMessage using sk.
	Sign(sk SecretKeySigner)

	// ComputeHash sets Hash to HashSlice(AssembleMessage(tx)).
	ComputeHash()

	// VerifyHash recomputes the assembled-message hash and compares it
	// against the stored Hash field. Panics if Hash has not been set.
	VerifyHash() bool
}
