package chain

import (
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/transactions"
)

// Codec adapts a concrete block type B to the operations Chain needs:
// a fixed genesis value, canonical encode/decode, its hash and parent
// hash, and the ordered transactions it carries. Chain is generic over
// Codec rather than requiring B to implement an interface directly, so
// EasyBlock and HardBlock can stay plain structs with no method set of
// their own.
type Codec[B any] interface {
	// Genesis returns the network's fixed genesis block for this
	// chain, as returned by Chain.Genesis. Open does not call it; the
	// genesis block enters the chain through AppendBlock.
	Genesis() B

	// Encode produces the canonical bytes stored under block_hash.
	Encode(b B) ([]byte, error)

	// Decode parses bytes produced by Encode.
	Decode(buf []byte) (B, error)

	// Hash computes b's block hash.
	Hash(b B) crypto.Hash

	// Parent returns b's parent hash, or ok=false if b is a genesis
	// block (which carries none).
	Parent(b B) (hash crypto.Hash, ok bool)

	// Transactions returns b's transactions in application order.
	Transactions(b B) []transactions.Transaction
}

// EraGate lets the hard chain defer to an external consensus
// collaborator for whether the validator era active at height may be
// closed out. Per §4.D this core only refuses append in a non-terminal
// era; it does not itself decide when an era closes.
type EraGate interface {
	EraClosed(height uint64) bool
}

// EasyChainReader is the hard chain's read-only handle onto the easy
// chain, used to check the §3 invariant that a hard block's summarized
// easy-chain segment is a contiguous suffix ending at or before the
// easy chain's current top. *Chain[EasyBlock] already satisfies this
// through its own Height/BlockHeight methods; no adapter is needed.
type EasyChainReader interface {
	Height() (uint64, error)
	BlockHeight(hash crypto.Hash) (uint64, bool, error)
}

// hardSegment is implemented by block types that summarize a
// contiguous easy-chain suffix (only HardBlock does). Chain type-
// asserts for it rather than adding a no-op method to every Codec.
type hardSegment interface {
	easySegment() (end crypto.Hash, size uint64)
}
