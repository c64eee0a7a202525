// Package chain implements the dual-chain ledger of §4.D: an
// append-only, single-branch block chain generic over its block type,
// shared between the easy chain (open-mined candidate blocks) and the
// hard chain (validator-pool state-transition blocks). Branch handling
// (fork choice) is explicitly out of scope per the Open Question in
// §4.D and left to an external consensus collaborator; this package
// only refuses to append a block that doesn't extend the current top.
package chain

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/persistence"
	"github.com/purplecoin/pcore/trie"
)

const blockCacheSize = 20

// Chain is a persistent, single-branch block chain over block type B.
// A Chain owns write access to its account trie: transactions apply
// only inside AppendBlock, never directly against the trie a caller
// might hold separately.
type Chain[B any] struct {
	db     persistence.Store
	cache  *lru.Cache[crypto.Hash, B]
	codec  Codec[B]
	prefix string
	tr     *trie.Trie

	// eraGate gates append_block on the active era being closed. Nil
	// for the easy chain, which has no validator-era concept.
	eraGate EraGate

	// easyChain is the hard chain's read-only handle onto the easy
	// chain, used to validate a HardBlock's summarized segment. Nil for
	// the easy chain itself.
	easyChain EasyChainReader
}

// Open opens a chain backed by db and applying transactions against
// tr. prefix namespaces this chain's keys so that the easy and hard
// chains may share a single persistence.Store without colliding
// ("easy." / "hard.", say). eraGate may be nil (the easy chain has
// none). Open seeds no blocks of its own: per §8 scenario S1, genesis
// enters the chain through the first call to AppendBlock with no
// parent, exactly like any other append.
func Open[B any](db persistence.Store, tr *trie.Trie, codec Codec[B], prefix string, eraGate EraGate) (*Chain[B], error) {
	cache, err := lru.New[crypto.Hash, B](blockCacheSize)
	if err != nil {
		return nil, err
	}
	return &Chain[B]{
		db:      db,
		cache:   cache,
		codec:   codec,
		prefix:  prefix,
		tr:      tr,
		eraGate: eraGate,
	}, nil
}

// SetEasyChainReader installs the easy chain as this (hard) chain's
// segment-validation source. Called once, after both chains are open;
// a nil receiver check is unnecessary since only the hard chain's
// caller would ever call this.
func (c *Chain[B]) SetEasyChainReader(r EasyChainReader) {
	c.easyChain = r
}

// Trie returns a read-only snapshot of the account trie as of the
// chain's current top. Callers must not mutate it directly; all
// mutation happens inside AppendBlock.
func (c *Chain[B]) Trie() *trie.Trie {
	return c.tr.Snapshot()
}

// Genesis returns the network's fixed genesis block for this chain.
func (c *Chain[B]) Genesis() B {
	return c.codec.Genesis()
}

// Query retrieves the block with the given hash, if any.
func (c *Chain[B]) Query(hash crypto.Hash) (B, bool, error) {
	if b, ok := c.cache.Get(hash); ok {
		return b, true, nil
	}
	raw, ok := c.db.GetOptional(c.blockKey(hash))
	if !ok {
		var zero B
		return zero, false, nil
	}
	b, err := c.codec.Decode(raw)
	if err != nil {
		var zero B
		return zero, false, err
	}
	c.cache.Add(hash, b)
	return b, true, nil
}

// QueryByHeight retrieves the block at the given height, if any.
func (c *Chain[B]) QueryByHeight(height uint64) (B, bool, error) {
	raw, ok := c.db.GetOptional(c.heightIndexKey(height))
	if !ok {
		var zero B
		return zero, false, nil
	}
	hash, err := crypto.HashFromBytes(raw)
	if err != nil {
		var zero B
		return zero, false, err
	}
	return c.Query(hash)
}

// BlockBytesAtHeight returns the canonical encoding of the block at
// the given height, if any. It lets a Chain[B] satisfy
// protocolflow.ChainReader directly, so the Request-Blocks receiver
// can serve a range of blocks without itself becoming generic over B.
func (c *Chain[B]) BlockBytesAtHeight(height uint64) ([]byte, bool, error) {
	b, ok, err := c.QueryByHeight(height)
	if err != nil || !ok {
		return nil, false, err
	}
	encoded, err := c.codec.Encode(b)
	if err != nil {
		return nil, false, err
	}
	return encoded, true, nil
}

// BlockHeight reports the height of the block with the given hash, if
// known.
func (c *Chain[B]) BlockHeight(hash crypto.Hash) (uint64, bool, error) {
	raw, ok := c.db.GetOptional(c.blockHeightKey(hash))
	if !ok {
		return 0, false, nil
	}
	return decodeHeight(raw), true, nil
}

// Height returns the current chain height: the number of blocks
// appended so far (zero for a chain with no blocks yet; the genesis
// block brings it to one, per §8's chain-linearity property).
func (c *Chain[B]) Height() (uint64, error) {
	raw, ok := c.db.GetOptional(c.heightKey())
	if !ok {
		return 0, nil
	}
	return decodeHeight(raw), nil
}

// Top returns the current top (most recently appended) block.
// ErrInvalidHeight if the chain has no blocks yet.
func (c *Chain[B]) Top() (B, error) {
	raw, ok := c.db.GetOptional(c.topKey())
	if !ok {
		var zero B
		return zero, ErrInvalidHeight
	}
	hash, err := crypto.HashFromBytes(raw)
	if err != nil {
		var zero B
		return zero, err
	}
	b, ok, err := c.Query(hash)
	if err != nil {
		var zero B
		return zero, err
	}
	if !ok {
		var zero B
		return zero, ErrInvalidHeight
	}
	return b, nil
}

// AppendBlock validates block against the current top and, if it
// extends it, applies its transactions to the account trie and
// persists it as the new top. On any transaction failure the trie is
// left exactly as it was before the call.
//
// Per §8 scenario S1, a parent-less block is only valid as the very
// first block a chain ever sees: it becomes genesis. A parent-less
// block offered to a chain that already has a top is ErrNoParentHash;
// a parented block offered to a chain with no top yet is
// ErrInvalidParent (there is nothing for it to extend).
func (c *Chain[B]) AppendBlock(block B) error {
	parentHash, hasParent := c.codec.Parent(block)

	topBytes, hasTop := c.db.GetOptional(c.topKey())

	if !hasParent {
		if hasTop {
			return ErrNoParentHash
		}
	} else {
		if !hasTop {
			return ErrInvalidParent
		}
		topHash, err := crypto.HashFromBytes(topBytes)
		if err != nil {
			return err
		}
		if !parentHash.Equal(topHash) {
			return ErrInvalidParent
		}
	}

	height, err := c.Height()
	if err != nil {
		return err
	}

	if c.eraGate != nil && !c.eraGate.EraClosed(height) {
		return ErrValidatorEraNotClosed
	}

	if seg, ok := any(block).(hardSegment); ok && c.easyChain != nil {
		end, size := seg.easySegment()
		if err := c.validateEasySegment(end, size); err != nil {
			return err
		}
	}

	work := c.tr.Snapshot()
	for _, tx := range c.codec.Transactions(block) {
		if !tx.Validate(work) {
			return ErrTxApplyFailed
		}
		tx.Apply(work)
	}
	newRoot, err := work.Commit()
	if err != nil {
		return err
	}

	hash := c.codec.Hash(block)
	encoded, err := c.codec.Encode(block)
	if err != nil {
		return err
	}
	newHeight := height + 1

	if err := c.db.Emplace(c.blockKey(hash), encoded); err != nil {
		return err
	}
	if err := c.db.Emplace(c.heightIndexKey(height), hash.Bytes()); err != nil {
		return err
	}
	if err := c.db.Emplace(c.blockHeightKey(hash), encodeHeight(height)); err != nil {
		return err
	}
	// top is written before height, per §4.D: on restart, height can be
	// re-derived from which block top refers to if the two disagree.
	if err := c.db.Emplace(c.topKey(), hash.Bytes()); err != nil {
		return err
	}
	if err := c.db.Emplace(c.heightKey(), encodeHeight(newHeight)); err != nil {
		return err
	}

	_ = newRoot // already reflected in work's root post-Commit
	c.tr = work
	c.cache.Add(hash, block)
	return nil
}

// validateEasySegment checks the §3 invariant that a hard block's
// summarized easy-chain range is a contiguous suffix of the easy chain
// ending at or before its current top. size zero (nothing new
// summarized, as for a fresh hard-chain genesis) is always valid.
func (c *Chain[B]) validateEasySegment(end crypto.Hash, size uint64) error {
	if size == 0 {
		return nil
	}
	endHeight, ok, err := c.easyChain.BlockHeight(end)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidEasySegment
	}
	easyTop, err := c.easyChain.Height()
	if err != nil {
		return err
	}
	if endHeight > easyTop {
		return ErrInvalidEasySegment
	}
	if size > endHeight+1 {
		return ErrInvalidEasySegment
	}
	return nil
}

func (c *Chain[B]) topKey() []byte            { return []byte(c.prefix + "top") }
func (c *Chain[B]) heightKey() []byte         { return []byte(c.prefix + "height") }
func (c *Chain[B]) blockKey(h crypto.Hash) []byte {
	return []byte(c.prefix + "block." + h.String())
}
func (c *Chain[B]) heightIndexKey(height uint64) []byte {
	return []byte(c.prefix + "byheight." + encodeHeightHex(height))
}
func (c *Chain[B]) blockHeightKey(h crypto.Hash) []byte {
	return []byte(c.prefix + "height_of." + h.String())
}

func encodeHeight(h uint64) []byte {
	buf := make([]byte, 8)
	putUint64BE(buf, h)
	return buf
}

func decodeHeight(buf []byte) uint64 {
	if len(buf) != 8 {
		return 0
	}
	return getUint64BE(buf)
}

func encodeHeightHex(h uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf)
}
