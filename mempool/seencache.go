package mempool

import (
	"github.com/decred/dcrd/container/apbf"

	"github.com/purplecoin/pcore/crypto"
)

// seenFilterGenerations/seenFilterFalsePositiveRate tune the
// age-partitioned Bloom filter backing SeenCache: four generations
// give a gossiped hash a few rotations' worth of lingering "seen"
// membership before it ages out, without the cache growing without
// bound the way an exact set would.
const (
	seenFilterGenerations       = 4
	seenFilterFalsePositiveRate = 0.0001
)

// SeenCache tracks which transaction hashes this node has already
// fanned out to its peers, so a gossip loop iterating over many peers
// per transaction doesn't have to re-derive that decision from the
// pool itself — a transaction can remain in the pool long after having
// already been broadcast once. It is backed by container/apbf's
// age-partitioned Bloom filter, the teacher dependency purpose-built
// for exactly this already-seen-gossip concern, trading a small false
// positive rate (an unseen hash occasionally treated as seen) for
// bounded memory with no per-insert eviction bookkeeping.
type SeenCache struct {
	filter *apbf.Filter
}

// NewSeenCache constructs a SeenCache sized for roughly maxElements
// concurrently-tracked hashes.
func NewSeenCache(maxElements uint32) *SeenCache {
	return &SeenCache{
		filter: apbf.NewFilter(maxElements, seenFilterGenerations, seenFilterFalsePositiveRate),
	}
}

// MarkSeen records hash as relayed and reports whether it was not
// already marked, so a caller can tell "first time seeing this" from
// "already handled it" in one call.
func (c *SeenCache) MarkSeen(hash crypto.Hash) bool {
	return c.filter.MaybeAdd(hash.Bytes())
}
