package protocolflow

import (
	"sync"

	"github.com/purplecoin/pcore/mempool"
	"github.com/purplecoin/pcore/transactions"
	"github.com/purplecoin/pcore/trie"
)

// GossipResult reports what a TransactionPropagation.Receive call did
// with an inbound transaction.
type GossipResult struct {
	// Rebroadcast is true if the transaction was newly accepted into
	// the mempool and should be relayed to every peer but the sender.
	Rebroadcast bool

	// Penalize is true if the sender should be scored negatively.
	// §4.H only penalizes a repeat offender, never a first offense, so
	// this is false the first time a given sender's address fails
	// validation and true on every failure after that.
	Penalize bool
}

// TransactionPropagation implements the gossip flow: every inbound
// transaction is validated against the current account trie and, on
// success, deduplicated into the mempool for rebroadcast. There is no
// sender-side state to track (gossip has no request/response round),
// only the receiver's mempool and per-sender offense counts.
type TransactionPropagation struct {
	mempool *mempool.Pool

	mu       sync.Mutex
	offenses map[string]int
}

// NewTransactionPropagation constructs a flow backed by pool.
func NewTransactionPropagation(pool *mempool.Pool) *TransactionPropagation {
	return &TransactionPropagation{
		mempool:  pool,
		offenses: make(map[string]int),
	}
}

// Receive decodes and validates packet.Raw against tr, a snapshot of
// the account trie as of the current chain top. sender identifies the
// peer the packet arrived from, for offense scoring only; it plays no
// part in validation.
func (t *TransactionPropagation) Receive(packet GossipTx, tr *trie.Trie, sender string) GossipResult {
	if t.mempool.Has(packet.Hash) {
		return GossipResult{}
	}

	tx, err := transactions.DecodeTransaction(packet.Raw)
	if err != nil || !tx.Validate(tr) {
		return GossipResult{Penalize: t.recordOffense(sender)}
	}

	if !t.mempool.Insert(packet.Hash, tx) {
		return GossipResult{}
	}
	t.clearOffenses(sender)
	return GossipResult{Rebroadcast: true}
}

// recordOffense increments sender's failure count and reports whether
// this is a repeat offense (count was already nonzero).
func (t *TransactionPropagation) recordOffense(sender string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	repeat := t.offenses[sender] > 0
	t.offenses[sender]++
	return repeat
}

func (t *TransactionPropagation) clearOffenses(sender string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.offenses, sender)
}
