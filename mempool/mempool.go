// Package mempool holds transactions that have passed validation but
// are not yet included in a block, keyed by their content hash so a
// gossiped transaction can be deduplicated before rebroadcast.
package mempool

import (
	"sync"

	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/transactions"
)

// Pool is a bounded, mutex-guarded set of pending transactions, safe
// for concurrent use by the reader tasks that validate gossip and the
// writer task that drains it into a block.
type Pool struct {
	mu       sync.Mutex
	txs      map[crypto.Hash]transactions.Transaction
	capacity int
}

// DefaultCapacity bounds the number of transactions held at once.
const DefaultCapacity = 8192

// New constructs an empty Pool. A capacity of zero or less uses
// DefaultCapacity.
func New(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		txs:      make(map[crypto.Hash]transactions.Transaction),
		capacity: capacity,
	}
}

// Has reports whether a transaction with the given hash is already
// pooled.
func (p *Pool) Has(hash crypto.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.txs[hash]
	return ok
}

// Insert adds tx under hash. It returns false without modifying the
// pool if hash is already present or the pool is at capacity.
func (p *Pool) Insert(hash crypto.Hash, tx transactions.Transaction) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.txs[hash]; ok {
		return false
	}
	if len(p.txs) >= p.capacity {
		return false
	}
	p.txs[hash] = tx
	return true
}

// Remove deletes the transaction under hash, if present.
func (p *Pool) Remove(hash crypto.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.txs, hash)
}

// Len reports the number of pooled transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}

// All returns a snapshot slice of every pooled transaction.
func (p *Pool) All() []transactions.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]transactions.Transaction, 0, len(p.txs))
	for _, tx := range p.txs {
		out = append(out, tx)
	}
	return out
}
