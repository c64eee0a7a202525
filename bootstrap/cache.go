// Package bootstrap implements the persistent address book of
// reachable peers described in §4.E: a bounded set of socket addresses
// with last-success timestamps, file-backed, uniquely keyed by
// address.
package bootstrap

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultCapacity is the bound on the number of entries the cache
// retains. Once full, Insert evicts the entry with the oldest
// LastSuccess to make room for the new one, the same "bounded set"
// policy a connection-oriented overlay needs to keep its address book
// from growing without limit as it hears about more peers than it will
// ever dial.
const DefaultCapacity = 2048

// Entry is a single bootstrap cache record: a peer's socket address and
// the last time a connection to it succeeded.
type Entry struct {
	Address     string
	LastSuccess time.Time
}

// Cache is a bounded, file-backed set of Entry records, safe for
// concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]Entry
	capacity int
}

// New constructs an empty Cache with the given capacity. A capacity of
// zero or less uses DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[string]Entry),
		capacity: capacity,
	}
}

// Insert adds addr to the cache with the given last-success time. It
// returns ErrAlreadyStored if addr is already present (its timestamp is
// left untouched; use Touch to update it). If the cache is at capacity,
// the entry with the oldest LastSuccess is evicted first.
func (c *Cache) Insert(addr string, lastSuccess time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[addr]; ok {
		return ErrAlreadyStored
	}
	if len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[addr] = Entry{Address: addr, LastSuccess: lastSuccess}
	return nil
}

// Touch updates addr's LastSuccess timestamp if present, and reports
// whether it was.
func (c *Cache) Touch(addr string, lastSuccess time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[addr]
	if !ok {
		return false
	}
	e.LastSuccess = lastSuccess
	c.entries[addr] = e
	return true
}

// Remove deletes addr from the cache, if present.
func (c *Cache) Remove(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, addr)
}

// Entries returns a snapshot of every entry currently cached. The
// returned slice is a copy; mutating it has no effect on the cache.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// Sample returns up to n entries chosen uniformly at random without
// replacement. If n is at least the number of cached entries, Sample
// returns all of them in random order.
func (c *Cache) Sample(n int) []Entry {
	all := c.Entries()
	if n >= len(all) {
		rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		return all
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:n]
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestLocked removes the entry with the oldest LastSuccess.
// Callers must hold c.mu.
func (c *Cache) evictOldestLocked() {
	var oldestAddr string
	var oldestTime time.Time
	first := true
	for addr, e := range c.entries {
		if first || e.LastSuccess.Before(oldestTime) {
			oldestAddr = addr
			oldestTime = e.LastSuccess
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestAddr)
	}
}
