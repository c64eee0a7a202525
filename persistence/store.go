// Package persistence is the thin key-value facade the trie and the
// dual-chain ledger persist through. It mirrors the original's
// PersistentDb: a cheap-clone handle around a single on-disk database,
// serializing writes behind one mutex per §5 of the ledger spec.
package persistence

import (
	"errors"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// ErrNotFound is returned by Get when no value is stored under key.
// Callers that treat a missing key as "None" rather than an error
// should use GetOptional instead.
var ErrNotFound = errors.New("persistence: key not found")

// Store is a cheap-clone handle around a leveldb database. Every clone
// shares the same underlying *leveldb.DB and mutex; the database's
// lifetime is that of the longest-lived clone, closed explicitly via
// Close.
type Store struct {
	db *leveldb.DB
	mu *sync.Mutex
}

// Open opens (creating if necessary) a leveldb database at path.
func Open(path string) (Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return Store{}, err
	}
	return Store{db: db, mu: &sync.Mutex{}}, nil
}

// OpenMemory opens an in-memory database, used by tests and by any
// ephemeral chain (e.g. simnet) that shouldn't touch disk.
func OpenMemory() Store {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// storage.NewMemStorage can only fail on malformed options,
		// which we never pass; a failure here is a build-time bug.
		panic("persistence: failed to open in-memory store: " + err.Error())
	}
	return Store{db: db, mu: &sync.Mutex{}}
}

// Get retrieves the value stored under key, or ErrNotFound.
func (s Store) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, err := s.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

// GetOptional retrieves the value stored under key, returning
// ok=false instead of an error when the key is absent. This is the
// shape the trie and chain query paths actually want (an Option, not
// a propagated error, for a routine miss).
func (s Store) GetOptional(key []byte) (val []byte, ok bool) {
	val, err := s.Get(key)
	if err != nil {
		return nil, false
	}
	return val, true
}

// Emplace writes value under key, overwriting any existing entry.
func (s Store) Emplace(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Put(key, value, nil)
}

// Has reports whether key is present in the store.
func (s Store) Has(key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Has(key, nil)
}

// Iterate walks every key with the given prefix, invoking fn with each
// key/value pair. Iteration stops early if fn returns false.
func (s Store) Iterate(prefix []byte, fn func(key, value []byte) bool) {
	s.mu.Lock()
	it := s.db.NewIterator(nil, nil)
	defer func() {
		it.Release()
		s.mu.Unlock()
	}()

	for ok := it.Seek(prefix); ok; ok = it.Next() {
		key := it.Key()
		if len(prefix) > 0 && (len(key) < len(prefix) || string(key[:len(prefix)]) != string(prefix)) {
			break
		}
		if !fn(append([]byte(nil), key...), append([]byte(nil), it.Value()...)) {
			break
		}
	}
}

// Close releases the underlying database handle.
func (s Store) Close() error {
	return s.db.Close()
}
