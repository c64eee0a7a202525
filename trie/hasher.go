package trie

import "github.com/purplecoin/pcore/crypto"

// Hasher computes the content hash a trie node is addressed by. The
// trie is parameterized over a single fixed hasher for its entire
// lifetime, matching §4.B ("an authenticated prefix trie ... using a
// fixed hasher") and the original's BlakeDbHasher.
type Hasher interface {
	Hash(data []byte) crypto.Hash
}

// BlakeHasher is the default Hasher, backed by the same blake256
// single-round digest crypto.HashSlice uses for block and transaction
// hashing, so a debugger dumping either a block hash or a trie node
// hash is reading the same kind of value.
type BlakeHasher struct{}

// Hash implements Hasher.
func (BlakeHasher) Hash(data []byte) crypto.Hash {
	return crypto.HashSlice(data)
}
