// Package crypto is the facade over the cryptographic primitives used
// throughout the ledger: hashing, detached Schnorr signatures, and BLS
// aggregate signatures. It treats the underlying curve and hash
// implementations as opaque, exposing only the contracts the rest of
// the module relies on.
package crypto

import (
	"encoding/hex"

	"github.com/dchest/blake256"
)

// HashSize is the number of bytes in a Hash.
const HashSize = 32

// Hash is a 32-byte opaque identifier. Equality and ordering are
// byte-wise; it carries no endianness semantics of its own.
type Hash [HashSize]byte

// NullHash is the zero-value hash, exposed under the name the rest of
// the module expects to find invariants against (an empty parent_hash,
// an unset asset reference, and so on).
var NullHash = Hash{}

// String renders the hash as lowercase hex, matching the convention
// used to build trie keys ("<hex-address>.<hex-asset-hash>").
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the hash's canonical byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// IsNull reports whether the hash is the all-zero value.
func (h Hash) IsNull() bool {
	return h == NullHash
}

// Equal reports whether two hashes carry the same bytes.
func (h Hash) Equal(other Hash) bool {
	return h == other
}

// Less orders two hashes byte-wise, most significant byte first.
func (h Hash) Less(other Hash) bool {
	for i := 0; i < HashSize; i++ {
		if h[i] != other[i] {
			return h[i] < other[i]
		}
	}
	return false
}

// HashFromBytes copies b into a Hash. It returns an error if b is not
// exactly HashSize bytes long.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, errInvalidHashLength
	}
	copy(h[:], b)
	return h, nil
}

// HashSlice computes the canonical hash of an arbitrary byte slice. It
// backs both block_hash() and the transaction hash/signature assembled
// message, and is also the trie's fixed node hasher (see trie.Hasher).
func HashSlice(b []byte) Hash {
	hasher := blake256.New()
	hasher.Write(b)

	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}
