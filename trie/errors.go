package trie

import "errors"

var (
	// ErrCorruptNode signifies a stored node's bytes do not decode
	// according to the expected tagged encoding.
	ErrCorruptNode = errors.New("trie: corrupt node encoding")

	// ErrNodeNotFound signifies a referenced node hash is missing from
	// the backing store. Per §4.B this is treated as a fatal I/O
	// failure of the current operation, not a routine miss.
	ErrNodeNotFound = errors.New("trie: referenced node not found in store")
)
