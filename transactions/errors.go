package transactions

import "errors"

var (
	// ErrWrongTxType signifies a from_bytes call whose leading byte does
	// not match the type being decoded.
	ErrWrongTxType = errors.New("transactions: wire type byte does not match")

	// ErrTruncated signifies a buffer shorter than its own length
	// headers claim, or shorter than a fixed-size field requires.
	ErrTruncated = errors.New("transactions: truncated encoding")

	// ErrMalformedField signifies a length-prefixed field (address,
	// hash, signature, balance) that fails to decode on its own terms.
	ErrMalformedField = errors.New("transactions: malformed field")

	// ErrMissingHash signifies a ToBytes call before ComputeHash.
	ErrMissingHash = errors.New("transactions: hash not yet computed")

	// ErrMissingSignature signifies a ToBytes call before Sign.
	ErrMissingSignature = errors.New("transactions: signature not yet computed")

	// ErrSenderNotRegistered signifies a transaction whose sender has no
	// `.n` nonce entry in the trie, violating the invariant that every
	// account referenced by a currency key must be registered.
	ErrSenderNotRegistered = errors.New("transactions: sender has no nonce entry")
)
