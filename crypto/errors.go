package crypto

import "errors"

var (
	// errInvalidHashLength signifies an attempt to build a Hash from a
	// byte slice that isn't exactly HashSize bytes long.
	errInvalidHashLength = errors.New("crypto: invalid hash length")

	// ErrInvalidSignatureLength signifies a Signature byte slice that
	// isn't exactly SignatureSize bytes long.
	ErrInvalidSignatureLength = errors.New("crypto: invalid signature length")

	// ErrInvalidPublicKey signifies a public key that failed to parse
	// as a valid compressed secp256k1 point.
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")

	// ErrInvalidPrivateKey signifies a private key scalar outside the
	// valid secp256k1 range.
	ErrInvalidPrivateKey = errors.New("crypto: invalid private key")

	// ErrAggregateDecode signifies an aggregate signature's canonical
	// byte form failed to decode to a point on the BLS12-381 G1 curve.
	ErrAggregateDecode = errors.New("crypto: invalid aggregate signature encoding")
)
