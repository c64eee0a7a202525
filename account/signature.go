package account

import "github.com/purplecoin/pcore/crypto"

// Signature is the 64-byte detached signature type transactions carry,
// re-exported here so transaction code can depend on account alone
// rather than reaching into crypto directly for this one type.
type Signature = crypto.Signature

// SignatureFromBytes parses a 64-byte detached signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	return crypto.SignatureFromBytes(b)
}
