package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// PublicKeySize is the length of a compressed secp256k1 public key, and
// doubles as the length of a Normal address (see account.Address).
const PublicKeySize = 33

// SignatureSize is the length of a detached signature.
const SignatureSize = 64

// PublicKey wraps a compressed secp256k1 public key.
type PublicKey struct {
	pub *secp256k1.PublicKey
}

// SecretKey wraps a secp256k1 private scalar.
type SecretKey struct {
	priv *secp256k1.PrivateKey
}

// Signature is a 64-byte detached EC-Schnorr-DCRv0 signature.
type Signature struct {
	sig *schnorr.Signature
}

// GenerateSecretKey produces a new random secret key.
func GenerateSecretKey() (SecretKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return SecretKey{}, err
	}
	return SecretKey{priv: priv}, nil
}

// PubKey derives the public key associated with the secret key.
func (sk SecretKey) PubKey() PublicKey {
	return PublicKey{pub: sk.priv.PubKey()}
}

// PublicKeyFromBytes parses a compressed secp256k1 public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return PublicKey{}, ErrInvalidPublicKey
	}
	return PublicKey{pub: pub}, nil
}

// Bytes returns the 33-byte compressed encoding of the public key.
func (pk PublicKey) Bytes() []byte {
	return pk.pub.SerializeCompressed()
}

// IsEqual reports whether two public keys represent the same point.
func (pk PublicKey) IsEqual(other PublicKey) bool {
	if pk.pub == nil || other.pub == nil {
		return pk.pub == other.pub
	}
	return pk.pub.IsEqual(other.pub)
}

// Sign produces a detached signature over msg with sk.
//
// Panics if the secret key cannot produce a valid signature; with a
// properly generated key this cannot happen, so a failure here
// indicates corrupted key material rather than a user error.
func Sign(msg []byte, sk SecretKey) Signature {
	digest := HashSlice(msg)
	sig, err := schnorr.Sign(sk.priv, digest[:])
	if err != nil {
		panic("crypto: signing failed with a well-formed secret key: " + err.Error())
	}
	return Signature{sig: sig}
}

// Verify reports whether sig is a valid signature over msg under pk.
func Verify(msg []byte, sig Signature, pk PublicKey) bool {
	if sig.sig == nil || pk.pub == nil {
		return false
	}
	digest := HashSlice(msg)
	return sig.sig.Verify(digest[:], pk.pub)
}

// Bytes returns the 64-byte canonical encoding of the signature.
func (s Signature) Bytes() []byte {
	if s.sig == nil {
		return nil
	}
	return s.sig.Serialize()
}

// SignatureFromBytes parses a 64-byte detached signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != SignatureSize {
		return Signature{}, ErrInvalidSignatureLength
	}
	sig, err := schnorr.ParseSignature(b)
	if err != nil {
		return Signature{}, err
	}
	return Signature{sig: sig}, nil
}

// NodeId identifies a peer across reconnections, derived from its
// long-lived public key rather than its transient socket address.
type NodeId struct {
	pub PublicKey
}

// NewNodeId wraps a public key as a node identity.
func NewNodeId(pub PublicKey) NodeId {
	return NodeId{pub: pub}
}

// Bytes returns the node id's canonical 33-byte encoding.
func (n NodeId) Bytes() []byte {
	return n.pub.Bytes()
}

// IsEqual reports whether two node ids refer to the same key.
func (n NodeId) IsEqual(other NodeId) bool {
	return n.pub.IsEqual(other.pub)
}
