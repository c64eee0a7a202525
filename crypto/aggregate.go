package crypto

import (
	"encoding/hex"
	"sync"

	bls12381 "github.com/kilic/bls12-381"
)

// aggregateMu serializes access to the shared G1 engine. kilic/bls12-381's
// G1 type keeps scratch state across calls, so concurrent callers share
// one engine behind a lock rather than each allocating their own.
var (
	g1          = bls12381.NewG1()
	aggregateMu sync.Mutex
)

// AggregateSignature is a BLS signature represented as a point on the
// G1 curve. Unlike a detached Signature it supports associative,
// commutative addition: combining N participants' signatures over the
// same message yields one signature any of them individually could
// have produced their share of.
type AggregateSignature struct {
	point *bls12381.PointG1
}

// ZeroAggregateSignature is the additive identity: the point at
// infinity on G1.
func ZeroAggregateSignature() AggregateSignature {
	aggregateMu.Lock()
	defer aggregateMu.Unlock()
	return AggregateSignature{point: g1.Zero()}
}

// Add combines two aggregate signatures, returning a new value. The
// identity element for Add is ZeroAggregateSignature(); addition is
// associative and commutative, matching BLS signature aggregation.
func (a AggregateSignature) Add(other AggregateSignature) AggregateSignature {
	aggregateMu.Lock()
	defer aggregateMu.Unlock()

	result := g1.New()
	g1.Add(result, a.point, other.point)
	return AggregateSignature{point: result}
}

// IsZero reports whether the aggregate signature is the identity
// element (no shares have been combined into it).
func (a AggregateSignature) IsZero() bool {
	aggregateMu.Lock()
	defer aggregateMu.Unlock()
	return g1.IsZero(a.point)
}

// Equal compares two aggregate signatures by their canonical
// (compressed) byte serialization rather than pointer identity or raw
// curve coordinates, so the comparison is not variable-time with
// respect to the internal field representation.
func (a AggregateSignature) Equal(other AggregateSignature) bool {
	return HashSlice(a.Bytes()) == HashSlice(other.Bytes())
}

// Bytes returns the compressed canonical encoding of the underlying G1
// point.
func (a AggregateSignature) Bytes() []byte {
	aggregateMu.Lock()
	defer aggregateMu.Unlock()
	return g1.ToCompressed(a.point)
}

// AggregateSignatureFromBytes decodes a compressed G1 point previously
// produced by Bytes.
func AggregateSignatureFromBytes(b []byte) (AggregateSignature, error) {
	aggregateMu.Lock()
	defer aggregateMu.Unlock()

	point, err := g1.FromCompressed(b)
	if err != nil {
		return AggregateSignature{}, ErrAggregateDecode
	}
	return AggregateSignature{point: point}, nil
}

// DebugString renders the aggregate signature as hex of its canonical
// bytes, matching the debug encoding the rest of the ledger uses for
// opaque cryptographic values.
func (a AggregateSignature) DebugString() string {
	return "AggregateSignature(" + hex.EncodeToString(a.Bytes()) + ")"
}
