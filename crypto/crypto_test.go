package crypto

import "testing"

func TestHashSliceDeterministic(t *testing.T) {
	a := HashSlice([]byte("purple"))
	b := HashSlice([]byte("purple"))
	if a != b {
		t.Fatalf("hash of the same input must be stable: %v != %v", a, b)
	}
	if a.IsNull() {
		t.Fatalf("hash of non-empty input must not be null")
	}
}

func TestHashFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := HashFromBytes(make([]byte, 31)); err == nil {
		t.Fatalf("expected error for short hash")
	}
	if _, err := HashFromBytes(make([]byte, 32)); err != nil {
		t.Fatalf("unexpected error for well-formed hash: %v", err)
	}
}

func TestHashLess(t *testing.T) {
	a := Hash{0x01}
	b := Hash{0x02}
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("byte-wise ordering broken")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey()
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	pk := sk.PubKey()
	msg := []byte("assembled message")

	sig := Sign(msg, sk)
	if !Verify(msg, sig, pk) {
		t.Fatalf("expected signature to verify")
	}

	tampered := append([]byte(nil), msg...)
	tampered[0] ^= 0xff
	if Verify(tampered, sig, pk) {
		t.Fatalf("signature must not verify over a mutated message")
	}
}

func TestSignatureBytesRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey()
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	sig := Sign([]byte("msg"), sk)

	decoded, err := SignatureFromBytes(sig.Bytes())
	if err != nil {
		t.Fatalf("SignatureFromBytes: %v", err)
	}
	if !Verify([]byte("msg"), decoded, sk.PubKey()) {
		t.Fatalf("round-tripped signature must still verify")
	}
}

func TestAggregateSignatureIdentity(t *testing.T) {
	zero := ZeroAggregateSignature()
	if !zero.IsZero() {
		t.Fatalf("expected the zero value to report IsZero")
	}

	combined := zero.Add(zero)
	if !combined.Equal(zero) {
		t.Fatalf("zero + zero must equal zero")
	}
}

func TestAggregateSignatureBytesRoundTrip(t *testing.T) {
	zero := ZeroAggregateSignature()
	decoded, err := AggregateSignatureFromBytes(zero.Bytes())
	if err != nil {
		t.Fatalf("AggregateSignatureFromBytes: %v", err)
	}
	if !decoded.Equal(zero) {
		t.Fatalf("round-tripped aggregate signature must be equal to the original")
	}
}
