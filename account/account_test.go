package account

import (
	"testing"

	"github.com/purplecoin/pcore/crypto"
)

func TestNormalAddressRoundTrip(t *testing.T) {
	sk, err := crypto.GenerateSecretKey()
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	pk := sk.PubKey()
	addr := NewNormalAddress(pk)

	if !addr.IsNormal() || addr.IsMultiSig() || addr.IsShareholders() {
		t.Fatalf("expected a Normal address classification")
	}

	decoded, err := NormalAddressFromBytes(addr.Bytes())
	if err != nil {
		t.Fatalf("NormalAddressFromBytes: %v", err)
	}
	if !decoded.PubKey().IsEqual(pk) {
		t.Fatalf("decoded address must expose the original public key verbatim")
	}
}

func TestMultiSigAndShareholdersAddressesAreDistinctKinds(t *testing.T) {
	policy := crypto.HashSlice([]byte("2-of-3"))
	shares := crypto.HashSlice([]byte("shares"))

	ms := NewMultiSigAddress(policy)
	sh := NewShareholdersAddress(shares)

	if !ms.IsMultiSig() || ms.IsNormal() || ms.IsShareholders() {
		t.Fatalf("expected MultiSig classification")
	}
	if !sh.IsShareholders() || sh.IsNormal() || sh.IsMultiSig() {
		t.Fatalf("expected Shareholders classification")
	}
	if ms.Equal(sh) {
		t.Fatalf("distinct address kinds must not compare equal")
	}
}

func TestAddressFromBytesRejectsUnknownKind(t *testing.T) {
	raw := make([]byte, Size)
	raw[0] = 0xff
	if _, err := AddressFromBytes(raw); err == nil {
		t.Fatalf("expected an error for an unrecognized address tag")
	}
}

func TestBalanceZeroIsCanonical(t *testing.T) {
	if Zero.String() != "0.0" {
		t.Fatalf("canonical zero balance must print as 0.0, got %q", Zero.String())
	}
}

func TestBalanceAddAndSub(t *testing.T) {
	a := NewBalanceFromUint64(100)
	fee := NewBalanceFromUint64(10)

	a.Sub(fee)
	if a.String() != "90" {
		t.Fatalf("expected 90 after subtracting fee, got %q", a.String())
	}

	sum := a.Add(fee)
	if sum.String() != "100" {
		t.Fatalf("expected 100 after adding fee back, got %q", sum.String())
	}
}

func TestBalanceOrderingAgainstZero(t *testing.T) {
	neg := NewBalanceFromUint64(0)
	neg.Sub(NewBalanceFromUint64(1))

	if !neg.LessThanZero() {
		t.Fatalf("expected -1 to be less than zero")
	}
	if neg.GreaterThanOrEqualToZero() {
		t.Fatalf("expected -1 to not be >= zero")
	}
	if !Zero.GreaterThanOrEqualToZero() {
		t.Fatalf("expected zero to be >= zero")
	}
}

func TestBalanceBytesRoundTrip(t *testing.T) {
	b := NewBalanceFromUint64(12345)
	decoded, err := BalanceFromBytes(b.Bytes())
	if err != nil {
		t.Fatalf("BalanceFromBytes: %v", err)
	}
	if !decoded.Equal(b) {
		t.Fatalf("round-tripped balance must be equal to the original")
	}
}
