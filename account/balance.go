package account

import (
	"github.com/shopspring/decimal"
)

// Balance is an arbitrary-precision fixed-point decimal amount. The
// canonical zero value prints as "0.0", matching the wire encoding
// every freshly-created account's currency entries start from.
type Balance struct {
	d decimal.Decimal
}

// Zero is the canonical zero balance.
var Zero = Balance{d: decimal.RequireFromString("0.0")}

// NewBalanceFromUint64 builds a whole-unit balance, used by genesis to
// seed the coinbase supply and any pre-funded accounts.
func NewBalanceFromUint64(amount uint64) Balance {
	return Balance{d: decimal.NewFromInt(int64(amount))}
}

// Add returns a new balance equal to b+other.
func (b Balance) Add(other Balance) Balance {
	return Balance{d: b.d.Add(other.d)}
}

// Sub subtracts other from b in place, mirroring the original's
// `-=` usage when debiting a fee or transfer amount.
func (b *Balance) Sub(other Balance) {
	b.d = b.d.Sub(other.d)
}

// LessThanZero reports whether the balance is negative.
func (b Balance) LessThanZero() bool {
	return b.d.Sign() < 0
}

// GreaterThanOrEqualToZero reports whether the balance is zero or
// positive, the only other ordering comparison the ledger ever makes
// against a balance.
func (b Balance) GreaterThanOrEqualToZero() bool {
	return b.d.Sign() >= 0
}

// Bytes serializes the balance as ASCII decimal digits. The
// transaction wire format stores this length explicitly in an 8-bit
// field, so callers must ensure it never exceeds 255 bytes (see
// ErrBalanceTooLong).
func (b Balance) Bytes() []byte {
	return []byte(b.String())
}

// BalanceFromBytes parses an ASCII decimal balance as produced by
// Bytes.
func BalanceFromBytes(b []byte) (Balance, error) {
	if len(b) > 255 {
		return Balance{}, ErrBalanceTooLong
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return Balance{}, ErrInvalidBalanceEncoding
	}
	return Balance{d: d}, nil
}

// String renders the balance in canonical decimal form.
func (b Balance) String() string {
	if b.d.IsZero() {
		return "0.0"
	}
	return b.d.String()
}

// Equal reports whether two balances represent the same amount.
func (b Balance) Equal(other Balance) bool {
	return b.d.Equal(other.d)
}
