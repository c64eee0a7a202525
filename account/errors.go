package account

import "errors"

var (
	// ErrInvalidAddressLength signifies an address byte slice that
	// isn't exactly Size bytes long.
	ErrInvalidAddressLength = errors.New("account: invalid address length")

	// ErrUnknownAddressKind signifies an address whose leading byte
	// does not match any recognized variant tag.
	ErrUnknownAddressKind = errors.New("account: unknown address kind")

	// ErrNotNormalAddress signifies an attempt to view a non-Normal
	// address as a Normal one.
	ErrNotNormalAddress = errors.New("account: address is not a Normal address")

	// ErrInvalidBalanceEncoding signifies a balance byte slice that
	// does not parse as an ASCII decimal.
	ErrInvalidBalanceEncoding = errors.New("account: invalid balance encoding")

	// ErrBalanceTooLong signifies a balance whose encoded length
	// exceeds the 255-byte limit the transaction wire format allows.
	ErrBalanceTooLong = errors.New("account: balance encoding exceeds 255 bytes")
)
