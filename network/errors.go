package network

import (
	"errors"
	"fmt"
)

// Sentinel errors mirroring network/src/error.rs's NetworkErr, minus
// AckErr (this implementation has no separate acknowledgement packet
// to fail) and minus the one better expressed as Go's idiomatic
// wrapped error instead of an enum payload (DownloadErr; see
// WrapDownloadErr).
var (
	ErrBadFormat            = errors.New("network: malformed packet")
	ErrBadSignature         = errors.New("network: invalid packet signature")
	ErrConnectFailed        = errors.New("network: connection attempt failed")
	ErrInvalidConnectPacket = errors.New("network: invalid Connect packet")
	ErrPacketParse          = errors.New("network: could not parse packet")
	ErrPeerNotFound         = errors.New("network: not connected to the given peer")
	ErrMaximumPeersReached  = errors.New("network: maximum peer count reached")
	ErrNoPeers              = errors.New("network: not connected to any peer")
	ErrEncryption           = errors.New("network: decryption failed")
	ErrBadCRC32             = errors.New("network: checksum mismatch")
	ErrBadHeader            = errors.New("network: invalid packet header")
	ErrBadVersion           = errors.New("network: unsupported envelope version")
	ErrSelfConnect          = errors.New("network: connected to ourselves")
	ErrSenderState          = errors.New("network: sender is in an invalid state for this operation")
	ErrReceiverState        = errors.New("network: receiver is in an invalid state for this operation")
	ErrCannotStartFlow      = errors.New("network: packet cannot start a protocol flow")
	ErrWrite                = errors.New("network: write to socket failed")
)

// WrapDownloadErr wraps an error surfaced by the downloader package so
// callers can still errors.Is against the original sentinel while
// network-level code handles it as a NetworkErr.
func WrapDownloadErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("network: download failed: %w", err)
}
