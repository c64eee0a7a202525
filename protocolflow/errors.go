package protocolflow

import "errors"

// Sender-side errors. A sender flow refuses to start a new round while
// a previous one is still outstanding.
var (
	ErrSenderBusy       = errors.New("protocolflow: sender is waiting on a previous round")
	ErrDidntAskForPeers = errors.New("protocolflow: received SendPeers with an unknown nonce")
	ErrTooManyPeers     = errors.New("protocolflow: SendPeers carried more entries than requested")
	ErrUnsolicitedPong  = errors.New("protocolflow: received Pong with an unknown nonce")
)

// Receiver-side errors.
var (
	ErrRangeTooLarge    = errors.New("protocolflow: requested block range exceeds the configured maximum")
	ErrUnknownBlockHash = errors.New("protocolflow: requested block hash is not present in local storage")
)
