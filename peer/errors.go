package peer

import "errors"

// send_packet's three failure modes, per §4.F.
var (
	// ErrNoKeys signifies the session key hasn't been negotiated yet
	// (the peer is still Handshaking).
	ErrNoKeys = errors.New("peer: no session key, handshake not complete")

	// ErrCouldNotSend signifies the outbound priority queue is full.
	ErrCouldNotSend = errors.New("peer: outbound queue is full")

	// ErrSessionExpired signifies the peer is in Closing.
	ErrSessionExpired = errors.New("peer: session has expired")
)
