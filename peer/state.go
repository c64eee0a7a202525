package peer

// ReceiveState is where a peer's inbound side sits in the connection
// lifecycle. It gates send_packet independently of the outbound
// queue's own capacity: a peer that hasn't finished the handshake has
// no session key to encrypt under, and one that is closing should
// accept no further work even if its queue has room.
type ReceiveState int

const (
	// Handshaking: no session key has been negotiated yet.
	Handshaking ReceiveState = iota

	// Established: the handshake completed; packets may flow both
	// ways.
	Established

	// Closing: the connection is being torn down.
	Closing
)

func (s ReceiveState) String() string {
	switch s {
	case Handshaking:
		return "handshaking"
	case Established:
		return "established"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}
