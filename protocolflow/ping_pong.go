package protocolflow

import "sync"

// PingPongSender drives the keepalive handshake from the asking side:
// Ready -> Waiting(nonce) on Send, back to Ready on a matching Pong or
// on Timeout. A second Send while Waiting is rejected rather than
// overwriting the outstanding nonce.
type PingPongSender struct {
	mu      sync.Mutex
	waiting bool
	nonce   Nonce
}

// Send starts a new round, returning the Ping to transmit.
// ErrSenderBusy if a previous round hasn't resolved yet.
func (s *PingPongSender) Send() (Ping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiting {
		return Ping{}, ErrSenderBusy
	}
	s.nonce = NewNonce()
	s.waiting = true
	return Ping{Nonce: s.nonce}, nil
}

// Receive processes an inbound Pong. It returns ErrUnsolicitedPong
// (and leaves the state untouched) if no round is outstanding or the
// nonce doesn't match; otherwise it returns to Ready.
func (s *PingPongSender) Receive(pong Pong) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.waiting || pong.Nonce != s.nonce {
		return ErrUnsolicitedPong
	}
	s.waiting = false
	return nil
}

// Timeout abandons the outstanding round, if any, returning to Ready
// without requiring a Pong.
func (s *PingPongSender) Timeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = false
}

// Waiting reports whether a round is outstanding.
func (s *PingPongSender) Waiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// PingPongReceiver is the stateless answering side: every Ping gets an
// immediate Pong echoing its nonce.
type PingPongReceiver struct{}

// Receive answers an inbound Ping.
func (PingPongReceiver) Receive(ping Ping) Pong {
	return Pong{Nonce: ping.Nonce}
}

// PingPong bundles both halves of the flow, instantiated once per
// connected peer.
type PingPong struct {
	Sender   *PingPongSender
	Receiver PingPongReceiver
}

// NewPingPong constructs a fresh PingPong pair.
func NewPingPong() *PingPong {
	return &PingPong{Sender: &PingPongSender{}}
}
