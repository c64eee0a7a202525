package protocolflow

import "github.com/purplecoin/pcore/bootstrap"

// RequestPeersSender drives the address-exchange flow from the asking
// side: Ready -> Waiting(nonce, askedForN) on Send, back to Ready once
// a matching SendPeers has been accepted.
type RequestPeersSender struct {
	waiting   bool
	nonce     Nonce
	askedForN uint32
}

// Send starts a new round asking for up to n peer addresses.
func (s *RequestPeersSender) Send(n uint32) (RequestPeers, error) {
	if s.waiting {
		return RequestPeers{}, ErrSenderBusy
	}
	s.nonce = NewNonce()
	s.askedForN = n
	s.waiting = true
	return RequestPeers{Nonce: s.nonce, RequestedPeers: n}, nil
}

// Receive validates an inbound SendPeers against the outstanding
// round. ErrDidntAskForPeers if no round is outstanding or the nonce
// doesn't match; ErrTooManyPeers if it carries more entries than were
// requested. Either error leaves the round exactly as it was, matching
// §4.H's "advances state only on success".
func (s *RequestPeersSender) Receive(packet SendPeers) error {
	if !s.waiting || packet.Nonce != s.nonce {
		return ErrDidntAskForPeers
	}
	if uint32(len(packet.Addrs)) > s.askedForN {
		return ErrTooManyPeers
	}
	s.waiting = false
	return nil
}

// RequestPeersReceiver answers RequestPeers by sampling the local
// bootstrap cache.
type RequestPeersReceiver struct {
	cache *bootstrap.Cache
}

// NewRequestPeersReceiver builds a receiver sampling from cache.
func NewRequestPeersReceiver(cache *bootstrap.Cache) *RequestPeersReceiver {
	return &RequestPeersReceiver{cache: cache}
}

// Receive answers an inbound RequestPeers with up to
// packet.RequestedPeers addresses chosen uniformly at random without
// replacement.
func (r *RequestPeersReceiver) Receive(packet RequestPeers) SendPeers {
	sample := r.cache.Sample(int(packet.RequestedPeers))
	addrs := make([]string, len(sample))
	for i, e := range sample {
		addrs[i] = e.Address
	}
	return SendPeers{Nonce: packet.Nonce, Addrs: addrs}
}

// RequestPeersFlow bundles both halves, instantiated once per
// connected peer.
type RequestPeersFlow struct {
	Sender   *RequestPeersSender
	Receiver *RequestPeersReceiver
}

// NewRequestPeersFlow constructs a fresh RequestPeersFlow sampling
// from cache.
func NewRequestPeersFlow(cache *bootstrap.Cache) *RequestPeersFlow {
	return &RequestPeersFlow{
		Sender:   &RequestPeersSender{},
		Receiver: NewRequestPeersReceiver(cache),
	}
}
