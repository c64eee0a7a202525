// Package peer implements the per-connection state described in
// §4.F: an outbound priority queue, the last_seen/last_ping liveness
// counters a periodic task advances, the bundle of protocol-flow
// state machines a connection runs, and the handshake/established/
// closing lifecycle gating send_packet.
package peer

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/purplecoin/pcore/crypto"
)

// TimerInterval is the period, in milliseconds, at which a peer's
// liveness task advances LastSeen/LastPing. Not recoverable from the
// retrieved source (only its use is visible, not its value); chosen to
// match the cadence a single-digit-second ping cycle implies.
const TimerInterval uint64 = 500

// PingInterval is the accumulated LastPing value, in milliseconds,
// past which the liveness task sends a fresh Ping.
const PingInterval uint64 = 30000

// outboundQueueCapacity bounds a peer's OutboundQueue. §4.F leaves the
// figure unspecified; chosen generously relative to TimerInterval so a
// short write stall doesn't immediately trip CouldNotSend.
const outboundQueueCapacity = 256

// Peer is the local handle to one connection: its outbound queue, its
// liveness counters, its protocol-flow bundle, and its place in the
// handshake lifecycle.
type Peer struct {
	// Addr is the remote socket address, the same string bootstrap
	// cache entries and the Network's peer map key on.
	Addr string

	// Validator bundles every protocol flow this connection runs.
	Validator *ProtocolValidator

	queue *OutboundQueue

	lastSeen atomic.Uint64
	lastPing atomic.Uint64

	receiveState atomic.Int32
	hasSessionKey atomic.Bool

	mu sync.RWMutex
	id *crypto.NodeId
}

// New constructs a Peer for a freshly accepted or dialed connection,
// starting in Handshaking with no node id known yet.
func New(addr string, validator *ProtocolValidator) *Peer {
	p := &Peer{
		Addr:      addr,
		Validator: validator,
		queue:     NewOutboundQueue(outboundQueueCapacity),
	}
	p.receiveState.Store(int32(Handshaking))
	return p
}

// ID returns the peer's node id and whether it has been learned yet
// (it hasn't, until the handshake completes).
func (p *Peer) ID() (crypto.NodeId, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.id == nil {
		return crypto.NodeId{}, false
	}
	return *p.id, true
}

// SetID records the peer's node id, learned during the handshake, and
// marks the session key as ready so send_packet stops failing with
// ErrNoKeys.
func (p *Peer) SetID(id crypto.NodeId) {
	p.mu.Lock()
	p.id = &id
	p.mu.Unlock()
	p.hasSessionKey.Store(true)
}

// ShortID compacts the peer's node id for a log line. It returns
// "unknown" if the handshake hasn't completed yet.
func (p *Peer) ShortID() string {
	id, ok := p.ID()
	if !ok {
		return "unknown"
	}
	return ShortID(id)
}

// ReceiveState reports the peer's current place in the connection
// lifecycle.
func (p *Peer) ReceiveState() ReceiveState {
	return ReceiveState(p.receiveState.Load())
}

// SetReceiveState transitions the peer to state.
func (p *Peer) SetReceiveState(state ReceiveState) {
	p.receiveState.Store(int32(state))
}

// SendPacket enqueues payload at the given priority for the writer
// task. It fails with ErrNoKeys if the session key hasn't been
// negotiated, ErrSessionExpired if the peer is Closing, or
// ErrCouldNotSend if the outbound queue is full.
func (p *Peer) SendPacket(payload any, priority Priority) error {
	if !p.hasSessionKey.Load() {
		return ErrNoKeys
	}
	if p.ReceiveState() == Closing {
		return ErrSessionExpired
	}
	if !p.queue.Push(priority, payload) {
		return ErrCouldNotSend
	}
	return nil
}

// NextOutbound dequeues the next packet for the writer task to
// transmit, if any.
func (p *Peer) NextOutbound() (any, bool) {
	return p.queue.Pop()
}

// LastSeen reports the accumulated milliseconds since the peer was
// last known responsive.
func (p *Peer) LastSeen() uint64 {
	return p.lastSeen.Load()
}

// LastPing reports the accumulated milliseconds since the last Ping
// was sent (or since connection, if none has been sent yet).
func (p *Peer) LastPing() uint64 {
	return p.lastPing.Load()
}

// Tick advances both liveness counters by TimerInterval, the unit of
// work the per-peer periodic task performs once per period. It
// reports whether LastPing has crossed PingInterval, meaning the
// caller should attempt to send a fresh Ping.
func (p *Peer) Tick() (duePing bool) {
	p.lastSeen.Add(TimerInterval)
	return p.lastPing.Add(TimerInterval) > PingInterval
}

// ResetPing zeroes LastPing, called once a Ping has actually been
// handed to the writer task successfully.
func (p *Peer) ResetPing() {
	p.lastPing.Store(0)
}

// MarkSeen zeroes LastSeen, called whenever any packet arrives from
// the peer (not only Pong), since any traffic at all proves liveness.
func (p *Peer) MarkSeen() {
	p.lastSeen.Store(0)
}
