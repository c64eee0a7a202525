package network

import (
	"context"
	"time"

	"github.com/purplecoin/pcore/peer"
	"github.com/purplecoin/pcore/protocolflow"
)

// tick advances p's liveness counters by one period and, if a ping is
// due, attempts to start a new Ping/Pong round. It returns the Ping to
// send and true if one is due; if the sender is already Waiting on a
// previous round (§4.H's "send() returns an error if Waiting"), no new
// round is started and ok is false. This is the single unit of work
// network.rs's per-peer periodic task performs once per TIMER_INTERVAL.
func tick(p *peer.Peer) (ping protocolflow.Ping, ok bool) {
	if !p.Tick() {
		return protocolflow.Ping{}, false
	}
	sent, err := p.Validator.PingPong.Sender.Send()
	if err != nil {
		return protocolflow.Ping{}, false
	}
	return sent, true
}

// RunPeerLiveness drives addr's liveness task until ctx is canceled or
// the peer is no longer registered: every peer.TimerInterval it
// advances the peer's counters and, once due, enqueues a fresh Ping at
// Low priority, resetting LastPing only once the enqueue actually
// succeeds (a full outbound queue should not quietly reset the ping
// clock, or a genuinely unresponsive writer would look alive forever).
func (n *Network) RunPeerLiveness(ctx context.Context, addr string) {
	ticker := time.NewTicker(time.Duration(peer.TimerInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p, ok := n.Peer(addr)
			if !ok {
				return
			}
			ping, due := tick(p)
			if !due {
				continue
			}
			if err := n.SendToPeer(addr, ping, peer.Low); err == nil {
				p.ResetPing()
			}
		}
	}
}
