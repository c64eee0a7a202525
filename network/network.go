// Package network wires together the packages built for §4.F-§4.H
// into the registry a node actually runs: the connected-peer table,
// send/broadcast routing, and the periodic liveness task that drives
// each peer's Ping/Pong cycle. It owns no protocol logic of its own —
// every decision (admit a piece, accept a gossip transaction, answer a
// ping) is made by the package that already implements it.
package network

import (
	"sync"

	"github.com/purplecoin/pcore/bootstrap"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/downloader"
	"github.com/purplecoin/pcore/mempool"
	"github.com/purplecoin/pcore/peer"
)

// Network is the registry of connected peers for one running node.
type Network struct {
	mu    sync.RWMutex
	peers map[string]*peer.Peer

	nodeID    crypto.NodeId
	secretKey crypto.SecretKey

	networkName string
	maxPeers    int

	bootstrapCache *bootstrap.Cache
	mempool        *mempool.Pool
	downloader     downloader.Downloader
	relayed        *mempool.SeenCache
}

// relayedCacheSize bounds how many transaction hashes New remembers
// having already fanned out to peers, independent of however long
// those transactions stay in the mempool itself.
const relayedCacheSize uint32 = 4096

// New constructs an empty Network identifying itself as nodeID on
// networkName, accepting at most maxPeers concurrent connections.
func New(nodeID crypto.NodeId, secretKey crypto.SecretKey, networkName string, maxPeers int, cache *bootstrap.Cache, pool *mempool.Pool, dl downloader.Downloader) *Network {
	relayed := mempool.NewSeenCache(relayedCacheSize)
	return &Network{
		peers:          make(map[string]*peer.Peer),
		nodeID:         nodeID,
		secretKey:      secretKey,
		networkName:    networkName,
		maxPeers:       maxPeers,
		bootstrapCache: cache,
		mempool:        pool,
		downloader:     dl,
		relayed:        relayed,
	}
}

// AddPeer registers p under addr. ErrMaximumPeersReached if the
// network is already at capacity.
func (n *Network) AddPeer(addr string, p *peer.Peer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.peers) >= n.maxPeers {
		return ErrMaximumPeersReached
	}
	n.peers[addr] = p
	return nil
}

// RemovePeer deletes the peer entry at addr, if any.
func (n *Network) RemovePeer(addr string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.peers, addr)
}

// PeerCount reports how many peers are currently registered.
func (n *Network) PeerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.peers)
}

// IsConnectedTo reports whether addr is a registered peer.
func (n *Network) IsConnectedTo(addr string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.peers[addr]
	return ok
}

// Peer returns the registered peer at addr, if any.
func (n *Network) Peer(addr string) (*peer.Peer, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	p, ok := n.peers[addr]
	return p, ok
}

// Peers returns a snapshot map of every registered address to its
// peer.
func (n *Network) Peers() map[string]*peer.Peer {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]*peer.Peer, len(n.peers))
	for addr, p := range n.peers {
		out[addr] = p
	}
	return out
}

// SendToPeer enqueues payload for addr at the given priority.
// ErrPeerNotFound if addr isn't registered; otherwise the peer's own
// send_packet error (ErrNoKeys/ErrCouldNotSend/ErrSessionExpired) is
// returned unwrapped, since each already names its failure precisely
// enough that folding them into one NetworkErr would lose information.
func (n *Network) SendToPeer(addr string, payload any, priority peer.Priority) error {
	p, ok := n.Peer(addr)
	if !ok {
		return ErrPeerNotFound
	}
	return p.SendPacket(payload, priority)
}

// SendToAll enqueues payload for every registered peer. ErrNoPeers if
// none are registered. A single peer's send failure is not fatal to
// the broadcast; such failures are dropped and not reported to the
// caller (the teacher's equivalent only logs a warning and otherwise treats
// the broadcast as having succeeded, per send_to_all's "map_err(...)
// .unwrap_or(())").
func (n *Network) SendToAll(payload any, priority peer.Priority) error {
	return n.sendToAllExcept("", payload, priority)
}

// SendToAllExcept is SendToAll, skipping the peer registered at
// exceptAddr (typically the sender of a gossiped message being
// relayed onward).
func (n *Network) SendToAllExcept(exceptAddr string, payload any, priority peer.Priority) error {
	return n.sendToAllExcept(exceptAddr, payload, priority)
}

func (n *Network) sendToAllExcept(exceptAddr string, payload any, priority peer.Priority) error {
	peers := n.Peers()
	if len(peers) == 0 {
		return ErrNoPeers
	}
	for addr, p := range peers {
		if addr == exceptAddr {
			continue
		}
		_ = p.SendPacket(payload, priority)
	}
	return nil
}

// RelayTransaction broadcasts payload to every peer but exceptAddr,
// unless hash has already been relayed once before — a transaction
// gossiped in from several peers in close succession should still
// only go back out to the rest of the network once. Returns false if
// it was suppressed as a repeat.
func (n *Network) RelayTransaction(hash crypto.Hash, exceptAddr string, payload any, priority peer.Priority) (bool, error) {
	if !n.relayed.MarkSeen(hash) {
		return false, nil
	}
	if err := n.sendToAllExcept(exceptAddr, payload, priority); err != nil {
		return false, err
	}
	return true, nil
}

// OurNodeID returns this node's own identity.
func (n *Network) OurNodeID() crypto.NodeId {
	return n.nodeID
}

// BootstrapCache returns the shared bootstrap address cache.
func (n *Network) BootstrapCache() *bootstrap.Cache {
	return n.bootstrapCache
}

// Mempool returns the shared pending-transaction pool.
func (n *Network) Mempool() *mempool.Pool {
	return n.mempool
}

// Downloader returns the shared block-piece downloader handle.
func (n *Network) Downloader() downloader.Downloader {
	return n.downloader
}
