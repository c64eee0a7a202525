// Package protocolflow implements the matched sender/receiver state
// machines of §4.H: ping/pong keepalive, peer-address exchange, block
// range requests, and transaction gossip. Each flow only decides
// whether an inbound packet advances its own state and what outbound
// packet (if any) it produces in reply; wiring a flow's output onto an
// actual socket is the network package's job.
package protocolflow

import (
	"github.com/google/uuid"

	"github.com/purplecoin/pcore/crypto"
)

// Nonce identifies one round of a request/response flow, binding a
// reply to the request that solicited it. A UUID is overkill for
// collision avoidance on a single connection, but it keeps a sender
// from ever needing to coordinate nonce allocation across peers.
type Nonce = uuid.UUID

// NewNonce returns a fresh random nonce.
func NewNonce() Nonce {
	return uuid.New()
}

// Ping asks a peer to answer with a matching Pong.
type Ping struct {
	Nonce Nonce
}

// Pong answers a Ping, echoing its nonce.
type Pong struct {
	Nonce Nonce
}

// RequestPeers asks a peer to sample its bootstrap cache.
type RequestPeers struct {
	Nonce          Nonce
	RequestedPeers uint32
}

// SendPeers answers a RequestPeers with a sample of reachable
// addresses.
type SendPeers struct {
	Nonce Nonce
	Addrs []string
}

// RequestBlocks asks a peer to serve a contiguous range of blocks,
// identified by the height of the first block and a count.
type RequestBlocks struct {
	Nonce       Nonce
	StartHeight uint64
	Count       uint32
}

// SendBlocks answers a RequestBlocks with the canonically encoded
// bytes of each block in the requested range, in height order.
type SendBlocks struct {
	Nonce  Nonce
	Blocks [][]byte
}

// GossipTx carries a transaction's canonical encoding and its
// precomputed hash, so a receiver can deduplicate against the mempool
// before decoding and validating it.
type GossipTx struct {
	Hash crypto.Hash
	Raw  []byte
}
