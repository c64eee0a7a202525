package peer

import (
	"github.com/purplecoin/pcore/bootstrap"
	"github.com/purplecoin/pcore/mempool"
	"github.com/purplecoin/pcore/protocolflow"
)

// ProtocolValidator wraps every protocol flow a connected peer
// participates in. One is instantiated per peer, mirroring the
// four-flow bundle the Rust implementation built once per connection.
type ProtocolValidator struct {
	PingPong               *protocolflow.PingPong
	RequestBlocks          *protocolflow.RequestBlocksFlow
	RequestPeers           *protocolflow.RequestPeersFlow
	TransactionPropagation *protocolflow.TransactionPropagation
}

// NewProtocolValidator builds the flow bundle for a freshly connected
// peer. cache and chain back the Request-Peers and Request-Blocks
// receivers respectively; pool backs transaction gossip.
func NewProtocolValidator(cache *bootstrap.Cache, chain protocolflow.ChainReader, maxBlockRange uint32, pool *mempool.Pool) *ProtocolValidator {
	return &ProtocolValidator{
		PingPong:               protocolflow.NewPingPong(),
		RequestBlocks:          protocolflow.NewRequestBlocksFlow(chain, maxBlockRange),
		RequestPeers:           protocolflow.NewRequestPeersFlow(cache),
		TransactionPropagation: protocolflow.NewTransactionPropagation(pool),
	}
}
