package protocolflow

// ChainReader is the read-only view of a chain the Request-Blocks
// receiver needs: its current height, and the canonically encoded
// bytes of the block at a given height. network wiring adapts a
// chain.Chain[B] to this interface once, at construction time, so this
// package stays generic over which of the two chains it is serving.
type ChainReader interface {
	Height() (uint64, error)
	BlockBytesAtHeight(height uint64) ([]byte, bool, error)
}

// outstandingRequest is one round of a RequestBlocksSender: the range
// asked for and which heights within it have not yet arrived.
type outstandingRequest struct {
	nonce       Nonce
	startHeight uint64
	count       uint32
	remaining   map[uint64]bool
}

// RequestBlocksSender tracks the set of outstanding block ranges it
// has asked peers for, matching arriving SendBlocks against them by
// nonce.
type RequestBlocksSender struct {
	outstanding map[Nonce]*outstandingRequest
}

// NewRequestBlocksSender constructs an empty sender.
func NewRequestBlocksSender() *RequestBlocksSender {
	return &RequestBlocksSender{outstanding: make(map[Nonce]*outstandingRequest)}
}

// Send starts tracking a new range request.
func (s *RequestBlocksSender) Send(startHeight uint64, count uint32) RequestBlocks {
	nonce := NewNonce()
	remaining := make(map[uint64]bool, count)
	for h := startHeight; h < startHeight+uint64(count); h++ {
		remaining[h] = true
	}
	s.outstanding[nonce] = &outstandingRequest{
		nonce:       nonce,
		startHeight: startHeight,
		count:       count,
		remaining:   remaining,
	}
	return RequestBlocks{Nonce: nonce, StartHeight: startHeight, Count: count}
}

// Receive matches an inbound SendBlocks against its outstanding
// request, clearing the heights it covers. It is a no-op (not an
// error: a straggling reply after a timeout is expected) if the nonce
// is unknown. Once every height in a request has arrived, the request
// is dropped from the outstanding set.
func (s *RequestBlocksSender) Receive(packet SendBlocks) {
	req, ok := s.outstanding[packet.Nonce]
	if !ok {
		return
	}
	for i := range packet.Blocks {
		delete(req.remaining, req.startHeight+uint64(i))
	}
	if len(req.remaining) == 0 {
		delete(s.outstanding, packet.Nonce)
	}
}

// Outstanding reports how many ranges are still awaiting a reply.
func (s *RequestBlocksSender) Outstanding() int {
	return len(s.outstanding)
}

// RequestBlocksReceiver serves ranges of blocks from local chain
// storage.
type RequestBlocksReceiver struct {
	chain    ChainReader
	maxRange uint32
}

// NewRequestBlocksReceiver builds a receiver serving from chain,
// rejecting any request whose Count exceeds maxRange.
func NewRequestBlocksReceiver(chain ChainReader, maxRange uint32) *RequestBlocksReceiver {
	return &RequestBlocksReceiver{chain: chain, maxRange: maxRange}
}

// Receive answers an inbound RequestBlocks. Missing blocks within the
// range (a height beyond the local tip) simply end the reply short;
// they are not an error, since the asker can always issue a follow-up
// request once it has advanced further.
func (r *RequestBlocksReceiver) Receive(packet RequestBlocks) (SendBlocks, error) {
	if packet.Count > r.maxRange {
		return SendBlocks{}, ErrRangeTooLarge
	}

	blocks := make([][]byte, 0, packet.Count)
	for h := packet.StartHeight; h < packet.StartHeight+uint64(packet.Count); h++ {
		raw, ok, err := r.chain.BlockBytesAtHeight(h)
		if err != nil {
			return SendBlocks{}, err
		}
		if !ok {
			break
		}
		blocks = append(blocks, raw)
	}
	return SendBlocks{Nonce: packet.Nonce, Blocks: blocks}, nil
}

// RequestBlocksFlow bundles both halves, instantiated once per
// connected peer.
type RequestBlocksFlow struct {
	Sender   *RequestBlocksSender
	Receiver *RequestBlocksReceiver
}

// NewRequestBlocksFlow constructs a fresh RequestBlocksFlow serving
// from chain.
func NewRequestBlocksFlow(chain ChainReader, maxRange uint32) *RequestBlocksFlow {
	return &RequestBlocksFlow{
		Sender:   NewRequestBlocksSender(),
		Receiver: NewRequestBlocksReceiver(chain, maxRange),
	}
}
