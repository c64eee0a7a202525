package protocolflow

import (
	"testing"
	"time"

	"github.com/purplecoin/pcore/bootstrap"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/mempool"
)

func TestPingPongRoundTrip(t *testing.T) {
	pp := NewPingPong()
	ping, err := pp.Sender.Send()
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !pp.Sender.Waiting() {
		t.Fatalf("expected sender to be waiting after Send")
	}
	pong := pp.Receiver.Receive(ping)
	if err := pp.Sender.Receive(pong); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if pp.Sender.Waiting() {
		t.Fatalf("expected sender to return to Ready on a matching Pong")
	}
}

func TestPingPongSendWhileWaitingIsRejected(t *testing.T) {
	pp := NewPingPong()
	if _, err := pp.Sender.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := pp.Sender.Send(); err != ErrSenderBusy {
		t.Fatalf("expected ErrSenderBusy, got %v", err)
	}
}

func TestPingPongRejectsUnsolicitedPong(t *testing.T) {
	pp := NewPingPong()
	if err := pp.Sender.Receive(Pong{Nonce: NewNonce()}); err != ErrUnsolicitedPong {
		t.Fatalf("expected ErrUnsolicitedPong, got %v", err)
	}
}

func TestRequestPeersRoundTrip(t *testing.T) {
	cache := bootstrap.New(10)
	cache.Insert("127.0.0.1:9000", time.Now())
	cache.Insert("127.0.0.1:9001", time.Now())

	flow := NewRequestPeersFlow(cache)
	req, err := flow.Sender.Send(5)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	reply := flow.Receiver.Receive(req)
	if len(reply.Addrs) != 2 {
		t.Fatalf("expected 2 sampled addresses, got %d", len(reply.Addrs))
	}
	if err := flow.Sender.Receive(reply); err != nil {
		t.Fatalf("Receive: %v", err)
	}
}

func TestRequestPeersRejectsUnknownNonce(t *testing.T) {
	flow := NewRequestPeersFlow(bootstrap.New(10))
	if _, err := flow.Sender.Send(5); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := flow.Sender.Receive(SendPeers{Nonce: NewNonce()}); err != ErrDidntAskForPeers {
		t.Fatalf("expected ErrDidntAskForPeers, got %v", err)
	}
}

func TestRequestPeersRejectsTooManyPeers(t *testing.T) {
	flow := NewRequestPeersFlow(bootstrap.New(10))
	req, _ := flow.Sender.Send(1)
	reply := SendPeers{Nonce: req.Nonce, Addrs: []string{"a:1", "b:1"}}
	if err := flow.Sender.Receive(reply); err != ErrTooManyPeers {
		t.Fatalf("expected ErrTooManyPeers, got %v", err)
	}
}

type fakeChainReader struct {
	blocks map[uint64][]byte
}

func (f fakeChainReader) Height() (uint64, error) { return uint64(len(f.blocks) - 1), nil }

func (f fakeChainReader) BlockBytesAtHeight(h uint64) ([]byte, bool, error) {
	b, ok := f.blocks[h]
	return b, ok, nil
}

func TestRequestBlocksRejectsOversizedRange(t *testing.T) {
	reader := fakeChainReader{blocks: map[uint64][]byte{0: []byte("genesis")}}
	flow := NewRequestBlocksFlow(reader, 10)
	_, err := flow.Receiver.Receive(RequestBlocks{Nonce: NewNonce(), StartHeight: 0, Count: 11})
	if err != ErrRangeTooLarge {
		t.Fatalf("expected ErrRangeTooLarge, got %v", err)
	}
}

func TestRequestBlocksServesRangeAndClearsOutstanding(t *testing.T) {
	reader := fakeChainReader{blocks: map[uint64][]byte{
		0: []byte("b0"), 1: []byte("b1"), 2: []byte("b2"),
	}}
	flow := NewRequestBlocksFlow(reader, 10)
	req := flow.Sender.Send(0, 3)
	if flow.Sender.Outstanding() != 1 {
		t.Fatalf("expected 1 outstanding request")
	}
	reply, err := flow.Receiver.Receive(req)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(reply.Blocks) != 3 {
		t.Fatalf("expected 3 blocks served, got %d", len(reply.Blocks))
	}
	flow.Sender.Receive(reply)
	if flow.Sender.Outstanding() != 0 {
		t.Fatalf("expected outstanding request to clear once every height arrived")
	}
}

func TestTransactionPropagationDropsInvalidWithoutPenaltyOnFirstOffense(t *testing.T) {
	tp := NewTransactionPropagation(mempool.New(10))
	packet := GossipTx{Hash: crypto.HashSlice([]byte("not a transaction")), Raw: []byte("not a transaction")}

	result := tp.Receive(packet, nil, "peer-a")
	if result.Rebroadcast {
		t.Fatalf("expected malformed gossip to be dropped")
	}
	if result.Penalize {
		t.Fatalf("expected no penalty on a first offense")
	}

	result = tp.Receive(packet, nil, "peer-a")
	if !result.Penalize {
		t.Fatalf("expected a penalty on the second offense from the same sender")
	}
}
