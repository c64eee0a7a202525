package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/purplecoin/pcore/bootstrap"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/downloader"
	"github.com/purplecoin/pcore/mempool"
	"github.com/purplecoin/pcore/peer"
)

type stubChainReader struct{}

func (stubChainReader) Height() (uint64, error)                         { return 0, nil }
func (stubChainReader) BlockBytesAtHeight(uint64) ([]byte, bool, error) { return nil, false, nil }

func newTestNetwork(t *testing.T, maxPeers int) (*Network, crypto.NodeId) {
	t.Helper()
	sk, err := crypto.GenerateSecretKey()
	require.NoError(t, err)
	id := crypto.NewNodeId(sk.PubKey())
	dl := downloader.New(100, time.Second, make(chan downloader.AssembledBlock, 1))
	n := New(id, sk, "testnet", maxPeers, bootstrap.New(10), mempool.New(10), dl)
	return n, id
}

func newHandshakedPeer(t *testing.T) *peer.Peer {
	t.Helper()
	v := peer.NewProtocolValidator(bootstrap.New(10), stubChainReader{}, 64, mempool.New(10))
	p := peer.New("127.0.0.1:9000", v)
	sk, _ := crypto.GenerateSecretKey()
	p.SetID(crypto.NewNodeId(sk.PubKey()))
	return p
}

func TestAddPeerRejectsPastMaxPeers(t *testing.T) {
	n, _ := newTestNetwork(t, 1)
	require.NoError(t, n.AddPeer("a:1", newHandshakedPeer(t)))
	require.ErrorIs(t, n.AddPeer("b:1", newHandshakedPeer(t)), ErrMaximumPeersReached)
}

func TestSendToPeerFailsWhenNotRegistered(t *testing.T) {
	n, _ := newTestNetwork(t, 8)
	if err := n.SendToPeer("nowhere:1", "x", peer.Low); err != ErrPeerNotFound {
		t.Fatalf("expected ErrPeerNotFound, got %v", err)
	}
}

func TestSendToAllExceptSkipsTheException(t *testing.T) {
	n, _ := newTestNetwork(t, 8)
	a := newHandshakedPeer(t)
	b := newHandshakedPeer(t)
	require.NoError(t, n.AddPeer("a:1", a))
	require.NoError(t, n.AddPeer("b:1", b))

	require.NoError(t, n.SendToAllExcept("a:1", "gossip", peer.Low))
	_, ok := a.NextOutbound()
	require.False(t, ok, "expected the excepted peer to receive nothing")
	_, ok = b.NextOutbound()
	require.True(t, ok, "expected the other peer to receive the broadcast")
}

func TestSendToAllFailsWithNoPeers(t *testing.T) {
	n, _ := newTestNetwork(t, 8)
	if err := n.SendToAll("x", peer.Low); err != ErrNoPeers {
		t.Fatalf("expected ErrNoPeers, got %v", err)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := NewEnvelope(42, []byte("hello"))
	decoded, err := DecodeEnvelope(env.Encode())
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if decoded.Nonce != 42 || string(decoded.Body) != "hello" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestEnvelopeRejectsBadVersion(t *testing.T) {
	env := NewEnvelope(1, []byte("x"))
	raw := env.Encode()
	raw[0] = 0xff
	if _, err := DecodeEnvelope(raw); err != ErrBadVersion {
		t.Fatalf("expected ErrBadVersion, got %v", err)
	}
}

func TestEnvelopeRejectsBadCRC(t *testing.T) {
	env := NewEnvelope(1, []byte("x"))
	raw := env.Encode()
	raw[len(raw)-1] ^= 0xff // corrupt the body without changing its length
	if _, err := DecodeEnvelope(raw); err != ErrBadCRC32 {
		t.Fatalf("expected ErrBadCRC32, got %v", err)
	}
}

func TestEnvelopeRejectsTruncatedHeader(t *testing.T) {
	if _, err := DecodeEnvelope([]byte{1, 2, 3}); err != ErrBadFormat {
		t.Fatalf("expected ErrBadFormat, got %v", err)
	}
}

func TestConnectRoundTrip(t *testing.T) {
	sk, err := crypto.GenerateSecretKey()
	require.NoError(t, err)
	c := Connect{NodeID: crypto.NewNodeId(sk.PubKey()), ListenPort: 7777}
	decoded, err := ConnectFromBytes(c.ToBytes())
	require.NoError(t, err)
	require.Equal(t, uint16(7777), decoded.ListenPort)
	require.True(t, decoded.NodeID.IsEqual(c.NodeID))
}

func TestConnectFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := ConnectFromBytes([]byte{1, 2, 3}); err != ErrInvalidConnectPacket {
		t.Fatalf("expected ErrInvalidConnectPacket, got %v", err)
	}
}

func TestRelayTransactionSuppressesRepeat(t *testing.T) {
	n, _ := newTestNetwork(t, 8)
	a := newHandshakedPeer(t)
	require.NoError(t, n.AddPeer("a:1", a))

	var hash crypto.Hash
	hash[0] = 0xAB

	sent, err := n.RelayTransaction(hash, "", "tx-bytes", peer.Low)
	require.NoError(t, err)
	require.True(t, sent, "first relay should go out")
	_, ok := a.NextOutbound()
	require.True(t, ok)

	sent, err = n.RelayTransaction(hash, "", "tx-bytes", peer.Low)
	require.NoError(t, err)
	require.False(t, sent, "repeat relay of the same hash should be suppressed")
	_, ok = a.NextOutbound()
	require.False(t, ok, "the peer should not receive a second copy")
}

func TestTickStartsPingOnceDue(t *testing.T) {
	p := newHandshakedPeer(t)
	var due bool
	for i := 0; i < int(peer.PingInterval/peer.TimerInterval)+2; i++ {
		if _, ok := tick(p); ok {
			due = true
			break
		}
	}
	require.True(t, due, "expected a ping to become due")
	require.True(t, p.Validator.PingPong.Sender.Waiting(), "expected the ping/pong sender to be waiting after a ping round started")
}
