package network

import (
	"encoding/binary"

	"github.com/purplecoin/pcore/crypto"
)

// connectSize is Connect's fixed wire size: a compressed public key
// (crypto.PublicKeySize bytes) followed by a 2-byte listen port.
const connectSize = crypto.PublicKeySize + 2

// Connect is the only packet a peer in Handshaking may send or
// receive: it carries the node id offering to establish a session and
// the port it accepts inbound connections on.
type Connect struct {
	NodeID     crypto.NodeId
	ListenPort uint16
}

// ToBytes serializes a Connect packet to its fixed-size wire form.
func (c Connect) ToBytes() []byte {
	buf := make([]byte, connectSize)
	copy(buf[:crypto.PublicKeySize], c.NodeID.Bytes())
	binary.BigEndian.PutUint16(buf[crypto.PublicKeySize:], c.ListenPort)
	return buf
}

// ConnectFromBytes parses a Connect packet. ErrInvalidConnectPacket on
// any length or key-encoding mismatch.
func ConnectFromBytes(buf []byte) (Connect, error) {
	if len(buf) != connectSize {
		return Connect{}, ErrInvalidConnectPacket
	}
	pub, err := crypto.PublicKeyFromBytes(buf[:crypto.PublicKeySize])
	if err != nil {
		return Connect{}, ErrInvalidConnectPacket
	}
	return Connect{
		NodeID:     crypto.NewNodeId(pub),
		ListenPort: binary.BigEndian.Uint16(buf[crypto.PublicKeySize:]),
	}, nil
}
