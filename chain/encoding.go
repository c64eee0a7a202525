package chain

import "encoding/binary"

// Shared length-prefixed field helpers for the block codecs, the same
// style trie/node.go and transactions/codec.go use for their own wire
// formats.

func appendUint32Prefixed(buf, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, data...)
}

func readUint32Prefixed(buf []byte) (data, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, ErrTruncatedBlock
	}
	n := binary.BigEndian.Uint32(buf)
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, ErrTruncatedBlock
	}
	return buf[:n], buf[n:], nil
}

func takeFixed(buf []byte, n int) (data, rest []byte, err error) {
	if len(buf) < n {
		return nil, nil, ErrTruncatedBlock
	}
	return buf[:n], buf[n:], nil
}

func putUint64BE(buf []byte, v uint64) {
	binary.BigEndian.PutUint64(buf, v)
}

func getUint64BE(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}

func putUint32BE(buf []byte, v uint32) {
	binary.BigEndian.PutUint32(buf, v)
}

func getUint32BE(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}
