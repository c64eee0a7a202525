package trie

import (
	"encoding/binary"

	"github.com/purplecoin/pcore/crypto"
)

// The trie is a radix-16 (nibble-keyed) tree over the raw bytes of the
// §3 key grammar. Nodes are content-addressed: a node's identity is
// the fixed Hasher's digest of its serialized form, so two trees that
// commit to the same entries always share the same root hash and the
// same interior nodes, and any previously committed root remains a
// valid, independently readable snapshot for as long as its nodes
// stay in the backing store.
const (
	nodeTagLeaf   byte = 0x01
	nodeTagBranch byte = 0x02
)

// nibbles expands a byte string into its 2-per-byte nibble path.
func nibbles(key []byte) []byte {
	out := make([]byte, 0, len(key)*2)
	for _, b := range key {
		out = append(out, b>>4, b&0x0f)
	}
	return out
}

// leafNode terminates a path with a stored value.
type leafNode struct {
	path  []byte // remaining nibbles from this node to the value
	value []byte
}

// branchNode has up to 16 children, one per nibble, and may also carry
// a value for a key that ends exactly at this branch.
type branchNode struct {
	children [16]crypto.Hash // crypto.NullHash means "no child"
	hasValue bool
	value    []byte
}

func encodeLeaf(n *leafNode) []byte {
	buf := make([]byte, 0, 1+2+len(n.path)+4+len(n.value))
	buf = append(buf, nodeTagLeaf)
	buf = appendUint16Prefixed(buf, n.path)
	buf = appendUint32Prefixed(buf, n.value)
	return buf
}

func encodeBranch(n *branchNode) []byte {
	buf := make([]byte, 0, 1+16*32+1+4+len(n.value))
	buf = append(buf, nodeTagBranch)
	for _, h := range n.children {
		buf = append(buf, h[:]...)
	}
	if n.hasValue {
		buf = append(buf, 1)
		buf = appendUint32Prefixed(buf, n.value)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

func decodeNode(buf []byte) (interface{}, error) {
	if len(buf) == 0 {
		return nil, ErrCorruptNode
	}
	switch buf[0] {
	case nodeTagLeaf:
		rest := buf[1:]
		path, rest, err := readUint16Prefixed(rest)
		if err != nil {
			return nil, err
		}
		value, _, err := readUint32Prefixed(rest)
		if err != nil {
			return nil, err
		}
		return &leafNode{path: path, value: value}, nil

	case nodeTagBranch:
		rest := buf[1:]
		if len(rest) < 16*32+1 {
			return nil, ErrCorruptNode
		}
		var n branchNode
		for i := 0; i < 16; i++ {
			copy(n.children[i][:], rest[i*32:(i+1)*32])
		}
		rest = rest[16*32:]
		hasValue := rest[0] == 1
		rest = rest[1:]
		n.hasValue = hasValue
		if hasValue {
			value, _, err := readUint32Prefixed(rest)
			if err != nil {
				return nil, err
			}
			n.value = value
		}
		return &n, nil

	default:
		return nil, ErrCorruptNode
	}
}

func appendUint16Prefixed(buf, data []byte) []byte {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(data)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, data...)
}

func readUint16Prefixed(buf []byte) (data, rest []byte, err error) {
	if len(buf) < 2 {
		return nil, nil, ErrCorruptNode
	}
	n := binary.BigEndian.Uint16(buf)
	buf = buf[2:]
	if len(buf) < int(n) {
		return nil, nil, ErrCorruptNode
	}
	return buf[:n], buf[n:], nil
}

func appendUint32Prefixed(buf, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, data...)
}

func readUint32Prefixed(buf []byte) (data, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, ErrCorruptNode
	}
	n := binary.BigEndian.Uint32(buf)
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, ErrCorruptNode
	}
	return buf[:n], buf[n:], nil
}
