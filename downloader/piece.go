package downloader

import (
	"time"

	"github.com/purplecoin/pcore/crypto"
)

// PieceState is where a single piece sits in its download lifecycle.
type PieceState int

const (
	// Pending: metadata registered, no bytes yet, not currently
	// assigned to any peer.
	Pending PieceState = iota

	// InFlight: dispatched to a peer, awaiting its response.
	InFlight

	// Verified: bytes received and their checksum matched.
	Verified
)

// PieceInfo describes a single piece of a block download before any
// bytes have arrived: which block it belongs to, its index within
// that block, its declared size, and its declared checksum (a CRC32,
// matching the checksum algorithm the rest of this module's wire
// envelope already uses).
type PieceInfo struct {
	BlockHash crypto.Hash
	PieceID   uint32
	Size      uint32
	Checksum  uint32
}

// piece is a downloader's internal bookkeeping record for one piece.
type piece struct {
	info        PieceInfo
	state       PieceState
	data        []byte
	assignedTo  string
	requestedAt time.Time
}

// blockDownload tracks every piece of one block's in-progress
// download, plus the checksum-to-piece-id map ReceiveData uses to
// catch a checksum claimed by two different piece ids.
type blockDownload struct {
	blockHash      crypto.Hash
	header         []byte
	totalPieces    uint32
	pieces         map[uint32]*piece
	acceptedByHash map[uint32]uint32 // checksum -> piece id that claimed it
}

func newBlockDownload(blockHash crypto.Hash, header []byte, totalPieces uint32) *blockDownload {
	return &blockDownload{
		blockHash:      blockHash,
		header:         header,
		totalPieces:    totalPieces,
		pieces:         make(map[uint32]*piece, totalPieces),
		acceptedByHash: make(map[uint32]uint32, totalPieces),
	}
}

// complete reports whether every piece of the block has been
// verified.
func (d *blockDownload) complete() bool {
	if uint32(len(d.pieces)) < d.totalPieces {
		return false
	}
	for _, p := range d.pieces {
		if p.state != Verified {
			return false
		}
	}
	return true
}

// assemble concatenates verified piece data in piece-id order,
// producing the block's full encoded byte stream (header followed by
// each piece's payload).
func (d *blockDownload) assemble() []byte {
	out := make([]byte, 0, len(d.header))
	out = append(out, d.header...)
	for id := uint32(0); id < d.totalPieces; id++ {
		if p, ok := d.pieces[id]; ok {
			out = append(out, p.data...)
		}
	}
	return out
}
