// Package downloader implements §4.G: scheduling and assembling
// block downloads out of individually checksummed pieces fetched from
// possibly many peers concurrently, handing the fully assembled block
// off to whichever channel feeds the chain appender task.
package downloader

import (
	"hash/crc32"
	"sync"
	"time"

	"github.com/purplecoin/pcore/crypto"
)

// AssembledBlock is the result of a completed download: the block's
// hash and its full canonical encoding (header followed by every
// piece's payload in piece-id order), ready for the chain's codec to
// decode.
type AssembledBlock struct {
	BlockHash crypto.Hash
	Encoded   []byte
}

// TimedOutPiece reports a piece CheckTimeouts reverted to Pending, so
// the caller can score the peer it was assigned to.
type TimedOutPiece struct {
	BlockHash  crypto.Hash
	PieceID    uint32
	AssignedTo string
}

// Downloader is a shared handle over one internal piece store: every
// copy of a Downloader value observes the same downloads, the same
// way cloning the teacher's equivalent handle types shares state
// rather than forking it.
type Downloader struct {
	state *state
}

type state struct {
	mu        sync.Mutex
	capacity  int
	timeout   time.Duration
	downloads map[crypto.Hash]*blockDownload
	appender  chan<- AssembledBlock
}

// New constructs a Downloader bounded at capacity total pieces across
// every in-progress download, reverting a piece to Pending if it
// spends longer than timeout InFlight. Completed blocks are sent on
// appender.
func New(capacity int, timeout time.Duration, appender chan<- AssembledBlock) Downloader {
	return Downloader{state: &state{
		capacity:  capacity,
		timeout:   timeout,
		downloads: make(map[crypto.Hash]*blockDownload),
		appender:  appender,
	}}
}

// ScheduleBlock registers a new block download of totalPieces pieces,
// carrying header as the bytes that precede the first piece in the
// assembled encoding (typically the block's fixed-size header fields).
func (d Downloader) ScheduleBlock(blockHash crypto.Hash, header []byte, totalPieces uint32) error {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	if len(header) == 0 {
		return ErrInvalidBlockHeader
	}
	if totalPieces == 0 {
		return ErrInvalidSize
	}
	if _, ok := d.state.downloads[blockHash]; ok {
		return ErrAlreadyHaveDownload
	}
	d.state.downloads[blockHash] = newBlockDownload(blockHash, header, totalPieces)
	return nil
}

// totalPiecesLocked counts pieces tracked across every download.
// Callers must hold d.state.mu.
func (d Downloader) totalPiecesLocked() int {
	n := 0
	for _, dl := range d.state.downloads {
		n += len(dl.pieces)
	}
	return n
}

// AdmitPiece registers metadata for a (block hash, piece id) tuple
// ahead of its bytes arriving.
func (d Downloader) AdmitPiece(info PieceInfo) error {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	if info.BlockHash.IsNull() {
		return ErrInvalidInfo
	}
	if info.Size == 0 {
		return ErrInvalidSize
	}
	dl, ok := d.state.downloads[info.BlockHash]
	if !ok {
		return ErrNotFound
	}
	if existing, ok := dl.pieces[info.PieceID]; ok {
		switch existing.state {
		case Verified:
			return ErrAlreadyHaveData
		case InFlight:
			return ErrAlreadyHaveDownload
		default:
			return ErrAlreadyHaveInfo
		}
	}
	if d.totalPiecesLocked() >= d.state.capacity {
		return ErrFull
	}
	dl.pieces[info.PieceID] = &piece{info: info, state: Pending}
	return nil
}

// Dispatch marks a registered piece InFlight, assigned to peerAddr.
// ErrNotFound if the tuple isn't registered; ErrAlreadyHaveDownload or
// ErrAlreadyHaveData if it isn't Pending.
func (d Downloader) Dispatch(blockHash crypto.Hash, pieceID uint32, peerAddr string) error {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	p, err := d.lookupLocked(blockHash, pieceID)
	if err != nil {
		return err
	}
	switch p.state {
	case InFlight:
		return ErrAlreadyHaveDownload
	case Verified:
		return ErrAlreadyHaveData
	}
	p.state = InFlight
	p.assignedTo = peerAddr
	p.requestedAt = time.Now()
	return nil
}

// ReceiveData processes bytes arriving for a piece. It returns the
// peer the piece was assigned to (for the caller's scoring policy)
// alongside any error. On success, and if every piece of the block is
// now Verified, the assembled block is sent on the appender channel
// and the download is dropped from the store.
func (d Downloader) ReceiveData(blockHash crypto.Hash, pieceID uint32, data []byte) (assignedTo string, err error) {
	d.state.mu.Lock()

	p, err := d.lookupLocked(blockHash, pieceID)
	if err != nil {
		d.state.mu.Unlock()
		return "", err
	}
	assignedTo = p.assignedTo

	computed := crc32.ChecksumIEEE(data)
	if computed != p.info.Checksum {
		p.state = Pending
		d.state.mu.Unlock()
		return assignedTo, ErrInvalidChecksum
	}

	dl := d.state.downloads[blockHash]
	if claimedBy, ok := dl.acceptedByHash[computed]; ok && claimedBy != pieceID {
		p.state = Pending
		d.state.mu.Unlock()
		return assignedTo, ErrDuplicateChecksum
	}

	p.state = Verified
	p.data = data
	dl.acceptedByHash[computed] = pieceID

	if !dl.complete() {
		d.state.mu.Unlock()
		return assignedTo, nil
	}

	assembled := AssembledBlock{BlockHash: blockHash, Encoded: dl.assemble()}
	delete(d.state.downloads, blockHash)
	d.state.mu.Unlock()

	d.state.appender <- assembled
	return assignedTo, nil
}

// CheckTimeouts reverts every piece that has been InFlight longer than
// the configured timeout back to Pending, reporting each one so the
// caller can score its assigned peer negatively and redispatch
// elsewhere.
func (d Downloader) CheckTimeouts(now time.Time) []TimedOutPiece {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	var timedOut []TimedOutPiece
	for _, dl := range d.state.downloads {
		for id, p := range dl.pieces {
			if p.state == InFlight && now.Sub(p.requestedAt) > d.state.timeout {
				timedOut = append(timedOut, TimedOutPiece{
					BlockHash:  dl.blockHash,
					PieceID:    id,
					AssignedTo: p.assignedTo,
				})
				p.state = Pending
			}
		}
	}
	return timedOut
}

// lookupLocked finds a registered piece. Callers must hold d.state.mu.
func (d Downloader) lookupLocked(blockHash crypto.Hash, pieceID uint32) (*piece, error) {
	dl, ok := d.state.downloads[blockHash]
	if !ok {
		return nil, ErrNotFound
	}
	p, ok := dl.pieces[pieceID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
