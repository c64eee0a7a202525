package downloader

import (
	"hash/crc32"
	"testing"
	"time"

	"github.com/purplecoin/pcore/crypto"
)

func testBlockHash() crypto.Hash {
	return crypto.HashSlice([]byte("block-1"))
}

func TestScheduleAndAdmitPiece(t *testing.T) {
	d := New(100, time.Second, make(chan AssembledBlock, 1))
	hash := testBlockHash()
	if err := d.ScheduleBlock(hash, []byte("header"), 2); err != nil {
		t.Fatalf("ScheduleBlock: %v", err)
	}
	info := PieceInfo{BlockHash: hash, PieceID: 0, Size: 4, Checksum: crc32.ChecksumIEEE([]byte("data"))}
	if err := d.AdmitPiece(info); err != nil {
		t.Fatalf("AdmitPiece: %v", err)
	}
	if err := d.AdmitPiece(info); err != ErrAlreadyHaveInfo {
		t.Fatalf("expected ErrAlreadyHaveInfo, got %v", err)
	}
}

func TestScheduleRejectsInvalidHeaderAndSize(t *testing.T) {
	d := New(100, time.Second, make(chan AssembledBlock, 1))
	if err := d.ScheduleBlock(testBlockHash(), nil, 2); err != ErrInvalidBlockHeader {
		t.Fatalf("expected ErrInvalidBlockHeader, got %v", err)
	}
	if err := d.ScheduleBlock(testBlockHash(), []byte("h"), 0); err != ErrInvalidSize {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestAdmitPieceRejectsWhenFull(t *testing.T) {
	d := New(1, time.Second, make(chan AssembledBlock, 1))
	hash := testBlockHash()
	d.ScheduleBlock(hash, []byte("header"), 2)
	d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 0, Size: 4, Checksum: 1})
	if err := d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 1, Size: 4, Checksum: 2}); err != ErrFull {
		t.Fatalf("expected ErrFull, got %v", err)
	}
}

func TestDispatchThenReceiveDataCompletesDownload(t *testing.T) {
	appender := make(chan AssembledBlock, 1)
	d := New(100, time.Second, appender)
	hash := testBlockHash()
	d.ScheduleBlock(hash, []byte("HDR"), 2)

	piece0 := []byte("aaaa")
	piece1 := []byte("bbbb")
	d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 0, Size: 4, Checksum: crc32.ChecksumIEEE(piece0)})
	d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 1, Size: 4, Checksum: crc32.ChecksumIEEE(piece1)})

	if err := d.Dispatch(hash, 0, "peer-a"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := d.Dispatch(hash, 1, "peer-b"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if _, err := d.ReceiveData(hash, 0, piece0); err != nil {
		t.Fatalf("ReceiveData piece0: %v", err)
	}
	select {
	case <-appender:
		t.Fatalf("expected no assembled block before every piece verified")
	default:
	}

	if _, err := d.ReceiveData(hash, 1, piece1); err != nil {
		t.Fatalf("ReceiveData piece1: %v", err)
	}

	select {
	case assembled := <-appender:
		want := "HDR" + "aaaa" + "bbbb"
		if string(assembled.Encoded) != want {
			t.Fatalf("expected assembled bytes %q, got %q", want, assembled.Encoded)
		}
	default:
		t.Fatalf("expected an assembled block once every piece verified")
	}
}

func TestReceiveDataRejectsBadChecksumAndRevertsToPending(t *testing.T) {
	d := New(100, time.Second, make(chan AssembledBlock, 1))
	hash := testBlockHash()
	d.ScheduleBlock(hash, []byte("header"), 1)
	d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 0, Size: 4, Checksum: crc32.ChecksumIEEE([]byte("aaaa"))})
	d.Dispatch(hash, 0, "peer-a")

	peer, err := d.ReceiveData(hash, 0, []byte("zzzz"))
	if err != ErrInvalidChecksum {
		t.Fatalf("expected ErrInvalidChecksum, got %v", err)
	}
	if peer != "peer-a" {
		t.Fatalf("expected assigned peer to be reported for scoring, got %q", peer)
	}

	// Reverted to Pending: redispatch should succeed.
	if err := d.Dispatch(hash, 0, "peer-b"); err != nil {
		t.Fatalf("expected redispatch after checksum failure to succeed, got %v", err)
	}
}

func TestReceiveDataRejectsDuplicateChecksum(t *testing.T) {
	d := New(100, time.Second, make(chan AssembledBlock, 1))
	hash := testBlockHash()
	d.ScheduleBlock(hash, []byte("header"), 2)

	shared := []byte("aaaa")
	checksum := crc32.ChecksumIEEE(shared)
	d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 0, Size: 4, Checksum: checksum})
	d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 1, Size: 4, Checksum: checksum})
	d.Dispatch(hash, 0, "peer-a")
	d.Dispatch(hash, 1, "peer-b")

	if _, err := d.ReceiveData(hash, 0, shared); err != nil {
		t.Fatalf("ReceiveData piece0: %v", err)
	}
	if _, err := d.ReceiveData(hash, 1, shared); err != ErrDuplicateChecksum {
		t.Fatalf("expected ErrDuplicateChecksum, got %v", err)
	}
}

func TestCheckTimeoutsRevertsStalePieces(t *testing.T) {
	d := New(100, time.Millisecond, make(chan AssembledBlock, 1))
	hash := testBlockHash()
	d.ScheduleBlock(hash, []byte("header"), 1)
	d.AdmitPiece(PieceInfo{BlockHash: hash, PieceID: 0, Size: 4, Checksum: 1})
	d.Dispatch(hash, 0, "peer-a")

	time.Sleep(5 * time.Millisecond)
	timedOut := d.CheckTimeouts(time.Now())
	if len(timedOut) != 1 || timedOut[0].AssignedTo != "peer-a" {
		t.Fatalf("expected 1 timed-out piece assigned to peer-a, got %+v", timedOut)
	}
	if err := d.Dispatch(hash, 0, "peer-b"); err != nil {
		t.Fatalf("expected redispatch after timeout to succeed, got %v", err)
	}
}
