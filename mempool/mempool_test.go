package mempool

import (
	"testing"

	"github.com/purplecoin/pcore/crypto"
)

func TestInsertRejectsDuplicateHash(t *testing.T) {
	p := New(10)
	h := crypto.HashSlice([]byte("tx-1"))
	if !p.Insert(h, nil) {
		t.Fatalf("expected first insert to succeed")
	}
	if p.Insert(h, nil) {
		t.Fatalf("expected duplicate insert to be rejected")
	}
	if p.Len() != 1 {
		t.Fatalf("expected pool length 1, got %d", p.Len())
	}
}

func TestInsertRejectsWhenFull(t *testing.T) {
	p := New(1)
	p.Insert(crypto.HashSlice([]byte("a")), nil)
	if p.Insert(crypto.HashSlice([]byte("b")), nil) {
		t.Fatalf("expected insert past capacity to be rejected")
	}
}

func TestRemoveDeletesEntry(t *testing.T) {
	p := New(10)
	h := crypto.HashSlice([]byte("tx-1"))
	p.Insert(h, nil)
	p.Remove(h)
	if p.Has(h) {
		t.Fatalf("expected hash to be gone after Remove")
	}
}

func TestSeenCacheMarksOnlyOnce(t *testing.T) {
	c := NewSeenCache(1024)
	h := crypto.HashSlice([]byte("tx-1"))
	if !c.MarkSeen(h) {
		t.Fatalf("expected first MarkSeen to return true")
	}
	if c.MarkSeen(h) {
		t.Fatalf("expected repeat MarkSeen to return false")
	}
}

func TestSeenCacheDistinguishesHashes(t *testing.T) {
	c := NewSeenCache(1024)
	c.MarkSeen(crypto.HashSlice([]byte("a")))
	if !c.MarkSeen(crypto.HashSlice([]byte("b"))) {
		t.Fatalf("expected a different hash to still be reported as unseen")
	}
}
