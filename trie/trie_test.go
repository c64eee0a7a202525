package trie

import (
	"testing"

	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/persistence"
)

func newTestTrie() *Trie {
	return New(persistence.OpenMemory(), BlakeHasher{}, crypto.NullHash)
}

func TestInsertAndGet(t *testing.T) {
	tr := newTestTrie()

	if err := tr.Insert([]byte("deadbeef.n"), []byte{0, 0, 0, 0, 0, 0, 0, 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	val, ok, err := tr.Get([]byte("deadbeef.n"))
	if err != nil || !ok {
		t.Fatalf("Get: val=%v ok=%v err=%v", val, ok, err)
	}
	if len(val) != 8 || val[7] != 1 {
		t.Fatalf("unexpected value: %v", val)
	}
}

func TestGetMissingKey(t *testing.T) {
	tr := newTestTrie()
	_, ok, err := tr.Get([]byte("missing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for a missing key")
	}
}

func TestOverwriteExistingKey(t *testing.T) {
	tr := newTestTrie()
	tr.Insert([]byte("k"), []byte("v1"))
	tr.Insert([]byte("k"), []byte("v2"))

	val, ok, err := tr.Get([]byte("k"))
	if err != nil || !ok {
		t.Fatalf("Get: %v %v %v", val, ok, err)
	}
	if string(val) != "v2" {
		t.Fatalf("expected overwritten value v2, got %q", val)
	}
}

func TestDivergingKeysBothReadable(t *testing.T) {
	tr := newTestTrie()
	keys := [][]byte{
		[]byte("aa.n"),
		[]byte("ab.n"),
		[]byte("ba.n"),
		[]byte("aa.am"),
	}
	for i, k := range keys {
		if err := tr.Insert(k, []byte{byte(i)}); err != nil {
			t.Fatalf("Insert(%q): %v", k, err)
		}
	}
	for i, k := range keys {
		val, ok, err := tr.Get(k)
		if err != nil || !ok {
			t.Fatalf("Get(%q): %v %v %v", k, val, ok, err)
		}
		if val[0] != byte(i) {
			t.Fatalf("Get(%q): expected %d, got %d", k, i, val[0])
		}
	}
}

func TestCommitPersistsAcrossNewTrieHandle(t *testing.T) {
	db := persistence.OpenMemory()
	tr := New(db, BlakeHasher{}, crypto.NullHash)

	tr.Insert([]byte("addr.n"), []byte{0, 0, 0, 0, 0, 0, 0, 0})
	root, err := tr.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	reopened := New(db, BlakeHasher{}, root)
	val, ok, err := reopened.Get([]byte("addr.n"))
	if err != nil || !ok {
		t.Fatalf("Get after reopen: %v %v %v", val, ok, err)
	}
}

func TestSnapshotIsolatesUncommittedWrites(t *testing.T) {
	tr := newTestTrie()
	tr.Insert([]byte("k"), []byte("v1"))
	tr.Commit()

	snap := tr.Snapshot()

	// Mutate the live trie after taking the snapshot.
	tr.Insert([]byte("k"), []byte("v2"))
	tr.Commit()

	val, ok, err := snap.Get([]byte("k"))
	if err != nil || !ok {
		t.Fatalf("Get on snapshot: %v %v %v", val, ok, err)
	}
	if string(val) != "v1" {
		t.Fatalf("expected snapshot to see the pre-mutation value v1, got %q", val)
	}
}

func TestRootChangesOnInsert(t *testing.T) {
	tr := newTestTrie()
	before := tr.Root()
	tr.Insert([]byte("k"), []byte("v"))
	after := tr.Root()
	if before == after {
		t.Fatalf("expected root to change after inserting a new entry")
	}
}
