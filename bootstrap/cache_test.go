package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInsertRejectsDuplicate(t *testing.T) {
	c := New(10)
	now := time.Now()
	if err := c.Insert("127.0.0.1:9000", now); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.Insert("127.0.0.1:9000", now); err != ErrAlreadyStored {
		t.Fatalf("expected ErrAlreadyStored, got %v", err)
	}
}

func TestRemoveDeletesEntry(t *testing.T) {
	c := New(10)
	c.Insert("127.0.0.1:9000", time.Now())
	c.Remove("127.0.0.1:9000")
	if c.Len() != 0 {
		t.Fatalf("expected cache to be empty after Remove, got %d", c.Len())
	}
}

func TestInsertEvictsOldestWhenFull(t *testing.T) {
	c := New(2)
	base := time.Now()
	c.Insert("a:1", base.Add(-2*time.Hour))
	c.Insert("b:1", base.Add(-1*time.Hour))
	if err := c.Insert("c:1", base); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected capacity to be respected, got %d entries", c.Len())
	}
	entries := c.Entries()
	for _, e := range entries {
		if e.Address == "a:1" {
			t.Fatalf("expected the oldest entry (a:1) to be evicted")
		}
	}
}

func TestSampleReturnsAtMostN(t *testing.T) {
	c := New(10)
	for i := 0; i < 5; i++ {
		c.Insert(string(rune('a'+i))+":1", time.Now())
	}
	sample := c.Sample(3)
	if len(sample) != 3 {
		t.Fatalf("expected 3 sampled entries, got %d", len(sample))
	}
	seen := make(map[string]bool)
	for _, e := range sample {
		if seen[e.Address] {
			t.Fatalf("expected sampling without replacement, saw %s twice", e.Address)
		}
		seen[e.Address] = true
	}
}

func TestSampleCappedAtCacheSize(t *testing.T) {
	c := New(10)
	c.Insert("a:1", time.Now())
	c.Insert("b:1", time.Now())
	sample := c.Sample(10)
	if len(sample) != 2 {
		t.Fatalf("expected Sample to cap at the cache's size, got %d", len(sample))
	}
}

func TestSaveAndLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peers.cache")

	c := New(10)
	c.Insert("127.0.0.1:9000", time.Unix(1700000000, 0))
	c.Insert("127.0.0.1:9001", time.Unix(1700000100, 0))
	if err := c.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	loaded := LoadFile(path, 10)
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", loaded.Len())
	}
}

func TestLoadFileMissingIsEmptyNotError(t *testing.T) {
	dir := t.TempDir()
	c := LoadFile(filepath.Join(dir, "does-not-exist"), 10)
	if c.Len() != 0 {
		t.Fatalf("expected an empty cache for a missing file")
	}
}

func TestLoadFileDiscardsCorruptedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.cache")
	if err := os.WriteFile(path, []byte("not a valid line at all\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c := LoadFile(path, 10)
	if c.Len() != 0 {
		t.Fatalf("expected corrupted file to be discarded, yielding an empty cache")
	}
}
