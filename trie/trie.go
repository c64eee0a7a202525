package trie

import (
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/persistence"
)

// Trie is an authenticated key-value store over the §3 key grammar.
// Reads resolve against the current root, including inserts not yet
// committed; those inserts live in an in-memory overlay until Commit
// persists them to the backing store. Because nodes are content-addressed and
// immutable, a Trie value copied before further inserts is a valid
// read-only snapshot of the state at that point — see Snapshot.
type Trie struct {
	db     persistence.Store
	hasher Hasher
	root   crypto.Hash

	dirty map[crypto.Hash][]byte
}

// New opens a trie rooted at root (crypto.NullHash for a fresh, empty
// trie) against db, using hasher as its fixed node hasher.
func New(db persistence.Store, hasher Hasher, root crypto.Hash) *Trie {
	return &Trie{
		db:     db,
		hasher: hasher,
		root:   root,
		dirty:  make(map[crypto.Hash][]byte),
	}
}

// Root returns the trie's current (possibly uncommitted) root hash.
func (t *Trie) Root() crypto.Hash {
	return t.root
}

// Snapshot returns a read-only Trie rooted at t's current root,
// sharing the backing store but with its own empty write overlay. Only
// committed nodes are reachable through it: a snapshot taken while t
// holds uncommitted inserts gets ErrNodeNotFound for them. Any
// further inserts made against t (or against the snapshot) are
// invisible to the other side, matching the "before commit" isolation
// the transaction validation path needs (§4.B).
func (t *Trie) Snapshot() *Trie {
	return New(t.db, t.hasher, t.root)
}

func (t *Trie) loadNode(h crypto.Hash) (interface{}, error) {
	if h.IsNull() {
		return nil, nil
	}
	if raw, ok := t.dirty[h]; ok {
		return decodeNode(raw)
	}
	raw, ok := t.db.GetOptional(h.Bytes())
	if !ok {
		return nil, ErrNodeNotFound
	}
	return decodeNode(raw)
}

func (t *Trie) storeNode(encoded []byte) crypto.Hash {
	h := t.hasher.Hash(encoded)
	t.dirty[h] = encoded
	return h
}

// Get retrieves the value stored under key, returning ok=false if no
// entry exists.
func (t *Trie) Get(key []byte) (value []byte, ok bool, err error) {
	return t.get(t.root, nibbles(key))
}

func (t *Trie) get(nodeHash crypto.Hash, path []byte) ([]byte, bool, error) {
	if nodeHash.IsNull() {
		return nil, false, nil
	}
	n, err := t.loadNode(nodeHash)
	if err != nil {
		return nil, false, err
	}

	switch node := n.(type) {
	case *leafNode:
		if bytesEqual(node.path, path) {
			return node.value, true, nil
		}
		return nil, false, nil

	case *branchNode:
		if len(path) == 0 {
			if node.hasValue {
				return node.value, true, nil
			}
			return nil, false, nil
		}
		child := node.children[path[0]]
		return t.get(child, path[1:])

	default:
		return nil, false, nil
	}
}

// Insert writes value under key, overwriting any existing entry. The
// write is not visible to other readers of the committed root until
// Commit is called.
func (t *Trie) Insert(key, value []byte) error {
	newRoot, err := t.insert(t.root, nibbles(key), value)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Trie) insert(nodeHash crypto.Hash, path, value []byte) (crypto.Hash, error) {
	if nodeHash.IsNull() {
		return t.storeNode(encodeLeaf(&leafNode{path: path, value: value})), nil
	}

	n, err := t.loadNode(nodeHash)
	if err != nil {
		return crypto.NullHash, err
	}

	switch node := n.(type) {
	case *leafNode:
		if bytesEqual(node.path, path) {
			return t.storeNode(encodeLeaf(&leafNode{path: path, value: value})), nil
		}
		// Paths diverge somewhere: rebuild the minimal subtree holding
		// both the existing and the new leaf.
		return t.mergeTwoLeaves(node.path, node.value, path, value)

	case *branchNode:
		if len(path) == 0 {
			next := *node
			next.hasValue = true
			next.value = value
			return t.storeNode(encodeBranch(&next)), nil
		}
		next := *node
		childHash, err := t.insert(node.children[path[0]], path[1:], value)
		if err != nil {
			return crypto.NullHash, err
		}
		next.children[path[0]] = childHash
		return t.storeNode(encodeBranch(&next)), nil

	default:
		return crypto.NullHash, ErrCorruptNode
	}
}

// mergeTwoLeaves builds the minimal subtree holding two leaves whose
// remaining nibble paths (pathA, pathB) are known to differ somewhere,
// descending one nibble at a time through shared branch nodes until
// the paths actually diverge or one of them terminates.
func (t *Trie) mergeTwoLeaves(pathA, valueA, pathB, valueB []byte) (crypto.Hash, error) {
	switch {
	case len(pathA) == 0 && len(pathB) == 0:
		// Equal paths can't reach here (the caller already checked
		// equality), but resolve deterministically in favor of the
		// newly inserted value rather than panic on a future bug.
		return t.storeNode(encodeLeaf(&leafNode{value: valueB})), nil

	case len(pathA) == 0:
		var branch branchNode
		branch.hasValue = true
		branch.value = valueA
		branch.children[pathB[0]] = t.storeNode(encodeLeaf(&leafNode{path: pathB[1:], value: valueB}))
		return t.storeNode(encodeBranch(&branch)), nil

	case len(pathB) == 0:
		var branch branchNode
		branch.hasValue = true
		branch.value = valueB
		branch.children[pathA[0]] = t.storeNode(encodeLeaf(&leafNode{path: pathA[1:], value: valueA}))
		return t.storeNode(encodeBranch(&branch)), nil

	case pathA[0] == pathB[0]:
		childHash, err := t.mergeTwoLeaves(pathA[1:], valueA, pathB[1:], valueB)
		if err != nil {
			return crypto.NullHash, err
		}
		var branch branchNode
		branch.children[pathA[0]] = childHash
		return t.storeNode(encodeBranch(&branch)), nil

	default:
		var branch branchNode
		branch.children[pathA[0]] = t.storeNode(encodeLeaf(&leafNode{path: pathA[1:], value: valueA}))
		branch.children[pathB[0]] = t.storeNode(encodeLeaf(&leafNode{path: pathB[1:], value: valueB}))
		return t.storeNode(encodeBranch(&branch)), nil
	}
}

// Commit flushes every node written since the trie was opened (or
// since the last Commit) to the backing store and returns the new
// root hash. It is the only point at which writes become durable and
// visible to a fresh Trie opened against the same store.
func (t *Trie) Commit() (crypto.Hash, error) {
	for h, encoded := range t.dirty {
		if err := t.db.Emplace(h.Bytes(), encoded); err != nil {
			return crypto.NullHash, err
		}
	}
	t.dirty = make(map[crypto.Hash][]byte)
	return t.root, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
