package chain

import (
	"testing"

	"github.com/purplecoin/pcore/account"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/persistence"
	"github.com/purplecoin/pcore/transactions"
	"github.com/purplecoin/pcore/trie"
)

func newTestSetup(t *testing.T) (persistence.Store, *trie.Trie) {
	t.Helper()
	db := persistence.OpenMemory()
	tr := trie.New(db, trie.BlakeHasher{}, crypto.NullHash)
	if err := transactions.ApplyGenesis(tr, nil); err != nil {
		t.Fatalf("ApplyGenesis: %v", err)
	}
	if _, err := tr.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return db, tr
}

func TestEasyChainOpenStartsEmpty(t *testing.T) {
	db, tr := newTestSetup(t)
	c, err := Open[EasyBlock](db, tr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	height, err := c.Height()
	if err != nil || height != 0 {
		t.Fatalf("expected height 0, got %d err=%v", height, err)
	}
	if _, err := c.Top(); err != ErrInvalidHeight {
		t.Fatalf("expected ErrInvalidHeight on an empty chain, got %v", err)
	}
}

// TestEasyChainAppendHappyPath is §8 scenario S1: an empty chain
// accepts a parent-less B0 as genesis, then accepts B1 extending it,
// landing at height 2 with top = B1.
func TestEasyChainAppendHappyPath(t *testing.T) {
	db, tr := newTestSetup(t)
	c, err := Open[EasyBlock](db, tr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	b0 := EasyBlock{Timestamp: genesisTimestamp}
	if err := c.AppendBlock(b0); err != nil {
		t.Fatalf("AppendBlock(b0): %v", err)
	}
	height, err := c.Height()
	if err != nil || height != 1 {
		t.Fatalf("expected height 1 after genesis, got %d err=%v", height, err)
	}

	b0Hash := EasyBlockCodec{}.Hash(b0)
	b1 := EasyBlock{
		ParentHash: &b0Hash,
		Miner:      account.NewMultiSigAddress(crypto.HashSlice([]byte("miner"))),
		Timestamp:  genesisTimestamp + 1,
	}
	if err := c.AppendBlock(b1); err != nil {
		t.Fatalf("AppendBlock(b1): %v", err)
	}

	height, err = c.Height()
	if err != nil || height != 2 {
		t.Fatalf("expected height 2, got %d err=%v", height, err)
	}
	top, err := c.Top()
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if EasyBlockCodec{}.Hash(top) != EasyBlockCodec{}.Hash(b1) {
		t.Fatalf("expected top to be b1")
	}

	byHeight, ok, err := c.QueryByHeight(1)
	if err != nil || !ok {
		t.Fatalf("QueryByHeight(1): ok=%v err=%v", ok, err)
	}
	if EasyBlockCodec{}.Hash(byHeight) != EasyBlockCodec{}.Hash(b1) {
		t.Fatalf("QueryByHeight returned the wrong block")
	}

	h, ok, err := c.BlockHeight(EasyBlockCodec{}.Hash(b1))
	if err != nil || !ok || h != 1 {
		t.Fatalf("BlockHeight: h=%d ok=%v err=%v", h, ok, err)
	}
}

// TestEasyChainRejectsWrongParent is §8 scenario S2: after S1,
// appending a block claiming b0's hash as parent (rather than the
// actual top, b1) is rejected and the chain is unchanged.
func TestEasyChainRejectsWrongParent(t *testing.T) {
	db, tr := newTestSetup(t)
	c, err := Open[EasyBlock](db, tr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b0 := EasyBlock{Timestamp: genesisTimestamp}
	if err := c.AppendBlock(b0); err != nil {
		t.Fatalf("AppendBlock(b0): %v", err)
	}
	b0Hash := EasyBlockCodec{}.Hash(b0)
	b1 := EasyBlock{ParentHash: &b0Hash, Timestamp: genesisTimestamp + 1}
	if err := c.AppendBlock(b1); err != nil {
		t.Fatalf("AppendBlock(b1): %v", err)
	}

	wrongParent := b0Hash
	block := EasyBlock{ParentHash: &wrongParent}
	if err := c.AppendBlock(block); err != ErrInvalidParent {
		t.Fatalf("expected ErrInvalidParent, got %v", err)
	}
	height, err := c.Height()
	if err != nil || height != 2 {
		t.Fatalf("expected chain unchanged at height 2, got %d err=%v", height, err)
	}
}

func TestEasyChainRejectsSecondGenesis(t *testing.T) {
	db, tr := newTestSetup(t)
	c, err := Open[EasyBlock](db, tr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.AppendBlock(EasyBlock{Timestamp: genesisTimestamp}); err != nil {
		t.Fatalf("AppendBlock(genesis): %v", err)
	}
	// A second parent-less block, once a genesis is already persisted,
	// is not a valid append.
	if err := c.AppendBlock(EasyBlock{Timestamp: genesisTimestamp}); err != ErrNoParentHash {
		t.Fatalf("expected ErrNoParentHash, got %v", err)
	}
}

func TestEasyChainRejectsParentedBlockBeforeGenesis(t *testing.T) {
	db, tr := newTestSetup(t)
	c, err := Open[EasyBlock](db, tr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	parent := crypto.HashSlice([]byte("nonexistent"))
	block := EasyBlock{ParentHash: &parent}
	if err := c.AppendBlock(block); err != ErrInvalidParent {
		t.Fatalf("expected ErrInvalidParent, got %v", err)
	}
}

func TestEasyChainRollsBackTrieOnTxApplyFailure(t *testing.T) {
	db, tr := newTestSetup(t)
	c, err := Open[EasyBlock](db, tr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.AppendBlock(EasyBlock{Timestamp: genesisTimestamp}); err != nil {
		t.Fatalf("AppendBlock(genesis): %v", err)
	}
	genesisHash := EasyBlockCodec{}.Hash(EasyBlock{Timestamp: genesisTimestamp})
	rootBefore := c.tr.Root()

	sk, err := crypto.GenerateSecretKey()
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	sender := account.NewNormalAddress(sk.PubKey())
	// sender is unregistered: Validate must fail, aborting the block.
	badTx := &transactions.Send{
		Nonce:        1,
		Sender:       sender,
		Receiver:     sender.Address,
		Amount:       account.NewBalanceFromUint64(1),
		CurrencyHash: transactions.MainCurrencyHash,
		FeeHash:      transactions.MainCurrencyHash,
		Fee:          account.Zero,
	}
	badTx.ComputeHash()
	badTx.Sign(sk)

	block := EasyBlock{ParentHash: &genesisHash, Txs: []transactions.Transaction{badTx}}
	if err := c.AppendBlock(block); err != ErrTxApplyFailed {
		t.Fatalf("expected ErrTxApplyFailed, got %v", err)
	}

	height, err := c.Height()
	if err != nil || height != 1 {
		t.Fatalf("expected height to remain 1 after a failed append, got %d err=%v", height, err)
	}
	if c.tr.Root() != rootBefore {
		t.Fatalf("expected trie root to be unchanged after a failed append")
	}
}

// stubEraGate lets hard-chain tests control whether an era is closed.
type stubEraGate struct {
	closedHeights map[uint64]bool
}

func (g stubEraGate) EraClosed(height uint64) bool {
	return g.closedHeights[height]
}

func TestHardChainRejectsAppendWhenEraNotClosed(t *testing.T) {
	db, tr := newTestSetup(t)
	gate := stubEraGate{closedHeights: map[uint64]bool{}}
	c, err := Open[HardBlock](db, tr, HardBlockCodec{}, "hard.", gate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// The era gate applies to genesis too: height 0 is not closed.
	if err := c.AppendBlock(HardBlock{Timestamp: genesisTimestamp}); err != ErrValidatorEraNotClosed {
		t.Fatalf("expected ErrValidatorEraNotClosed, got %v", err)
	}
}

func TestHardChainAppendsGenesisWhenEraClosed(t *testing.T) {
	db, tr := newTestSetup(t)
	gate := stubEraGate{closedHeights: map[uint64]bool{0: true}}
	c, err := Open[HardBlock](db, tr, HardBlockCodec{}, "hard.", gate)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.AppendBlock(HardBlock{Timestamp: genesisTimestamp}); err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}
	height, err := c.Height()
	if err != nil || height != 1 {
		t.Fatalf("expected height 1, got %d err=%v", height, err)
	}
}

func TestHardChainRejectsUnknownSegmentEnd(t *testing.T) {
	easyDB, easyTr := newTestSetup(t)
	easy, err := Open[EasyBlock](easyDB, easyTr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open(easy): %v", err)
	}
	if err := easy.AppendBlock(EasyBlock{Timestamp: genesisTimestamp}); err != nil {
		t.Fatalf("AppendBlock(easy genesis): %v", err)
	}

	hardDB, hardTr := newTestSetup(t)
	gate := stubEraGate{closedHeights: map[uint64]bool{0: true, 1: true}}
	hard, err := Open[HardBlock](hardDB, hardTr, HardBlockCodec{}, "hard.", gate)
	if err != nil {
		t.Fatalf("Open(hard): %v", err)
	}
	hard.SetEasyChainReader(easy)

	if err := hard.AppendBlock(HardBlock{Timestamp: genesisTimestamp}); err != nil {
		t.Fatalf("AppendBlock(hard genesis): %v", err)
	}

	hardGenesisHash := HardBlockCodec{}.Hash(HardBlock{Timestamp: genesisTimestamp})
	unknownEnd := crypto.HashSlice([]byte("not an easy-chain block"))
	block := HardBlock{
		ParentHash:      &hardGenesisHash,
		EasySegmentEnd:  unknownEnd,
		EasySegmentSize: 1,
	}
	if err := hard.AppendBlock(block); err != ErrInvalidEasySegment {
		t.Fatalf("expected ErrInvalidEasySegment, got %v", err)
	}
}

func TestHardChainAcceptsValidSegment(t *testing.T) {
	easyDB, easyTr := newTestSetup(t)
	easy, err := Open[EasyBlock](easyDB, easyTr, EasyBlockCodec{}, "easy.", nil)
	if err != nil {
		t.Fatalf("Open(easy): %v", err)
	}
	easyGenesis := EasyBlock{Timestamp: genesisTimestamp}
	if err := easy.AppendBlock(easyGenesis); err != nil {
		t.Fatalf("AppendBlock(easy genesis): %v", err)
	}
	easyGenesisHash := EasyBlockCodec{}.Hash(easyGenesis)

	hardDB, hardTr := newTestSetup(t)
	gate := stubEraGate{closedHeights: map[uint64]bool{0: true, 1: true}}
	hard, err := Open[HardBlock](hardDB, hardTr, HardBlockCodec{}, "hard.", gate)
	if err != nil {
		t.Fatalf("Open(hard): %v", err)
	}
	hard.SetEasyChainReader(easy)

	if err := hard.AppendBlock(HardBlock{Timestamp: genesisTimestamp}); err != nil {
		t.Fatalf("AppendBlock(hard genesis): %v", err)
	}
	hardGenesisHash := HardBlockCodec{}.Hash(HardBlock{Timestamp: genesisTimestamp})

	block := HardBlock{
		ParentHash:      &hardGenesisHash,
		EasySegmentEnd:  easyGenesisHash,
		EasySegmentSize: 1,
	}
	if err := hard.AppendBlock(block); err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}
}
