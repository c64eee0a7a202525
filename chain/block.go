package chain

import (
	"github.com/purplecoin/pcore/account"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/transactions"
)

// genesisTimestamp is the fixed seed both chains' genesis blocks carry,
// matching the "fixed seed" language of §4.D's genesis description.
const genesisTimestamp int64 = 1609459200 // 2021-01-01T00:00:00Z

// EasyBlock is a candidate block produced by open mining: it carries
// the miner's identity and an opaque proof of work, alongside the
// transactions it applies.
type EasyBlock struct {
	ParentHash *crypto.Hash // nil only for genesis
	Miner      account.Address
	WorkProof  []byte
	Timestamp  int64
	Txs        []transactions.Transaction
}

// HardBlock is a canonical state-transition block: it references the
// validator-pool delta it applies and the contiguous suffix of the
// easy chain it summarizes.
type HardBlock struct {
	ParentHash      *crypto.Hash // nil only for genesis
	ValidatorDelta  []byte
	EasySegmentEnd  crypto.Hash // the easy-chain block this hard block summarizes up to
	EasySegmentSize uint64      // length of the contiguous summarized suffix
	Timestamp       int64
	Txs             []transactions.Transaction
}

// EasyBlockCodec implements Codec[EasyBlock].
type EasyBlockCodec struct{}

func (EasyBlockCodec) Genesis() EasyBlock {
	return EasyBlock{Timestamp: genesisTimestamp}
}

func (EasyBlockCodec) Hash(b EasyBlock) crypto.Hash {
	enc, _ := EasyBlockCodec{}.Encode(b)
	return crypto.HashSlice(enc)
}

func (EasyBlockCodec) Parent(b EasyBlock) (crypto.Hash, bool) {
	if b.ParentHash == nil {
		return crypto.NullHash, false
	}
	return *b.ParentHash, true
}

func (EasyBlockCodec) Transactions(b EasyBlock) []transactions.Transaction {
	return b.Txs
}

// Encode produces: has_parent(1B) [parent_hash(32B)] miner(33B)
// timestamp(8B BE) work_proof(len32-prefixed) tx_count(4B BE)
// tx[](len32-prefixed each).
func (EasyBlockCodec) Encode(b EasyBlock) ([]byte, error) {
	buf := make([]byte, 0, 256)
	if b.ParentHash != nil {
		buf = append(buf, 1)
		buf = append(buf, b.ParentHash[:]...)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, b.Miner.Bytes()...)
	var tsBuf [8]byte
	putUint64BE(tsBuf[:], uint64(b.Timestamp))
	buf = append(buf, tsBuf[:]...)
	buf = appendUint32Prefixed(buf, b.WorkProof)

	var countBuf [4]byte
	putUint32BE(countBuf[:], uint32(len(b.Txs)))
	buf = append(buf, countBuf[:]...)
	for _, tx := range b.Txs {
		txBytes, err := tx.ToBytes()
		if err != nil {
			return nil, err
		}
		buf = appendUint32Prefixed(buf, txBytes)
	}
	return buf, nil
}

func (EasyBlockCodec) Decode(buf []byte) (EasyBlock, error) {
	var b EasyBlock
	hasParentB, buf, err := takeFixed(buf, 1)
	if err != nil {
		return b, err
	}
	if hasParentB[0] == 1 {
		parentB, rest, err := takeFixed(buf, crypto.HashSize)
		if err != nil {
			return b, err
		}
		buf = rest
		h, err := crypto.HashFromBytes(parentB)
		if err != nil {
			return b, ErrMalformedBlockField
		}
		b.ParentHash = &h
	}

	minerB, buf, err := takeFixed(buf, account.Size)
	if err != nil {
		return b, err
	}
	miner, err := account.AddressFromBytes(minerB)
	if err != nil {
		return b, ErrMalformedBlockField
	}
	b.Miner = miner

	tsB, buf, err := takeFixed(buf, 8)
	if err != nil {
		return b, err
	}
	b.Timestamp = int64(getUint64BE(tsB))

	workProof, buf, err := readUint32Prefixed(buf)
	if err != nil {
		return b, err
	}
	b.WorkProof = workProof

	countB, buf, err := takeFixed(buf, 4)
	if err != nil {
		return b, err
	}
	count := getUint32BE(countB)
	b.Txs = make([]transactions.Transaction, 0, count)
	for i := uint32(0); i < count; i++ {
		var txBytes []byte
		txBytes, buf, err = readUint32Prefixed(buf)
		if err != nil {
			return b, err
		}
		tx, err := transactions.DecodeTransaction(txBytes)
		if err != nil {
			return b, err
		}
		b.Txs = append(b.Txs, tx)
	}
	return b, nil
}

// HardBlockCodec implements Codec[HardBlock].
type HardBlockCodec struct{}

func (HardBlockCodec) Genesis() HardBlock {
	return HardBlock{Timestamp: genesisTimestamp}
}

func (HardBlockCodec) Hash(b HardBlock) crypto.Hash {
	enc, _ := HardBlockCodec{}.Encode(b)
	return crypto.HashSlice(enc)
}

func (HardBlockCodec) Parent(b HardBlock) (crypto.Hash, bool) {
	if b.ParentHash == nil {
		return crypto.NullHash, false
	}
	return *b.ParentHash, true
}

func (HardBlockCodec) Transactions(b HardBlock) []transactions.Transaction {
	return b.Txs
}

// easySegment satisfies the chain package's unexported hardSegment
// interface, letting AppendBlock validate the easy-chain suffix a
// HardBlock summarizes without every Codec needing the method.
func (b HardBlock) easySegment() (crypto.Hash, uint64) {
	return b.EasySegmentEnd, b.EasySegmentSize
}

// Encode produces: has_parent(1B) [parent_hash(32B)]
// easy_segment_end(32B) easy_segment_size(8B BE) timestamp(8B BE)
// validator_delta(len32-prefixed) tx_count(4B BE) tx[](len32-prefixed each).
func (HardBlockCodec) Encode(b HardBlock) ([]byte, error) {
	buf := make([]byte, 0, 256)
	if b.ParentHash != nil {
		buf = append(buf, 1)
		buf = append(buf, b.ParentHash[:]...)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, b.EasySegmentEnd[:]...)
	var sizeBuf [8]byte
	putUint64BE(sizeBuf[:], b.EasySegmentSize)
	buf = append(buf, sizeBuf[:]...)
	var tsBuf [8]byte
	putUint64BE(tsBuf[:], uint64(b.Timestamp))
	buf = append(buf, tsBuf[:]...)
	buf = appendUint32Prefixed(buf, b.ValidatorDelta)

	var countBuf [4]byte
	putUint32BE(countBuf[:], uint32(len(b.Txs)))
	buf = append(buf, countBuf[:]...)
	for _, tx := range b.Txs {
		txBytes, err := tx.ToBytes()
		if err != nil {
			return nil, err
		}
		buf = appendUint32Prefixed(buf, txBytes)
	}
	return buf, nil
}

func (HardBlockCodec) Decode(buf []byte) (HardBlock, error) {
	var b HardBlock
	hasParentB, buf, err := takeFixed(buf, 1)
	if err != nil {
		return b, err
	}
	if hasParentB[0] == 1 {
		parentB, rest, err := takeFixed(buf, crypto.HashSize)
		if err != nil {
			return b, err
		}
		buf = rest
		h, err := crypto.HashFromBytes(parentB)
		if err != nil {
			return b, ErrMalformedBlockField
		}
		b.ParentHash = &h
	}

	endB, buf, err := takeFixed(buf, crypto.HashSize)
	if err != nil {
		return b, err
	}
	end, err := crypto.HashFromBytes(endB)
	if err != nil {
		return b, ErrMalformedBlockField
	}
	b.EasySegmentEnd = end

	sizeB, buf, err := takeFixed(buf, 8)
	if err != nil {
		return b, err
	}
	b.EasySegmentSize = getUint64BE(sizeB)

	tsB, buf, err := takeFixed(buf, 8)
	if err != nil {
		return b, err
	}
	b.Timestamp = int64(getUint64BE(tsB))

	delta, buf, err := readUint32Prefixed(buf)
	if err != nil {
		return b, err
	}
	b.ValidatorDelta = delta

	countB, buf, err := takeFixed(buf, 4)
	if err != nil {
		return b, err
	}
	count := getUint32BE(countB)
	b.Txs = make([]transactions.Transaction, 0, count)
	for i := uint32(0); i < count; i++ {
		var txBytes []byte
		txBytes, buf, err = readUint32Prefixed(buf)
		if err != nil {
			return b, err
		}
		tx, err := transactions.DecodeTransaction(txBytes)
		if err != nil {
			return b, err
		}
		b.Txs = append(b.Txs, tx)
	}
	return b, nil
}
