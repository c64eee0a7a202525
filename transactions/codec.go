package transactions

import (
	"encoding/binary"

	"github.com/purplecoin/pcore/account"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/trie"
)

// SecretKeySigner is the key type Sign takes, re-exported here so
// callers of this package never need to import crypto directly just to
// sign a transaction.
type SecretKeySigner = crypto.SecretKey

// --- trie key grammar (§3) ---

func nonceKey(addr account.Address) []byte {
	return []byte(addr.Hex() + ".n")
}

func balanceKey(addr account.Address, assetHash crypto.Hash) []byte {
	return []byte(addr.Hex() + "." + assetHash.String())
}

func addressMappingKey(addr account.Address) []byte {
	return []byte(addr.Hex() + ".am")
}

func minterKey(assetHash crypto.Hash) []byte {
	return []byte(assetHash.String() + ".m")
}

func coinbaseKey(assetHash crypto.Hash) []byte {
	return []byte("coinbase." + assetHash.String())
}

// --- nonce / balance / minter helpers shared across transaction kinds ---

func getNonce(tr *trie.Trie, addr account.Address) (uint64, bool, error) {
	raw, ok, err := tr.Get(nonceKey(addr))
	if err != nil || !ok || len(raw) != 8 {
		return 0, ok && err == nil && len(raw) == 8, err
	}
	return binary.BigEndian.Uint64(raw), true, nil
}

func putNonce(tr *trie.Trie, addr account.Address, nonce uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	return tr.Insert(nonceKey(addr), buf[:])
}

func getBalance(tr *trie.Trie, addr account.Address, assetHash crypto.Hash) (account.Balance, bool, error) {
	raw, ok, err := tr.Get(balanceKey(addr, assetHash))
	if err != nil || !ok {
		return account.Zero, false, err
	}
	bal, err := account.BalanceFromBytes(raw)
	if err != nil {
		return account.Zero, false, err
	}
	return bal, true, nil
}

func putBalance(tr *trie.Trie, addr account.Address, assetHash crypto.Hash, bal account.Balance) error {
	return tr.Insert(balanceKey(addr, assetHash), bal.Bytes())
}

func getMinter(tr *trie.Trie, assetHash crypto.Hash) (account.Address, bool, error) {
	raw, ok, err := tr.Get(minterKey(assetHash))
	if err != nil || !ok {
		return account.Address{}, false, err
	}
	addr, err := account.AddressFromBytes(raw)
	if err != nil {
		return account.Address{}, false, err
	}
	return addr, true, nil
}

func putMinter(tr *trie.Trie, assetHash crypto.Hash, minter account.Address) error {
	return tr.Insert(minterKey(assetHash), minter.Bytes())
}

// ensureAccountExists creates addr's `.n` and `.am` entries with a zero
// nonce if it is not yet registered, matching apply()'s "creates the
// receiver account if it does not exist" clause.
func ensureAccountExists(tr *trie.Trie, addr account.Address) error {
	_, ok, err := tr.Get(nonceKey(addr))
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := putNonce(tr, addr, 0); err != nil {
		return err
	}
	return tr.Insert(addressMappingKey(addr), addr.Bytes())
}

// --- length-prefixed field encoding shared by every transaction kind ---

func appendUint8Prefixed(buf, data []byte) []byte {
	buf = append(buf, byte(len(data)))
	return append(buf, data...)
}

func readUint8Prefixed(buf []byte) (data, rest []byte, err error) {
	if len(buf) < 1 {
		return nil, nil, ErrTruncated
	}
	n := int(buf[0])
	buf = buf[1:]
	if len(buf) < n {
		return nil, nil, ErrTruncated
	}
	return buf[:n], buf[n:], nil
}

func appendUint16Prefixed(buf, data []byte) []byte {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(data)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, data...)
}

func readUint16Prefixed(buf []byte) (data, rest []byte, err error) {
	if len(buf) < 2 {
		return nil, nil, ErrTruncated
	}
	n := int(binary.BigEndian.Uint16(buf))
	buf = buf[2:]
	if len(buf) < n {
		return nil, nil, ErrTruncated
	}
	return buf[:n], buf[n:], nil
}

func takeFixed(buf []byte, n int) (data, rest []byte, err error) {
	if len(buf) < n {
		return nil, nil, ErrTruncated
	}
	return buf[:n], buf[n:], nil
}

func putUint64BE(buf []byte, v uint64) {
	binary.BigEndian.PutUint64(buf, v)
}

func getUint64BE(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}
