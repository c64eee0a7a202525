package transactions

import (
	"github.com/purplecoin/pcore/account"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/trie"
)

// ChangeMinter reassigns the minter of a mintable asset from Minter to
// NewMinter. Only the asset's current minter may submit one.
type ChangeMinter struct {
	Nonce     uint64
	Minter    account.NormalAddress
	NewMinter account.Address
	AssetHash crypto.Hash
	FeeHash   crypto.Hash
	Fee       account.Balance

	hash      *crypto.Hash
	signature *account.Signature
}

func (tx *ChangeMinter) TxType() TxType { return TxTypeChangeMinter }

// assembleMessage concatenates the body fields in canonical order,
// excluding Hash and Signature, per §3/§4.C.
func (tx *ChangeMinter) assembleMessage() []byte {
	buf := make([]byte, 0, 8+33+33+32+32+32)
	var nonceBuf [8]byte
	putUint64BE(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)
	buf = append(buf, tx.Minter.Bytes()...)
	buf = append(buf, tx.NewMinter.Bytes()...)
	buf = append(buf, tx.AssetHash[:]...)
	buf = append(buf, tx.FeeHash[:]...)
	buf = append(buf, tx.Fee.Bytes()...)
	return buf
}

// Validate reports whether tx may be applied to tr as it stands: the
// signature checks out, the sender's nonce is exactly one past stored,
// the sender's fee balance covers Fee, the sender is the asset's
// current minter, and NewMinter differs from Minter.
func (tx *ChangeMinter) Validate(tr *trie.Trie) bool {
	if tx.signature == nil {
		return false
	}
	if !crypto.Verify(tx.assembleMessage(), *tx.signature, tx.Minter.PubKey()) {
		return false
	}
	if tx.NewMinter.Equal(tx.Minter.Address) {
		return false
	}

	storedNonce, ok, err := getNonce(tr, tx.Minter.Address)
	if err != nil || !ok {
		return false
	}
	if storedNonce+1 != tx.Nonce {
		return false
	}

	feeBal, ok, err := getBalance(tr, tx.Minter.Address, tx.FeeHash)
	if err != nil || !ok {
		return false
	}
	feeBal.Sub(tx.Fee)
	if feeBal.LessThanZero() {
		return false
	}

	minter, ok, err := getMinter(tr, tx.AssetHash)
	if err != nil || !ok {
		return false
	}
	return minter.Equal(tx.Minter.Address)
}

// Apply assumes Validate already succeeded against the same trie state.
func (tx *ChangeMinter) Apply(tr *trie.Trie) {
	senderAddr := tx.Minter.Address

	feeBal, ok, err := getBalance(tr, senderAddr, tx.FeeHash)
	if err != nil || !ok {
		panic("transactions: ChangeMinter.Apply: sender fee balance missing after Validate")
	}
	feeBal.Sub(tx.Fee)
	if err := putBalance(tr, senderAddr, tx.FeeHash, feeBal); err != nil {
		panic("transactions: ChangeMinter.Apply: " + err.Error())
	}

	storedNonce, _, err := getNonce(tr, senderAddr)
	if err != nil {
		panic("transactions: ChangeMinter.Apply: " + err.Error())
	}
	if err := putNonce(tr, senderAddr, storedNonce+1); err != nil {
		panic("transactions: ChangeMinter.Apply: " + err.Error())
	}

	if err := ensureAccountExists(tr, tx.NewMinter); err != nil {
		panic("transactions: ChangeMinter.Apply: " + err.Error())
	}

	if err := putMinter(tr, tx.AssetHash, tx.NewMinter); err != nil {
		panic("transactions: ChangeMinter.Apply: " + err.Error())
	}
}

// ToBytes produces the canonical encoding:
// tx_type(1B) fee_len(1B) nonce(8B BE) minter(33B) new_minter(33B)
// asset_hash(32B) fee_hash(32B) signature(64B) fee(fee_len bytes)
func (tx *ChangeMinter) ToBytes() ([]byte, error) {
	if tx.signature == nil {
		return nil, ErrMissingSignature
	}
	feeBytes := tx.Fee.Bytes()
	if len(feeBytes) > 255 {
		return nil, account.ErrBalanceTooLong
	}

	buf := make([]byte, 0, 1+1+8+33+33+32+32+account.Size+len(feeBytes))
	buf = append(buf, byte(TxTypeChangeMinter))
	buf = append(buf, byte(len(feeBytes)))
	var nonceBuf [8]byte
	putUint64BE(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)
	buf = append(buf, tx.Minter.Bytes()...)
	buf = append(buf, tx.NewMinter.Bytes()...)
	buf = append(buf, tx.AssetHash[:]...)
	buf = append(buf, tx.FeeHash[:]...)
	buf = append(buf, tx.signature.Bytes()...)
	buf = append(buf, feeBytes...)
	return buf, nil
}

// ChangeMinterFromBytes parses a ChangeMinter produced by ToBytes.
func ChangeMinterFromBytes(buf []byte) (*ChangeMinter, error) {
	if len(buf) < 1 || TxType(buf[0]) != TxTypeChangeMinter {
		return nil, ErrWrongTxType
	}
	buf = buf[1:]

	feeLenB, buf, err := takeFixed(buf, 1)
	if err != nil {
		return nil, err
	}
	feeLen := int(feeLenB[0])

	nonceB, buf, err := takeFixed(buf, 8)
	if err != nil {
		return nil, err
	}

	minterB, buf, err := takeFixed(buf, account.Size)
	if err != nil {
		return nil, err
	}
	minter, err := account.NormalAddressFromBytes(minterB)
	if err != nil {
		return nil, ErrMalformedField
	}

	newMinterB, buf, err := takeFixed(buf, account.Size)
	if err != nil {
		return nil, err
	}
	newMinter, err := account.AddressFromBytes(newMinterB)
	if err != nil {
		return nil, ErrMalformedField
	}

	assetHashB, buf, err := takeFixed(buf, crypto.HashSize)
	if err != nil {
		return nil, err
	}
	assetHash, err := crypto.HashFromBytes(assetHashB)
	if err != nil {
		return nil, ErrMalformedField
	}

	feeHashB, buf, err := takeFixed(buf, crypto.HashSize)
	if err != nil {
		return nil, err
	}
	feeHash, err := crypto.HashFromBytes(feeHashB)
	if err != nil {
		return nil, ErrMalformedField
	}

	sigB, buf, err := takeFixed(buf, crypto.SignatureSize)
	if err != nil {
		return nil, err
	}
	sig, err := account.SignatureFromBytes(sigB)
	if err != nil {
		return nil, ErrMalformedField
	}

	feeB, _, err := takeFixed(buf, feeLen)
	if err != nil {
		return nil, err
	}
	fee, err := account.BalanceFromBytes(feeB)
	if err != nil {
		return nil, ErrMalformedField
	}

	return &ChangeMinter{
		Nonce:     getUint64BE(nonceB),
		Minter:    minter,
		NewMinter: newMinter,
		AssetHash: assetHash,
		FeeHash:   feeHash,
		Fee:       fee,
		signature: &sig,
	}, nil
}

// Sign computes Signature over assembleMessage using sk, whose public
// key must equal Minter's.
func (tx *ChangeMinter) Sign(sk SecretKeySigner) {
	sig := crypto.Sign(tx.assembleMessage(), sk)
	tx.signature = &sig
}

// ComputeHash sets Hash to HashSlice(assembleMessage(tx)).
func (tx *ChangeMinter) ComputeHash() {
	h := crypto.HashSlice(tx.assembleMessage())
	tx.hash = &h
}

// VerifyHash recomputes the assembled-message hash and compares it
// against the stored Hash field. Panics if Hash has not been set.
func (tx *ChangeMinter) VerifyHash() bool {
	if tx.hash == nil {
		panic("transactions: ChangeMinter.VerifyHash: hash not set")
	}
	return crypto.HashSlice(tx.assembleMessage()) == *tx.hash
}
