package transactions

import (
	"github.com/purplecoin/pcore/account"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/trie"
)

// Mint issues Amount of new supply of CurrencyHash to its own minter
// account, debiting the coinbase entry that tracks unissued supply.
// Only the asset's registered minter may submit one.
type Mint struct {
	Nonce        uint64
	Minter       account.NormalAddress
	Amount       account.Balance
	CurrencyHash crypto.Hash
	FeeHash      crypto.Hash
	Fee          account.Balance

	hash      *crypto.Hash
	signature *account.Signature
}

func (tx *Mint) TxType() TxType { return TxTypeMint }

func (tx *Mint) assembleMessage() []byte {
	buf := make([]byte, 0, 8+33+32+32+32)
	var nonceBuf [8]byte
	putUint64BE(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)
	buf = append(buf, tx.Minter.Bytes()...)
	buf = append(buf, tx.CurrencyHash[:]...)
	buf = append(buf, tx.FeeHash[:]...)
	buf = append(buf, tx.Amount.Bytes()...)
	buf = append(buf, tx.Fee.Bytes()...)
	return buf
}

// Validate reports whether tx may be applied to tr as it stands.
func (tx *Mint) Validate(tr *trie.Trie) bool {
	if tx.signature == nil {
		return false
	}
	if !crypto.Verify(tx.assembleMessage(), *tx.signature, tx.Minter.PubKey()) {
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

	minter, ok, err := getMinter(tr, tx.CurrencyHash)
	if err != nil || !ok {
		return false
	}
	return minter.Equal(tx.Minter.Address)
}

// Apply assumes Validate already succeeded against the same trie state.
// It debits the fee, increments the sender's nonce, credits Amount to
// the minter's CurrencyHash balance, and debits Amount from the
// coinbase entry tracking unissued supply for that asset. A coinbase
// underflow here indicates the asset's total issuance bound was
// violated upstream of this transaction and is treated as a fatal
// invariant violation rather than a user error.
func (tx *Mint) Apply(tr *trie.Trie) {
	senderAddr := tx.Minter.Address

	feeBal, ok, err := getBalance(tr, senderAddr, tx.FeeHash)
	if err != nil || !ok {
		panic("transactions: Mint.Apply: sender fee balance missing after Validate")
	}
	feeBal.Sub(tx.Fee)
	if err := putBalance(tr, senderAddr, tx.FeeHash, feeBal); err != nil {
		panic("transactions: Mint.Apply: " + err.Error())
	}

	storedNonce, _, err := getNonce(tr, senderAddr)
	if err != nil {
		panic("transactions: Mint.Apply: " + err.Error())
	}
	if err := putNonce(tr, senderAddr, storedNonce+1); err != nil {
		panic("transactions: Mint.Apply: " + err.Error())
	}

	mintBal, _, err := getBalance(tr, senderAddr, tx.CurrencyHash)
	if err != nil {
		panic("transactions: Mint.Apply: " + err.Error())
	}
	mintBal = mintBal.Add(tx.Amount)
	if err := putBalance(tr, senderAddr, tx.CurrencyHash, mintBal); err != nil {
		panic("transactions: Mint.Apply: " + err.Error())
	}

	supplyRaw, ok, err := tr.Get(coinbaseKey(tx.CurrencyHash))
	if err != nil || !ok {
		panic("transactions: Mint.Apply: coinbase supply entry missing")
	}
	supply, err := account.BalanceFromBytes(supplyRaw)
	if err != nil {
		panic("transactions: Mint.Apply: " + err.Error())
	}
	supply.Sub(tx.Amount)
	if supply.LessThanZero() {
		panic("transactions: Mint.Apply: coinbase supply underflow")
	}
	if err := tr.Insert(coinbaseKey(tx.CurrencyHash), supply.Bytes()); err != nil {
		panic("transactions: Mint.Apply: " + err.Error())
	}
}

// ToBytes produces the canonical encoding:
// tx_type(1B) fee_len(1B) amount_len(1B) signature_len(2B BE)
// signature(signature_len bytes) nonce(8B BE) minter(33B)
// currency_hash(32B) fee_hash(32B) hash(32B) amount(amount_len bytes)
// fee(fee_len bytes)
func (tx *Mint) ToBytes() ([]byte, error) {
	if tx.hash == nil {
		return nil, ErrMissingHash
	}
	if tx.signature == nil {
		return nil, ErrMissingSignature
	}
	amountBytes := tx.Amount.Bytes()
	feeBytes := tx.Fee.Bytes()
	sigBytes := tx.signature.Bytes()
	if len(amountBytes) > 255 || len(feeBytes) > 255 {
		return nil, account.ErrBalanceTooLong
	}

	buf := make([]byte, 0, 1+1+1+2+8+33+32+32+32+len(amountBytes)+len(feeBytes)+len(sigBytes))
	buf = append(buf, byte(TxTypeMint))
	buf = append(buf, byte(len(feeBytes)))
	buf = append(buf, byte(len(amountBytes)))
	buf = appendUint16Prefixed(buf, sigBytes)
	var nonceBuf [8]byte
	putUint64BE(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)
	buf = append(buf, tx.Minter.Bytes()...)
	buf = append(buf, tx.CurrencyHash[:]...)
	buf = append(buf, tx.FeeHash[:]...)
	buf = append(buf, tx.hash[:]...)
	buf = append(buf, amountBytes...)
	buf = append(buf, feeBytes...)
	return buf, nil
}

// MintFromBytes parses a Mint produced by ToBytes.
func MintFromBytes(buf []byte) (*Mint, error) {
	if len(buf) < 1 || TxType(buf[0]) != TxTypeMint {
		return nil, ErrWrongTxType
	}
	buf = buf[1:]

	feeLenB, buf, err := takeFixed(buf, 1)
	if err != nil {
		return nil, err
	}
	feeLen := int(feeLenB[0])

	amountLenB, buf, err := takeFixed(buf, 1)
	if err != nil {
		return nil, err
	}
	amountLen := int(amountLenB[0])

	sigBytesRaw, buf, err := readUint16Prefixed(buf)
	if err != nil {
		return nil, err
	}

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

	currencyHashB, buf, err := takeFixed(buf, crypto.HashSize)
	if err != nil {
		return nil, err
	}
	currencyHash, err := crypto.HashFromBytes(currencyHashB)
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

	hashB, buf, err := takeFixed(buf, crypto.HashSize)
	if err != nil {
		return nil, err
	}
	h, err := crypto.HashFromBytes(hashB)
	if err != nil {
		return nil, ErrMalformedField
	}

	amountB, buf, err := takeFixed(buf, amountLen)
	if err != nil {
		return nil, err
	}
	amount, err := account.BalanceFromBytes(amountB)
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

	sig, err := account.SignatureFromBytes(sigBytesRaw)
	if err != nil {
		return nil, ErrMalformedField
	}

	return &Mint{
		Nonce:        getUint64BE(nonceB),
		Minter:       minter,
		Amount:       amount,
		CurrencyHash: currencyHash,
		FeeHash:      feeHash,
		Fee:          fee,
		hash:         &h,
		signature:    &sig,
	}, nil
}

// Sign computes Signature over assembleMessage using sk, whose public
// key must equal Minter's.
func (tx *Mint) Sign(sk SecretKeySigner) {
	sig := crypto.Sign(tx.assembleMessage(), sk)
	tx.signature = &sig
}

// ComputeHash sets Hash to HashSlice(assembleMessage(tx)).
func (tx *Mint) ComputeHash() {
	h := crypto.HashSlice(tx.assembleMessage())
	tx.hash = &h
}

// VerifyHash recomputes the assembled-message hash and compares it
// against the stored Hash field. Panics if Hash has not been set.
func (tx *Mint) VerifyHash() bool {
	if tx.hash == nil {
		panic("transactions: Mint.VerifyHash: hash not set")
	}
	return crypto.HashSlice(tx.assembleMessage()) == *tx.hash
}
