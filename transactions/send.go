package transactions

import (
	"github.com/purplecoin/pcore/account"
	"github.com/purplecoin/pcore/crypto"
	"github.com/purplecoin/pcore/trie"
)

// Send moves Amount of CurrencyHash from Sender to Receiver. It is not
// present in the original transaction set's surviving source, but is
// the direct exercise of apply()'s generic contract clause "creates
// the receiver account ... if it does not exist", a path it shares
// with ChangeMinter, which registers an unknown NewMinter the same way.
type Send struct {
	Nonce        uint64
	Sender       account.NormalAddress
	Receiver     account.Address
	Amount       account.Balance
	CurrencyHash crypto.Hash
	FeeHash      crypto.Hash
	Fee          account.Balance

	hash      *crypto.Hash
	signature *account.Signature
}

func (tx *Send) TxType() TxType { return TxTypeSend }

func (tx *Send) assembleMessage() []byte {
	buf := make([]byte, 0, 8+33+33+32+32+32)
	var nonceBuf [8]byte
	putUint64BE(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)
	buf = append(buf, tx.Sender.Bytes()...)
	buf = append(buf, tx.Receiver.Bytes()...)
	buf = append(buf, tx.CurrencyHash[:]...)
	buf = append(buf, tx.FeeHash[:]...)
	buf = append(buf, tx.Amount.Bytes()...)
	buf = append(buf, tx.Fee.Bytes()...)
	return buf
}

// Validate reports whether tx may be applied to tr as it stands. When
// CurrencyHash equals FeeHash, the combined fee+amount debit from the
// single shared balance must not go negative.
func (tx *Send) Validate(tr *trie.Trie) bool {
	if tx.signature == nil {
		return false
	}
	if !crypto.Verify(tx.assembleMessage(), *tx.signature, tx.Sender.PubKey()) {
		return false
	}

	senderAddr := tx.Sender.Address
	storedNonce, ok, err := getNonce(tr, senderAddr)
	if err != nil || !ok {
		return false
	}
	if storedNonce+1 != tx.Nonce {
		return false
	}

	feeBal, ok, err := getBalance(tr, senderAddr, tx.FeeHash)
	if err != nil || !ok {
		return false
	}
	feeBal.Sub(tx.Fee)
	if feeBal.LessThanZero() {
		return false
	}

	if tx.CurrencyHash.Equal(tx.FeeHash) {
		feeBal.Sub(tx.Amount)
		return feeBal.GreaterThanOrEqualToZero()
	}

	sendBal, ok, err := getBalance(tr, senderAddr, tx.CurrencyHash)
	if err != nil || !ok {
		return false
	}
	sendBal.Sub(tx.Amount)
	return sendBal.GreaterThanOrEqualToZero()
}

// Apply assumes Validate already succeeded against the same trie state.
func (tx *Send) Apply(tr *trie.Trie) {
	senderAddr := tx.Sender.Address

	feeBal, ok, err := getBalance(tr, senderAddr, tx.FeeHash)
	if err != nil || !ok {
		panic("transactions: Send.Apply: sender fee balance missing after Validate")
	}
	feeBal.Sub(tx.Fee)
	if err := putBalance(tr, senderAddr, tx.FeeHash, feeBal); err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}

	storedNonce, _, err := getNonce(tr, senderAddr)
	if err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}
	if err := putNonce(tr, senderAddr, storedNonce+1); err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}

	if err := ensureAccountExists(tr, tx.Receiver); err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}

	sendBal, _, err := getBalance(tr, senderAddr, tx.CurrencyHash)
	if err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}
	sendBal.Sub(tx.Amount)
	if sendBal.LessThanZero() {
		panic("transactions: Send.Apply: sender currency balance underflow")
	}
	if err := putBalance(tr, senderAddr, tx.CurrencyHash, sendBal); err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}

	recvBal, _, err := getBalance(tr, tx.Receiver, tx.CurrencyHash)
	if err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}
	recvBal = recvBal.Add(tx.Amount)
	if err := putBalance(tr, tx.Receiver, tx.CurrencyHash, recvBal); err != nil {
		panic("transactions: Send.Apply: " + err.Error())
	}
}

// ToBytes produces the canonical encoding:
// tx_type(1B) fee_len(1B) amount_len(1B) nonce(8B BE) sender(33B)
// receiver(33B) currency_hash(32B) fee_hash(32B) hash(32B)
// signature(64B) amount(amount_len bytes) fee(fee_len bytes)
func (tx *Send) ToBytes() ([]byte, error) {
	if tx.hash == nil {
		return nil, ErrMissingHash
	}
	if tx.signature == nil {
		return nil, ErrMissingSignature
	}
	amountBytes := tx.Amount.Bytes()
	feeBytes := tx.Fee.Bytes()
	if len(amountBytes) > 255 || len(feeBytes) > 255 {
		return nil, account.ErrBalanceTooLong
	}

	buf := make([]byte, 0, 1+1+1+8+33+33+32+32+32+crypto.SignatureSize+len(amountBytes)+len(feeBytes))
	buf = append(buf, byte(TxTypeSend))
	buf = append(buf, byte(len(feeBytes)))
	buf = append(buf, byte(len(amountBytes)))
	var nonceBuf [8]byte
	putUint64BE(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)
	buf = append(buf, tx.Sender.Bytes()...)
	buf = append(buf, tx.Receiver.Bytes()...)
	buf = append(buf, tx.CurrencyHash[:]...)
	buf = append(buf, tx.FeeHash[:]...)
	buf = append(buf, tx.hash[:]...)
	buf = append(buf, tx.signature.Bytes()...)
	buf = append(buf, amountBytes...)
	buf = append(buf, feeBytes...)
	return buf, nil
}

// SendFromBytes parses a Send produced by ToBytes.
func SendFromBytes(buf []byte) (*Send, error) {
	if len(buf) < 1 || TxType(buf[0]) != TxTypeSend {
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

	nonceB, buf, err := takeFixed(buf, 8)
	if err != nil {
		return nil, err
	}

	senderB, buf, err := takeFixed(buf, account.Size)
	if err != nil {
		return nil, err
	}
	sender, err := account.NormalAddressFromBytes(senderB)
	if err != nil {
		return nil, ErrMalformedField
	}

	receiverB, buf, err := takeFixed(buf, account.Size)
	if err != nil {
		return nil, err
	}
	receiver, err := account.AddressFromBytes(receiverB)
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

	sigB, buf, err := takeFixed(buf, crypto.SignatureSize)
	if err != nil {
		return nil, err
	}
	sig, err := account.SignatureFromBytes(sigB)
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

	return &Send{
		Nonce:        getUint64BE(nonceB),
		Sender:       sender,
		Receiver:     receiver,
		Amount:       amount,
		CurrencyHash: currencyHash,
		FeeHash:      feeHash,
		Fee:          fee,
		hash:         &h,
		signature:    &sig,
	}, nil
}

// Sign computes Signature over assembleMessage using sk, whose public
// key must equal Sender's.
func (tx *Send) Sign(sk SecretKeySigner) {
	sig := crypto.Sign(tx.assembleMessage(), sk)
	tx.signature = &sig
}

// ComputeHash sets Hash to HashSlice(assembleMessage(tx)).
func (tx *Send) ComputeHash() {
	h := crypto.HashSlice(tx.assembleMessage())
	tx.hash = &h
}

// VerifyHash recomputes the assembled-message hash and compares it
// against the stored Hash field. Panics if Hash has not been set.
func (tx *Send) VerifyHash() bool {
	if tx.hash == nil {
		panic("transactions: Send.VerifyHash: hash not set")
	}
	return crypto.HashSlice(tx.assembleMessage()) == *tx.hash
}
