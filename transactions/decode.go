package transactions

// DecodeTransaction dispatches on the wire's leading TX_TYPE byte and
// parses the remainder with the matching kind's FromBytes. Used by the
// block codec, which stores transactions as an opaque, self-describing
// byte sequence rather than a typed union on the wire.
func DecodeTransaction(buf []byte) (Transaction, error) {
	if len(buf) < 1 {
		return nil, ErrTruncated
	}
	switch TxType(buf[0]) {
	case TxTypeSend:
		return SendFromBytes(buf)
	case TxTypeChangeMinter:
		return ChangeMinterFromBytes(buf)
	case TxTypeMint:
		return MintFromBytes(buf)
	default:
		return nil, ErrWrongTxType
	}
}
