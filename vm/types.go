package vm

// VmType enumerates the primitive value types a function's arguments,
// return value, and push-argument list entries can carry.
type VmType byte

const (
	I32 VmType = iota
	I64
	F32
	F64
)

// ByteSize reports the inline-encoded width of a direct value of this
// type, as used by the push-argument scanner to skip a constant
// without decoding it.
func (t VmType) ByteSize() int {
	switch t {
	case I32, F32:
		return 4
	case I64, F64:
		return 8
	default:
		return 0
	}
}

// vmTypeFromOp maps a push-argument type tag byte — one of the
// i32Const/i64Const/f32Const/f64Const opcodes, reused as type tags in
// this position — to the VmType it names. false if op isn't one of
// the four.
func vmTypeFromOp(op Opcode) (VmType, bool) {
	switch op {
	case OpI32Const:
		return I32, true
	case OpI64Const:
		return I64, true
	case OpF32Const:
		return F32, true
	case OpF64Const:
		return F64, true
	default:
		return 0, false
	}
}
