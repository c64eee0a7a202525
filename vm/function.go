package vm

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// blockLenCacheSize bounds how many (offset -> length) results a
// single Function memoizes. A contract body rarely nests more than a
// few dozen control-flow regions, so this comfortably covers a cold
// cache filling up during one validation pass.
const blockLenCacheSize = 256

// Function wraps one contract function's raw bytecode alongside the
// metadata a caller needs to invoke it, grounded directly on the
// retrieved Function struct: arity, the opaque instruction block,
// name, argument types, and an optional return type.
type Function struct {
	// Arity is the number of arguments the function receives.
	Arity uint8

	// Block is the function's raw instruction stream.
	Block []byte

	// Name identifies the function for logging and lookup.
	Name string

	// Arguments names each parameter's type, in order.
	Arguments []VmType

	// ReturnType is the function's return type, or nil for a function
	// that returns nothing.
	ReturnType *VmType

	cache *lru.Cache[int, int]
}

// NewFunction constructs a Function, wiring up its block-length memo
// cache.
func NewFunction(name string, arity uint8, block []byte, arguments []VmType, returnType *VmType) *Function {
	cache, _ := lru.New[int, int](blockLenCacheSize)
	return &Function{
		Arity:      arity,
		Block:      block,
		Name:       name,
		Arguments:  arguments,
		ReturnType: returnType,
		cache:      cache,
	}
}

// Fetch returns the byte at idx. Panics if idx is out of range — a
// caller presenting an index past the function's own block length is
// a programmer error, not a malformed-bytecode condition.
func (f *Function) Fetch(idx int) byte {
	if idx >= len(f.Block) {
		panic("vm: invalid index")
	}
	return f.Block[idx]
}

// FetchBlockLen returns the byte length, inclusive of both the
// opener and its matching End, of the control-flow region beginning
// at idx. Panics if the instruction at idx isn't a control-flow
// opener (Begin, Loop, If, or Else) — querying a block length only
// makes sense there, and a caller that does otherwise has a bug.
//
// The result is memoized per (function, offset): once computed for a
// given idx it is never rescanned, matching §4.I's "must be cacheable
// by (function_id, offset)" — the Function itself is the function_id.
func (f *Function) FetchBlockLen(idx int) (int, error) {
	op := Opcode(f.Fetch(idx))
	if !isControlFlowOpener(op) {
		panic("the length of a block can only be queried for a control flow instruction")
	}
	if cached, ok := f.cache.Get(idx); ok {
		return cached, nil
	}
	length, err := f.findBlockLen(idx)
	if err != nil {
		return 0, err
	}
	f.cache.Add(idx, length)
	return length, nil
}

// findBlockLen is the scanner itself: a depth counter starting at
// zero, walking forward from idx, incrementing on every control-flow
// opener and decrementing on every End, returning once depth closes
// back to zero. It skips every instruction's inline operands without
// interpreting them, per §4.I.
func (f *Function) findBlockLen(idx int) (int, error) {
	block := f.Block
	blockLen := len(block)
	resultLen := 0
	offset := 0
	depth := 0

	for i := idx; i < blockLen; i++ {
		resultLen++
		pos := i + offset
		if pos >= blockLen {
			return 0, ErrUnexpectedEOF
		}
		op := Opcode(block[pos])
		if !IsKnownOpcode(op) {
			return 0, ErrUnknownOpcode
		}

		switch {
		case op == OpEnd:
			depth--
			if depth < 0 {
				return 0, ErrDepthUnderflow
			}
			if depth == 0 {
				return resultLen, nil
			}

		case isControlFlowOpener(op):
			if op == OpIf {
				// Escape the comparator byte that is part of If's
				// header alongside the opcode itself.
				offset += 2
				resultLen += 2
			} else {
				offset++
				resultLen++
			}
			depth++

		default:
			switch op {
			case OpPickLocal, OpCall:
				offset += 2
				resultLen += 2

			case OpPushLocal:
				consumed, newOffset, err := f.scanPushArgs(i, offset, OpPopOperand)
				if err != nil {
					return 0, err
				}
				resultLen += consumed
				offset = newOffset

			case OpPushOperand:
				consumed, newOffset, err := f.scanPushArgs(i, offset, OpPopLocal)
				if err != nil {
					return 0, err
				}
				resultLen += consumed
				offset = newOffset

			default:
				if isTypedLoadOrStore(op) {
					offset += 2
					resultLen += 2
				}
				// Every other instruction is a bare opcode: nothing
				// further to skip.
			}
		}
	}

	return 0, ErrUnexpectedEOF
}

// scanPushArgs skips a PushLocal/PushOperand instruction's argument
// list: 1-byte arity, 1-byte reference bitmask, one type byte per
// argument, then one value per argument — either a direct inline
// constant (sized by its type) or, when the bitmask marks it
// indirect, a 1-byte Pop instruction (indirectPop) or a 3-byte typed
// *Load. i is the position of the PushLocal/PushOperand opcode itself
// (before this call's offset advances past it); offsetIn is the
// offset in effect when that opcode was read. Returns the number of
// bytes consumed beyond the opcode itself and the offset to resume
// scanning from.
func (f *Function) scanPushArgs(i, offsetIn int, indirectPop Opcode) (consumed, newOffset int, err error) {
	block := f.Block
	blockLen := len(block)
	offset := offsetIn
	initialOffset := offset
	acc := 0

	next := func() (byte, error) {
		offset++
		consumed++
		pos := i + offset
		if pos >= blockLen {
			return 0, ErrUnexpectedEOF
		}
		return block[pos], nil
	}

	arity, err := next()
	if err != nil {
		return 0, 0, err
	}
	bitmask, err := next()
	if err != nil {
		return 0, 0, err
	}

	for j := byte(0); j < arity; j++ {
		argType, err := next()
		if err != nil {
			return 0, 0, err
		}
		vt, ok := vmTypeFromOp(Opcode(argType))
		if !ok {
			return 0, 0, ErrUnknownOpcode
		}

		if bitmask&(1<<j) == 0 {
			size := vt.ByteSize()
			consumed += size
			acc += size
			continue
		}

		pos := i + initialOffset + 2 + int(arity) + acc + 1
		if pos >= blockLen {
			return 0, 0, ErrUnexpectedEOF
		}
		tag := Opcode(block[pos])
		if !IsKnownOpcode(tag) {
			return 0, 0, ErrUnknownOpcode
		}
		switch {
		case tag == indirectPop:
			consumed++
			acc++
		case isIndirectLoad(tag):
			consumed += 3
			acc += 3
		default:
			return 0, 0, ErrUnknownOpcode
		}
	}

	offset += acc
	return consumed, offset, nil
}
