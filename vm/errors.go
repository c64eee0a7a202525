package vm

import "errors"

var (
	// ErrUnknownOpcode is returned when the scanner encounters a byte
	// that does not name a recognized instruction, whether as a main
	// opcode, a push-argument type tag, or an indirect-value tag.
	ErrUnknownOpcode = errors.New("vm: unknown opcode")

	// ErrDepthUnderflow is returned when an End instruction is seen
	// with no open control-flow region left to close.
	ErrDepthUnderflow = errors.New("vm: unmatched end instruction")

	// ErrUnexpectedEOF is returned when the scanner needs to read past
	// the end of the function's block while skipping an instruction's
	// inline operands, or runs off the end of the block without ever
	// closing the region it started at.
	ErrUnexpectedEOF = errors.New("vm: unexpected end of function body")
)
