// Package x86 is the machine-code encoder: it walks an ir.Program and
// produces raw x86-64 bytes the JIT loader can execute directly. Every
// shape here is grounded on original_source/src/x86.rs's X86Assembler,
// corrected where the original is buggy (its displacement-size test is
// inverted) and completed where it is a stub (Add is the only arithmetic
// opcode it wires, Call never emits an actual CALL, jump patching is
// never connected despite the jump_targets table existing for it).
package x86

// Reg names the sixteen general-purpose x86-64 registers.
type Reg int

const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// id returns the 3-bit register field used in ModR/M and REX encodings.
// R8-R15 alias the same 3 bits as RAX-RDI; callers needing them addressed
// distinctly must also set REX.B/REX.R, which this encoder does not need
// since it never targets the extended registers.
func (r Reg) id() byte {
	switch r {
	case RAX, R8:
		return 0
	case RCX, R9:
		return 1
	case RDX, R10:
		return 2
	case RBX, R11:
		return 3
	case RSP, R12:
		return 4
	case RBP, R13:
		return 5
	case RSI, R14:
		return 6
	case RDI, R15:
		return 7
	default:
		return 0
	}
}
