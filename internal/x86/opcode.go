package x86

// Opcode is the mnemonic the encoder is asked to emit, one step removed
// from ir.Opcode so the MOV generated by Copy can share tables with
// the MOV synthesised for stack-to-stack moves.
type Opcode int

const (
	MOV Opcode = iota
	ADD
	SUB
	IMUL
	AND
	OR
	XOR
	CMP
	TEST
)

// mrOpcode returns the memory-destination, register-source opcode byte.
// offset is 1 for an 8-bit operand and 0 otherwise; subtracting it produces
// the byte-sized variant of the same instruction family.
func mrOpcode(op Opcode, offset byte) byte {
	switch op {
	case MOV:
		return 0x89 - offset
	case ADD:
		return 0x01 - offset
	case SUB:
		return 0x29 - offset
	case AND:
		return 0x21 - offset
	case OR:
		return 0x09 - offset
	case XOR:
		return 0x31 - offset
	case CMP:
		return 0x39 - offset
	case TEST:
		return 0x85 - offset
	default:
		panic("x86: opcode has no MR form")
	}
}

// rmOpcode returns the register-destination, memory-source opcode byte.
func rmOpcode(op Opcode, offset byte) byte {
	switch op {
	case MOV:
		return 0x8b - offset
	case ADD:
		return 0x03 - offset
	case SUB:
		return 0x2b - offset
	case AND:
		return 0x23 - offset
	case OR:
		return 0x0b - offset
	case XOR:
		return 0x33 - offset
	case CMP:
		return 0x3b - offset
	case TEST:
		return 0x85 - offset
	default:
		panic("x86: opcode has no RM form")
	}
}

// miOpcode returns the memory/register-destination, immediate-source
// opcode byte together with the ModR/M reg-field extension that selects
// the operation out of the 0x81/0xf6 opcode groups.
func miOpcode(op Opcode, offset byte) (byte, byte) {
	switch op {
	case MOV:
		return 0xc7 - offset, 0
	case ADD:
		return 0x81 - offset, 0
	case SUB:
		return 0x81 - offset, 5
	case AND:
		return 0x81 - offset, 4
	case OR:
		return 0x81 - offset, 1
	case XOR:
		return 0x81 - offset, 6
	case CMP:
		return 0x81 - offset, 7
	case TEST:
		return 0xf6 - offset, 0
	default:
		panic("x86: opcode has no MI form")
	}
}

// setcc maps a condition code to the SETcc opcode byte pair
// (0x0f 0x9x) used to materialise a boolean from condition flags.
func setcc(cond condition) [2]byte {
	switch cond {
	case condL:
		return [2]byte{0x0f, 0x9c}
	case condLE:
		return [2]byte{0x0f, 0x9e}
	case condG:
		return [2]byte{0x0f, 0x9f}
	case condGE:
		return [2]byte{0x0f, 0x9d}
	case condE:
		return [2]byte{0x0f, 0x94}
	case condNE:
		return [2]byte{0x0f, 0x95}
	default:
		panic("x86: unrecognized condition code")
	}
}

type condition int

const (
	condL condition = iota
	condLE
	condG
	condGE
	condE
	condNE
)
