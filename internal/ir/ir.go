// Package ir is the linear three-address intermediate representation the
// x86 encoder consumes. Its shapes are grounded directly on spec.md §3's IR
// data model and §4.C's lowering algorithm; the opcode-as-byte,
// definition-table idiom mirrors the teacher's compiler.Opcode/definitions
// pattern in compiler/code.go, adapted from a bytecode VM's opcode table to
// a typed three-address instruction set.
package ir

import (
	"fmt"

	"firstc/internal/ast"
)

// Ident is a versioned reference to a source binding or compiler-minted
// temporary: two Idents with the same Symbol but different Version refer to
// distinct SSA-like slots, disambiguating shadowed names after lowering.
type Ident struct {
	Symbol  ast.Symbol
	Version int
}

func (id Ident) String() string {
	if id.Version == 0 {
		return id.Symbol.String()
	}
	return fmt.Sprintf("%s.%d", id.Symbol, id.Version)
}

// Type is the IR's own type lattice, finer-grained than ast.Type because the
// encoder needs to pick operand widths the source language itself never
// exposes (I8, pointer-sized values).
type Type int

const (
	None Type = iota
	I8
	I32
	U32
	I64
	U64
	Bool
	Ptr
)

// Size returns the operand width in bytes the encoder should use for t, per
// spec.md §4.D's size_of_ir_type table.
func (t Type) Size() int {
	switch t {
	case I8, Bool:
		return 1
	case I32, U32:
		return 4
	case I64, U64, Ptr:
		return 8
	default:
		return 0
	}
}

// Wide reports whether t requires a REX.W prefix (64-bit operand size).
func (t Type) Wide() bool { return t == I64 || t == U64 || t == Ptr }

func (t Type) String() string {
	switch t {
	case I8:
		return "i8"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case I64:
		return "i64"
	case U64:
		return "u64"
	case Bool:
		return "bool"
	case Ptr:
		return "ptr"
	default:
		return "none"
	}
}

// FromAST maps a source-level ast.Type to its IR counterpart.
func FromAST(t ast.Type) Type {
	switch t {
	case ast.TypeBool:
		return Bool
	default:
		return I32
	}
}

// Value is a typed constant literal carried by an Operand.
type Value struct {
	Type Type
	Num  int64
}

// Operand is either an Ident, a constant Value, or absent (None).
type Operand struct {
	kind  operandKind
	Ident Ident
	Value Value
}

type operandKind int

const (
	opNone operandKind = iota
	opIdent
	opValue
)

// NoOperand is the absent operand.
var NoOperand = Operand{kind: opNone}

// IdentOperand wraps id as an Operand.
func IdentOperand(id Ident) Operand { return Operand{kind: opIdent, Ident: id} }

// ValueOperand wraps v as an Operand.
func ValueOperand(v Value) Operand { return Operand{kind: opValue, Value: v} }

// IsNone reports whether the operand is absent.
func (o Operand) IsNone() bool { return o.kind == opNone }

// IsIdent reports whether the operand is an Ident reference.
func (o Operand) IsIdent() bool { return o.kind == opIdent }

// IsValue reports whether the operand is a constant Value.
func (o Operand) IsValue() bool { return o.kind == opValue }

func (o Operand) String() string {
	switch o.kind {
	case opIdent:
		return o.Ident.String()
	case opValue:
		return fmt.Sprintf("%d", o.Value.Num)
	default:
		return "-"
	}
}

// Opcode enumerates every IR instruction kind, per spec.md §3.
type Opcode int

const (
	Nop Opcode = iota
	Alloca
	Copy
	Add
	Sub
	Mul
	Div
	Mod
	And
	Or
	Xor
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	IfFalse
	Jump
	Label
	Param
	Call
	Return
	Prologue
	Epilogue
)

var opcodeNames = map[Opcode]string{
	Nop: "nop", Alloca: "alloca", Copy: "copy",
	Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod",
	And: "and", Or: "or", Xor: "xor",
	Lt: "lt", Le: "le", Gt: "gt", Ge: "ge", Eq: "eq", Ne: "ne",
	IfFalse: "iffalse", Jump: "jump", Label: "label",
	Param: "param", Call: "call", Return: "return",
	Prologue: "prologue", Epilogue: "epilogue",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown"
}

// BinopFromAST maps a source binary operator to its IR opcode; panics on
// Not, which has no binary form.
func BinopFromAST(op ast.Operator) Opcode {
	switch op {
	case ast.Add:
		return Add
	case ast.Sub:
		return Sub
	case ast.Mul:
		return Mul
	case ast.Div:
		return Div
	case ast.Mod:
		return Mod
	case ast.And:
		return And
	case ast.Or:
		return Or
	case ast.Equal:
		return Eq
	case ast.NotEq:
		return Ne
	case ast.LessThan:
		return Lt
	case ast.LessEq:
		return Le
	case ast.LargerThan:
		return Gt
	case ast.LargerEq:
		return Ge
	default:
		panic(fmt.Sprintf("ir: %s has no binary opcode", op))
	}
}

// Instruction is a single three-address IR instruction: an opcode, its
// static type, a destination operand (Op1), and up to two source operands.
// Call additionally carries its full argument list in Args, since a call
// site's arity is not bounded to the two source operands the rest of the
// opcode set needs.
type Instruction struct {
	Opcode Opcode
	Type   Type
	Op1    Operand
	Op2    Operand
	Op3    Operand
	Args   []Operand
	Span   ast.Span
}

// BasicBlock describes one function's region of the shared instruction
// vector: its entry/exit labels, declared return type, the index bounds of
// its Prologue/Epilogue instructions, and (for intrinsics) a resolved
// foreign address.
type BasicBlock struct {
	Enter         Ident
	Exit          Ident
	ReturnType    Type
	PrologueIndex int
	EpilogueIndex int
	ForeignAddr   uintptr
	IsForeign     bool
}
