package x86

import (
	"fmt"

	"firstc/internal/ast"
	"firstc/internal/ir"
)

// Function records everything the loader and any later disassembly need
// about one emitted function, mirroring original_source/src/x86.rs's
// X86Function.
type Function struct {
	ProloguePos int
	EpilogueOff int
	ByteLength  int
	EnterLabel  ir.Ident
	ExitLabel   ir.Ident
	ReturnType  ir.Type
	FuncAddr    uintptr
	IsForeign   bool
}

// jumpTarget tracks a label's resolved byte position and every site that
// jumped to it before it was resolved, per spec.md §4.D.
type jumpTarget struct {
	resolved  bool
	pos       int
	pendingAt []int // byte offset of the 4-byte displacement field to patch
}

// Assembler accumulates machine code across every function in a Program.
type Assembler struct {
	Code      []byte
	Functions map[ir.Ident]*Function
	jumps     map[ir.Ident]*jumpTarget
}

// Encode lowers prog to machine code, emitting main first and every other
// non-foreign function afterward, per spec.md §4.D's emission order.
func Encode(prog ir.Program) (*Assembler, error) {
	a := &Assembler{
		Functions: make(map[ir.Ident]*Function),
		jumps:     make(map[ir.Ident]*jumpTarget),
	}

	for _, sym := range prog.Order {
		bb := prog.Functions[sym]
		a.Functions[ir.Ident{Symbol: sym}] = &Function{
			EnterLabel: bb.Enter,
			ExitLabel:  bb.Exit,
			ReturnType: bb.ReturnType,
			FuncAddr:   bb.ForeignAddr,
			IsForeign:  bb.IsForeign,
		}
	}

	mainSym := findMain(prog)
	if mainSym == nil {
		return nil, fmt.Errorf("x86: failed to locate main function")
	}

	if err := a.emitFunction(prog, *mainSym); err != nil {
		return nil, err
	}
	for _, sym := range prog.Order {
		if sym == *mainSym {
			continue
		}
		bb := prog.Functions[sym]
		if bb.IsForeign {
			continue
		}
		if err := a.emitFunction(prog, sym); err != nil {
			return nil, err
		}
	}

	for label, jt := range a.jumps {
		if !jt.resolved {
			return nil, fmt.Errorf("x86: label %s never resolved", label)
		}
		if len(jt.pendingAt) != 0 {
			return nil, fmt.Errorf("x86: label %s has unpatched jump sites", label)
		}
	}

	return a, nil
}

func findMain(prog ir.Program) *ast.Symbol {
	for _, sym := range prog.Order {
		if sym.String() == "main" {
			s := sym
			return &s
		}
	}
	return nil
}

func (a *Assembler) target(label ir.Ident) *jumpTarget {
	jt, ok := a.jumps[label]
	if !ok {
		jt = &jumpTarget{}
		a.jumps[label] = jt
	}
	return jt
}

func (a *Assembler) emitByte(b byte)       { a.Code = append(a.Code, b) }
func (a *Assembler) emitBytes(bs ...byte)  { a.Code = append(a.Code, bs...) }
func (a *Assembler) pos() int              { return len(a.Code) }

func (a *Assembler) resolveLabel(label ir.Ident) {
	jt := a.target(label)
	jt.resolved = true
	jt.pos = a.pos()
	for _, site := range jt.pendingAt {
		disp := int32(jt.pos - (site + 4))
		patchInt32(a.Code, site, disp)
	}
	jt.pendingAt = nil
}

// emitDisp32Site notes that the 4-byte field starting at the current
// position jumps to label; if label is already resolved the displacement
// is written immediately instead.
func (a *Assembler) emitDisp32Site(label ir.Ident) {
	jt := a.target(label)
	site := a.pos()
	if jt.resolved {
		patchDisp32(a, int32(jt.pos-(site+4)))
		return
	}
	jt.pendingAt = append(jt.pendingAt, site)
	a.emitBytes(0, 0, 0, 0)
}

func patchDisp32(a *Assembler, v int32) {
	a.emitBytes(byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func patchInt32(code []byte, at int, v int32) {
	code[at] = byte(v)
	code[at+1] = byte(v >> 8)
	code[at+2] = byte(v >> 16)
	code[at+3] = byte(v >> 24)
}

func (a *Assembler) emitFunction(prog ir.Program, sym ast.Symbol) error {
	ident := ir.Ident{Symbol: sym}
	bb := prog.Functions[sym]
	fn := a.Functions[ident]

	basePos := a.pos()
	fn.ProloguePos = basePos
	a.resolveLabel(bb.Enter)

	// push rbp
	a.emitBytes(0x55)
	// mov rbp, rsp
	a.emitBytes(0x48, 0x89, modrm(RSP.id(), RBP.id()))

	// sub rsp, imm32 — patched with the final frame size once known.
	subSitePrefix := a.pos()
	a.emitBytes(0x48, 0x81, modrm(5, RSP.id()))
	subSiteImm := a.pos()
	a.emitBytes(0, 0, 0, 0)
	_ = subSitePrefix

	fb := &funcBuilder{a: a, vars: make(map[ir.Ident]Operand), stackOffset: 0}

	insns := prog.Instructions[bb.PrologueIndex+1 : bb.EpilogueIndex]
	for i, inst := range insns {
		last := i == len(insns)-1
		if err := fb.emit(inst, bb, last); err != nil {
			return err
		}
	}

	a.resolveLabel(bb.Exit)

	frameSize := align16(int(-fb.stackOffset))
	patchInt32(a.Code, subSiteImm, int32(frameSize))

	if frameSize != 0 {
		// add rsp, frameSize
		a.emitBytes(0x48, 0x81, modrm(0, RSP.id()))
		patchDisp32(a, int32(frameSize))
	}
	// pop rbp
	a.emitBytes(0x5d)
	// ret
	a.emitBytes(0xc3)

	fn.EpilogueOff = a.pos() - basePos
	fn.ByteLength = a.pos() - basePos
	return nil
}

func align16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}

func modrm(reg, rm byte) byte {
	return 0b11000000 | (reg << 3) | rm
}

func modrmDisp(reg, rm byte, disp int32) byte {
	if disp < -128 || disp > 127 {
		return 0b10000000 | (reg << 3) | rm
	}
	return 0b01000000 | (reg << 3) | rm
}
