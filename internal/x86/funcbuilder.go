package x86

import (
	"fmt"

	"firstc/internal/intrinsics"
	"firstc/internal/ir"
)

// funcBuilder walks one function's instruction slice and emits its body,
// maintaining the local variable table and stack offset spec.md §4.D
// describes.
type funcBuilder struct {
	a           *Assembler
	vars        map[ir.Ident]Operand
	stackOffset int32
	paramSlots  []Operand
}

func (fb *funcBuilder) allocateSlot(ty ir.Type) Operand {
	size := ty.Size()
	if size == 0 {
		size = 4
	}
	fb.stackOffset -= int32(size)
	return StackOperand(fb.stackOffset)
}

func (fb *funcBuilder) resolve(op ir.Operand) Operand {
	switch {
	case op.IsValue():
		width := op.Value.Type.Size()
		if width == 0 {
			width = 4
		}
		return ValueOperand(op.Value.Num, width)
	case op.IsIdent():
		v, ok := fb.vars[op.Ident]
		if !ok {
			panic(fmt.Sprintf("x86: identifier %s used before it was written", op.Ident))
		}
		return v
	default:
		panic("x86: unexpected empty operand")
	}
}

func (fb *funcBuilder) bind(id ir.Ident, op Operand) { fb.vars[id] = op }

func widthOffset(ty ir.Type) byte {
	if ty.Size() == 1 {
		return 1
	}
	return 0
}

func (fb *funcBuilder) emitREXIfWide(ty ir.Type) {
	if ty.Wide() {
		fb.a.emitByte(0x48)
	}
}

// loadReg emits `mov reg, src` for whatever addressing mode src resolves to.
func (fb *funcBuilder) loadReg(reg Reg, src Operand, ty ir.Type) {
	offset := widthOffset(ty)
	fb.emitREXIfWide(ty)
	switch {
	case src.isStack():
		fb.a.emitByte(rmOpcode(MOV, offset))
		fb.a.emitByte(modrmDisp(reg.id(), RBP.id(), src.Disp))
		fb.pushDisp(src.Disp)
	case src.isRegister():
		if src.Reg == reg {
			return
		}
		fb.a.emitByte(rmOpcode(MOV, offset))
		fb.a.emitByte(modrm(reg.id(), src.Reg.id()))
	case src.isValue():
		opc, ext := miOpcode(MOV, offset)
		fb.a.emitByte(opc)
		fb.a.emitByte(modrm(ext, reg.id()))
		fb.pushImmediate(src.Value, src.Width)
	}
}

// storeReg emits a store of reg into dst, which must be a stack slot.
func (fb *funcBuilder) storeReg(dst Operand, reg Reg, ty ir.Type) {
	if !dst.isStack() {
		panic("x86: store destination must be a stack slot")
	}
	offset := widthOffset(ty)
	fb.emitREXIfWide(ty)
	fb.a.emitByte(mrOpcode(MOV, offset))
	fb.a.emitByte(modrmDisp(reg.id(), RBP.id(), dst.Disp))
	fb.pushDisp(dst.Disp)
}

func (fb *funcBuilder) pushDisp(disp int32) {
	if disp < -128 || disp > 127 {
		fb.a.emitBytes(byte(disp), byte(disp>>8), byte(disp>>16), byte(disp>>24))
	} else {
		fb.a.emitByte(byte(int8(disp)))
	}
}

func (fb *funcBuilder) pushImmediate(v int64, width int) {
	switch width {
	case 1:
		fb.a.emitByte(byte(int8(v)))
	case 4:
		fb.a.emitBytes(byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	case 8:
		fb.a.emitBytes(byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
	default:
		panic("x86: unsupported immediate width")
	}
}

// binop emits `op reg, src` where op is already loaded into reg.
func (fb *funcBuilder) binop(op Opcode, reg Reg, src Operand, ty ir.Type) {
	offset := widthOffset(ty)
	fb.emitREXIfWide(ty)
	switch {
	case src.isStack():
		fb.a.emitByte(rmOpcode(op, offset))
		fb.a.emitByte(modrmDisp(reg.id(), RBP.id(), src.Disp))
		fb.pushDisp(src.Disp)
	case src.isRegister():
		fb.a.emitByte(rmOpcode(op, offset))
		fb.a.emitByte(modrm(reg.id(), src.Reg.id()))
	case src.isValue():
		opc, ext := miOpcode(op, offset)
		fb.a.emitByte(opc)
		fb.a.emitByte(modrm(ext, reg.id()))
		fb.pushImmediate(src.Value, src.Width)
	}
}

func (fb *funcBuilder) emit(inst ir.Instruction, bb *ir.BasicBlock, last bool) error {
	switch inst.Opcode {
	case ir.Nop:
		fb.a.emitByte(0x90)

	case ir.Alloca:
		slot := fb.allocateSlot(inst.Type)
		fb.bind(inst.Op1.Ident, slot)

	case ir.Copy:
		dst := fb.resolve(inst.Op1)
		src := fb.resolve(inst.Op2)
		fb.loadReg(RAX, src, inst.Type)
		fb.storeReg(dst, RAX, inst.Type)
		fb.bind(inst.Op1.Ident, dst)

	case ir.Add, ir.Sub, ir.And, ir.Or, ir.Xor:
		ty := inst.Type
		dst := fb.allocateSlot(ty)
		left := fb.resolve(inst.Op2)
		right := fb.resolve(inst.Op3)
		fb.loadReg(RAX, left, ty)
		fb.binop(opFromIR(inst.Opcode), RAX, right, ty)
		fb.storeReg(dst, RAX, ty)
		fb.bind(inst.Op1.Ident, dst)

	case ir.Mul:
		ty := inst.Type
		dst := fb.allocateSlot(ty)
		left := fb.resolve(inst.Op2)
		right := fb.resolve(inst.Op3)
		fb.loadReg(RAX, left, ty)
		fb.loadReg(RCX, right, ty)
		fb.emitREXIfWide(ty)
		// imul rax, rcx — 0F AF /r, register destination only.
		fb.a.emitBytes(0x0f, 0xaf, modrm(RAX.id(), RCX.id()))
		fb.storeReg(dst, RAX, ty)
		fb.bind(inst.Op1.Ident, dst)

	case ir.Div, ir.Mod:
		ty := inst.Type
		dst := fb.allocateSlot(ty)
		left := fb.resolve(inst.Op2)
		right := fb.resolve(inst.Op3)
		fb.loadReg(RAX, left, ty)
		fb.loadReg(RCX, right, ty)
		// A zero divisor traps instead of reaching idiv, so the JIT halts
		// on it the same way the interpreter raises InvalidExpression
		// rather than hitting the hardware #DE fault.
		fb.emitREXIfWide(ty)
		fb.a.emitBytes(0x85, modrm(RCX.id(), RCX.id())) // test rcx, rcx
		fb.a.emitBytes(0x75, 0x01)                       // jnz +1 (skip int3)
		fb.a.emitByte(0xcc)                              // int3: trap on zero divisor
		if ty.Wide() {
			fb.a.emitByte(0x48)
		}
		fb.a.emitByte(0x99) // cdq/cqo: sign-extend rax into rdx:rax
		if ty.Wide() {
			fb.a.emitByte(0x48)
		}
		fb.a.emitBytes(0xf7, modrm(7, RCX.id())) // idiv rcx
		if inst.Opcode == ir.Div {
			fb.storeReg(dst, RAX, ty)
		} else {
			fb.storeReg(dst, RDX, ty)
		}
		fb.bind(inst.Op1.Ident, dst)

	case ir.Lt, ir.Le, ir.Gt, ir.Ge, ir.Eq, ir.Ne:
		cmpTy := inst.Type
		dst := fb.allocateSlot(ir.Bool)
		left := fb.resolve(inst.Op2)
		right := fb.resolve(inst.Op3)
		fb.loadReg(RCX, left, cmpTy)
		fb.binop(CMP, RCX, right, cmpTy)
		sc := setcc(condFromIR(inst.Opcode))
		fb.a.emitBytes(sc[0], sc[1], modrm(0, RAX.id()))
		fb.storeReg(dst, RAX, ir.Bool)
		fb.bind(inst.Op1.Ident, dst)

	case ir.IfFalse:
		cond := fb.resolve(inst.Op1)
		fb.loadReg(RAX, cond, ir.Bool)
		// test al, al
		fb.a.emitBytes(0x84, modrm(RAX.id(), RAX.id()))
		// jz rel32
		fb.a.emitBytes(0x0f, 0x84)
		fb.a.emitDisp32Site(inst.Op2.Ident)

	case ir.Jump:
		fb.a.emitByte(0xe9)
		fb.a.emitDisp32Site(inst.Op1.Ident)

	case ir.Label:
		fb.a.resolveLabel(inst.Op1.Ident)

	case ir.Param:
		slot := fb.allocateSlot(inst.Type)
		fb.bind(inst.Op1.Ident, slot)
		// Arguments arrive via the System V integer registers; only the
		// first four are wired since the source language's call sites in
		// scope never need more.
		argRegs := []Reg{RDI, RSI, RDX, RCX}
		idx := len(fb.paramSlots)
		fb.paramSlots = append(fb.paramSlots, slot)
		if idx < len(argRegs) {
			fb.storeReg(slot, argRegs[idx], inst.Type)
		}

	case ir.Call:
		return fb.emitCall(inst)

	case ir.Return:
		if !inst.Op1.IsNone() {
			val := fb.resolve(inst.Op1)
			if !(val.isRegister() && val.Reg == RAX) {
				fb.loadReg(RAX, val, returnType(bb))
			}
		}
		if !last {
			fb.a.emitByte(0xe9)
			fb.a.emitDisp32Site(bb.Exit)
		}

	default:
		return fmt.Errorf("x86: unhandled ir opcode %s", inst.Opcode)
	}
	return nil
}

func (fb *funcBuilder) emitCall(inst ir.Instruction) error {
	callee := inst.Op2.Ident
	if callee.Symbol.String() == intrinsics.DebugBreakName {
		fb.a.emitByte(0xcc)
		dst := fb.allocateSlot(ir.I32)
		fb.bind(inst.Op1.Ident, dst)
		return nil
	}

	fn, ok := fb.a.Functions[ir.Ident{Symbol: callee.Symbol}]
	if !ok {
		return fmt.Errorf("x86: call to unresolved function %s", callee.Symbol)
	}

	argRegs := []Reg{RDI, RSI, RDX, RCX}
	for i, arg := range inst.Args {
		if i >= len(argRegs) {
			break
		}
		fb.loadReg(argRegs[i], fb.resolve(arg), ir.I64)
	}

	if fn.IsForeign {
		// mov rax, imm64 ; call rax
		fb.a.emitBytes(0x48, 0xb8)
		fb.pushImmediate(int64(fn.FuncAddr), 8)
		fb.a.emitBytes(0xff, modrm(2, RAX.id()))
	} else {
		fb.a.emitByte(0xe8)
		fb.a.emitDisp32Site(fn.EnterLabel)
	}

	dst := fb.allocateSlot(fn.ReturnType)
	fb.storeReg(dst, RAX, fn.ReturnType)
	fb.bind(inst.Op1.Ident, dst)
	return nil
}

func returnType(bb *ir.BasicBlock) ir.Type { return bb.ReturnType }

func opFromIR(op ir.Opcode) Opcode {
	switch op {
	case ir.Add:
		return ADD
	case ir.Sub:
		return SUB
	case ir.And:
		return AND
	case ir.Or:
		return OR
	case ir.Xor:
		return XOR
	default:
		panic("x86: opcode has no arithmetic mapping")
	}
}

func condFromIR(op ir.Opcode) condition {
	switch op {
	case ir.Lt:
		return condL
	case ir.Le:
		return condLE
	case ir.Gt:
		return condG
	case ir.Ge:
		return condGE
	case ir.Eq:
		return condE
	case ir.Ne:
		return condNE
	default:
		panic("x86: opcode has no condition mapping")
	}
}
