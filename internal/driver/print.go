package driver

import (
	"fmt"
	"strings"

	"firstc/internal/ir"
)

// DumpIR renders prog as a flat, one-instruction-per-line listing in
// emission order, the textual form --print=ir writes to stdout.
func DumpIR(prog ir.Program) string {
	var b strings.Builder
	for _, sym := range prog.Order {
		bb := prog.Functions[sym]
		fmt.Fprintf(&b, "fn %s (foreign=%t, ret=%s)\n", sym, bb.IsForeign, bb.ReturnType)
		if bb.IsForeign {
			continue
		}
		for i := bb.PrologueIndex; i <= bb.EpilogueIndex; i++ {
			inst := prog.Instructions[i]
			b.WriteString("  ")
			b.WriteString(formatInstruction(inst))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatInstruction(inst ir.Instruction) string {
	switch inst.Opcode {
	case ir.Label, ir.Jump:
		return fmt.Sprintf("%s %s", inst.Opcode, inst.Op1)
	case ir.IfFalse:
		return fmt.Sprintf("%s %s, %s", inst.Opcode, inst.Op1, inst.Op2)
	case ir.Call:
		args := make([]string, len(inst.Args))
		for i, a := range inst.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s = call %s(%s)", inst.Op1, inst.Op2, strings.Join(args, ", "))
	case ir.Param, ir.Return, ir.Prologue, ir.Epilogue, ir.Alloca:
		return fmt.Sprintf("%s %s", inst.Opcode, inst.Op1)
	case ir.Copy:
		return fmt.Sprintf("%s = %s", inst.Op1, inst.Op2)
	default:
		return fmt.Sprintf("%s = %s %s, %s", inst.Op1, inst.Opcode, inst.Op2, inst.Op3)
	}
}

// DumpMachineCode renders code as a hex dump, 16 bytes per line, the form
// --print=asm/machinecode writes to stdout. Disassembly into mnemonics is
// out of scope (spec.md's Non-goals exclude a general disassembler); the
// raw encoded bytes are what the JIT loader actually executes.
func DumpMachineCode(code []byte) string {
	var b strings.Builder
	for i := 0; i < len(code); i += 16 {
		end := i + 16
		if end > len(code) {
			end = len(code)
		}
		fmt.Fprintf(&b, "%08x  ", i)
		for _, by := range code[i:end] {
			fmt.Fprintf(&b, "%02x ", by)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
