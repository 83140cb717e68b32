package x86

import (
	"testing"

	"firstc/internal/ast"
	"firstc/internal/ir"
	"firstc/internal/lexer"
	"firstc/internal/parser"
)

func buildProgram(t *testing.T, src string) ir.Program {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, errs := parser.Make(toks, "test").Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return ir.Build(file)
}

func TestEncodeProducesNonEmptyCode(t *testing.T) {
	prog := buildProgram(t, `
fn add(a: i32, b: i32) -> i32 { return a + b; }
fn main() -> i32 { let x: i32 = add(20, 22); return x; }
`)

	asm, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode returned an error: %v", err)
	}
	if len(asm.Code) == 0 {
		t.Fatalf("expected non-empty machine code")
	}
	for _, sym := range prog.Order {
		if _, ok := asm.Functions[ir.Ident{Symbol: sym}]; !ok {
			t.Fatalf("expected a Function record for %s", sym)
		}
	}
}

func TestEncodeRejectsUnresolvedLabel(t *testing.T) {
	// A dangling jump target (never resolved via Label) must surface as an
	// error rather than silently emitting a bad displacement.
	dangling := ir.Ident{Symbol: 99999}
	mainSym := ast.Intern("main")
	prog := ir.Program{
		Instructions: []ir.Instruction{
			{Opcode: ir.Prologue, Type: ir.I32, Op1: ir.IdentOperand(ir.Ident{Symbol: mainSym})},
			{Opcode: ir.Jump, Op1: ir.IdentOperand(dangling)},
			{Opcode: ir.Epilogue, Op1: ir.IdentOperand(ir.Ident{Symbol: mainSym, Version: 1})},
		},
		Functions: map[ast.Symbol]*ir.BasicBlock{mainSym: {
			Enter: ir.Ident{Symbol: mainSym}, Exit: ir.Ident{Symbol: mainSym, Version: 1},
			ReturnType: ir.I32, PrologueIndex: 0, EpilogueIndex: 2,
		}},
		Order: []ast.Symbol{mainSym},
	}
	if _, err := Encode(prog); err == nil {
		t.Fatalf("expected Encode to reject a jump to a label that is never resolved")
	}

	a := &Assembler{Functions: make(map[ir.Ident]*Function), jumps: make(map[ir.Ident]*jumpTarget)}
	a.emitDisp32Site(dangling)

	for label, jt := range a.jumps {
		if !jt.resolved {
			if len(jt.pendingAt) == 0 {
				t.Fatalf("expected %s to still have a pending site", label)
			}
			return
		}
	}
	t.Fatalf("expected an unresolved jump target to exist")
}

func TestModrmDispWidthSelection(t *testing.T) {
	tests := []struct {
		disp int32
		want byte
	}{
		{0, 0b01000000},
		{127, 0b01000000},
		{128, 0b10000000},
		{-128, 0b01000000},
		{-129, 0b10000000},
	}
	for _, tt := range tests {
		got := modrmDisp(0, 0, tt.disp) &^ 0b00111111
		if got != tt.want {
			t.Fatalf("modrmDisp(%d): got mode bits %08b, want %08b", tt.disp, got, tt.want)
		}
	}
}
