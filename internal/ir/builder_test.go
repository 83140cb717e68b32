package ir

import (
	"testing"

	"firstc/internal/lexer"
	"firstc/internal/parser"
)

func buildProgram(t *testing.T, src string) Program {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, errs := parser.Make(toks, "test").Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return Build(file)
}

func TestBuildEmitsMainFirst(t *testing.T) {
	prog := buildProgram(t, `
fn helper(a: i32) -> i32 { return a + 1; }
fn main() -> i32 { return helper(41); }
`)

	if len(prog.Order) != 2 {
		t.Fatalf("expected 2 functions in emission order, got %d", len(prog.Order))
	}
	if prog.Order[0].String() != "main" {
		t.Fatalf("expected main first, got %s", prog.Order[0])
	}

	mainBB, ok := prog.Functions[prog.Order[0]]
	if !ok {
		t.Fatalf("main missing from Functions table")
	}
	if mainBB.ReturnType != I32 {
		t.Fatalf("expected main's return type to be I32, got %s", mainBB.ReturnType)
	}

	sawCall := false
	for i := mainBB.PrologueIndex; i <= mainBB.EpilogueIndex; i++ {
		if prog.Instructions[i].Opcode == Call {
			sawCall = true
		}
	}
	if !sawCall {
		t.Fatalf("expected main's body to lower a Call instruction")
	}
}

func TestUnaryOpsLowerToThreeOperandForm(t *testing.T) {
	prog := buildProgram(t, `fn main() -> i32 { let x: i32 = -5; let b: bool = !true; return x; }`)
	mainBB := prog.Functions[prog.Order[0]]

	for i := mainBB.PrologueIndex; i <= mainBB.EpilogueIndex; i++ {
		inst := prog.Instructions[i]
		switch inst.Opcode {
		case Sub, Xor:
			if inst.Op3.IsNone() {
				t.Fatalf("expected a fully populated 3-operand %s instruction, got %+v", inst.Opcode, inst)
			}
		}
	}
}

func TestIfElseLowersBalancedLabels(t *testing.T) {
	prog := buildProgram(t, `fn main() -> i32 { if 1 < 2 { return 1; } else { return 0; } }`)
	mainBB := prog.Functions[prog.Order[0]]

	var labels, jumps, ifFalses int
	for i := mainBB.PrologueIndex; i <= mainBB.EpilogueIndex; i++ {
		switch prog.Instructions[i].Opcode {
		case Label:
			labels++
		case Jump:
			jumps++
		case IfFalse:
			ifFalses++
		}
	}
	// else-label and end-label; the function exit label is carried by the
	// Epilogue instruction, not by a Label.
	if labels < 2 {
		t.Fatalf("expected at least 2 Label instructions, got %d", labels)
	}
	if ifFalses != 1 {
		t.Fatalf("expected exactly 1 IfFalse instruction, got %d", ifFalses)
	}
	if jumps < 1 {
		t.Fatalf("expected at least 1 Jump instruction, got %d", jumps)
	}
}
