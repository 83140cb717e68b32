package interp

import (
	"testing"

	"firstc/internal/ast"
	"firstc/internal/lexer"
	"firstc/internal/parser"
)

func run(t *testing.T, src string) (ast.Val, error) {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, errs := parser.Make(toks, "test").Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return New(file).Run()
}

func TestRunArithmeticAndControlFlow(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.Val
	}{
		{
			name: "straight-line arithmetic",
			src:  "fn main() -> i32 { let x: i32 = 2; let y: i32 = 3; return x * y + 1; }",
			want: ast.NewNum(7),
		},
		{
			name: "if-else branch selection",
			src:  "fn main() -> i32 { let x: i32 = 10; if x > 5 { return 1; } return 0; }",
			want: ast.NewNum(1),
		},
		{
			name: "while loop accumulation",
			src:  "fn main() -> i32 { let mut i: i32 = 0; let mut s: i32 = 0; while i < 5 { s = s + i; i = i + 1; } return s; }",
			want: ast.NewNum(10),
		},
		{
			name: "function call",
			src:  "fn add(a: i32, b: i32) -> i32 { return a + b; }\nfn main() -> i32 { return add(4, 5); }",
			want: ast.NewNum(9),
		},
		{
			name: "unary negation and not",
			src:  "fn main() -> i32 { let x: i32 = -3; let b: bool = !false; if b { return -x; } return 0; }",
			want: ast.NewNum(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected runtime error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunDivisionByZeroTraps(t *testing.T) {
	_, err := run(t, "fn main() -> i32 { let z: i32 = 0; return 1 / z; }")
	if err == nil {
		t.Fatalf("expected a runtime error for division by zero")
	}
	rerr, ok := err.(RuntimeError)
	if !ok {
		t.Fatalf("expected a RuntimeError, got %T", err)
	}
	if rerr.Kind != InvalidExpression {
		t.Fatalf("expected InvalidExpression, got %v", rerr.Kind)
	}
}

func TestRunUndefinedFunctionTraps(t *testing.T) {
	_, err := run(t, "fn main() -> i32 { return missing(); }")
	if err == nil {
		t.Fatalf("expected a runtime error for an undefined function")
	}
}
