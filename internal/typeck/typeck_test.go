package typeck

import (
	"testing"

	"firstc/internal/ast"
	"firstc/internal/lexer"
	"firstc/internal/parser"
)

func parseOK(t *testing.T, src string) ast.File {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, errs := parser.Make(toks, "test").Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return file
}

func TestCheckFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{
			name:    "well-typed arithmetic",
			src:     "fn main() -> i32 { let x: i32 = 1; return x + 2; }",
			wantErr: false,
		},
		{
			name:    "well-typed call",
			src:     "fn add(a: i32, b: i32) -> i32 { return a + b; }\nfn main() -> i32 { return add(1, 2); }",
			wantErr: false,
		},
		{
			name:    "bool condition",
			src:     "fn main() -> i32 { if true { return 1; } return 0; }",
			wantErr: false,
		},
		{
			name:    "mismatched let annotation",
			src:     "fn main() -> i32 { let x: bool = 1; return 0; }",
			wantErr: true,
		},
		{
			name:    "non-bool if condition",
			src:     "fn main() -> i32 { if 1 { return 1; } return 0; }",
			wantErr: true,
		},
		{
			name:    "undeclared identifier",
			src:     "fn main() -> i32 { return y; }",
			wantErr: true,
		},
		{
			name:    "wrong argument count",
			src:     "fn add(a: i32, b: i32) -> i32 { return a + b; }\nfn main() -> i32 { return add(1); }",
			wantErr: true,
		},
		{
			name:    "return type mismatch",
			src:     "fn main() -> i32 { return true; }",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parseOK(t, tt.src)
			errs := CheckFileErrors(NewContext(), file)
			if tt.wantErr && len(errs) == 0 {
				t.Fatalf("expected a type error, got none")
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Fatalf("expected no type errors, got %v", errs)
			}
		})
	}
}
