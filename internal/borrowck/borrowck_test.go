package borrowck

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
			name:    "assign to mut binding",
			src:     "fn main() -> i32 { let mut x = 1; x = 2; return x; }",
			wantErr: false,
		},
		{
			name:    "assign to immutable binding",
			src:     "fn main() -> i32 { let x = 1; x = 2; return x; }",
			wantErr: true,
		},
		{
			name:    "assign to undeclared identifier",
			src:     "fn main() -> i32 { y = 2; return 0; }",
			wantErr: true,
		},
		{
			name:    "mut parameter reassigned in loop",
			src:     "fn count(mut n: i32) -> i32 { while n > 0 { n = n - 1; } return n; }",
			wantErr: false,
		},
		{
			name:    "immutable parameter reassigned",
			src:     "fn count(n: i32) -> i32 { n = n - 1; return n; }",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parseOK(t, tt.src)
			errs := CheckFileErrors(file)
			if tt.wantErr && len(errs) == 0 {
				t.Fatalf("expected a borrow error, got none")
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Fatalf("expected no borrow errors, got %v", errs)
			}
		})
	}
}
