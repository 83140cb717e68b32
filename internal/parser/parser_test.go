package parser

import (
	"testing"

	"firstc/internal/ast"
	"firstc/internal/lexer"
)

func parseSrc(t *testing.T, src string) (ast.File, []error) {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return Make(toks, "test").Parse()
}

func TestParseFunctionDeclaration(t *testing.T) {
	file, errs := parseSrc(t, `fn add(a: i32, mut b: i32) -> i32 { return a + b; }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
	fn, ok := file.Items[0].(ast.Fn)
	if !ok {
		t.Fatalf("expected an ast.Fn, got %T", file.Items[0])
	}
	if fn.Ident.String() != "add" {
		t.Fatalf("got fn name %q, want %q", fn.Ident.String(), "add")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Mutable {
		t.Fatalf("expected param %q to be immutable", fn.Params[0].Name)
	}
	if !fn.Params[1].Mutable {
		t.Fatalf("expected param %q to be mutable", fn.Params[1].Name)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in the body, got %d", len(fn.Body.Stmts))
	}
}

func TestParseMultipleFunctions(t *testing.T) {
	file, errs := parseSrc(t, `
fn helper() -> i32 { return 1; }
fn main() -> i32 { return helper(); }
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(file.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(file.Items))
	}
}

func TestParseRecoversFromAndReportsSyntaxErrors(t *testing.T) {
	_, errs := parseSrc(t, `fn main() -> i32 { let x i32 = 1; return x; }`)
	if len(errs) == 0 {
		t.Fatalf("expected at least one syntax error for a missing ':'")
	}
}

func TestParseIfElseAndWhile(t *testing.T) {
	src := `fn main() -> i32 {
		let mut i: i32 = 0;
		while i < 3 {
			if i == 1 { i = i + 1; } else { i = i + 2; }
		}
		return i;
	}`
	file, errs := parseSrc(t, src)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	fn := file.Items[0].(ast.Fn)
	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("expected 3 top-level statements, got %d", len(fn.Body.Stmts))
	}
}
