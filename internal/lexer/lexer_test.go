package lexer

import (
	"testing"

	"firstc/internal/token"
)

func TestScanProducesExpectedTokenTypes(t *testing.T) {
	src := `fn add(a: i32, b: i32) -> i32 {
	let mut x: i32 = a + b * 2;
	if x >= 10 && x != 0 {
		return x;
	}
	return 0;
}`

	want := []token.TokenType{
		token.FN, token.IDENTIFIER, token.LPAREN,
		token.IDENTIFIER, token.COLON, token.TY_I32, token.COMMA,
		token.IDENTIFIER, token.COLON, token.TY_I32, token.RPAREN,
		token.ARROW, token.TY_I32, token.LBRACE,
		token.LET, token.MUT, token.IDENTIFIER, token.COLON, token.TY_I32,
		token.ASSIGN, token.IDENTIFIER, token.PLUS, token.IDENTIFIER, token.STAR, token.INT, token.SEMI,
		token.IF, token.IDENTIFIER, token.LARGER_EQUAL, token.INT, token.AND_AND,
		token.IDENTIFIER, token.NOT_EQUAL, token.INT, token.LBRACE,
		token.RETURN, token.IDENTIFIER, token.SEMI,
		token.RBRACE,
		token.RETURN, token.INT, token.SEMI,
		token.RBRACE,
		token.EOF,
	}

	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Fatalf("token %d: got %s, want %s (%v)", i, tok.Type, want[i], tok)
		}
	}
}

func TestScanDecodesIntegerLiterals(t *testing.T) {
	toks, err := New("42").Scan()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	if toks[0].Type != token.INT {
		t.Fatalf("expected an INT token, got %s", toks[0].Type)
	}
	if toks[0].Literal != int32(42) {
		t.Fatalf("expected literal 42, got %v", toks[0].Literal)
	}
}

func TestScanSkipsComments(t *testing.T) {
	toks, err := New("# a comment\nfn").Scan()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	if toks[0].Type != token.FN || toks[1].Type != token.EOF {
		t.Fatalf("expected [FN EOF], got %v", toks)
	}
}

func TestScanReportsUnexpectedCharacter(t *testing.T) {
	if _, err := New("let x = @;").Scan(); err == nil {
		t.Fatalf("expected an error for an unrecognized character")
	}
}

func TestScanDistinguishesSingleAndDoubleCharOperators(t *testing.T) {
	tests := []struct {
		src  string
		want token.TokenType
	}{
		{"-", token.MINUS},
		{"->", token.ARROW},
		{"=", token.ASSIGN},
		{"==", token.EQUAL_EQUAL},
		{"!", token.BANG},
		{"!=", token.NOT_EQUAL},
		{"<", token.LESS},
		{"<=", token.LESS_EQUAL},
		{">", token.LARGER},
		{">=", token.LARGER_EQUAL},
	}
	for _, tt := range tests {
		toks, err := New(tt.src).Scan()
		if err != nil {
			t.Fatalf("%q: unexpected scan error: %v", tt.src, err)
		}
		if toks[0].Type != tt.want {
			t.Fatalf("%q: got %s, want %s", tt.src, toks[0].Type, tt.want)
		}
	}
}
