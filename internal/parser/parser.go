// Package parser implements a recursive-descent parser over the token
// stream internal/lexer produces, yielding an ast.File. Lexing/parsing sit
// outside the specified core (spec.md §1): this package exists only so the
// pipeline is runnable end to end, behind the narrow contract the core
// actually consumes — a File or a non-empty list of SyntaxError.
package parser

import (
	"fmt"

	"firstc/internal/ast"
	"firstc/internal/token"
)

var comparisonTokens = []token.TokenType{token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL}
var equalityTokens = []token.TokenType{token.EQUAL_EQUAL, token.NOT_EQUAL}
var termTokens = []token.TokenType{token.PLUS, token.MINUS}
var factorTokens = []token.TokenType{token.STAR, token.SLASH, token.PERCENT}

// Parser consumes a fixed token slice and produces ast.File items.
//
// NOTE: the parser's position always points one token ahead of the token
// last returned by advance(), mirroring the teacher's convention.
type Parser struct {
	tokens   []token.Token
	filename string
	position int
	errors   []error
}

// Make constructs a Parser over tokens, all of which are assumed to carry
// positions relative to filename.
func Make(tokens []token.Token, filename string) *Parser {
	return &Parser{tokens: tokens, filename: filename}
}

// synchronize is thrown to unwind out of a broken production back to the
// top-level fn-declaration loop so parsing can keep collecting errors
// instead of aborting on the first one.
type synchronize struct{ err error }

func (p *Parser) fail(span ast.Span, format string, args ...any) {
	panic(synchronize{SyntaxError{Span: span, Message: fmt.Sprintf(format, args...)}})
}

func (p *Parser) peek() token.Token      { return p.tokens[p.position] }
func (p *Parser) previous() token.Token  { return p.tokens[p.position-1] }
func (p *Parser) isFinished() bool       { return p.peek().Type == token.EOF }
func (p *Parser) span(t token.Token) ast.Span {
	return ast.Span{File: p.filename, Line: t.Line, Column: t.Column, Length: len(t.Lexeme)}
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) check(typ token.TokenType) bool {
	if p.isFinished() {
		return typ == token.EOF
	}
	return p.peek().Type == typ
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ token.TokenType, message string) token.Token {
	if p.check(typ) {
		return p.advance()
	}
	p.fail(p.span(p.peek()), "%s (got %s)", message, p.peek().Type)
	panic("unreachable")
}

// Parse consumes the entire token stream, returning every top-level Fn
// declaration it can recover, plus the accumulated SyntaxErrors (spec.md §7:
// the driver aborts if this list is non-empty).
func (p *Parser) Parse() (ast.File, []error) {
	var items []ast.Item
	for !p.isFinished() {
		item, ok := p.parseItemRecovering()
		if ok {
			items = append(items, item)
		}
	}
	return ast.File{Items: items}, p.errors
}

func (p *Parser) parseItemRecovering() (item ast.Item, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sync, isSync := r.(synchronize)
			if !isSync {
				panic(r)
			}
			p.errors = append(p.errors, sync.err)
			p.synchronizeToNextFn()
			ok = false
		}
	}()
	return p.parseFn(), true
}

// synchronizeToNextFn discards tokens until the next `fn` keyword or EOF, so
// a malformed declaration doesn't cascade into spurious follow-on errors.
func (p *Parser) synchronizeToNextFn() {
	for !p.isFinished() && !p.check(token.FN) {
		p.advance()
	}
}

func (p *Parser) parseFn() ast.Item {
	start := p.consume(token.FN, "expected 'fn'")
	name := p.consume(token.IDENTIFIER, "expected function name")
	p.consume(token.LPAREN, "expected '(' after function name")

	var params []ast.Param
	if !p.check(token.RPAREN) {
		for {
			mutable := p.match(token.MUT)
			pname := p.consume(token.IDENTIFIER, "expected parameter name")
			p.consume(token.COLON, "expected ':' after parameter name")
			ptype := p.parseType()
			params = append(params, ast.Param{Name: ast.Intern(pname.Lexeme), Type: ptype, Mutable: mutable})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expected ')' after parameters")
	p.consume(token.ARROW, "expected '->' before return type")
	retType := p.parseType()
	body := p.parseBlock()

	return ast.Fn{
		Ident:      ast.Intern(name.Lexeme),
		Params:     params,
		ReturnType: retType,
		Body:       body,
		Span:       p.span(start),
	}
}

func (p *Parser) parseType() ast.Type {
	switch {
	case p.match(token.TY_I32):
		return ast.TypeI32
	case p.match(token.TY_BOOL):
		return ast.TypeBool
	default:
		p.fail(p.span(p.peek()), "expected a type, got %s", p.peek().Type)
		panic("unreachable")
	}
}

func (p *Parser) parseBlock() ast.Block {
	p.consume(token.LBRACE, "expected '{'")
	var stmts []ast.SpanExpr
	for !p.check(token.RBRACE) && !p.isFinished() {
		stmts = append(stmts, p.parseExpr())
		p.match(token.SEMI)
	}
	p.consume(token.RBRACE, "expected '}'")
	return ast.Block{Stmts: stmts}
}

func (p *Parser) parseExpr() ast.SpanExpr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.SpanExpr {
	expr := p.parseOr()
	if p.check(token.ASSIGN) {
		eq := p.advance()
		value := p.parseAssignment()
		ident, ok := expr.Expr.(ast.Ident)
		if !ok {
			p.fail(p.span(eq), "invalid assignment target")
		}
		return ast.SpanExpr{Span: expr.Span, Expr: ast.Assign{Name: ident.Name, Value: value}}
	}
	return expr
}

func (p *Parser) parseOr() ast.SpanExpr {
	expr := p.parseAnd()
	for p.match(token.OR_OR) {
		right := p.parseAnd()
		expr = ast.SpanExpr{Span: expr.Span, Expr: ast.Binary{Left: expr, Op: ast.Or, Right: right}}
	}
	return expr
}

func (p *Parser) parseAnd() ast.SpanExpr {
	expr := p.parseEquality()
	for p.match(token.AND_AND) {
		right := p.parseEquality()
		expr = ast.SpanExpr{Span: expr.Span, Expr: ast.Binary{Left: expr, Op: ast.And, Right: right}}
	}
	return expr
}

func (p *Parser) parseEquality() ast.SpanExpr {
	expr := p.parseComparison()
	for p.match(equalityTokens...) {
		op := opFromToken(p.previous().Type)
		right := p.parseComparison()
		expr = ast.SpanExpr{Span: expr.Span, Expr: ast.Binary{Left: expr, Op: op, Right: right}}
	}
	return expr
}

func (p *Parser) parseComparison() ast.SpanExpr {
	expr := p.parseTerm()
	for p.match(comparisonTokens...) {
		op := opFromToken(p.previous().Type)
		right := p.parseTerm()
		expr = ast.SpanExpr{Span: expr.Span, Expr: ast.Binary{Left: expr, Op: op, Right: right}}
	}
	return expr
}

func (p *Parser) parseTerm() ast.SpanExpr {
	expr := p.parseFactor()
	for p.match(termTokens...) {
		op := opFromToken(p.previous().Type)
		right := p.parseFactor()
		expr = ast.SpanExpr{Span: expr.Span, Expr: ast.Binary{Left: expr, Op: op, Right: right}}
	}
	return expr
}

func (p *Parser) parseFactor() ast.SpanExpr {
	expr := p.parseUnary()
	for p.match(factorTokens...) {
		op := opFromToken(p.previous().Type)
		right := p.parseUnary()
		expr = ast.SpanExpr{Span: expr.Span, Expr: ast.Binary{Left: expr, Op: op, Right: right}}
	}
	return expr
}

func (p *Parser) parseUnary() ast.SpanExpr {
	if p.match(token.MINUS, token.BANG) {
		opTok := p.previous()
		op := ast.Sub
		if opTok.Type == token.BANG {
			op = ast.Not
		}
		right := p.parseUnary()
		return ast.SpanExpr{Span: p.span(opTok), Expr: ast.Unary{Op: op, Right: right}}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.SpanExpr {
	tok := p.peek()
	span := p.span(tok)

	switch {
	case p.match(token.INT):
		return ast.SpanExpr{Span: span, Expr: ast.Literal{Value: ast.NewNum(p.previous().Literal.(int32))}}

	case p.match(token.TRUE):
		return ast.SpanExpr{Span: span, Expr: ast.Literal{Value: ast.NewBool(true)}}

	case p.match(token.FALSE):
		return ast.SpanExpr{Span: span, Expr: ast.Literal{Value: ast.NewBool(false)}}

	case p.match(token.LPAREN):
		inner := p.parseExpr()
		p.consume(token.RPAREN, "expected ')' after expression")
		return ast.SpanExpr{Span: span, Expr: ast.Paren{Inner: inner}}

	case p.check(token.LBRACE):
		return ast.SpanExpr{Span: span, Expr: p.parseBlock()}

	case p.match(token.IF):
		return p.parseIf(span)

	case p.match(token.WHILE):
		cond := p.parseExpr()
		body := p.parseBlock()
		return ast.SpanExpr{Span: span, Expr: ast.While{Cond: cond, Body: body}}

	case p.match(token.LET):
		return p.parseLet(span)

	case p.match(token.RETURN):
		if p.check(token.SEMI) || p.check(token.RBRACE) {
			return ast.SpanExpr{Span: span, Expr: ast.Return{}}
		}
		value := p.parseExpr()
		return ast.SpanExpr{Span: span, Expr: ast.Return{Value: &value}}

	case p.match(token.IDENTIFIER):
		name := p.previous()
		if p.match(token.LPAREN) {
			var args []ast.SpanExpr
			if !p.check(token.RPAREN) {
				for {
					args = append(args, p.parseExpr())
					if !p.match(token.COMMA) {
						break
					}
				}
			}
			p.consume(token.RPAREN, "expected ')' after call arguments")
			return ast.SpanExpr{Span: span, Expr: ast.Call{Callee: ast.Intern(name.Lexeme), Args: args}}
		}
		return ast.SpanExpr{Span: span, Expr: ast.Ident{Name: ast.Intern(name.Lexeme)}}
	}

	p.fail(span, "expected an expression, got %s", tok.Type)
	panic("unreachable")
}

func (p *Parser) parseIf(span ast.Span) ast.SpanExpr {
	cond := p.parseExpr()
	then := p.parseBlock()
	var elseBlock *ast.Block
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			p.advance()
			inner := p.parseIf(p.span(p.previous()))
			elseBlock = &ast.Block{Stmts: []ast.SpanExpr{inner}}
		} else {
			block := p.parseBlock()
			elseBlock = &block
		}
	}
	return ast.SpanExpr{Span: span, Expr: ast.If{Cond: cond, Then: then, Else: elseBlock}}
}

func (p *Parser) parseLet(span ast.Span) ast.SpanExpr {
	mutable := p.match(token.MUT)
	name := p.consume(token.IDENTIFIER, "expected variable name after 'let'")
	var declared *ast.Type
	if p.match(token.COLON) {
		t := p.parseType()
		declared = &t
	}
	p.consume(token.ASSIGN, "expected '=' in let binding")
	init := p.parseExpr()
	return ast.SpanExpr{Span: span, Expr: ast.Let{Mutable: mutable, Name: ast.Intern(name.Lexeme), Type: declared, Init: init}}
}

func opFromToken(typ token.TokenType) ast.Operator {
	switch typ {
	case token.EQUAL_EQUAL:
		return ast.Equal
	case token.NOT_EQUAL:
		return ast.NotEq
	case token.LESS:
		return ast.LessThan
	case token.LESS_EQUAL:
		return ast.LessEq
	case token.LARGER:
		return ast.LargerThan
	case token.LARGER_EQUAL:
		return ast.LargerEq
	case token.PLUS:
		return ast.Add
	case token.MINUS:
		return ast.Sub
	case token.STAR:
		return ast.Mul
	case token.SLASH:
		return ast.Div
	case token.PERCENT:
		return ast.Mod
	default:
		panic(fmt.Sprintf("parser: %s is not an operator token", typ))
	}
}
