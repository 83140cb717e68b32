// Package typeck is the type-checking gate spec.md §1 describes only by its
// external contract: it accepts an ast.File and returns a non-negative error
// count, without the core specifying its rules beyond pass/fail. This is a
// small but real checker so the worked examples in spec.md §8 actually gate
// correctly; it is not meant to be a complete type system.
package typeck

import (
	"fmt"

	"firstc/internal/ast"
)

// Error is a single type-checking failure.
type Error struct {
	Span    ast.Span
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("💥 type error: %s at %s", e.Message, e.Span)
}

type signature struct {
	params []ast.Type
	ret    ast.Type
}

// Context carries the function signature table that CheckFileErrors fills
// from a File and consults while checking every Fn in it.
type Context struct {
	sigs map[ast.Symbol]signature
}

// NewContext builds an empty type-checking Context.
func NewContext() *Context {
	return &Context{sigs: make(map[ast.Symbol]signature)}
}

type scope map[ast.Symbol]ast.Type

type checker struct {
	ctx        *Context
	errors     []error
	scopes     []scope
	returnType ast.Type
}

func (c *checker) push()    { c.scopes = append(c.scopes, scope{}) }
func (c *checker) pop()     { c.scopes = c.scopes[:len(c.scopes)-1] }
func (c *checker) declare(name ast.Symbol, t ast.Type) {
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *checker) lookup(name ast.Symbol) (ast.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return 0, false
}

func (c *checker) fail(span ast.Span, format string, args ...any) {
	c.errors = append(c.errors, Error{Span: span, Message: fmt.Sprintf(format, args...)})
}

// CheckFile type-checks every function declared in file against ctx,
// returning the number of errors found. A count of zero means the File may
// proceed to borrow checking.
func CheckFile(ctx *Context, file ast.File) int {
	return len(CheckFileErrors(ctx, file))
}

// CheckFileErrors type-checks file against ctx and returns every error found,
// used by the driver when it needs to print them (spec.md §7's diagnostic
// contract).
func CheckFileErrors(ctx *Context, file ast.File) []error {
	for _, item := range file.Items {
		fn, ok := item.(ast.Fn)
		if !ok {
			continue
		}
		var params []ast.Type
		for _, p := range fn.Params {
			params = append(params, p.Type)
		}
		ctx.sigs[fn.Ident] = signature{params: params, ret: fn.ReturnType}
	}

	c := &checker{ctx: ctx}
	for _, item := range file.Items {
		fn, ok := item.(ast.Fn)
		if !ok || fn.IsForeign {
			continue
		}
		c.returnType = fn.ReturnType
		c.push()
		for _, p := range fn.Params {
			c.declare(p.Name, p.Type)
		}
		got := c.checkBlock(fn.Body)
		if got != fn.ReturnType {
			c.fail(fn.Span, "function %s: body evaluates to %s but declared return type is %s", fn.Ident, got, fn.ReturnType)
		}
		c.pop()
	}
	return c.errors
}

func (c *checker) checkBlock(block ast.Block) ast.Type {
	c.push()
	defer c.pop()
	result := ast.TypeI32
	for i, stmt := range block.Stmts {
		t := c.checkExpr(stmt)
		if i == len(block.Stmts)-1 {
			result = t
		}
	}
	if len(block.Stmts) == 0 {
		return ast.TypeI32
	}
	return result
}

func (c *checker) checkExpr(se ast.SpanExpr) ast.Type {
	switch e := se.Expr.(type) {
	case ast.Literal:
		if e.Value.IsBool() {
			return ast.TypeBool
		}
		return ast.TypeI32

	case ast.Ident:
		t, ok := c.lookup(e.Name)
		if !ok {
			c.fail(se.Span, "undeclared identifier %s", e.Name)
			return ast.TypeI32
		}
		return t

	case ast.Paren:
		return c.checkExpr(e.Inner)

	case ast.Unary:
		right := c.checkExpr(e.Right)
		switch e.Op {
		case ast.Sub:
			if right != ast.TypeI32 {
				c.fail(se.Span, "unary '-' expects i32, got %s", right)
			}
			return ast.TypeI32
		case ast.Not:
			if right != ast.TypeBool {
				c.fail(se.Span, "unary '!' expects bool, got %s", right)
			}
			return ast.TypeBool
		}
		return right

	case ast.Binary:
		left := c.checkExpr(e.Left)
		right := c.checkExpr(e.Right)
		return c.checkBinary(se.Span, left, e.Op, right)

	case ast.Call:
		sig, ok := c.ctx.sigs[e.Callee]
		if !ok {
			c.fail(se.Span, "call to undeclared function %s", e.Callee)
			return ast.TypeI32
		}
		if len(sig.params) != len(e.Args) {
			c.fail(se.Span, "%s expects %d arguments, got %d", e.Callee, len(sig.params), len(e.Args))
		}
		for i, arg := range e.Args {
			got := c.checkExpr(arg)
			if i < len(sig.params) && got != sig.params[i] {
				c.fail(arg.Span, "argument %d to %s: expected %s, got %s", i, e.Callee, sig.params[i], got)
			}
		}
		return sig.ret

	case ast.Let:
		init := c.checkExpr(e.Init)
		declared := init
		if e.Type != nil {
			declared = *e.Type
			if declared != init {
				c.fail(se.Span, "let %s: declared %s but initializer is %s", e.Name, declared, init)
			}
		}
		c.declare(e.Name, declared)
		return ast.TypeI32

	case ast.Assign:
		t, ok := c.lookup(e.Name)
		if !ok {
			c.fail(se.Span, "assignment to undeclared identifier %s", e.Name)
			return ast.TypeI32
		}
		got := c.checkExpr(e.Value)
		if got != t {
			c.fail(se.Span, "cannot assign %s to %s of type %s", got, e.Name, t)
		}
		return ast.TypeI32

	case ast.Block:
		return c.checkBlock(e)

	case ast.If:
		cond := c.checkExpr(e.Cond)
		if cond != ast.TypeBool {
			c.fail(se.Span, "if condition must be bool, got %s", cond)
		}
		thenTy := c.checkBlock(e.Then)
		if e.Else != nil {
			elseTy := c.checkBlock(*e.Else)
			if elseTy != thenTy {
				c.fail(se.Span, "if branches diverge: %s vs %s", thenTy, elseTy)
			}
		}
		return thenTy

	case ast.While:
		cond := c.checkExpr(e.Cond)
		if cond != ast.TypeBool {
			c.fail(se.Span, "while condition must be bool, got %s", cond)
		}
		c.checkBlock(e.Body)
		return ast.TypeI32

	case ast.Return:
		if e.Value != nil {
			got := c.checkExpr(*e.Value)
			if got != c.returnType {
				c.fail(se.Span, "return type mismatch: expected %s, got %s", c.returnType, got)
			}
		}
		return c.returnType

	default:
		c.fail(se.Span, "type checker: unhandled expression node %T", e)
		return ast.TypeI32
	}
}

func (c *checker) checkBinary(span ast.Span, left ast.Type, op ast.Operator, right ast.Type) ast.Type {
	if left == ast.TypeBool && right == ast.TypeBool {
		switch op {
		case ast.Equal, ast.NotEq, ast.And, ast.Or:
			return ast.TypeBool
		default:
			c.fail(span, "operator %s is not valid for bool operands", op)
			return ast.TypeBool
		}
	}
	if left == ast.TypeI32 && right == ast.TypeI32 {
		switch op {
		case ast.Equal, ast.NotEq, ast.LessThan, ast.LessEq, ast.LargerThan, ast.LargerEq:
			return ast.TypeBool
		case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
			return ast.TypeI32
		default:
			c.fail(span, "operator %s is not valid for i32 operands", op)
			return ast.TypeI32
		}
	}
	c.fail(span, "type mismatch: %s vs %s", left, right)
	return left
}
