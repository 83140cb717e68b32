// Package borrowck is the second gate in the pipeline, run only once
// typeck.CheckFile reports zero errors. spec.md leaves borrow checking
// almost entirely as a black box with one observable contract: assigning to
// a binding not declared `mut` is rejected. This package enforces exactly
// that rule using the same scope-stack shape typeck uses, rather than a full
// move/borrow analysis.
package borrowck

import (
	"fmt"

	"firstc/internal/ast"
)

// Error is a single borrow-checking failure.
type Error struct {
	Span    ast.Span
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("💥 borrow error: %s at %s", e.Message, e.Span)
}

type scope map[ast.Symbol]bool // value: declared mutable

type checker struct {
	errors []error
	scopes []scope
}

func (c *checker) push() { c.scopes = append(c.scopes, scope{}) }
func (c *checker) pop()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *checker) declare(name ast.Symbol, mutable bool) {
	c.scopes[len(c.scopes)-1][name] = mutable
}

func (c *checker) mutable(name ast.Symbol) (bool, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if m, ok := c.scopes[i][name]; ok {
			return m, true
		}
	}
	return false, false
}

func (c *checker) fail(span ast.Span, format string, args ...any) {
	c.errors = append(c.errors, Error{Span: span, Message: fmt.Sprintf(format, args...)})
}

// CheckFile borrow-checks every function in file and returns the number of
// violations. A count of zero means the File is safe to lower to IR.
func CheckFile(file ast.File) int {
	return len(CheckFileErrors(file))
}

// CheckFileErrors behaves like CheckFile but returns the violations found.
func CheckFileErrors(file ast.File) []error {
	c := &checker{}
	for _, item := range file.Items {
		fn, ok := item.(ast.Fn)
		if !ok || fn.IsForeign {
			continue
		}
		c.push()
		for _, p := range fn.Params {
			c.declare(p.Name, p.Mutable)
		}
		c.checkBlock(fn.Body)
		c.pop()
	}
	return c.errors
}

func (c *checker) checkBlock(block ast.Block) {
	c.push()
	defer c.pop()
	for _, stmt := range block.Stmts {
		c.checkExpr(stmt)
	}
}

func (c *checker) checkExpr(se ast.SpanExpr) {
	switch e := se.Expr.(type) {
	case ast.Literal, ast.Ident:
		// no bindings touched

	case ast.Paren:
		c.checkExpr(e.Inner)

	case ast.Unary:
		c.checkExpr(e.Right)

	case ast.Binary:
		c.checkExpr(e.Left)
		c.checkExpr(e.Right)

	case ast.Call:
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}

	case ast.Let:
		c.checkExpr(e.Init)
		c.declare(e.Name, e.Mutable)

	case ast.Assign:
		mutable, ok := c.mutable(e.Name)
		if !ok {
			c.fail(se.Span, "assignment to undeclared identifier %s", e.Name)
		} else if !mutable {
			c.fail(se.Span, "cannot assign to %s: not declared mut", e.Name)
		}
		c.checkExpr(e.Value)

	case ast.Block:
		c.checkBlock(e)

	case ast.If:
		c.checkExpr(e.Cond)
		c.checkBlock(e.Then)
		if e.Else != nil {
			c.checkBlock(*e.Else)
		}

	case ast.While:
		c.checkExpr(e.Cond)
		c.checkBlock(e.Body)

	case ast.Return:
		if e.Value != nil {
			c.checkExpr(*e.Value)
		}
	}
}
