// Package interp is the tree-walking interpreter used as the correctness
// oracle the JIT backend is checked against (spec.md §8). Its evaluation
// rules are grounded directly on
// original_source/d7050e/a04_interpreter/src/interpreter.rs's eval_expr,
// eval_atom, compute_binop and compute_unop.
package interp

import (
	"firstc/internal/ast"
)

// result is what eval returns for every expression node. Returning is set
// the instant a Return expression evaluates, and every block/if/while walker
// checks it to unwind without running the rest of the current scope.
type result struct {
	Value     ast.Val
	Returning bool
}

func value(v ast.Val) result { return result{Value: v} }

// Interp holds the function table and drives evaluation of function calls.
// One Interp is built per compilation unit and reused across calls.
type Interp struct {
	fns map[ast.Symbol]ast.Fn
}

// New builds an Interp from every Fn declared in file. Foreign items
// (intrinsics) are registered too; callFn hands them to callForeign instead
// of evaluating a body.
func New(file ast.File) *Interp {
	it := &Interp{fns: make(map[ast.Symbol]ast.Fn)}
	for _, item := range file.Items {
		if fn, ok := item.(ast.Fn); ok {
			it.fns[fn.Ident] = fn
		}
	}
	return it
}

// Run calls the function named main with no arguments and returns its
// result, matching spec.md §7's entry-point contract.
func (it *Interp) Run() (ast.Val, error) {
	main, ok := it.fns[ast.Intern("main")]
	if !ok {
		return ast.Val{}, newRuntimeError(MemoryError, 0, 0, "no main function defined")
	}
	return it.callFn(main, nil)
}

func (it *Interp) callFn(fn ast.Fn, args []ast.Val) (val ast.Val, err error) {
	if fn.IsForeign {
		return it.callForeign(fn, args)
	}
	env := NewEnvironment(nil)
	for i, p := range fn.Params {
		env.Define(p.Name, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(RuntimeError); ok {
				err = re
				return
			}
			panic(r)
		}
	}()

	res := it.evalBlock(fn.Body, env)
	return res.Value, nil
}

func (it *Interp) callForeign(fn ast.Fn, args []ast.Val) (ast.Val, error) {
	switch fn.Ident.String() {
	case "debug_break":
		return ast.NewNum(0), nil
	default:
		return ast.Val{}, newRuntimeError(TypeError, 0, 0, "unresolved foreign function: "+fn.Ident.String())
	}
}

// eval evaluates a single SpanExpr node within env, panicking with a
// RuntimeError on failure the way the Rust original propagates with `?`
// inside a recursive eval_expr; callFn recovers at the function boundary.
func (it *Interp) eval(se ast.SpanExpr, env *Environment) result {
	switch e := se.Expr.(type) {
	case ast.Literal:
		return value(e.Value)

	case ast.Ident:
		v, err := env.Get(e.Name, se.Span.Line, se.Span.Column)
		if err != nil {
			panic(err)
		}
		return value(v)

	case ast.Paren:
		return it.eval(e.Inner, env)

	case ast.Unary:
		right := it.eval(e.Right, env)
		return value(it.computeUnop(se.Span, e.Op, right.Value))

	case ast.Binary:
		left := it.eval(e.Left, env)
		right := it.eval(e.Right, env)
		return value(it.computeBinop(se.Span, left.Value, e.Op, right.Value))

	case ast.Call:
		fn, ok := it.fns[e.Callee]
		if !ok {
			panic(newRuntimeError(MemoryError, se.Span.Line, se.Span.Column, "undefined function: "+e.Callee.String()))
		}
		args := make([]ast.Val, len(e.Args))
		for i, a := range e.Args {
			args[i] = it.eval(a, env).Value
		}
		v, err := it.callFn(fn, args)
		if err != nil {
			panic(err)
		}
		return value(v)

	case ast.Let:
		init := it.eval(e.Init, env)
		env.Define(e.Name, init.Value)
		return value(ast.NewNum(0))

	case ast.Assign:
		v := it.eval(e.Value, env)
		if err := env.Assign(e.Name, v.Value, se.Span.Line, se.Span.Column); err != nil {
			panic(err)
		}
		return value(v.Value)

	case ast.Block:
		return it.evalBlock(e, env)

	case ast.If:
		cond := it.eval(e.Cond, env)
		if !cond.Value.IsBool() {
			panic(newRuntimeError(TypeError, se.Span.Line, se.Span.Column, "if condition is not a bool"))
		}
		if cond.Value.Bool {
			return it.evalBlock(e.Then, env)
		}
		if e.Else != nil {
			return it.evalBlock(*e.Else, env)
		}
		return value(ast.NewNum(0))

	case ast.While:
		for {
			cond := it.eval(e.Cond, env)
			if !cond.Value.IsBool() {
				panic(newRuntimeError(TypeError, se.Span.Line, se.Span.Column, "while condition is not a bool"))
			}
			if !cond.Value.Bool {
				break
			}
			body := it.evalBlock(e.Body, env)
			if body.Returning {
				return body
			}
		}
		return value(ast.NewNum(0))

	case ast.Return:
		if e.Value == nil {
			return result{Value: ast.NewNum(0), Returning: true}
		}
		v := it.eval(*e.Value, env)
		return result{Value: v.Value, Returning: true}

	default:
		panic(newRuntimeError(TypeError, se.Span.Line, se.Span.Column, "interpreter: unhandled expression node"))
	}
}

func (it *Interp) evalBlock(block ast.Block, parent *Environment) result {
	env := NewEnvironment(parent)
	last := result{Value: ast.NewNum(0)}
	for _, stmt := range block.Stmts {
		last = it.eval(stmt, env)
		if last.Returning {
			return last
		}
	}
	return last
}

// computeBinop mirrors compute_binop: bool operands accept only equality and
// logical connectives, int operands accept full arithmetic and comparison,
// and division/modulo by zero is an InvalidExpression rather than a panic.
func (it *Interp) computeBinop(span ast.Span, left ast.Val, op ast.Operator, right ast.Val) ast.Val {
	if left.IsBool() && right.IsBool() {
		switch op {
		case ast.Equal:
			return ast.NewBool(left.Bool == right.Bool)
		case ast.NotEq:
			return ast.NewBool(left.Bool != right.Bool)
		case ast.And:
			return ast.NewBool(left.Bool && right.Bool)
		case ast.Or:
			return ast.NewBool(left.Bool || right.Bool)
		default:
			panic(newRuntimeError(TypeError, span.Line, span.Column, "operator "+op.String()+" is not valid for bool operands"))
		}
	}
	if !left.IsBool() && !right.IsBool() {
		switch op {
		case ast.Add:
			return ast.NewNum(left.Num + right.Num)
		case ast.Sub:
			return ast.NewNum(left.Num - right.Num)
		case ast.Mul:
			return ast.NewNum(left.Num * right.Num)
		case ast.Div:
			if right.Num == 0 {
				panic(newRuntimeError(InvalidExpression, span.Line, span.Column, "division by zero"))
			}
			return ast.NewNum(left.Num / right.Num)
		case ast.Mod:
			if right.Num == 0 {
				panic(newRuntimeError(InvalidExpression, span.Line, span.Column, "modulo by zero"))
			}
			return ast.NewNum(left.Num % right.Num)
		case ast.Equal:
			return ast.NewBool(left.Num == right.Num)
		case ast.NotEq:
			return ast.NewBool(left.Num != right.Num)
		case ast.LessThan:
			return ast.NewBool(left.Num < right.Num)
		case ast.LessEq:
			return ast.NewBool(left.Num <= right.Num)
		case ast.LargerThan:
			return ast.NewBool(left.Num > right.Num)
		case ast.LargerEq:
			return ast.NewBool(left.Num >= right.Num)
		default:
			panic(newRuntimeError(TypeError, span.Line, span.Column, "operator "+op.String()+" is not valid for i32 operands"))
		}
	}
	panic(newRuntimeError(TypeError, span.Line, span.Column, "operand type mismatch"))
}

func (it *Interp) computeUnop(span ast.Span, op ast.Operator, right ast.Val) ast.Val {
	switch op {
	case ast.Sub:
		if right.IsBool() {
			panic(newRuntimeError(TypeError, span.Line, span.Column, "unary '-' expects an i32 operand"))
		}
		return ast.NewNum(-right.Num)
	case ast.Not:
		if !right.IsBool() {
			panic(newRuntimeError(TypeError, span.Line, span.Column, "unary '!' expects a bool operand"))
		}
		return ast.NewBool(!right.Bool)
	default:
		panic(newRuntimeError(TypeError, span.Line, span.Column, "unrecognized unary operator"))
	}
}
