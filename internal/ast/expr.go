// expr.go contains the tagged-variant Expr node set described in spec.md §3.
// Every node implements Expr and dispatches through the Visitor design
// pattern, the same idiom internal/ast borrows from the teacher repo's
// visitor-based AST.
package ast

// Expr is the base interface for every expression node in the AST. Unlike a
// statement-oriented language, the source treats declarations, blocks, and
// control flow uniformly as expressions: a `let` evaluates to the unit
// placeholder, an `if` evaluates to whichever branch ran, and so on.
type Expr interface {
	Accept(v Visitor) any
}

// SpanExpr pairs a source Span with the Expr it annotates. Spans are purely
// diagnostic and never consulted by lowering or evaluation logic itself.
type SpanExpr struct {
	Span Span
	Expr Expr
}

// Visitor is implemented by the AST printer in internal/parser. The
// interpreter, the IR builder, and the checkers walk the Expr tree with type
// switches instead.
type Visitor interface {
	VisitLiteral(lit Literal) any
	VisitIdent(ident Ident) any
	VisitParen(paren Paren) any
	VisitUnary(unary Unary) any
	VisitBinary(binary Binary) any
	VisitCall(call Call) any
	VisitLet(let Let) any
	VisitAssign(assign Assign) any
	VisitBlock(block Block) any
	VisitIf(stmt If) any
	VisitWhile(stmt While) any
	VisitReturn(stmt Return) any
}

// Literal is an integer or boolean constant.
type Literal struct {
	Value Val
}

func (l Literal) Accept(v Visitor) any { return v.VisitLiteral(l) }

// Ident loads the current value bound to a name.
type Ident struct {
	Name Symbol
}

func (id Ident) Accept(v Visitor) any { return v.VisitIdent(id) }

// Paren is a parenthesized expression, kept distinct from its inner
// expression only so source spans for diagnostics stay precise.
type Paren struct {
	Inner SpanExpr
}

func (p Paren) Accept(v Visitor) any { return v.VisitParen(p) }

// Unary applies Sub (negation) or Not to Right.
type Unary struct {
	Op    Operator
	Right SpanExpr
}

func (u Unary) Accept(v Visitor) any { return v.VisitUnary(u) }

// Binary applies a binary Operator to Left and Right.
type Binary struct {
	Left  SpanExpr
	Op    Operator
	Right SpanExpr
}

func (b Binary) Accept(v Visitor) any { return v.VisitBinary(b) }

// Call invokes the function named Callee with Args evaluated left-to-right.
type Call struct {
	Callee Symbol
	Args   []SpanExpr
}

func (c Call) Accept(v Visitor) any { return v.VisitCall(c) }

// Let declares a local binding. Type is nil when the declaration relies on
// initializer inference; Init is always present — the grammar requires it.
type Let struct {
	Mutable bool
	Name    Symbol
	Type    *Type
	Init    SpanExpr
}

func (l Let) Accept(v Visitor) any { return v.VisitLet(l) }

// Assign stores a new value into an already-declared binding. The borrow
// checker, not the interpreter, is responsible for rejecting assignment to a
// binding that was not declared `mut`.
type Assign struct {
	Name  Symbol
	Value SpanExpr
}

func (a Assign) Accept(v Visitor) any { return v.VisitAssign(a) }

// Block is an ordered sequence of expressions evaluated for effect, with the
// value of the last expression (or the unit placeholder, if empty)
// propagating as the block's own value.
type Block struct {
	Stmts []SpanExpr
}

func (b Block) Accept(v Visitor) any { return v.VisitBlock(b) }

// If evaluates Then when Cond is true, otherwise Else (if present).
type If struct {
	Cond SpanExpr
	Then Block
	Else *Block
}

func (i If) Accept(v Visitor) any { return v.VisitIf(i) }

// While repeatedly evaluates Body while Cond holds.
type While struct {
	Cond SpanExpr
	Body Block
}

func (w While) Accept(v Visitor) any { return v.VisitWhile(w) }

// Return unwinds the current function call with an optional value.
type Return struct {
	Value *SpanExpr
}

func (r Return) Accept(v Visitor) any { return v.VisitReturn(r) }
