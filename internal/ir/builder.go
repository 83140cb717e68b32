package ir

import (
	"firstc/internal/ast"
)

// Program is the builder's output: the shared instruction vector plus the
// per-function BasicBlock table, keyed by the function's interned symbol.
type Program struct {
	Instructions []Instruction
	Functions    map[ast.Symbol]*BasicBlock
	Order        []ast.Symbol // emission order: main first, per spec.md §4.D
}

// Builder lowers a type/borrow-checked ast.File into a Program, following
// spec.md §4.C's per-function algorithm.
type Builder struct {
	prog       Program
	version    map[ast.Symbol]int
	identTypes map[Ident]Type
	labelN     int
	tempN      int
}

// Build lowers every function in file to IR. The caller must have already
// run typeck and borrowck to zero errors; Build does not re-validate.
func Build(file ast.File) Program {
	b := &Builder{
		prog: Program{
			Functions: make(map[ast.Symbol]*BasicBlock),
		},
	}

	var main *ast.Fn
	var rest []ast.Fn
	for _, item := range file.Items {
		fn, ok := item.(ast.Fn)
		if !ok {
			continue
		}
		// Register every function's signature before lowering any body,
		// so a call to a function declared later in the file still
		// resolves its return type during lowering.
		b.prog.Functions[fn.Ident] = &BasicBlock{
			ReturnType: FromAST(fn.ReturnType),
			IsForeign:  fn.IsForeign,
			ForeignAddr: fn.ForeignPtr,
		}
		if fn.Ident.String() == "main" {
			f := fn
			main = &f
			continue
		}
		rest = append(rest, fn)
	}

	if main != nil {
		b.buildFn(*main)
	}
	for _, fn := range rest {
		b.buildFn(fn)
	}

	return b.prog
}

func (b *Builder) emit(inst Instruction) int {
	b.prog.Instructions = append(b.prog.Instructions, inst)
	return len(b.prog.Instructions) - 1
}

func (b *Builder) freshLabel() Ident {
	b.labelN++
	return Ident{Symbol: ast.Intern("L"), Version: b.labelN}
}

func (b *Builder) freshTemp(ty Type) Ident {
	b.tempN++
	id := Ident{Symbol: ast.Intern("t"), Version: -b.tempN}
	b.setType(id, ty)
	return id
}

func (b *Builder) nextVersion(sym ast.Symbol) Ident {
	if b.version == nil {
		b.version = make(map[ast.Symbol]int)
	}
	b.version[sym]++
	return Ident{Symbol: sym, Version: b.version[sym]}
}

func (b *Builder) currentVersion(sym ast.Symbol) Ident {
	if b.version == nil {
		return Ident{Symbol: sym}
	}
	return Ident{Symbol: sym, Version: b.version[sym]}
}

func (b *Builder) setType(id Ident, ty Type) {
	if b.identTypes == nil {
		b.identTypes = make(map[Ident]Type)
	}
	b.identTypes[id] = ty
}

func (b *Builder) typeOf(id Ident) Type {
	if ty, ok := b.identTypes[id]; ok {
		return ty
	}
	return I32
}

func (b *Builder) buildFn(fn ast.Fn) {
	block := b.prog.Functions[fn.Ident]
	b.prog.Order = append(b.prog.Order, fn.Ident)

	if fn.IsForeign {
		return
	}

	b.version = make(map[ast.Symbol]int)
	enter := Ident{Symbol: fn.Ident}
	block.Enter = enter

	prologueIdx := b.emit(Instruction{
		Opcode: Prologue,
		Type:   block.ReturnType,
		Op1:    IdentOperand(enter),
		Span:   fn.Span,
	})
	block.PrologueIndex = prologueIdx

	for _, p := range fn.Params {
		ty := FromAST(p.Type)
		id := b.nextVersion(p.Name)
		b.setType(id, ty)
		b.emit(Instruction{Opcode: Param, Type: ty, Op1: IdentOperand(id)})
	}

	b.lowerFnBody(fn.Body, block.ReturnType)

	exit := b.freshLabel()
	block.Exit = exit
	epilogueIdx := b.emit(Instruction{Opcode: Epilogue, Op1: IdentOperand(exit)})
	block.EpilogueIndex = epilogueIdx
}

func (b *Builder) lowerBlock(block ast.Block) {
	for _, stmt := range block.Stmts {
		b.lowerStmt(stmt)
	}
}

// lowerFnBody lowers a function body whose final statement is in tail
// position: typeck.go's checkBlock and interp.go's evalBlock both treat a
// block's last expression as its value with no explicit `return` required,
// so the IR builder has to agree or the x86 backend returns whatever is
// incidentally left in RAX instead of the tail value.
func (b *Builder) lowerFnBody(body ast.Block, retTy Type) {
	if len(body.Stmts) == 0 {
		b.emit(Instruction{Opcode: Return, Op1: ValueOperand(Value{Type: retTy, Num: 0})})
		return
	}
	for i, stmt := range body.Stmts {
		if i < len(body.Stmts)-1 {
			b.lowerStmt(stmt)
			continue
		}
		b.lowerFnTail(stmt, retTy)
	}
}

// lowerFnTail lowers the function body's final statement and makes sure a
// Return instruction carrying its value is always emitted: an explicit
// Return already does that on its own; an If propagates its value out of
// both arms into a temp that becomes the Return operand (tailTarget,
// below); anything else is lowered and returned directly.
func (b *Builder) lowerFnTail(se ast.SpanExpr, retTy Type) {
	switch e := se.Expr.(type) {
	case ast.Return:
		b.lowerStmt(se)
	case ast.If:
		dest := b.freshTemp(retTy)
		b.emit(Instruction{Opcode: Alloca, Type: retTy, Op1: IdentOperand(dest)})
		b.lowerIf(se.Span, e, &tailTarget{dest: dest})
		b.emit(Instruction{Opcode: Return, Op1: IdentOperand(dest), Span: se.Span})
	default:
		val, _ := b.lowerExpr(se)
		b.emit(Instruction{Opcode: Return, Op1: val, Span: se.Span})
	}
}

// tailTarget names the identifier a control-flow expression's arms must
// all write their value into when that expression is itself in value
// position (a function body's tail statement, or a nested use inside
// lowerExpr).
type tailTarget struct{ dest Ident }

// lowerStmt lowers a single top-level statement expression for effect,
// discarding its value except for the terminators that need it.
func (b *Builder) lowerStmt(se ast.SpanExpr) {
	switch e := se.Expr.(type) {
	case ast.Let:
		ty := FromAST(inferType(e))
		tmp, _ := b.lowerExpr(e.Init)
		dest := b.nextVersion(e.Name)
		b.setType(dest, ty)
		b.emit(Instruction{Opcode: Alloca, Type: ty, Op1: IdentOperand(dest)})
		b.emit(Instruction{Opcode: Copy, Type: ty, Op1: IdentOperand(dest), Op2: tmp, Span: se.Span})

	case ast.If:
		b.lowerIf(se.Span, e, nil)

	case ast.While:
		b.lowerWhile(se.Span, e)

	case ast.Return:
		var val Operand
		if e.Value != nil {
			val, _ = b.lowerExpr(*e.Value)
		} else {
			val = ValueOperand(Value{Type: I32, Num: 0})
		}
		b.emit(Instruction{Opcode: Return, Op1: val, Span: se.Span})

	default:
		b.lowerExpr(se)
	}
}

// lowerIf lowers an if/else. When tail is non-nil, both arms write their
// value into tail.dest (an else-less arm defaults to 0, matching typeck.go's
// checkBlock on an empty block) and the type actually produced is returned
// so the caller can correct tail.dest's recorded type; when tail is nil,
// both arms are lowered purely for effect, as before.
func (b *Builder) lowerIf(span ast.Span, e ast.If, tail *tailTarget) Type {
	cond, _ := b.lowerExpr(e.Cond)
	elseLabel := b.freshLabel()
	endLabel := b.freshLabel()
	resultTy := I32

	b.emit(Instruction{Opcode: IfFalse, Op1: cond, Op2: IdentOperand(elseLabel), Span: span})
	if tail != nil {
		if ty, ok := b.lowerTailBlock(e.Then, tail); ok {
			resultTy = ty
		}
	} else {
		b.lowerBlock(e.Then)
	}
	b.emit(Instruction{Opcode: Jump, Op1: IdentOperand(endLabel)})
	b.emit(Instruction{Opcode: Label, Op1: IdentOperand(elseLabel)})
	if e.Else != nil {
		if tail != nil {
			if ty, ok := b.lowerTailBlock(*e.Else, tail); ok {
				resultTy = ty
			}
		} else {
			b.lowerBlock(*e.Else)
		}
	} else if tail != nil {
		b.emit(Instruction{Opcode: Copy, Type: resultTy, Op1: IdentOperand(tail.dest),
			Op2: ValueOperand(Value{Type: resultTy, Num: 0}), Span: span})
	}
	b.emit(Instruction{Opcode: Label, Op1: IdentOperand(endLabel)})

	if tail != nil {
		b.setType(tail.dest, resultTy)
	}
	return resultTy
}

// lowerTailBlock lowers block's statements, treating the last one as the
// block's value per typeck.go's checkBlock/interp.go's evalBlock: an
// explicit Return inside it keeps terminating the function on its own (so
// it contributes no type of its own — the ok result is false, and the
// caller keeps whatever the other arm produced); a nested If propagates its
// own arms into the same tail.dest; anything else has its value copied into
// tail.dest. An empty block's value defaults to 0 (typeck.go's checkBlock
// does the same for an empty block).
func (b *Builder) lowerTailBlock(block ast.Block, tail *tailTarget) (Type, bool) {
	ty, ok := I32, true
	for i, stmt := range block.Stmts {
		if i < len(block.Stmts)-1 {
			b.lowerStmt(stmt)
			continue
		}
		ty, ok = b.lowerTailStmt(stmt, tail)
	}
	if len(block.Stmts) == 0 {
		b.emit(Instruction{Opcode: Copy, Type: ty, Op1: IdentOperand(tail.dest), Op2: ValueOperand(Value{Type: ty, Num: 0})})
	}
	return ty, ok
}

func (b *Builder) lowerTailStmt(se ast.SpanExpr, tail *tailTarget) (Type, bool) {
	switch e := se.Expr.(type) {
	case ast.Return:
		b.lowerStmt(se)
		return I32, false
	case ast.If:
		return b.lowerIf(se.Span, e, tail), true
	default:
		val, ty := b.lowerExpr(se)
		b.emit(Instruction{Opcode: Copy, Type: ty, Op1: IdentOperand(tail.dest), Op2: val, Span: se.Span})
		return ty, true
	}
}

func (b *Builder) lowerWhile(span ast.Span, e ast.While) {
	head := b.freshLabel()
	exit := b.freshLabel()

	b.emit(Instruction{Opcode: Label, Op1: IdentOperand(head)})
	cond, _ := b.lowerExpr(e.Cond)
	b.emit(Instruction{Opcode: IfFalse, Op1: cond, Op2: IdentOperand(exit), Span: span})
	b.lowerBlock(e.Body)
	b.emit(Instruction{Opcode: Jump, Op1: IdentOperand(head)})
	b.emit(Instruction{Opcode: Label, Op1: IdentOperand(exit)})
}

// lowerExpr lowers e into zero or more instructions and returns the operand
// holding its value (either a constant Value or the Ident it was copied
// into) together with that value's IR type.
func (b *Builder) lowerExpr(se ast.SpanExpr) (Operand, Type) {
	switch e := se.Expr.(type) {
	case ast.Literal:
		if e.Value.IsBool() {
			n := int64(0)
			if e.Value.Bool {
				n = 1
			}
			return ValueOperand(Value{Type: Bool, Num: n}), Bool
		}
		return ValueOperand(Value{Type: I32, Num: int64(e.Value.Num)}), I32

	case ast.Ident:
		id := b.currentVersion(e.Name)
		return IdentOperand(id), b.typeOf(id)

	case ast.Paren:
		return b.lowerExpr(e.Inner)

	case ast.Unary:
		right, rty := b.lowerExpr(e.Right)
		// Neither negation nor logical-not has a dedicated opcode; both
		// reuse the three-operand binary form: `0 - right` for Sub,
		// `right XOR true` for Not.
		if e.Op == ast.Not {
			dest := b.freshTemp(Bool)
			b.emit(Instruction{Opcode: Xor, Type: Bool, Op1: IdentOperand(dest), Op2: right, Op3: ValueOperand(Value{Type: Bool, Num: 1}), Span: se.Span})
			return IdentOperand(dest), Bool
		}
		dest := b.freshTemp(rty)
		b.emit(Instruction{Opcode: Sub, Type: rty, Op1: IdentOperand(dest), Op2: ValueOperand(Value{Type: rty, Num: 0}), Op3: right, Span: se.Span})
		return IdentOperand(dest), rty

	case ast.Binary:
		left, lty := b.lowerExpr(e.Left)
		right, _ := b.lowerExpr(e.Right)
		opcode := BinopFromAST(e.Op)
		resultTy := lty
		if isComparison(opcode) {
			resultTy = Bool
		}
		dest := b.freshTemp(resultTy)
		b.emit(Instruction{Opcode: opcode, Type: lty, Op1: IdentOperand(dest), Op2: left, Op3: right, Span: se.Span})
		return IdentOperand(dest), resultTy

	case ast.Call:
		args := make([]Operand, len(e.Args))
		for i, a := range e.Args {
			args[i], _ = b.lowerExpr(a)
		}
		retTy := FromAST(b.calleeReturnType(e.Callee))
		dest := b.freshTemp(retTy)
		b.emit(Instruction{
			Opcode: Call,
			Type:   retTy,
			Op1:    IdentOperand(dest),
			Op2:    IdentOperand(Ident{Symbol: e.Callee}),
			Args:   args,
			Span:   se.Span,
		})
		return IdentOperand(dest), retTy

	case ast.Assign:
		val, vty := b.lowerExpr(e.Value)
		dest := b.currentVersion(e.Name)
		b.emit(Instruction{Opcode: Copy, Type: vty, Op1: IdentOperand(dest), Op2: val, Span: se.Span})
		return IdentOperand(dest), vty

	case ast.Block:
		var last Operand = ValueOperand(Value{Type: I32, Num: 0})
		lastTy := I32
		for i, stmt := range e.Stmts {
			if i == len(e.Stmts)-1 {
				last, lastTy = b.lowerExpr(stmt)
			} else {
				b.lowerStmt(stmt)
			}
		}
		return last, lastTy

	case ast.If:
		// The dest's Alloca is emitted with a conservative I32 width up
		// front (I32 is never narrower than Bool, the only other type an
		// if-expression can produce); lowerIf corrects the recorded type
		// once the arms are actually lowered, which only affects register
		// width, not the (always sufficient) reserved stack slot size.
		dest := b.freshTemp(I32)
		b.emit(Instruction{Opcode: Alloca, Type: I32, Op1: IdentOperand(dest)})
		ty := b.lowerIf(se.Span, e, &tailTarget{dest: dest})
		return IdentOperand(dest), ty

	case ast.Let, ast.While, ast.Return:
		b.lowerStmt(se)
		return ValueOperand(Value{Type: I32, Num: 0}), I32

	default:
		return NoOperand, None
	}
}

func isComparison(op Opcode) bool {
	switch op {
	case Lt, Le, Gt, Ge, Eq, Ne:
		return true
	default:
		return false
	}
}

// calleeReturnType is a best-effort lookup used only to size the Call
// instruction's temporary; typeck has already verified the call is to a
// declared function with this return type.
func (b *Builder) calleeReturnType(callee ast.Symbol) ast.Type {
	if bb, ok := b.prog.Functions[callee]; ok {
		switch bb.ReturnType {
		case Bool:
			return ast.TypeBool
		default:
			return ast.TypeI32
		}
	}
	return ast.TypeI32
}

// inferType recovers the static type of a let binding from its annotation
// or, absent one, from its initializer's literal shape. The type/borrow
// gates have already guaranteed consistency by the time lowering runs.
func inferType(let ast.Let) ast.Type {
	if let.Type != nil {
		return *let.Type
	}
	if lit, ok := let.Init.Expr.(ast.Literal); ok && lit.Value.IsBool() {
		return ast.TypeBool
	}
	return ast.TypeI32
}
