package parser

import (
	"encoding/json"
	"fmt"

	"firstc/internal/ast"
)

// astPrinter implements ast.Visitor and builds a JSON-friendly
// representation of the AST using maps and slices, the same approach the
// teacher's parser.astPrinter takes.
type astPrinter struct{}

func (p astPrinter) VisitLiteral(lit ast.Literal) any {
	return map[string]any{"type": "Literal", "value": lit.Value.String()}
}

func (p astPrinter) VisitIdent(ident ast.Ident) any {
	return map[string]any{"type": "Ident", "name": ident.Name.String()}
}

func (p astPrinter) VisitParen(paren ast.Paren) any {
	return map[string]any{"type": "Paren", "inner": paren.Inner.Expr.Accept(p)}
}

func (p astPrinter) VisitUnary(unary ast.Unary) any {
	return map[string]any{"type": "Unary", "op": unary.Op.String(), "right": unary.Right.Expr.Accept(p)}
}

func (p astPrinter) VisitBinary(binary ast.Binary) any {
	return map[string]any{
		"type":  "Binary",
		"left":  binary.Left.Expr.Accept(p),
		"op":    binary.Op.String(),
		"right": binary.Right.Expr.Accept(p),
	}
}

func (p astPrinter) VisitCall(call ast.Call) any {
	args := make([]any, 0, len(call.Args))
	for _, a := range call.Args {
		args = append(args, a.Expr.Accept(p))
	}
	return map[string]any{"type": "Call", "callee": call.Callee.String(), "args": args}
}

func (p astPrinter) VisitLet(let ast.Let) any {
	return map[string]any{
		"type":    "Let",
		"mutable": let.Mutable,
		"name":    let.Name.String(),
		"init":    let.Init.Expr.Accept(p),
	}
}

func (p astPrinter) VisitAssign(assign ast.Assign) any {
	return map[string]any{"type": "Assign", "name": assign.Name.String(), "value": assign.Value.Expr.Accept(p)}
}

func (p astPrinter) VisitBlock(block ast.Block) any {
	stmts := make([]any, 0, len(block.Stmts))
	for _, s := range block.Stmts {
		stmts = append(stmts, s.Expr.Accept(p))
	}
	return map[string]any{"type": "Block", "stmts": stmts}
}

func (p astPrinter) VisitIf(stmt ast.If) any {
	result := map[string]any{
		"type": "If",
		"cond": stmt.Cond.Expr.Accept(p),
		"then": stmt.Then.Accept(p),
	}
	if stmt.Else != nil {
		result["else"] = stmt.Else.Accept(p)
	}
	return result
}

func (p astPrinter) VisitWhile(stmt ast.While) any {
	return map[string]any{"type": "While", "cond": stmt.Cond.Expr.Accept(p), "body": stmt.Body.Accept(p)}
}

func (p astPrinter) VisitReturn(stmt ast.Return) any {
	result := map[string]any{"type": "Return"}
	if stmt.Value != nil {
		result["value"] = stmt.Value.Expr.Accept(p)
	}
	return result
}

// PrintJSON renders file as an indented JSON document describing its AST.
func PrintJSON(file ast.File) (string, error) {
	printer := astPrinter{}
	items := make([]any, 0, len(file.Items))
	for _, item := range file.Items {
		fn, ok := item.(ast.Fn)
		if !ok {
			continue
		}
		params := make([]any, 0, len(fn.Params))
		for _, param := range fn.Params {
			params = append(params, map[string]any{
				"name":    param.Name.String(),
				"type":    param.Type.String(),
				"mutable": param.Mutable,
			})
		}
		items = append(items, map[string]any{
			"type":        "Fn",
			"name":        fn.Ident.String(),
			"params":      params,
			"return_type": fn.ReturnType.String(),
			"is_foreign":  fn.IsForeign,
			"body":        fn.Body.Accept(printer),
		})
	}

	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ast printer: %w", err)
	}
	return string(out), nil
}
