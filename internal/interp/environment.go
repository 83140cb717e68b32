package interp

import (
	"fmt"

	"firstc/internal/ast"
)

// Environment is a single lexical scope of variable bindings, chained to
// its parent the same way the teacher's interpreter.Environment is, except
// keyed by interned ast.Symbol rather than raw strings.
type Environment struct {
	parent *Environment
	values map[ast.Symbol]ast.Val
}

// NewEnvironment creates a scope nested inside parent. parent is nil for the
// outermost scope of a function call.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[ast.Symbol]ast.Val)}
}

// Define binds name to value in this scope, shadowing any outer binding.
func (env *Environment) Define(name ast.Symbol, value ast.Val) {
	env.values[name] = value
}

// Get resolves name by walking outward through enclosing scopes.
func (env *Environment) Get(name ast.Symbol, line int32, column int) (ast.Val, error) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.values[name]; ok {
			return v, nil
		}
	}
	return ast.Val{}, newRuntimeError(MemoryError, line, column, fmt.Sprintf("undefined variable: %s", name))
}

// Assign stores value into the nearest scope that already declares name.
func (env *Environment) Assign(name ast.Symbol, value ast.Val, line int32, column int) error {
	for e := env; e != nil; e = e.parent {
		if _, ok := e.values[name]; ok {
			e.values[name] = value
			return nil
		}
	}
	return newRuntimeError(MemoryError, line, column, fmt.Sprintf("undefined variable: %s", name))
}
