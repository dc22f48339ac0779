// Package environment implements the lexical scope chain moon's
// evaluator threads through every statement and expression.
package environment

import (
	"fmt"

	"github.com/moonlang/moon/internal/value"
)

// Environment is one scope: a map of bindings plus a pointer to the
// enclosing scope it falls back to on a miss. Block statements,
// function calls, and method bodies each introduce a child.
type Environment struct {
	enclosing *Environment
	values    map[string]value.Value
}

// New creates a top-level environment with no enclosing scope.
func New() *Environment {
	return &Environment{values: make(map[string]value.Value)}
}

// NewChild creates a scope enclosed by enclosing, the shape every block,
// call, and loop iteration uses to keep its bindings from leaking out.
func NewChild(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]value.Value)}
}

// Define creates or overwrites a binding in this scope. Re-declaring a
// `var` in the same scope is allowed, matching the REPL's need to
// redefine a top-level name across lines.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get resolves name, walking outward through enclosing scopes.
func (e *Environment) Get(name string) (value.Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, fmt.Errorf("Undefined variable: '%s'.", name)
}

// Assign updates an existing binding, walking outward through
// enclosing scopes. Unlike Define, it never creates a new binding —
// assigning to an undeclared name is a runtime error.
func (e *Environment) Assign(name string, v value.Value) error {
	if _, ok := e.values[name]; ok {
		e.values[name] = v
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, v)
	}
	return fmt.Errorf("Undefined variable: '%s'.", name)
}
