package interpreter

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/moonlang/moon/compiler/lexer"
	"github.com/moonlang/moon/compiler/parser"
	"github.com/moonlang/moon/internal/environment"
	"github.com/moonlang/moon/internal/value"
)

// RuntimeError is a diagnostic raised while executing an AST, tied to
// the token that triggered it so the driver can report
// "message\n[line N]".
type RuntimeError struct {
	Token   lexer.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func runtimeErrorf(token lexer.Token, format string, args ...interface{}) error {
	return &RuntimeError{Token: token, Message: fmt.Sprintf(format, args...)}
}

// returnSignal unwinds a function call when a `return` statement
// executes. Using panic/recover for this, instead of a sentinel Value
// threaded through every statement's result the way the source did,
// keeps Stmt execution's return type a plain error.
type returnSignal struct {
	value value.Value
}

// Function is a user-defined function or method: its declaration, the
// environment it closes over, and whether it's a class's `init`
// (which always returns `this`, never the computed value).
type Function struct {
	Declaration   *parser.FunctionStmt
	Closure       *environment.Environment
	IsInitializer bool
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

func (f *Function) TypeName() string { return "function" }

// Bind returns a copy of f whose closure is a fresh child environment
// with `this` bound to instance. Each access to a method therefore
// gets its own environment instead of every bound copy sharing (and
// stomping on) one mutable environment.
func (f *Function) Bind(instance *Instance) *Function {
	env := environment.NewChild(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Call runs the function body in a fresh scope parameterized with the
// call arguments, returning the evaluated `return` value (or `this`
// for an initializer, or nil if the body falls off the end).
func (f *Function) Call(interp *Interpreter, arguments []value.Value) (result value.Value, err error) {
	callEnv := environment.NewChild(f.Closure)
	for i, param := range f.Declaration.Params {
		callEnv.Define(param.Lexeme, arguments[i])
	}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.IsInitializer {
				result, err = f.Closure.Get("this")
				return
			}
			result, err = sig.value, nil
		}
	}()

	if execErr := interp.executeBlock(f.Declaration.Body, callEnv); execErr != nil {
		return nil, execErr
	}

	if f.IsInitializer {
		return f.Closure.Get("this")
	}
	return nil, nil
}

// Class is a callable that, when invoked, allocates a new Instance and
// runs its init method (if any) against the call arguments.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function

	// id is a debug identity exposed only through DebugID; it plays
	// no part in equality or display.
	id uuid.UUID
}

// NewClass creates a Class with a fresh debug identity.
func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods, id: uuid.New()}
}

// FindMethod resolves a method by name, walking the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call allocates a new Instance and, if the class defines init, runs
// it against the call arguments before returning the instance.
func (c *Class) Call(interp *Interpreter, arguments []value.Value) (value.Value, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		bound := init.Bind(instance)
		if _, err := bound.Call(interp, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string    { return c.Name }
func (c *Class) TypeName() string  { return "class" }
func (c *Class) DebugID() string   { return c.id.String() }

// Instance is a runtime object created by calling a Class. Field
// lookups are resolved before methods: a field named the same as a
// method shadows it.
type Instance struct {
	Class  *Class
	Fields map[string]value.Value

	id uuid.UUID
}

// NewInstance allocates a new, fieldless Instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value), id: uuid.New()}
}

// Get resolves a property by name: a field if one is set, otherwise a
// method bound to this instance. The bool reports whether the
// property exists at all.
func (i *Instance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), true
	}
	return nil, false
}

// Set assigns a field on the instance, creating it if absent.
func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}

func (i *Instance) String() string   { return i.Class.Name + " instance" }
func (i *Instance) TypeName() string { return "instance" }
func (i *Instance) DebugID() string  { return i.id.String() }
