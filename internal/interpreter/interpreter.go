// Package interpreter tree-walks a moon AST, evaluating expressions
// and executing statements against a chain of lexical environments.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/moonlang/moon/compiler/lexer"
	"github.com/moonlang/moon/compiler/parser"
	"github.com/moonlang/moon/internal/environment"
	"github.com/moonlang/moon/internal/value"
)

// callable is the invocation contract every callable runtime value
// satisfies: native functions, user functions/methods, and classes.
type callable interface {
	Arity() int
	String() string
	Call(*Interpreter, []value.Value) (value.Value, error)
}

// NativeFunction wraps a Go closure as a callable moon value, used for
// builtins such as clock().
type NativeFunction struct {
	ArityValue int
	Name       string
	Fn         func(arguments []value.Value) (value.Value, error)
}

func (n *NativeFunction) Arity() int       { return n.ArityValue }
func (n *NativeFunction) String() string   { return "<native fn>" }
func (n *NativeFunction) TypeName() string { return "function" }

func (n *NativeFunction) Call(_ *Interpreter, arguments []value.Value) (value.Value, error) {
	return n.Fn(arguments)
}

// Interpreter evaluates statements in the context of a global
// environment seeded with moon's builtins.
type Interpreter struct {
	globals *environment.Environment
	out     io.Writer
}

// New creates an Interpreter with a fresh global scope, registering
// clock() the way moon's reference implementation does.
func New() *Interpreter {
	globals := environment.New()
	globals.Define("clock", &NativeFunction{
		Name: "clock",
		Fn: func(_ []value.Value) (value.Value, error) {
			return float64(time.Now().UnixNano()) / 1e9, nil
		},
	})
	return &Interpreter{globals: globals, out: os.Stdout}
}

// SetOutput redirects where `print` writes, used by tests to capture
// output without touching the real stdout.
func (interp *Interpreter) SetOutput(w io.Writer) {
	interp.out = w
}

// Interpret executes a parsed program's statements against the global
// environment, stopping at the first runtime error. A `return` that
// reaches the top level ends the run without an error; its value is
// discarded.
func (interp *Interpreter) Interpret(statements []parser.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(returnSignal); !ok {
				panic(r)
			}
			err = nil
		}
	}()

	for _, stmt := range statements {
		if err := interp.execute(stmt, interp.globals); err != nil {
			return err
		}
	}
	return nil
}

// execute runs a single statement in env.
func (interp *Interpreter) execute(stmt parser.Stmt, env *environment.Environment) error {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := interp.eval(s.Expression, env)
		return err

	case *parser.PrintStmt:
		v, err := interp.eval(s.Expression, env)
		if err != nil {
			return err
		}
		fmt.Fprintln(interp.out, value.Display(v))
		return nil

	case *parser.VarStmt:
		v, err := interp.eval(s.Initializer, env)
		if err != nil {
			return err
		}
		env.Define(s.Name.Lexeme, v)
		return nil

	case *parser.BlockStmt:
		return interp.executeBlock(s.Statements, environment.NewChild(env))

	case *parser.IfStmt:
		cond, err := interp.eval(s.Condition, env)
		if err != nil {
			return err
		}
		if value.IsTruthy(cond) {
			return interp.execute(s.ThenBranch, env)
		}
		if s.ElseBranch != nil {
			return interp.execute(s.ElseBranch, env)
		}
		return nil

	case *parser.WhileStmt:
		for {
			cond, err := interp.eval(s.Condition, env)
			if err != nil {
				return err
			}
			if !value.IsTruthy(cond) {
				return nil
			}
			if err := interp.execute(s.Body, env); err != nil {
				return err
			}
		}

	case *parser.FunctionStmt:
		fn := &Function{Declaration: s, Closure: env}
		env.Define(s.Name.Lexeme, fn)
		return nil

	case *parser.ReturnStmt:
		v, err := interp.eval(s.Value, env)
		if err != nil {
			return err
		}
		panic(returnSignal{value: v})

	case *parser.ClassDeclStmt:
		return interp.executeClassDecl(s, env)

	default:
		return fmt.Errorf("interpreter: unhandled statement type %T", stmt)
	}
}

// executeBlock runs statements in env, the scope the caller has
// already created (a new child for a `{}` block, or a call's
// parameter scope for a function body).
func (interp *Interpreter) executeBlock(statements []parser.Stmt, env *environment.Environment) error {
	for _, stmt := range statements {
		if err := interp.execute(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) executeClassDecl(s *parser.ClassDeclStmt, env *environment.Environment) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := env.Get(s.Superclass.Name.Lexeme)
		if err != nil {
			return runtimeErrorf(s.Superclass.Name, "Undefined variable: '%s'.", s.Superclass.Name.Lexeme)
		}
		sc, ok := v.(*Class)
		if !ok {
			return runtimeErrorf(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	env.Define(s.Name.Lexeme, nil)

	methodEnv := env
	if superclass != nil {
		methodEnv = environment.NewChild(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Declaration:   m,
			Closure:       methodEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	return env.Assign(s.Name.Lexeme, class)
}

// eval evaluates an expression in env.
func (interp *Interpreter) eval(expr parser.Expr, env *environment.Environment) (value.Value, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return e.Value, nil

	case *parser.NoOpExpr:
		return nil, nil

	case *parser.GroupingExpr:
		return interp.eval(e.Expression, env)

	case *parser.UnaryExpr:
		return interp.evalUnary(e, env)

	case *parser.BinaryExpr:
		return interp.evalBinary(e, env)

	case *parser.LogicalExpr:
		return interp.evalLogical(e, env)

	case *parser.VariableExpr:
		v, err := env.Get(e.Name.Lexeme)
		if err != nil {
			return nil, runtimeErrorf(e.Name, "%s", err.Error())
		}
		return v, nil

	case *parser.AssignExpr:
		v, err := interp.eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(e.Name.Lexeme, v); err != nil {
			return nil, runtimeErrorf(e.Name, "%s", err.Error())
		}
		return v, nil

	case *parser.CallExpr:
		return interp.evalCall(e, env)

	case *parser.GetExpr:
		return interp.evalGet(e, env)

	case *parser.SetExpr:
		return interp.evalSet(e, env)

	case *parser.ThisExpr:
		v, err := env.Get("this")
		if err != nil {
			return nil, runtimeErrorf(e.Keyword, "%s", err.Error())
		}
		return v, nil

	case *parser.SuperExpr:
		return interp.evalSuper(e, env)

	default:
		return nil, fmt.Errorf("interpreter: unhandled expression type %T", expr)
	}
}

func (interp *Interpreter) evalUnary(e *parser.UnaryExpr, env *environment.Environment) (value.Value, error) {
	right, err := interp.eval(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.Minus:
		n, ok := right.(float64)
		if !ok {
			return nil, runtimeErrorf(e.Operator, "Operand must be a number.")
		}
		return -n, nil
	case lexer.Bang:
		return !value.IsTruthy(right), nil
	default:
		return nil, runtimeErrorf(e.Operator, "Unknown unary operator.")
	}
}

func (interp *Interpreter) evalBinary(e *parser.BinaryExpr, env *environment.Environment) (value.Value, error) {
	left, err := interp.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := interp.eval(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.BangEqual:
		return !value.Equal(left, right), nil
	case lexer.EqualEqual:
		return value.Equal(left, right), nil

	case lexer.Greater, lexer.GreaterEqual, lexer.Less, lexer.LessEqual:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, runtimeErrorf(e.Operator, "Operands must be numbers.")
		}
		switch e.Operator.Type {
		case lexer.Greater:
			return ln > rn, nil
		case lexer.GreaterEqual:
			return ln >= rn, nil
		case lexer.Less:
			return ln < rn, nil
		default:
			return ln <= rn, nil
		}

	case lexer.Minus:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, runtimeErrorf(e.Operator, "Operands must be numbers.")
		}
		return ln - rn, nil

	case lexer.Plus:
		if ln, lok := left.(float64); lok {
			if rn, rok := right.(float64); rok {
				return ln + rn, nil
			}
		}
		if ls, lok := left.(string); lok {
			if rs, rok := right.(string); rok {
				return ls + rs, nil
			}
		}
		return nil, runtimeErrorf(e.Operator, "Operands must be two numbers or two strings.")

	case lexer.Slash:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, runtimeErrorf(e.Operator, "Operands must be numbers.")
		}
		if rn == 0 {
			return nil, runtimeErrorf(e.Operator, "Cannot divide by zero.")
		}
		return ln / rn, nil

	case lexer.Star:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, runtimeErrorf(e.Operator, "Operands must be numbers.")
		}
		return ln * rn, nil

	default:
		return nil, runtimeErrorf(e.Operator, "Unknown operator.")
	}
}

func (interp *Interpreter) evalLogical(e *parser.LogicalExpr, env *environment.Environment) (value.Value, error) {
	left, err := interp.eval(e.Left, env)
	if err != nil {
		return nil, err
	}

	if e.Operator.Type == lexer.Or {
		if value.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !value.IsTruthy(left) {
			return left, nil
		}
	}

	return interp.eval(e.Right, env)
}

func (interp *Interpreter) evalCall(e *parser.CallExpr, env *environment.Environment) (value.Value, error) {
	callee, err := interp.eval(e.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := interp.eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(callable)
	if !ok {
		return nil, runtimeErrorf(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErrorf(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	return fn.Call(interp, args)
}

func (interp *Interpreter) evalGet(e *parser.GetExpr, env *environment.Environment) (value.Value, error) {
	obj, err := interp.eval(e.Object, env)
	if err != nil {
		return nil, err
	}

	instance, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeErrorf(e.Name, "Only instances have properties.")
	}

	v, found := instance.Get(e.Name.Lexeme)
	if !found {
		return nil, runtimeErrorf(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return v, nil
}

func (interp *Interpreter) evalSet(e *parser.SetExpr, env *environment.Environment) (value.Value, error) {
	obj, err := interp.eval(e.Object, env)
	if err != nil {
		return nil, err
	}

	instance, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeErrorf(e.Name, "Only instances have fields.")
	}

	v, err := interp.eval(e.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, v)
	return v, nil
}

func (interp *Interpreter) evalSuper(e *parser.SuperExpr, env *environment.Environment) (value.Value, error) {
	v, err := env.Get("super")
	if err != nil {
		return nil, runtimeErrorf(e.Keyword, "%s", err.Error())
	}
	superclass, ok := v.(*Class)
	if !ok {
		return nil, runtimeErrorf(e.Keyword, "Superclass must be a class.")
	}

	thisVal, err := env.Get("this")
	if err != nil {
		return nil, runtimeErrorf(e.Keyword, "%s", err.Error())
	}
	instance, ok := thisVal.(*Instance)
	if !ok {
		return nil, runtimeErrorf(e.Keyword, "'this' is not an instance.")
	}

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, runtimeErrorf(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
