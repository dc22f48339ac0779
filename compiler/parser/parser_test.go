package parser

import (
	"testing"

	"github.com/moonlang/moon/compiler/lexer"
)

func parse(t *testing.T, source string) ([]Stmt, []ParseError) {
	t.Helper()
	tokens, scanErrs := lexer.New(source).ScanTokens()
	if len(scanErrs) > 0 {
		t.Fatalf("unexpected scan errors: %v", scanErrs)
	}
	return New(tokens).Parse()
}

func TestVarDeclaration(t *testing.T) {
	stmts, errs := parse(t, `var x = 1 + 2;`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	v, ok := stmts[0].(*VarStmt)
	if !ok {
		t.Fatalf("expected *VarStmt, got %T", stmts[0])
	}
	if v.Name.Lexeme != "x" {
		t.Errorf("expected name x, got %s", v.Name.Lexeme)
	}
	if _, ok := v.Initializer.(*BinaryExpr); !ok {
		t.Errorf("expected BinaryExpr initializer, got %T", v.Initializer)
	}
}

func TestVarDeclarationWithoutInitializer(t *testing.T) {
	stmts, errs := parse(t, `var x;`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	v := stmts[0].(*VarStmt)
	if _, ok := v.Initializer.(*NoOpExpr); !ok {
		t.Errorf("expected NoOpExpr initializer, got %T", v.Initializer)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3), not (1 + 2) * 3.
	stmts, errs := parse(t, `1 + 2 * 3;`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	exprStmt := stmts[0].(*ExpressionStmt)
	top := exprStmt.Expression.(*BinaryExpr)
	if top.Operator.Type != lexer.Plus {
		t.Fatalf("expected top-level Plus, got %v", top.Operator.Type)
	}
	right := top.Right.(*BinaryExpr)
	if right.Operator.Type != lexer.Star {
		t.Fatalf("expected right-hand Star, got %v", right.Operator.Type)
	}
}

func TestIfElse(t *testing.T) {
	stmts, errs := parse(t, `if (true) print 1; else print 2;`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	ifStmt := stmts[0].(*IfStmt)
	if ifStmt.ElseBranch == nil {
		t.Fatal("expected else branch")
	}
}

func TestWhileLoop(t *testing.T) {
	stmts, errs := parse(t, `while (x < 10) { x = x + 1; }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := stmts[0].(*WhileStmt); !ok {
		t.Fatalf("expected *WhileStmt, got %T", stmts[0])
	}
}

func TestForDesugarsToWhile(t *testing.T) {
	stmts, errs := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	block := stmts[0].(*BlockStmt)
	if len(block.Statements) != 2 {
		t.Fatalf("expected initializer + while, got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*VarStmt); !ok {
		t.Errorf("expected first statement to be the initializer, got %T", block.Statements[0])
	}
	whileStmt, ok := block.Statements[1].(*WhileStmt)
	if !ok {
		t.Fatalf("expected second statement to be *WhileStmt, got %T", block.Statements[1])
	}
	loopBody := whileStmt.Body.(*BlockStmt)
	if len(loopBody.Statements) != 2 {
		t.Fatalf("expected body + increment, got %d statements", len(loopBody.Statements))
	}
}

func TestFunctionDeclaration(t *testing.T) {
	stmts, errs := parse(t, `fun add(a, b) { return a + b; }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := stmts[0].(*FunctionStmt)
	if fn.Name.Lexeme != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}

func TestClassWithSuperclass(t *testing.T) {
	stmts, errs := parse(t, `
		class Animal { speak() { print "..."; } }
		class Dog < Animal { speak() { print "Woof"; } }
	`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	dog := stmts[1].(*ClassDeclStmt)
	if dog.Superclass == nil || dog.Superclass.Name.Lexeme != "Animal" {
		t.Fatalf("expected Dog < Animal, got %+v", dog.Superclass)
	}
}

func TestClassInheritingFromItselfIsAnError(t *testing.T) {
	_, errs := parse(t, `class Oops < Oops {}`)
	if len(errs) == 0 {
		t.Fatal("expected an error for a class inheriting from itself")
	}
}

func TestThisOutsideClassIsAParseError(t *testing.T) {
	_, errs := parse(t, `print this;`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestSuperOutsideClassIsAParseError(t *testing.T) {
	_, errs := parse(t, `print super.foo();`)
	if len(errs) == 0 {
		t.Fatal("expected an error for 'super' outside a class")
	}
}

func TestSuperInClassWithNoSuperclassIsAParseError(t *testing.T) {
	_, errs := parse(t, `class A { m() { return super.m(); } }`)
	if len(errs) == 0 {
		t.Fatal("expected an error for 'super' with no superclass")
	}
}

func TestReturnValueFromInitializerIsAParseError(t *testing.T) {
	_, errs := parse(t, `class A { init() { return 1; } }`)
	if len(errs) == 0 {
		t.Fatal("expected an error for returning a value from init")
	}
}

func TestBareReturnFromInitializerIsAllowed(t *testing.T) {
	_, errs := parse(t, `class A { init() { return; } }`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestInvalidAssignmentTargetIsAnError(t *testing.T) {
	_, errs := parse(t, `1 + 2 = 3;`)
	if len(errs) == 0 {
		t.Fatal("expected an error for an invalid assignment target")
	}
}

func TestSynchronizeRecoversAtNextStatement(t *testing.T) {
	stmts, errs := parse(t, `var x = ; var y = 2;`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	// synchronize() should have recovered in time to still parse `y`.
	found := false
	for _, s := range stmts {
		if v, ok := s.(*VarStmt); ok && v.Name.Lexeme == "y" {
			found = true
		}
	}
	if !found {
		t.Error("expected parser to recover and parse the following declaration")
	}
}

func TestParseErrorFormat(t *testing.T) {
	_, errs := parse(t, `var;`)
	if len(errs) == 0 {
		t.Fatal("expected an error")
	}
	got := errs[0].Error()
	want := "[line 1] Error at ';': Expect variable name."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetAndSetExpressions(t *testing.T) {
	stmts, errs := parse(t, `a.b.c = 1;`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	exprStmt := stmts[0].(*ExpressionStmt)
	set := exprStmt.Expression.(*SetExpr)
	if set.Name.Lexeme != "c" {
		t.Fatalf("expected set target c, got %s", set.Name.Lexeme)
	}
	if _, ok := set.Object.(*GetExpr); !ok {
		t.Fatalf("expected nested GetExpr object, got %T", set.Object)
	}
}

func TestCallExpression(t *testing.T) {
	stmts, errs := parse(t, `foo(1, 2, 3);`)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	call := stmts[0].(*ExpressionStmt).Expression.(*CallExpr)
	if len(call.Arguments) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(call.Arguments))
	}
}
