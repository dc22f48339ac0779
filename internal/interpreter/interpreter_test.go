package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonlang/moon/compiler/lexer"
	"github.com/moonlang/moon/compiler/parser"
)

// run scans, parses, and interprets source, returning everything
// written via `print` and the run's error (nil on success).
func run(t *testing.T, source string) (string, error) {
	t.Helper()

	tokens, scanErrs := lexer.New(source).ScanTokens()
	require.Empty(t, scanErrs, "unexpected scan errors")

	statements, parseErrs := parser.New(tokens).Parse()
	require.Empty(t, parseErrs, "unexpected parse errors")

	var buf bytes.Buffer
	interp := New()
	interp.SetOutput(&buf)

	err := interp.Interpret(statements)
	return buf.String(), err
}

func TestArithmeticPrecedenceScenario(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "\"foobar\"\n", out)
}

func TestExpressionStatementDoesNotPrint(t *testing.T) {
	out, err := run(t, `1 + 2;`)
	require.NoError(t, err)
	assert.Empty(t, out, "a bare expression statement must not write to stdout")
}

func TestVariablesAndAssignment(t *testing.T) {
	out, err := run(t, `
		var a = 1;
		a = a + 1;
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestClosures(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestIfElseBranching(t *testing.T) {
	out, err := run(t, `
		if (1 < 2) { print "yes"; } else { print "no"; }
	`)
	require.NoError(t, err)
	assert.Equal(t, "\"yes\"\n", out)
}

func TestWhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestLogicalShortCircuit(t *testing.T) {
	out, err := run(t, `
		fun sideEffect() { print "called"; return true; }
		print false and sideEffect();
		print true or sideEffect();
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\ntrue\n", out)
}

func TestClassesAndMethods(t *testing.T) {
	out, err := run(t, `
		class Greeter {
			init(name) { this.name = name; }
			greet() { print "Hello, " + this.name; }
		}
		var g = Greeter("world");
		g.greet();
	`)
	require.NoError(t, err)
	assert.Equal(t, "\"Hello, world\"\n", out)
}

func TestInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			speak() { print "..."; }
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "Woof";
			}
		}
		Dog().speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "\"...\"\n\"Woof\"\n", out)
}

func TestFieldsShadowMethods(t *testing.T) {
	out, err := run(t, `
		class Box {
			value() { return "method"; }
		}
		var b = Box();
		b.value = "field";
		print b.value;
	`)
	require.NoError(t, err)
	assert.Equal(t, "\"field\"\n", out)
}

func TestClockIsRegisteredAndCallable(t *testing.T) {
	out, err := run(t, `print clock() > 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestRuntimeTypeMismatchError(t *testing.T) {
	_, err := run(t, `print 1 + "two";`)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rerr.Message, "Operands must be two numbers or two strings.")
	assert.True(t, strings.HasSuffix(rerr.Error(), "[line 1]"))
}

func TestUndefinedVariableRuntimeError(t *testing.T) {
	_, err := run(t, `print undeclared;`)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, "Undefined variable: 'undeclared'.", rerr.Message)
}

func TestDivisionByZeroIsARuntimeError(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, "Cannot divide by zero.", rerr.Message)
}

func TestEqualityIsNotInverted(t *testing.T) {
	out, err := run(t, `
		print 1 == 1;
		print 1 != 1;
		print 1 == 2;
		print 1 != 2;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\nfalse\ntrue\n", out)
}

func TestCallingANonCallableIsARuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, "Can only call functions and classes.", rerr.Message)
}

func TestWrongArityIsARuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, "Expected 2 arguments but got 1.", rerr.Message)
}
