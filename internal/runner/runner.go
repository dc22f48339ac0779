// Package runner drives the scan -> parse -> interpret pipeline for
// both one-shot file execution and the interactive REPL, mirroring
// the reference driver's run/run_file/run_prompt split.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/moonlang/moon/compiler/lexer"
	"github.com/moonlang/moon/compiler/parser"
	"github.com/moonlang/moon/internal/diag"
	"github.com/moonlang/moon/internal/interpreter"
)

// Exit codes match the reference driver: 0 success, 64 usage error,
// 65 static (scan/parse) error, 70 runtime error.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
)

// Runner owns the interpreter instance that persists across REPL
// lines (so top-level `var`/`fun`/`class` declarations carry over)
// and the logger used for --verbose phase tracing.
type Runner struct {
	interp *interpreter.Interpreter
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
	prompt string
}

// New creates a Runner. log may be zap.NewNop() when verbose tracing
// is off; prompt is the REPL's line prefix (".moonrc.yaml"'s `prompt`
// key, or "> " by default).
func New(log *zap.Logger, prompt string) *Runner {
	return &Runner{
		interp: interpreter.New(),
		log:    log,
		stdout: os.Stdout,
		stderr: os.Stderr,
		prompt: prompt,
	}
}

// RunFile reads path, runs it, and returns the process exit code to
// use: 0 on success, 65 on a scan/parse error, 70 on a runtime error.
func (r *Runner) RunFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.stderr, "moon: can't read file '%s': %v\n", path, err)
		return ExitUsage
	}

	hadStaticError, hadRuntimeError := r.run(string(source))
	switch {
	case hadRuntimeError:
		return ExitSoftware
	case hadStaticError:
		return ExitDataErr
	default:
		return ExitOK
	}
}

// RunPrompt starts the REPL, printing the configured prompt ("> " by
// default) before each line and
// resetting the static-error flag between lines so a bad line doesn't
// poison the rest of the session.
func (r *Runner) RunPrompt() {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(r.stdout, r.prompt)
		if !scanner.Scan() {
			return
		}
		r.run(scanner.Text())
	}
}

// run scans, parses, and interprets source, reporting any diagnostics
// to stderr. It returns whether a static (scan/parse) error or a
// runtime error occurred.
func (r *Runner) run(source string) (hadStaticError, hadRuntimeError bool) {
	r.log.Debug("scanning")
	tokens, scanErrors := lexer.New(source).ScanTokens()
	for _, se := range scanErrors {
		diag.Report(r.stderr, diag.Diagnostic{Phase: diag.PhaseScan, Code: diag.CodeUnexpectedCharacter, Line: se.Line, Message: se.Message})
	}
	if len(scanErrors) > 0 {
		return true, false
	}

	r.log.Debug("parsing")
	statements, parseErrors := parser.New(tokens).Parse()
	for _, pe := range parseErrors {
		where := "at end"
		if pe.Token.Type != lexer.EOF {
			where = fmt.Sprintf("at '%s'", pe.Token.Lexeme)
		}
		diag.Report(r.stderr, diag.Diagnostic{Phase: diag.PhaseParse, Code: diag.CodeExpectExpression, Line: pe.Token.Line, Where: where, Message: pe.Message})
	}
	if len(parseErrors) > 0 {
		return true, false
	}

	r.log.Debug("interpreting", zap.Int("statements", len(statements)))
	if err := r.interp.Interpret(statements); err != nil {
		if rerr, ok := err.(*interpreter.RuntimeError); ok {
			diag.Report(r.stderr, diag.Diagnostic{Phase: diag.PhaseRuntime, Code: diag.CodeTypeMismatch, Line: rerr.Token.Line, Message: rerr.Message})
		} else {
			fmt.Fprintln(r.stderr, err)
		}
		return false, true
	}

	return false, false
}
