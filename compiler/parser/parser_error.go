package parser

import (
	"fmt"

	"github.com/moonlang/moon/compiler/lexer"
)

// ParseError is a single syntax error tied to the token that triggered
// it, so the driver can report "[line N] Error at '...': message".
type ParseError struct {
	Token   lexer.Token
	Message string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	where := fmt.Sprintf("at '%s'", e.Token.Lexeme)
	if e.Token.Type == lexer.EOF {
		where = "at end"
	}
	return fmt.Sprintf("[line %d] Error %s: %s", e.Token.Line, where, e.Message)
}

// ParseErrorList is a collection of parse errors accumulated across one
// call to Parse.
type ParseErrorList []ParseError

// Error implements the error interface for error lists.
func (el ParseErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// HasErrors reports whether any errors were collected.
func (el ParseErrorList) HasErrors() bool {
	return len(el) > 0
}
