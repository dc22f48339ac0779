package parser

import (
	"fmt"

	"github.com/moonlang/moon/compiler/lexer"
)

const maxArguments = 255

// Parser transforms a token stream into an AST via recursive descent
// with panic-mode error recovery. It never panics past Parse; errors
// are collected and synchronize() resumes parsing at the next likely
// statement boundary.
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []ParseError

	// Contextual flags used for better diagnostics than a deferred
	// environment-lookup failure would give.
	inClass       bool
	inSubclass    bool
	inInitializer bool
}

// New creates a new Parser from a token stream.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens, current: 0}
}

// Parse parses the token stream and returns the statement list and any
// errors collected along the way.
func (p *Parser) Parse() ([]Stmt, []ParseError) {
	var statements []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errors
}

// --- Declarations ---

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(ParseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(lexer.Class):
		return p.classDeclaration()
	case p.match(lexer.Fun):
		return p.function("function")
	case p.match(lexer.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() Stmt {
	name := p.consume(lexer.Identifier, "Expect class name.")

	var superclass *VariableExpr
	wasInSubclass := p.inSubclass
	if p.match(lexer.Less) {
		superTok := p.consume(lexer.Identifier, "Expect superclass name.")
		if superTok.Lexeme == name.Lexeme {
			p.errorAt(superTok, "A class can't inherit from itself.")
		}
		superclass = &VariableExpr{Name: superTok}
		p.inSubclass = true
	}

	p.consume(lexer.LeftBrace, "Expect '{' before class body.")

	wasInClass := p.inClass
	p.inClass = true

	var methods []*FunctionStmt
	for !p.check(lexer.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(lexer.RightBrace, "Expect '}' after class body.")

	p.inClass = wasInClass
	p.inSubclass = wasInSubclass

	return &ClassDeclStmt{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *FunctionStmt {
	name := p.consume(lexer.Identifier, fmt.Sprintf("Expect %s name.", kind))
	p.consume(lexer.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind))

	var params []lexer.Token
	if !p.check(lexer.RightParen) {
		for {
			if len(params) >= maxArguments {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArguments))
			}
			params = append(params, p.consume(lexer.Identifier, "Expect parameter name."))
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RightParen, "Expect ')' after parameters.")

	p.consume(lexer.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind))

	wasInInitializer := p.inInitializer
	p.inInitializer = kind == "method" && name.Lexeme == "init"

	body := p.block()

	p.inInitializer = wasInInitializer

	return &FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(lexer.Identifier, "Expect variable name.")

	var initializer Expr = &NoOpExpr{}
	if p.match(lexer.Equal) {
		initializer = p.expression()
	}

	p.consume(lexer.Semicolon, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: initializer}
}

// --- Statements ---

func (p *Parser) statement() Stmt {
	switch {
	case p.match(lexer.For):
		return p.forStatement()
	case p.match(lexer.If):
		return p.ifStatement()
	case p.match(lexer.Print):
		return p.printStatement()
	case p.match(lexer.Return):
		return p.returnStatement()
	case p.match(lexer.While):
		return p.whileStatement()
	case p.match(lexer.LeftBrace):
		return &BlockStmt{Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func (p *Parser) forStatement() Stmt {
	p.consume(lexer.LeftParen, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(lexer.Semicolon):
		initializer = nil
	case p.match(lexer.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition Expr
	if !p.check(lexer.Semicolon) {
		condition = p.expression()
	}
	p.consume(lexer.Semicolon, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(lexer.RightParen) {
		increment = p.expression()
	}
	p.consume(lexer.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expression: increment}}}
	}

	if condition == nil {
		condition = &LiteralExpr{Value: true}
	}
	body = &WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}

	return body
}

func (p *Parser) ifStatement() Stmt {
	p.consume(lexer.LeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(lexer.RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(lexer.Else) {
		elseBranch = p.statement()
	}

	return &IfStmt{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) printStatement() Stmt {
	value := p.expression()
	p.consume(lexer.Semicolon, "Expect ';' after value.")
	return &PrintStmt{Expression: value}
}

func (p *Parser) returnStatement() Stmt {
	keyword := p.previous()

	var value Expr = &NoOpExpr{}
	if !p.check(lexer.Semicolon) {
		value = p.expression()
	}

	if p.inInitializer {
		if _, isNoOp := value.(*NoOpExpr); !isNoOp {
			p.errorAt(keyword, "Can't return a value from an initializer.")
		}
	}

	p.consume(lexer.Semicolon, "Expect ';' after return value.")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() Stmt {
	p.consume(lexer.LeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(lexer.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &WhileStmt{Condition: condition, Body: body}
}

func (p *Parser) block() []Stmt {
	var statements []Stmt
	for !p.check(lexer.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(lexer.RightBrace, "Expect '}' after block.")
	return statements
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.Semicolon, "Expect ';' after expression.")
	return &ExpressionStmt{Expression: expr}
}

// --- Expressions (ascending precedence) ---

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.logicOr()

	if p.match(lexer.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Value: value}
		case *GetExpr:
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "invalid assignment target")
			return expr
		}
	}

	return expr
}

func (p *Parser) logicOr() Expr {
	expr := p.logicAnd()
	for p.match(lexer.Or) {
		operator := p.previous()
		right := p.logicAnd()
		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() Expr {
	expr := p.equality()
	for p.match(lexer.And) {
		operator := p.previous()
		right := p.equality()
		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(lexer.BangEqual, lexer.EqualEqual) {
		operator := p.previous()
		right := p.comparison()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.match(lexer.Greater, lexer.GreaterEqual, lexer.Less, lexer.LessEqual) {
		operator := p.previous()
		right := p.term()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.match(lexer.Minus, lexer.Plus) {
		operator := p.previous()
		right := p.factor()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.match(lexer.Slash, lexer.Star) {
		operator := p.previous()
		right := p.unary()
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(lexer.Bang, lexer.Minus) {
		operator := p.previous()
		right := p.unary()
		return &UnaryExpr{Operator: operator, Right: right}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(lexer.LeftParen):
			expr = p.finishCall(expr)
		case p.match(lexer.Dot):
			name := p.consume(lexer.Identifier, "Expect property name after '.'.")
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(lexer.RightParen) {
		for {
			if len(args) >= maxArguments {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArguments))
			}
			args = append(args, p.expression())
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	paren := p.consume(lexer.RightParen, "Expect ')' after arguments.")
	return &CallExpr{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(lexer.False):
		return &LiteralExpr{Value: false}
	case p.match(lexer.True):
		return &LiteralExpr{Value: true}
	case p.match(lexer.Nil):
		return &LiteralExpr{Value: nil}
	case p.match(lexer.Number, lexer.String):
		return &LiteralExpr{Value: p.previous().Literal}
	case p.match(lexer.This):
		if !p.inClass {
			p.errorAt(p.previous(), "Can't use 'this' outside of a class.")
		}
		return &ThisExpr{Keyword: p.previous()}
	case p.match(lexer.Super):
		keyword := p.previous()
		if !p.inClass {
			p.errorAt(keyword, "Can't use 'super' outside of a class.")
		} else if !p.inSubclass {
			p.errorAt(keyword, "Can't use 'super' in a class with no superclass.")
		}
		p.consume(lexer.Dot, "Expect '.' after 'super'.")
		method := p.consume(lexer.Identifier, "Expect superclass method name.")
		return &SuperExpr{Keyword: keyword, Method: method}
	case p.match(lexer.Identifier):
		return &VariableExpr{Name: p.previous()}
	case p.match(lexer.LeftParen):
		expr := p.expression()
		p.consume(lexer.RightParen, "Expect ')' after expression.")
		return &GroupingExpr{Expression: expr}
	}

	panic(p.errorAt(p.peek(), "Expect expression."))
}

// --- Token cursor helpers ---

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) lexer.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

// errorAt records a parse error and returns it so callers can either
// propagate it via panic (to trigger synchronize) or keep the
// partially-built node and continue, as assignment() does.
func (p *Parser) errorAt(token lexer.Token, message string) ParseError {
	err := ParseError{Token: token, Message: message}
	p.errors = append(p.errors, err)
	return err
}

// synchronize discards tokens until the previous token was a ';' or the
// next token starts a new statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == lexer.Semicolon {
			return
		}

		switch p.peek().Type {
		case lexer.Class, lexer.For, lexer.Fun, lexer.If, lexer.Print, lexer.Return, lexer.Var, lexer.While:
			return
		}

		p.advance()
	}
}
