// Package parser is the jawk parser. It turns the token stream
// produced by package lexer into an abstract syntax tree.
//
// The grammar is all-or-nothing: a parse either returns a complete
// *ast.Program or a single *SyntaxError, never a partial tree.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benhoyt/jawk/internal/ast"
	. "github.com/benhoyt/jawk/lexer"
)

// ParserConfig lets you specify configuration for the parsing
// process (for example to enable debug logging).
type ParserConfig struct {
	// Logger receives debug-level tracing of the parse. If nil,
	// nothing is logged.
	Logger *slog.Logger
}

// SyntaxError is returned when the token stream doesn't match the
// grammar.
type SyntaxError struct {
	// Source line/column position of the offending token.
	Position Position

	// Human-readable description of what was expected, for example
	// "'(' after while" or "expression".
	Expected string

	// Token kind that was expected, or ILLEGAL if only a construct
	// (such as an expression) was expected.
	Want Token

	// Kind and value of the token actually found.
	Found Token
	Value string
}

// Message returns the error message without the position prefix.
func (e *SyntaxError) Message() string {
	found := e.Found.String()
	switch e.Found {
	case NAME, NUMBER:
		found += " " + e.Value
	case STRING:
		found += fmt.Sprintf(" %q", e.Value)
	}
	return "expected " + e.Expected + ", found " + found
}

// Error returns a formatted version of the error, including the line
// and column numbers.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Position.Line, e.Position.Column, e.Message())
}

// IsIncomplete reports whether err is a syntax error caused by the
// input ending too early, meaning more source might make it valid.
func IsIncomplete(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Found == EOF
}

// ParseProgram lexes and parses an entire jawk program, returning the
// *ast.Program abstract syntax tree or a *lexer.Error or *SyntaxError.
// The config parameter may be nil.
func ParseProgram(src []byte, config *ParserConfig) (*ast.Program, error) {
	items, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(items, config)
}

// Parse parses a token sequence, which must end with an EOF item (as
// returned by lexer.Lex). The config parameter may be nil.
func Parse(items []Item, config *ParserConfig) (prog *ast.Program, err error) {
	if len(items) == 0 || items[len(items)-1].Tok != EOF {
		return nil, errors.New("parser: token sequence must end with EOF")
	}
	p := &parser{items: items}
	if config != nil && config.Logger != nil {
		p.logger = config.Logger.With(slog.String("component", "parser"))
	}
	p.debug("parsing", slog.Int("tokens", len(items)))

	defer func() {
		// The parser uses panic with a *SyntaxError to signal parsing
		// errors internally, and they're caught here. This
		// significantly simplifies the recursive descent calls as
		// we don't have to check errors everywhere.
		if r := recover(); r != nil {
			syntaxErr, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			p.debug("parse failed", slog.String("error", syntaxErr.Error()))
			prog, err = nil, syntaxErr
		}
	}()

	prog = p.program()
	p.debug("parsing complete",
		slog.Int("begins", len(prog.Begins)),
		slog.Int("actions", len(prog.Actions)),
		slog.Int("ends", len(prog.Ends)))
	return prog, nil
}

// Parser state
type parser struct {
	items  []Item
	pos    int // index of the current token in items
	logger *slog.Logger
}

func (p *parser) debug(msg string, attrs ...slog.Attr) {
	if p.logger == nil {
		return
	}
	p.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// Return the current token without consuming it.
func (p *parser) peek() Item {
	return p.items[p.pos]
}

// Return the token after the current one, or the final EOF if there
// isn't one.
func (p *parser) peekNext() Item {
	if p.pos+1 < len(p.items) {
		return p.items[p.pos+1]
	}
	return p.items[len(p.items)-1]
}

// Return the most recently consumed token.
func (p *parser) previous() Item {
	return p.items[p.pos-1]
}

func (p *parser) atEnd() bool {
	return p.items[p.pos].Tok == EOF
}

// Consume and return the current token. The cursor never moves past
// the final EOF.
func (p *parser) advance() Item {
	item := p.items[p.pos]
	if !p.atEnd() {
		p.pos++
	}
	return item
}

// Report whether the current token is tok (never true at EOF).
func (p *parser) check(tok Token) bool {
	return !p.atEnd() && p.peek().Tok == tok
}

// If the current token is one of toks, consume it and return true.
func (p *parser) matches(toks ...Token) bool {
	cur := p.peek().Tok
	for _, tok := range toks {
		if cur == tok {
			p.advance()
			return true
		}
	}
	return false
}

// Require the current token to be tok and consume it, otherwise
// abort with a syntax error that describes it as "tok context".
func (p *parser) consume(tok Token, context string) Item {
	if p.check(tok) {
		return p.advance()
	}
	expected := tok.String()
	if context != "" {
		expected += " " + context
	}
	panic(p.errorf(tok, expected))
}

func (p *parser) errorf(want Token, expected string) *SyntaxError {
	cur := p.peek()
	return &SyntaxError{
		Position: cur.Pos,
		Expected: expected,
		Want:     want,
		Found:    cur.Tok,
		Value:    cur.Val,
	}
}

// Parse an entire program: a sequence of BEGIN blocks, END blocks and
// pattern-action rules in any order.
func (p *parser) program() *ast.Program {
	prog := &ast.Program{}
	for !p.atEnd() {
		p.patternAction(prog)
	}
	return prog
}

// Parse one top-level unit and add it to the right list in prog:
//
//	{ stmts }
//	BEGIN { stmts }
//	END { stmts }
//	pattern { stmts }
//	pattern
func (p *parser) patternAction(prog *ast.Program) {
	switch {
	case p.matches(LBRACE):
		body := p.stmts()
		p.consume(RBRACE, "at end of action")
		prog.Actions = append(prog.Actions, ast.NewActionOnly(body))
	case p.matches(BEGIN):
		p.consume(LBRACE, "after BEGIN")
		body := p.stmts()
		p.consume(RBRACE, "at end of BEGIN block")
		prog.Begins = append(prog.Begins, body)
	case p.matches(END):
		p.consume(LBRACE, "after END")
		body := p.stmts()
		p.consume(RBRACE, "at end of END block")
		prog.Ends = append(prog.Ends, body)
	default:
		pattern := p.expr()
		if !p.matches(LBRACE) {
			// Bare pattern implicitly prints the record
			prog.Actions = append(prog.Actions, ast.NewPatternOnly(pattern))
			return
		}
		body := p.stmts()
		p.consume(RBRACE, "at end of action")
		prog.Actions = append(prog.Actions, &ast.PatternAction{Pattern: &pattern, Action: body})
	}
}

// Parse statements up to (but not including) the closing '}', each
// optionally followed by ';'. A single statement is returned as is,
// any other number is wrapped in a GroupStmt.
func (p *parser) stmts() ast.Stmt {
	var stmts []ast.Stmt
	for p.peek().Tok != RBRACE {
		stmts = append(stmts, p.stmt())
		p.matches(SEMICOLON)
	}
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &ast.GroupStmt{Stmts: stmts}
}

// Parse a "{ stmts }" group.
func (p *parser) group(context string) ast.Stmt {
	p.consume(LBRACE, context)
	body := p.stmts()
	p.consume(RBRACE, "at end of block")
	return body
}

// Parse a single statement.
func (p *parser) stmt() ast.Stmt {
	switch {
	case p.matches(PRINT):
		return &ast.PrintStmt{Expr: p.expr()}

	case p.matches(FOR):
		// for (init; test; incr) { body } is parsed directly into
		// { init; while (test) { body; incr } }
		p.consume(LPAREN, "after for")
		init := p.stmt()
		p.consume(SEMICOLON, "after for loop initializer")
		test := p.expr()
		p.consume(SEMICOLON, "after for loop condition")
		incr := p.stmt()
		p.consume(RPAREN, "after for loop increment")
		body := p.group("to start for loop body")
		loop := &ast.WhileStmt{Cond: test, Body: &ast.GroupStmt{Stmts: []ast.Stmt{body, incr}}}
		return &ast.GroupStmt{Stmts: []ast.Stmt{init, loop}}

	case p.peekNext().Tok == ASSIGN:
		// Shortcut for the common "name = expr" statement; this
		// builds the same tree as the assignment level of expr().
		name := p.consume(NAME, "before =").Val
		p.consume(ASSIGN, "after variable name")
		assign := &ast.AssignExpr{Name: name, Value: p.expr()}
		return &ast.ExprStmt{Expr: ast.Untyped(assign)}

	case p.matches(WHILE):
		p.consume(LPAREN, "after while")
		cond := p.expr()
		p.consume(RPAREN, "after while condition")
		body := p.group("to start while loop body")
		return &ast.WhileStmt{Cond: cond, Body: body}

	case p.matches(IF):
		p.consume(LPAREN, "after if")
		cond := p.expr()
		p.consume(RPAREN, "after if condition")
		body := p.group("to start if body")
		var elseBody ast.Stmt
		if p.matches(ELSE) {
			elseBody = p.group("to start else body")
		}
		return &ast.IfStmt{Cond: cond, Body: body, Else: elseBody}

	case p.matches(LBRACE):
		body := p.stmts()
		p.consume(RBRACE, "at end of block")
		return body

	default:
		return &ast.ExprStmt{Expr: p.expr()}
	}
}

// Parse a single expression.
func (p *parser) expr() ast.TypedExpr { return p.assign() }

// Parse an assignment expression:
//
//	name = assign
//	name op= assign
//	logicalOr
//
// A compound assignment x op= y is parsed as x = x op (y).
func (p *parser) assign() ast.TypedExpr {
	left := p.logicalOr()
	v, ok := left.Expr.(*ast.VarExpr)
	if !ok {
		return left
	}
	if p.matches(ASSIGN) {
		return ast.Untyped(&ast.AssignExpr{Name: v.Name, Value: p.assign()})
	}
	if p.matches(AugAssignTokens...) {
		op := AugAssignOp(p.previous().Tok)
		current := ast.Untyped(&ast.VarExpr{Name: v.Name})
		value := ast.Untyped(&ast.BinaryExpr{Left: current, Op: op, Right: p.assign()})
		return ast.Untyped(&ast.AssignExpr{Name: v.Name, Value: value})
	}
	return left
}

// Parse a logical or expression:
//
//	logicalAnd [|| logicalAnd] [|| logicalAnd] ...
func (p *parser) logicalOr() ast.TypedExpr {
	expr := p.logicalAnd()
	for p.matches(OR) {
		right := p.logicalAnd()
		expr = ast.Untyped(&ast.LogicalExpr{Left: expr, Op: OR, Right: right})
	}
	return expr
}

// Parse a logical and expression:
//
//	compare [&& compare] [&& compare] ...
func (p *parser) logicalAnd() ast.TypedExpr {
	expr := p.compare()
	for p.matches(AND) {
		right := p.compare()
		expr = ast.Untyped(&ast.LogicalExpr{Left: expr, Op: AND, Right: right})
	}
	return expr
}

// Parse a comparison expression:
//
//	concat [op concat] [op concat] ...
func (p *parser) compare() ast.TypedExpr {
	expr := p.concat()
	for p.matches(LESS, LTE, GREATER, GTE, EQUALS, NOT_EQUALS) {
		op := p.previous().Tok
		right := p.concat()
		expr = ast.Untyped(&ast.CompareExpr{Left: expr, Op: op, Right: right})
	}
	return expr
}

// Tokens that end a run of concatenated operands.
var concatStop = map[Token]bool{
	ADD_ASSIGN: true, SUB_ASSIGN: true, MUL_ASSIGN: true,
	DIV_ASSIGN: true, MOD_ASSIGN: true, POW_ASSIGN: true,
	LESS: true, LTE: true, GREATER: true, GTE: true, EQUALS: true, NOT_EQUALS: true,
	AND: true, OR: true, ASSIGN: true,
	SEMICOLON: true, RBRACE: true, RPAREN: true, LBRACE: true,
}

// Parse a string concatenation expression: additive operands written
// next to each other with no operator between them.
//
//	additive [additive] [additive] ...
//
// Operands are appended to the left-hand ConcatExpr if there already
// is one, so (a b) c gives a single three-operand concatenation.
func (p *parser) concat() ast.TypedExpr {
	expr := p.additive()
	for !p.atEnd() && !concatStop[p.peek().Tok] {
		right := p.additive()
		if c, ok := expr.Expr.(*ast.ConcatExpr); ok {
			c.Exprs = append(c.Exprs, right)
		} else {
			expr = ast.Untyped(&ast.ConcatExpr{Exprs: []ast.TypedExpr{expr, right}})
		}
	}
	return expr
}

// Parse an addition or subtraction expression. The right operand is
// itself a full additive expression, so a - b - c groups as
// a - (b - c).
//
//	multiplicative [op additive]
//	name++
//	name--
//
// A post-increment name++ is parsed as (name = name + 1) - 1, and
// name-- as (name = name - 1) + 1, yielding the original value.
func (p *parser) additive() ast.TypedExpr {
	expr := p.multiplicative()
	for p.matches(ADD, SUB) {
		op := p.previous().Tok
		if v, ok := expr.Expr.(*ast.VarExpr); ok && p.peek().Tok == op {
			p.advance()
			step := ast.Untyped(&ast.BinaryExpr{Left: expr, Op: op, Right: one()})
			assign := ast.Untyped(&ast.AssignExpr{Name: v.Name, Value: step})
			expr = ast.Untyped(&ast.BinaryExpr{Left: assign, Op: inverse(op), Right: one()})
			continue
		}
		right := p.additive()
		expr = ast.Untyped(&ast.BinaryExpr{Left: expr, Op: op, Right: right})
	}
	return expr
}

func one() ast.TypedExpr {
	return ast.Untyped(&ast.NumExpr{Value: 1})
}

func inverse(op Token) Token {
	if op == ADD {
		return SUB
	}
	return ADD
}

// Parse a multiplication, division, or modulus expression:
//
//	exponent [op exponent] [op exponent] ...
func (p *parser) multiplicative() ast.TypedExpr {
	expr := p.exponent()
	for p.matches(MUL, DIV, MOD) {
		op := p.previous().Tok
		right := p.exponent()
		expr = ast.Untyped(&ast.BinaryExpr{Left: expr, Op: op, Right: right})
	}
	return expr
}

// Parse an exponentiation expression. Unlike AWK, ^ groups left to
// right: 2^3^2 is (2^3)^2.
//
//	field [^ field] [^ field] ...
func (p *parser) exponent() ast.TypedExpr {
	expr := p.field()
	for p.matches(POW) {
		right := p.field()
		expr = ast.Untyped(&ast.BinaryExpr{Left: expr, Op: POW, Right: right})
	}
	return expr
}

// Parse a field expression with any number of leading '$', for
// example $$0, which is $($0).
//
//	[$]... primary
func (p *parser) field() ast.TypedExpr {
	dollars := 0
	for p.matches(DOLLAR) {
		dollars++
	}
	expr := p.primary()
	for i := 0; i < dollars; i++ {
		expr = ast.Untyped(&ast.FieldExpr{Index: expr})
	}
	return expr
}

// Parse a primary expression:
//
//	NUMBER
//	STRING
//	NAME
//	(expr)
func (p *parser) primary() ast.TypedExpr {
	switch p.peek().Tok {
	case NUMBER:
		num := p.advance().Num
		return ast.Untyped(&ast.NumExpr{Value: num})
	case STRING:
		s := p.advance().Val
		return ast.Untyped(&ast.StrExpr{Value: s})
	case NAME:
		name := p.advance().Val
		return ast.Untyped(&ast.VarExpr{Name: name})
	case LPAREN:
		p.advance()
		expr := p.expr()
		p.consume(RPAREN, "to close grouping")
		return expr
	default:
		panic(p.errorf(ILLEGAL, "expression"))
	}
}
