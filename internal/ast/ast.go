// jawk parser - abstract syntax tree structs

package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	. "github.com/benhoyt/jawk/lexer"
)

// Program is a parsed jawk program. BEGIN and END bodies and the
// pattern-action rules are each kept in source order.
type Program struct {
	Begins  []Stmt
	Ends    []Stmt
	Actions []*PatternAction
}

// String returns an indented, pretty-printed version of the parsed
// program: BEGIN blocks first, then rules, then END blocks.
func (p *Program) String() string {
	parts := []string{}
	for _, s := range p.Begins {
		parts = append(parts, "BEGIN {\n"+block(s)+"}")
	}
	for _, a := range p.Actions {
		parts = append(parts, a.String())
	}
	for _, s := range p.Ends {
		parts = append(parts, "END {\n"+block(s)+"}")
	}
	return strings.Join(parts, "\n\n")
}

// PatternAction is a pattern-action rule. A nil Pattern matches every
// record.
type PatternAction struct {
	Pattern *TypedExpr
	Action  Stmt
}

// NewPatternOnly returns the rule for a bare pattern, whose implicit
// action prints the whole record.
func NewPatternOnly(pattern TypedExpr) *PatternAction {
	record := TypedExpr{TypeFloat, &NumExpr{0}}
	action := &PrintStmt{Expr: TypedExpr{TypeString, &FieldExpr{Index: record}}}
	return &PatternAction{Pattern: &pattern, Action: action}
}

// NewActionOnly returns the rule for a bare { action }.
func NewActionOnly(action Stmt) *PatternAction {
	return &PatternAction{Action: action}
}

func (a *PatternAction) String() string {
	body := "{\n" + block(a.Action) + "}"
	if a.Pattern == nil {
		return body
	}
	return a.Pattern.String() + " " + body
}

// Node is an interface to be satisfied by all AST elements.
// We need it to be able to work with AST in a generic way, like in ast.Walk().
type Node interface {
	node()
}

// All these types implement the Node interface.
func (p *Program) node()       {}
func (a *PatternAction) node() {}
func (e TypedExpr) node()      {}
func (e *AssignExpr) node()    {}
func (e *NumExpr) node()       {}
func (e *StrExpr) node()       {}
func (e *ConcatExpr) node()    {}
func (e *CompareExpr) node()   {}
func (e *BinaryExpr) node()    {}
func (e *LogicalExpr) node()   {}
func (e *VarExpr) node()       {}
func (e *FieldExpr) node()     {}
func (e *CallExpr) node()      {}
func (s *ExprStmt) node()      {}
func (s *PrintStmt) node()     {}
func (s *GroupStmt) node()     {}
func (s *IfStmt) node()        {}
func (s *WhileStmt) node()     {}

// Type is the provisional type of an expression. The parser only
// knows it for the implicit print of a pattern-only rule; everything
// else is TypeVariable until a later inference pass resolves it.
type Type int

const (
	TypeVariable Type = iota
	TypeString
	TypeFloat
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "s"
	case TypeFloat:
		return "f"
	default:
		return "v"
	}
}

// TypedExpr is an expression tagged with its provisional type. Every
// expression in the tree is wrapped in one.
type TypedExpr struct {
	Type Type
	Expr Expr
}

// Untyped wraps e with the TypeVariable tag.
func Untyped(e Expr) TypedExpr {
	return TypedExpr{TypeVariable, e}
}

func (e TypedExpr) String() string {
	return "(" + e.Type.String() + " " + e.Expr.String() + ")"
}

// Expr is the abstract syntax tree for any jawk expression.
type Expr interface {
	Node
	expr()
	String() string
}

// All these types implement the Expr interface.
func (e *AssignExpr) expr()  {}
func (e *NumExpr) expr()     {}
func (e *StrExpr) expr()     {}
func (e *ConcatExpr) expr()  {}
func (e *CompareExpr) expr() {}
func (e *BinaryExpr) expr()  {}
func (e *LogicalExpr) expr() {}
func (e *VarExpr) expr()     {}
func (e *FieldExpr) expr()   {}
func (e *CallExpr) expr()    {}

// AssignExpr is an expression like x = 1234.
type AssignExpr struct {
	Name  string
	Value TypedExpr
}

func (e *AssignExpr) String() string {
	return e.Name + " = " + e.Value.String()
}

// NumExpr is a literal number like 1234.
type NumExpr struct {
	Value float64
}

func (e *NumExpr) String() string {
	if e.Value == math.Trunc(e.Value) && math.Abs(e.Value) < 1<<53 {
		return strconv.FormatInt(int64(e.Value), 10)
	}
	return fmt.Sprintf("%.6g", e.Value)
}

// StrExpr is a literal string like "foo".
type StrExpr struct {
	Value string
}

func (e *StrExpr) String() string {
	return strconv.Quote(e.Value)
}

// ConcatExpr is two or more expressions written next to each other,
// joined as strings from left to right.
type ConcatExpr struct {
	Exprs []TypedExpr
}

func (e *ConcatExpr) String() string {
	parts := make([]string, len(e.Exprs))
	for i, sub := range e.Exprs {
		parts[i] = sub.String()
	}
	return strings.Join(parts, " ")
}

// CompareExpr is a comparison like a < b. Op is one of LESS, LTE,
// GREATER, GTE, EQUALS or NOT_EQUALS.
type CompareExpr struct {
	Left  TypedExpr
	Op    Token
	Right TypedExpr
}

func (e *CompareExpr) String() string {
	return binaryString(e.Left, e.Op, e.Right)
}

// BinaryExpr is an arithmetic expression like 1 + 2. Op is one of
// ADD, SUB, MUL, DIV, MOD or POW.
type BinaryExpr struct {
	Left  TypedExpr
	Op    Token
	Right TypedExpr
}

func (e *BinaryExpr) String() string {
	return binaryString(e.Left, e.Op, e.Right)
}

// LogicalExpr is a short-circuit expression like a && b. Op is AND
// or OR.
type LogicalExpr struct {
	Left  TypedExpr
	Op    Token
	Right TypedExpr
}

func (e *LogicalExpr) String() string {
	return binaryString(e.Left, e.Op, e.Right)
}

func binaryString(left TypedExpr, op Token, right TypedExpr) string {
	return left.String() + " " + op.String() + " " + right.String()
}

// VarExpr is a variable reference.
type VarExpr struct {
	Name string
}

func (e *VarExpr) String() string {
	return e.Name
}

// FieldExpr is a field (column) access like $1 or $(i+1).
type FieldExpr struct {
	Index TypedExpr
}

func (e *FieldExpr) String() string {
	return "$" + e.Index.String()
}

// CallExpr is reserved for function calls. The parser never produces
// it yet.
type CallExpr struct{}

func (e *CallExpr) String() string {
	return "<call>"
}

// Stmt is the abstract syntax tree for any jawk statement.
type Stmt interface {
	Node
	stmt()
	String() string
}

// All these types implement the Stmt interface.
func (s *ExprStmt) stmt()  {}
func (s *PrintStmt) stmt() {}
func (s *GroupStmt) stmt() {}
func (s *IfStmt) stmt()    {}
func (s *WhileStmt) stmt() {}

// ExprStmt is an expression used as a statement, like x = 1.
type ExprStmt struct {
	Expr TypedExpr
}

func (s *ExprStmt) String() string {
	return s.Expr.String()
}

// PrintStmt is a statement like print $1.
type PrintStmt struct {
	Expr TypedExpr
}

func (s *PrintStmt) String() string {
	return "print " + s.Expr.String()
}

// GroupStmt is a sequence of statements. A block holding exactly one
// statement is represented by that statement, never by a GroupStmt.
type GroupStmt struct {
	Stmts []Stmt
}

func (s *GroupStmt) String() string {
	return "{\n" + block(s) + "}"
}

// IfStmt is an if or if-else statement. Else is nil when there's no
// else branch.
type IfStmt struct {
	Cond TypedExpr
	Body Stmt
	Else Stmt
}

func (s *IfStmt) String() string {
	str := "if (" + s.Cond.String() + ") {\n" + block(s.Body) + "}"
	if s.Else != nil {
		str += " else {\n" + block(s.Else) + "}"
	}
	return str
}

// WhileStmt is a while loop. For loops are parsed into a GroupStmt
// holding the init statement and a WhileStmt.
type WhileStmt struct {
	Cond TypedExpr
	Body Stmt
}

func (s *WhileStmt) String() string {
	return "while (" + s.Cond.String() + ") {\n" + block(s.Body) + "}"
}

// block returns the lines of s indented by four spaces, each ending
// in a newline. A GroupStmt contributes its statements directly.
func block(s Stmt) string {
	var stmts []Stmt
	if g, ok := s.(*GroupStmt); ok {
		stmts = g.Stmts
	} else {
		stmts = []Stmt{s}
	}
	lines := []string{}
	for _, s := range stmts {
		subLines := strings.Split(s.String(), "\n")
		for _, sl := range subLines {
			lines = append(lines, "    "+sl+"\n")
		}
	}
	return strings.Join(lines, "")
}
