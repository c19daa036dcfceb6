package ast

import "fmt"

// Visitor has a Visit method which is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// WalkExprList walks a visitor over a list of typed expressions.
func WalkExprList(v Visitor, exprs []TypedExpr) {
	for _, expr := range exprs {
		Walk(v, expr)
	}
}

// WalkStmtList walks a visitor over a list of statement AST nodes
func WalkStmtList(v Visitor, stmts []Stmt) {
	for _, stmt := range stmts {
		Walk(v, stmt)
	}
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); if node is nil, it does nothing. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor
// w for each of the non-nil children of node, followed by a call of
// w.Visit(nil).
//
// A TypedExpr is visited before the Expr it wraps.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}

	// walk children
	// (the order of the cases matches the order
	// of the corresponding node types in ast.go)
	switch n := node.(type) {
	case *Program:
		WalkStmtList(v, n.Begins)
		for _, action := range n.Actions {
			Walk(v, action)
		}
		WalkStmtList(v, n.Ends)

	case *PatternAction:
		if n.Pattern != nil {
			Walk(v, *n.Pattern)
		}
		Walk(v, n.Action)

	case TypedExpr:
		Walk(v, n.Expr)

	// expressions
	case *AssignExpr:
		Walk(v, n.Value)

	case *NumExpr: // leaf
	case *StrExpr: // leaf
	case *ConcatExpr:
		WalkExprList(v, n.Exprs)

	case *CompareExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *BinaryExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *LogicalExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *VarExpr: // leaf
	case *FieldExpr:
		Walk(v, n.Index)

	case *CallExpr: // leaf

	// statements
	case *ExprStmt:
		Walk(v, n.Expr)

	case *PrintStmt:
		Walk(v, n.Expr)

	case *GroupStmt:
		WalkStmtList(v, n.Stmts)

	case *IfStmt:
		Walk(v, n.Cond)
		Walk(v, n.Body)
		Walk(v, n.Else)

	case *WhileStmt:
		Walk(v, n.Cond)
		Walk(v, n.Body)

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}
