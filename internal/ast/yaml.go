package ast

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAML returns prog as a YAML document tree, ready for encoding with
// a yaml.Encoder. Keys always appear in the same order, so the output
// for a given program is stable.
func YAML(prog *Program) *yaml.Node {
	begins := sequence()
	for _, s := range prog.Begins {
		begins.Content = append(begins.Content, stmtYAML(s))
	}
	actions := sequence()
	for _, a := range prog.Actions {
		actions.Content = append(actions.Content, actionYAML(a))
	}
	ends := sequence()
	for _, s := range prog.Ends {
		ends.Content = append(ends.Content, stmtYAML(s))
	}
	return mapping("begin", begins, "actions", actions, "end", ends)
}

func actionYAML(a *PatternAction) *yaml.Node {
	if a.Pattern == nil {
		return mapping("action", stmtYAML(a.Action))
	}
	return mapping("pattern", exprYAML(*a.Pattern), "action", stmtYAML(a.Action))
}

func stmtYAML(stmt Stmt) *yaml.Node {
	switch s := stmt.(type) {
	case *ExprStmt:
		return mapping("expr", exprYAML(s.Expr))
	case *PrintStmt:
		return mapping("print", exprYAML(s.Expr))
	case *GroupStmt:
		stmts := sequence()
		for _, sub := range s.Stmts {
			stmts.Content = append(stmts.Content, stmtYAML(sub))
		}
		return mapping("group", stmts)
	case *IfStmt:
		body := mapping("cond", exprYAML(s.Cond), "then", stmtYAML(s.Body))
		if s.Else != nil {
			body.Content = append(body.Content, scalar("else"), stmtYAML(s.Else))
		}
		return mapping("if", body)
	case *WhileStmt:
		return mapping("while", mapping("cond", exprYAML(s.Cond), "body", stmtYAML(s.Body)))
	default:
		panic(fmt.Sprintf("ast.YAML: unexpected statement type %T", stmt))
	}
}

func exprYAML(e TypedExpr) *yaml.Node {
	node := mapping("type", scalar(e.Type.String()))
	var fields []interface{}
	switch x := e.Expr.(type) {
	case *AssignExpr:
		fields = []interface{}{"assign", scalar(x.Name), "value", exprYAML(x.Value)}
	case *NumExpr:
		n := &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(x.Value, 'g', -1, 64)}
		fields = []interface{}{"num", n}
	case *StrExpr:
		s := scalar(x.Value)
		s.Style = yaml.DoubleQuotedStyle
		fields = []interface{}{"str", s}
	case *ConcatExpr:
		exprs := sequence()
		for _, sub := range x.Exprs {
			exprs.Content = append(exprs.Content, exprYAML(sub))
		}
		fields = []interface{}{"concat", exprs}
	case *CompareExpr:
		fields = []interface{}{"compare", scalar(x.Op.String()), "left", exprYAML(x.Left), "right", exprYAML(x.Right)}
	case *BinaryExpr:
		fields = []interface{}{"binary", scalar(x.Op.String()), "left", exprYAML(x.Left), "right", exprYAML(x.Right)}
	case *LogicalExpr:
		fields = []interface{}{"logical", scalar(x.Op.String()), "left", exprYAML(x.Left), "right", exprYAML(x.Right)}
	case *VarExpr:
		fields = []interface{}{"var", scalar(x.Name)}
	case *FieldExpr:
		fields = []interface{}{"field", exprYAML(x.Index)}
	case *CallExpr:
		fields = []interface{}{"call", mapping()}
	default:
		panic(fmt.Sprintf("ast.YAML: unexpected expression type %T", e.Expr))
	}
	node.Content = append(node.Content, mapping(fields...).Content...)
	return node
}

// scalar returns a string scalar; the tag makes the encoder quote
// values such as "true" or "1" that would otherwise decode as another
// type.
func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode}
}

// mapping builds a mapping node from alternating string keys and
// *yaml.Node values.
func mapping(kvs ...interface{}) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(kvs); i += 2 {
		node.Content = append(node.Content, scalar(kvs[i].(string)), kvs[i+1].(*yaml.Node))
	}
	return node
}
