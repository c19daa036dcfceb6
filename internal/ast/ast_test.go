package ast_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/benhoyt/jawk/internal/ast"
	. "github.com/benhoyt/jawk/lexer"
)

func num(n float64) ast.TypedExpr { return ast.Untyped(&ast.NumExpr{Value: n}) }
func str(s string) ast.TypedExpr  { return ast.Untyped(&ast.StrExpr{Value: s}) }
func ident(name string) ast.TypedExpr {
	return ast.Untyped(&ast.VarExpr{Name: name})
}

func TestExprString(t *testing.T) {
	tests := []struct {
		expr ast.TypedExpr
		str  string
	}{
		{num(1), "(v 1)"},
		{num(1.5), "(v 1.5)"},
		{num(1e10), "(v 10000000000)"},
		{num(-3), "(v -3)"},
		{num(1e20), "(v 1e+20)"},
		{num(-1e300), "(v -1e+300)"},
		{str("a\tb"), `(v "a\tb")`},
		{ident("x"), "(v x)"},
		{ast.TypedExpr{Type: ast.TypeFloat, Expr: &ast.NumExpr{Value: 0}}, "(f 0)"},
		{ast.Untyped(&ast.AssignExpr{Name: "x", Value: num(2)}), "(v x = (v 2))"},
		{ast.Untyped(&ast.BinaryExpr{Left: num(1), Op: ADD, Right: num(2)}), "(v (v 1) + (v 2))"},
		{ast.Untyped(&ast.CompareExpr{Left: ident("a"), Op: LTE, Right: ident("b")}), "(v (v a) <= (v b))"},
		{ast.Untyped(&ast.LogicalExpr{Left: ident("a"), Op: OR, Right: ident("b")}), "(v (v a) || (v b))"},
		{ast.Untyped(&ast.ConcatExpr{Exprs: []ast.TypedExpr{str("a"), str("b"), ident("c")}}), `(v (v "a") (v "b") (v c))`},
		{ast.Untyped(&ast.FieldExpr{Index: ast.Untyped(&ast.FieldExpr{Index: num(0)})}), "(v $(v $(v 0)))"},
		{ast.Untyped(&ast.CallExpr{}), "(v <call>)"},
	}
	for _, test := range tests {
		t.Run(test.str, func(t *testing.T) {
			if s := test.expr.String(); s != test.str {
				t.Errorf("expected %q, got %q", test.str, s)
			}
		})
	}
}

func TestStmtString(t *testing.T) {
	printA := &ast.PrintStmt{Expr: ident("a")}
	printB := &ast.PrintStmt{Expr: ident("b")}
	tests := []struct {
		name string
		stmt ast.Stmt
		str  string
	}{
		{"expr", &ast.ExprStmt{Expr: num(1)}, "(v 1)"},
		{"print", printA, "print (v a)"},
		{"group", &ast.GroupStmt{Stmts: []ast.Stmt{printA, printB}}, "{\n    print (v a)\n    print (v b)\n}"},
		{"empty group", &ast.GroupStmt{}, "{\n}"},
		{"if", &ast.IfStmt{Cond: num(1), Body: printA}, "if ((v 1)) {\n    print (v a)\n}"},
		{"if else", &ast.IfStmt{Cond: num(1), Body: printA, Else: printB},
			"if ((v 1)) {\n    print (v a)\n} else {\n    print (v b)\n}"},
		{"while", &ast.WhileStmt{Cond: ident("x"), Body: &ast.GroupStmt{Stmts: []ast.Stmt{printA, printB}}},
			"while ((v x)) {\n    print (v a)\n    print (v b)\n}"},
		{"nested", &ast.WhileStmt{Cond: ident("x"), Body: &ast.IfStmt{Cond: ident("y"), Body: printA}},
			"while ((v x)) {\n    if ((v y)) {\n        print (v a)\n    }\n}"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if s := test.stmt.String(); s != test.str {
				t.Errorf("expected %q, got %q", test.str, s)
			}
		})
	}
}

func TestNewPatternOnly(t *testing.T) {
	rule := ast.NewPatternOnly(ident("test"))
	if rule.Pattern == nil || rule.Pattern.String() != "(v test)" {
		t.Fatalf("unexpected pattern %v", rule.Pattern)
	}
	print, ok := rule.Action.(*ast.PrintStmt)
	if !ok {
		t.Fatalf("expected *ast.PrintStmt, got %T", rule.Action)
	}
	if print.Expr.Type != ast.TypeString {
		t.Errorf("expected string type on implicit print, got %s", print.Expr.Type)
	}
	if s := print.String(); s != "print (s $(f 0))" {
		t.Errorf("unexpected implicit print %q", s)
	}
}

func TestNewActionOnly(t *testing.T) {
	rule := ast.NewActionOnly(&ast.PrintStmt{Expr: num(1)})
	if rule.Pattern != nil {
		t.Errorf("expected nil pattern, got %v", rule.Pattern)
	}
	if s := rule.String(); s != "{\n    print (v 1)\n}" {
		t.Errorf("unexpected rule %q", s)
	}
}

func testProgram() *ast.Program {
	return &ast.Program{
		Begins: []ast.Stmt{&ast.PrintStmt{Expr: num(1)}},
		Actions: []*ast.PatternAction{
			ast.NewPatternOnly(ast.Untyped(&ast.CompareExpr{Left: ident("x"), Op: GREATER, Right: num(1)})),
			ast.NewActionOnly(&ast.IfStmt{
				Cond: ident("y"),
				Body: &ast.ExprStmt{Expr: ast.Untyped(&ast.AssignExpr{Name: "z", Value: str("s")})},
				Else: &ast.PrintStmt{Expr: ast.Untyped(&ast.ConcatExpr{Exprs: []ast.TypedExpr{ident("a"), ident("b")}})},
			}),
		},
		Ends: []ast.Stmt{&ast.WhileStmt{Cond: num(0), Body: &ast.GroupStmt{}}},
	}
}

func TestProgramString(t *testing.T) {
	expected := `BEGIN {
    print (v 1)
}

(v (v x) > (v 1)) {
    print (s $(f 0))
}

{
    if ((v y)) {
        (v z = (v "s"))
    } else {
        print (v (v a) (v b))
    }
}

END {
    while ((v 0)) {
    }
}`
	if s := testProgram().String(); s != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, s)
	}
	if s := (&ast.Program{}).String(); s != "" {
		t.Errorf("expected empty program to print nothing, got %q", s)
	}
}

type countVisitor struct {
	counts map[string]int
}

func (v *countVisitor) Visit(node ast.Node) ast.Visitor {
	if node != nil {
		v.counts[strings.TrimPrefix(fmt.Sprintf("%T", node), "*ast.")]++
	}
	return v
}

func TestWalk(t *testing.T) {
	v := &countVisitor{counts: make(map[string]int)}
	ast.Walk(v, testProgram())
	expected := map[string]int{
		"Program":       1,
		"PatternAction": 2,
		"ast.TypedExpr": 13,
		"NumExpr":       4,
		"StrExpr":       1,
		"VarExpr":       4,
		"CompareExpr":   1,
		"FieldExpr":     1,
		"AssignExpr":    1,
		"ConcatExpr":    1,
		"PrintStmt":     3,
		"IfStmt":        1,
		"ExprStmt":      1,
		"WhileStmt":     1,
		"GroupStmt":     1,
	}
	for name, n := range expected {
		if v.counts[name] != n {
			t.Errorf("expected %d visits of %s, got %d", n, name, v.counts[name])
		}
	}
	for name := range v.counts {
		if _, ok := expected[name]; !ok {
			t.Errorf("unexpected visit of %s", name)
		}
	}
}

type pruneVisitor struct {
	visited int
}

func (v *pruneVisitor) Visit(node ast.Node) ast.Visitor {
	if node == nil {
		return nil
	}
	v.visited++
	if _, ok := node.(*ast.PatternAction); ok {
		return nil
	}
	return v
}

func TestWalkPrune(t *testing.T) {
	v := &pruneVisitor{}
	ast.Walk(v, testProgram())
	// Program, BEGIN print, its TypedExpr and NumExpr, two rules (not
	// entered), END while, its TypedExpr and NumExpr, and the group.
	if v.visited != 10 {
		t.Errorf("expected 10 visits, got %d", v.visited)
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ast.YAML(testProgram())); err != nil {
		t.Fatalf("encoding: %v", err)
	}

	var doc struct {
		Begin []map[string]interface{} `yaml:"begin"`
		Actions []struct {
			Pattern map[string]interface{} `yaml:"pattern"`
			Action  map[string]interface{} `yaml:"action"`
		} `yaml:"actions"`
		End []map[string]interface{} `yaml:"end"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decoding: %v\n%s", err, buf.String())
	}
	if len(doc.Begin) != 1 || len(doc.Actions) != 2 || len(doc.End) != 1 {
		t.Fatalf("unexpected shape:\n%s", buf.String())
	}

	printed := doc.Begin[0]["print"].(map[string]interface{})
	if printed["type"] != "v" || printed["num"] != 1 {
		t.Errorf("unexpected BEGIN print: %v", printed)
	}

	pattern := doc.Actions[0].Pattern
	if pattern["compare"] != ">" {
		t.Errorf("expected > comparison, got %v", pattern)
	}
	implicit := doc.Actions[0].Action["print"].(map[string]interface{})
	if implicit["type"] != "s" {
		t.Errorf("expected string-typed implicit print, got %v", implicit)
	}
	if doc.Actions[1].Pattern != nil {
		t.Errorf("expected no pattern on action-only rule, got %v", doc.Actions[1].Pattern)
	}
	ifStmt := doc.Actions[1].Action["if"].(map[string]interface{})
	if _, ok := ifStmt["else"]; !ok {
		t.Errorf("expected else branch in %v", ifStmt)
	}
	if !strings.Contains(buf.String(), `str: "s"`) {
		t.Errorf("expected double-quoted string literal in:\n%s", buf.String())
	}
}

func TestTypeString(t *testing.T) {
	for typ, s := range map[ast.Type]string{ast.TypeVariable: "v", ast.TypeString: "s", ast.TypeFloat: "f"} {
		if typ.String() != s {
			t.Errorf("expected %q, got %q", s, typ.String())
		}
	}
}
