// Package resolver summarises how a parsed program uses variables and
// fields, for the compiler stage and the "jawk vars" command.
package resolver

import (
	"sort"

	"github.com/benhoyt/jawk/internal/ast"
)

// Var describes one variable referenced by a program.
type Var struct {
	Name    string
	Reads   int     // number of references that read the value
	Writes  int     // number of assignments to the variable
	Special Special // V_ILLEGAL for ordinary variables
}

// Info is the result of resolving a program.
type Info struct {
	// Vars holds every referenced variable, sorted by name.
	Vars []*Var

	// FieldAccesses counts $ expressions, nested ones included.
	FieldAccesses int

	byName map[string]*Var
}

type resolver struct {
	vars   map[string]*Var
	fields int
}

// Resolve walks prog and records its variable and field usage. The
// compound assignment x += 1 counts as both a read and a write of x,
// because the parser expands it to x = x + 1.
func Resolve(prog *ast.Program) *Info {
	r := &resolver{vars: make(map[string]*Var)}
	ast.Walk(r, prog)

	info := &Info{FieldAccesses: r.fields, byName: r.vars}
	for _, v := range r.vars {
		info.Vars = append(info.Vars, v)
	}
	sort.Slice(info.Vars, func(i, j int) bool {
		return info.Vars[i].Name < info.Vars[j].Name
	})
	return info
}

func (r *resolver) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.VarExpr:
		r.lookup(n.Name).Reads++
	case *ast.AssignExpr:
		r.lookup(n.Name).Writes++
	case *ast.FieldExpr:
		r.fields++
	}
	return r
}

func (r *resolver) lookup(name string) *Var {
	v, ok := r.vars[name]
	if !ok {
		v = &Var{Name: name, Special: SpecialVar(name)}
		r.vars[name] = v
	}
	return v
}

// Lookup returns the variable with the given name, or nil if the
// program never references it.
func (info *Info) Lookup(name string) *Var {
	return info.byName[name]
}

// Unassigned returns the names of ordinary variables that are read but
// never assigned, in sorted order. At run time they hold the empty
// (uninitialized) value.
func (info *Info) Unassigned() []string {
	var names []string
	for _, v := range info.Vars {
		if v.Special == V_ILLEGAL && v.Reads > 0 && v.Writes == 0 {
			names = append(names, v.Name)
		}
	}
	return names
}
