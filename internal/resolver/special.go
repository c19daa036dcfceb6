// Special variable table

package resolver

import "fmt"

// Special identifies one of AWK's special (built-in) variables. The
// zero value means an ordinary user variable.
type Special int

const (
	V_ILLEGAL Special = iota
	V_ARGC
	V_CONVFMT
	V_FILENAME
	V_FNR
	V_FS
	V_NF
	V_NR
	V_OFMT
	V_OFS
	V_ORS
	V_RLENGTH
	V_RS
	V_RSTART
	V_SUBSEP

	V_LAST = V_SUBSEP
)

type specialInfo struct {
	name string
	doc  string
}

var specials = [...]specialInfo{
	V_ARGC:     {"ARGC", "number of command line arguments"},
	V_CONVFMT:  {"CONVFMT", "number to string conversion format"},
	V_FILENAME: {"FILENAME", "name of the current input file"},
	V_FNR:      {"FNR", "record number in the current file"},
	V_FS:       {"FS", "input field separator"},
	V_NF:       {"NF", "number of fields in the current record"},
	V_NR:       {"NR", "number of records read so far"},
	V_OFMT:     {"OFMT", "number output format"},
	V_OFS:      {"OFS", "output field separator"},
	V_ORS:      {"ORS", "output record separator"},
	V_RLENGTH:  {"RLENGTH", "length of the last match"},
	V_RS:       {"RS", "input record separator"},
	V_RSTART:   {"RSTART", "start of the last match"},
	V_SUBSEP:   {"SUBSEP", "array subscript separator"},
}

var specialsByName = func() map[string]Special {
	m := make(map[string]Special, len(specials))
	for i := V_ARGC; i <= V_LAST; i++ {
		m[specials[i].name] = i
	}
	return m
}()

// SpecialVar returns the special variable with the given name, or
// V_ILLEGAL if name is an ordinary variable. Names are case-sensitive.
func SpecialVar(name string) Special {
	return specialsByName[name]
}

// IsSpecial reports whether name is one of AWK's special variables.
func IsSpecial(name string) bool {
	return SpecialVar(name) != V_ILLEGAL
}

func (s Special) String() string {
	switch {
	case s == V_ILLEGAL:
		return "ILLEGAL"
	case s > V_ILLEGAL && s <= V_LAST:
		return specials[s].name
	default:
		return fmt.Sprintf("<unknown special var %d>", int(s))
	}
}

// Doc returns a short description of the special variable, or "" for
// an ordinary variable.
func (s Special) Doc() string {
	if s > V_ILLEGAL && s <= V_LAST {
		return specials[s].doc
	}
	return ""
}
