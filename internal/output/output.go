// Package output renders parse results (programs, token streams and
// variable summaries) for the jawk command.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/benhoyt/jawk/internal/ast"
	"github.com/benhoyt/jawk/internal/resolver"
	"github.com/benhoyt/jawk/lexer"
)

// Format selects how a program is written.
type Format string

const (
	Text Format = "text" // indented Program.String() form
	YAML Format = "yaml" // machine-readable YAML document
)

// ParseFormat returns the Format named by s (case-insensitive). An
// empty string means Text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", Text:
		return Text, nil
	case YAML:
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text or yaml)", s)
	}
}

// WriteProgram writes prog to w in the given format.
func WriteProgram(w io.Writer, prog *ast.Program, format Format) error {
	switch format {
	case Text:
		s := prog.String()
		if s == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, s)
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ast.YAML(prog)); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteTokens writes one "line:col token" line per item, including
// the final EOF.
func WriteTokens(w io.Writer, items []lexer.Item) error {
	for _, item := range items {
		_, err := fmt.Fprintf(w, "%d:%d %s\n", item.Pos.Line, item.Pos.Column, item)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteVars writes a table of the variables in info, followed by the
// field access count and any variables read but never assigned.
func WriteVars(w io.Writer, info *resolver.Info) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREADS\tWRITES\tSPECIAL")
	for _, v := range info.Vars {
		special := "-"
		if v.Special != resolver.V_ILLEGAL {
			special = v.Special.Doc()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", v.Name, v.Reads, v.Writes, special)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nfield accesses: %d\n", info.FieldAccesses); err != nil {
		return err
	}
	if unassigned := info.Unassigned(); len(unassigned) > 0 {
		_, err := fmt.Fprintf(w, "never assigned: %s\n", strings.Join(unassigned, ", "))
		return err
	}
	return nil
}
