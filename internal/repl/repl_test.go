package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/benhoyt/jawk/internal/output"
	"github.com/benhoyt/jawk/internal/repl"
)

func TestFeed(t *testing.T) {
	var buf bytes.Buffer
	s := repl.NewSession(&buf, output.Text, nil)

	if s.Feed("   ") {
		t.Fatalf("blank line should not need more input")
	}
	if s.Pending() || buf.Len() != 0 {
		t.Fatalf("blank line should be ignored, got %q", buf.String())
	}

	steps := []struct {
		line string
		more bool
	}{
		{"BEGIN {", true},
		{"  x = 1;", true},
		{"  print x", true},
		{"}", false},
	}
	for _, step := range steps {
		if more := s.Feed(step.line); more != step.more {
			t.Fatalf("Feed(%q): expected more=%v, got %v", step.line, step.more, more)
		}
	}
	expected := "BEGIN {\n    (v x = (v 1))\n    print (v x)\n}\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
	if s.Pending() {
		t.Errorf("expected buffer to be cleared")
	}
}

func TestFeedError(t *testing.T) {
	var buf bytes.Buffer
	s := repl.NewSession(&buf, output.Text, nil)
	if s.Feed("{ while 1 {") {
		t.Fatalf("definite error should not ask for more input")
	}
	expected := "parse error at 1:9: expected ( after while, found number 1\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
	if s.Pending() {
		t.Errorf("expected buffer to be cleared after error")
	}
}

func TestRunScript(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			"multi-line program",
			"{\nprint $1\n}\n",
			"{\n    print (v $(v 1))\n}\n",
		},
		{
			"two programs",
			"BEGIN { print 1 }\n$2\n",
			"BEGIN {\n    print (v 1)\n}\n(v $(v 2)) {\n    print (s $(f 0))\n}\n",
		},
		{
			"truncated at EOF",
			"BEGIN {\n",
			"parse error at 1:8: expected expression, found EOF\n",
		},
		{
			"lex error",
			"{ print @ }\n",
			"lex error at 1:9: unexpected '@'\n",
		},
		{
			"format command",
			":format yaml\n{ x }\n",
			"begin: []\nactions:\n",
		},
		{
			"bad format",
			":format xml\n:format\n",
			"unknown output format \"xml\" (expected text or yaml)\nformat is text\n",
		},
		{
			"unknown command",
			":what\n",
			"unknown command :what (type :help for help)\n",
		},
		{
			"help",
			":help\n",
			"Commands:",
		},
		{
			"quit",
			"{ print 1 }\n:quit\n{ print 2 }\n",
			"{\n    print (v 1)\n}\n",
		},
		{
			"colon inside program",
			"{\n:x\n",
			"lex error at 2:1: unexpected ':'\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := repl.RunScript(strings.NewReader(test.in), &buf, output.Text, nil)
			if err != nil {
				t.Fatalf("RunScript: %v", err)
			}
			if !strings.Contains(buf.String(), test.out) {
				t.Errorf("expected output containing %q, got %q", test.out, buf.String())
			}
		})
	}
}
