// Package repl implements jawk's interactive mode: type a program a
// line at a time and see the parsed tree as soon as it's complete.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/benhoyt/jawk/internal/ast"
	"github.com/benhoyt/jawk/internal/config"
	"github.com/benhoyt/jawk/internal/output"
	"github.com/benhoyt/jawk/parser"
)

const helpText = `Enter a jawk program; it's parsed once it is complete.
Commands:
  :format text|yaml  change the output format
  :help              show this help
  :quit              exit (or Ctrl+D)
`

// Session accumulates input lines until they form a complete program
// (or a definite syntax error), then writes the result to Out.
type Session struct {
	Out    io.Writer
	Format output.Format
	Logger *slog.Logger

	buf strings.Builder
}

// NewSession returns a session that writes results to out.
func NewSession(out io.Writer, format output.Format, logger *slog.Logger) *Session {
	return &Session{Out: out, Format: format, Logger: logger}
}

// Pending reports whether the session holds an incomplete program.
func (s *Session) Pending() bool {
	return s.buf.Len() > 0
}

// Reset discards any buffered input.
func (s *Session) Reset() {
	s.buf.Reset()
}

// Feed adds one line of input. It returns true if the program so far
// is incomplete and more lines are needed. Otherwise the program (or
// the syntax error) has been written and the buffer is cleared.
func (s *Session) Feed(line string) (more bool) {
	if !s.Pending() && strings.TrimSpace(line) == "" {
		return false
	}
	if s.Pending() {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)

	prog, err := parser.ParseProgram([]byte(s.buf.String()), &parser.ParserConfig{Logger: s.Logger})
	if parser.IsIncomplete(err) {
		return true
	}
	s.finish(prog, err)
	return false
}

// Flush handles any buffered input as if it were complete, reporting
// the error for a truncated program.
func (s *Session) Flush() {
	if !s.Pending() {
		return
	}
	prog, err := parser.ParseProgram([]byte(s.buf.String()), &parser.ParserConfig{Logger: s.Logger})
	s.finish(prog, err)
}

func (s *Session) finish(prog *ast.Program, err error) {
	defer s.Reset()
	if err != nil {
		fmt.Fprintln(s.Out, err)
		return
	}
	if err := output.WriteProgram(s.Out, prog, s.Format); err != nil {
		fmt.Fprintln(s.Out, err)
	}
}

// command handles a ":" command line. It returns false if the
// session should end.
func (s *Session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprint(s.Out, helpText)
	case ":format":
		if len(fields) != 2 {
			fmt.Fprintf(s.Out, "format is %s\n", s.Format)
			break
		}
		format, err := output.ParseFormat(fields[1])
		if err != nil {
			fmt.Fprintln(s.Out, err)
			break
		}
		s.Format = format
	default:
		fmt.Fprintf(s.Out, "unknown command %s (type :help for help)\n", fields[0])
	}
	return true
}

// handle processes one input line, dispatching commands when no
// program is pending. It returns false when the session should end.
func (s *Session) handle(line string) (keepGoing bool, more bool) {
	if !s.Pending() && strings.HasPrefix(strings.TrimSpace(line), ":") {
		return s.command(strings.TrimSpace(line)), false
	}
	return true, s.Feed(line)
}

// Run starts an interactive session on the terminal, with line
// editing and history. Ctrl+C discards the pending input; Ctrl+D or
// :quit exits.
func Run(cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := cfg.REPL.HistoryFile
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(historyFile)
			if err != nil {
				logger.Warn("can't save history", slog.String("file", historyFile), slog.Any("error", err))
				return
			}
			line.WriteHistory(f)
			f.Close()
		}()
	}

	s := NewSession(out, cfg.Format(), logger)
	var entry strings.Builder
	for {
		prompt := cfg.REPL.Prompt
		if s.Pending() {
			prompt = cfg.REPL.ContinuationPrompt
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			s.Reset()
			entry.Reset()
			fmt.Fprintln(out, "^C")
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			s.Flush()
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		keepGoing, more := s.handle(input)
		if !keepGoing {
			return nil
		}
		if entry.Len() > 0 {
			entry.WriteByte('\n')
		}
		entry.WriteString(input)
		if !more {
			if strings.TrimSpace(entry.String()) != "" {
				line.AppendHistory(entry.String())
			}
			entry.Reset()
		}
	}
}

// RunScript feeds lines from in (which needn't be a terminal) into a
// session without prompting, as if typed interactively.
func RunScript(in io.Reader, out io.Writer, format output.Format, logger *slog.Logger) error {
	s := NewSession(out, format, logger)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		keepGoing, _ := s.handle(scanner.Text())
		if !keepGoing {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	s.Flush()
	return nil
}
