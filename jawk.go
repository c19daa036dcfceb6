// jawk: parse AWK-like programs and show the typed syntax tree
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/benhoyt/jawk/internal/ast"
	"github.com/benhoyt/jawk/internal/config"
	"github.com/benhoyt/jawk/internal/output"
	"github.com/benhoyt/jawk/internal/parseutil"
	"github.com/benhoyt/jawk/internal/repl"
	"github.com/benhoyt/jawk/internal/resolver"
	"github.com/benhoyt/jawk/internal/watch"
	"github.com/benhoyt/jawk/lexer"
	"github.com/benhoyt/jawk/parser"
)

var version = "v0.1.0"

// Exit statuses.
const (
	exitOK     = 0
	exitError  = 1 // usage, I/O or config error
	exitSyntax = 2 // lex or parse error in the program
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the jawk command line and returns the exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, err)
	var syntaxErr *parser.SyntaxError
	var lexErr *lexer.Error
	if errors.As(err, &syntaxErr) || errors.As(err, &lexErr) {
		return exitSyntax
	}
	return exitError
}

// app holds the flag values and state shared by all subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	files      []string
	format     string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "jawk [flags] ['program' | -f progfile ...]",
		Short: "Parse a jawk program and print its typed syntax tree",
		Long: `jawk parses a program written in a small AWK-like language and prints
the syntax tree produced by the parser, with each expression tagged by
its provisional type: (v ...) not yet known, (s ...) string, (f ...) number.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := a.parse(args)
			if err != nil {
				return err
			}
			return output.WriteProgram(a.stdout, prog, a.cfg.Format())
		},
	}
	root.Version = version
	root.SetVersionTemplate("jawk version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringArrayVarP(&a.files, "file", "f", nil, "read program from `progfile` (may be repeated, - for stdin)")
	flags.StringVar(&a.format, "format", "", "output format: text or yaml (env JAWK_FORMAT)")
	flags.StringVar(&a.configPath, "config", "", "load settings from TOML `file`")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (env JAWK_LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tokens ['program']",
			Short: "Print the token stream of a program",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				src, files, err := a.source(args)
				if err != nil {
					return err
				}
				items, err := lexer.Lex(src)
				if err != nil {
					return locate(err, files)
				}
				return output.WriteTokens(a.stdout, items)
			},
		},
		&cobra.Command{
			Use:   "vars ['program']",
			Short: "Summarise the variables and fields a program uses",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				prog, err := a.parse(args)
				if err != nil {
					return err
				}
				return output.WriteVars(a.stdout, resolver.Resolve(prog))
			},
		},
		&cobra.Command{
			Use:   "repl",
			Short: "Parse programs interactively",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if isTerminal(a.stdin) {
					return repl.Run(a.cfg, a.stdout, a.logger)
				}
				return repl.RunScript(a.stdin, a.stdout, a.cfg.Format(), a.logger)
			},
		},
		&cobra.Command{
			Use:   "watch -f progfile ...",
			Short: "Re-parse and print program files whenever they change",
			Args:  cobra.NoArgs,
			RunE:  a.watch,
		},
	)
	return root
}

// setup loads the configuration and applies flag overrides, which
// take precedence over the config file and environment.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Logger(a.stderr)
	return nil
}

// source returns the program text, either from the -f files or from
// the single command line argument.
func (a *app) source(args []string) ([]byte, *parseutil.FileReader, error) {
	if len(a.files) > 0 {
		if len(args) > 0 {
			return nil, nil, errors.New("can't give both program text and -f files")
		}
		files, err := parseutil.ReadFiles(a.files, a.stdin)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("read program files", slog.Any("files", files.Paths()))
		return files.Source(), files, nil
	}
	if len(args) == 0 {
		return nil, nil, errors.New("no program given (use 'program' or -f progfile)")
	}
	return []byte(args[0]), nil, nil
}

func (a *app) parse(args []string) (*ast.Program, error) {
	src, files, err := a.source(args)
	if err != nil {
		return nil, err
	}
	prog, err := parser.ParseProgram(src, &parser.ParserConfig{Logger: a.logger})
	if err != nil {
		return nil, locate(err, files)
	}
	return prog, nil
}

func (a *app) watch(cmd *cobra.Command, args []string) error {
	if len(a.files) == 0 {
		return errors.New("watch needs at least one -f progfile")
	}
	for _, f := range a.files {
		if f == "-" {
			return errors.New("can't watch stdin")
		}
	}
	show := func() {
		prog, err := a.parse(nil)
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return
		}
		if err := output.WriteProgram(a.stdout, prog, a.cfg.Format()); err != nil {
			fmt.Fprintln(a.stderr, err)
		}
	}

	w, err := watch.New(a.files, a.cfg.Watch.Debounce.Duration, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	show()
	err = w.Run(cmd.Context(), func(path string) {
		a.logger.Info("program changed", slog.String("file", path))
		fmt.Fprintf(a.stdout, "--- %s changed\n", path)
		show()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sourceError reports a lex or parse error relative to the -f file
// it occurred in.
type sourceError struct {
	err   error
	files *parseutil.FileReader
}

func (e *sourceError) Error() string {
	var syntaxErr *parser.SyntaxError
	var lexErr *lexer.Error
	switch {
	case errors.As(e.err, &syntaxErr):
		return "parse error at " + e.files.Locate(syntaxErr.Position) + ": " + syntaxErr.Message()
	case errors.As(e.err, &lexErr):
		return "lex error at " + e.files.Locate(lexErr.Position) + ": " + lexErr.Message
	default:
		return e.err.Error()
	}
}

func (e *sourceError) Unwrap() error {
	return e.err
}

func locate(err error, files *parseutil.FileReader) error {
	if files == nil {
		return err
	}
	return &sourceError{err, files}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
