package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clarete/gtp"
)

// errFailed is returned once a diagnostic was already printed, so
// there's nothing left to report besides the exit status
var errFailed = errors.New("failed")

type rootFlags struct {
	output    string
	indent    int
	inputFile string
	stdin     bool

	ignoreAll        bool
	ignoreNewline    bool
	ignoreWhitespace bool
	bubble           bool

	interactive bool
	debug       bool
}

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "gtp GRAMMAR [INPUT]",
		Short: "Parse input text with a grammar and output the syntax tree",
		Long: `Parse input text with the grammar declared in the file GRAMMAR and
output the syntax tree.

The text to parse comes from the INPUT argument, from the file given
with --input-file or from the standard input with --stdin.  Without
any of them, the grammar is printed back along with a summary of its
rules and atoms.

Every flag can also be set with a GTP_ prefixed environment variable,
like GTP_IGNORE_ALL=true.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return checkEnvironmentVariables(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(&f, args, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "json", "format of the output: json, yaml or pretty")
	flags.IntVar(&f.indent, "indent", 0, "spaces per level of the json output")
	flags.StringVarP(&f.inputFile, "input-file", "i", "", "read the input text from a file")
	flags.BoolVar(&f.stdin, "stdin", false, "read the input text from the standard input")
	flags.BoolVar(&f.ignoreAll, "ignore-all", false, "same as --ignore-newline and --ignore-whitespace")
	flags.BoolVar(&f.ignoreNewline, "ignore-newline", false, "skip newlines between tokens")
	flags.BoolVar(&f.ignoreWhitespace, "ignore-whitespace", false, "skip spaces and tabs between tokens")
	flags.BoolVar(&f.bubble, "bubble", false, "replace nodes with a single child with the child itself")
	flags.BoolVar(&f.interactive, "interactive", false, "read inputs line by line from a prompt")
	flags.BoolVar(&f.debug, "debug", false, "log what the parser is doing")

	return cmd
}

func (f *rootFlags) config() (*gtp.Config, error) {
	format := strings.ToLower(f.output)
	switch format {
	case "json", "yaml", "pretty":
	case "yml":
		format = "yaml"
	default:
		return nil, fmt.Errorf("unknown output format `%s`", f.output)
	}
	if f.indent < 0 {
		return nil, fmt.Errorf("indent can't be negative")
	}
	cfg := gtp.NewConfig()
	cfg.SetBool("lexer.skip_whitespace", f.ignoreWhitespace || f.ignoreAll)
	cfg.SetBool("lexer.skip_newline", f.ignoreNewline || f.ignoreAll)
	cfg.SetBool("tree.collapse", f.bubble)
	cfg.SetString("output.format", format)
	cfg.SetInt("output.indent", f.indent)
	return cfg, nil
}

func run(f *rootFlags, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := f.config()
	if err != nil {
		return err
	}

	log := logrus.StandardLogger()
	log.SetOutput(stderr)
	if f.debug {
		log.SetLevel(logrus.DebugLevel)
		cfg.Debug(stderr)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading grammar: %w", err)
	}
	g, err := gtp.GrammarFromBytes(source, cfg)
	if err != nil {
		fmt.Fprint(stderr, gtp.RenderDiagnostic(string(source), err))
		return errFailed
	}
	parser := gtp.NewParser(g, gtp.WithLogger(log))

	if f.interactive {
		return repl(parser, cfg, stdout, stderr)
	}

	input, ok, err := f.readInput(args, stdin)
	if err != nil {
		return err
	}
	if !ok {
		return printGrammar(stdout, g)
	}

	tree, err := parser.Parse(input)
	if err != nil {
		fmt.Fprint(stderr, gtp.RenderDiagnostic(input, err))
		return errFailed
	}
	return writeTree(stdout, tree, input, cfg)
}

// readInput picks the text to parse from the positional argument, the
// input file or the standard input, in this order
func (f *rootFlags) readInput(args []string, stdin io.Reader) (string, bool, error) {
	switch {
	case len(args) > 1:
		return args[1], true, nil
	case f.inputFile != "":
		data, err := os.ReadFile(f.inputFile)
		if err != nil {
			return "", false, fmt.Errorf("reading input: %w", err)
		}
		return string(data), true, nil
	case f.stdin:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("reading input: %w", err)
		}
		return string(data), true, nil
	default:
		return "", false, nil
	}
}
