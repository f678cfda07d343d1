package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/clarete/gtp"
)

// repl parses each line typed at the prompt until Ctrl+C or Ctrl+D
func repl(parser *gtp.Parser, cfg *gtp.Config, stdout, stderr io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading prompt: %w", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		if err := evalLine(parser, cfg, input, stdout); err != nil {
			fmt.Fprint(stderr, gtp.RenderDiagnostic(input, err))
		}
	}
}

func evalLine(parser *gtp.Parser, cfg *gtp.Config, input string, w io.Writer) error {
	tree, err := parser.Parse(input)
	if err != nil {
		return err
	}
	if cfg.GetString("output.format") == "pretty" {
		_, err := fmt.Fprintln(w, gtp.Highlight(tree, input))
		return err
	}
	return writeTree(w, tree, input, cfg)
}
