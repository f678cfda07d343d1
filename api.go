package gtp

import (
	"fmt"
	"os"
)

// BuildGrammar reads a grammar written in the grammar notation.  The
// grammar is returned with default options: nothing is skipped and no
// node is collapsed.
//
// Statements end at newlines or semicolons, so a rule or an atom must
// fit in a single line, parenthesised groups included.
func BuildGrammar(source string) (*Grammar, error) {
	tree, err := NewBootstrapGrammar().Parse(source)
	if err != nil {
		return nil, err
	}
	return LowerGrammar(tree, source)
}

// MustBuildGrammar is like BuildGrammar but panics on errors.  It's
// meant for grammars that are part of a program.
func MustBuildGrammar(source string) *Grammar {
	g, err := BuildGrammar(source)
	if err != nil {
		panic(err)
	}
	return g
}

// Parse parses `input` with `g`, starting from its START rule
func Parse(g *Grammar, input string) (AST, error) {
	return g.Parse(input)
}

// GrammarFromBytes takes a `grammar` definition alongside with an
// instance of a configuration object and returns the Grammar with
// the options set in the configuration.
func GrammarFromBytes(grammar []byte, cfg *Config) (*Grammar, error) {
	g, err := BuildGrammar(string(grammar))
	if err != nil {
		return nil, err
	}
	return g.WithOptions(cfg.ParseOptions()), nil
}

// GrammarFromFile is like GrammarFromBytes but reads the grammar
// from the file at `path`
func GrammarFromFile(path string, cfg *Config) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar: %w", err)
	}
	return GrammarFromBytes(data, cfg)
}
