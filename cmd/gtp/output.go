package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/clarete/gtp"
)

func writeTree(w io.Writer, tree gtp.AST, input string, cfg *gtp.Config) error {
	switch cfg.GetString("output.format") {
	case "yaml":
		return gtp.EncodeYAML(w, tree)
	case "pretty":
		_, err := fmt.Fprintln(w, gtp.Pretty(tree, input))
		return err
	default:
		return gtp.EncodeJSON(w, tree, strings.Repeat(" ", cfg.GetInt("output.indent")))
	}
}

// printGrammar writes the grammar back in its notation followed by a
// table of rules and another one of atoms
func printGrammar(w io.Writer, g *gtp.Grammar) error {
	if _, err := fmt.Fprintf(w, "Grammar parsed:\n%s\n", g); err != nil {
		return err
	}

	rules := newTable(w, "Rule", "Alternatives", "First")
	for _, name := range g.RuleNames() {
		rules.Append([]string{
			name,
			fmt.Sprintf("%d", len(g.Alternatives(name))),
			strings.Join(g.FirstFromRule(name), " "),
		})
	}
	rules.Render()

	atoms := newTable(w, "Atom", "Kind", "Pattern")
	for _, atom := range g.Atoms() {
		kind := "pattern"
		if atom.IsLiteral() {
			kind = "literal"
		}
		atoms.Append([]string{atom.Name, kind, atom.Expr()})
	}
	atoms.Render()
	return nil
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	aligns := make([]int, len(headers))
	for i := range aligns {
		aligns[i] = tablewriter.ALIGN_LEFT
	}
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnAlignment(aligns)
	table.SetAutoWrapText(false)
	return table
}
