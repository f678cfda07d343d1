package gtp

import (
	"regexp"
	"strings"
)

type GrammarFormatToken int

const (
	GrammarFormatToken_None GrammarFormatToken = iota
	GrammarFormatToken_Rule
	GrammarFormatToken_Token
	GrammarFormatToken_Operator
	GrammarFormatToken_Literal
)

// grammarPrinterTheme maps the tokens of the grammar notation to ASCII
// colors that read fine on both dark and light terminals
var grammarPrinterTheme = map[GrammarFormatToken]string{
	GrammarFormatToken_None:     "\033[0m",          // reset
	GrammarFormatToken_Rule:     "\033[1;38;5;99m",  // purple
	GrammarFormatToken_Token:    "\033[1;38;5;127m", // pink
	GrammarFormatToken_Operator: "\033[1;38;5;245m", // gray
	GrammarFormatToken_Literal:  "\033[1;31;5;228m", // orange
}

func plainGrammarFormat(input string, _ GrammarFormatToken) string { return input }

func highlightGrammarFormat(input string, token GrammarFormatToken) string {
	return grammarPrinterTheme[token] + input + grammarPrinterTheme[GrammarFormatToken_None]
}

// String renders the grammar in the notation BuildGrammar reads.  Only
// grammars built from text are guaranteed to read back the same: the
// notation keeps the text of every token, so references to tokens that
// drop it print like any other, and literal atoms print as patterns.
func (g *Grammar) String() string {
	return printGrammar(g, plainGrammarFormat)
}

// Highlight is like String but colors the output with ANSI escapes
func (g *Grammar) Highlight() string {
	return printGrammar(g, highlightGrammarFormat)
}

func printGrammar(g *Grammar, format FormatFunc[GrammarFormatToken]) string {
	gp := &grammarPrinter{newTreePrinter(format)}

	width := 0
	for _, rule := range g.rules {
		width = max(width, len(rule.Name))
	}
	for _, rule := range g.rules {
		gp.write(gp.format(rule.Name, GrammarFormatToken_Rule))
		gp.write(strings.Repeat(" ", width-len(rule.Name)))
		gp.write(gp.format(" -> ", GrammarFormatToken_Operator))
		rule.Production.Accept(gp)
		gp.writel("")
	}

	if len(g.atoms) > 0 && len(g.rules) > 0 {
		gp.writel("")
	}

	width = 0
	for _, atom := range g.atoms {
		width = max(width, len(atom.Name))
	}
	for _, atom := range g.atoms {
		gp.write(gp.format(">", GrammarFormatToken_Operator))
		gp.write(gp.format(atom.Name, GrammarFormatToken_Token))
		gp.write(strings.Repeat(" ", width-len(atom.Name)))
		gp.write(gp.format(" -> ", GrammarFormatToken_Operator))
		gp.write(gp.format("'"+atomPattern(atom)+"'", GrammarFormatToken_Literal))
		gp.writel("")
	}
	return gp.output.String()
}

// atomPattern is the notation for an atom, which is always read back
// as a regular expression
func atomPattern(a Atom) string {
	if a.IsLiteral() {
		return regexp.QuoteMeta(a.Literal)
	}
	return a.Expr()
}

// printProduction renders a single production without colors
func printProduction(p Production) string {
	gp := &grammarPrinter{newTreePrinter(plainGrammarFormat)}
	p.Accept(gp)
	return gp.output.String()
}

type grammarPrinter struct {
	*treePrinter[GrammarFormatToken]
}

func (gp *grammarPrinter) VisitSymbol(p *SymbolProduction) error {
	if p.Symbol.IsRule() {
		gp.write(gp.format(p.Symbol.Name, GrammarFormatToken_Rule))
	} else {
		gp.write(gp.format(p.Symbol.Name, GrammarFormatToken_Token))
	}
	return nil
}

func (gp *grammarPrinter) VisitGroup(p *GroupProduction) error {
	gp.write(gp.format("(", GrammarFormatToken_Operator))
	for i, item := range p.Items {
		if i > 0 {
			gp.write(" ")
		}
		item.Accept(gp)
	}
	gp.write(gp.format(")", GrammarFormatToken_Operator))
	return nil
}

func (gp *grammarPrinter) VisitOptional(p *OptionalProduction) error {
	gp.writeSuffixed(p.Expr, "?")
	return nil
}

func (gp *grammarPrinter) VisitRepeated(p *RepeatedProduction) error {
	gp.writeSuffixed(p.Expr, "*")
	return nil
}

func (gp *grammarPrinter) VisitAlternation(p *AlternationProduction) error {
	p.Left.Accept(gp)
	gp.write(gp.format(" | ", GrammarFormatToken_Operator))
	// alternations nest to the left, so one on the right needs
	// parens to be read back the same way
	if _, ok := p.Right.(*AlternationProduction); ok {
		gp.write(gp.format("(", GrammarFormatToken_Operator))
		p.Right.Accept(gp)
		gp.write(gp.format(")", GrammarFormatToken_Operator))
		return nil
	}
	return p.Right.Accept(gp)
}

// writeSuffixed writes `p` followed by a suffix operator, which the
// notation only allows after a parenthesized group
func (gp *grammarPrinter) writeSuffixed(p Production, suffix string) {
	if _, ok := p.(*GroupProduction); ok {
		p.Accept(gp)
	} else {
		gp.write(gp.format("(", GrammarFormatToken_Operator))
		p.Accept(gp)
		gp.write(gp.format(")", GrammarFormatToken_Operator))
	}
	gp.write(gp.format(suffix, GrammarFormatToken_Operator))
}
