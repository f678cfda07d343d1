package gtp

import (
	"fmt"
	"strconv"
	"strings"
)

// AST is the output of a parse: either a *Node created for a rule
// invocation or a *Leaf holding the text of a retained token
type AST interface {
	// Type is the rule name of a Node or the token type of a Leaf
	Type() string

	// Range is the byte range of the input the tree covers
	Range() Range

	// Text concatenates the raw text of every Leaf within the tree
	Text() string

	isAST()
}

// Node is the result of one rule invocation
type Node struct {
	Name     string
	Children []AST
	Span     Range
}

// NewNode creates a node, never leaving its children nil
func NewNode(name string, children []AST, span Range) *Node {
	if children == nil {
		children = []AST{}
	}
	return &Node{Name: name, Children: children, Span: span}
}

func (n *Node) Type() string { return n.Name }
func (n *Node) Range() Range { return n.Span }
func (*Node) isAST()         {}

func (n *Node) Text() string {
	var s strings.Builder
	for _, child := range n.Children {
		s.WriteString(child.Text())
	}
	return s.String()
}

// Leaf is a retained token
type Leaf struct {
	Name string
	Raw  string
	Span Range
}

func NewLeaf(name, raw string, span Range) *Leaf {
	return &Leaf{Name: name, Raw: raw, Span: span}
}

func (l *Leaf) Type() string { return l.Name }
func (l *Leaf) Range() Range { return l.Span }
func (l *Leaf) Text() string { return l.Raw }
func (*Leaf) isAST()         {}

// Inspect traverses a tree in depth-first order.  It calls `f` for
// each tree; the children of a Node are skipped when `f` returns
// false.
func Inspect(tree AST, f func(AST) bool) {
	if tree == nil || !f(tree) {
		return
	}
	if n, ok := tree.(*Node); ok {
		for _, child := range n.Children {
			Inspect(child, f)
		}
	}
}

type FormatToken int

const (
	FormatToken_None FormatToken = iota
	FormatToken_Range
	FormatToken_Name
	FormatToken_Literal
)

var treePrinterTheme = map[FormatToken]string{
	FormatToken_None:    "\033[0m",          // reset
	FormatToken_Range:   "\033[1;31;5;228m", // orange
	FormatToken_Name:    "\033[1;38;5;99m",  // purple
	FormatToken_Literal: "\033[1;38;5;245m", // gray
}

// Pretty renders a tree with one line per node.  Positions are
// computed against `input`, which must be the text that was parsed.
func Pretty(tree AST, input string) string {
	pp := newPrettyPrinter(input, func(input string, _ FormatToken) string {
		return input
	})
	pp.visit(tree)
	return pp.output.String()
}

// Highlight is like Pretty but colors the output with ANSI escapes
func Highlight(tree AST, input string) string {
	pp := newPrettyPrinter(input, func(input string, token FormatToken) string {
		return treePrinterTheme[token] + input + treePrinterTheme[FormatToken_None]
	})
	pp.visit(tree)
	return pp.output.String()
}

type prettyPrinter struct {
	pos *posIndex
	*treePrinter[FormatToken]
}

func newPrettyPrinter(input string, format FormatFunc[FormatToken]) *prettyPrinter {
	return &prettyPrinter{
		pos:         newPosIndex(input),
		treePrinter: newTreePrinter(format),
	}
}

func (pp *prettyPrinter) visit(tree AST) {
	switch n := tree.(type) {
	case *Leaf:
		pp.write(pp.format(n.Name, FormatToken_Name))
		pp.write(" ")
		pp.write(pp.format(strconv.Quote(n.Raw), FormatToken_Literal))
		pp.write(pp.format(fmt.Sprintf(" (%s)", pp.formatPosition(n.Span)), FormatToken_Range))

	case *Node:
		pp.write(pp.format(n.Name, FormatToken_Name))
		pp.write(pp.format(fmt.Sprintf(" (%s)", pp.formatPosition(n.Span)), FormatToken_Range))
		for i, child := range n.Children {
			pp.writel("")
			switch {
			case i == len(n.Children)-1:
				pp.pwrite("└── ")
				pp.indent("    ")
			default:
				pp.pwrite("├── ")
				pp.indent("│   ")
			}
			pp.visit(child)
			pp.unindent()
		}
	}
}

// formatPosition formats a Range as "startLine:startCol..endLine:endCol",
// leaving lines out while the whole range is on the first line
func (pp *prettyPrinter) formatPosition(r Range) string {
	start := pp.pos.LocationAt(r.Start)
	end := pp.pos.LocationAt(r.End)
	if start.Line == end.Line && start.Line == 1 {
		if start.Column == end.Column {
			return fmt.Sprintf("%d", start.Column)
		}
		return fmt.Sprintf("%d..%d", start.Column, end.Column)
	}
	if start == end {
		return fmt.Sprintf("%d:%d", start.Line, start.Column)
	}
	return fmt.Sprintf("%d:%d..%d:%d", start.Line, start.Column, end.Line, end.Column)
}
