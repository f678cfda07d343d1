package gtp

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// LowerGrammar turns the tree the bootstrap grammar produced out of
// `source` into a Grammar.  Errors point into `source`.
func LowerGrammar(tree AST, source string) (*Grammar, error) {
	c := newGrammarCompiler(source, logrus.StandardLogger())
	if err := c.compile(tree); err != nil {
		return nil, err
	}
	return c.grammar()
}

// grammarCompiler lowers statements in the order they're declared,
// which is also the order that defines rule and atom priority
type grammarCompiler struct {
	source string
	pos    *posIndex
	log    logrus.FieldLogger

	rules []Rule
	atoms []Atom

	// declarations is where each rule or atom name is declared
	// for the first time, used to point errors at the source
	declarations map[string]Location
}

func newGrammarCompiler(source string, log logrus.FieldLogger) *grammarCompiler {
	c := &grammarCompiler{
		source:       source,
		pos:          newPosIndex(source),
		declarations: map[string]Location{},
	}
	if debugEnabled(log) {
		c.log = log
	}
	return c
}

func (c *grammarCompiler) compile(tree AST) error {
	var err error
	Inspect(tree, func(t AST) bool {
		n, ok := t.(*Node)
		if !ok || err != nil {
			return false
		}
		switch n.Name {
		case "RULE":
			err = c.compileRule(n)
			return false
		case "ATOM":
			err = c.compileAtom(n)
			return false
		}
		return true
	})
	return err
}

func (c *grammarCompiler) grammar() (*Grammar, error) {
	if len(c.rules) == 0 {
		return nil, &GrammarError{
			Kind:    MalformedGrammar,
			Rule:    StartRule,
			Message: "grammar declares no rules",
		}
	}
	g, err := NewGrammar(c.rules, c.atoms, ParseOptions{})
	if err != nil {
		if gerr, ok := err.(*GrammarError); ok && !gerr.HasLocation {
			if loc, ok := c.declarations[gerr.Rule]; ok {
				gerr.Location, gerr.HasLocation = loc, true
			}
		}
		return nil, err
	}
	return g, nil
}

// RULE -> ident PROD
func (c *grammarCompiler) compileRule(n *Node) error {
	name, err := c.leaf(n, 0)
	if err != nil {
		return err
	}
	if !startsWith(name.Raw, unicode.IsUpper) {
		return c.errorAt(name.Span.Start, &GrammarError{
			Kind:    InvalidName,
			Rule:    name.Raw,
			Message: fmt.Sprintf("rule `%s` must start with an uppercase letter", name.Raw),
		})
	}
	prod, err := c.node(n, 1, "PROD")
	if err != nil {
		return err
	}
	items, err := c.compileItems(prod)
	if err != nil {
		return err
	}
	rule := NewRule(name.Raw, sequence(items))
	c.declare(name)
	c.rules = append(c.rules, rule)
	if c.log != nil {
		c.log.WithField("rule", rule.String()).Debug("lowered rule")
	}
	return nil
}

// ATOM -> ident quote (PATTERN)? quote
func (c *grammarCompiler) compileAtom(n *Node) error {
	name, err := c.leaf(n, 0)
	if err != nil {
		return err
	}
	if startsWith(name.Raw, unicode.IsUpper) {
		return c.errorAt(name.Span.Start, &GrammarError{
			Kind:    InvalidName,
			Rule:    name.Raw,
			Message: fmt.Sprintf("atom `%s` can't start with an uppercase letter", name.Raw),
		})
	}
	if len(n.Children) < 3 {
		return c.unexpected(n)
	}
	open, err := c.leaf(n, 1)
	if err != nil {
		return err
	}
	closing, err := c.leaf(n, len(n.Children)-1)
	if err != nil {
		return err
	}
	// the pattern is taken verbatim from the source, as its pieces
	// were tokenized with the notation's own atoms and spaces between
	// them were skipped
	pattern := c.source[open.Span.End:closing.Span.Start]
	if pattern == "" {
		return c.errorAt(open.Span.End, &GrammarError{
			Kind:    InvalidPattern,
			Rule:    name.Raw,
			Message: fmt.Sprintf("atom `%s` has an empty pattern", name.Raw),
		})
	}
	atom, err := NewPatternAtom(name.Raw, pattern)
	if err != nil {
		return c.errorAt(open.Span.End, err.(*GrammarError))
	}
	c.declare(name)
	c.atoms = append(c.atoms, atom)
	if c.log != nil {
		c.log.WithField("atom", atom.String()).Debug("lowered atom")
	}
	return nil
}

// PROD -> ITEM ((pipe)? ITEM)*
//
// An item preceded by a pipe is the right side of an alternation
// whose left side is the item right before it.
func (c *grammarCompiler) compileItems(n *Node) ([]Production, error) {
	var (
		items     []Production
		alternate bool
	)
	for _, child := range n.Children {
		switch child := child.(type) {
		case *Leaf:
			alternate = child.Name == tokPipe
		case *Node:
			item, err := c.compileItem(child)
			if err != nil {
				return nil, err
			}
			if alternate && len(items) > 0 {
				items[len(items)-1] = NewAlternation(items[len(items)-1], item)
			} else {
				items = append(items, item)
			}
			alternate = false
		}
	}
	if len(items) == 0 {
		return nil, c.unexpected(n)
	}
	return items, nil
}

// ITEM -> TERM | GROUP
func (c *grammarCompiler) compileItem(n *Node) (Production, error) {
	if len(n.Children) != 1 {
		return nil, c.unexpected(n)
	}
	child, ok := n.Children[0].(*Node)
	if !ok {
		return nil, c.unexpected(n)
	}
	switch child.Name {
	case "TERM":
		ident, err := c.leaf(child, 0)
		if err != nil {
			return nil, err
		}
		if startsWith(ident.Raw, unicode.IsUpper) {
			return RuleRef(ident.Raw), nil
		}
		return RawTokenRef(ident.Raw), nil
	case "GROUP":
		return c.compileGroup(child)
	default:
		return nil, c.unexpected(child)
	}
}

// GROUP -> PROD (star | question)?
func (c *grammarCompiler) compileGroup(n *Node) (Production, error) {
	prod, err := c.node(n, 0, "PROD")
	if err != nil {
		return nil, err
	}
	items, err := c.compileItems(prod)
	if err != nil {
		return nil, err
	}
	group := NewGroup(items...)
	if len(n.Children) < 2 {
		return group, nil
	}
	suffix, err := c.leaf(n, 1)
	if err != nil {
		return nil, err
	}
	switch suffix.Name {
	case tokStar:
		return NewRepeated(group), nil
	case tokQuestion:
		return NewOptional(group), nil
	default:
		return nil, c.unexpected(suffix)
	}
}

func (c *grammarCompiler) declare(name *Leaf) {
	if _, ok := c.declarations[name.Raw]; !ok {
		c.declarations[name.Raw] = c.pos.LocationAt(name.Span.Start)
	}
}

func (c *grammarCompiler) leaf(n *Node, i int) (*Leaf, error) {
	if i < len(n.Children) {
		if l, ok := n.Children[i].(*Leaf); ok {
			return l, nil
		}
	}
	return nil, c.unexpected(n)
}

func (c *grammarCompiler) node(n *Node, i int, name string) (*Node, error) {
	if i < len(n.Children) {
		if child, ok := n.Children[i].(*Node); ok && child.Name == name {
			return child, nil
		}
	}
	return nil, c.unexpected(n)
}

// unexpected reports a tree that didn't come out of the bootstrap
// grammar, or came out of it with singletons collapsed
func (c *grammarCompiler) unexpected(t AST) error {
	return c.errorAt(t.Range().Start, &GrammarError{
		Kind:    MalformedGrammar,
		Rule:    t.Type(),
		Message: fmt.Sprintf("unexpected `%s` in grammar tree", t.Type()),
	})
}

func (c *grammarCompiler) errorAt(cursor int, err *GrammarError) *GrammarError {
	err.Location, err.HasLocation = c.pos.LocationAt(cursor), true
	return err
}

func sequence(items []Production) Production {
	if len(items) == 1 {
		return items[0]
	}
	return NewGroup(items...)
}

func startsWith(s string, class func(rune) bool) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && class(r)
}
