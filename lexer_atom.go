package gtp

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

// Atom is a lexical rule recognizing one token type, either by an
// exact literal or by a regular expression.  A list of atoms is
// ordered: the first one that matches wins, so keywords and operators
// must come before the generic patterns that would also match them.
type Atom struct {
	Name string

	// Literal is set for atoms matched by exact prefix comparison
	Literal string

	// Pattern is set for atoms matched by a regular expression.
	// It's always anchored at the start of the remaining input.
	Pattern *regexp.Regexp

	// source is the expression as it was declared, before anchoring
	source string
}

// NewLiteralAtom creates an atom that matches `literal` verbatim
func NewLiteralAtom(name, literal string) Atom {
	return Atom{Name: name, Literal: literal}
}

// NewPatternAtom compiles `pattern` into an atom that only matches at
// the very beginning of the remaining input
func NewPatternAtom(name, pattern string) (Atom, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Atom{}, &GrammarError{
			Kind:    InvalidPattern,
			Rule:    name,
			Message: fmt.Sprintf("atom `%s` has an invalid pattern: %s", name, describeRegexpError(err)),
		}
	}
	return Atom{Name: name, Pattern: re, source: pattern}, nil
}

// MustPatternAtom is like NewPatternAtom but panics on invalid
// patterns.  It's meant for grammars built by hand.
func MustPatternAtom(name, pattern string) Atom {
	a, err := NewPatternAtom(name, pattern)
	if err != nil {
		panic(err)
	}
	return a
}

// IsLiteral tells literal atoms apart from pattern ones
func (a Atom) IsLiteral() bool { return a.Pattern == nil }

// Expr returns the text an atom is declared with: the literal itself
// or the unanchored regular expression
func (a Atom) Expr() string {
	if a.IsLiteral() {
		return a.Literal
	}
	return a.source
}

func (a Atom) String() string {
	if a.IsLiteral() {
		return fmt.Sprintf("%s = %q", a.Name, a.Literal)
	}
	return fmt.Sprintf("%s = /%s/", a.Name, a.source)
}

// match returns how many bytes of `input` the atom consumes, or -1.
// Empty matches don't count: they'd produce empty tokens forever.
func (a Atom) match(input string) int {
	if a.IsLiteral() {
		if a.Literal != "" && strings.HasPrefix(input, a.Literal) {
			return len(a.Literal)
		}
		return -1
	}
	loc := a.Pattern.FindStringIndex(input)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return -1
	}
	return loc[1]
}

// matchAtom classifies the beginning of `input` as one token, using
// the first atom in declaration order that matches
func matchAtom(atoms []Atom, input string) (name string, size int, ok bool) {
	for _, atom := range atoms {
		if n := atom.match(input); n > 0 {
			return atom.Name, n, true
		}
	}
	return "", 0, false
}

func describeRegexpError(err error) string {
	if rerr, ok := err.(*syntax.Error); ok {
		return fmt.Sprintf("%s: `%s`", rerr.Code, rerr.Expr)
	}
	return err.Error()
}
