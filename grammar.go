package gtp

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// StartRule is the name of the rule a parse begins with
const StartRule = "START"

// Rule is one named alternative.  Rules sharing a name form an
// ordered choice that is resolved with a single token of lookahead.
type Rule struct {
	Name       string
	Production Production
}

func NewRule(name string, p Production) Rule {
	return Rule{Name: name, Production: p}
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.Name, r.Production)
}

// ParseOptions control lexing and the shape of the output tree
type ParseOptions struct {
	// SkipWhitespace ignores spaces, tabs and carriage returns
	// around tokens
	SkipWhitespace bool

	// SkipNewline ignores line feeds around tokens
	SkipNewline bool

	// CollapseSingletons replaces every Node that ends up with
	// exactly one child with that child
	CollapseSingletons bool
}

// Grammar is a complete parsing specification.  It's never modified
// after NewGrammar returns, so any number of parses can share it.
type Grammar struct {
	rules   []Rule
	atoms   []Atom
	options ParseOptions

	// index maps rule names to the positions of their
	// alternatives within `rules`, in declaration order
	index map[string][]int

	first *firstSets
}

// NewGrammar validates rules and atoms and returns a Grammar ready for
// parsing.  Every referenced rule and token must be declared, the
// START rule must exist, no rule may begin with itself, and
// alternatives sharing a name must start with distinct tokens.
func NewGrammar(rules []Rule, atoms []Atom, options ParseOptions) (*Grammar, error) {
	rules = append([]Rule(nil), rules...)
	atoms = append([]Atom(nil), atoms...)
	index := indexRules(rules)

	if _, ok := index[StartRule]; !ok {
		return nil, &GrammarError{
			Kind:    MalformedGrammar,
			Rule:    StartRule,
			Message: fmt.Sprintf("grammar has no `%s` rule", StartRule),
		}
	}
	if err := checkReferences(rules, atoms, index); err != nil {
		return nil, err
	}
	first, err := computeFirstSets(rules, index)
	if err != nil {
		return nil, err
	}
	if err := checkAlternatives(rules, index, first); err != nil {
		return nil, err
	}
	return &Grammar{
		rules:   rules,
		atoms:   atoms,
		options: options,
		index:   index,
		first:   first,
	}, nil
}

// MustGrammar is like NewGrammar but panics if the grammar is invalid
func MustGrammar(rules []Rule, atoms []Atom, options ParseOptions) *Grammar {
	g, err := NewGrammar(rules, atoms, options)
	if err != nil {
		panic(err)
	}
	return g
}

// WithOptions returns a grammar identical to `g` except for its
// options.  Both grammars share the rules, atoms and FIRST sets.
func (g *Grammar) WithOptions(options ParseOptions) *Grammar {
	ng := *g
	ng.options = options
	return &ng
}

func (g *Grammar) Options() ParseOptions { return g.options }

func (g *Grammar) Rules() []Rule { return append([]Rule(nil), g.rules...) }

func (g *Grammar) Atoms() []Atom { return append([]Atom(nil), g.atoms...) }

// RuleNames returns each rule name once, in order of first declaration
func (g *Grammar) RuleNames() []string { return ruleNames(g.rules) }

// Alternatives returns the rules declared under `name`
func (g *Grammar) Alternatives(name string) []Rule {
	var alternatives []Rule
	for _, i := range g.index[name] {
		alternatives = append(alternatives, g.rules[i])
	}
	return alternatives
}

// CheckAlternatives reports the first pair of same-named rules whose
// FIRST sets overlap, without requiring a complete grammar.  Rules
// beginning with themselves are reported as well.
func CheckAlternatives(rules []Rule) error {
	index := indexRules(rules)
	first, err := computeFirstSets(rules, index)
	if err != nil {
		return err
	}
	return checkAlternatives(rules, index, first)
}

func indexRules(rules []Rule) map[string][]int {
	index := make(map[string][]int, len(rules))
	for i, rule := range rules {
		index[rule.Name] = append(index[rule.Name], i)
	}
	return index
}

func ruleNames(rules []Rule) []string {
	seen := make(map[string]struct{}, len(rules))
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		if _, ok := seen[rule.Name]; ok {
			continue
		}
		seen[rule.Name] = struct{}{}
		names = append(names, rule.Name)
	}
	return names
}

// checkReferences makes sure every symbol within the rules resolves
// to a declared rule or atom
func checkReferences(rules []Rule, atoms []Atom, index map[string][]int) error {
	atomNames := make(map[string]struct{}, len(atoms))
	for _, atom := range atoms {
		atomNames[atom.Name] = struct{}{}
	}
	for _, rule := range rules {
		if rule.Production == nil {
			return &GrammarError{
				Kind:    MalformedGrammar,
				Rule:    rule.Name,
				Message: fmt.Sprintf("rule `%s` has no production", rule.Name),
			}
		}
		var err error
		InspectProduction(rule.Production, func(p Production) bool {
			sp, ok := p.(*SymbolProduction)
			if !ok || err != nil {
				return err == nil
			}
			switch sp.Symbol.Kind {
			case RuleSymbol:
				if _, ok := index[sp.Symbol.Name]; !ok {
					err = undefinedRuleError(rule.Name, sp.Symbol.Name, rules)
				}
			case TokenSymbol:
				if _, ok := atomNames[sp.Symbol.Name]; !ok {
					err = &GrammarError{
						Kind:    UndefinedToken,
						Rule:    rule.Name,
						Message: fmt.Sprintf("rule `%s` references undefined token `%s`", rule.Name, sp.Symbol.Name),
						Hint:    didYouMean(sp.Symbol.Name, atomNamesOf(atoms)),
					}
				}
			}
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func undefinedRuleError(owner, name string, rules []Rule) *GrammarError {
	return &GrammarError{
		Kind:    MalformedGrammar,
		Rule:    owner,
		Message: fmt.Sprintf("rule `%s` references undefined rule `%s`", owner, name),
		Hint:    didYouMean(name, ruleNames(rules)),
	}
}

func atomNamesOf(atoms []Atom) []string {
	names := make([]string, len(atoms))
	for i, atom := range atoms {
		names[i] = atom.Name
	}
	return names
}

// didYouMean suggests the candidate closest to `name`, as long as it's
// close enough to look like a typo
func didYouMean(name string, candidates []string) string {
	best, bestDistance := "", -1
	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(name, candidate)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	if bestDistance < 0 || bestDistance > maxTypoDistance(name) {
		return ""
	}
	return fmt.Sprintf("did you mean `%s`?", best)
}

func maxTypoDistance(name string) int {
	n := len([]rune(name)) / 2
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}
