package gtp

import (
	"fmt"
	"strings"
)

// FirstSymbols returns the symbols `p` can start with, in order.
// Duplicates are kept, and rule references aren't expanded.
func FirstSymbols(p Production) []Symbol {
	fc := &firstCollector{}
	p.Accept(fc)
	return fc.symbols
}

// firstCollector gathers the leading symbols of a production
type firstCollector struct{ symbols []Symbol }

func (fc *firstCollector) VisitSymbol(p *SymbolProduction) error {
	fc.symbols = append(fc.symbols, p.Symbol)
	return nil
}

func (fc *firstCollector) VisitGroup(p *GroupProduction) error {
	for _, item := range p.Items {
		item.Accept(fc)
		if !item.Nullable() {
			break
		}
	}
	return nil
}

func (fc *firstCollector) VisitOptional(p *OptionalProduction) error { return p.Expr.Accept(fc) }
func (fc *firstCollector) VisitRepeated(p *RepeatedProduction) error { return p.Expr.Accept(fc) }

func (fc *firstCollector) VisitAlternation(p *AlternationProduction) error {
	p.Left.Accept(fc)
	return p.Right.Accept(fc)
}

// tokenSet is an insertion ordered set of token types
type tokenSet []string

func (ts tokenSet) contains(t string) bool {
	for _, item := range ts {
		if item == t {
			return true
		}
	}
	return false
}

func (ts *tokenSet) add(types ...string) {
	for _, t := range types {
		if !ts.contains(t) {
			*ts = append(*ts, t)
		}
	}
}

// firstSets is the memo of FIRST sets computed once per Grammar
type firstSets struct {
	rules       map[string]tokenSet
	productions map[Production]tokenSet

	// empty holds the rules with an alternative that can match
	// without consuming any token
	empty map[string]bool
}

// derivesEmpty is Production.Nullable following rule references: a
// reference can match nothing when its rule is in `empty`
func derivesEmpty(p Production, empty map[string]bool) bool {
	switch p := p.(type) {
	case *SymbolProduction:
		return p.Symbol.IsRule() && empty[p.Symbol.Name]
	case *AlternationProduction:
		return derivesEmpty(p.Left, empty) || derivesEmpty(p.Right, empty)
	default:
		return p.Nullable()
	}
}

// emptyRules finds the rules that can match nothing, going over them
// again until no new one shows up
func emptyRules(rules []Rule) map[string]bool {
	empty := map[string]bool{}
	for changed := true; changed; {
		changed = false
		for _, rule := range rules {
			if !empty[rule.Name] && derivesEmpty(rule.Production, empty) {
				empty[rule.Name] = true
				changed = true
			}
		}
	}
	return empty
}

// firstResolver computes the token closure of FIRST sets.  It keeps
// the rules being expanded on a stack to detect rules that can begin
// with themselves, which would otherwise recurse forever.
type firstResolver struct {
	rules  []Rule
	index  map[string][]int
	memo   map[string]tokenSet
	active []string
}

func newFirstResolver(rules []Rule, index map[string][]int) *firstResolver {
	return &firstResolver{rules: rules, index: index, memo: map[string]tokenSet{}}
}

func (r *firstResolver) rule(name string) (tokenSet, error) {
	if ts, ok := r.memo[name]; ok {
		return ts, nil
	}
	for i, active := range r.active {
		if active == name {
			cycle := append(append([]string{}, r.active[i:]...), name)
			return nil, &GrammarError{
				Kind:    LeftRecursion,
				Rule:    name,
				Message: fmt.Sprintf("rule `%s` can begin with itself: %s", name, strings.Join(cycle, " -> ")),
			}
		}
	}
	alternatives, ok := r.index[name]
	if !ok {
		owner := name
		if n := len(r.active); n > 0 {
			owner = r.active[n-1]
		}
		return nil, undefinedRuleError(owner, name, r.rules)
	}

	r.active = append(r.active, name)
	defer func() { r.active = r.active[:len(r.active)-1] }()

	var ts tokenSet
	for _, i := range alternatives {
		alt, err := r.production(r.rules[i].Production)
		if err != nil {
			return nil, err
		}
		ts.add(alt...)
	}
	r.memo[name] = ts
	return ts, nil
}

func (r *firstResolver) production(p Production) (tokenSet, error) {
	var ts tokenSet
	for _, s := range FirstSymbols(p) {
		if s.IsToken() {
			ts.add(s.Name)
			continue
		}
		sub, err := r.rule(s.Name)
		if err != nil {
			return nil, err
		}
		ts.add(sub...)
	}
	return ts, nil
}

// computeFirstSets resolves the FIRST set of every rule name and of
// every production reachable from the rules
func computeFirstSets(rules []Rule, index map[string][]int) (*firstSets, error) {
	r := newFirstResolver(rules, index)
	for _, rule := range rules {
		if _, err := r.rule(rule.Name); err != nil {
			return nil, err
		}
	}
	fs := &firstSets{
		rules:       r.memo,
		productions: map[Production]tokenSet{},
		empty:       emptyRules(rules),
	}
	for _, rule := range rules {
		InspectProduction(rule.Production, func(p Production) bool {
			// can't fail: every rule is memoized at this point
			ts, _ := r.production(p)
			fs.productions[p] = ts
			return true
		})
	}
	return fs, nil
}

// checkAlternatives makes sure that a single token of lookahead is
// enough to pick among alternatives sharing a name
func checkAlternatives(rules []Rule, index map[string][]int, fs *firstSets) error {
	for _, name := range ruleNames(rules) {
		alternatives := index[name]
		if len(alternatives) < 2 {
			continue
		}
		seen := map[string]int{}
		nullable := -1
		for n, i := range alternatives {
			// the parser falls back to the first alternative that
			// can match nothing, so there can't be two of them
			if derivesEmpty(rules[i].Production, fs.empty) {
				if nullable >= 0 {
					return &GrammarError{
						Kind: AmbiguousAlternatives,
						Rule: name,
						Message: fmt.Sprintf(
							"alternatives %d and %d of rule `%s` can both match empty input",
							nullable+1, n+1, name),
					}
				}
				nullable = n
			}
			for _, t := range fs.productions[rules[i].Production] {
				if prev, ok := seen[t]; ok {
					return &GrammarError{
						Kind: AmbiguousAlternatives,
						Rule: name,
						Message: fmt.Sprintf(
							"alternatives %d and %d of rule `%s` can both start with `%s`",
							prev+1, n+1, name, t),
					}
				}
				seen[t] = n
			}
		}
	}
	return nil
}

// FirstFromRule returns the token types that can start any of the
// alternatives declared under `name`
func (g *Grammar) FirstFromRule(name string) []string {
	return append([]string(nil), g.first.rules[name]...)
}

// FirstTokens returns the token types that can start `p`
func (g *Grammar) FirstTokens(p Production) []string {
	return append([]string(nil), g.firstOf(p)...)
}

// Matches tells if `tokenType` can start the production `p`
func (g *Grammar) Matches(p Production, tokenType string) bool {
	return g.firstOf(p).contains(tokenType)
}

// MatchesEmpty tells if `p` can match without consuming any token.
// Unlike Production.Nullable, it follows references to rules that can
// match nothing.
func (g *Grammar) MatchesEmpty(p Production) bool {
	return derivesEmpty(p, g.first.empty)
}

func (g *Grammar) firstOf(p Production) tokenSet {
	if ts, ok := g.first.productions[p]; ok {
		return ts
	}
	// not part of this grammar, derive it from the memoized rules
	var ts tokenSet
	for _, s := range FirstSymbols(p) {
		if s.IsToken() {
			ts.add(s.Name)
		} else {
			ts.add(g.first.rules[s.Name]...)
		}
	}
	return ts
}
