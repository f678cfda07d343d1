package gtp

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Parser runs the predictive recursive descent of a Grammar.  It holds
// no per-parse state, so it's as shareable as the Grammar itself.
type Parser struct {
	grammar *Grammar
	log     logrus.FieldLogger
}

type ParserOption func(*Parser)

// WithLogger sets where the parser reports its debug messages.  They
// are only produced when the logger has the debug level enabled.
func WithLogger(log logrus.FieldLogger) ParserOption {
	return func(p *Parser) { p.log = log }
}

func NewParser(g *Grammar, options ...ParserOption) *Parser {
	p := &Parser{grammar: g, log: logrus.StandardLogger()}
	for _, option := range options {
		option(p)
	}
	return p
}

// Parse parses the whole `input` starting from the START rule
func (p *Parser) Parse(input string) (AST, error) {
	return p.ParseRule(StartRule, input)
}

// ParseRule parses the whole `input` starting from the rule `name`.
// Tokens left over after the rule is complete are an error.
func (p *Parser) ParseRule(name, input string) (AST, error) {
	if _, ok := p.grammar.index[name]; !ok {
		return nil, &GrammarError{
			Kind:    MalformedGrammar,
			Rule:    name,
			Message: fmt.Sprintf("grammar has no `%s` rule", name),
			Hint:    didYouMean(name, p.grammar.RuleNames()),
		}
	}
	var log logrus.FieldLogger
	if debugEnabled(p.log) {
		log = p.log
	}
	d := &descent{
		grammar: p.grammar,
		stream:  newTokenStream(input, p.grammar, log),
		log:     log,
	}
	tree, err := d.parseRule(name)
	if err != nil {
		return nil, err
	}
	if t := d.stream.Peek(); t != nil {
		return nil, d.errorAt(t, &ParsingError{
			Kind:       TrailingInput,
			Message:    fmt.Sprintf("trailing input starting with %s", describeToken(t)),
			Production: name,
		})
	}
	if err := d.stream.Err(); err != nil {
		return nil, err
	}
	return tree, nil
}

// Parse parses the whole `input` with a default Parser
func (g *Grammar) Parse(input string) (AST, error) {
	return NewParser(g).Parse(input)
}

// debugEnabled tells if it's worth building debug messages for `log`
func debugEnabled(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case nil:
		return false
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.DebugLevel)
	default:
		return true
	}
}

// descent is the state of a single parse.  It walks productions as a
// ProductionVisitor, appending the trees each of them emits to `out`.
type descent struct {
	grammar *Grammar
	stream  *tokenStream
	log     logrus.FieldLogger

	// rule is the name of the rule being parsed
	rule string

	// out collects the children of the rule being parsed
	out []AST
}

func (d *descent) parseRule(name string) (AST, error) {
	alternatives, ok := d.grammar.index[name]
	if !ok {
		// NewGrammar rejects undefined references, so this is
		// only reachable with a broken Grammar value
		panic(undefinedRuleError(d.rule, name, d.grammar.rules))
	}

	t := d.stream.Peek()
	if t == nil {
		if err := d.stream.Err(); err != nil {
			return nil, err
		}
	}
	chosen, n := d.choose(alternatives, t)
	if chosen == nil {
		expected := d.grammar.FirstFromRule(name)
		if t == nil {
			return nil, d.errorAt(nil, &ParsingError{
				Kind:       NoAlternativeMatches,
				Message:    fmt.Sprintf("`%s` expects %s but input ended", name, oneOf(expected)),
				Production: name,
				Expected:   expected,
			})
		}
		return nil, d.errorAt(t, &ParsingError{
			Kind: NoAlternativeMatches,
			Message: fmt.Sprintf("no alternative of `%s` starts with %s, expected %s",
				name, describeToken(t), oneOf(expected)),
			Production: name,
			Expected:   expected,
		})
	}
	if d.log != nil {
		fields := logrus.Fields{"rule": name, "alternative": n + 1}
		if t != nil {
			fields["lookahead"] = t.Type
		}
		d.log.WithFields(fields).Debug("enter rule")
	}

	start := d.stream.Cursor()
	parentRule, parentOut := d.rule, d.out
	d.rule, d.out = name, nil
	err := chosen.Accept(d)
	children := d.out
	d.rule, d.out = parentRule, parentOut
	if err != nil {
		return nil, err
	}

	if d.grammar.options.CollapseSingletons && len(children) == 1 {
		return children[0], nil
	}
	end := d.stream.lastEnd
	if end < start {
		end = start
	}
	return NewNode(name, children, NewRange(start, end)), nil
}

// choose picks the first alternative that can start with the token
// `t`.  When none can, the first alternative that can match nothing
// at all is taken, leaving `t` to whatever follows the rule.  That
// includes a reference to another rule that can match nothing.
func (d *descent) choose(alternatives []int, t *Token) (Production, int) {
	if t != nil {
		for n, i := range alternatives {
			if p := d.grammar.rules[i].Production; d.grammar.Matches(p, t.Type) {
				return p, n
			}
		}
	}
	for n, i := range alternatives {
		if p := d.grammar.rules[i].Production; d.grammar.MatchesEmpty(p) {
			return p, n
		}
	}
	return nil, -1
}

func (d *descent) VisitSymbol(p *SymbolProduction) error {
	if p.Symbol.IsRule() {
		tree, err := d.parseRule(p.Symbol.Name)
		if err != nil {
			return err
		}
		d.out = append(d.out, tree)
		return nil
	}

	t := d.stream.Peek()
	if t == nil {
		if err := d.stream.Err(); err != nil {
			return err
		}
		return d.errorAt(nil, &ParsingError{
			Kind:       UnexpectedToken,
			Message:    fmt.Sprintf("expected `%s` but input ended", p.Symbol.Name),
			Production: d.rule,
			Expected:   []string{p.Symbol.Name},
		})
	}
	if t.Type != p.Symbol.Name {
		return d.errorAt(t, &ParsingError{
			Kind:       UnexpectedToken,
			Message:    fmt.Sprintf("expected `%s` but found %s", p.Symbol.Name, describeToken(t)),
			Production: d.rule,
			Expected:   []string{p.Symbol.Name},
		})
	}
	d.stream.Advance()
	if p.Symbol.Retain {
		d.out = append(d.out, NewLeaf(t.Type, t.Raw, t.Range))
	}
	return nil
}

func (d *descent) VisitGroup(p *GroupProduction) error {
	for _, item := range p.Items {
		if err := item.Accept(d); err != nil {
			return err
		}
	}
	return nil
}

func (d *descent) VisitOptional(p *OptionalProduction) error {
	if t := d.stream.Peek(); t != nil && d.grammar.Matches(p.Expr, t.Type) {
		return p.Expr.Accept(d)
	}
	return nil
}

func (d *descent) VisitRepeated(p *RepeatedProduction) error {
	for {
		t := d.stream.Peek()
		if t == nil || !d.grammar.Matches(p.Expr, t.Type) {
			return nil
		}
		if err := p.Expr.Accept(d); err != nil {
			return err
		}
		// a body that matched without consuming anything would
		// match again forever
		if d.stream.Cursor() == t.Range.Start {
			return nil
		}
	}
}

func (d *descent) VisitAlternation(p *AlternationProduction) error {
	t := d.stream.Peek()
	if t == nil {
		if err := d.stream.Err(); err != nil {
			return err
		}
		switch {
		case d.grammar.MatchesEmpty(p.Left):
			return p.Left.Accept(d)
		case d.grammar.MatchesEmpty(p.Right):
			return p.Right.Accept(d)
		}
		expected := d.grammar.FirstTokens(p)
		return d.errorAt(nil, &ParsingError{
			Kind:       NoAlternativeMatches,
			Message:    fmt.Sprintf("expected %s but input ended", oneOf(expected)),
			Production: d.rule,
			Expected:   expected,
		})
	}
	if d.grammar.Matches(p.Left, t.Type) {
		return p.Left.Accept(d)
	}
	return p.Right.Accept(d)
}

// errorAt completes `err` with the position of the token `t`, or with
// the end of the input when `t` is nil
func (d *descent) errorAt(t *Token, err *ParsingError) *ParsingError {
	err.Cursor = d.stream.Cursor()
	if t != nil {
		err.Cursor = t.Range.Start
		err.Found = t.Raw
	}
	err.Location = d.stream.locationAt(err.Cursor)
	return err
}

func describeToken(t *Token) string {
	return fmt.Sprintf("`%s` (%q)", t.Type, t.Raw)
}

func oneOf(types []string) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = "`" + t + "`"
	}
	switch len(quoted) {
	case 0:
		return "nothing"
	case 1:
		return quoted[0]
	default:
		return "one of " + strings.Join(quoted, ", ")
	}
}
