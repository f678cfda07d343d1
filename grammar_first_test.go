package gtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbolNames(symbols []Symbol) []string {
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.Name
	}
	return names
}

func TestFirstSymbols(t *testing.T) {
	for _, test := range []struct {
		Name       string
		Production Production
		Expected   []string
	}{
		{
			Name:       "Symbol",
			Production: TokenRef("a"),
			Expected:   []string{"a"},
		},
		{
			Name:       "Group stops at the first non nullable item",
			Production: NewGroup(TokenRef("x"), TokenRef("y")),
			Expected:   []string{"x"},
		},
		{
			Name: "Group extends over nullable items",
			Production: NewGroup(
				NewOptional(NewGroup(TokenRef("a"))),
				NewRepeated(NewGroup(TokenRef("b"))),
				TokenRef("c"),
				TokenRef("d"),
			),
			Expected: []string{"a", "b", "c"},
		},
		{
			Name:       "Optional",
			Production: NewOptional(NewGroup(RuleRef("R"), TokenRef("t"))),
			Expected:   []string{"R"},
		},
		{
			Name:       "Alternation keeps left to right order",
			Production: NewAlternation(TokenRef("a"), NewAlternation(TokenRef("b"), RuleRef("R"))),
			Expected:   []string{"a", "b", "R"},
		},
		{
			Name:       "Alternation keeps duplicates",
			Production: NewAlternation(TokenRef("a"), TokenRef("a")),
			Expected:   []string{"a", "a"},
		},
		{
			Name:       "Group after a nullable alternation",
			Production: NewGroup(NewAlternation(TokenRef("a"), NewOptional(NewGroup(TokenRef("b")))), TokenRef("c")),
			Expected:   []string{"a", "b", "c"},
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Expected, symbolNames(FirstSymbols(test.Production)))
		})
	}
}

func TestNullable(t *testing.T) {
	assert.False(t, TokenRef("a").Nullable())
	assert.False(t, RuleRef("A").Nullable())
	assert.False(t, NewGroup(NewOptional(TokenRef("a"))).Nullable())
	assert.True(t, NewOptional(TokenRef("a")).Nullable())
	assert.True(t, NewRepeated(TokenRef("a")).Nullable())
	assert.True(t, NewAlternation(TokenRef("a"), NewRepeated(TokenRef("b"))).Nullable())
	assert.True(t, NewAlternation(NewOptional(TokenRef("b")), TokenRef("a")).Nullable())
	assert.False(t, NewAlternation(TokenRef("a"), TokenRef("b")).Nullable())
}

func TestMatchesEmpty(t *testing.T) {
	g := MustGrammar(
		[]Rule{
			NewRule("START", RuleRef("A")),
			NewRule("A", RuleRef("B")),
			NewRule("B", NewRepeated(TokenRef("b"))),
			NewRule("C", NewGroup(RuleRef("B"))),
			NewRule("D", TokenRef("b")),
		},
		literals("b"),
		ParseOptions{},
	)

	for _, name := range []string{"START", "A", "B"} {
		assert.True(t, g.MatchesEmpty(RuleRef(name)), "rule %s", name)
	}
	// groups never match nothing, even when all their items could
	assert.False(t, g.MatchesEmpty(RuleRef("C")))
	assert.False(t, g.MatchesEmpty(RuleRef("D")))
	assert.False(t, g.MatchesEmpty(RuleRef("MISSING")))
	assert.True(t, g.MatchesEmpty(NewAlternation(TokenRef("b"), RuleRef("A"))))
	assert.False(t, g.MatchesEmpty(NewAlternation(TokenRef("b"), RuleRef("D"))))
	assert.False(t, RuleRef("A").Nullable())
}

func TestFirstFromRule(t *testing.T) {
	g := miniJSONGrammar(t)

	assert.Equal(t, []string{"{", "[", "NUMBER"}, g.FirstFromRule("ITEM"))
	assert.Equal(t, []string{"{", "[", "NUMBER"}, g.FirstFromRule("START"))
	assert.Equal(t, []string{"\""}, g.FirstFromRule("KV"))
	assert.Empty(t, g.FirstFromRule("MISSING"))

	t.Run("Matches", func(t *testing.T) {
		item := g.Alternatives("ITEM")
		require.Len(t, item, 3)
		assert.True(t, g.Matches(item[0].Production, "{"))
		assert.False(t, g.Matches(item[0].Production, "["))
		assert.True(t, g.Matches(item[1].Production, "["))
		assert.True(t, g.Matches(item[2].Production, "NUMBER"))
	})

	t.Run("Productions outside of the grammar", func(t *testing.T) {
		p := NewGroup(NewOptional(NewGroup(TokenRef(","))), RuleRef("ITEM"))
		assert.Equal(t, []string{",", "{", "[", "NUMBER"}, g.FirstTokens(p))
		assert.True(t, g.Matches(p, "["))
		assert.False(t, g.Matches(p, "]"))
	})

	t.Run("Results are copies", func(t *testing.T) {
		first := g.FirstFromRule("ITEM")
		first[0] = "changed"
		assert.Equal(t, "{", g.FirstFromRule("ITEM")[0])
	})
}

func TestGrammarValidation(t *testing.T) {
	atoms := []Atom{
		NewLiteralAtom("x", "x"),
		NewLiteralAtom("y", "y"),
		NewLiteralAtom("z", "z"),
		NewLiteralAtom("plus", "+"),
		MustPatternAtom("number", `\d+`),
	}

	for _, test := range []struct {
		Name            string
		Rules           []Rule
		ExpectedKind    GrammarErrorKind
		ExpectedMessage string
	}{
		{
			Name: "Direct ambiguity",
			Rules: []Rule{
				NewRule("START", RuleRef("A")),
				NewRule("A", NewGroup(TokenRef("x"), TokenRef("y"))),
				NewRule("A", NewGroup(TokenRef("x"), TokenRef("z"))),
			},
			ExpectedKind:    AmbiguousAlternatives,
			ExpectedMessage: "alternatives 1 and 2 of rule `A` can both start with `x`",
		},
		{
			Name: "Ambiguity through another rule",
			Rules: []Rule{
				NewRule("START", RuleRef("A")),
				NewRule("A", TokenRef("y")),
				NewRule("A", RuleRef("B")),
				NewRule("A", NewGroup(TokenRef("x"))),
				NewRule("B", NewGroup(NewOptional(NewGroup(TokenRef("z"))), TokenRef("x"))),
			},
			ExpectedKind:    AmbiguousAlternatives,
			ExpectedMessage: "alternatives 2 and 3 of rule `A` can both start with `x`",
		},
		{
			Name: "Alternatives matching nothing",
			Rules: []Rule{
				NewRule("START", RuleRef("A")),
				NewRule("A", NewOptional(TokenRef("x"))),
				NewRule("A", NewRepeated(TokenRef("y"))),
			},
			ExpectedKind:    AmbiguousAlternatives,
			ExpectedMessage: "alternatives 1 and 2 of rule `A` can both match empty input",
		},
		{
			Name: "Alternatives matching nothing through another rule",
			Rules: []Rule{
				NewRule("START", RuleRef("A")),
				NewRule("A", RuleRef("B")),
				NewRule("A", NewOptional(TokenRef("x"))),
				NewRule("B", NewRepeated(TokenRef("y"))),
			},
			ExpectedKind:    AmbiguousAlternatives,
			ExpectedMessage: "alternatives 1 and 2 of rule `A` can both match empty input",
		},
		{
			Name: "Direct left recursion",
			Rules: []Rule{
				NewRule("START", RuleRef("E")),
				NewRule("E", NewGroup(RuleRef("E"), TokenRef("plus"), TokenRef("number"))),
				NewRule("E", TokenRef("number")),
			},
			ExpectedKind:    LeftRecursion,
			ExpectedMessage: "rule `E` can begin with itself: E -> E",
		},
		{
			Name: "Indirect left recursion",
			Rules: []Rule{
				NewRule("START", RuleRef("A")),
				NewRule("A", NewGroup(RuleRef("B"), TokenRef("x"))),
				NewRule("B", NewGroup(RuleRef("A"), TokenRef("y"))),
			},
			ExpectedKind:    LeftRecursion,
			ExpectedMessage: "rule `A` can begin with itself: A -> B -> A",
		},
		{
			Name: "Left recursion behind a nullable item",
			Rules: []Rule{
				NewRule("START", RuleRef("A")),
				NewRule("A", NewGroup(NewOptional(NewGroup(TokenRef("x"))), RuleRef("A"))),
			},
			ExpectedKind:    LeftRecursion,
			ExpectedMessage: "rule `A` can begin with itself: A -> A",
		},
		{
			Name: "Undefined rule",
			Rules: []Rule{
				NewRule("START", NewGroup(RuleRef("EXPR"))),
				NewRule("EXP", TokenRef("number")),
			},
			ExpectedKind:    MalformedGrammar,
			ExpectedMessage: "rule `START` references undefined rule `EXPR` (did you mean `EXP`?)",
		},
		{
			Name: "Undefined token",
			Rules: []Rule{
				NewRule("START", NewGroup(TokenRef("numbr"))),
			},
			ExpectedKind:    UndefinedToken,
			ExpectedMessage: "rule `START` references undefined token `numbr` (did you mean `number`?)",
		},
		{
			Name: "Undefined token without close names",
			Rules: []Rule{
				NewRule("START", NewGroup(TokenRef("semicolon"))),
			},
			ExpectedKind:    UndefinedToken,
			ExpectedMessage: "rule `START` references undefined token `semicolon`",
		},
		{
			Name: "Missing START",
			Rules: []Rule{
				NewRule("A", TokenRef("x")),
			},
			ExpectedKind:    MalformedGrammar,
			ExpectedMessage: "grammar has no `START` rule",
		},
		{
			Name: "Missing production",
			Rules: []Rule{
				NewRule("START", nil),
			},
			ExpectedKind:    MalformedGrammar,
			ExpectedMessage: "rule `START` has no production",
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			g, err := NewGrammar(test.Rules, atoms, ParseOptions{})
			require.Error(t, err)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, &GrammarError{Kind: test.ExpectedKind})
			assert.Equal(t, test.ExpectedMessage, err.Error())
		})
	}
}

func TestCheckAlternatives(t *testing.T) {
	rules := []Rule{
		NewRule("VALUE", NewGroup(TokenRef("number"))),
		NewRule("VALUE", NewGroup(TokenRef("minus"), TokenRef("number"))),
	}
	require.NoError(t, CheckAlternatives(rules))

	rules = append(rules, NewRule("VALUE", NewOptional(NewGroup(TokenRef("minus")))))
	err := CheckAlternatives(rules)
	require.Error(t, err)

	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, AmbiguousAlternatives, gerr.Kind)
	assert.Equal(t, "VALUE", gerr.Rule)
}
