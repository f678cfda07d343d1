package gtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lexerGrammar builds a grammar value holding just what the token
// stream reads, so atoms can be tested without any rules
func lexerGrammar(options ParseOptions, atoms ...Atom) *Grammar {
	return &Grammar{atoms: atoms, options: options}
}

func tokenTypes(tokens []Token) []string {
	types := make([]string, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return types
}

func tokenRaws(tokens []Token) []string {
	raws := make([]string, len(tokens))
	for i, t := range tokens {
		raws[i] = t.Raw
	}
	return raws
}

func TestAtomMatch(t *testing.T) {
	for _, test := range []struct {
		Name     string
		Atom     Atom
		Input    string
		Expected int
	}{
		{Name: "Literal prefix", Atom: NewLiteralAtom("ge", ">="), Input: ">= 1", Expected: 2},
		{Name: "Literal mismatch", Atom: NewLiteralAtom("ge", ">="), Input: "> 1", Expected: -1},
		{Name: "Empty literal", Atom: NewLiteralAtom("empty", ""), Input: "abc", Expected: -1},
		{Name: "Pattern at start", Atom: MustPatternAtom("num", `\d+`), Input: "123abc", Expected: 3},
		{Name: "Pattern elsewhere", Atom: MustPatternAtom("num", `\d+`), Input: "abc123", Expected: -1},
		{Name: "Pattern with alternation", Atom: MustPatternAtom("kw", `if|else`), Input: "else {", Expected: 4},
		{Name: "Empty match", Atom: MustPatternAtom("as", `a*`), Input: "bbb", Expected: -1},
		{Name: "Unicode letters", Atom: MustPatternAtom("word", `\p{L}+`), Input: "ação!", Expected: len("ação")},
	} {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Expected, test.Atom.match(test.Input))
		})
	}
}

func TestNewPatternAtom(t *testing.T) {
	a, err := NewPatternAtom("num", `\d+`)
	require.NoError(t, err)
	assert.Equal(t, `\d+`, a.Expr())
	assert.False(t, a.IsLiteral())

	_, err = NewPatternAtom("op", `a**`)
	require.Error(t, err)
	var gerr *GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, InvalidPattern, gerr.Kind)
	assert.Equal(t, "op", gerr.Rule)
	assert.Equal(t, "atom `op` has an invalid pattern: invalid nested repetition operator: `**`", gerr.Message)

	assert.Panics(t, func() { MustPatternAtom("op", `(`) })
}

func TestAtomPriority(t *testing.T) {
	t.Run("Longer literal declared first", func(t *testing.T) {
		g := lexerGrammar(ParseOptions{}, NewLiteralAtom("ge", ">="), NewLiteralAtom("gt", ">"))
		tokens, err := g.Tokenize(">=")
		require.NoError(t, err)
		assert.Equal(t, []string{"ge"}, tokenTypes(tokens))
		assert.Equal(t, []string{">="}, tokenRaws(tokens))
	})

	t.Run("Shorter literal declared first", func(t *testing.T) {
		g := lexerGrammar(ParseOptions{}, NewLiteralAtom("gt", ">"), NewLiteralAtom("eq", "="), NewLiteralAtom("ge", ">="))
		tokens, err := g.Tokenize(">=")
		require.NoError(t, err)
		assert.Equal(t, []string{"gt", "eq"}, tokenTypes(tokens))
	})

	t.Run("Keyword before identifier", func(t *testing.T) {
		g := lexerGrammar(
			ParseOptions{SkipWhitespace: true},
			NewLiteralAtom("if", "if"),
			MustPatternAtom("ident", `[a-z]+`),
		)
		tokens, err := g.Tokenize("if x")
		require.NoError(t, err)
		assert.Equal(t, []string{"if", "ident"}, tokenTypes(tokens))
	})
}

func TestTokenStream(t *testing.T) {
	parens := []Atom{NewLiteralAtom("(", "("), NewLiteralAtom(")", ")")}

	t.Run("Skips whitespace between tokens", func(t *testing.T) {
		g := lexerGrammar(ParseOptions{SkipWhitespace: true}, parens...)
		tokens, err := g.Tokenize("(() ())")
		require.NoError(t, err)
		assert.Equal(t, []string{"(", "(", ")", "(", ")", ")"}, tokenTypes(tokens))
	})

	t.Run("Mixes literals and patterns", func(t *testing.T) {
		g := lexerGrammar(
			ParseOptions{SkipWhitespace: true, SkipNewline: true},
			append(parens, MustPatternAtom("NUMBER", `\d+`))...,
		)
		tokens, err := g.Tokenize("(\n1234 )")
		require.NoError(t, err)
		assert.Equal(t, []string{"(", "NUMBER", ")"}, tokenTypes(tokens))
		assert.Equal(t, "1234", tokens[1].Raw)
		assert.Equal(t, NewRange(2, 6), tokens[1].Range)
	})

	t.Run("Peek is idempotent", func(t *testing.T) {
		s := newTokenStream("( )", lexerGrammar(ParseOptions{SkipWhitespace: true}, parens...), nil)
		first := s.Peek()
		second := s.Peek()
		require.NotNil(t, first)
		assert.Same(t, first, second)
		assert.Equal(t, 0, s.Cursor())

		assert.Same(t, first, s.Advance())
		assert.Equal(t, ")", s.Peek().Type)
		assert.Equal(t, 2, s.Cursor())
		s.Advance()
		assert.Nil(t, s.Peek())
		assert.Nil(t, s.Advance())
		assert.Nil(t, s.Err())
	})

	t.Run("Whitespace isn't skipped unless enabled", func(t *testing.T) {
		g := lexerGrammar(ParseOptions{}, parens...)
		tokens, err := g.Tokenize("( )")
		require.Error(t, err)
		assert.Equal(t, []string{"("}, tokenTypes(tokens))

		var perr *ParsingError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, UnrecognizedInput, perr.Kind)
		assert.Equal(t, 1, perr.Cursor)
		assert.Equal(t, " )", perr.Found)
	})

	t.Run("Error state is sticky", func(t *testing.T) {
		g := lexerGrammar(ParseOptions{SkipWhitespace: true}, parens...)
		s := newTokenStream("( x )", g, nil)
		require.NotNil(t, s.Advance())
		assert.Nil(t, s.Peek())
		require.NotNil(t, s.Err())
		assert.Equal(t, 2, s.Err().Cursor)
		assert.Nil(t, s.Advance())
		assert.Nil(t, s.Peek())
		assert.ErrorIs(t, s.Err(), ErrUnrecognizedInput)
	})

	t.Run("Excerpt stops at a rune boundary", func(t *testing.T) {
		g := lexerGrammar(ParseOptions{}, NewLiteralAtom("a", "a"))
		_, err := g.Tokenize("日日日日日日日日")
		var perr *ParsingError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 0, perr.Cursor)
		assert.Equal(t, "日日日日日", perr.Found)
	})

	t.Run("Trailing ignorable characters", func(t *testing.T) {
		g := lexerGrammar(ParseOptions{SkipWhitespace: true, SkipNewline: true}, parens...)
		tokens, err := g.Tokenize("  ()  \r\n\t")
		require.NoError(t, err)
		assert.Equal(t, []string{"(", ")"}, tokenTypes(tokens))
	})
}

func TestSkipIdempotence(t *testing.T) {
	g := lexerGrammar(
		ParseOptions{SkipWhitespace: true, SkipNewline: true},
		MustPatternAtom("word", `\w+`),
	)
	expected, err := g.Tokenize("a b")
	require.NoError(t, err)

	for _, input := range []string{"a  b", "a\nb", " a \n\n b ", "a\tb", "a\r\nb"} {
		t.Run(input, func(t *testing.T) {
			tokens, err := g.Tokenize(input)
			require.NoError(t, err)
			assert.Equal(t, tokenTypes(expected), tokenTypes(tokens))
			assert.Equal(t, tokenRaws(expected), tokenRaws(tokens))
		})
	}

	t.Run("Newlines are kept without the option", func(t *testing.T) {
		g := lexerGrammar(
			ParseOptions{SkipWhitespace: true},
			MustPatternAtom("word", `\w+`),
			NewLiteralAtom("nl", "\n"),
		)
		tokens, err := g.Tokenize("a \n b")
		require.NoError(t, err)
		assert.Equal(t, []string{"word", "nl", "word"}, tokenTypes(tokens))
	})
}
