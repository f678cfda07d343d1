package gtp

import "sync"

// Token types of the grammar notation
const (
	tokPipe      = "pipe"
	tokLParen    = "lparen"
	tokRParen    = "rparen"
	tokStar      = "star"
	tokQuestion  = "question"
	tokSemicolon = "semicolon"
	tokArrow     = "arrow"
	tokGt        = "gt"
	tokQuote     = "quote"
	tokNewline   = "nl"
	tokIdent     = "ident"
	tokLiteral   = "literal"
)

// bootstrapAtoms recognize the grammar notation.  Punctuation comes
// first and `literal` last, as it matches almost anything and is only
// meant for the bodies of atom patterns.
func bootstrapAtoms() []Atom {
	return []Atom{
		NewLiteralAtom(tokPipe, "|"),
		NewLiteralAtom(tokLParen, "("),
		NewLiteralAtom(tokRParen, ")"),
		NewLiteralAtom(tokStar, "*"),
		NewLiteralAtom(tokQuestion, "?"),
		NewLiteralAtom(tokSemicolon, ";"),
		NewLiteralAtom(tokArrow, "->"),
		NewLiteralAtom(tokGt, ">"),
		NewLiteralAtom(tokQuote, "'"),
		NewLiteralAtom(tokNewline, "\n"),
		MustPatternAtom(tokIdent, `[\p{L}_][\p{L}\p{N}_]*`),
		MustPatternAtom(tokLiteral, `[^'\n]+`),
	}
}

// bootstrapRules describe the grammar notation with its own
// productions.  Written in the notation itself, they'd read:
//
//	START   -> DOC
//	DOC     -> ((STMT | semicolon | nl))*
//	STMT    -> RULE
//	STMT    -> ATOM
//	RULE    -> ident arrow PROD
//	PROD    -> ITEM ((pipe)? ITEM)*
//	ITEM    -> TERM
//	ITEM    -> GROUP
//	TERM    -> ident
//	GROUP   -> lparen PROD rparen ((star | question))?
//	ATOM    -> gt ident arrow quote (PATTERN)? quote
//	PATTERN -> PIECE (PIECE)*
//	PIECE   -> pipe
//	...
//
// A pattern made only of spaces has no PATTERN at all, as the spaces
// are skipped, which is why it's optional.
//
// Newlines aren't skipped because they end statements: without them a
// production followed by the next rule's name would need two tokens of
// lookahead to find out where it stops.
func bootstrapRules() []Rule {
	rules := []Rule{
		NewRule("START", RuleRef("DOC")),
		NewRule("DOC", NewRepeated(NewGroup(
			NewAlternation(
				NewAlternation(RuleRef("STMT"), TokenRef(tokSemicolon)),
				TokenRef(tokNewline),
			),
		))),
		NewRule("STMT", RuleRef("RULE")),
		NewRule("STMT", RuleRef("ATOM")),
		NewRule("RULE", NewGroup(
			RawTokenRef(tokIdent),
			TokenRef(tokArrow),
			RuleRef("PROD"),
		)),
		NewRule("PROD", NewGroup(
			RuleRef("ITEM"),
			NewRepeated(NewGroup(
				NewOptional(NewGroup(RawTokenRef(tokPipe))),
				RuleRef("ITEM"),
			)),
		)),
		NewRule("ITEM", RuleRef("TERM")),
		NewRule("ITEM", RuleRef("GROUP")),
		NewRule("TERM", RawTokenRef(tokIdent)),
		NewRule("GROUP", NewGroup(
			TokenRef(tokLParen),
			RuleRef("PROD"),
			TokenRef(tokRParen),
			NewOptional(NewGroup(
				NewAlternation(RawTokenRef(tokStar), RawTokenRef(tokQuestion)),
			)),
		)),
		NewRule("ATOM", NewGroup(
			TokenRef(tokGt),
			RawTokenRef(tokIdent),
			TokenRef(tokArrow),
			RawTokenRef(tokQuote),
			NewOptional(NewGroup(RuleRef("PATTERN"))),
			RawTokenRef(tokQuote),
		)),
		NewRule("PATTERN", NewGroup(
			RuleRef("PIECE"),
			NewRepeated(NewGroup(RuleRef("PIECE"))),
		)),
	}
	// any token but quotes and newlines can show up within a pattern
	for _, t := range []string{
		tokPipe, tokLParen, tokRParen, tokStar, tokQuestion,
		tokSemicolon, tokArrow, tokGt, tokIdent, tokLiteral,
	} {
		rules = append(rules, NewRule("PIECE", RawTokenRef(t)))
	}
	return rules
}

var (
	bootstrapOnce    sync.Once
	bootstrapGrammar *Grammar
)

// NewBootstrapGrammar returns the grammar of the grammar notation.
// It's built once and shared, as any other Grammar can be.
func NewBootstrapGrammar() *Grammar {
	bootstrapOnce.Do(func() {
		bootstrapGrammar = MustGrammar(bootstrapRules(), bootstrapAtoms(), ParseOptions{
			SkipWhitespace: true,
		})
	})
	return bootstrapGrammar
}
