package gtp

import (
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Token is one scanned unit of input
type Token struct {
	Type  string
	Raw   string
	Range Range
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) @ %s", t.Type, t.Raw, t.Range)
}

// excerptSize is how much of the input is kept in an error when no
// atom matches
const excerptSize = 16

// tokenStream is a cursor over the input with one token of lookahead.
// It's created per parse and never shared.
type tokenStream struct {
	input   string
	atoms   []Atom
	options ParseOptions

	// log is nil unless debug logging is enabled
	log logrus.FieldLogger

	cursor int

	// peeked caches the result of the only scan a Peek may trigger
	peeked *Token

	// lastEnd is the end offset of the last consumed token
	lastEnd int

	// err is sticky: once set, no more tokens come out
	err *ParsingError
	pos *posIndex
}

func newTokenStream(input string, g *Grammar, log logrus.FieldLogger) *tokenStream {
	return &tokenStream{
		input:   input,
		atoms:   g.atoms,
		options: g.options,
		log:     log,
	}
}

// Tokenize splits the whole `input` into tokens, following the atoms
// and the skip options of the grammar
func (g *Grammar) Tokenize(input string) ([]Token, error) {
	s := newTokenStream(input, g, nil)
	var tokens []Token
	for t := s.Advance(); t != nil; t = s.Advance() {
		tokens = append(tokens, *t)
	}
	if err := s.Err(); err != nil {
		return tokens, err
	}
	return tokens, nil
}

// Peek returns the next token without consuming it.  It returns nil
// when the input is exhausted or the stream is in error state.
func (s *tokenStream) Peek() *Token {
	if s.peeked == nil {
		s.peeked = s.scan()
	}
	return s.peeked
}

// Advance consumes and returns the next token
func (s *tokenStream) Advance() *Token {
	t := s.Peek()
	s.peeked = nil
	if t != nil {
		s.lastEnd = t.Range.End
	}
	return t
}

// Err returns the UnrecognizedInput error when the stream stopped
// because no atom matched
func (s *tokenStream) Err() *ParsingError { return s.err }

// Cursor is the offset where the next token will be searched for
func (s *tokenStream) Cursor() int {
	if s.peeked != nil {
		return s.peeked.Range.Start
	}
	return s.cursor
}

func (s *tokenStream) scan() *Token {
	if s.err != nil {
		return nil
	}
	s.skipIgnored()
	if s.cursor >= len(s.input) {
		return nil
	}
	name, size, ok := matchAtom(s.atoms, s.input[s.cursor:])
	if !ok {
		s.err = s.unrecognized()
		if s.log != nil {
			s.log.WithField("cursor", s.cursor).Debug("no atom matches")
		}
		return nil
	}
	t := &Token{
		Type:  name,
		Raw:   s.input[s.cursor : s.cursor+size],
		Range: NewRange(s.cursor, s.cursor+size),
	}
	s.cursor += size
	s.skipIgnored()
	if s.log != nil {
		s.log.WithField("token", t).Debug("scanned")
	}
	return t
}

func (s *tokenStream) skipIgnored() {
	for s.cursor < len(s.input) {
		switch s.input[s.cursor] {
		case ' ', '\t', '\r':
			if !s.options.SkipWhitespace {
				return
			}
		case '\n':
			if !s.options.SkipNewline {
				return
			}
		default:
			return
		}
		s.cursor++
	}
}

func (s *tokenStream) unrecognized() *ParsingError {
	end := s.cursor + excerptSize
	if end >= len(s.input) {
		end = len(s.input)
	} else {
		for end > s.cursor && !utf8.RuneStart(s.input[end]) {
			end--
		}
	}
	found := s.input[s.cursor:end]
	return &ParsingError{
		Kind:     UnrecognizedInput,
		Message:  fmt.Sprintf("unrecognized input %q", found),
		Found:    found,
		Cursor:   s.cursor,
		Location: s.locationAt(s.cursor),
	}
}

func (s *tokenStream) locationAt(cursor int) Location {
	if s.pos == nil {
		s.pos = newPosIndex(s.input)
	}
	return s.pos.LocationAt(cursor)
}
