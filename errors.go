package gtp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a parse failed
type ErrorKind int

const (
	// UnrecognizedInput means no atom matched at a position where
	// input still remained
	UnrecognizedInput ErrorKind = iota + 1

	// UnexpectedToken means a token reference didn't match the
	// type of the lookahead token
	UnexpectedToken

	// NoAlternativeMatches means none of the alternatives of a rule
	// can start with the lookahead token, or the input ended where
	// a rule needed more of it
	NoAlternativeMatches

	// TrailingInput means START was fully parsed but tokens remain
	TrailingInput
)

func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedInput:
		return "unrecognized input"
	case UnexpectedToken:
		return "unexpected token"
	case NoAlternativeMatches:
		return "no alternative matches lookahead"
	case TrailingInput:
		return "trailing input"
	default:
		return "unknown error"
	}
}

// Sentinels that can be used with errors.Is against a *ParsingError
var (
	ErrUnrecognizedInput    = &ParsingError{Kind: UnrecognizedInput}
	ErrUnexpectedToken      = &ParsingError{Kind: UnexpectedToken}
	ErrNoAlternativeMatches = &ParsingError{Kind: NoAlternativeMatches}
	ErrTrailingInput        = &ParsingError{Kind: TrailingInput}
)

// ParsingError is the error returned when the parser can't finish
// successfuly.  No partial tree is ever returned alongside it.
type ParsingError struct {
	Kind    ErrorKind
	Message string

	// Production is the name of the rule being parsed when the
	// failure happened
	Production string

	// Expected lists the token types that would have been accepted
	Expected []string

	// Found is the raw text of the offending token, or an excerpt
	// of the input that couldn't be tokenized
	Found string

	// Cursor is the byte offset of the failure within the input
	Cursor int

	// Location is the line/column position of Cursor
	Location Location
}

// Error returns the human readable representation of a parsing error
func (e *ParsingError) Error() string {
	message := e.Message
	if message == "" {
		message = e.Kind.String()
	}
	return fmt.Sprintf("%s @ %s", message, e.Location)
}

// Is matches sentinel errors by kind
func (e *ParsingError) Is(target error) bool {
	t, ok := target.(*ParsingError)
	return ok && t.Kind == e.Kind
}

// Position implements `positioned`, used by the diagnostics renderer
func (e *ParsingError) Position() (Location, bool) { return e.Location, true }

// GrammarErrorKind classifies defects in a grammar definition
type GrammarErrorKind int

const (
	// MalformedGrammar means a rule is referenced but has no
	// alternatives declared
	MalformedGrammar GrammarErrorKind = iota + 1

	// UndefinedToken means a token reference names no atom
	UndefinedToken

	// AmbiguousAlternatives means two alternatives of the same rule
	// can start with the same token
	AmbiguousAlternatives

	// LeftRecursion means a rule can begin with itself without
	// consuming a token first
	LeftRecursion

	// InvalidPattern means an atom's regular expression doesn't
	// compile
	InvalidPattern

	// InvalidName means a rule or atom name doesn't follow the case
	// convention that decides how references resolve
	InvalidName
)

func (k GrammarErrorKind) String() string {
	switch k {
	case MalformedGrammar:
		return "malformed grammar"
	case UndefinedToken:
		return "undefined token"
	case AmbiguousAlternatives:
		return "ambiguous alternatives"
	case LeftRecursion:
		return "left recursion"
	case InvalidPattern:
		return "invalid pattern"
	case InvalidName:
		return "invalid name"
	default:
		return "unknown grammar error"
	}
}

// GrammarError reports a defect of the grammar itself, as opposed to
// a failure of parsing some input with it
type GrammarError struct {
	Kind    GrammarErrorKind
	Rule    string
	Message string

	// Hint is an optional suggestion, like the closest defined name
	Hint string

	// Location points to the declaration within the grammar source
	// text when the grammar was built from one
	Location    Location
	HasLocation bool
}

func (e *GrammarError) Error() string {
	var s strings.Builder
	s.WriteString(e.Message)
	if e.Hint != "" {
		s.WriteString(" (")
		s.WriteString(e.Hint)
		s.WriteString(")")
	}
	if e.HasLocation {
		fmt.Fprintf(&s, " @ %s", e.Location)
	}
	return s.String()
}

// Is matches another *GrammarError with the same kind
func (e *GrammarError) Is(target error) bool {
	t, ok := target.(*GrammarError)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// Position implements `positioned`
func (e *GrammarError) Position() (Location, bool) { return e.Location, e.HasLocation }

// positioned errors can be pointed at within the text they came from
type positioned interface {
	error
	Position() (Location, bool)
}

func errorPosition(err error) (positioned, Location, bool) {
	var p positioned
	if !errors.As(err, &p) {
		return nil, Location{}, false
	}
	loc, ok := p.Position()
	return p, loc, ok
}
