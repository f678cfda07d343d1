package gtp

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// RenderDiagnostic formats `err` pointing a caret at its position
// within `input`, which must be the text that failed:
//
//	  3. | SUM -> PRODUCT (OPA SUM)*)
//	     |                          ^ trailing input starting with `rparen` (")")
//
// Errors that carry no position are rendered as their message.
func RenderDiagnostic(input string, err error) string {
	p, loc, ok := errorPosition(err)
	if !ok {
		return err.Error() + "\n"
	}
	line := newPosIndex(input).Line(loc.Line)
	var s strings.Builder
	fmt.Fprintf(&s, "%3d. | %s\n", loc.Line, line)
	fmt.Fprintf(&s, "     | %s^ %s\n", caretPadding(line, loc.Column), diagnosticMessage(p))
	return s.String()
}

// caretPadding is the blank space that lines a caret up with the
// 1-based rune `column` of `line` on a terminal.  Tabs are kept as they
// are and wide runes take two cells.
func caretPadding(line string, column int) string {
	var s strings.Builder
	n := 1
	for _, r := range line {
		if n >= column {
			break
		}
		switch {
		case r == '\t':
			s.WriteByte('\t')
		case isWide(r):
			s.WriteString("  ")
		default:
			s.WriteByte(' ')
		}
		n++
	}
	for ; n < column; n++ {
		s.WriteByte(' ')
	}
	return s.String()
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	default:
		return false
	}
}

// diagnosticMessage is the message of an error without its position,
// which the caret already shows
func diagnosticMessage(err error) string {
	switch e := err.(type) {
	case *ParsingError:
		if e.Message == "" {
			return e.Kind.String()
		}
		return e.Message
	case *GrammarError:
		if e.Hint == "" {
			return e.Message
		}
		return e.Message + " (" + e.Hint + ")"
	default:
		return err.Error()
	}
}
