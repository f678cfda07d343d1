package gtp

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Range takes as little as possible (16 bytes in 64bit systems) to
// represent a position within the input.  Both ends are byte offsets.
type Range struct{ Start, End int }

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

func (r Range) Str(v string) string {
	return v[r.Start:r.End]
}

func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Location is a position within the input.  Line and Column are
// 1-based, Column counts runes, Cursor is the byte offset.
type Location struct {
	Line   int
	Column int
	Cursor int
}

func (l Location) String() string {
	if l.Line <= 1 {
		return fmt.Sprintf("%d", l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// ---- Position index ----

// posIndex converts byte offsets of an input into Locations
type posIndex struct {
	input string

	// lineStart holds byte 0-based offsets of each line start
	lineStart []int
}

func newPosIndex(input string) *posIndex {
	// Always include line 1 starting at offset 0.
	lineStart := make([]int, 1, 64)
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			// next line starts after '\n'
			lineStart = append(lineStart, i+1)
		}
	}
	return &posIndex{input: input, lineStart: lineStart}
}

func (pi *posIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(pi.input) {
		cursor = len(pi.input)
	}

	// Find first lineStart > cursor, then step back one.
	lineIdx := sort.Search(len(pi.lineStart), func(i int) bool {
		return pi.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := pi.lineStart[lineIdx]
	return Location{
		Line:   lineIdx + 1,
		Column: utf8.RuneCountInString(pi.input[lineStart:cursor]) + 1,
		Cursor: cursor,
	}
}

// Line returns the text of the 1-based line `n` without its line
// terminator
func (pi *posIndex) Line(n int) string {
	if n < 1 || n > len(pi.lineStart) {
		return ""
	}
	start := pi.lineStart[n-1]
	end := len(pi.input)
	if n < len(pi.lineStart) {
		end = pi.lineStart[n] - 1
	}
	if end > start && pi.input[end-1] == '\r' {
		end--
	}
	return pi.input[start:end]
}
