package gtp

import (
	"strings"
)

// FormatFunc decorates a piece of printer output according to what
// kind of token it is
type FormatFunc[T any] func(input string, token T) string

// treePrinter keeps the indentation stack shared by the tree and the
// grammar printers
type treePrinter[T any] struct {
	padStr []string
	output *strings.Builder
	format FormatFunc[T]
}

func newTreePrinter[T any](format FormatFunc[T]) *treePrinter[T] {
	return &treePrinter[T]{
		output: &strings.Builder{},
		format: format,
	}
}

func (tp *treePrinter[T]) indent(s string) {
	tp.padStr = append(tp.padStr, s)
}

func (tp *treePrinter[T]) unindent() {
	tp.padStr = tp.padStr[:len(tp.padStr)-1]
}

func (tp *treePrinter[T]) padding() {
	for _, item := range tp.padStr {
		tp.write(item)
	}
}

func (tp *treePrinter[T]) writel(s string) {
	tp.write(s)
	tp.output.WriteRune('\n')
}

func (tp *treePrinter[T]) write(s string) {
	tp.output.WriteString(s)
}

func (tp *treePrinter[T]) pwrite(s string) {
	tp.padding()
	tp.write(s)
}
