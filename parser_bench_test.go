package gtp

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// listInput generates a list with `n` items, every tenth of them
// being a small nested list
func listInput(n int) string {
	var s strings.Builder
	s.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			s.WriteString(", ")
		}
		if i%10 == 0 {
			fmt.Fprintf(&s, "[%d, [%d]]", i, i)
			continue
		}
		fmt.Fprintf(&s, "%d", i)
	}
	s.WriteString("]")
	return s.String()
}

// BenchmarkParse compares the parser against encoding/json, which
// reads the very same inputs into generic values.
func BenchmarkParse(b *testing.B) {
	g := MustBuildGrammar(listGrammar).WithOptions(ParseOptions{SkipWhitespace: true})
	collapsed := g.WithOptions(ParseOptions{SkipWhitespace: true, CollapseSingletons: true})

	for _, size := range []int{100, 1000, 10000} {
		input := listInput(size)

		b.Run(fmt.Sprintf("gtp/%d", size), func(b *testing.B) {
			p := NewParser(g)
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := p.Parse(input); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("gtp_collapsed/%d", size), func(b *testing.B) {
			p := NewParser(collapsed)
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := p.Parse(input); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("encoding_json/%d", size), func(b *testing.B) {
			data := []byte(input)
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var v interface{}
				if err := json.Unmarshal(data, &v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBuildGrammar(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := BuildGrammar(arithmeticGrammar); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	g := MustBuildGrammar(listGrammar).WithOptions(ParseOptions{SkipWhitespace: true})
	input := listInput(1000)
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := g.Tokenize(input); err != nil {
			b.Fatal(err)
		}
	}
}
