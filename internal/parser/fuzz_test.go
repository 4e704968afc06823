package parser

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/lexer"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// ParseProgram must return a result for every byte sequence and never
// panic.
func FuzzParseProgramIsTotal(f *testing.F) {
	f.Add("fun f(n: Int) -> Int { if n <= 1 { n } else { f(n - 1) + f(n - 2) } }")
	f.Add(`let s = "hi {1 + 1}!" in s`)
	f.Add("match (1, 2) { (0, y) => y, (x, y) => x + y }")
	f.Add("enum Color { Red, Green, Blue }")
	f.Add("let mut i = 0 while i < 5 { i = i + 1 }")
	f.Add("}{;;\x00")
	f.Add("\"unterminated {1 +")
	f.Fuzz(func(t *testing.T, src string) {
		prog, diags := ParseProgram(src)
		if prog == nil {
			t.Fatal("ParseProgram returned a nil program")
		}
		if diags == nil {
			t.Fatal("ParseProgram returned a nil diagnostics sink")
		}
	})
}

// Token spans must stay ordered and non-overlapping for arbitrary input,
// the lex half of the round-trip law.
func FuzzLexerSpansOrdered(f *testing.F) {
	f.Add("let x = 1 + 2\n")
	f.Add(`"a{1+1}b"`)
	f.Add("0xff_i32 0b10 0o7 3.14_f64")
	f.Add("\x00\xff{{{")
	f.Fuzz(func(t *testing.T, src string) {
		l := lexer.New(src)
		prevEnd := 0
		for i := 0; i <= len(src)+64; i++ {
			tok := l.NextToken()
			if tok.Span.Start < prevEnd {
				t.Fatalf("token %+v starts before previous token ended at %d", tok, prevEnd)
			}
			prevEnd = tok.Span.End
			if tok.Type == token.EOF {
				if prevEnd != len(src) {
					t.Fatalf("EOF span ends at %d, want %d: trailing bytes fell out of the token stream", prevEnd, len(src))
				}
				return
			}
		}
		t.Fatalf("lexer did not reach EOF within %d tokens", len(src)+65)
	})
}
