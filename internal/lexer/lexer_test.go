package lexer

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestLexerBasicArithmetic(t *testing.T) {
	toks := lexAll(t, "1 + 2 * 3")
	want := []token.Type{token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "let x = fun")
	want := []token.Type{token.LET, token.IDENT, token.ASSIGN, token.FUN, token.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerPlainString(t *testing.T) {
	toks := lexAll(t, `"hello"`)
	if toks[0].Type != token.INTERP_STRING_PART || toks[0].Literal != "hello" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Type != token.EOF {
		t.Fatalf("expected EOF after plain string, got %+v", toks[1])
	}
}

func TestLexerInterpolatedString(t *testing.T) {
	toks := lexAll(t, `"a{1+1}b"`)
	want := []token.Type{
		token.INTERP_STRING_PART, // `"a`
		token.INTERP_OPEN,
		token.INT, token.PLUS, token.INT,
		token.INTERP_CLOSE,
		token.INTERP_STRING_PART, // `b"`
		token.EOF,
	}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[0].Literal != "a" {
		t.Fatalf("first piece literal = %q, want %q", toks[0].Literal, "a")
	}
	if toks[6].Literal != "b" {
		t.Fatalf("last piece literal = %q, want %q", toks[6].Literal, "b")
	}
}

func TestLexerNestedBracesInsideInterpolation(t *testing.T) {
	toks := lexAll(t, `"x{ if a { 1 } else { 2 } }y"`)
	got := types(toks)
	// The interpolation hole itself contains a block with its own braces;
	// only the outermost pair should produce INTERP_OPEN/INTERP_CLOSE.
	opens, closes := 0, 0
	for _, ty := range got {
		if ty == token.INTERP_OPEN {
			opens++
		}
		if ty == token.INTERP_CLOSE {
			closes++
		}
	}
	if opens != 1 || closes != 1 {
		t.Fatalf("expected exactly one INTERP_OPEN/INTERP_CLOSE pair, got opens=%d closes=%d in %v", opens, closes, got)
	}
	if got[len(got)-2] != token.INTERP_STRING_PART {
		t.Fatalf("expected trailing string piece before EOF, got %v", got)
	}
}

func TestLexerUnterminatedStringIsIllegalNotPanic(t *testing.T) {
	toks := lexAll(t, `"abc`)
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL for unterminated string, got %+v", toks[0])
	}
}

func TestLexerNumericBases(t *testing.T) {
	toks := lexAll(t, "0x1F 0o17 0b101 3.14 1e10")
	want := []token.Type{token.INT, token.INT, token.INT, token.FLOAT, token.FLOAT, token.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerNeverPanicsOnArbitraryBytes(t *testing.T) {
	inputs := []string{"", "\x00\x01\x02", "\"", "{{{{", "}}}}", "\\u{}", string([]byte{0xff, 0xfe}), "'", "0x"}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("lexer panicked on input %q: %v", in, r)
				}
			}()
			l := New(in)
			for i := 0; i < 200; i++ {
				tok := l.NextToken()
				if tok.Type == token.EOF {
					return
				}
			}
			t.Fatalf("lexer did not reach EOF within 200 tokens for input %q", in)
		}()
	}
}

func TestLexerSpansAreOrderedAndNonOverlapping(t *testing.T) {
	src := "let x = 1 + 2\n"
	l := New(src)
	prevEnd := 0
	for {
		tok := l.NextToken()
		if tok.Span.Start < prevEnd {
			t.Fatalf("token %+v starts before previous token ended at %d", tok, prevEnd)
		}
		prevEnd = tok.Span.End
		if tok.Type == token.EOF {
			break
		}
	}
}

func TestLexerInterpolatedStringConcatenatesToSource(t *testing.T) {
	src := `"a{1+1}b"`
	toks := lexAll(t, src)
	var rebuilt string
	for _, tok := range toks {
		if tok.Type == token.EOF {
			break
		}
		rebuilt += tok.Lexeme
	}
	if rebuilt != src {
		t.Fatalf("round trip mismatch: got %q, want %q", rebuilt, src)
	}
}

// Every byte of the input must land in exactly one span: concatenating
// the source slices of successive spans reconstructs the source.
func TestLexerSpansTileTheSource(t *testing.T) {
	sources := []string{
		"let x = 1 + 2\n",
		"fun add(x: Int, y: Int) -> Int { x + y }",
		"  a\t+  b  ",
		"\"a{ 1 + 1 }b\" // trailing comment",
		"x\r\ny",
	}
	for _, src := range sources {
		l := New(src)
		prev := 0
		rebuilt := ""
		for i := 0; i <= len(src)+64; i++ {
			tok := l.NextToken()
			if tok.Span.Start != prev {
				t.Fatalf("gap in %q: token %+v starts at %d, previous ended at %d", src, tok, tok.Span.Start, prev)
			}
			rebuilt += src[tok.Span.Start:tok.Span.End]
			prev = tok.Span.End
			if tok.Type == token.EOF {
				break
			}
		}
		if rebuilt != src {
			t.Fatalf("span round trip mismatch: got %q, want %q", rebuilt, src)
		}
	}
}
