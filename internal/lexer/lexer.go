// Package lexer turns a UTF-8 source buffer into a stream of tokens.
// NextToken never panics: any byte sequence produces either a well-formed
// token or an ILLEGAL token spanning the malformed run, so a caller can
// always drain the lexer to EOF.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// stringFrame tracks one open `"..."` literal. braceDepth counts
// unmatched '{' since the hole currently open (0 when we are scanning
// literal text, not an interpolated expression). awaitingPiece is set the
// instant a hole's matching '}' closes, so the very next NextToken call
// resumes literal-text scanning instead of dispatching on whatever
// character follows.
type stringFrame struct {
	braceDepth    int
	awaitingPiece bool
}

// Lexer scans one source buffer. It is not safe for concurrent use by
// multiple goroutines.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int

	interpStack []stringFrame
	Diagnostics diagnostics.Sink
}

// New returns a Lexer positioned at the first rune of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	if r == utf8.RuneError && w == 1 {
		r = rune(l.input[l.readPosition])
	}
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) top() *stringFrame {
	if n := len(l.interpStack); n > 0 {
		return &l.interpStack[n-1]
	}
	return nil
}

// NextToken returns the next token in the stream, advancing the lexer.
// Once EOF is reached it returns an EOF token on every subsequent call.
// Space/tab/CR runs between tokens are folded into the following
// token's span (its Lexeme stays the token text alone), so
// concatenating the source slices of successive spans reconstructs the
// input byte-for-byte.
func (l *Lexer) NextToken() token.Token {
	if f := l.top(); f != nil && f.awaitingPiece {
		return l.readStringPiece(l.line, l.column, false)
	}

	wsStart := l.position
	l.skipWhitespaceExceptNewline()
	tok := l.scanToken()
	if tok.Span.Start > wsStart {
		tok.Span.Start = wsStart
	}
	return tok
}

func (l *Lexer) scanToken() token.Token {
	if l.atEOF() {
		return token.Token{Type: token.EOF, Span: token.Span{Start: l.position, End: l.position}, Line: l.line, Column: l.column}
	}

	line, col, start := l.line, l.column, l.position

	switch {
	case l.ch == '\n':
		l.readChar()
		return token.Token{Type: token.NEWLINE, Lexeme: "\n", Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
	case l.ch == '/' && l.peekChar() == '/':
		return l.readLineComment(line, col, start)
	case l.ch == '/' && l.peekChar() == '*':
		return l.readBlockComment(line, col, start)
	case l.ch == '"':
		return l.readStringStart(line, col)
	case l.ch == '\'':
		return l.readCharLiteral(line, col, start)
	case isDigit(l.ch):
		return l.readNumber(line, col, start)
	case isIdentStart(l.ch):
		return l.readIdentifier(line, col, start)
	case l.ch == '{':
		return l.readOpenBrace(line, col, start)
	case l.ch == '}':
		return l.readCloseBrace(line, col, start)
	default:
		return l.readOperator(line, col, start)
	}
}

func (l *Lexer) skipWhitespaceExceptNewline() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// --- comments ---

func (l *Lexer) readLineComment(line, col, start int) token.Token {
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{Type: token.COMMENT, Lexeme: lexeme, Literal: strings.TrimPrefix(lexeme, "//"),
		Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

func (l *Lexer) readBlockComment(line, col, start int) token.Token {
	l.readChar() // '/'
	l.readChar() // '*'
	for {
		if l.atEOF() {
			return l.illegal(diagnostics.ErrL004, nil, start, line, col)
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{Type: token.COMMENT, Lexeme: lexeme, Literal: lexeme,
		Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

// --- braces, including interpolation holes ---

func (l *Lexer) readOpenBrace(line, col, start int) token.Token {
	l.readChar()
	if f := l.top(); f != nil && f.braceDepth == 0 {
		f.braceDepth = 1
		return token.Token{Type: token.INTERP_OPEN, Lexeme: "{", Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
	}
	if f := l.top(); f != nil {
		f.braceDepth++
	}
	return token.Token{Type: token.LBRACE, Lexeme: "{", Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

func (l *Lexer) readCloseBrace(line, col, start int) token.Token {
	l.readChar()
	if f := l.top(); f != nil && f.braceDepth > 0 {
		f.braceDepth--
		if f.braceDepth == 0 {
			f.awaitingPiece = true
			return token.Token{Type: token.INTERP_CLOSE, Lexeme: "}", Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
		}
	}
	return token.Token{Type: token.RBRACE, Lexeme: "}", Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

// --- strings ---

// readStringStart opens a string literal and reads its first piece
// (from the opening quote up to the first `{` or the closing quote).
func (l *Lexer) readStringStart(line, col int) token.Token {
	l.interpStack = append(l.interpStack, stringFrame{})
	start := l.position
	l.readChar() // consume opening '"'
	return l.scanStringPiece(line, col, start)
}

// readStringPiece resumes scanning after an interpolation hole closes.
func (l *Lexer) readStringPiece(line, col int, _ bool) token.Token {
	return l.scanStringPiece(line, col, l.position)
}

func (l *Lexer) scanStringPiece(line, col, start int) token.Token {
	if f := l.top(); f != nil {
		f.awaitingPiece = false
	}
	var decoded strings.Builder
	for {
		if l.atEOF() {
			l.popFrame()
			return l.illegal(diagnostics.ErrL001, nil, start, line, col)
		}
		switch l.ch {
		case '"':
			l.readChar()
			l.popFrame()
			lexeme := l.input[start:l.position]
			return token.Token{Type: token.INTERP_STRING_PART, Lexeme: lexeme, Literal: decoded.String(),
				Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
		case '{':
			// Leave '{' unconsumed; the next NextToken call dispatches it
			// through readOpenBrace, which recognizes it as the hole open
			// because this frame's braceDepth is still 0.
			lexeme := l.input[start:l.position]
			return token.Token{Type: token.INTERP_STRING_PART, Lexeme: lexeme, Literal: decoded.String(),
				Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
		case '\\':
			r, ok := l.readEscape()
			if !ok {
				l.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrL003, token.Token{Line: l.line, Column: l.column}, string(r)))
				continue
			}
			decoded.WriteRune(r)
		default:
			decoded.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) popFrame() {
	if n := len(l.interpStack); n > 0 {
		l.interpStack = l.interpStack[:n-1]
	}
}

// readEscape consumes a backslash escape (l.ch == '\\' on entry) and
// returns the decoded rune. ok is false for an unrecognized escape, in
// which case r is the offending character for diagnostics.
func (l *Lexer) readEscape() (rune, bool) {
	l.readChar() // consume '\\'
	switch l.ch {
	case 'n':
		l.readChar()
		return '\n', true
	case 't':
		l.readChar()
		return '\t', true
	case 'r':
		l.readChar()
		return '\r', true
	case '\\':
		l.readChar()
		return '\\', true
	case '"':
		l.readChar()
		return '"', true
	case '\'':
		l.readChar()
		return '\'', true
	case '0':
		l.readChar()
		return 0, true
	case '{':
		l.readChar()
		return '{', true
	case 'x':
		return l.readBracedEscape(2)
	case 'u':
		return l.readBracedEscape(6)
	default:
		bad := l.ch
		l.readChar()
		return bad, false
	}
}

// readBracedEscape reads `\x{hh}` / `\u{hhhhhh}`. l.ch is the introducer
// letter ('x' or 'u') on entry.
func (l *Lexer) readBracedEscape(maxDigits int) (rune, bool) {
	l.readChar() // consume introducer
	if l.ch != '{' {
		return l.ch, false
	}
	l.readChar()
	var digits strings.Builder
	for isHexDigit(l.ch) && digits.Len() < maxDigits {
		digits.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch != '}' || digits.Len() == 0 {
		return 0, false
	}
	l.readChar()
	var v int64
	for _, c := range digits.String() {
		v = v*16 + int64(hexVal(c))
	}
	return rune(v), true
}

func (l *Lexer) readCharLiteral(line, col, start int) token.Token {
	l.readChar() // consume opening quote
	var v rune
	ok := true
	if l.ch == '\\' {
		v, ok = l.readEscape()
	} else if l.atEOF() || l.ch == '\'' {
		ok = false
	} else {
		v = l.ch
		l.readChar()
	}
	if l.ch != '\'' {
		for !l.atEOF() && l.ch != '\'' && l.ch != '\n' {
			l.readChar()
		}
		if l.ch == '\'' {
			l.readChar()
		}
		return l.illegal(diagnostics.ErrL003, []interface{}{string(v)}, start, line, col)
	}
	l.readChar() // consume closing quote
	lexeme := l.input[start:l.position]
	if !ok {
		return l.illegal(diagnostics.ErrL003, []interface{}{lexeme}, start, line, col)
	}
	return token.Token{Type: token.CHAR, Lexeme: lexeme, Literal: string(v),
		Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

// --- numbers ---

func (l *Lexer) readNumber(line, col, start int) token.Token {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		return l.readRadixNumber(line, col, start, isHexDigit)
	}
	if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		return l.readRadixNumber(line, col, start, isOctalDigit)
	}
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		return l.readRadixNumber(line, col, start, isBinaryDigit)
	}

	isFloat := false
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		peek := l.peekChar()
		if isDigit(peek) || (peek == '+' || peek == '-') {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	suffixStart := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	suffix := l.input[suffixStart:l.position]
	lexeme := l.input[start:l.position]
	lit := strings.ReplaceAll(lexeme[:len(lexeme)-len(suffix)], "_", "")
	if !validNumericSuffix(suffix, isFloat) {
		return l.illegal(diagnostics.ErrL002, []interface{}{lexeme}, start, line, col)
	}
	t := token.INT
	if isFloat {
		t = token.FLOAT
	}
	return token.Token{Type: t, Lexeme: lexeme, Literal: lit,
		Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

func (l *Lexer) readRadixNumber(line, col, start int, valid func(rune) bool) token.Token {
	l.readChar() // '0'
	l.readChar() // x/o/b
	digitsStart := l.position
	for valid(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.position == digitsStart {
		for isIdentPart(l.ch) {
			l.readChar()
		}
		return l.illegal(diagnostics.ErrL002, []interface{}{l.input[start:l.position]}, start, line, col)
	}
	suffixStart := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	suffix := l.input[suffixStart:l.position]
	lexeme := l.input[start:l.position]
	if !validNumericSuffix(suffix, false) {
		return l.illegal(diagnostics.ErrL002, []interface{}{lexeme}, start, line, col)
	}
	lit := strings.ReplaceAll(lexeme[:len(lexeme)-len(suffix)], "_", "")
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: lit,
		Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

var intSuffixes = map[string]bool{"": true, "i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "isize": true, "usize": true}
var floatSuffixes = map[string]bool{"": true, "f32": true, "f64": true}

func validNumericSuffix(s string, isFloat bool) bool {
	if isFloat {
		return floatSuffixes[s]
	}
	return intSuffixes[s] || floatSuffixes[s]
}

// --- identifiers ---

func (l *Lexer) readIdentifier(line, col, start int) token.Token {
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	if lexeme == "_" {
		return token.Token{Type: token.UNDERSCORE, Lexeme: lexeme, Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
	}
	return token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Literal: lexeme,
		Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

// --- operators & punctuation ---

func (l *Lexer) two(t token.Type, lexeme string, line, col, start int) token.Token {
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Lexeme: lexeme, Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

func (l *Lexer) one(t token.Type, line, col, start int) token.Token {
	l.readChar()
	return token.Token{Type: t, Lexeme: l.input[start:l.position], Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

func (l *Lexer) readOperator(line, col, start int) token.Token {
	ch, peek := l.ch, l.peekChar()
	switch ch {
	case '(':
		return l.one(token.LPAREN, line, col, start)
	case ')':
		return l.one(token.RPAREN, line, col, start)
	case '[':
		return l.one(token.LBRACKET, line, col, start)
	case ']':
		return l.one(token.RBRACKET, line, col, start)
	case ',':
		return l.one(token.COMMA, line, col, start)
	case ';':
		return l.one(token.SEMICOLON, line, col, start)
	case '~':
		return l.one(token.TILDE, line, col, start)
	case '^':
		return l.one(token.CARET, line, col, start)
	case ':':
		if peek == ':' {
			return l.two(token.COLONCOLON, "::", line, col, start)
		}
		return l.one(token.COLON, line, col, start)
	case '.':
		if peek == '.' {
			l.readChar()
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return token.Token{Type: token.DOTDOTEQ, Lexeme: "..=", Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
			}
			return token.Token{Type: token.DOTDOT, Lexeme: "..", Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
		}
		return l.one(token.DOT, line, col, start)
	case '+':
		if peek == '=' {
			return l.two(token.PLUS_ASSIGN, "+=", line, col, start)
		}
		return l.one(token.PLUS, line, col, start)
	case '-':
		if peek == '>' {
			return l.two(token.ARROW, "->", line, col, start)
		}
		if peek == '=' {
			return l.two(token.MINUS_ASSIGN, "-=", line, col, start)
		}
		return l.one(token.MINUS, line, col, start)
	case '*':
		if peek == '*' {
			return l.two(token.STARSTAR, "**", line, col, start)
		}
		if peek == '=' {
			return l.two(token.STAR_ASSIGN, "*=", line, col, start)
		}
		return l.one(token.STAR, line, col, start)
	case '/':
		if peek == '=' {
			return l.two(token.SLASH_ASSIGN, "/=", line, col, start)
		}
		return l.one(token.SLASH, line, col, start)
	case '%':
		if peek == '=' {
			return l.two(token.PERCENT_ASSIGN, "%=", line, col, start)
		}
		return l.one(token.PERCENT, line, col, start)
	case '=':
		if peek == '=' {
			return l.two(token.EQ, "==", line, col, start)
		}
		if peek == '>' {
			return l.two(token.FATARROW, "=>", line, col, start)
		}
		return l.one(token.ASSIGN, line, col, start)
	case '!':
		if peek == '=' {
			return l.two(token.NEQ, "!=", line, col, start)
		}
		return l.one(token.BANG, line, col, start)
	case '<':
		if peek == '=' {
			return l.two(token.LTE, "<=", line, col, start)
		}
		if peek == '<' {
			return l.two(token.SHL, "<<", line, col, start)
		}
		return l.one(token.LT, line, col, start)
	case '>':
		if peek == '=' {
			return l.two(token.GTE, ">=", line, col, start)
		}
		if peek == '>' {
			return l.two(token.SHR, ">>", line, col, start)
		}
		return l.one(token.GT, line, col, start)
	case '&':
		if peek == '&' {
			return l.two(token.AMPAMP, "&&", line, col, start)
		}
		return l.one(token.AMP, line, col, start)
	case '|':
		if peek == '|' {
			return l.two(token.PIPEPIPE, "||", line, col, start)
		}
		if peek == '>' {
			return l.two(token.PIPEGT, "|>", line, col, start)
		}
		return l.one(token.PIPE, line, col, start)
	case '?':
		return l.one(token.QUESTION, line, col, start)
	case '#':
		return l.one(token.HASH, line, col, start)
	default:
		l.readChar()
		return l.illegal(diagnostics.ErrL002, []interface{}{string(ch)}, start, line, col)
	}
}

func (l *Lexer) illegal(code diagnostics.ErrorCode, args []interface{}, start, line, col int) token.Token {
	d := diagnostics.NewError(code, token.Token{Line: line, Column: col}, args...)
	l.Diagnostics.Add(d)
	return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: d.Message,
		Span: token.Span{Start: start, End: l.position}, Line: line, Column: col}
}

func isDigit(r rune) bool       { return r >= '0' && r <= '9' }
func isOctalDigit(r rune) bool  { return r >= '0' && r <= '7' }
func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func hexVal(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
