// Package token defines the lexical token kinds produced by the lexer and
// consumed by the parser.
package token

// Type identifies the lexical category of a token.
type Type int

// Span is a half-open byte range [Start, End) into the source buffer.
type Span struct {
	Start int
	End   int
}

// Token is a (kind, span) pair together with the decoded lexeme and its
// line/column for diagnostics. Literal carries the decoded value for
// numeric/string/char literals; Lexeme is always the raw token text.
// Span may open before the lexeme: the lexer folds inter-token
// space/tab/CR runs into the next token's span so that spans tile the
// source exactly.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string
	Span    Span
	Line    int
	Column  int
}

const (
	ILLEGAL Type = iota
	EOF
	NEWLINE
	COMMENT

	IDENT
	INT
	FLOAT
	STRING
	CHAR
	BOOL_TRUE
	BOOL_FALSE
	NIL

	INTERP_STRING_PART // literal text chunk inside "...{...}..."
	INTERP_OPEN        // the '{' that opens an interpolated expression
	INTERP_CLOSE       // the '}' that closes it

	// Keywords
	FUN
	LET
	CONST
	STRUCT
	ENUM
	TRAIT
	IMPL
	MOD
	IMPORT
	PUB
	IF
	ELSE
	MATCH
	WHILE
	FOR
	LOOP
	IN
	BREAK
	CONTINUE
	RETURN
	TRY
	CATCH
	FINALLY
	THROW
	AS
	MOVE
	ACTOR

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	COLON
	COLONCOLON
	DOT
	DOTDOT
	DOTDOTEQ
	ARROW      // ->
	FATARROW   // =>
	QUESTION   // ?
	UNDERSCORE // _
	HASH       // # (attribute prefix)

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	STARSTAR // **
	AMP      // &
	AMPAMP   // &&
	PIPE     // |
	PIPEPIPE // ||
	PIPEGT   // |>
	CARET    // ^
	TILDE    // ~
	BANG     // !
	SHL      // <<
	SHR      // >>

	ASSIGN // =
	EQ     // ==
	NEQ    // !=
	LT
	LTE
	GT
	GTE

	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN

	SEND // `!` used as actor send when in statement-message position
	ASK  // `?` used as actor ask when in statement-message position
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", CHAR: "CHAR",
	BOOL_TRUE: "true", BOOL_FALSE: "false", NIL: "nil",
	INTERP_STRING_PART: "INTERP_STRING_PART", INTERP_OPEN: "INTERP_OPEN", INTERP_CLOSE: "INTERP_CLOSE",
	FUN: "fun", LET: "let", CONST: "const", STRUCT: "struct", ENUM: "enum",
	TRAIT: "trait", IMPL: "impl", MOD: "mod", IMPORT: "import", PUB: "pub",
	IF: "if", ELSE: "else", MATCH: "match", WHILE: "while", FOR: "for",
	LOOP: "loop", IN: "in", BREAK: "break", CONTINUE: "continue", RETURN: "return",
	TRY: "try", CATCH: "catch", FINALLY: "finally", THROW: "throw", AS: "as",
	MOVE: "move", ACTOR: "actor",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]", HASH: "#",
	COMMA: ",", SEMICOLON: ";", COLON: ":", COLONCOLON: "::", DOT: ".",
	DOTDOT: "..", DOTDOTEQ: "..=", ARROW: "->", FATARROW: "=>", QUESTION: "?",
	UNDERSCORE: "_",
	PLUS:       "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", STARSTAR: "**",
	AMP: "&", AMPAMP: "&&", PIPE: "|", PIPEPIPE: "||", PIPEGT: "|>", CARET: "^",
	TILDE: "~", BANG: "!", SHL: "<<", SHR: ">>",
	ASSIGN: "=", EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
	PERCENT_ASSIGN: "%=", SEND: "!", ASK: "?",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

var keywords = map[string]Type{
	"fun": FUN, "let": LET, "const": CONST, "struct": STRUCT, "enum": ENUM,
	"trait": TRAIT, "impl": IMPL, "mod": MOD, "import": IMPORT, "pub": PUB,
	"if": IF, "else": ELSE, "match": MATCH, "while": WHILE, "for": FOR,
	"loop": LOOP, "in": IN, "break": BREAK, "continue": CONTINUE, "return": RETURN,
	"try": TRY, "catch": CATCH, "finally": FINALLY, "throw": THROW, "as": AS,
	"move": MOVE, "actor": ACTOR, "true": BOOL_TRUE, "false": BOOL_FALSE, "nil": NIL,
}

// LookupIdent returns the keyword token type for a word, or IDENT if it is
// not a reserved word.
func LookupIdent(word string) Type {
	if t, ok := keywords[word]; ok {
		return t
	}
	return IDENT
}
