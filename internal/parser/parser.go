// Package parser builds an attributed AST from a token stream. It is a
// Pratt parser for expressions and a recursive-descent parser for
// declarations, driven by a fixed precedence table. Parse is
// total: any token stream yields a Program and a (possibly empty)
// diagnostic list, never a panic.
package parser

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/lexer"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// precedence levels, numerically highest binds tightest in the Pratt
// loop.
type precedence int

const (
	precLowest   precedence = iota
	precSend                // actor `!` send (lowest binding infix operator)
	precPipeline            // |>
	precAssign
	precRange     //....=
	precOr        // ||
	precAnd       // &&
	precCompare   // == != < <= > >=
	precBitOr     // |
	precBitXor    // ^
	precBitAnd    // &
	precShift     // << >>
	precAdditive  // + -
	precMultiplic // * / %
	precCast      // as
	precUnary     // - ! ~
	precPostfix   // call, field, index, `?` (try/ask postfix)
)

var binPrecedence = map[token.Type]precedence{
	token.ASSIGN: precAssign, token.PLUS_ASSIGN: precAssign, token.MINUS_ASSIGN: precAssign,
	token.STAR_ASSIGN: precAssign, token.SLASH_ASSIGN: precAssign, token.PERCENT_ASSIGN: precAssign,
	token.PIPEGT: precPipeline,
	token.DOTDOT: precRange, token.DOTDOTEQ: precRange,
	token.PIPEPIPE: precOr,
	token.AMPAMP:   precAnd,
	token.EQ:       precCompare, token.NEQ: precCompare, token.LT: precCompare, token.LTE: precCompare,
	token.GT: precCompare, token.GTE: precCompare,
	token.PIPE:  precBitOr,
	token.CARET: precBitXor,
	token.AMP:   precBitAnd,
	token.SHL:   precShift, token.SHR: precShift,
	token.PLUS: precAdditive, token.MINUS: precAdditive,
	token.STAR: precMultiplic, token.SLASH: precMultiplic, token.PERCENT: precMultiplic, token.STARSTAR: precMultiplic,
	token.AS:     precCast,
	token.LPAREN: precPostfix, token.DOT: precPostfix, token.LBRACKET: precPostfix,
	token.QUESTION: precPostfix, token.BANG: precSend,
}

var binOpOf = map[token.Type]ast.BinaryOp{
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub, token.STAR: ast.OpMul, token.SLASH: ast.OpDiv,
	token.PERCENT: ast.OpMod, token.STARSTAR: ast.OpPow,
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq, token.LT: ast.OpLt, token.LTE: ast.OpLte,
	token.GT: ast.OpGt, token.GTE: ast.OpGte,
	token.AMPAMP: ast.OpAnd, token.PIPEPIPE: ast.OpOr,
	token.AMP: ast.OpBitAnd, token.PIPE: ast.OpBitOr, token.CARET: ast.OpBitXor,
	token.SHL: ast.OpShl, token.SHR: ast.OpShr,
	token.DOTDOT: ast.OpRange, token.DOTDOTEQ: ast.OpRangeEq,
	token.PIPEGT: ast.OpPipe,
}

// Parser consumes tokens from a lexer and produces a Program plus a
// diagnostic sink. It never aborts: on unexpected input it emits an
// *ast.Error node and resynchronizes at the next statement boundary.
type Parser struct {
	l   *lexer.Lexer
	cur token.Token
	pk  token.Token

	pendingComments []ast.Comment
	Diagnostics     diagnostics.Sink
}

// New returns a Parser ready to parse src.
func New(src string) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.advance()
	p.advance()
	return p
}

// advance pulls the next substantive token into p.pk (shifting pk into
// cur), skipping NEWLINE tokens and collecting COMMENT text for
// attachment to the following node. ILLEGAL lexer tokens are surfaced as
// parse errors but otherwise treated as ordinary (unrecognized) tokens so
// the Pratt loop's default case can recover from them uniformly.
func (p *Parser) advance() {
	p.cur = p.pk
	for {
		tok := p.l.NextToken()
		if tok.Type == token.NEWLINE {
			continue
		}
		if tok.Type == token.COMMENT {
			p.pendingComments = append(p.pendingComments, ast.Comment{Text: tok.Literal, Span: tok.Span})
			continue
		}
		if tok.Type == token.ILLEGAL {
			p.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrP003, tok, tok.Lexeme, []string{}))
		}
		p.pk = tok
		return
	}
}

func (p *Parser) takeComments() []ast.Comment {
	c := p.pendingComments
	p.pendingComments = nil
	return c
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.pk.Type == t }

// expect advances past cur if it matches t, else records a P003
// diagnostic and returns false without advancing (so the caller can
// decide how to recover).
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.errorUnexpected([]string{t.String()})
	return false
}

func (p *Parser) errorUnexpected(expected []string) {
	p.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrP003, p.cur, p.cur.Type.String(), expected))
}

func (p *Parser) errorHere(code diagnostics.ErrorCode, args ...interface{}) {
	p.Diagnostics.Add(diagnostics.NewError(code, p.cur, args...))
}

// errExpr builds an *ast.Error node at the current token and
// resynchronizes to the next statement boundary (`;`, `}`, a top-level
// keyword, or EOF).
func (p *Parser) errExpr(expected []string) *ast.Error {
	tok := p.cur
	msg := fmt.Sprintf("unexpected %s", tok.Type)
	node := &ast.Error{Token: tok, Expected: expected, Message: msg}
	p.errorUnexpected(expected)
	p.synchronize()
	return node
}

func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.advance()
			return
		}
		if p.curIs(token.RBRACE) {
			return
		}
		switch p.cur.Type {
		case token.FUN, token.LET, token.STRUCT, token.ENUM, token.TRAIT, token.IMPL,
			token.MOD, token.IMPORT, token.IF, token.WHILE, token.FOR, token.LOOP,
			token.MATCH, token.RETURN:
			return
		}
		p.advance()
	}
}

// ParseProgram parses an entire source unit. It always returns a
// non-nil *ast.Program; check p.Diagnostics.HasErrors() for failures.
func ParseProgram(src string) (*ast.Program, *diagnostics.Sink) {
	p := New(src)
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		if p.curIs(token.IMPORT) {
			if imp := p.parseImport(); imp != nil {
				prog.Imports = append(prog.Imports, imp)
			}
			continue
		}
		if p.curIs(token.RBRACE) {
			p.errorUnexpected([]string{"statement"})
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, &p.Diagnostics
}
