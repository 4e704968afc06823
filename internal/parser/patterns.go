package parser

import (
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// parsePattern parses a pattern, used in let
// bindings, function parameters, for-loop bindings, and match arms.
func (p *Parser) parsePattern() ast.Pattern {
	pat := p.parsePrimaryPattern()
	if p.curIs(token.PIPE) {
		alts := []ast.Pattern{pat}
		for p.curIs(token.PIPE) {
			p.advance()
			alts = append(alts, p.parsePrimaryPattern())
		}
		pat = &ast.OrPattern{Token: pat.GetToken(), Alternatives: alts}
	}
	// A guard following a pattern (`pattern if cond`) is parsed by the
	// caller (parseMatchExpr attaches it to MatchArm.Guard); GuardedPattern
	// exists for the rarer case of a guard carried inline on a pattern
	// used outside a match arm, and is built directly by such callers.
	return pat
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	switch p.cur.Type {
	case token.UNDERSCORE:
		tok := p.cur
		p.advance()
		return &ast.WildcardPattern{Token: tok}
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.LBRACKET:
		return p.parseListPattern()
	case token.INT, token.FLOAT, token.BOOL_TRUE, token.BOOL_FALSE, token.CHAR, token.MINUS:
		return p.parseLiteralOrRangePattern()
	case token.INTERP_STRING_PART:
		lit := p.parseStringLikeLiteral()
		return &ast.LiteralPattern{Token: lit.GetToken(), Literal: lit}
	case token.IDENT:
		return p.parseIdentOrStructOrVariantPattern()
	default:
		tok := p.cur
		p.errorUnexpected([]string{"pattern"})
		p.advance()
		return &ast.WildcardPattern{Token: tok}
	}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	tok := p.cur
	p.advance() // '('
	var elems []ast.Pattern
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elems = append(elems, p.parsePattern())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	if len(elems) == 1 {
		return elems[0]
	}
	return &ast.TuplePattern{Token: tok, Elements: elems}
}

func (p *Parser) parseListPattern() ast.Pattern {
	tok := p.cur
	p.advance() // '['
	var elems []ast.Pattern
	var rest *string
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.DOTDOT) {
			p.advance()
			name := ""
			if p.curIs(token.IDENT) {
				name = p.cur.Literal
				p.advance()
			}
			rest = &name
			break
		}
		elems = append(elems, p.parsePattern())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ListPattern{Token: tok, Elements: elems, Rest: rest}
}

func (p *Parser) parseLiteralOrRangePattern() ast.Pattern {
	lit := p.parseLiteralAtom()
	if p.curIs(token.DOTDOT) || p.curIs(token.DOTDOTEQ) {
		inclusive := p.curIs(token.DOTDOTEQ)
		rtok := p.cur
		p.advance()
		high := p.parseLiteralAtom()
		return &ast.RangePattern{Token: rtok, Low: lit, High: high, Inclusive: inclusive}
	}
	return &ast.LiteralPattern{Token: lit.GetToken(), Literal: lit}
}

// parseLiteralAtom parses a single numeric/bool/char literal, honoring a
// leading unary minus (for negative pattern/range bounds).
func (p *Parser) parseLiteralAtom() ast.Expression {
	if p.curIs(token.MINUS) {
		tok := p.cur
		p.advance()
		right := p.parseLiteralAtom()
		return &ast.UnaryExpr{Token: tok, Op: ast.OpNeg, Right: right}
	}
	switch p.cur.Type {
	case token.INT:
		return p.parseIntLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.BOOL_TRUE, token.BOOL_FALSE:
		tok := p.cur
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: tok.Type == token.BOOL_TRUE}
	case token.CHAR:
		tok := p.cur
		p.advance()
		r := rune(0)
		if len(tok.Literal) > 0 {
			r = []rune(tok.Literal)[0]
		}
		return &ast.CharLiteral{Token: tok, Value: r}
	default:
		tok := p.cur
		p.errorUnexpected([]string{"literal"})
		p.advance()
		return &ast.NilLiteral{Token: tok}
	}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	v, _ := strconv.ParseInt(tok.Literal, 0, 64)
	suffix := ""
	if s := strings.ReplaceAll(tok.Lexeme, "_", ""); strings.HasPrefix(s, tok.Literal) {
		suffix = s[len(tok.Literal):]
	}
	return &ast.IntegerLiteral{Token: tok, Value: v, Suffix: suffix}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	v, _ := strconv.ParseFloat(tok.Literal, 64)
	suffix := ""
	if s := strings.ReplaceAll(tok.Lexeme, "_", ""); strings.HasPrefix(s, tok.Literal) {
		suffix = s[len(tok.Literal):]
	}
	return &ast.FloatLiteral{Token: tok, Value: v, Suffix: suffix}
}

func (p *Parser) parseIdentOrStructOrVariantPattern() ast.Pattern {
	tok := p.cur
	name := p.cur.Literal
	upper := len(name) > 0 && isUpperFirst(name)
	p.advance()
	switch {
	case p.curIs(token.LPAREN) && upper:
		p.advance()
		var payload []ast.Pattern
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			payload = append(payload, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return &ast.VariantPattern{Token: tok, Name: name, Payload: payload}
	case p.curIs(token.LBRACE) && upper:
		p.advance()
		var fields []ast.StructFieldPattern
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			fname := p.curIdentName()
			p.advance()
			var fp ast.Pattern
			if p.curIs(token.COLON) {
				p.advance()
				fp = p.parsePattern()
			}
			fields = append(fields, ast.StructFieldPattern{Name: fname, Pattern: fp})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
		return &ast.StructPattern{Token: tok, Name: name, Fields: fields}
	default:
		if len(name) > 0 && isUpperFirst(name) {
			return &ast.VariantPattern{Token: tok, Name: name}
		}
		return &ast.IdentPattern{Token: tok, Name: name}
	}
}

func isUpperFirst(s string) bool {
	r := []rune(s)[0]
	return r >= 'A' && r <= 'Z'
}
