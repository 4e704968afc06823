package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// parseTypeExpr parses a syntactic type annotation.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.cur.Type {
	case token.LPAREN:
		return p.parseTupleOrFuncType()
	case token.LBRACKET:
		return p.parseArrayType()
	case token.AMP:
		return p.parseRefType()
	case token.IDENT:
		return p.parseNamedTypeMaybeOptional()
	default:
		tok := p.cur
		p.errorUnexpected([]string{"type"})
		p.advance()
		return &ast.NamedType{Token: tok, Name: "<error>"}
	}
}

func (p *Parser) parseNamedTypeMaybeOptional() ast.TypeExpr {
	tok := p.cur
	name := p.cur.Literal
	p.advance()
	var args []ast.TypeExpr
	if p.curIs(token.LT) {
		p.advance()
		for !p.curIs(token.GT) && !p.curIs(token.EOF) {
			args = append(args, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.GT)
	}
	var t ast.TypeExpr = &ast.NamedType{Token: tok, Name: name, Args: args}
	if p.curIs(token.QUESTION) {
		qtok := p.cur
		p.advance()
		t = &ast.OptionalType{Token: qtok, Elem: t}
	}
	return t
}

func (p *Parser) parseTupleOrFuncType() ast.TypeExpr {
	tok := p.cur
	p.advance() // '('
	var elems []ast.TypeExpr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseTypeExpr())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	if p.curIs(token.ARROW) {
		p.advance()
		ret := p.parseTypeExpr()
		return &ast.FuncType{Token: tok, Params: elems, Return: ret}
	}
	return &ast.TupleType{Token: tok, Elements: elems}
}

func (p *Parser) parseArrayType() ast.TypeExpr {
	tok := p.cur
	p.advance() // '['
	elem := p.parseTypeExpr()
	var size ast.Expression
	if p.curIs(token.SEMICOLON) {
		p.advance()
		size = p.parseExpression(precLowest)
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayType{Token: tok, Elem: elem, Size: size}
}

func (p *Parser) parseRefType() ast.TypeExpr {
	tok := p.cur
	p.advance() // '&'
	mutable := false
	if p.curIs(token.IDENT) && p.cur.Literal == "mut" {
		mutable = true
		p.advance()
	}
	elem := p.parseTypeExpr()
	return &ast.RefType{Token: tok, Elem: elem, Mutable: mutable}
}
