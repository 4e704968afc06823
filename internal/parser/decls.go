package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// parseStatement dispatches declarations and falls through to an
// expression statement otherwise.
func (p *Parser) parseStatement() ast.Statement {
	comments := p.takeComments()
	attrs := p.parseAttributes()

	vis := ast.Private
	if p.curIs(token.PUB) {
		vis = ast.Public
		p.advance()
	}

	var stmt ast.Statement
	switch p.cur.Type {
	case token.FUN:
		stmt = p.parseFunctionDecl(vis)
	case token.STRUCT:
		stmt = p.parseStructDecl(vis)
	case token.ENUM:
		stmt = p.parseEnumDecl(vis)
	case token.TRAIT:
		stmt = p.parseTraitDecl(vis)
	case token.IMPL:
		stmt = p.parseImplDecl()
	case token.MOD:
		stmt = p.parseModuleDecl()
	case token.IMPORT:
		stmt = p.parseImport()
	default:
		stmt = p.parseExpressionStatement()
	}

	if holder, ok := stmt.(interface {
		SetMeta([]ast.Attribute, []ast.Comment)
	}); ok && (len(attrs) > 0 || len(comments) > 0) {
		holder.SetMeta(attrs, comments)
	}
	return stmt
}

// parseAttributes reads zero or more leading `#[name(args)]`
// directives. Arguments are collected as raw lexemes; nothing in the
// attribute grammar nests, so a flat token scan to the closing bracket
// is enough.
func (p *Parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for p.curIs(token.HASH) && p.peekIs(token.LBRACKET) {
		p.advance() // #
		p.advance() // [
		if !p.curIs(token.IDENT) {
			p.errorUnexpected([]string{"attribute name"})
			break
		}
		attr := ast.Attribute{Name: p.cur.Lexeme}
		p.advance()
		if p.curIs(token.LPAREN) {
			p.advance()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				if !p.curIs(token.COMMA) {
					attr.Args = append(attr.Args, p.cur.Lexeme)
				}
				p.advance()
			}
			if p.curIs(token.RPAREN) {
				p.advance()
			}
		}
		if p.curIs(token.RBRACKET) {
			p.advance()
		} else {
			p.errorUnexpected([]string{"]"})
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	expr := p.parseExpression(precLowest)
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
	if stmt, ok := expr.(ast.Statement); ok {
		return stmt
	}
	return &ast.ExprStatement{Expr: expr}
}

func (p *Parser) parseFunctionDecl(vis ast.Visibility) *ast.FunctionDecl {
	tok := p.cur
	p.advance() // 'fun'
	name := p.curIdentName()
	p.advance()
	typeParams := p.parseOptionalTypeParams()
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	body := p.parseBlock()
	return &ast.FunctionDecl{Token: tok, Name: name, TypeParams: typeParams, Params: params, ReturnType: ret, Body: body, Visibility: vis}
}

func (p *Parser) curIdentName() string {
	if p.curIs(token.IDENT) {
		return p.cur.Literal
	}
	p.errorUnexpected([]string{"identifier"})
	return ""
}

func (p *Parser) parseOptionalTypeParams() []string {
	if !p.curIs(token.LT) {
		return nil
	}
	p.advance()
	var params []string
	for !p.curIs(token.GT) && !p.curIs(token.EOF) {
		params = append(params, p.curIdentName())
		p.advance()
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return params
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		name := p.parsePattern()
		var ty ast.TypeExpr
		if p.curIs(token.COLON) {
			p.advance()
			ty = p.parseTypeExpr()
		}
		var def ast.Expression
		if p.curIs(token.ASSIGN) {
			p.advance()
			def = p.parseExpression(precAssign + 1)
		}
		params = append(params, ast.Param{Name: name, TypeAnnotation: ty, Default: def})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseStructDecl(vis ast.Visibility) *ast.StructDecl {
	tok := p.cur
	p.advance() // 'struct'
	name := p.curIdentName()
	p.advance()
	typeParams := p.parseOptionalTypeParams()
	p.expect(token.LBRACE)
	var fields []ast.StructField
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fv := ast.Private
		if p.curIs(token.PUB) {
			fv = ast.Public
			p.advance()
		}
		fname := p.curIdentName()
		p.advance()
		p.expect(token.COLON)
		ty := p.parseTypeExpr()
		fields = append(fields, ast.StructField{Name: fname, Type: ty, Visibility: fv})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructDecl{Token: tok, Name: name, TypeParams: typeParams, Fields: fields, Visibility: vis}
}

func (p *Parser) parseEnumDecl(vis ast.Visibility) *ast.EnumDecl {
	tok := p.cur
	p.advance() // 'enum'
	name := p.curIdentName()
	p.advance()
	typeParams := p.parseOptionalTypeParams()
	p.expect(token.LBRACE)
	var variants []ast.EnumVariantDecl
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		vname := p.curIdentName()
		p.advance()
		var v ast.EnumVariantDecl
		v.Name = vname
		switch {
		case p.curIs(token.LPAREN):
			p.advance()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				v.TupleFields = append(v.TupleFields, p.parseTypeExpr())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		case p.curIs(token.LBRACE):
			p.advance()
			for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
				fname := p.curIdentName()
				p.advance()
				p.expect(token.COLON)
				ty := p.parseTypeExpr()
				v.StructField = append(v.StructField, ast.StructField{Name: fname, Type: ty})
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RBRACE)
		}
		variants = append(variants, v)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.EnumDecl{Token: tok, Name: name, TypeParams: typeParams, Variants: variants, Visibility: vis}
}

func (p *Parser) parseTraitDecl(vis ast.Visibility) *ast.TraitDecl {
	tok := p.cur
	p.advance() // 'trait'
	name := p.curIdentName()
	p.advance()
	typeParams := p.parseOptionalTypeParams()
	p.expect(token.LBRACE)
	var methods []ast.TraitMethodDecl
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.expect(token.FUN)
		mname := p.curIdentName()
		p.advance()
		params := p.parseParamList()
		var ret ast.TypeExpr
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseTypeExpr()
		}
		var def *ast.Block
		if p.curIs(token.LBRACE) {
			def = p.parseBlock()
		} else if p.curIs(token.SEMICOLON) {
			p.advance()
		}
		methods = append(methods, ast.TraitMethodDecl{Name: mname, Params: params, ReturnType: ret, Default: def})
	}
	p.expect(token.RBRACE)
	return &ast.TraitDecl{Token: tok, Name: name, TypeParams: typeParams, Methods: methods, Visibility: vis}
}

func (p *Parser) parseImplDecl() *ast.ImplDecl {
	tok := p.cur
	p.advance() // 'impl'
	typeParams := p.parseOptionalTypeParams()
	first := p.parseTypeExpr()
	var trait string
	forType := first
	if p.curIs(token.FOR) {
		p.advance()
		if nt, ok := first.(*ast.NamedType); ok {
			trait = nt.Name
		}
		forType = p.parseTypeExpr()
	}
	p.expect(token.LBRACE)
	var methods []*ast.FunctionDecl
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.FUN) || (p.curIs(token.PUB) && p.pk.Type == token.FUN) {
			vis := ast.Private
			if p.curIs(token.PUB) {
				vis = ast.Public
				p.advance()
			}
			methods = append(methods, p.parseFunctionDecl(vis))
			continue
		}
		p.errorUnexpected([]string{"fun"})
		p.advance()
		p.synchronize()
	}
	p.expect(token.RBRACE)
	return &ast.ImplDecl{Token: tok, Trait: trait, TypeParams: typeParams, ForType: forType, Methods: methods}
}

func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	tok := p.cur
	p.advance() // 'mod'
	name := p.curIdentName()
	p.advance()
	p.expect(token.LBRACE)
	var items []ast.Statement
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		items = append(items, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return &ast.ModuleDecl{Token: tok, Name: name, Items: items}
}

// parseImport parses `import path::{item[, item as alias]*}` or the
// single-item shorthand `import path::item`.
func (p *Parser) parseImport() *ast.ImportStatement {
	tok := p.cur
	p.advance() // 'import'
	var segs []string
	segs = append(segs, p.curIdentName())
	p.advance()
	for p.curIs(token.COLONCOLON) {
		p.advance()
		if p.curIs(token.LBRACE) {
			break
		}
		segs = append(segs, p.curIdentName())
		p.advance()
	}
	path := segs[len(segs)-1]
	if len(segs) > 1 {
		path = joinPath(segs[:len(segs)-1])
	}
	var items []ast.ImportItem
	if p.curIs(token.LBRACE) {
		p.advance()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			item := ast.ImportItem{Name: p.curIdentName()}
			p.advance()
			if p.curIs(token.AS) {
				p.advance()
				item.Alias = p.curIdentName()
				p.advance()
			}
			items = append(items, item)
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
	} else {
		items = append(items, ast.ImportItem{Name: path})
		path = joinPath(segs[:len(segs)-1])
	}
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
	return &ast.ImportStatement{Token: tok, Path: path, Items: items}
}

func joinPath(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "::"
		}
		out += s
	}
	return out
}
