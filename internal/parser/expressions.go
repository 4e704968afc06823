package parser

import (
	"strconv"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// parseExpression is the Pratt loop: parse a prefix form, then repeatedly
// fold in infix/postfix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec precedence) ast.Expression {
	left := p.parsePrefix()
	for !p.curIs(token.SEMICOLON) && minPrec < p.curPrecedenceAsInfix() {
		left = p.parseInfix(left)
	}
	return left
}

// curPrecedenceAsInfix looks at the CURRENT token (not peek) because this
// parser consumes the operator itself inside parseInfix, one token of
// lookahead behind a conventional pk-based Pratt loop — simpler here
// since advance() already skips NEWLINE/COMMENT transparently.
func (p *Parser) curPrecedenceAsInfix() precedence {
	if pr, ok := binPrecedence[p.cur.Type]; ok {
		return pr
	}
	return precLowest
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.cur.Type {
	case token.LPAREN:
		return p.parseCallExpr(left)
	case token.LBRACKET:
		return p.parseIndexExpr(left)
	case token.DOT:
		return p.parseFieldOrMethod(left, false)
	case token.QUESTION:
		if p.pk.Type == token.DOT {
			p.advance() // consume '?'
			return p.parseFieldOrMethod(left, true)
		}
		return p.parseTryPostfix(left)
	case token.BANG:
		return p.parseSendExpr(left)
	case token.AS:
		return p.parseCastExpr(left)
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN:
		return p.parseAssignExpr(left)
	default:
		return p.parseBinaryExpr(left)
	}
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	op, ok := binOpOf[tok.Type]
	if !ok {
		return left
	}
	prec := binPrecedence[tok.Type]
	p.advance()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Token: tok, Op: op, Left: left, Right: right}
}

func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	p.advance()
	// One below precAssign so the RHS absorbs further `=` at the same
	// level, making `a = b = c` parse right-associatively as
	// `a = (b = c)`.
	value := p.parseExpression(precAssign - 1)
	if !isValidAssignTarget(left) {
		if tok.Type == token.ASSIGN {
			p.errorHere(diagnostics.ErrP001)
		} else {
			p.errorHere(diagnostics.ErrP002)
		}
	}
	return &ast.AssignExpr{Token: tok, Target: left, Op: op, Value: value}
}

func isValidAssignTarget(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.FieldAccessExpr, *ast.IndexExpr, *ast.TupleLiteral:
		return true
	default:
		return false
	}
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // '('
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(precAssign+1))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseIndexExpr(recv ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // '['
	idx := p.parseExpression(precLowest)
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Token: tok, Receiver: recv, Index: idx}
}

func (p *Parser) parseFieldOrMethod(recv ast.Expression, optional bool) ast.Expression {
	tok := p.cur
	p.advance() // '.'
	if p.curIs(token.INT) {
		idxTok := p.cur
		idx, _ := strconv.Atoi(idxTok.Literal)
		p.advance()
		return &ast.FieldAccessExpr{Token: tok, Receiver: recv, Index: idx, IsOptional: optional}
	}
	name := p.curIdentName()
	p.advance()
	var turbofish []ast.TypeExpr
	if p.curIs(token.COLONCOLON) && p.pk.Type == token.LT {
		p.advance() // '::'
		p.advance() // '<'
		for !p.curIs(token.GT) && !p.curIs(token.EOF) {
			turbofish = append(turbofish, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.GT)
	}
	if p.curIs(token.LPAREN) {
		ptok := p.cur
		p.advance()
		var args []ast.Expression
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			args = append(args, p.parseExpression(precAssign+1))
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		_ = ptok
		return &ast.MethodCallExpr{Token: tok, Receiver: recv, Name: name, Args: args, Turbofish: turbofish}
	}
	return &ast.FieldAccessExpr{Token: tok, Receiver: recv, Name: name, Index: -1, IsOptional: optional}
}

func (p *Parser) parseTryPostfix(target ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // '?'
	return &ast.AskExpr{Token: tok, Target: target, Message: nil}
}

func (p *Parser) parseSendExpr(target ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // '!'
	msg := p.parseExpression(precSend + 1)
	return &ast.SendExpr{Token: tok, Target: target, Message: msg}
}

func (p *Parser) parseCastExpr(value ast.Expression) ast.Expression {
	tok := p.cur
	p.advance() // 'as'
	target := p.parseTypeExpr()
	return &ast.CastExpr{Token: tok, Value: value, Target: target}
}

// parsePrefix parses a prefix (nud) form: literals, identifiers, unary
// operators, grouping, and the block-like expression forms (if/match/
// while/for/loop/try/lambda/let).
func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.INT:
		return p.parseIntLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.BOOL_TRUE, token.BOOL_FALSE:
		tok := p.cur
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: tok.Type == token.BOOL_TRUE}
	case token.NIL:
		tok := p.cur
		p.advance()
		return &ast.NilLiteral{Token: tok}
	case token.CHAR:
		return p.parseLiteralAtom()
	case token.INTERP_STRING_PART:
		return p.parseStringLikeLiteral()
	case token.IDENT:
		return p.parseIdentOrPath()
	case token.MINUS:
		return p.parseUnary(ast.OpNeg)
	case token.BANG:
		return p.parseUnary(ast.OpNot)
	case token.TILDE:
		return p.parseUnary(ast.OpBitNot)
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACKET:
		return p.parseArrayOrVecRepeat()
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfExpr()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.WHILE:
		return p.parseWhileExpr("")
	case token.FOR:
		return p.parseForExpr("")
	case token.LOOP:
		return p.parseLoopExpr("")
	case token.BREAK:
		return p.parseBreakExpr()
	case token.CONTINUE:
		return p.parseContinueExpr()
	case token.RETURN:
		return p.parseReturnExpr()
	case token.THROW:
		return p.parseThrowExpr()
	case token.TRY:
		return p.parseTryExpr()
	case token.LET:
		return p.parseLetExpr()
	case token.PIPE, token.PIPEPIPE:
		return p.parseLambda(ast.CaptureRef)
	case token.MOVE:
		p.advance()
		return p.parseLambda(ast.CaptureMove)
	default:
		return p.errExpr([]string{"expression"})
	}
}

func (p *Parser) parseUnary(op ast.UnaryOp) ast.Expression {
	tok := p.cur
	p.advance()
	right := p.parseExpression(precUnary)
	return &ast.UnaryExpr{Token: tok, Op: op, Right: right}
}

func (p *Parser) parseIdentOrPath() ast.Expression {
	tok := p.cur
	name := p.cur.Literal
	p.advance()
	if p.curIs(token.COLONCOLON) {
		segs := []string{name}
		for p.curIs(token.COLONCOLON) {
			p.advance()
			segs = append(segs, p.curIdentName())
			p.advance()
		}
		return &ast.Path{Token: tok, Segments: segs}
	}
	if isLabelableLoopAhead(p, name) {
		return p.parseLabeledLoop(tok, name)
	}
	return &ast.Identifier{Token: tok, Value: name}
}

// isLabelableLoopAhead recognizes `'label: while|for|loop {... }`. The
// lexer has no dedicated lifetime/label token, so a label is written as a
// plain identifier immediately followed by ':' and a loop keyword.
func isLabelableLoopAhead(p *Parser, _ string) bool {
	return p.curIs(token.COLON) && (p.pk.Type == token.WHILE || p.pk.Type == token.FOR || p.pk.Type == token.LOOP)
}

func (p *Parser) parseLabeledLoop(_ token.Token, label string) ast.Expression {
	p.advance() // ':'
	switch p.cur.Type {
	case token.WHILE:
		return p.parseWhileExpr(label)
	case token.FOR:
		return p.parseForExpr(label)
	default:
		return p.parseLoopExpr(label)
	}
}

func (p *Parser) parseParenOrTuple() ast.Expression {
	tok := p.cur
	p.advance() // '('
	if p.curIs(token.RPAREN) {
		p.advance()
		return &ast.TupleLiteral{Token: tok}
	}
	first := p.parseExpression(precLowest)
	if !p.curIs(token.COMMA) {
		p.expect(token.RPAREN)
		return first
	}
	elems := []ast.Expression{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RPAREN) {
			break
		}
		elems = append(elems, p.parseExpression(precAssign+1))
	}
	p.expect(token.RPAREN)
	return &ast.TupleLiteral{Token: tok, Elements: elems}
}

func (p *Parser) parseArrayOrVecRepeat() ast.Expression {
	tok := p.cur
	p.advance() // '['
	if p.curIs(token.RBRACKET) {
		p.advance()
		return &ast.ArrayLiteral{Token: tok}
	}
	first := p.parseExpression(precAssign + 1)
	if p.curIs(token.SEMICOLON) {
		p.advance()
		count := p.parseExpression(precLowest)
		p.expect(token.RBRACKET)
		return &ast.VecRepeat{Token: tok, Elem: first, Count: count}
	}
	elems := []ast.Expression{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACKET) {
			break
		}
		elems = append(elems, p.parseExpression(precAssign+1))
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLiteral{Token: tok, Elements: elems}
}

// parseStringLikeLiteral assembles a plain StringLiteral when the piece
// run has no interpolation holes, or a StringInterp otherwise.
func (p *Parser) parseStringLikeLiteral() ast.Expression {
	tok := p.cur
	first := p.cur
	p.advance()
	if !p.curIs(token.INTERP_OPEN) {
		return &ast.StringLiteral{Token: first, Value: first.Literal}
	}
	parts := []ast.StringPart{{Text: first.Literal}}
	for p.curIs(token.INTERP_OPEN) {
		p.advance() // '{'
		expr := p.parseExpression(precLowest)
		parts = append(parts, ast.StringPart{Expr: expr})
		if !p.expect(token.INTERP_CLOSE) {
			break
		}
		if p.curIs(token.INTERP_STRING_PART) {
			piece := p.cur
			p.advance()
			parts = append(parts, ast.StringPart{Text: piece.Literal})
		}
	}
	return &ast.StringInterp{Token: tok, Parts: parts}
}

func (p *Parser) parseBlock() *ast.Block {
	tok := p.cur
	p.expect(token.LBRACE)
	blk := &ast.Block{Token: tok}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.isDeclStart() {
			stmt := p.parseStatement()
			if let, ok := stmt.(*ast.LetExpr); ok && let.Body != nil && p.curIs(token.RBRACE) {
				blk.Tail = let
				break
			}
			blk.Statements = append(blk.Statements, stmt)
			continue
		}
		expr := p.parseExpression(precLowest)
		if p.curIs(token.SEMICOLON) {
			p.advance()
			blk.Statements = append(blk.Statements, exprToStatement(expr))
			continue
		}
		if p.curIs(token.RBRACE) {
			blk.Tail = expr
			break
		}
		blk.Statements = append(blk.Statements, exprToStatement(expr))
	}
	p.expect(token.RBRACE)
	return blk
}

func (p *Parser) isDeclStart() bool {
	switch p.cur.Type {
	case token.FUN, token.STRUCT, token.ENUM, token.TRAIT, token.IMPL, token.MOD, token.IMPORT, token.PUB, token.LET:
		return true
	}
	return false
}

func exprToStatement(e ast.Expression) ast.Statement {
	if s, ok := e.(ast.Statement); ok {
		return s
	}
	return &ast.ExprStatement{Expr: e}
}

func (p *Parser) parseIfExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'if'
	cond := p.parseExpression(precLowest)
	cons := p.parseBlock()
	var alt ast.Expression
	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			alt = p.parseIfExpr()
		} else {
			alt = p.parseBlock()
		}
	}
	return &ast.IfExpr{Token: tok, Condition: cond, Consequence: cons, Alternative: alt}
}

func (p *Parser) parseMatchExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'match'
	subject := p.parseExpression(precLowest)
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expression
		if p.curIs(token.IF) {
			p.advance()
			guard = p.parseExpression(precLowest)
		}
		p.expect(token.FATARROW)
		body := p.parseExpression(precAssign + 1)
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.MatchExpr{Token: tok, Subject: subject, Arms: arms}
}

func (p *Parser) parseWhileExpr(label string) ast.Expression {
	tok := p.cur
	p.advance() // 'while'
	cond := p.parseExpression(precLowest)
	body := p.parseBlock()
	return &ast.WhileExpr{Token: tok, Label: label, Condition: cond, Body: body}
}

func (p *Parser) parseForExpr(label string) ast.Expression {
	tok := p.cur
	p.advance() // 'for'
	binding := p.parsePattern()
	p.expect(token.IN)
	iterable := p.parseExpression(precLowest)
	body := p.parseBlock()
	return &ast.ForExpr{Token: tok, Label: label, Binding: binding, Iterable: iterable, Body: body}
}

func (p *Parser) parseLoopExpr(label string) ast.Expression {
	tok := p.cur
	p.advance() // 'loop'
	body := p.parseBlock()
	return &ast.LoopExpr{Token: tok, Label: label, Body: body}
}

func (p *Parser) parseBreakExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'break'
	label := ""
	if p.curIs(token.IDENT) && isLoopLabelRef(p) {
		label = p.cur.Literal
		p.advance()
	}
	var val ast.Expression
	if !p.atExprTerminator() {
		val = p.parseExpression(precAssign + 1)
	}
	return &ast.BreakExpr{Token: tok, Label: label, Value: val}
}

// isLoopLabelRef is a light heuristic: an identifier right after
// break/continue is treated as a label reference only if the grammar
// offers no other interpretation at that position (there is no
// expression that can start a break/continue's value with a bare
// identifier immediately followed by nothing meaningful); since labels
// and value expressions both start with IDENT, we simply never treat the
// identifier as a label here and instead rely on `'label:` prefixes at
// the loop site. Kept as a hook for a future label-sigil token.
func isLoopLabelRef(p *Parser) bool { return false }

func (p *Parser) parseContinueExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'continue'
	return &ast.ContinueExpr{Token: tok}
}

func (p *Parser) parseReturnExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'return'
	var val ast.Expression
	if !p.atExprTerminator() {
		val = p.parseExpression(precAssign + 1)
	}
	return &ast.ReturnExpr{Token: tok, Value: val}
}

func (p *Parser) parseThrowExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'throw'
	val := p.parseExpression(precAssign + 1)
	return &ast.ThrowExpr{Token: tok, Value: val}
}

func (p *Parser) atExprTerminator() bool {
	switch p.cur.Type {
	case token.SEMICOLON, token.RBRACE, token.RPAREN, token.RBRACKET, token.COMMA, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseTryExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'try'
	body := p.parseBlock()
	var catchPat ast.Pattern
	var handler *ast.Block
	if p.curIs(token.CATCH) {
		p.advance()
		catchPat = p.parsePattern()
		handler = p.parseBlock()
	}
	var finally *ast.Block
	if p.curIs(token.FINALLY) {
		p.advance()
		finally = p.parseBlock()
	}
	return &ast.TryExpr{Token: tok, Body: body, CatchPattern: catchPat, Handler: handler, Finally: finally}
}

func (p *Parser) parseLetExpr() ast.Expression {
	tok := p.cur
	p.advance() // 'let'
	mutable := false
	if p.curIs(token.IDENT) && p.cur.Literal == "mut" {
		mutable = true
		p.advance()
	}
	pat := p.parsePattern()
	var ty ast.TypeExpr
	if p.curIs(token.COLON) {
		p.advance()
		ty = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	value := p.parseExpression(precAssign + 1)
	var body ast.Expression
	if p.curIs(token.IN) {
		p.advance()
		body = p.parseExpression(precLowest)
	}
	return &ast.LetExpr{Token: tok, Pattern: pat, TypeAnnotation: ty, Value: value, Body: body, Mutable: mutable}
}

// parseLambda parses `|params| body` / `||  body` / a preceding `move`
// already consumed by the caller.
func (p *Parser) parseLambda(mode ast.CaptureMode) ast.Expression {
	tok := p.cur
	var params []ast.Param
	if p.curIs(token.PIPEPIPE) {
		p.advance()
	} else {
		p.advance() // '|'
		for !p.curIs(token.PIPE) && !p.curIs(token.EOF) {
			name := p.parsePrimaryPattern()
			var ty ast.TypeExpr
			if p.curIs(token.COLON) {
				p.advance()
				ty = p.parseTypeExpr()
			}
			params = append(params, ast.Param{Name: name, TypeAnnotation: ty})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.PIPE)
	}
	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	body := p.parseExpression(precAssign + 1)
	return &ast.Lambda{Token: tok, Params: params, ReturnType: ret, Body: body, Captures: mode}
}
