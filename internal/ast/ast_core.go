// Package ast is the attributed expression tree produced by the
// parser. Every node is immutable after construction and carries its
// span, any leading/trailing comments, and an ordered list of
// attributes (`#[name(args)]`). Consumers dispatch through the Visitor
// interface rather than switching on node tags.
package ast

import (
	"github.com/ruchy-lang/ruchy/internal/token"
)

// Attribute is a compiler directive attached to the following item, e.g.
// `#[inline]` or `#[derive(Show)]`.
type Attribute struct {
	Name string
	Args []string
}

// Comment is source text attached out-of-band to a node.
type Comment struct {
	Text string
	Span token.Span
}

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Accept(v Visitor)
}

// Statement is a Node appearing in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node appearing in expression position. Several node
// types (Block, If, Match,...) implement both Statement and Expression
// because the language is expression-oriented.
type Expression interface {
	Node
	expressionNode()
}

// ExprStatement adapts a bare expression (a call, a method chain) used
// in statement position. Block/Let/If and friends implement Statement
// directly and never need the wrapper.
type ExprStatement struct {
	Attributed
	Expr Expression
}

func (n *ExprStatement) statementNode()        {}
func (n *ExprStatement) TokenLiteral() string  { return n.Expr.TokenLiteral() }
func (n *ExprStatement) GetToken() token.Token { return n.Expr.GetToken() }
func (n *ExprStatement) Accept(v Visitor)      { n.Expr.Accept(v) }

// UnwrapExpr returns the expression a statement evaluates, looking
// through ExprStatement and passing through nodes that are themselves
// expressions.
func UnwrapExpr(s Statement) (Expression, bool) {
	if es, ok := s.(*ExprStatement); ok {
		return es.Expr, true
	}
	e, ok := s.(Expression)
	return e, ok
}

// Attributed is embedded by every node to carry the common metadata
// (attributes, comments) without repeating the fields on each type.
type Attributed struct {
	Attributes      []Attribute
	LeadingComments []Comment
	TrailingComment *Comment
}

// SetMeta attaches parsed attributes and leading comments. Defined once
// here and promoted through embedding to every concrete node type, so the
// parser can attach metadata without a type switch over every node kind.
func (a *Attributed) SetMeta(attrs []Attribute, comments []Comment) {
	a.Attributes = attrs
	a.LeadingComments = comments
}

// Program is the root node produced by one parse call.
type Program struct {
	File       string
	Module     *ModuleDecl
	Imports    []*ImportStatement
	Statements []Statement
}

func (p *Program) Accept(v Visitor)      { v.VisitProgram(p) }
func (p *Program) GetToken() token.Token { return token.Token{} }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Identifier is a bare name reference.
type Identifier struct {
	Attributed
	Token token.Token
	Value string
}

func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// Path is a qualified reference, e.g. `math::pi`.
type Path struct {
	Attributed
	Token    token.Token
	Segments []string
}

func (p *Path) Accept(v Visitor)      { v.VisitPath(p) }
func (p *Path) expressionNode()       {}
func (p *Path) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Path) GetToken() token.Token { return p.Token }

// Literal nodes.

type IntegerLiteral struct {
	Attributed
	Token  token.Token
	Value  int64
	Suffix string // e.g. "i32"; empty if none given
}

func (n *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(n) }
func (n *IntegerLiteral) expressionNode()       {}
func (n *IntegerLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *IntegerLiteral) GetToken() token.Token { return n.Token }

type FloatLiteral struct {
	Attributed
	Token  token.Token
	Value  float64
	Suffix string // e.g. "f32"
}

func (n *FloatLiteral) Accept(v Visitor)      { v.VisitFloatLiteral(n) }
func (n *FloatLiteral) expressionNode()       {}
func (n *FloatLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *FloatLiteral) GetToken() token.Token { return n.Token }

type BoolLiteral struct {
	Attributed
	Token token.Token
	Value bool
}

func (n *BoolLiteral) Accept(v Visitor)      { v.VisitBoolLiteral(n) }
func (n *BoolLiteral) expressionNode()       {}
func (n *BoolLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *BoolLiteral) GetToken() token.Token { return n.Token }

type NilLiteral struct {
	Attributed
	Token token.Token
}

func (n *NilLiteral) Accept(v Visitor)      { v.VisitNilLiteral(n) }
func (n *NilLiteral) expressionNode()       {}
func (n *NilLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NilLiteral) GetToken() token.Token { return n.Token }

type CharLiteral struct {
	Attributed
	Token token.Token
	Value rune
}

func (n *CharLiteral) Accept(v Visitor)      { v.VisitCharLiteral(n) }
func (n *CharLiteral) expressionNode()       {}
func (n *CharLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *CharLiteral) GetToken() token.Token { return n.Token }

type StringLiteral struct {
	Attributed
	Token token.Token
	Value string
}

func (n *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(n) }
func (n *StringLiteral) expressionNode()       {}
func (n *StringLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *StringLiteral) GetToken() token.Token { return n.Token }

// StringInterp is a string with embedded expressions, e.g.
// `"hi {1+1}!"`.
type StringPart struct {
	Text string     // literal chunk; empty when Expr is set
	Expr Expression // interpolated sub-expression; nil for a literal chunk
}

type StringInterp struct {
	Attributed
	Token token.Token
	Parts []StringPart
}

func (n *StringInterp) Accept(v Visitor)      { v.VisitStringInterp(n) }
func (n *StringInterp) expressionNode()       {}
func (n *StringInterp) TokenLiteral() string  { return n.Token.Lexeme }
func (n *StringInterp) GetToken() token.Token { return n.Token }

// Error is the recovery placeholder the parser emits for unexpected
// input.
type Error struct {
	Attributed
	Token    token.Token
	Expected []string
	Message  string
}

func (n *Error) Accept(v Visitor)      { v.VisitError(n) }
func (n *Error) expressionNode()       {}
func (n *Error) statementNode()        {}
func (n *Error) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Error) GetToken() token.Token { return n.Token }
