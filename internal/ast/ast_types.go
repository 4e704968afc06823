package ast

import "github.com/ruchy-lang/ruchy/internal/token"

// TypeExpr is the syntactic type annotation a programmer writes in
// source. It is lowered to a typesystem.Type by
// internal/infer; kept as a separate node set here so the parser stays
// independent of the type-inference package.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a primitive or user-defined type name, optionally applied
// to generic arguments: `Int`, `List<T>`, `Result<T, E>`.
type NamedType struct {
	Token token.Token
	Name  string
	Args  []TypeExpr
}

func (t *NamedType) Accept(v Visitor)      { v.VisitNamedType(t) }
func (t *NamedType) typeExprNode()         {}
func (t *NamedType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *NamedType) GetToken() token.Token { return t.Token }

// TupleType is `(T, U,...)`.
type TupleType struct {
	Token    token.Token
	Elements []TypeExpr
}

func (t *TupleType) Accept(v Visitor)      { v.VisitTupleType(t) }
func (t *TupleType) typeExprNode()         {}
func (t *TupleType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TupleType) GetToken() token.Token { return t.Token }

// ArrayType is `[T; n]`; Size is nil for `[T]` (list sugar).
type ArrayType struct {
	Token token.Token
	Elem  TypeExpr
	Size  Expression // nil for a plain list type
}

func (t *ArrayType) Accept(v Visitor)      { v.VisitArrayType(t) }
func (t *ArrayType) typeExprNode()         {}
func (t *ArrayType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *ArrayType) GetToken() token.Token { return t.Token }

// FuncType is `(T...) -> U`.
type FuncType struct {
	Token  token.Token
	Params []TypeExpr
	Return TypeExpr
}

func (t *FuncType) Accept(v Visitor)      { v.VisitFuncType(t) }
func (t *FuncType) typeExprNode()         {}
func (t *FuncType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *FuncType) GetToken() token.Token { return t.Token }

// RefType is `&T` / `&mut T`.
type RefType struct {
	Token   token.Token
	Elem    TypeExpr
	Mutable bool
}

func (t *RefType) Accept(v Visitor)      { v.VisitRefType(t) }
func (t *RefType) typeExprNode()         {}
func (t *RefType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *RefType) GetToken() token.Token { return t.Token }

// OptionalType is `T?`.
type OptionalType struct {
	Token token.Token
	Elem  TypeExpr
}

func (t *OptionalType) Accept(v Visitor)      { v.VisitOptionalType(t) }
func (t *OptionalType) typeExprNode()         {}
func (t *OptionalType) TokenLiteral() string  { return t.Token.Lexeme }
func (t *OptionalType) GetToken() token.Token { return t.Token }
