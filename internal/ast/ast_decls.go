package ast

import "github.com/ruchy-lang/ruchy/internal/token"

// Visibility is `pub` or file-private.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// FunctionDecl is `fun name<T>(params) -> T { body }`.
type FunctionDecl struct {
	Attributed
	Token      token.Token
	Name       string
	TypeParams []string
	Params     []Param
	ReturnType TypeExpr // optional
	Body       *Block
	Visibility Visibility
}

func (n *FunctionDecl) Accept(v Visitor)      { v.VisitFunctionDecl(n) }
func (n *FunctionDecl) statementNode()        {}
func (n *FunctionDecl) TokenLiteral() string  { return n.Token.Lexeme }
func (n *FunctionDecl) GetToken() token.Token { return n.Token }

// StructField is one field of a struct declaration.
type StructField struct {
	Name       string
	Type       TypeExpr
	Visibility Visibility
}

type StructDecl struct {
	Attributed
	Token      token.Token
	Name       string
	TypeParams []string
	Fields     []StructField
	Visibility Visibility
}

func (n *StructDecl) Accept(v Visitor)      { v.VisitStructDecl(n) }
func (n *StructDecl) statementNode()        {}
func (n *StructDecl) TokenLiteral() string  { return n.Token.Lexeme }
func (n *StructDecl) GetToken() token.Token { return n.Token }

// EnumVariantDecl is one arm of an enum: `Some(T)`, `None`, `Point{x:
// Int, y: Int}`.
type EnumVariantDecl struct {
	Name        string
	TupleFields []TypeExpr
	StructField []StructField
}

type EnumDecl struct {
	Attributed
	Token      token.Token
	Name       string
	TypeParams []string
	Variants   []EnumVariantDecl
	Visibility Visibility
}

func (n *EnumDecl) Accept(v Visitor)      { v.VisitEnumDecl(n) }
func (n *EnumDecl) statementNode()        {}
func (n *EnumDecl) TokenLiteral() string  { return n.Token.Lexeme }
func (n *EnumDecl) GetToken() token.Token { return n.Token }

// TraitDecl declares a set of method signatures, optionally with default
// bodies.
type TraitMethodDecl struct {
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Default    *Block // nil if the trait only declares the signature
}

type TraitDecl struct {
	Attributed
	Token      token.Token
	Name       string
	TypeParams []string
	Methods    []TraitMethodDecl
	Visibility Visibility
}

func (n *TraitDecl) Accept(v Visitor)      { v.VisitTraitDecl(n) }
func (n *TraitDecl) statementNode()        {}
func (n *TraitDecl) TokenLiteral() string  { return n.Token.Lexeme }
func (n *TraitDecl) GetToken() token.Token { return n.Token }

// ImplDecl is `impl Trait for Type { methods }`, or an inherent impl
// (`Trait == ""`) providing methods directly on a type.
type ImplDecl struct {
	Attributed
	Token      token.Token
	Trait      string // empty for an inherent impl
	TypeParams []string
	ForType    TypeExpr
	Methods    []*FunctionDecl
}

func (n *ImplDecl) Accept(v Visitor)      { v.VisitImplDecl(n) }
func (n *ImplDecl) statementNode()        {}
func (n *ImplDecl) TokenLiteral() string  { return n.Token.Lexeme }
func (n *ImplDecl) GetToken() token.Token { return n.Token }

// ImportItem is one `item [as alias]` inside an `import path::{...}`.
type ImportItem struct {
	Name  string
	Alias string // empty if not renamed
}

// ImportStatement is `import path::{item[, item]*}`, limited to
// single-file-unit resolution.
type ImportStatement struct {
	Attributed
	Token token.Token
	Path  string
	Items []ImportItem
}

func (n *ImportStatement) Accept(v Visitor)      { v.VisitImportStatement(n) }
func (n *ImportStatement) statementNode()        {}
func (n *ImportStatement) TokenLiteral() string  { return n.Token.Lexeme }
func (n *ImportStatement) GetToken() token.Token { return n.Token }

// ModuleDecl is `mod name { items }`.
type ModuleDecl struct {
	Attributed
	Token token.Token
	Name  string
	Items []Statement
}

func (n *ModuleDecl) Accept(v Visitor)      { v.VisitModuleDecl(n) }
func (n *ModuleDecl) statementNode()        {}
func (n *ModuleDecl) TokenLiteral() string  { return n.Token.Lexeme }
func (n *ModuleDecl) GetToken() token.Token { return n.Token }
