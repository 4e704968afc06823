package ast

import "github.com/ruchy-lang/ruchy/internal/token"

// Pattern is the interface for every pattern-matching form. Patterns bind names into the enclosing scope in lexical
// (left-to-right) order.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is `_`: matches anything, binds nothing.
type WildcardPattern struct {
	Token token.Token
}

func (p *WildcardPattern) Accept(v Visitor)      { v.VisitWildcardPattern(p) }
func (p *WildcardPattern) patternNode()          {}
func (p *WildcardPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *WildcardPattern) GetToken() token.Token { return p.Token }

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	Token   token.Token
	Literal Expression // one of the *Literal expression nodes
}

func (p *LiteralPattern) Accept(v Visitor)      { v.VisitLiteralPattern(p) }
func (p *LiteralPattern) patternNode()          {}
func (p *LiteralPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *LiteralPattern) GetToken() token.Token { return p.Token }

// IdentPattern binds the matched value to a name.
type IdentPattern struct {
	Token token.Token
	Name  string
}

func (p *IdentPattern) Accept(v Visitor)      { v.VisitIdentPattern(p) }
func (p *IdentPattern) patternNode()          {}
func (p *IdentPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *IdentPattern) GetToken() token.Token { return p.Token }

// TuplePattern destructures a tuple.
type TuplePattern struct {
	Token    token.Token
	Elements []Pattern
}

func (p *TuplePattern) Accept(v Visitor)      { v.VisitTuplePattern(p) }
func (p *TuplePattern) patternNode()          {}
func (p *TuplePattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *TuplePattern) GetToken() token.Token { return p.Token }

// ListPattern destructures a list, with an optional `...rest` binding
// for the remaining tail.
type ListPattern struct {
	Token    token.Token
	Elements []Pattern
	Rest     *string // nil if there is no rest binding
}

func (p *ListPattern) Accept(v Visitor)      { v.VisitListPattern(p) }
func (p *ListPattern) patternNode()          {}
func (p *ListPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *ListPattern) GetToken() token.Token { return p.Token }

// StructFieldPattern binds one field of a struct pattern.
type StructFieldPattern struct {
	Name    string
	Pattern Pattern // nil for shorthand `{ x }`
}

// StructPattern destructures a named struct.
type StructPattern struct {
	Token  token.Token
	Name   string
	Fields []StructFieldPattern
}

func (p *StructPattern) Accept(v Visitor)      { v.VisitStructPattern(p) }
func (p *StructPattern) patternNode()          {}
func (p *StructPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *StructPattern) GetToken() token.Token { return p.Token }

// VariantPattern matches an enum variant, e.g. `Some(x)`, `None`.
type VariantPattern struct {
	Token   token.Token
	Name    string
	Payload []Pattern
}

func (p *VariantPattern) Accept(v Visitor)      { v.VisitVariantPattern(p) }
func (p *VariantPattern) patternNode()          {}
func (p *VariantPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *VariantPattern) GetToken() token.Token { return p.Token }

// OrPattern matches if any of its alternatives matches, e.g. `1 | 2 | 3`.
type OrPattern struct {
	Token        token.Token
	Alternatives []Pattern
}

func (p *OrPattern) Accept(v Visitor)      { v.VisitOrPattern(p) }
func (p *OrPattern) patternNode()          {}
func (p *OrPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *OrPattern) GetToken() token.Token { return p.Token }

// RangePattern matches a value falling within [Low, High] (or [Low,
// High) if Inclusive is false).
type RangePattern struct {
	Token     token.Token
	Low       Expression
	High      Expression
	Inclusive bool
}

func (p *RangePattern) Accept(v Visitor)      { v.VisitRangePattern(p) }
func (p *RangePattern) patternNode()          {}
func (p *RangePattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *RangePattern) GetToken() token.Token { return p.Token }

// GuardedPattern wraps a pattern with a binding guard expression. Most
// guards live on MatchArm; this variant exists for patterns that carry
// their own guard inline (or-pattern arms sharing one guard).
type GuardedPattern struct {
	Token token.Token
	Inner Pattern
	Guard Expression
}

func (p *GuardedPattern) Accept(v Visitor)      { v.VisitGuardedPattern(p) }
func (p *GuardedPattern) patternNode()          {}
func (p *GuardedPattern) TokenLiteral() string  { return p.Token.Lexeme }
func (p *GuardedPattern) GetToken() token.Token { return p.Token }
