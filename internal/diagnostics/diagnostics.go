// Package diagnostics is the closed error-taxonomy surface used by every
// compilation stage. It batches diagnostics rather than
// aborting: a lex, parse, or type-check pass collects as many as it can
// before returning, so one run surfaces multiple problems at once.
package diagnostics

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/token"
)

// Severity classifies a diagnostic for display ordering and exit-code
// purposes.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// ErrorCode namespaces diagnostics by compilation stage: L (lex), P
// (parse), T (type), M (mir), R (runtime).
type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // unterminated string
	ErrL002 ErrorCode = "L002" // invalid numeric literal
	ErrL003 ErrorCode = "L003" // unknown escape sequence
	ErrL004 ErrorCode = "L004" // unterminated block comment

	// Parser
	ErrP001 ErrorCode = "P001" // invalid assignment target
	ErrP002 ErrorCode = "P002" // invalid compound-assignment target
	ErrP003 ErrorCode = "P003" // unexpected token
	ErrP004 ErrorCode = "P004" // expected expression
	ErrP005 ErrorCode = "P005" // unclosed delimiter
	ErrP006 ErrorCode = "P006" // misplaced statement (e.g. return outside fn)
	ErrP007 ErrorCode = "P007" // invalid index-assignment target

	// Type inference
	ErrT001 ErrorCode = "T001" // unification failure
	ErrT002 ErrorCode = "T002" // occurs check
	ErrT003 ErrorCode = "T003" // unbound name
	ErrT004 ErrorCode = "T004" // arity mismatch
	ErrT005 ErrorCode = "T005" // ambiguous type

	// MIR / optimizer
	ErrM001 ErrorCode = "M001" // SSA invariant violated
	ErrM002 ErrorCode = "M002" // unreachable block retained after DCE
	ErrM003 ErrorCode = "M003" // construct not supported by the bytecode backend

	// Transpiler
	ErrX001 ErrorCode = "X001" // emitted a placeholder for a node with unresolved type

	// Runtime
	ErrR001 ErrorCode = "R001" // generic runtime error
	ErrR002 ErrorCode = "R002" // type mismatch
	ErrR003 ErrorCode = "R003" // division by zero
	ErrR004 ErrorCode = "R004" // index out of bounds
	ErrR005 ErrorCode = "R005" // key not found
	ErrR006 ErrorCode = "R006" // match exhaustion
	ErrR007 ErrorCode = "R007" // stack overflow
	ErrR008 ErrorCode = "R008" // resource exhausted
)

// SecondarySpan attaches an explanatory note to an auxiliary source span.
type SecondarySpan struct {
	Token token.Token
	Note  string
}

// DiagnosticError is a single diagnostic. It implements error so it can
// flow through ordinary Go error-handling while still carrying its
// structured severity/code/span/suggestion fields.
type DiagnosticError struct {
	Severity    Severity
	Code        ErrorCode
	Message     string
	Token       token.Token
	Secondary   []SecondarySpan
	Suggestions []string
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s[%s] %s (line %d, col %d)", e.Severity, e.Code, e.Message, e.Token.Line, e.Token.Column)
}

// NewError constructs an error-severity diagnostic. args are formatted
// into the code's message template with fmt.Sprintf semantics.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(messageTemplate(code), args...),
		Token:    tok,
	}
}

// NewWarning constructs a warning-severity diagnostic (e.g. the
// optimizer's div-by-literal-zero warning).
func NewWarning(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(messageTemplate(code), args...),
		Token:    tok,
	}
}

// WithSuggestion appends a suggestion string and returns the receiver for
// chaining at the call site.
func (e *DiagnosticError) WithSuggestion(s string) *DiagnosticError {
	e.Suggestions = append(e.Suggestions, s)
	return e
}

// WithSecondary attaches a secondary span/note and returns the receiver.
func (e *DiagnosticError) WithSecondary(tok token.Token, note string) *DiagnosticError {
	e.Secondary = append(e.Secondary, SecondarySpan{Token: tok, Note: note})
	return e
}

var templates = map[ErrorCode]string{
	ErrL001: "unterminated string literal",
	ErrL002: "invalid numeric literal %q",
	ErrL003: "unknown escape sequence %q",
	ErrL004: "unterminated block comment",

	ErrP001: "invalid assignment target",
	ErrP002: "invalid compound-assignment target",
	ErrP003: "unexpected token %s, expected one of %v",
	ErrP004: "expected expression, found %s",
	ErrP005: "unclosed delimiter %q",
	ErrP006: "%s is not allowed here",
	ErrP007: "invalid index-assignment target",

	ErrT001: "cannot unify %s with %s",
	ErrT002: "occurs check failed: %s occurs in %s",
	ErrT003: "unbound name %q",
	ErrT004: "arity mismatch: expected %d argument(s), found %d",
	ErrT005: "ambiguous type: %s could not be resolved",

	ErrM001: "SSA invariant violated: local %s assigned more than once",
	ErrM002: "unreachable block %s retained after dead-code elimination",
	ErrM003: "%s is not supported by the bytecode backend; use --vm-mode ast",

	ErrX001: "emitted placeholder for node with unresolved type",

	ErrR001: "%s",
	ErrR002: "type mismatch: %s",
	ErrR003: "division by zero",
	ErrR004: "index %d out of bounds for length %d",
	ErrR005: "key %q not found",
	ErrR006: "no pattern matched value %s",
	ErrR007: "stack overflow (depth exceeded %d)",
	ErrR008: "resource exhausted: %s",
}

func messageTemplate(code ErrorCode) string {
	if t, ok := templates[code]; ok {
		return t
	}
	return string(code)
}

// Sink collects diagnostics across a compilation stage rather than
// aborting on the first error.
type Sink struct {
	diags []*DiagnosticError
}

func (s *Sink) Add(d *DiagnosticError) { s.diags = append(s.diags, d) }

func (s *Sink) All() []*DiagnosticError { return s.diags }

func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
