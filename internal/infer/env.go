// Package infer implements Hindley-Milner type inference (Algorithm W)
// over the AST: a fresh-variable counter, a TypeMap keyed by ast.Node,
// and one accumulated global substitution. There is no trait witness
// machinery — the language has no higher-kinded types or row
// polymorphism, and the struct/enum/trait surface resolves to ordinary
// nominal types rather than a constraint-solving pass.
package infer

import "github.com/ruchy-lang/ruchy/internal/typesystem"

// Env is a lexical scope mapping names to type schemes. Lookups walk
// outward through Parent, matching ordinary lexical shadowing.
type Env struct {
	vars   map[string]typesystem.Scheme
	Parent *Env
}

// NewEnv returns an empty top-level environment.
func NewEnv() *Env {
	return &Env{vars: map[string]typesystem.Scheme{}}
}

// Child returns a new scope nested inside e.
func (e *Env) Child() *Env {
	return &Env{vars: map[string]typesystem.Scheme{}, Parent: e}
}

// Bind introduces name with a monomorphic type (no generalization), used
// for function parameters and pattern bindings.
func (e *Env) Bind(name string, t typesystem.Type) {
	e.vars[name] = typesystem.Scheme{Type: t}
}

// BindScheme introduces name with a (possibly polymorphic) scheme, used
// for let-generalized bindings.
func (e *Env) BindScheme(name string, s typesystem.Scheme) {
	e.vars[name] = s
}

// Lookup finds name's scheme, searching outward through enclosing scopes.
func (e *Env) Lookup(name string) (typesystem.Scheme, bool) {
	for s := e; s != nil; s = s.Parent {
		if sc, ok := s.vars[name]; ok {
			return sc, true
		}
	}
	return typesystem.Scheme{}, false
}

// FreeTypeVariables collects the free type variables of every binding
// visible from e, used when generalizing a let-binding so that type
// variables still constrained by an enclosing scope are not
// over-generalized.
func (e *Env) FreeTypeVariables() []typesystem.TVar {
	var out []typesystem.TVar
	for s := e; s != nil; s = s.Parent {
		for _, sc := range s.vars {
			out = append(out, sc.FreeTypeVariables()...)
		}
	}
	return out
}

// Apply returns a copy of e (and its ancestors) with sub applied to every
// binding, used after a nested inference step refines the global
// substitution; e itself is left unchanged.
func (e *Env) Apply(sub typesystem.Subst) *Env {
	out := &Env{vars: make(map[string]typesystem.Scheme, len(e.vars)), Parent: e.Parent}
	for k, v := range e.vars {
		out.vars[k] = v.Apply(sub)
	}
	if e.Parent != nil {
		out.Parent = e.Parent.Apply(sub)
	}
	return out
}
