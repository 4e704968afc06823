package typesystem

import "fmt"

// UnificationFailure, OccursCheck, and ArityMismatch are the three failure
// kinds Unify can raise. UnboundName and
// AmbiguousType are raised by the inferencer itself, not by Unify.
type UnificationFailure struct{ T1, T2 Type }

func (e *UnificationFailure) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.T1, e.T2)
}

type OccursCheckError struct {
	Var TVar
	In  Type
}

func (e *OccursCheckError) Error() string {
	return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Var, e.In)
}

type ArityMismatch struct{ Expected, Found int }

func (e *ArityMismatch) Error() string {
	return fmt.Sprintf("arity mismatch: expected %d, found %d", e.Expected, e.Found)
}

// Unify finds the most general substitution that makes t1 and t2
// equal, enforcing strict (invariant) equality by structural recursion
// over the closed Type variant set. There are no row-polymorphic
// records and no union subtyping.
func Unify(t1, t2 Type) (Subst, error) {
	switch a := t1.(type) {
	case TVar:
		return bindVar(a, t2)
	}
	switch b := t2.(type) {
	case TVar:
		return bindVar(b, t1)
	}

	switch a := t1.(type) {
	case TCon:
		b, ok := t2.(TCon)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		return unifyList(a.Args, b.Args)

	case TTuple:
		b, ok := t2.(TTuple)
		if !ok {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		if len(a.Elements) != len(b.Elements) {
			return nil, &ArityMismatch{Expected: len(a.Elements), Found: len(b.Elements)}
		}
		return unifyList(a.Elements, b.Elements)

	case TArray:
		b, ok := t2.(TArray)
		if !ok {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		if a.Size != nil && b.Size != nil && *a.Size != *b.Size {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		return Unify(a.Elem, b.Elem)

	case TList:
		b, ok := t2.(TList)
		if !ok {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		return Unify(a.Elem, b.Elem)

	case TOptional:
		b, ok := t2.(TOptional)
		if !ok {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		return Unify(a.Elem, b.Elem)

	case TRef:
		b, ok := t2.(TRef)
		if !ok || a.Mutable != b.Mutable {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		return Unify(a.Elem, b.Elem)

	case TFunc:
		b, ok := t2.(TFunc)
		if !ok {
			return nil, &UnificationFailure{T1: t1, T2: t2}
		}
		if len(a.Params) != len(b.Params) {
			return nil, &ArityMismatch{Expected: len(a.Params), Found: len(b.Params)}
		}
		s1, err := unifyList(a.Params, b.Params)
		if err != nil {
			return nil, err
		}
		s2, err := Unify(a.Return.Apply(s1), b.Return.Apply(s1))
		if err != nil {
			return nil, err
		}
		return Compose(s2, s1), nil
	}

	return nil, &UnificationFailure{T1: t1, T2: t2}
}

func unifyList(as, bs []Type) (Subst, error) {
	subst := Subst{}
	for i := range as {
		s, err := Unify(as[i].Apply(subst), bs[i].Apply(subst))
		if err != nil {
			return nil, err
		}
		subst = Compose(s, subst)
	}
	return subst, nil
}

// bindVar binds a type variable to t, performing the mandatory occurs
// check.
func bindVar(v TVar, t Type) (Subst, error) {
	if other, ok := t.(TVar); ok && other.Name == v.Name {
		return Subst{}, nil
	}
	if occurs(v, t) {
		return nil, &OccursCheckError{Var: v, In: t}
	}
	return Subst{v.Name: t}, nil
}

func occurs(v TVar, t Type) bool {
	for _, fv := range t.FreeTypeVariables() {
		if fv.Name == v.Name {
			return true
		}
	}
	return false
}
