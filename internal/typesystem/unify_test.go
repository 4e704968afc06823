package typesystem

import (
	"reflect"
	"testing"
)

func TestUnifyPrimitives(t *testing.T) {
	if _, err := Unify(TInt, TInt); err != nil {
		t.Fatalf("Int/Int should unify: %v", err)
	}
	if _, err := Unify(TInt, TBool); err == nil {
		t.Fatalf("Int/Bool should not unify")
	}
}

func TestUnifyBindsVar(t *testing.T) {
	a := TVar{Name: "a"}
	s, err := Unify(a, TInt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(s["a"], TInt) {
		t.Fatalf("expected a bound to Int, got %v", s["a"])
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	a := TVar{Name: "a"}
	listA := TList{Elem: a}
	if _, err := Unify(a, listA); err == nil {
		t.Fatalf("expected occurs-check failure")
	} else if _, ok := err.(*OccursCheckError); !ok {
		t.Fatalf("expected *OccursCheckError, got %T", err)
	}
}

func TestUnifyFunctionArity(t *testing.T) {
	f1 := TFunc{Params: []Type{TInt}, Return: TInt}
	f2 := TFunc{Params: []Type{TInt, TInt}, Return: TInt}
	if _, err := Unify(f1, f2); err == nil {
		t.Fatalf("expected arity mismatch")
	} else if _, ok := err.(*ArityMismatch); !ok {
		t.Fatalf("expected *ArityMismatch, got %T", err)
	}
}

func TestUnifyComposesSubstitutionAcrossFunctionParams(t *testing.T) {
	a := TVar{Name: "a"}
	f1 := TFunc{Params: []Type{a, a}, Return: a}
	f2 := TFunc{Params: []Type{TInt, TInt}, Return: TInt}
	s, err := Unify(f1, f2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(s["a"], TInt) {
		t.Fatalf("expected a=Int, got %v", s["a"])
	}
}
