package arena

import (
	"testing"
	"time"
)

func TestAllocAndGet(t *testing.T) {
	a := New(0)
	ref, err := Alloc(a, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := ref.Get()
	if !ok || v != 42 {
		t.Fatalf("expected 42, got %v ok=%v", v, ok)
	}
}

func TestResetInvalidatesRefs(t *testing.T) {
	a := New(0)
	ref, _ := Alloc(a, "hello")
	a.Reset()
	if _, ok := ref.Get(); ok {
		t.Fatalf("expected ref to be invalid after Reset")
	}
}

func TestOutOfBudget(t *testing.T) {
	a := New(8)
	if _, err := Alloc(a, int64(1)); err != nil {
		t.Fatalf("unexpected error on first alloc: %v", err)
	}
	if _, err := Alloc(a, int64(1)); err != ErrOutOfBudget {
		t.Fatalf("expected ErrOutOfBudget, got %v", err)
	}
}

func TestTransactionalRollbackDiscardsAllocations(t *testing.T) {
	ta := NewTransactional(0)
	pre, err := Alloc(ta.Arena, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cp := ta.Checkpoint()
	post, err := Alloc(ta.Arena, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ta.Rollback(cp); err != nil {
		t.Fatalf("unexpected rollback error: %v", err)
	}
	if v, ok := pre.Get(); !ok || v != 1 {
		t.Fatalf("expected pre-checkpoint ref to survive rollback, got %v ok=%v", v, ok)
	}
	if _, ok := post.Get(); ok {
		t.Fatalf("expected post-checkpoint ref to be invalidated by rollback")
	}
}

func TestTransactionalCommitKeepsAllocations(t *testing.T) {
	ta := NewTransactional(0)
	cp := ta.Checkpoint()
	ref, err := Alloc(ta.Arena, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ta.Commit(cp); err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}
	if v, ok := ref.Get(); !ok || v != 99 {
		t.Fatalf("expected ref to survive commit, got %v ok=%v", v, ok)
	}
}

func TestNestedCheckpointsFinalizeOnOuterRollback(t *testing.T) {
	ta := NewTransactional(0)
	outer := ta.Checkpoint()
	_ = ta.Checkpoint() // inner, never explicitly resolved
	ref, _ := Alloc(ta.Arena, "nested")
	if err := ta.Rollback(outer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ref.Get(); ok {
		t.Fatalf("expected nested allocation to be invalidated")
	}
	if err := ta.Commit(outer); err == nil {
		t.Fatalf("expected outer checkpoint to already be finalized")
	}
}

func TestBudgetExhaustsInstructions(t *testing.T) {
	b := NewBudget(3, 0, 0, time.Time{})
	for i := 0; i < 3; i++ {
		if err := b.ConsumeInstruction(); err != nil {
			t.Fatalf("unexpected early exhaustion at step %d: %v", i, err)
		}
	}
	err := b.ConsumeInstruction()
	if err == nil {
		t.Fatalf("expected ResourceExhausted")
	}
	re, ok := err.(*ResourceExhausted)
	if !ok || re.Kind != "instructions" {
		t.Fatalf("expected instructions ResourceExhausted, got %v", err)
	}
}

func TestBudgetStackDepth(t *testing.T) {
	b := NewBudget(0, 4, 0, time.Time{})
	if err := b.CheckStackDepth(4); err != nil {
		t.Fatalf("unexpected error at exactly the limit: %v", err)
	}
	if err := b.CheckStackDepth(5); err == nil {
		t.Fatalf("expected ResourceExhausted past the limit")
	}
}
