package repl

import "testing"

func TestEvalAccumulatesBindings(t *testing.T) {
	r := New(0)
	if _, err := r.Eval("let x = 10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := r.Eval("x + 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.Inspect() != "15" {
		t.Fatalf("expected 15, got %v", res.Value.Inspect())
	}
}

func TestFailedInputLeavesBindingsUnchanged(t *testing.T) {
	r := New(0)
	if _, err := r.Eval("let y = 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Eval("y / 0"); err == nil {
		t.Fatalf("expected a division-by-zero error")
	}
	res, err := r.Eval("y")
	if err != nil {
		t.Fatalf("unexpected error reading y back: %v", err)
	}
	if res.Value.Inspect() != "1" {
		t.Fatalf("expected y to still be 1, got %v", res.Value.Inspect())
	}
}

func TestHistoryRecordsEveryAttempt(t *testing.T) {
	r := New(0)
	r.Eval("1 + 1")
	r.Eval("let z =") // parse error
	hist := r.History()
	if len(hist) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(hist))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	r := New(0)
	if _, err := r.Eval("let answer = 42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := r.Save()
	if err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	restored, err := Load(data, 0)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	res, err := restored.Eval("answer")
	if err != nil {
		t.Fatalf("unexpected error reading restored binding: %v", err)
	}
	if res.Value.Inspect() != "42" {
		t.Fatalf("expected 42, got %v", res.Value.Inspect())
	}
	if len(restored.History()) != 2 { // 1 restored + 1 new
		t.Fatalf("expected history to carry over, got %v", restored.History())
	}
}
