// Package repl is the transactional REPL evaluator: it wraps each input
// in `checkpoint(); eval; if ok commit else rollback` so a failed input
// leaves both the arena and the binding environment exactly as they
// were. Session state persists as a `{version, bindings, history}` JSON
// document.
//
// One small Repl type delegates to interp.Interp for evaluation and
// arena.TransactionalArena for the checkpoint/rollback primitive; there
// is deliberately no second evaluation engine here.
package repl

import (
	"encoding/json"
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/arena"
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/interp"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

// SessionVersion is bumped whenever the persisted session JSON shape
// changes incompatibly.
const SessionVersion = 1

// Session is the JSON document a Repl can be saved to and restored
// from.
type Session struct {
	Version  int                    `json:"version"`
	Bindings map[string]interface{} `json:"bindings"`
	History  []string               `json:"history"`
}

// Repl is one interactive session: an interpreter whose global
// environment persists across inputs, a transactional arena backing
// it, and the accumulated input history.
type Repl struct {
	interp  *interp.Interp
	arena   *arena.TransactionalArena
	history []string
}

// New constructs an empty REPL session with the given arena byte
// budget (0 for unbounded).
func New(arenaBudget int) *Repl {
	return &Repl{
		interp: interp.New(),
		arena:  arena.NewTransactional(arenaBudget),
	}
}

// Result is one evaluated input's outcome.
type Result struct {
	Value  interp.Value
	Output string
}

// Eval parses and evaluates one input, atomically: on any error
// (parse, type, or runtime) the global environment and arena are rolled
// back to exactly their pre-Eval state, and
// the input is still appended to history since a session transcript
// records what was attempted, not just what succeeded. Each input is
// type-checked on its own, without the types of names bound by earlier
// inputs, so unbound-name diagnostics are not treated as failures here;
// a name unbound in the session fails at run time instead.
func (r *Repl) Eval(src string) (Result, error) {
	r.history = append(r.history, src)

	snapshot := r.interp.Globals.Snapshot()
	cp := r.arena.Checkpoint()

	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		r.arena.Rollback(cp)
		return Result{}, fmt.Errorf("parse error: %s", diags.All()[0].Error())
	}
	_, typeDiags := infer.InferProgram(prog)
	for _, d := range typeDiags.All() {
		if d.Severity == diagnostics.SeverityError && d.Code != diagnostics.ErrT003 {
			r.arena.Rollback(cp)
			return Result{}, fmt.Errorf("type error: %s", d.Error())
		}
	}

	v, err := r.interp.Run(prog)
	if err != nil {
		r.interp.Globals.Restore(snapshot)
		r.arena.Rollback(cp)
		return Result{}, err
	}
	if err := r.arena.Commit(cp); err != nil {
		return Result{}, err
	}
	return Result{Value: v}, nil
}

// History returns every input attempted this session, in order,
// regardless of whether it committed or rolled back.
func (r *Repl) History() []string {
	return append([]string(nil), r.history...)
}

// Save serializes the session's top-level bindings and history as a
// versioned JSON document.
func (r *Repl) Save() ([]byte, error) {
	sess := Session{Version: SessionVersion, Bindings: map[string]interface{}{}, History: r.History()}
	for name, v := range r.interp.Globals.Snapshot() {
		sess.Bindings[name] = interp.ToPlain(v)
	}
	return json.MarshalIndent(sess, "", "  ")
}

// Load restores a session's bindings and history into a fresh REPL.
// The arena is not part of the persisted document, so a restored
// session starts with a clean arena.
func Load(data []byte, arenaBudget int) (*Repl, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	r := New(arenaBudget)
	for name, raw := range sess.Bindings {
		r.interp.Globals.Define(name, interp.FromPlain(raw))
	}
	r.history = append(r.history, sess.History...)
	return r, nil
}
