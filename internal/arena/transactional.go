package arena

import "errors"

// ErrUnknownCheckpoint is returned by Commit/Rollback for an id that was
// never issued, or has already been finalized.
var ErrUnknownCheckpoint = errors.New("arena: unknown checkpoint id")

// CheckpointId identifies one entry on a TransactionalArena's checkpoint
// stack.
type CheckpointId int

type checkpoint struct {
	id            int
	blockCount    int
	lastBlockBump int
	used          int
}

// TransactionalArena layers a checkpoint stack over an Arena.
// checkpoint()/commit()/rollback() let a host — the REPL, in this
// toolchain — treat one evaluation as atomic: "checkpoint(); eval;
// if ok commit else rollback" leaves state exactly as it was on failure.
type TransactionalArena struct {
	Arena  *Arena
	stack  []checkpoint
	nextID int
}

// NewTransactional constructs a transactional arena with the given byte
// budget (0 for unbounded).
func NewTransactional(byteBudget int) *TransactionalArena {
	return &TransactionalArena{Arena: New(byteBudget)}
}

// Checkpoint records the current occupancy of every block and the
// arena's metadata, returning an id that Commit or Rollback can later
// target.
func (t *TransactionalArena) Checkpoint() CheckpointId {
	id := CheckpointId(t.nextID)
	t.nextID++
	lastBump := 0
	if len(t.Arena.blocks) > 0 {
		lastBump = t.Arena.blocks[len(t.Arena.blocks)-1].bump
	}
	t.stack = append(t.stack, checkpoint{
		id:            int(id),
		blockCount:    len(t.Arena.blocks),
		lastBlockBump: lastBump,
		used:          t.Arena.used,
	})
	return id
}

func (t *TransactionalArena) indexOf(id CheckpointId) (int, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].id == int(id) {
			return i, true
		}
	}
	return -1, false
}

// Commit finalizes id and discards it, and every checkpoint nested
// above it, without touching arena contents.
func (t *TransactionalArena) Commit(id CheckpointId) error {
	idx, ok := t.indexOf(id)
	if !ok {
		return ErrUnknownCheckpoint
	}
	t.stack = t.stack[:idx]
	return nil
}

// Rollback truncates the arena back to the occupancy recorded at id
// (discarding every allocation made since), invalidating any Ref
// allocated after the checkpoint, and finalizes id and everything
// nested above it.
func (t *TransactionalArena) Rollback(id CheckpointId) error {
	idx, ok := t.indexOf(id)
	if !ok {
		return ErrUnknownCheckpoint
	}
	cp := t.stack[idx]
	if cp.blockCount < len(t.Arena.blocks) {
		t.Arena.blocks = t.Arena.blocks[:cp.blockCount]
	}
	if cp.blockCount > 0 {
		t.Arena.blocks[cp.blockCount-1].bump = cp.lastBlockBump
	}
	t.Arena.used = cp.used
	t.Arena.gen++
	t.stack = t.stack[:idx]
	return nil
}
