// internal/game/history.go
//
// Undo history for one Machine: a stack of pre-mutation snapshots.

package game

// snapshot is an immutable copy of every field Undo restores. The pointer
// fields are never mutated in place, only replaced, so sharing them is safe.
type snapshot struct {
	players      Players
	score        Score
	server       ServerState
	firstServe   bool
	winner       *Team
	winnerRecord *WinnerRecord
	isFinishing  bool
}

// history is a LIFO stack of pre-mutation snapshots. It is unbounded and
// lives exactly as long as its Machine.
type history struct {
	stack []snapshot
}

func (h *history) push(s snapshot) { h.stack = append(h.stack, s) }

// pop removes and returns the most recent snapshot; ok is false when empty.
func (h *history) pop() (s snapshot, ok bool) {
	if len(h.stack) == 0 {
		return snapshot{}, false
	}
	last := len(h.stack) - 1
	s = h.stack[last]
	h.stack = h.stack[:last]
	return s, true
}

func (h *history) size() int { return len(h.stack) }
