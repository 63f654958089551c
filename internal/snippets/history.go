package snippets

import "github.com/bethropolis/modstudio/internal/logger"

const DefaultHistoryLimit = 100

// history is a bounded undo/redo stack of whole snapshots. Snapshots share
// their immutable trees, so recording one costs a slice header per pair.
type history struct {
	past   []State
	future []State
	limit  int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{limit: limit}
}

// record pushes the snapshot taken before a mutation and drops the redo stack.
func (h *history) record(prev State) {
	h.future = nil
	h.past = append(h.past, prev)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	logger.DebugTagf("store", "History: recorded snapshot, %d undoable", len(h.past))
}

func (h *history) undo(current State) (State, bool) {
	if len(h.past) == 0 {
		logger.DebugTagf("store", "History: nothing to undo")
		return State{}, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return prev, true
}

func (h *history) redo(current State) (State, bool) {
	if len(h.future) == 0 {
		logger.DebugTagf("store", "History: nothing to redo")
		return State{}, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return next, true
}

func (h *history) canUndo() bool { return len(h.past) > 0 }
func (h *history) canRedo() bool { return len(h.future) > 0 }
