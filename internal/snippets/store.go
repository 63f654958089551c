package snippets

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bethropolis/modstudio/internal/event"
	"github.com/bethropolis/modstudio/internal/lang"
	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/parser"
	"github.com/bethropolis/modstudio/internal/persist"
	"github.com/bethropolis/modstudio/internal/reparse"
	"github.com/bethropolis/modstudio/internal/tree"
)

type slotKey struct {
	pairID string
	editor EditorType
}

type notice struct {
	typ  event.Type
	data any
}

// Store owns the editor pair collection. Every operation replaces the current
// State with a new snapshot; snapshots handed out earlier never change.
// Events are dispatched after the store lock is released, on the goroutine
// that performed the mutation (the background parser for SetContentAsync).
type Store struct {
	mu      sync.Mutex
	state   State
	seqs    map[slotKey]uint64 // latest content submission per slot
	history *history

	parser       *parser.Parser
	storage      persist.Storage
	storageKey   string
	events       *event.Manager
	now          func() time.Time
	engine       Engine
	historyLimit int
	debounce     time.Duration
	reparse      *reparse.Manager
}

// NewStore creates a store and restores the collection from storage. Any
// failure to restore falls back to a single empty pair.
func NewStore(opts ...Option) *Store {
	lang.RegisterBuiltins()

	s := &Store{
		seqs:       make(map[slotKey]uint64),
		storage:    persist.Unavailable{},
		storageKey: persist.DefaultKey,
		now:        time.Now,
		engine:     DefaultEngine,
		debounce:   reparse.DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.parser == nil {
		s.parser = parser.New(nil)
	}
	s.history = newHistory(s.historyLimit)
	s.reparse = reparse.NewManager(s.parseAsync, s.applyAsync, s.debounce)

	restored := s.load(context.Background())
	logger.InfoTagf("store", "Store: ready with %d pair(s), restored=%t, language=%s",
		len(s.state.Pairs), restored, s.state.Language)
	s.events.Dispatch(event.TypeStoreLoaded, event.StoreLoadedData{
		Restored:  restored,
		PairCount: len(s.state.Pairs),
	})
	return s
}

// Close stops background parsing. Pending results are discarded.
func (s *Store) Close() {
	s.reparse.Shutdown()
}

// Flush waits until every submitted background parse has been applied or dropped.
func (s *Store) Flush() {
	s.reparse.Flush()
}

// update runs fn under the store lock and dispatches what it returns afterwards.
func (s *Store) update(fn func() []notice) {
	s.mu.Lock()
	notices := fn()
	s.mu.Unlock()

	for _, n := range notices {
		s.events.Dispatch(n.typ, n.data)
	}
}

// parseLocked builds fresh snippet values for text. Parse failures leave Root nil.
func (s *Store) parseLocked(text string) SnippetValues {
	res, err := s.parser.Snippet(context.Background(), text)
	if err != nil {
		logger.WarnTagf("store", "Store: parsing snippet: %v", err)
		res = parser.Result{}
	}
	return SnippetValues{
		Content:        text,
		Root:           res.Root,
		Tokens:         res.Tokens,
		RangeUpdatedAt: s.now(),
	}
}

func (s *Store) newPairLocked(n int) EditorPair {
	empty := s.parseLocked("")
	return EditorPair{
		ID:     uuid.NewString(),
		Name:   pairName(n),
		Before: empty,
		After:  empty,
		Output: empty,
	}
}

func (s *Store) defaultStateLocked() State {
	return State{
		Pairs:             []EditorPair{s.newPairLocked(1)},
		SelectedPairIndex: 0,
		Engine:            s.engine,
		Language:          s.parser.Language().Name,
	}
}

func (s *Store) validPairLocked(index int, op string) bool {
	if index < 0 || index >= len(s.state.Pairs) {
		logger.WarnTagf("store", "Store: %s: pair index %d out of range [0,%d)", op, index, len(s.state.Pairs))
		return false
	}
	return true
}

func (s *Store) validSlotLocked(index int, t EditorType, op string) bool {
	if !t.Valid() {
		logger.WarnTagf("store", "Store: %s: unknown editor type %q", op, t)
		return false
	}
	return s.validPairLocked(index, op)
}

func (s *Store) indexOfLocked(pairID string) int {
	return slices.IndexFunc(s.state.Pairs, func(p EditorPair) bool { return p.ID == pairID })
}

// replaceSlotLocked swaps one snippet in a copy of the pair slice.
func (s *Store) replaceSlotLocked(index int, t EditorType, v SnippetValues) {
	pairs := slices.Clone(s.state.Pairs)
	*pairs[index].slot(t) = v
	s.state.Pairs = pairs
}

// setSnippetLocked installs new content for a slot and persists the collection.
func (s *Store) setSnippetLocked(index int, t EditorType, v SnippetValues) []notice {
	s.replaceSlotLocked(index, t, v)
	pair := s.state.Pairs[index]
	logger.DebugTagf("store", "Store: %s/%s set to %d bytes, parsed=%t", pair.Name, t, len(v.Content), v.Root != nil)

	notices := s.persistLocked()
	return append(notices, notice{event.TypeContentChanged, event.SnippetData{
		PairIndex:  index,
		PairID:     pair.ID,
		EditorType: string(t),
	}})
}

// bumpLocked invalidates any background parse submitted for the slot.
func (s *Store) bumpLocked(key slotKey) uint64 {
	s.seqs[key]++
	return s.seqs[key]
}

func (s *Store) invalidateAllLocked() {
	for key := range s.seqs {
		s.seqs[key]++
	}
}

func (s *Store) forgetPairLocked(p EditorPair) {
	for _, t := range EditorTypes {
		s.reparse.Forget(reparse.Key{PairID: p.ID, EditorType: string(t)})
		delete(s.seqs, slotKey{p.ID, t})
	}
}

func pairsChanged(action string, index, count int) notice {
	return notice{event.TypePairsChanged, event.PairsChangedData{
		Action:    action,
		PairIndex: index,
		PairCount: count,
	}}
}

// AddPair appends an empty pair named "Test N" and returns its index.
// The selection does not move.
func (s *Store) AddPair() int {
	var index int
	s.update(func() []notice {
		s.history.record(s.state)
		pair := s.newPairLocked(len(s.state.Pairs) + 1)
		s.state.Pairs = append(slices.Clip(s.state.Pairs), pair)
		index = len(s.state.Pairs) - 1
		logger.InfoTagf("store", "Store: added pair %q at %d", pair.Name, index)

		return append(s.persistLocked(), pairsChanged("add", index, len(s.state.Pairs)))
	})
	return index
}

// RemovePair deletes the pair at index. The last remaining pair cannot be
// removed. Removing the selected pair selects the first one; removing a pair
// before the selection keeps the same pair selected.
func (s *Store) RemovePair(index int) error {
	var err error
	s.update(func() []notice {
		if index < 0 || index >= len(s.state.Pairs) {
			err = fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
			return nil
		}
		if len(s.state.Pairs) == 1 {
			err = ErrLastPair
			return nil
		}

		s.history.record(s.state)
		removed := s.state.Pairs[index]
		selected := s.state.SelectedPairIndex

		s.state.Pairs = slices.Delete(slices.Clone(s.state.Pairs), index, index+1)
		switch {
		case index == selected:
			s.state.SelectedPairIndex = 0
		case index < selected:
			s.state.SelectedPairIndex = selected - 1
		}
		s.forgetPairLocked(removed)
		logger.InfoTagf("store", "Store: removed pair %q at %d, selection %d -> %d",
			removed.Name, index, selected, s.state.SelectedPairIndex)

		notices := append(s.persistLocked(), pairsChanged("remove", index, len(s.state.Pairs)))
		if index == selected {
			notices = append(notices, notice{event.TypeSelectedPairChanged,
				event.SelectedPairChangedData{PairIndex: s.state.SelectedPairIndex}})
		}
		return notices
	})
	return err
}

// RenameEditor returns a setter for the name of the pair at index.
// Out-of-range indices are ignored.
func (s *Store) RenameEditor(index int) func(name string) {
	return func(name string) {
		s.update(func() []notice {
			if !s.validPairLocked(index, "rename") {
				return nil
			}
			s.history.record(s.state)
			pairs := slices.Clone(s.state.Pairs)
			pairs[index].Name = name
			s.state.Pairs = pairs

			return append(s.persistLocked(), pairsChanged("rename", index, len(pairs)))
		})
	}
}

// ClearAll replaces the collection with a single empty pair named "Test 1".
func (s *Store) ClearAll() {
	s.update(func() []notice {
		s.history.record(s.state)
		for _, p := range s.state.Pairs {
			s.forgetPairLocked(p)
		}
		s.state = State{
			Pairs:             []EditorPair{s.newPairLocked(1)},
			SelectedPairIndex: 0,
			Engine:            s.state.Engine,
			Language:          s.state.Language,
		}
		logger.InfoTagf("store", "Store: cleared all pairs")

		return append(s.persistLocked(),
			pairsChanged("clear", 0, 1),
			notice{event.TypeSelectedPairChanged, event.SelectedPairChangedData{PairIndex: 0}})
	})
}

// SetContent returns a setter that replaces a snippet's text, re-parses it,
// clears its ranges and persists the collection. Invalid slots are ignored.
func (s *Store) SetContent(pairIndex int, t EditorType) func(text string) {
	return func(text string) {
		s.update(func() []notice {
			if !s.validSlotLocked(pairIndex, t, "set content") {
				return nil
			}
			s.history.record(s.state)
			s.bumpLocked(slotKey{s.state.Pairs[pairIndex].ID, t})
			return s.setSnippetLocked(pairIndex, t, s.parseLocked(text))
		})
	}
}

// SetSelection returns a setter that rebuilds a snippet's ranges from a
// command. Snippets without a tree ignore selection.
func (s *Store) SetSelection(pairIndex int, t EditorType) func(cmd tree.Command) {
	return func(cmd tree.Command) {
		s.update(func() []notice {
			if !s.validSlotLocked(pairIndex, t, "set selection") {
				return nil
			}
			pair := s.state.Pairs[pairIndex]
			v := pair.Snippet(t)
			if v.Root == nil {
				logger.DebugTagf("store", "Store: %s/%s has no tree, ignoring selection", pair.Name, t)
				return nil
			}
			v.Ranges = tree.BuildRanges(v.Root, cmd)
			v.RangeUpdatedAt = s.now()
			s.replaceSlotLocked(pairIndex, t, v)

			kind := "<nil>"
			if cmd != nil {
				kind = cmd.Kind()
			}
			logger.DebugTagf("store", "Store: %s/%s %s -> %d range(s)", pair.Name, t, kind, len(v.Ranges))
			return []notice{{event.TypeSelectionChanged, event.SnippetData{
				PairIndex:  pairIndex,
				PairID:     pair.ID,
				EditorType: string(t),
			}}}
		})
	}
}

// SetEngine selects the codemod engine.
func (s *Store) SetEngine(e Engine) error {
	if !e.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEngine, e)
	}
	s.update(func() []notice {
		if s.state.Engine == e {
			return nil
		}
		s.history.record(s.state)
		s.state.Engine = e
		logger.InfoTagf("store", "Store: engine set to %s", e)

		return append(s.persistLocked(), notice{event.TypeEngineChanged, event.EngineChangedData{Engine: string(e)}})
	})
	return nil
}

// SetSelectedPairIndex moves the selection.
func (s *Store) SetSelectedPairIndex(index int) error {
	var err error
	s.update(func() []notice {
		if index < 0 || index >= len(s.state.Pairs) {
			err = fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
			return nil
		}
		if s.state.SelectedPairIndex == index {
			return nil
		}
		s.state.SelectedPairIndex = index
		return append(s.persistLocked(), notice{event.TypeSelectedPairChanged,
			event.SelectedPairChangedData{PairIndex: index}})
	})
	return err
}

// SetLanguage switches the snippet grammar and re-parses every snippet.
// Ranges are cleared because ids from the old trees no longer apply.
func (s *Store) SetLanguage(name string) error {
	l := lang.Get(name)
	if l == nil {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	s.update(func() []notice {
		if s.parser.Language().Name == l.Name {
			return nil
		}
		s.history.record(s.state)
		s.parser = s.parser.ForLanguage(l)
		s.invalidateAllLocked()
		s.state.Pairs = s.reparseAllLocked(s.state.Pairs)
		s.state.Language = l.Name
		logger.InfoTagf("store", "Store: language set to %s", l.Name)

		return append(s.persistLocked(), pairsChanged("language", s.state.SelectedPairIndex, len(s.state.Pairs)))
	})
	return nil
}

func (s *Store) reparseAllLocked(pairs []EditorPair) []EditorPair {
	out := make([]EditorPair, len(pairs))
	for i, p := range pairs {
		out[i] = EditorPair{
			ID:     p.ID,
			Name:   p.Name,
			Before: s.parseLocked(p.Before.Content),
			After:  s.parseLocked(p.After.Content),
			Output: s.parseLocked(p.Output.Content),
		}
	}
	return out
}

// Undo restores the snapshot before the last collection change.
func (s *Store) Undo() bool {
	return s.step("undo", s.history.undo)
}

// Redo reapplies the last undone change.
func (s *Store) Redo() bool {
	return s.step("redo", s.history.redo)
}

func (s *Store) step(action string, move func(State) (State, bool)) bool {
	var ok bool
	s.update(func() []notice {
		var next State
		next, ok = move(s.state)
		if !ok {
			return nil
		}
		if next.Language != s.parser.Language().Name {
			if l := lang.Get(next.Language); l != nil {
				s.parser = s.parser.ForLanguage(l)
			}
		}
		s.invalidateAllLocked()
		s.state = next
		logger.DebugTagf("store", "Store: %s -> %d pair(s)", action, len(next.Pairs))

		return append(s.persistLocked(), pairsChanged(action, next.SelectedPairIndex, len(next.Pairs)))
	})
	return ok
}

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.canUndo()
}

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.canRedo()
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Pairs = slices.Clone(st.Pairs)
	return st
}

// Len returns the number of pairs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Pairs)
}

// Pair returns the pair at index.
func (s *Store) Pair(index int) (EditorPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.Pairs) {
		return EditorPair{}, false
	}
	return s.state.Pairs[index], true
}

// AllSnippets returns every pair's contents grouped by slot.
func (s *Store) AllSnippets() AllSnippets {
	st := s.Snapshot()
	all := AllSnippets{
		Before: make([]string, len(st.Pairs)),
		After:  make([]string, len(st.Pairs)),
		Output: make([]string, len(st.Pairs)),
	}
	for i, p := range st.Pairs {
		all.Before[i] = p.Before.Content
		all.After[i] = p.After.Content
		all.Output[i] = p.Output.Content
	}
	return all
}

// SelectFirstTreeNode returns the first node range of the selected pair's
// snippet, or nil when its selection holds no node.
func (s *Store) SelectFirstTreeNode(t EditorType) *tree.Node {
	st := s.Snapshot()
	return tree.FirstNode(st.Selected().Snippet(t).Ranges)
}
