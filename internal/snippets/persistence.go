package snippets

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bethropolis/modstudio/internal/event"
	"github.com/bethropolis/modstudio/internal/lang"
	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/persist"
)

// load restores the collection, reporting whether a stored record was used.
// Only contents are trusted; trees, tokens and ranges are rebuilt.
func (s *Store) load(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Load(ctx, s.storageKey)
	if err != nil {
		switch {
		case errors.Is(err, persist.ErrNotFound):
			logger.DebugTagf("store", "Store: nothing stored under %q, using defaults", s.storageKey)
		case errors.Is(err, persist.ErrUnavailable):
			logger.DebugTagf("store", "Store: no durable storage, using defaults")
		default:
			logger.WarnTagf("store", "Store: loading %q: %v, using defaults", s.storageKey, err)
		}
		s.state = s.defaultStateLocked()
		return false
	}

	rec, err := persist.DecodeRecord(data)
	if err != nil {
		logger.WarnTagf("store", "Store: stored record %q unusable: %v, using defaults", s.storageKey, err)
		s.state = s.defaultStateLocked()
		return false
	}

	if rec.Language != "" {
		if l := lang.Get(rec.Language); l != nil {
			s.parser = s.parser.ForLanguage(l)
		} else {
			logger.WarnTagf("store", "Store: stored language %q unknown, keeping %s", rec.Language, s.parser.Language().Name)
		}
	}
	engine := s.engine
	if rec.Engine != "" {
		if e, err := ParseEngine(rec.Engine); err == nil {
			engine = e
		} else {
			logger.WarnTagf("store", "Store: %v, keeping %s", err, engine)
		}
	}

	seen := make(map[string]bool, len(rec.Editors))
	pairs := make([]EditorPair, 0, len(rec.Editors))
	for i, pr := range rec.Editors {
		id := pr.ID
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true

		name := pr.Name
		if name == "" {
			name = pairName(i + 1)
		}
		pairs = append(pairs, EditorPair{
			ID:     id,
			Name:   name,
			Before: s.parseLocked(pr.Before.Content),
			After:  s.parseLocked(pr.After.Content),
			Output: s.parseLocked(pr.Output.Content),
		})
	}

	s.state = State{
		Pairs:             pairs,
		SelectedPairIndex: rec.SelectedPairIndex,
		Engine:            engine,
		Language:          s.parser.Language().Name,
	}
	return true
}

// recordLocked converts the current state to its persisted form.
func (s *Store) recordLocked() persist.Record {
	rec := persist.Record{
		SelectedPairIndex: s.state.SelectedPairIndex,
		Engine:            string(s.state.Engine),
		Language:          s.state.Language,
		Editors:           make([]persist.PairRecord, len(s.state.Pairs)),
	}
	for i, p := range s.state.Pairs {
		rec.Editors[i] = persist.PairRecord{
			ID:     p.ID,
			Name:   p.Name,
			Before: persist.SnippetRecord{Content: p.Before.Content},
			After:  persist.SnippetRecord{Content: p.After.Content},
			Output: persist.SnippetRecord{Content: p.Output.Content},
		}
	}
	return rec
}

// persistLocked writes the collection. Failures never undo the in-memory
// change; they are logged and reported as a PersistFailed notice.
func (s *Store) persistLocked() []notice {
	data, err := persist.EncodeRecord(s.recordLocked())
	if err == nil {
		err = s.storage.Save(context.Background(), s.storageKey, data)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, persist.ErrUnavailable) {
		logger.DebugTagf("store", "Store: not persisted: %v", err)
		return nil
	}
	logger.WarnTagf("store", "Store: persisting %q: %v", s.storageKey, err)
	return []notice{{event.TypePersistFailed, event.PersistFailedData{Key: s.storageKey, Err: err}}}
}
