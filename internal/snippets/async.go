package snippets

import (
	"context"

	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/parser"
	"github.com/bethropolis/modstudio/internal/reparse"
)

// SetContentAsync returns a setter that parses in the background. The
// snippet keeps its previous content and tree until the parse lands; if a
// later SetContent or SetContentAsync for the same slot is submitted first,
// this result is dropped.
func (s *Store) SetContentAsync(pairIndex int, t EditorType) func(text string) {
	return func(text string) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.validSlotLocked(pairIndex, t, "set content async") {
			return
		}
		id := s.state.Pairs[pairIndex].ID
		seq := s.bumpLocked(slotKey{id, t})
		s.reparse.Submit(reparse.Key{PairID: id, EditorType: string(t)}, seq, text)
	}
}

func (s *Store) parseAsync(ctx context.Context, text string) (parser.Result, error) {
	s.mu.Lock()
	p := s.parser
	s.mu.Unlock()
	return p.Snippet(ctx, text)
}

func (s *Store) applyAsync(key reparse.Key, seq uint64, text string, res parser.Result) {
	s.ApplyParsed(key.PairID, EditorType(key.EditorType), seq, text, res)
}

// ApplyParsed installs a background parse for the slot of pair pairID. It
// reports false when the pair is gone or seq is not the slot's latest
// submission.
func (s *Store) ApplyParsed(pairID string, t EditorType, seq uint64, text string, res parser.Result) bool {
	applied := false
	s.update(func() []notice {
		if !t.Valid() {
			return nil
		}
		if latest := s.seqs[slotKey{pairID, t}]; latest != seq {
			logger.DebugTagf("store", "Store: dropping parse seq=%d for %s/%s, latest is %d", seq, pairID, t, latest)
			return nil
		}
		index := s.indexOfLocked(pairID)
		if index < 0 {
			logger.DebugTagf("store", "Store: dropping parse for removed pair %s", pairID)
			return nil
		}

		s.history.record(s.state)
		applied = true
		return s.setSnippetLocked(index, t, SnippetValues{
			Content:        text,
			Root:           res.Root,
			Tokens:         res.Tokens,
			RangeUpdatedAt: s.now(),
		})
	})
	return applied
}
