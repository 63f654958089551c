package snippets

import (
	"time"

	"github.com/bethropolis/modstudio/internal/event"
	"github.com/bethropolis/modstudio/internal/parser"
	"github.com/bethropolis/modstudio/internal/persist"
)

// Option configures a Store.
type Option func(*Store)

// WithStorage sets the durable medium. Without it nothing is persisted.
func WithStorage(storage persist.Storage) Option {
	return func(s *Store) {
		if storage != nil {
			s.storage = storage
		}
	}
}

// WithStorageKey overrides persist.DefaultKey.
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithParser sets the snippet parser and with it the language.
func WithParser(p *parser.Parser) Option {
	return func(s *Store) { s.parser = p }
}

// WithEvents sets the bus store notifications are dispatched on.
func WithEvents(m *event.Manager) Option {
	return func(s *Store) { s.events = m }
}

// WithClock replaces time.Now for RangeUpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.historyLimit = n }
}

// WithEngine sets the engine used when nothing was restored.
func WithEngine(e Engine) Option {
	return func(s *Store) {
		if e.Valid() {
			s.engine = e
		}
	}
}

// WithDebounce sets the quiet period for SetContentAsync.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}
