// Package reparse runs snippet parses in the background with debouncing and
// drops results that were superseded before they completed.
package reparse

import (
	"context"
	"sync"
	"time"

	"github.com/bethropolis/modstudio/internal/logger"
	"github.com/bethropolis/modstudio/internal/parser"
)

// DefaultDebounce is the quiet period before a submitted text is parsed.
const DefaultDebounce = 65 * time.Millisecond

// Key identifies one snippet slot.
type Key struct {
	PairID     string
	EditorType string
}

// ParseFunc produces the projected snippet for text.
type ParseFunc func(ctx context.Context, text string) (parser.Result, error)

// ApplyFunc receives a completed, still-current parse. seq is the sequence
// number the text was submitted with.
type ApplyFunc func(key Key, seq uint64, text string, res parser.Result)

type slot struct {
	seq    uint64
	text   string
	timer  *time.Timer
	cancel context.CancelFunc
}

// Manager debounces and runs parses per slot. Slots are independent and may
// parse concurrently; within a slot only the latest submission is applied.
type Manager struct {
	parse    ParseFunc
	apply    ApplyFunc
	debounce time.Duration

	mu     sync.Mutex
	slots  map[Key]*slot
	closed bool
	wg     sync.WaitGroup
}

// NewManager creates a manager. A negative debounce selects DefaultDebounce.
func NewManager(parse ParseFunc, apply ApplyFunc, debounce time.Duration) *Manager {
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &Manager{
		parse:    parse,
		apply:    apply,
		debounce: debounce,
		slots:    make(map[Key]*slot),
	}
}

// Submit schedules text for key. seq must increase with every submission for
// a key; anything pending or running for an older seq is cancelled.
func (m *Manager) Submit(key Key, seq uint64, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		logger.DebugTagf("reparse", "Reparse: manager closed, dropping submission for %v", key)
		return
	}

	s := m.slots[key]
	if s == nil {
		s = &slot{}
		m.slots[key] = s
	}
	if seq <= s.seq {
		logger.DebugTagf("reparse", "Reparse: ignoring out-of-order submission %d <= %d for %v", seq, s.seq, key)
		return
	}
	m.cancelLocked(s)

	ctx, cancel := context.WithCancel(context.Background())
	s.seq = seq
	s.text = text
	s.cancel = cancel

	m.wg.Add(1)
	s.timer = time.AfterFunc(m.debounce, func() { m.run(ctx, key, seq, text) })
	logger.DebugTagf("reparse", "Reparse: scheduled %v seq=%d (%d bytes) in %v", key, seq, len(text), m.debounce)
}

// cancelLocked stops the slot's pending timer and running parse.
func (m *Manager) cancelLocked(s *slot) {
	if s.timer != nil && s.timer.Stop() {
		m.wg.Done() // the timer function will never run
	}
	s.timer = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (m *Manager) current(key Key, seq uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[key]
	return s != nil && s.seq == seq && !m.closed
}

func (m *Manager) run(ctx context.Context, key Key, seq uint64, text string) {
	defer m.wg.Done()

	if !m.current(key, seq) {
		return
	}
	res, err := m.parse(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			logger.DebugTagf("reparse", "Reparse: %v seq=%d cancelled", key, seq)
		} else {
			logger.WarnTagf("reparse", "Reparse: %v seq=%d failed: %v", key, seq, err)
		}
		return
	}
	if ctx.Err() != nil || !m.current(key, seq) {
		logger.DebugTagf("reparse", "Reparse: dropping stale result for %v seq=%d", key, seq)
		return
	}
	m.apply(key, seq, text, res)
}

// Forget drops a slot, cancelling its work. Used when a pair is removed.
func (m *Manager) Forget(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.slots[key]; s != nil {
		m.cancelLocked(s)
		delete(m.slots, key)
	}
}

// Flush starts every pending parse immediately and waits for all of them.
func (m *Manager) Flush() {
	m.mu.Lock()
	for key, s := range m.slots {
		if s.timer != nil && s.timer.Stop() {
			// Still counted in wg; run it now instead of after the debounce.
			s.timer = nil
			ctx, cancel := context.WithCancel(context.Background())
			if s.cancel != nil {
				s.cancel()
			}
			s.cancel = cancel
			go m.run(ctx, key, s.seq, s.text)
		}
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// Shutdown cancels all pending and running parses and waits for them to stop.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	for key, s := range m.slots {
		m.cancelLocked(s)
		delete(m.slots, key)
	}
	m.mu.Unlock()

	m.wg.Wait()
	logger.DebugTagf("reparse", "Reparse: manager shut down")
}
