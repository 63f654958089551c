package persist

import (
	"context"
	"sync"

	"github.com/bethropolis/modstudio/internal/logger"
)

// Ensure Writer implements Storage
var _ Storage = (*Writer)(nil)

// Writer makes saves fire-and-forget: Save only queues the newest payload per
// key and a background goroutine writes it to the wrapped storage.
type Writer struct {
	storage Storage
	onError func(key string, err error)

	mu       sync.Mutex
	pending  map[string][]byte
	inflight map[string][]byte // batch currently being written
	closed   bool

	writeMu  sync.Mutex // serializes drains so newer payloads never land first
	wake     chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWriter starts a writer over storage. onError, if non-nil, is called from
// the writer goroutine for every failed write.
func NewWriter(storage Storage, onError func(key string, err error)) *Writer {
	w := &Writer{
		storage:  storage,
		onError:  onError,
		pending:  make(map[string][]byte),
		wake:     make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.saverLoop()
	return w
}

// Load returns a queued payload if one is waiting, otherwise reads through.
func (w *Writer) Load(ctx context.Context, key string) ([]byte, error) {
	w.mu.Lock()
	data, ok := w.pending[key]
	if !ok {
		data, ok = w.inflight[key]
	}
	w.mu.Unlock()
	if ok {
		return append([]byte(nil), data...), nil
	}
	return w.storage.Load(ctx, key)
}

// Save queues data for key and returns immediately.
func (w *Writer) Save(ctx context.Context, key string, data []byte) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.pending[key] = append([]byte(nil), data...)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default: // a wake-up is already queued
	}
	return nil
}

// Flush writes everything queued so far and waits for it.
func (w *Writer) Flush(ctx context.Context) {
	w.drain(ctx)
}

// Close stops the saver goroutine after writing what is still queued.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
	w.drain(context.Background())
	return nil
}

func (w *Writer) saverLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.wake:
			w.drain(context.Background())
		case <-w.stopChan:
			logger.DebugTagf("persist", "Writer: received stop signal, exiting saver loop.")
			return
		}
	}
}

func (w *Writer) drain(ctx context.Context) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string][]byte)
	w.inflight = batch
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.inflight = nil
		w.mu.Unlock()
	}()

	for key, data := range batch {
		if err := w.storage.Save(ctx, key, data); err != nil {
			logger.ErrorTagf("persist", "Writer: saving '%s' failed: %v", key, err)
			if w.onError != nil {
				w.onError(key, err)
			}
			continue
		}
		logger.DebugTagf("persist", "Writer: saved '%s' (%d bytes)", key, len(data))
	}
}
