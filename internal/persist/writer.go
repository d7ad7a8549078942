package persist

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/sandeepkv93/things/internal/model"
)

// Saver is implemented by Manager.
type Saver interface {
	Save(ctx context.Context, db model.Database) error
}

// Writer serializes saves on one goroutine. Snapshots submitted while a save
// is running coalesce: only the newest is written next.
type Writer struct {
	saver  Saver
	logger *log.Logger

	mu        sync.Mutex
	pending   *model.Database
	submitted uint64
	attempted uint64
	progress  chan struct{}
	lastErr   error
	closed    bool

	wake     chan struct{}
	stop     chan struct{}
	finished chan struct{}
}

func NewWriter(saver Saver, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &Writer{
		saver:    saver,
		logger:   logger,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues db for saving without blocking. Submissions after Close are
// dropped.
func (w *Writer) Submit(db model.Database) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = &db
	w.submitted++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every snapshot submitted before the call was attempted.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.submitted
	for w.attempted < target {
		ch := w.progress
		w.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		w.mu.Lock()
	}
	w.mu.Unlock()
	return nil
}

// Close saves whatever is pending and stops the worker.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	select {
	case <-w.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastError returns the most recent save failure, if any.
func (w *Writer) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Writer) run() {
	defer close(w.finished)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		db := *w.pending
		seq := w.submitted
		w.pending = nil
		w.mu.Unlock()

		err := w.saver.Save(context.Background(), db)
		if err != nil {
			w.logger.Printf("save failed: %v", err)
		}

		w.mu.Lock()
		w.attempted = seq
		if err != nil {
			w.lastErr = err
		}
		close(w.progress)
		w.progress = make(chan struct{})
		w.mu.Unlock()
	}
}
