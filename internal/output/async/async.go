package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/sentiment/internal/model"
	"github.com/crimson-sun/sentiment/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithDrainTimeout bounds how long Close waits for queued records.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// Async moves writes to a slower output (a terminal, a pipe) onto a
// background goroutine so classification is not held up by I/O. Write
// blocks when the buffer is full. Errors from the inner output are logged
// and returned, joined, from Close.
type Async struct {
	inner        output.Output
	ch           chan model.Record
	done         chan struct{}
	abandon      chan struct{}
	bufSize      int
	drainTimeout time.Duration
	closeOnce    sync.Once

	mu   sync.Mutex
	errs []error
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.Record, a.bufSize)
	a.done = make(chan struct{})
	a.abandon = make(chan struct{})
	go a.drain()
	return a
}

// Write queues rec, blocking while the buffer is full or until ctx ends.
func (a *Async) Write(ctx context.Context, rec model.Record) error {
	select {
	case a.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting records, waits for the queue to drain (bounded by
// the drain timeout) and closes the inner output. On timeout the remaining
// queued records are discarded; the inner output is closed only after the
// write in flight returns, so it never sees Write and Close concurrently.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(a.drainTimeout):
			slog.Warn("async output drain timed out", "queued", len(a.ch))
			a.record(errors.New("async output: drain timed out"))
			close(a.abandon)
			<-a.done
		}
		a.record(a.inner.Close())

		a.mu.Lock()
		err = errors.Join(a.errs...)
		a.mu.Unlock()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for rec := range a.ch {
		select {
		case <-a.abandon:
			continue
		default:
		}
		if err := a.inner.Write(context.Background(), rec); err != nil {
			slog.Warn("async output write error", "row", rec.Row, "error", err)
			a.record(err)
		}
	}
}

func (a *Async) record(err error) {
	if err == nil {
		return
	}
	a.mu.Lock()
	a.errs = append(a.errs, err)
	a.mu.Unlock()
}
