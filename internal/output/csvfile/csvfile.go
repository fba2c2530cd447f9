// Package csvfile writes classified records as a CSV results file.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/sentiment/internal/model"
)

// DefaultName is the results file name offered for download.
const DefaultName = "sentiment_results.csv"

const defaultBufSize = 64 * 1024 // 64KB

var errAborted = errors.New("aborted")

// Option configures a CSV file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output writes each record's cells as a CSV row. Rows go to a temporary
// file next to path, which is renamed into place on a clean Close. If any
// Write failed, Close removes the temporary file and path is untouched.
type Output struct {
	mu      sync.Mutex
	path    string
	f       *os.File
	buf     *bufio.Writer
	w       *csv.Writer
	bufSize int
	failed  error
	closed  bool
}

// New creates the temporary file and writes header as the first row.
func New(path string, header []string, opts ...Option) (*Output, error) {
	o := &Output{path: path, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(o)
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("csv output: create %s: %w", path, err)
	}
	o.f = f
	o.buf = bufio.NewWriterSize(f, o.bufSize)
	o.w = csv.NewWriter(o.buf)

	if err := o.w.Write(header); err != nil {
		o.discard()
		return nil, fmt.Errorf("csv output: header: %w", err)
	}
	return o, nil
}

// Path returns the final destination of the results file.
func (o *Output) Path() string {
	return o.path
}

// Write appends rec.Cells as one row.
func (o *Output) Write(ctx context.Context, rec model.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return errors.New("csv output: write after close")
	}
	if err := ctx.Err(); err != nil {
		o.failed = err
		return err
	}
	if err := o.w.Write(rec.Cells); err != nil {
		o.failed = err
		return fmt.Errorf("csv output: row %d: %w", rec.Row, err)
	}
	return nil
}

// Abort marks the output failed so Close discards the temporary file.
func (o *Output) Abort() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failed == nil {
		o.failed = errAborted
	}
}

// Close flushes and publishes the file, or discards it after a failed Write.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	if o.failed != nil {
		o.discard()
		return fmt.Errorf("csv output: discarded %s: %w", o.path, o.failed)
	}
	o.w.Flush()
	if err := o.w.Error(); err != nil {
		o.discard()
		return fmt.Errorf("csv output: flush: %w", err)
	}
	if err := o.buf.Flush(); err != nil {
		o.discard()
		return fmt.Errorf("csv output: flush: %w", err)
	}
	if err := o.f.Close(); err != nil {
		os.Remove(o.f.Name())
		return fmt.Errorf("csv output: close: %w", err)
	}
	if err := os.Rename(o.f.Name(), o.path); err != nil {
		os.Remove(o.f.Name())
		return fmt.Errorf("csv output: rename: %w", err)
	}
	return nil
}

func (o *Output) discard() {
	o.f.Close()
	os.Remove(o.f.Name())
}
