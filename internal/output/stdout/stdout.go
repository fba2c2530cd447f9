package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/crimson-sun/sentiment/internal/model"
)

// Output writes JSON-encoded records, one per line.
type Output struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// New creates an Output writing to w, or os.Stdout when w is nil, with
// optional pretty-printed JSON.
func New(w io.Writer, pretty bool) *Output {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc}
}

func (o *Output) Write(_ context.Context, rec model.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(rec); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
