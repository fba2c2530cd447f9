// Package artifact persists the fitted vectorizer and classifier as a pair
// of JSON files bound together by a shared run ID.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/sentiment/internal/engine/classifier"
	"github.com/crimson-sun/sentiment/internal/engine/vectorizer"
)

const (
	// Version is the envelope version written by Save.
	Version = 1

	formatModel      = "sentiment/logistic-regression"
	formatVectorizer = "sentiment/tfidf-vectorizer"
)

// Default file names inside the models directory.
const (
	DefaultDir            = "models"
	DefaultModelFile      = "sentiment_model.json"
	DefaultVectorizerFile = "vectorizer.json"
)

// Paths locates the two artifact files.
type Paths struct {
	Model      string
	Vectorizer string
}

// DefaultPaths returns the standard file names under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Model:      filepath.Join(dir, DefaultModelFile),
		Vectorizer: filepath.Join(dir, DefaultVectorizerFile),
	}
}

// Pair is a vectorizer and classifier produced by the same training run.
type Pair struct {
	RunID      uuid.UUID
	CreatedAt  time.Time
	Vectorizer *vectorizer.Vectorizer
	Classifier *classifier.Classifier
}

// LoadError reports a missing, unreadable, corrupt or mismatched artifact.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("artifact: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type envelope[T any] struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	RunID     uuid.UUID `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Payload   T         `json:"payload"`
}

// Save writes both artifacts. Each file is written to a temporary name in
// the target directory and renamed into place.
func Save(paths Paths, p *Pair) error {
	if p == nil || p.Vectorizer == nil || p.Classifier == nil {
		return errors.New("artifact: nothing to save")
	}
	if p.RunID == uuid.Nil {
		p.RunID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	if err := writeJSON(paths.Vectorizer, envelope[vectorizer.Snapshot]{
		Format:    formatVectorizer,
		Version:   Version,
		RunID:     p.RunID,
		CreatedAt: p.CreatedAt,
		Payload:   p.Vectorizer.Snapshot(),
	}); err != nil {
		return err
	}
	return writeJSON(paths.Model, envelope[classifier.Snapshot]{
		Format:    formatModel,
		Version:   Version,
		RunID:     p.RunID,
		CreatedAt: p.CreatedAt,
		Payload:   p.Classifier.Snapshot(),
	})
}

func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("artifact: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact: encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifact: close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("artifact: rename %s: %w", path, err)
	}
	return nil
}

// Load reads and validates both artifacts. Any failure is a *LoadError;
// there is no partial or degraded result.
func Load(paths Paths) (*Pair, error) {
	vecEnv, err := readJSON[vectorizer.Snapshot](paths.Vectorizer, formatVectorizer)
	if err != nil {
		return nil, err
	}
	vec, err := vectorizer.FromSnapshot(vecEnv.Payload)
	if err != nil {
		return nil, &LoadError{Path: paths.Vectorizer, Err: err}
	}

	clsEnv, err := readJSON[classifier.Snapshot](paths.Model, formatModel)
	if err != nil {
		return nil, err
	}
	cls, err := classifier.FromSnapshot(clsEnv.Payload)
	if err != nil {
		return nil, &LoadError{Path: paths.Model, Err: err}
	}

	if clsEnv.RunID != vecEnv.RunID {
		return nil, &LoadError{
			Path: paths.Model,
			Err:  fmt.Errorf("run id %s does not match vectorizer run id %s", clsEnv.RunID, vecEnv.RunID),
		}
	}
	if cls.Dim() != vec.Dim() {
		return nil, &LoadError{
			Path: paths.Model,
			Err:  fmt.Errorf("model expects %d features but vectorizer has %d", cls.Dim(), vec.Dim()),
		}
	}

	return &Pair{
		RunID:      clsEnv.RunID,
		CreatedAt:  clsEnv.CreatedAt,
		Vectorizer: vec,
		Classifier: cls,
	}, nil
}

func readJSON[T any](path, format string) (*envelope[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	if env.Format != format {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("format %q, want %q", env.Format, format)}
	}
	if env.Version != Version {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported version %d", env.Version)}
	}
	return &env, nil
}
