package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/sentiment/internal/engine/sparse"
	"github.com/crimson-sun/sentiment/internal/model"
)

// ErrEmptyInput is returned for blank text. The model is never consulted.
var ErrEmptyInput = errors.New("engine: empty input")

// Featurizer maps text into the classifier's feature space.
type Featurizer interface {
	Transform(text string) sparse.Vector
	Dim() int
}

// Scorer assigns class probabilities to a feature vector.
type Scorer interface {
	PredictProba(x sparse.Vector) [2]float64
	Dim() int
}

// Engine orchestrates the vectorize → score pipeline. It holds no mutable
// state and is safe for concurrent use once constructed.
type Engine struct {
	featurizer Featurizer
	scorer     Scorer
}

// New creates an Engine. The featurizer and scorer must share a feature space.
func New(f Featurizer, s Scorer) (*Engine, error) {
	if f == nil || s == nil {
		return nil, errors.New("engine: featurizer and scorer are required")
	}
	if f.Dim() != s.Dim() {
		return nil, fmt.Errorf("engine: featurizer has %d features but scorer expects %d", f.Dim(), s.Dim())
	}
	return &Engine{featurizer: f, scorer: s}, nil
}

// Classify labels a single text. Confidence is the larger class probability.
func (e *Engine) Classify(text string) (model.Result, error) {
	if strings.TrimSpace(text) == "" {
		return model.Result{}, ErrEmptyInput
	}
	p := e.scorer.PredictProba(e.featurizer.Transform(text))

	label := model.Negative
	if p[1] > p[0] {
		label = model.Positive
	}
	return model.Result{Label: label, Confidence: max(p[0], p[1])}, nil
}

// ClassifyMany labels each text in order. A failing row records its error
// in the Outcome and does not stop the rest of the batch.
func (e *Engine) ClassifyMany(texts []string) []model.Outcome {
	outcomes := make([]model.Outcome, len(texts))
	for i, text := range texts {
		res, err := e.Classify(text)
		if err != nil {
			err = fmt.Errorf("row %d: %w", i, err)
		}
		outcomes[i] = model.Outcome{Row: i, Result: res, Err: err}
	}
	return outcomes
}
