package sentiment

import (
	"fmt"
	"io"
	"time"

	"github.com/crimson-sun/sentiment/internal/dataset"
	"github.com/crimson-sun/sentiment/internal/model"
	"github.com/crimson-sun/sentiment/internal/pipeline"
	"github.com/crimson-sun/sentiment/internal/table"
	"github.com/crimson-sun/sentiment/internal/trainer"
)

// Sentiment is a loaded sentiment classifier.
// Safe for concurrent use.
type Sentiment struct {
	pipeline *pipeline.Pipeline
}

// Prediction is the result of classifying one text.
type Prediction struct {
	Label      string  // "Positive" or "Negative"
	Class      int     // 1 for Positive, 0 for Negative
	Confidence float64 // probability of Label, in [0.5, 1]
}

// Outcome is one element of a batch. For blank text Err matches
// ErrEmptyInput via errors.Is; it is wrapped with the row index.
type Outcome struct {
	Prediction Prediction
	Err        error
}

// Tally counts the rows of a CSV classification.
type Tally struct {
	Positive int
	Negative int
	Empty    int
}

// Report summarizes a training run.
type Report struct {
	RunID     string
	Accuracy  float64 // on the held-out partition
	TrainSize int
	TestSize  int
	Dropped   int // rows skipped for blank text or unusable labels
	Duration  time.Duration
}

// Load reads a trained artifact pair. Missing, corrupt or mismatched
// artifacts return a *LoadError.
func Load(opts ...Option) (*Sentiment, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p, err := pipeline.Load(resolvePaths(o))
	if err != nil {
		return nil, fmt.Errorf("sentiment: %w", err)
	}
	return &Sentiment{pipeline: p}, nil
}

// Train fits a model on the CSV at datasetPath and writes the artifact
// pair where Load will find it with the same options.
func Train(datasetPath string, opts ...Option) (Report, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cfg := trainer.DefaultConfig(datasetPath)
	cfg.Columns = dataset.Columns{Text: o.textColumn, Label: o.labelColumn}
	cfg.TestSize = o.testSize
	cfg.Seed = o.seed
	cfg.Vectorizer.MaxFeatures = o.maxFeatures

	res, err := trainer.Run(cfg, resolvePaths(o))
	if err != nil {
		return Report{}, fmt.Errorf("sentiment: %w", err)
	}
	return Report{
		RunID:     res.RunID.String(),
		Accuracy:  res.Metrics.Accuracy(),
		TrainSize: res.TrainSize,
		TestSize:  res.TestSize,
		Dropped:   len(res.Dropped),
		Duration:  res.Duration,
	}, nil
}

// RunID identifies the training run the loaded artifacts came from.
func (s *Sentiment) RunID() string {
	return s.pipeline.RunID().String()
}

// Classify labels a single text.
func (s *Sentiment) Classify(text string) (Prediction, error) {
	res, err := s.pipeline.Classify(text)
	if err != nil {
		return Prediction{}, err
	}
	return predictionFromResult(res), nil
}

// ClassifyBatch labels texts in order. A blank text fails only its own
// element.
func (s *Sentiment) ClassifyBatch(texts []string) []Outcome {
	outcomes := s.pipeline.ClassifyMany(texts)
	out := make([]Outcome, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			out[i] = Outcome{Err: o.Err}
			continue
		}
		out[i] = Outcome{Prediction: predictionFromResult(o.Result)}
	}
	return out
}

// ClassifyCSV reads a CSV from r, classifies column and writes the table
// to w with "Sentiment" and "Sentiment Label" appended. An empty column
// selects the first one. A missing column returns a *MissingColumnError
// before anything is written.
func (s *Sentiment) ClassifyCSV(r io.Reader, w io.Writer, column string) (Tally, error) {
	t, err := table.Read(r)
	if err != nil {
		return Tally{}, fmt.Errorf("sentiment: %w", err)
	}
	column, err = pipeline.ResolveColumn(t, pipeline.ModePicker, column)
	if err != nil {
		return Tally{}, fmt.Errorf("sentiment: %w", err)
	}
	b, err := s.pipeline.ClassifyColumn(t, column)
	if err != nil {
		return Tally{}, fmt.Errorf("sentiment: %w", err)
	}
	if err := b.Table.WriteCSV(w); err != nil {
		return Tally{}, fmt.Errorf("sentiment: %w", err)
	}
	tally := b.Tally()
	return Tally{Positive: tally.Positive, Negative: tally.Negative, Empty: tally.Empty}, nil
}

func predictionFromResult(r model.Result) Prediction {
	return Prediction{
		Label:      r.Label.String(),
		Class:      r.Label.Prediction(),
		Confidence: r.Confidence,
	}
}
