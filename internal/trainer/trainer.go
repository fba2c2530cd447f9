// Package trainer fits the vectorizer and classifier from a labeled CSV,
// evaluates on a held-out split and persists the artifact pair.
package trainer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/sentiment/internal/artifact"
	"github.com/crimson-sun/sentiment/internal/dataset"
	"github.com/crimson-sun/sentiment/internal/engine/classifier"
	"github.com/crimson-sun/sentiment/internal/engine/vectorizer"
	"github.com/crimson-sun/sentiment/internal/model"
)

// Config controls a training run.
type Config struct {
	DatasetPath string
	Columns     dataset.Columns
	TestSize    float64
	Seed        uint64
	Vectorizer  vectorizer.Options
	Classifier  classifier.Options
}

// DefaultConfig returns the standard training settings for datasetPath.
func DefaultConfig(datasetPath string) Config {
	return Config{
		DatasetPath: datasetPath,
		Columns:     dataset.DefaultColumns,
		TestSize:    0.2,
		Seed:        42,
		Vectorizer:  vectorizer.Options{MaxFeatures: vectorizer.DefaultMaxFeatures},
		Classifier: classifier.Options{
			C:         classifier.DefaultC,
			MaxIter:   classifier.DefaultMaxIter,
			Tolerance: classifier.DefaultTolerance,
		},
	}
}

// Metrics summarizes evaluation on the held-out partition.
// Confusion is indexed [actual][predicted].
type Metrics struct {
	Total     int
	Correct   int
	Confusion [2][2]int
}

// Accuracy is Correct/Total, or 0 for an empty evaluation set.
func (m Metrics) Accuracy() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Total)
}

// Result is the outcome of a training run.
type Result struct {
	RunID      uuid.UUID
	Vectorizer *vectorizer.Vectorizer
	Classifier *classifier.Classifier
	Metrics    Metrics
	TrainSize  int
	TestSize   int
	Dropped    []dataset.DroppedRow
	Duration   time.Duration
}

// Pair returns the fitted components as an artifact pair.
func (r *Result) Pair() *artifact.Pair {
	return &artifact.Pair{
		RunID:      r.RunID,
		CreatedAt:  time.Now().UTC(),
		Vectorizer: r.Vectorizer,
		Classifier: r.Classifier,
	}
}

// Train loads the dataset, splits it, fits on the training partition only
// and evaluates on the rest. Nothing is written to disk.
func Train(cfg Config) (*Result, error) {
	start := time.Now()

	ds, err := dataset.Load(cfg.DatasetPath, cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("trainer: %w", err)
	}
	train, test, err := ds.Split(cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("trainer: %w", err)
	}
	slog.Info("trainer: dataset loaded",
		"path", cfg.DatasetPath,
		"examples", len(ds.Examples),
		"dropped", len(ds.Dropped),
		"train", len(train),
		"test", len(test),
	)

	trainTexts, trainLabels := unzip(train)
	vec, err := vectorizer.Fit(trainTexts, cfg.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("trainer: %w", err)
	}
	cls, err := classifier.Fit(vec.TransformAll(trainTexts), trainLabels, vec.Dim(), cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("trainer: %w", err)
	}

	metrics := Evaluate(vec, cls, test)
	res := &Result{
		RunID:      uuid.New(),
		Vectorizer: vec,
		Classifier: cls,
		Metrics:    metrics,
		TrainSize:  len(train),
		TestSize:   len(test),
		Dropped:    ds.Dropped,
		Duration:   time.Since(start),
	}
	slog.Info("trainer: model fitted",
		"run_id", res.RunID,
		"features", vec.Dim(),
		"converged", cls.Converged(),
		"accuracy", metrics.Accuracy(),
		"duration", res.Duration,
	)
	return res, nil
}

// Run trains and writes both artifacts to paths.
func Run(cfg Config, paths artifact.Paths) (*Result, error) {
	res, err := Train(cfg)
	if err != nil {
		return nil, err
	}
	if err := artifact.Save(paths, res.Pair()); err != nil {
		return nil, fmt.Errorf("trainer: %w", err)
	}
	slog.Info("trainer: artifacts saved", "model", paths.Model, "vectorizer", paths.Vectorizer, "run_id", res.RunID)
	return res, nil
}

// Evaluate scores examples with the fitted pair.
func Evaluate(vec *vectorizer.Vectorizer, cls *classifier.Classifier, examples []model.Example) Metrics {
	var m Metrics
	for _, ex := range examples {
		actual := ex.Label.Prediction()
		predicted := cls.Predict(vec.Transform(ex.Text))
		m.Confusion[actual][predicted]++
		m.Total++
		if actual == predicted {
			m.Correct++
		}
	}
	return m
}

func unzip(examples []model.Example) ([]string, []int) {
	texts := make([]string, len(examples))
	labels := make([]int, len(examples))
	for i, ex := range examples {
		texts[i] = ex.Text
		labels[i] = ex.Label.Prediction()
	}
	return texts, labels
}
