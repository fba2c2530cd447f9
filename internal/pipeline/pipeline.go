package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/sentiment/internal/artifact"
	"github.com/crimson-sun/sentiment/internal/engine"
	"github.com/crimson-sun/sentiment/internal/engine/classifier"
	"github.com/crimson-sun/sentiment/internal/engine/vectorizer"
	"github.com/crimson-sun/sentiment/internal/model"
	"github.com/crimson-sun/sentiment/internal/output"
	"github.com/crimson-sun/sentiment/internal/table"
)

// Columns appended to every classified table.
const (
	SentimentColumn = "Sentiment"
	LabelColumn     = "Sentiment Label"
)

// Pipeline is a loaded vectorizer/classifier pair ready for inference.
// It is read-only after construction and safe for concurrent use.
type Pipeline struct {
	engine *engine.Engine
	runID  uuid.UUID
}

// Load reads the artifact pair from disk. Missing, corrupt or mismatched
// artifacts yield an *artifact.LoadError.
func Load(paths artifact.Paths) (*Pipeline, error) {
	pair, err := artifact.Load(paths)
	if err != nil {
		return nil, err
	}
	p, err := FromPair(pair)
	if err != nil {
		return nil, &artifact.LoadError{Path: paths.Model, Err: err}
	}
	slog.Info("pipeline: artifacts loaded",
		"run_id", p.runID,
		"features", pair.Vectorizer.Dim(),
		"created_at", pair.CreatedAt,
	)
	return p, nil
}

// FromPair builds a Pipeline from an in-memory artifact pair.
func FromPair(pair *artifact.Pair) (*Pipeline, error) {
	p, err := New(pair.Vectorizer, pair.Classifier)
	if err != nil {
		return nil, err
	}
	p.runID = pair.RunID
	return p, nil
}

// New builds a Pipeline from a fitted vectorizer and classifier.
func New(vec *vectorizer.Vectorizer, cls *classifier.Classifier) (*Pipeline, error) {
	if vec == nil || cls == nil {
		return nil, fmt.Errorf("pipeline: vectorizer and classifier are required")
	}
	eng, err := engine.New(vec, cls)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Pipeline{engine: eng}, nil
}

// RunID identifies the training run the artifacts came from. It is
// uuid.Nil for a pipeline built with New.
func (p *Pipeline) RunID() uuid.UUID {
	return p.runID
}

// Classify labels one text. Blank text returns engine.ErrEmptyInput.
func (p *Pipeline) Classify(text string) (model.Result, error) {
	return p.engine.Classify(text)
}

// ClassifyMany labels texts in order; failures are per row.
func (p *Pipeline) ClassifyMany(texts []string) []model.Outcome {
	return p.engine.ClassifyMany(texts)
}

// Batch is a classified table: the input rows in their original order
// with Sentiment and Sentiment Label appended.
type Batch struct {
	Table    *table.Table
	Column   string
	Texts    []string
	Outcomes []model.Outcome
}

// Tally counts positive, negative and unclassified rows.
func (b *Batch) Tally() model.Tally {
	return model.Count(b.Outcomes)
}

// Records returns one output record per row.
func (b *Batch) Records() []model.Record {
	recs := make([]model.Record, len(b.Outcomes))
	for i, o := range b.Outcomes {
		rec := model.Record{Row: o.Row, Text: b.Texts[i], Cells: b.Table.Row(i)}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		} else {
			pred := o.Result.Label.Prediction()
			rec.Label = o.Result.Label.String()
			rec.Prediction = &pred
			rec.Confidence = o.Result.Confidence
		}
		recs[i] = rec
	}
	return recs
}

// ClassifyColumn classifies every cell of column. A missing column is a
// *table.MissingColumnError and no row is processed. Empty cells become
// per-row engine.ErrEmptyInput outcomes with blank added cells.
func (p *Pipeline) ClassifyColumn(t *table.Table, column string) (*Batch, error) {
	texts, err := t.Column(column)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	start := time.Now()
	outcomes := p.engine.ClassifyMany(texts)

	preds := make([]string, len(outcomes))
	labels := make([]string, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			continue
		}
		preds[i] = strconv.Itoa(o.Result.Label.Prediction())
		labels[i] = o.Result.Label.String()
	}

	out, err := t.WithColumn(SentimentColumn, preds)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if out, err = out.WithColumn(LabelColumn, labels); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	b := &Batch{Table: out, Column: column, Texts: texts, Outcomes: outcomes}
	tally := b.Tally()
	slog.Debug("pipeline: column classified",
		"column", column,
		"rows", len(texts),
		"positive", tally.Positive,
		"negative", tally.Negative,
		"empty", tally.Empty,
		"duration", time.Since(start),
	)
	return b, nil
}

// Export writes the batch's records to out in row order. It stops at the
// first write error; the caller still owns out and must Close it.
func (p *Pipeline) Export(ctx context.Context, b *Batch, out output.Output) error {
	for _, rec := range b.Records() {
		if err := out.Write(ctx, rec); err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
	}
	return nil
}
