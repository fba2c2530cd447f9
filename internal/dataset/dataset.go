// Package dataset loads and cleans labeled training data.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/crimson-sun/sentiment/internal/model"
	"github.com/crimson-sun/sentiment/internal/table"
)

// Canonical column names after renaming.
const (
	TextColumn  = "text"
	LabelColumn = "label"
)

var (
	ErrMissingText  = errors.New("missing text")
	ErrMissingLabel = errors.New("missing label")
)

// UnrecognizedLabelError is recorded for a row whose label is neither
// "positive" nor "negative". The row is dropped.
type UnrecognizedLabelError struct {
	Row   int
	Value string
}

func (e *UnrecognizedLabelError) Error() string {
	return fmt.Sprintf("row %d: unrecognized label %q", e.Row, e.Value)
}

// Columns names the source columns that are renamed to text and label.
type Columns struct {
	Text  string
	Label string
}

// DefaultColumns matches the IMDB reviews layout.
var DefaultColumns = Columns{Text: "review", Label: "sentiment"}

// DroppedRow records a source row excluded from the dataset.
type DroppedRow struct {
	Row    int
	Reason error
}

// Dataset is the cleaned, ordered set of examples.
type Dataset struct {
	Examples []model.Example
	Dropped  []DroppedRow
}

// Load reads a CSV file and cleans it with FromTable.
func Load(path string, cols Columns) (*Dataset, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return FromTable(t, cols)
}

// FromTable renames the source columns, maps labels to {0,1} and drops rows
// with missing text, missing label or an unrecognized label.
func FromTable(t *table.Table, cols Columns) (*Dataset, error) {
	rename := map[string]string{}
	if cols.Text != "" && cols.Text != TextColumn {
		rename[cols.Text] = TextColumn
	}
	if cols.Label != "" && cols.Label != LabelColumn {
		rename[cols.Label] = LabelColumn
	}
	t = t.Rename(rename)

	texts, err := t.Column(TextColumn)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w (source column %q)", err, cols.Text)
	}
	labels, err := t.Column(LabelColumn)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w (source column %q)", err, cols.Label)
	}

	ds := &Dataset{Examples: make([]model.Example, 0, len(texts))}
	for i := range texts {
		text, raw := texts[i], labels[i]
		switch {
		case strings.TrimSpace(text) == "":
			ds.Dropped = append(ds.Dropped, DroppedRow{Row: i, Reason: ErrMissingText})
			continue
		case raw == "":
			ds.Dropped = append(ds.Dropped, DroppedRow{Row: i, Reason: ErrMissingLabel})
			continue
		}
		label, ok := parseLabel(raw)
		if !ok {
			err := &UnrecognizedLabelError{Row: i, Value: raw}
			slog.Debug("dataset: dropping row", "row", i, "error", err)
			ds.Dropped = append(ds.Dropped, DroppedRow{Row: i, Reason: err})
			continue
		}
		ds.Examples = append(ds.Examples, model.Example{Text: text, Label: label})
	}

	if len(ds.Dropped) > 0 {
		slog.Warn("dataset: dropped rows", "dropped", len(ds.Dropped), "kept", len(ds.Examples))
	}
	return ds, nil
}

func parseLabel(s string) (model.Sentiment, bool) {
	switch s {
	case "positive":
		return model.Positive, true
	case "negative":
		return model.Negative, true
	default:
		return model.Negative, false
	}
}

// Split shuffles with a PCG source seeded by seed and holds out
// ceil(testSize·n) examples for evaluation. The same seed always yields
// the same partition.
func (d *Dataset) Split(testSize float64, seed uint64) (train, test []model.Example, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("dataset: test size must be in (0,1), got %v", testSize)
	}
	n := len(d.Examples)
	nTest := int(math.Ceil(testSize * float64(n)))
	if n < 2 || nTest >= n {
		return nil, nil, fmt.Errorf("dataset: %d usable rows is too few to split with test size %v", n, testSize)
	}

	r := rand.New(rand.NewPCG(seed, 0))
	perm := r.Perm(n)

	test = make([]model.Example, 0, nTest)
	train = make([]model.Example, 0, n-nTest)
	for k, idx := range perm {
		if k < nTest {
			test = append(test, d.Examples[idx])
		} else {
			train = append(train, d.Examples[idx])
		}
	}
	return train, test, nil
}
