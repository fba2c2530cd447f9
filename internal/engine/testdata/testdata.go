// Package testdata embeds a small labeled review corpus for tests.
package testdata

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crimson-sun/sentiment/internal/model"
)

//go:embed corpus.csv
var corpusCSV []byte

// CorpusCSV returns the raw corpus file: columns review,sentiment.
func CorpusCSV() []byte {
	return append([]byte(nil), corpusCSV...)
}

// LoadCorpus parses the embedded corpus into labeled examples.
func LoadCorpus() ([]model.Example, error) {
	records, err := csv.NewReader(bytes.NewReader(corpusCSV)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse corpus.csv: %w", err)
	}
	examples := make([]model.Example, 0, len(records))
	for i, rec := range records[1:] {
		var label model.Sentiment
		switch rec[1] {
		case "positive":
			label = model.Positive
		case "negative":
			label = model.Negative
		default:
			return nil, fmt.Errorf("corpus.csv row %d: unknown label %q", i, rec[1])
		}
		examples = append(examples, model.Example{Text: rec[0], Label: label})
	}
	return examples, nil
}

// WriteCorpus writes the corpus to dir and returns its path.
func WriteCorpus(dir string) (string, error) {
	path := filepath.Join(dir, "reviews.csv")
	if err := os.WriteFile(path, corpusCSV, 0644); err != nil {
		return "", err
	}
	return path, nil
}
