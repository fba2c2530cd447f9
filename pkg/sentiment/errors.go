package sentiment

import (
	"github.com/crimson-sun/sentiment/internal/artifact"
	"github.com/crimson-sun/sentiment/internal/dataset"
	"github.com/crimson-sun/sentiment/internal/engine"
	"github.com/crimson-sun/sentiment/internal/table"
)

var (
	// ErrEmptyInput is returned for blank or whitespace-only text.
	ErrEmptyInput = engine.ErrEmptyInput
	// ErrMissingColumn matches any *MissingColumnError via errors.Is.
	ErrMissingColumn = table.ErrMissingColumn
)

// LoadError reports a missing, unreadable or mismatched artifact.
type LoadError = artifact.LoadError

// MissingColumnError names the column a table lacked.
type MissingColumnError = table.MissingColumnError

// UnrecognizedLabelError describes a training row whose label is neither
// "positive" nor "negative". Such rows are dropped, not fatal.
type UnrecognizedLabelError = dataset.UnrecognizedLabelError
