package pipeline

import (
	"fmt"

	"github.com/crimson-sun/sentiment/internal/table"
)

// RequiredColumn is the only column accepted in ModeRequired.
const RequiredColumn = "text"

// ColumnMode selects how the text column of an uploaded table is chosen.
type ColumnMode int

const (
	// ModePicker lets the caller name any column. With no name the
	// first column is used.
	ModePicker ColumnMode = iota
	// ModeRequired demands a column literally named "text".
	ModeRequired
)

func (m ColumnMode) String() string {
	switch m {
	case ModePicker:
		return "picker"
	case ModeRequired:
		return "required"
	default:
		return fmt.Sprintf("ColumnMode(%d)", int(m))
	}
}

// ParseColumnMode parses "picker" or "required".
func ParseColumnMode(s string) (ColumnMode, error) {
	switch s {
	case "picker", "":
		return ModePicker, nil
	case "required":
		return ModeRequired, nil
	default:
		return ModePicker, fmt.Errorf("pipeline: unknown column mode %q (want picker or required)", s)
	}
}

// ResolveColumn returns the column to classify in t under mode.
func ResolveColumn(t *table.Table, mode ColumnMode, requested string) (string, error) {
	name := requested
	switch mode {
	case ModeRequired:
		name = RequiredColumn
	case ModePicker:
		if name == "" {
			cols := t.Columns()
			if len(cols) == 0 {
				return "", &table.MissingColumnError{Column: RequiredColumn}
			}
			name = cols[0]
		}
	}
	if err := t.Require(name); err != nil {
		return "", err
	}
	return name, nil
}
