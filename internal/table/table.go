// Package table models CSV data as named columns of string cells.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingColumn matches any *MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError reports a required column that the table lacks.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// FieldCountError reports a data row with more fields than the header.
// Row is the zero-based data row index.
type FieldCountError struct {
	Row     int
	Fields  int
	Columns int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("row %d has %d fields, header has %d", e.Row, e.Fields, e.Columns)
}

// Table is an immutable header plus rows. Every row has exactly one cell
// per column; short input rows are padded with empty cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table. Column names are kept as written, except that blank
// names become "Unnamed: i" and repeated names get a ".n" suffix so every
// column is addressable. Short rows are padded; cells beyond the last
// column are dropped, so callers with untrusted rows should go through Read.
func New(columns []string, rows [][]string) *Table {
	cols := uniqueColumns(columns)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	norm := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, len(cols))
		copy(r, row)
		norm[i] = r
	}
	return &Table{columns: cols, index: index, rows: norm}
}

func uniqueColumns(columns []string) []string {
	out := make([]string, len(columns))
	seen := make(map[string]int, len(columns))
	for i, c := range columns {
		name := c
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

// Read parses CSV with a header row. Short rows are padded with empty
// cells; a row with more fields than the header is a *FieldCountError.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("table: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("table: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table: read row %d: %w", len(rows), err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("table: %w", &FieldCountError{Row: len(rows), Fields: len(rec), Columns: len(header)})
		}
		rows = append(rows, rec)
	}
	return New(header, rows), nil
}

// ReadFile opens and parses a CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Require checks that every named column exists.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if !t.Has(name) {
			return &MissingColumnError{Column: name, Available: t.Columns()}
		}
	}
	return nil
}

// Column returns the cells of the named column, in row order.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Column: name, Available: t.Columns()}
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Rename returns a table with columns renamed per mapping (old → new).
// Columns not in mapping keep their names.
func (t *Table) Rename(mapping map[string]string) *Table {
	cols := t.Columns()
	for i, c := range cols {
		if to, ok := mapping[c]; ok {
			cols[i] = to
		}
	}
	return New(cols, t.rows)
}

// WithColumn returns a table with values set as the named column,
// replacing an existing column of that name or appending a new one.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("table: column %q has %d values for %d rows", name, len(values), len(t.rows))
	}
	cols := t.Columns()
	i, ok := t.index[name]
	if !ok {
		cols = append(cols, name)
		i = len(cols) - 1
	}
	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		nr := make([]string, len(cols))
		copy(nr, row)
		nr[i] = values[r]
		rows[r] = nr
	}
	return New(cols, rows), nil
}

// WriteCSV writes the header and all rows.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("table: write header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("table: write rows: %w", err)
	}
	return nil
}

// CSV renders the table as CSV bytes.
func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
