package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/sentiment/internal/output"
	"github.com/crimson-sun/sentiment/internal/output/csvfile"
	"github.com/crimson-sun/sentiment/internal/output/multi"
	"github.com/crimson-sun/sentiment/internal/table"
)

// FileJob describes one CSV-in, CSV-out batch run.
type FileJob struct {
	In     string
	Out    string // results CSV; empty writes only to Extra
	Mode   ColumnMode
	Column string
	Extra  []output.Output // additional destinations, closed by ClassifyFile
}

// ClassifyFile reads job.In, classifies the resolved column and writes the
// augmented table to job.Out. The column is resolved before any output is
// created, so a missing column leaves no results file behind. A failed
// export discards the partial results file.
func (p *Pipeline) ClassifyFile(ctx context.Context, job FileJob) (*Batch, error) {
	closeExtra := func() error {
		var errs []error
		for _, o := range job.Extra {
			errs = append(errs, o.Close())
		}
		return errors.Join(errs...)
	}

	t, err := table.ReadFile(job.In)
	if err != nil {
		closeExtra()
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	column, err := ResolveColumn(t, job.Mode, job.Column)
	if err != nil {
		closeExtra()
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	b, err := p.ClassifyColumn(t, column)
	if err != nil {
		closeExtra()
		return nil, err
	}

	outs := append([]output.Output(nil), job.Extra...)
	var results *csvfile.Output
	if job.Out != "" {
		results, err = csvfile.New(job.Out, b.Table.Columns())
		if err != nil {
			closeExtra()
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		outs = append([]output.Output{results}, outs...)
	}

	out := multi.New(outs...)
	if err := p.Export(ctx, b, out); err != nil {
		if results != nil {
			results.Abort()
		}
		return nil, errors.Join(err, out.Close())
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return b, nil
}
