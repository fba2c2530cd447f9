package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/crimson-sun/sentiment/internal/artifact"
	"github.com/crimson-sun/sentiment/internal/config"
	"github.com/crimson-sun/sentiment/internal/output"
	"github.com/crimson-sun/sentiment/internal/output/async"
	"github.com/crimson-sun/sentiment/internal/output/stdout"
	"github.com/crimson-sun/sentiment/internal/pipeline"
)

func batchCmd(cfg config.Config) *commander.Command {
	cmd := &commander.Command{
		UsageLine: "batch -in <file.csv> [options]",
		Short:     "classify a CSV column and write the results file",
		Long: `
classify every cell of a CSV column and write the table with Sentiment and
Sentiment Label columns appended

	$ sentiment batch -in reviews.csv -column review -out sentiment_results.csv
	$ sentiment batch -in reviews.csv -mode required -out "" -json

`,
		Flag: *flag.NewFlagSet("batch", flag.ExitOnError),
	}
	in := cmd.Flag.String("in", "", "input CSV file (required)")
	column := cmd.Flag.String("column", cfg.Batch.TextColumn, "column to classify in picker mode")
	mode := cmd.Flag.String("mode", cfg.Batch.ColumnMode, "column mode: picker or required")
	out := cmd.Flag.String("out", cfg.Batch.OutputPath, "results CSV; empty to skip")
	asJSON := cmd.Flag.Bool("json", false, "also stream NDJSON records to stdout")
	modelPath := cmd.Flag.String("model", cfg.Model.ModelPath, "classifier artifact")
	vecPath := cmd.Flag.String("vectorizer", cfg.Model.VectorizerPath, "vectorizer artifact")

	cmd.Run = func(_ *commander.Command, _ []string) error {
		if *in == "" {
			return fmt.Errorf("batch: -in is required")
		}
		m, err := pipeline.ParseColumnMode(*mode)
		if err != nil {
			return err
		}
		p, err := pipeline.Load(artifact.Paths{Model: *modelPath, Vectorizer: *vecPath})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		job := pipeline.FileJob{In: *in, Out: *out, Mode: m, Column: *column}
		report := io.Writer(os.Stdout)
		if *asJSON {
			job.Extra = []output.Output{async.New(stdout.New(os.Stdout, false))}
			report = os.Stderr
		}
		return runBatch(ctx, report, p, job)
	}
	return cmd
}

func runBatch(ctx context.Context, w io.Writer, p *pipeline.Pipeline, job pipeline.FileJob) error {
	b, err := p.ClassifyFile(ctx, job)
	if err != nil {
		return err
	}
	tally := b.Tally()
	fmt.Fprintf(w, "Positive: %d\n", tally.Positive)
	fmt.Fprintf(w, "Negative: %d\n", tally.Negative)
	if tally.Empty > 0 {
		fmt.Fprintf(w, "Skipped (empty): %d\n", tally.Empty)
	}
	if job.Out != "" {
		fmt.Fprintf(w, "Results written to %s\n", job.Out)
	}
	return nil
}
