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
	"github.com/crimson-sun/sentiment/internal/dataset"
	"github.com/crimson-sun/sentiment/internal/engine/classifier"
	"github.com/crimson-sun/sentiment/internal/engine/vectorizer"
	"github.com/crimson-sun/sentiment/internal/fetch"
	"github.com/crimson-sun/sentiment/internal/trainer"
)

func trainCmd(cfg config.Config) *commander.Command {
	cmd := &commander.Command{
		UsageLine: "train [options]",
		Short:     "fit the vectorizer and classifier on a labeled CSV",
		Long: `
fit the vectorizer and classifier on a labeled CSV and write both artifacts

	$ sentiment train -data "IMDB Dataset.csv" -model models/sentiment_model.json -vectorizer models/vectorizer.json

-data may be an http(s) URL; the file is downloaded to a temporary
directory first. SENTIMENT_DATASET_TOKEN is sent as a Bearer token.

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	data := cmd.Flag.String("data", cfg.Train.DatasetPath, "labeled CSV dataset")
	modelPath := cmd.Flag.String("model", cfg.Model.ModelPath, "output classifier artifact")
	vecPath := cmd.Flag.String("vectorizer", cfg.Model.VectorizerPath, "output vectorizer artifact")

	cmd.Run = func(_ *commander.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		local, cleanup, err := localDataset(ctx, fetch.New(fetch.WithToken(cfg.Train.DatasetToken)), *data)
		if err != nil {
			return err
		}
		defer cleanup()

		tc := trainConfig(cfg)
		tc.DatasetPath = local
		return runTrain(os.Stdout, tc, artifact.Paths{Model: *modelPath, Vectorizer: *vecPath})
	}
	return cmd
}

func trainConfig(cfg config.Config) trainer.Config {
	return trainer.Config{
		DatasetPath: cfg.Train.DatasetPath,
		Columns:     dataset.Columns{Text: cfg.Train.TextColumn, Label: cfg.Train.LabelColumn},
		TestSize:    cfg.Train.TestSize,
		Seed:        cfg.Train.Seed,
		Vectorizer: vectorizer.Options{
			MaxFeatures:  cfg.Train.MaxFeatures,
			StripAccents: cfg.Train.StripAccents,
		},
		Classifier: classifier.Options{
			C:       cfg.Train.C,
			MaxIter: cfg.Train.MaxIter,
		},
	}
}

// localDataset returns src unchanged for a local path, or downloads a URL
// into a temporary directory that cleanup removes.
func localDataset(ctx context.Context, client *fetch.Client, src string) (string, func(), error) {
	if !fetch.IsURL(src) {
		return src, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "sentiment-dataset-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }
	path, err := client.Download(ctx, src, dir)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func runTrain(w io.Writer, tc trainer.Config, paths artifact.Paths) error {
	res, err := trainer.Run(tc, paths)
	if err != nil {
		return err
	}
	if n := len(res.Dropped); n > 0 {
		fmt.Fprintf(w, "Dropped %d rows with missing or unrecognized values\n", n)
	}
	fmt.Fprintf(w, "Model Accuracy: %.2f%%\n", res.Metrics.Accuracy()*100)
	fmt.Fprintf(w, "Saved %s and %s\n", paths.Model, paths.Vectorizer)
	return nil
}
