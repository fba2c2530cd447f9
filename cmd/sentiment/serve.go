package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/crimson-sun/sentiment/internal/artifact"
	"github.com/crimson-sun/sentiment/internal/config"
	"github.com/crimson-sun/sentiment/internal/pipeline"
	"github.com/crimson-sun/sentiment/internal/server"
)

func serveCmd(cfg config.Config) *commander.Command {
	cmd := &commander.Command{
		UsageLine: "serve [options]",
		Short:     "serve the classification API over HTTP",
		Long: `
load the artifacts once and serve the classification API

	$ sentiment serve -addr :8080

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	addr := cmd.Flag.String("addr", cfg.Server.Addr, "listen address")
	mode := cmd.Flag.String("mode", cfg.Batch.ColumnMode, "CSV column mode: picker or required")
	modelPath := cmd.Flag.String("model", cfg.Model.ModelPath, "classifier artifact")
	vecPath := cmd.Flag.String("vectorizer", cfg.Model.VectorizerPath, "vectorizer artifact")

	cmd.Run = func(_ *commander.Command, _ []string) error {
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

		srv := server.New(p,
			server.WithColumnMode(m),
			server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		)
		return srv.Run(ctx, *addr)
	}
	return cmd
}
