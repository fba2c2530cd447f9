// Command sentiment trains and serves a TF-IDF + logistic regression
// sentiment classifier.
package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"

	"github.com/crimson-sun/sentiment/internal/config"
	"github.com/crimson-sun/sentiment/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "sentiment: invalid configuration:\n%v\n", err)
		os.Exit(2)
	}

	if err := newRoot(cfg).Dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sentiment: %v\n", err)
		os.Exit(1)
	}
}

func newRoot(cfg config.Config) *commander.Command {
	return &commander.Command{
		UsageLine: "sentiment <command> [options]",
		Short:     "classify review text as positive or negative",
		Subcommands: []*commander.Command{
			trainCmd(cfg),
			classifyCmd(cfg),
			batchCmd(cfg),
			serveCmd(cfg),
		},
	}
}
