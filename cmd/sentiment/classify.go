package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/crimson-sun/sentiment/internal/artifact"
	"github.com/crimson-sun/sentiment/internal/config"
	"github.com/crimson-sun/sentiment/internal/engine"
	"github.com/crimson-sun/sentiment/internal/model"
	"github.com/crimson-sun/sentiment/internal/pipeline"
)

var errBlankInput = errors.New("please enter some text")

func classifyCmd(cfg config.Config) *commander.Command {
	cmd := &commander.Command{
		UsageLine: "classify [options] [text...]",
		Short:     "classify one text given as arguments or on stdin",
		Long: `
classify one text given as arguments or on stdin

	$ sentiment classify "I loved every minute of it"
	$ echo "what a waste of time" | sentiment classify

`,
		Flag: *flag.NewFlagSet("classify", flag.ExitOnError),
	}
	modelPath := cmd.Flag.String("model", cfg.Model.ModelPath, "classifier artifact")
	vecPath := cmd.Flag.String("vectorizer", cfg.Model.VectorizerPath, "vectorizer artifact")

	cmd.Run = func(_ *commander.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(bufio.NewReader(os.Stdin))
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}
		p, err := pipeline.Load(artifact.Paths{Model: *modelPath, Vectorizer: *vecPath})
		if err != nil {
			return err
		}
		return runClassify(os.Stdout, p, text)
	}
	return cmd
}

func runClassify(w io.Writer, p *pipeline.Pipeline, text string) error {
	res, err := p.Classify(text)
	if errors.Is(err, engine.ErrEmptyInput) {
		fmt.Fprintln(w, "Please enter some text.")
		return errBlankInput
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Prediction: %s\n", decorate(res.Label))
	fmt.Fprintf(w, "Confidence: %.2f\n", res.Confidence)
	return nil
}

// decorate adds the emoji shown next to a label in terminal output.
func decorate(s model.Sentiment) string {
	if s == model.Positive {
		return s.String() + " 😊"
	}
	return s.String() + " 😞"
}
