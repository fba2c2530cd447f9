package sentiment

import "github.com/crimson-sun/sentiment/internal/artifact"

type options struct {
	modelDir       string
	modelPath      string
	vectorizerPath string

	textColumn  string
	labelColumn string
	testSize    float64
	seed        uint64
	maxFeatures int
}

// Option configures Load and Train.
type Option func(*options)

// WithModelDir sets the directory holding sentiment_model.json and
// vectorizer.json. Default: "models".
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPaths sets explicit artifact paths. They take precedence over
// WithModelDir.
func WithModelPaths(model, vectorizer string) Option {
	return func(o *options) {
		o.modelPath = model
		o.vectorizerPath = vectorizer
	}
}

// WithColumns names the dataset's text and label columns for Train.
// Default: "review" and "sentiment".
func WithColumns(text, label string) Option {
	return func(o *options) {
		o.textColumn = text
		o.labelColumn = label
	}
}

// WithTestSize sets the held-out fraction used for evaluation. Default: 0.2.
func WithTestSize(f float64) Option {
	return func(o *options) {
		o.testSize = f
	}
}

// WithSeed sets the split seed. Default: 42.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMaxFeatures caps the vocabulary size. Default: 5000.
func WithMaxFeatures(n int) Option {
	return func(o *options) {
		o.maxFeatures = n
	}
}

func defaultOptions() options {
	return options{
		modelDir:    artifact.DefaultDir,
		textColumn:  "review",
		labelColumn: "sentiment",
		testSize:    0.2,
		seed:        42,
		maxFeatures: 5000,
	}
}

// resolvePaths picks the artifact paths. Explicit paths win over modelDir.
func resolvePaths(o options) artifact.Paths {
	paths := artifact.DefaultPaths(o.modelDir)
	if o.modelPath != "" {
		paths.Model = o.modelPath
	}
	if o.vectorizerPath != "" {
		paths.Vectorizer = o.vectorizerPath
	}
	return paths
}
