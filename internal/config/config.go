package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all sentiment configuration.
type Config struct {
	Train  TrainConfig
	Model  ModelConfig
	Batch  BatchConfig
	Server ServerConfig
	Log    LogConfig
}

// TrainConfig holds training settings.
type TrainConfig struct {
	DatasetPath  string // local path or http(s) URL
	DatasetToken string // Bearer token for a remote dataset
	TextColumn   string // source column renamed to text
	LabelColumn  string // source column renamed to label
	MaxFeatures  int
	TestSize     float64
	Seed         uint64
	C            float64
	MaxIter      int
	StripAccents bool
}

// ModelConfig locates the artifact pair.
type ModelConfig struct {
	ModelPath      string
	VectorizerPath string
}

// BatchConfig holds CSV classification settings.
type BatchConfig struct {
	ColumnMode string // "picker" or "required"
	TextColumn string
	OutputPath string
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Load reads configuration from environment variables with sensible
// defaults. Variables in a .env file in the working directory are applied
// first; the real environment wins over the file.
func Load() Config {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit .env files. Missing files are ignored;
// a file that exists but does not parse is logged and skipped.
func LoadFiles(files ...string) Config {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("config: ignoring unreadable env file", "path", f, "error", err)
		}
	}
	return Config{
		Train: TrainConfig{
			DatasetPath:  getenv("SENTIMENT_DATASET_PATH", "IMDB Dataset.csv"),
			DatasetToken: os.Getenv("SENTIMENT_DATASET_TOKEN"),
			TextColumn:   getenv("SENTIMENT_SOURCE_TEXT_COLUMN", "review"),
			LabelColumn:  getenv("SENTIMENT_SOURCE_LABEL_COLUMN", "sentiment"),
			MaxFeatures:  getenvInt("SENTIMENT_MAX_FEATURES", 5000),
			TestSize:     getenvFloat("SENTIMENT_TEST_SIZE", 0.2),
			Seed:         uint64(getenvInt("SENTIMENT_SEED", 42)),
			C:            getenvFloat("SENTIMENT_C", 1.0),
			MaxIter:      getenvInt("SENTIMENT_MAX_ITER", 100),
			StripAccents: getenvBool("SENTIMENT_STRIP_ACCENTS", false),
		},
		Model: ModelConfig{
			ModelPath:      getenv("SENTIMENT_MODEL_PATH", "models/sentiment_model.json"),
			VectorizerPath: getenv("SENTIMENT_VECTORIZER_PATH", "models/vectorizer.json"),
		},
		Batch: BatchConfig{
			ColumnMode: getenv("SENTIMENT_COLUMN_MODE", "picker"),
			TextColumn: getenv("SENTIMENT_TEXT_COLUMN", "text"),
			OutputPath: getenv("SENTIMENT_OUTPUT_PATH", "sentiment_results.csv"),
		},
		Server: ServerConfig{
			Addr:           getenv("SENTIMENT_HTTP_ADDR", ":8080"),
			MaxUploadBytes: int64(getenvInt("SENTIMENT_MAX_UPLOAD_BYTES", 32<<20)),
		},
		Log: LogConfig{
			Level:  getenv("SENTIMENT_LOG_LEVEL", "info"),
			Format: getenv("SENTIMENT_LOG_FORMAT", "text"),
		},
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Train.DatasetPath == "" {
		errs = append(errs, errors.New("dataset path must not be empty"))
	}
	if c.Train.TextColumn == "" || c.Train.LabelColumn == "" {
		errs = append(errs, errors.New("source text and label columns must not be empty"))
	}
	if c.Train.MaxFeatures <= 0 {
		errs = append(errs, fmt.Errorf("max features must be positive, got %d", c.Train.MaxFeatures))
	}
	if c.Train.TestSize <= 0 || c.Train.TestSize >= 1 {
		errs = append(errs, fmt.Errorf("test size must be in (0,1), got %v", c.Train.TestSize))
	}
	if c.Train.C <= 0 {
		errs = append(errs, fmt.Errorf("regularization C must be positive, got %v", c.Train.C))
	}
	if c.Train.MaxIter <= 0 {
		errs = append(errs, fmt.Errorf("max iterations must be positive, got %d", c.Train.MaxIter))
	}
	if c.Model.ModelPath == "" || c.Model.VectorizerPath == "" {
		errs = append(errs, errors.New("model and vectorizer paths must not be empty"))
	}
	switch c.Batch.ColumnMode {
	case "picker", "required":
	default:
		errs = append(errs, fmt.Errorf("column mode must be picker or required, got %q", c.Batch.ColumnMode))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max upload bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
