package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var allKeys = []string{
	"SENTIMENT_DATASET_PATH", "SENTIMENT_DATASET_TOKEN", "SENTIMENT_SOURCE_TEXT_COLUMN", "SENTIMENT_SOURCE_LABEL_COLUMN",
	"SENTIMENT_MODEL_PATH", "SENTIMENT_VECTORIZER_PATH", "SENTIMENT_MAX_FEATURES",
	"SENTIMENT_TEST_SIZE", "SENTIMENT_SEED", "SENTIMENT_C", "SENTIMENT_MAX_ITER",
	"SENTIMENT_STRIP_ACCENTS", "SENTIMENT_COLUMN_MODE", "SENTIMENT_TEXT_COLUMN",
	"SENTIMENT_OUTPUT_PATH", "SENTIMENT_HTTP_ADDR", "SENTIMENT_MAX_UPLOAD_BYTES",
	"SENTIMENT_LOG_LEVEL", "SENTIMENT_LOG_FORMAT",
}

// clearEnv blanks every variable for the duration of the test. Empty
// values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadFiles()

	if cfg.Train.DatasetPath != "IMDB Dataset.csv" {
		t.Fatalf("expected default dataset path, got %q", cfg.Train.DatasetPath)
	}
	if cfg.Train.TextColumn != "review" || cfg.Train.LabelColumn != "sentiment" {
		t.Fatalf("expected review/sentiment source columns, got %q/%q", cfg.Train.TextColumn, cfg.Train.LabelColumn)
	}
	if cfg.Train.DatasetToken != "" {
		t.Fatalf("expected no dataset token, got %q", cfg.Train.DatasetToken)
	}
	if cfg.Train.MaxFeatures != 5000 || cfg.Train.TestSize != 0.2 || cfg.Train.Seed != 42 {
		t.Fatalf("unexpected training defaults: %+v", cfg.Train)
	}
	if cfg.Train.C != 1.0 || cfg.Train.MaxIter != 100 || cfg.Train.StripAccents {
		t.Fatalf("unexpected classifier defaults: %+v", cfg.Train)
	}
	if cfg.Model.ModelPath != "models/sentiment_model.json" || cfg.Model.VectorizerPath != "models/vectorizer.json" {
		t.Fatalf("unexpected artifact paths: %+v", cfg.Model)
	}
	if cfg.Batch.ColumnMode != "picker" || cfg.Batch.OutputPath != "sentiment_results.csv" {
		t.Fatalf("unexpected batch defaults: %+v", cfg.Batch)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.MaxUploadBytes != 32<<20 {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENTIMENT_MAX_FEATURES", "100")
	t.Setenv("SENTIMENT_C", "0.5")
	t.Setenv("SENTIMENT_STRIP_ACCENTS", "true")
	t.Setenv("SENTIMENT_COLUMN_MODE", "required")

	cfg := LoadFiles()

	if cfg.Train.MaxFeatures != 100 {
		t.Errorf("MaxFeatures = %d, want 100", cfg.Train.MaxFeatures)
	}
	if cfg.Train.C != 0.5 {
		t.Errorf("C = %v, want 0.5", cfg.Train.C)
	}
	if !cfg.Train.StripAccents {
		t.Error("StripAccents = false, want true")
	}
	if cfg.Batch.ColumnMode != "required" {
		t.Errorf("ColumnMode = %q, want required", cfg.Batch.ColumnMode)
	}
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENTIMENT_MAX_ITER", "lots")
	t.Setenv("SENTIMENT_TEST_SIZE", "a fifth")
	t.Setenv("SENTIMENT_STRIP_ACCENTS", "maybe")

	cfg := LoadFiles()
	if cfg.Train.MaxIter != 100 || cfg.Train.TestSize != 0.2 || cfg.Train.StripAccents {
		t.Fatalf("invalid values should fall back to defaults: %+v", cfg.Train)
	}
}

func TestLoadFiles_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv only sets variables that are absent, so unset the ones the
	// file provides.
	os.Unsetenv("SENTIMENT_DATASET_PATH")
	os.Unsetenv("SENTIMENT_SEED")
	t.Setenv("SENTIMENT_HTTP_ADDR", ":9999")

	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	content := "SENTIMENT_DATASET_PATH=data/reviews.csv\nSENTIMENT_SEED=7\nSENTIMENT_HTTP_ADDR=:1234\n"
	if err := os.WriteFile(env, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("SENTIMENT_DATASET_PATH")
		os.Unsetenv("SENTIMENT_SEED")
	})

	cfg := LoadFiles(env, filepath.Join(dir, "missing.env"))

	if cfg.Train.DatasetPath != "data/reviews.csv" {
		t.Errorf("DatasetPath = %q, want value from .env", cfg.Train.DatasetPath)
	}
	if cfg.Train.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Train.Seed)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, real environment should win over .env", cfg.Server.Addr)
	}
}

func TestLoadFiles_BadDotEnvIsLogged(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("SENTIMENT_SEED='7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := LoadFiles(env)

	if !strings.Contains(buf.String(), "unreadable env file") || !strings.Contains(buf.String(), env) {
		t.Errorf("expected a warning naming %s, got: %q", env, buf.String())
	}
	if cfg.Train.Seed != 42 {
		t.Errorf("Seed = %d, want default 42", cfg.Train.Seed)
	}
}

// --- Validation tests ---

func TestValidate_ReportsEveryProblem(t *testing.T) {
	clearEnv(t)
	cfg := LoadFiles()
	cfg.Train.TestSize = 1.5
	cfg.Train.C = 0
	cfg.Batch.ColumnMode = "auto"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"test size", "regularization", "column mode", "log format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got: %v", want, err)
		}
	}
}

func TestValidate_EmptyPaths(t *testing.T) {
	clearEnv(t)
	cfg := LoadFiles()
	cfg.Model.ModelPath = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "model") {
		t.Fatalf("expected error to mention 'model', got: %v", err)
	}
}
