package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const csvBody = "review,sentiment\ngreat movie,positive\n"

func TestDownload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := New().Download(context.Background(), srv.URL+"/data/imdb.csv", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "imdb.csv") {
		t.Fatalf("unexpected path: %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != csvBody {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestDownload_DefaultFileName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := New().Download(context.Background(), srv.URL, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "dataset.csv" {
		t.Fatalf("expected dataset.csv, got %q", path)
	}
}

func TestDownload_BearerAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	if _, err := New(WithToken("secret-token-123")).Download(context.Background(), srv.URL, t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret-token-123" {
		t.Fatalf("expected 'Bearer secret-token-123', got %q", gotAuth)
	}
}

func TestDownload_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	if _, err := New().Download(context.Background(), srv.URL, t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestDownload_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`not found`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := New().Download(context.Background(), srv.URL+"/missing.csv", dir)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != 404 || statusErr.Body != "not found" {
		t.Fatalf("unexpected error: %+v", statusErr)
	}
	if _, err := os.Stat(filepath.Join(dir, "missing.csv")); !os.IsNotExist(err) {
		t.Fatal("expected no file on failure")
	}
}

func TestDownload_RateLimit_RetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(429)
			return
		}
		w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	start := time.Now()
	_, err := New(WithBackoff(time.Millisecond)).Download(context.Background(), srv.URL, t.TempDir())
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed < 900*time.Millisecond {
		t.Fatalf("expected ~1s retry delay, got %v", elapsed)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestDownload_RetryOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(503)
			return
		}
		w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	if _, err := New(WithBackoff(time.Millisecond)).Download(context.Background(), srv.URL, t.TempDir()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestDownload_MaxRetriesExceeded(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(502)
	}))
	defer srv.Close()

	_, err := New(WithBackoff(time.Millisecond)).Download(context.Background(), srv.URL, t.TempDir())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 502 {
		t.Fatalf("expected 502 StatusError, got %v", err)
	}
	// 1 initial + 3 retries
	if calls.Load() != 4 {
		t.Fatalf("expected 4 calls, got %d", calls.Load())
	}
}

func TestDownload_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Download(ctx, srv.URL, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/imdb.csv", true},
		{"http://localhost:8000/data.csv", true},
		{"IMDB Dataset.csv", false},
		{"/data/reviews.csv", false},
		{"file:///data/reviews.csv", false},
		{"C:\\data\\reviews.csv", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
