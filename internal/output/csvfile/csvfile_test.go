package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/sentiment/internal/model"
)

func TestWriteAndClosePublishesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)

	out, err := New(path, []string{"text", "Sentiment", "Sentiment Label"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	rows := [][]string{{"loved it", "1", "Positive"}, {"", "", ""}, {"a, b", "0", "Negative"}}
	for i, cells := range rows {
		if err := out.Write(context.Background(), model.Record{Row: i, Cells: cells}); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("results file should not exist before Close")
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	want := "text,Sentiment,Sentiment Label\nloved it,1,Positive\n,,\n\"a, b\",0,Negative\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the results file", len(entries))
	}
}

func TestFailedWriteLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	out, err := New(path, []string{"text"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := out.Write(ctx, model.Record{Cells: []string{"x"}}); err == nil {
		t.Fatal("expected error writing with a cancelled context")
	}
	if err := out.Close(); err == nil || !strings.Contains(err.Error(), "discarded") {
		t.Fatalf("Close error = %v, want discarded", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("dir has %d entries after a failed batch, want 0", len(entries))
	}
}

func TestWriteAfterClose(t *testing.T) {
	out, err := New(filepath.Join(t.TempDir(), "out.csv"), []string{"text"}, WithBufSize(16))
	if err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Write(context.Background(), model.Record{Cells: []string{"late"}}); err == nil {
		t.Error("expected error for write after close")
	}
	if err := out.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "no", "such", "out.csv"), []string{"text"}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestAbortDiscards(t *testing.T) {
	dir := t.TempDir()
	out, err := New(filepath.Join(dir, "out.csv"), []string{"text"})
	if err != nil {
		t.Fatal(err)
	}
	out.Write(context.Background(), model.Record{Cells: []string{"fine"}})
	out.Abort()
	if err := out.Close(); err == nil {
		t.Error("Close after Abort should report the discard")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("dir has %d entries after Abort, want 0", len(entries))
	}
}
