package sentiment

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/crimson-sun/sentiment/internal/engine/testdata"
)

// trained fits on the embedded corpus and returns the model directory.
func trained(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data, err := testdata.WriteCorpus(dir)
	if err != nil {
		t.Fatal(err)
	}
	modelDir := filepath.Join(dir, "models")
	if _, err := Train(data, WithModelDir(modelDir)); err != nil {
		t.Fatalf("Train error: %v", err)
	}
	return modelDir
}

func loaded(t *testing.T) *Sentiment {
	t.Helper()
	s, err := Load(WithModelDir(trained(t)))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return s
}

func TestTrainReport(t *testing.T) {
	dir := t.TempDir()
	data, err := testdata.WriteCorpus(dir)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := Train(data, WithModelDir(filepath.Join(dir, "models")))
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	if rep.TrainSize+rep.TestSize+rep.Dropped != 40 {
		t.Errorf("sizes %d+%d+%d, want 40 rows", rep.TrainSize, rep.TestSize, rep.Dropped)
	}
	if rep.Accuracy < 0 || rep.Accuracy > 1 {
		t.Errorf("accuracy %v outside [0,1]", rep.Accuracy)
	}
	if rep.RunID == "" {
		t.Error("expected a run ID")
	}
}

func TestTrainMissingColumn(t *testing.T) {
	dir := t.TempDir()
	data, err := testdata.WriteCorpus(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Train(data, WithModelDir(dir), WithColumns("body", "sentiment"))
	if err == nil {
		t.Fatal("expected error for missing source column")
	}
}

func TestLoadMissingArtifacts(t *testing.T) {
	_, err := Load(WithModelDir(t.TempDir()))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Load error = %v, want *LoadError", err)
	}
}

func TestLoadRunIDMatchesTrain(t *testing.T) {
	dir := t.TempDir()
	data, err := testdata.WriteCorpus(dir)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := Train(data, WithModelDir(dir))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Load(WithModelDir(dir))
	if err != nil {
		t.Fatal(err)
	}
	if s.RunID() != rep.RunID {
		t.Errorf("RunID = %q, want %q", s.RunID(), rep.RunID)
	}
}

func TestClassify(t *testing.T) {
	s := loaded(t)
	p, err := s.Classify("great movie loved it")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if p.Label != "Positive" || p.Class != 1 {
		t.Errorf("got %+v, want Positive/1", p)
	}
	if p.Confidence < 0.5 || p.Confidence > 1 {
		t.Errorf("confidence %v outside [0.5,1]", p.Confidence)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	s := loaded(t)
	for _, text := range []string{"", "   "} {
		if _, err := s.Classify(text); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Classify(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestClassifyBatchMatchesIndividual(t *testing.T) {
	s := loaded(t)
	texts := []string{"I love this", "", "I hate this"}

	outcomes := s.ClassifyBatch(texts)
	if len(outcomes) != len(texts) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(texts))
	}
	if !errors.Is(outcomes[1].Err, ErrEmptyInput) {
		t.Errorf("outcome 1 error = %v, want ErrEmptyInput", outcomes[1].Err)
	}
	if outcomes[1].Err != nil && !strings.Contains(outcomes[1].Err.Error(), "row 1") {
		t.Errorf("outcome 1 error = %q, want it to name the row", outcomes[1].Err)
	}
	for _, i := range []int{0, 2} {
		want, err := s.Classify(texts[i])
		if err != nil {
			t.Fatal(err)
		}
		if outcomes[i].Err != nil || outcomes[i].Prediction != want {
			t.Errorf("outcome %d = %+v, want %+v", i, outcomes[i], want)
		}
	}
}

func TestConcurrentClassify(t *testing.T) {
	s := loaded(t)
	want, _ := s.Classify("What a wonderful and delightful story")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if got, _ := s.Classify("What a wonderful and delightful story"); got != want {
					t.Errorf("concurrent Classify = %+v, want %+v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestClassifyCSV(t *testing.T) {
	s := loaded(t)
	in := strings.NewReader("id,text\n1,I love this\n2,\n3,I hate this\n")
	var out bytes.Buffer

	tally, err := s.ClassifyCSV(in, &out, "text")
	if err != nil {
		t.Fatalf("ClassifyCSV error: %v", err)
	}
	if tally != (Tally{Positive: 1, Negative: 1, Empty: 1}) {
		t.Errorf("tally = %+v", tally)
	}
	want := "id,text,Sentiment,Sentiment Label\n1,I love this,1,Positive\n2,,,\n3,I hate this,0,Negative\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestClassifyCSVDefaultsToFirstColumn(t *testing.T) {
	s := loaded(t)
	var out bytes.Buffer
	if _, err := s.ClassifyCSV(strings.NewReader("review\nI love this\n"), &out, ""); err != nil {
		t.Fatalf("ClassifyCSV error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "review,Sentiment,Sentiment Label\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestClassifyCSVMissingColumn(t *testing.T) {
	s := loaded(t)
	var out bytes.Buffer
	_, err := s.ClassifyCSV(strings.NewReader("body\nI love this\n"), &out, "text")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("error = %v, want ErrMissingColumn", err)
	}
	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != "text" {
		t.Errorf("error = %v, want MissingColumnError for text", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := defaultOptions()
	if o.modelDir != "models" || o.testSize != 0.2 || o.seed != 42 || o.maxFeatures != 5000 {
		t.Errorf("unexpected defaults: %+v", o)
	}
	if o.textColumn != "review" || o.labelColumn != "sentiment" {
		t.Errorf("unexpected default columns: %q/%q", o.textColumn, o.labelColumn)
	}
}

func TestResolvePathsExplicit(t *testing.T) {
	o := defaultOptions()
	WithModelDir("/ignored")(&o)
	WithModelPaths("/a/model.json", "/b/vec.json")(&o)
	p := resolvePaths(o)
	if p.Model != "/a/model.json" || p.Vectorizer != "/b/vec.json" {
		t.Errorf("got %+v", p)
	}
}

func TestResolvePathsFromDir(t *testing.T) {
	o := defaultOptions()
	WithModelDir("/opt/sentiment")(&o)
	p := resolvePaths(o)
	if p.Model != filepath.Join("/opt/sentiment", "sentiment_model.json") {
		t.Errorf("model path = %q", p.Model)
	}
	if p.Vectorizer != filepath.Join("/opt/sentiment", "vectorizer.json") {
		t.Errorf("vectorizer path = %q", p.Vectorizer)
	}
}
