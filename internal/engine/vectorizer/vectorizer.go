// Package vectorizer turns text into L2-normalized TF-IDF sparse vectors.
package vectorizer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/crimson-sun/sentiment/internal/engine/sparse"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 5000

// Options configures Fit.
type Options struct {
	MaxFeatures  int      // 0 means DefaultMaxFeatures
	StripAccents bool     // drop combining marks before tokenizing
	StopWords    []string // nil means EnglishStopWords()
}

// Vectorizer is a fitted TF-IDF feature extractor. It is immutable after
// Fit and safe for concurrent use.
type Vectorizer struct {
	vocab        map[string]int
	terms        []string
	idf          []float64
	maxFeatures  int
	stripAccents bool
	stopWords    []string
	tok          *tokenizer
}

// Fit learns a vocabulary and IDF weights from docs. The MaxFeatures terms
// with the highest total count are kept, ties broken lexically, and columns
// are assigned in lexical order.
func Fit(docs []string, opts Options) (*Vectorizer, error) {
	if len(docs) == 0 {
		return nil, errors.New("vectorizer: no documents to fit")
	}
	if opts.MaxFeatures < 0 {
		return nil, fmt.Errorf("vectorizer: max features must be positive, got %d", opts.MaxFeatures)
	}
	if opts.MaxFeatures == 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	stop := opts.StopWords
	if stop == nil {
		stop = EnglishStopWords()
	}
	tok := newTokenizer(opts.StripAccents, stop)

	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range tok.tokenize(doc) {
			counts[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}
	if len(counts) == 0 {
		return nil, errors.New("vectorizer: empty vocabulary; documents contain only stop words")
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > opts.MaxFeatures {
		terms = terms[:opts.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = smoothIDF(n, float64(df[term]))
	}

	return build(terms, idf, opts.MaxFeatures, opts.StripAccents, stop), nil
}

// smoothIDF is ln((1+n)/(1+df)) + 1.
func smoothIDF(n, df float64) float64 {
	return math.Log((1+n)/(1+df)) + 1
}

func build(terms []string, idf []float64, maxFeatures int, stripAccents bool, stop []string) *Vectorizer {
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return &Vectorizer{
		vocab:        vocab,
		terms:        terms,
		idf:          idf,
		maxFeatures:  maxFeatures,
		stripAccents: stripAccents,
		stopWords:    stop,
		tok:          newTokenizer(stripAccents, stop),
	}
}

// Transform maps text to a TF-IDF vector. Out-of-vocabulary tokens are
// ignored; a text with no known tokens yields the zero vector.
func (v *Vectorizer) Transform(text string) sparse.Vector {
	tf := make(map[int]float64)
	for _, term := range v.tok.tokenize(text) {
		if idx, ok := v.vocab[term]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return sparse.Vector{}
	}

	indices := make([]int, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var norm float64
	for k, idx := range indices {
		values[k] = tf[idx] * v.idf[idx]
		norm += values[k] * values[k]
	}
	norm = math.Sqrt(norm)
	for k := range values {
		values[k] /= norm
	}
	return sparse.Vector{Indices: indices, Values: values}
}

// TransformAll maps every text in order.
func (v *Vectorizer) TransformAll(texts []string) []sparse.Vector {
	out := make([]sparse.Vector, len(texts))
	for i, text := range texts {
		out[i] = v.Transform(text)
	}
	return out
}

// Dim returns the number of feature columns.
func (v *Vectorizer) Dim() int {
	return len(v.terms)
}

// Vocabulary returns the terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// IDF returns the inverse document frequency of term.
func (v *Vectorizer) IDF(term string) (float64, bool) {
	idx, ok := v.vocab[term]
	if !ok {
		return 0, false
	}
	return v.idf[idx], true
}

// Snapshot is the serializable form of a fitted Vectorizer.
type Snapshot struct {
	Terms        []string  `json:"terms"`
	IDF          []float64 `json:"idf"`
	MaxFeatures  int       `json:"max_features"`
	StripAccents bool      `json:"strip_accents"`
	StopWords    []string  `json:"stop_words"`
}

// Snapshot returns a deep copy of the fitted state.
func (v *Vectorizer) Snapshot() Snapshot {
	idf := make([]float64, len(v.idf))
	copy(idf, v.idf)
	stop := make([]string, len(v.stopWords))
	copy(stop, v.stopWords)
	return Snapshot{
		Terms:        v.Vocabulary(),
		IDF:          idf,
		MaxFeatures:  v.maxFeatures,
		StripAccents: v.stripAccents,
		StopWords:    stop,
	}
}

// FromSnapshot rebuilds a Vectorizer, validating the snapshot's shape.
func FromSnapshot(s Snapshot) (*Vectorizer, error) {
	if len(s.Terms) == 0 {
		return nil, errors.New("vectorizer: snapshot has empty vocabulary")
	}
	if len(s.Terms) != len(s.IDF) {
		return nil, fmt.Errorf("vectorizer: snapshot has %d terms but %d idf weights", len(s.Terms), len(s.IDF))
	}
	seen := make(map[string]struct{}, len(s.Terms))
	for i, term := range s.Terms {
		if _, dup := seen[term]; dup {
			return nil, fmt.Errorf("vectorizer: duplicate term %q in snapshot", term)
		}
		seen[term] = struct{}{}
		if w := s.IDF[i]; math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return nil, fmt.Errorf("vectorizer: invalid idf %v for term %q", w, term)
		}
	}
	terms := append([]string(nil), s.Terms...)
	idf := append([]float64(nil), s.IDF...)
	stop := append([]string{}, s.StopWords...)
	return build(terms, idf, s.MaxFeatures, s.StripAccents, stop), nil
}
