package vectorizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes drops single-character tokens, matching the usual
// \b\w\w+\b word pattern of bag-of-words vectorizers.
const minTokenRunes = 2

// tokenizer splits text into lower-case word tokens with stop words removed.
// It holds no mutable state and is safe for concurrent use.
type tokenizer struct {
	stripAccents bool
	stopWords    map[string]struct{}
}

func newTokenizer(stripAccents bool, stopWords []string) *tokenizer {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[w] = struct{}{}
	}
	return &tokenizer{stripAccents: stripAccents, stopWords: set}
}

// tokenize normalizes text to NFC, optionally strips accents, lower-cases it
// and splits on anything that is not a letter, digit or underscore.
func (t *tokenizer) tokenize(text string) []string {
	text = norm.NFC.String(text)
	if t.stripAccents {
		text = stripAccents(text)
	}
	text = strings.ToLower(text)

	var tokens []string
	for _, word := range strings.FieldsFunc(text, isSeparator) {
		if utf8.RuneCountInString(word) < minTokenRunes {
			continue
		}
		if _, stop := t.stopWords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// stripAccents removes combining marks after NFD decomposition.
// A fresh transformer is built per call; transform chains are stateful.
func stripAccents(text string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, text)
	if err != nil {
		return text
	}
	return out
}

func isSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.Is(unicode.Mn, r))
}
