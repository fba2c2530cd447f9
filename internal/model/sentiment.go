package model

import "fmt"

// Sentiment is the binary class a text is assigned to.
type Sentiment int

const (
	Negative Sentiment = 0
	Positive Sentiment = 1
)

// SentimentFromClass maps a numeric class (0 or 1) to a Sentiment.
func SentimentFromClass(class int) (Sentiment, error) {
	switch class {
	case 0:
		return Negative, nil
	case 1:
		return Positive, nil
	default:
		return Negative, fmt.Errorf("model: class %d is not binary", class)
	}
}

// Prediction returns the numeric class: 1 for Positive, 0 for Negative.
func (s Sentiment) Prediction() int {
	if s == Positive {
		return 1
	}
	return 0
}

func (s Sentiment) String() string {
	if s == Positive {
		return "Positive"
	}
	return "Negative"
}

// Example is a labeled training text.
type Example struct {
	Text  string
	Label Sentiment
}
