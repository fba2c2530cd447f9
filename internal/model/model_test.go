package model

import (
	"errors"
	"testing"
)

func TestSentimentFromClass(t *testing.T) {
	tests := []struct {
		class   int
		want    Sentiment
		wantErr bool
	}{
		{0, Negative, false},
		{1, Positive, false},
		{2, Negative, true},
		{-1, Negative, true},
	}
	for _, tt := range tests {
		got, err := SentimentFromClass(tt.class)
		if (err != nil) != tt.wantErr {
			t.Errorf("SentimentFromClass(%d) error = %v, wantErr %v", tt.class, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("SentimentFromClass(%d) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestSentimentPredictionAndString(t *testing.T) {
	if Positive.Prediction() != 1 || Positive.String() != "Positive" {
		t.Errorf("Positive = %d/%q", Positive.Prediction(), Positive)
	}
	if Negative.Prediction() != 0 || Negative.String() != "Negative" {
		t.Errorf("Negative = %d/%q", Negative.Prediction(), Negative)
	}
}

func TestCount(t *testing.T) {
	outcomes := []Outcome{
		{Row: 0, Result: Result{Label: Positive, Confidence: 0.9}},
		{Row: 1, Err: errors.New("empty")},
		{Row: 2, Result: Result{Label: Negative, Confidence: 0.7}},
		{Row: 3, Result: Result{Label: Positive, Confidence: 0.6}},
	}
	got := Count(outcomes)
	want := Tally{Positive: 2, Negative: 1, Empty: 1}
	if got != want {
		t.Errorf("Count = %+v, want %+v", got, want)
	}
	if empty := Count(nil); empty != (Tally{}) {
		t.Errorf("Count(nil) = %+v, want zero", empty)
	}
}
