package model

// Result is the outcome of classifying one text.
type Result struct {
	Label      Sentiment
	Confidence float64 // max class probability, in [0, 1]
}

// Outcome pairs a batch row with its result. Err is set (and Result zero)
// when the row could not be classified, e.g. blank text.
type Outcome struct {
	Row    int
	Result Result
	Err    error
}

// Tally holds per-label row counts for a batch.
type Tally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Empty    int `json:"empty"`
}

// Count tallies a batch of outcomes. Rows that failed count as Empty.
func Count(outcomes []Outcome) Tally {
	var t Tally
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			t.Empty++
		case o.Result.Label == Positive:
			t.Positive++
		default:
			t.Negative++
		}
	}
	return t
}

// Record is one exported row of a batch run: the source cells with the
// added sentiment columns appended, plus the structured result.
type Record struct {
	Row        int      `json:"row"`
	Text       string   `json:"text"`
	Cells      []string `json:"-"`
	Label      string   `json:"label,omitempty"`
	Prediction *int     `json:"prediction,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
}
