// Package sentiment classifies English text as Positive or Negative with a
// TF-IDF vectorizer and a logistic regression model.
//
// Quick start:
//
//	s, err := sentiment.Load(sentiment.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, _ := s.Classify("What a wonderful and delightful story")
//	fmt.Println(p.Label, p.Confidence) // Positive 0.87
//
// Artifacts are produced by Train, or by `sentiment train` on the command
// line. A Sentiment is read-only once loaded and safe for concurrent use.
package sentiment
