// Package scorer evaluates model predictions against a benchmark using
// exact set matching over normalized answer letters.
package scorer

import (
	"errors"

	"github.com/hydroworks/hydrobench/internal/answer"
	"github.com/hydroworks/hydrobench/internal/benchmark"
)

// Result is the outcome for a single question.
type Result struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Category  string   `json:"category"`
	Level     string   `json:"level"`
	Type      string   `json:"type"`
	Expected  []string `json:"expected"`
	Predicted []string `json:"predicted"`
	Correct   bool     `json:"is_correct"`
	Missing   bool     `json:"missing,omitempty"`
}

// Report is a full evaluation: one result per benchmark question, in
// benchmark order, plus aggregate statistics.
type Report struct {
	Benchmark string     `json:"benchmark"`
	Model     string     `json:"model,omitempty"`
	Results   []Result   `json:"scores"`
	Stats     Statistics `json:"statistics"`
}

// Score evaluates predictions against every question of the benchmark.
// Questions without a prediction score as incorrect with an empty
// predicted set. Predictions whose value cannot be normalized likewise
// score as incorrect; only a nil benchmark is an error.
func Score(b *benchmark.Benchmark, preds *Predictions) (*Report, error) {
	if b == nil {
		return nil, errors.New("scorer: nil benchmark")
	}

	results := make([]Result, 0, b.Len())
	for i, q := range b.Questions() {
		r := Result{
			ID:       q.ID,
			Question: q.Text,
			Category: q.Category,
			Level:    q.Level,
			Type:     q.Type,
			Expected: q.Expected,
		}

		raw, ok := preds.lookup(q.ID, i)
		if !ok {
			r.Missing = true
		} else if predicted, err := answer.Normalize(raw); err == nil {
			r.Predicted = predicted
			r.Correct = answer.Equal(predicted, q.Expected)
		}
		if r.Predicted == nil {
			r.Predicted = []string{}
		}
		results = append(results, r)
	}

	return &Report{
		Benchmark: b.Name(),
		Results:   results,
		Stats:     Compute(results),
	}, nil
}
