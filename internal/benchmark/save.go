package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hydroworks/hydrobench/internal/tabular"
)

var choiceLabelPattern = regexp.MustCompile(`([A-Z])\s*[\.．、：:）\)]`)

// Save writes the benchmark to path, as JSON when the extension is .json
// and as a flat table (CSV/XLSX) otherwise. The JSON form uses the
// target_scores layout the JSON loader accepts, so a saved benchmark
// round-trips.
func Save(b *Benchmark, path string) error {
	if b == nil {
		return errors.New("benchmark: nil benchmark")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("benchmark: empty output path")
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return saveJSON(b, path)
	}
	return tabular.WriteFile(toTable(b), path)
}

func saveJSON(b *Benchmark, path string) error {
	type jsonExample struct {
		Input        string         `json:"input"`
		TargetScores map[string]int `json:"target_scores"`
		ID           string         `json:"ID"`
		Category     string         `json:"category,omitempty"`
		Level        string         `json:"level,omitempty"`
		Type         string         `json:"type,omitempty"`
	}

	examples := make([]jsonExample, 0, b.Len())
	for _, q := range b.Questions() {
		scores := make(map[string]int, len(q.Expected))
		for _, letter := range choiceLabels(q) {
			scores[letter] = 0
		}
		for _, letter := range q.Expected {
			scores[letter] = 1
		}
		examples = append(examples, jsonExample{
			Input:        q.Text,
			TargetScores: scores,
			ID:           q.ID,
			Category:     q.Category,
			Level:        q.Level,
			Type:         q.Type,
		})
	}

	payload := struct {
		Name        string        `json:"name"`
		Description string        `json:"description,omitempty"`
		Examples    []jsonExample `json:"examples"`
	}{
		Name:        b.Name(),
		Description: b.Description(),
		Examples:    examples,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("benchmark: marshal %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("benchmark: write %q: %w", path, err)
	}
	return nil
}

// choiceLabels recovers the full option set of a question: the labeled
// options embedded in its text, or the expected letters when the text
// carries none.
func choiceLabels(q Question) []string {
	seen := make(map[string]struct{})
	for _, m := range choiceLabelPattern.FindAllStringSubmatch(q.Text, -1) {
		seen[m[1]] = struct{}{}
	}
	if len(seen) == 0 {
		return q.Expected
	}
	out := make([]string, 0, len(seen))
	for letter := range seen {
		out = append(out, letter)
	}
	sort.Strings(out)
	return out
}

func toTable(b *Benchmark) *tabular.Table {
	t := &tabular.Table{
		Header: []string{"ID", "Question", "Answer", "Category", "Level", "Type"},
		Rows:   make([][]string, 0, b.Len()),
	}
	for _, q := range b.Questions() {
		t.Rows = append(t.Rows, []string{
			q.ID,
			q.Text,
			strings.Join(q.Expected, ","),
			q.Category,
			q.Level,
			q.Type,
		})
	}
	return t
}
