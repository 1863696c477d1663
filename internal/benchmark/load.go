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

	"github.com/hydroworks/hydrobench/internal/answer"
	"github.com/hydroworks/hydrobench/internal/tabular"
)

// Columns names the recognized columns of a tabular benchmark source.
type Columns struct {
	ID       string
	Question string
	Answer   string
	Category string
	Level    string
	Type     string
}

// DefaultColumns returns the conventional column names.
func DefaultColumns() Columns {
	return Columns{
		ID:       "ID",
		Question: "Question",
		Answer:   "Answer",
		Category: "Category",
		Level:    "Level",
		Type:     "Type",
	}
}

var idPrefixPattern = regexp.MustCompile(`^[A-Za-z]+`)

// LoadFile loads a benchmark from a JSON or tabular (CSV/XLSX) file. The
// benchmark name is the file stem.
func LoadFile(path string, cols Columns) (*Benchmark, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("benchmark: empty path")
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("benchmark: read %q: %w", path, err)
		}
		return FromJSON(b, name)
	}

	t, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromTable(t, name, cols)
}

// FromJSON parses a benchmark from one of the accepted JSON shapes: an
// object with an "examples" array, a bare array of question objects, or an
// object keyed by question id.
func FromJSON(data []byte, name string) (*Benchmark, error) {
	var payload struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Examples    []json.RawMessage `json:"examples"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && len(payload.Examples) > 0 {
		if strings.TrimSpace(payload.Name) != "" {
			name = payload.Name
		}
		return fromJSONRecords(payload.Examples, name, payload.Description)
	}

	var array []json.RawMessage
	if err := json.Unmarshal(data, &array); err == nil {
		return fromJSONRecords(array, name, "")
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err == nil && len(keyed) > 0 {
		ids := make([]string, 0, len(keyed))
		for id := range keyed {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		questions := make([]Question, 0, len(ids))
		for _, id := range ids {
			q, err := parseJSONQuestion(keyed[id])
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(q.ID) == "" {
				q.ID = id
			}
			questions = append(questions, q)
		}
		return New(name, "", questions)
	}

	return nil, fmt.Errorf("benchmark: unrecognized json shape for %q", name)
}

func fromJSONRecords(records []json.RawMessage, name, description string) (*Benchmark, error) {
	questions := make([]Question, 0, len(records))
	for i, rec := range records {
		q, err := parseJSONQuestion(rec)
		if err != nil {
			return nil, fmt.Errorf("benchmark: examples[%d]: %w", i, err)
		}
		questions = append(questions, q)
	}
	return New(name, description, questions)
}

type jsonQuestion struct {
	ID           string         `json:"id"`
	IDUpper      string         `json:"ID"`
	Input        string         `json:"input"`
	Question     string         `json:"question"`
	Text         string         `json:"text"`
	TargetScores map[string]int `json:"target_scores"`
	Answer       any            `json:"answer"`
	Category     string         `json:"category"`
	Level        string         `json:"level"`
	Type         string         `json:"type"`
}

func parseJSONQuestion(raw json.RawMessage) (Question, error) {
	var rec jsonQuestion
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Question{}, fmt.Errorf("parse question: %w", err)
	}

	text := strings.TrimSpace(rec.Input)
	if text == "" {
		text = strings.TrimSpace(rec.Question)
	}
	if text == "" {
		text = strings.TrimSpace(rec.Text)
	}

	expected, err := expectedFromRecord(rec)
	if err != nil {
		return Question{}, err
	}

	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = strings.TrimSpace(rec.IDUpper)
	}

	return Question{
		ID:       id,
		Text:     text,
		Expected: expected,
		Category: rec.Category,
		Level:    rec.Level,
		Type:     rec.Type,
	}, nil
}

// expectedFromRecord reads the canonical answer either from a
// target_scores map (letters scored 1) or from a plain answer value.
func expectedFromRecord(rec jsonQuestion) ([]string, error) {
	if len(rec.TargetScores) > 0 {
		letters := make([]string, 0, len(rec.TargetScores))
		for letter, score := range rec.TargetScores {
			letter = strings.ToUpper(strings.TrimSpace(letter))
			if score == 1 && len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'Z' {
				letters = append(letters, letter)
			}
		}
		sort.Strings(letters)
		return letters, nil
	}

	expected, err := answer.Normalize(rec.Answer)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	return expected, nil
}

// FromTable builds a benchmark from flat records. ID, Question, and Answer
// columns are required; Category falls back to the letter prefix of the id
// ("BK-001" belongs to "BK") when no category column exists. Rows with an
// empty answer cell are skipped.
func FromTable(t *tabular.Table, name string, cols Columns) (*Benchmark, error) {
	if t == nil {
		return nil, errors.New("benchmark: nil table")
	}
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}

	answerIdx := t.ColumnIndex(cols.Answer)
	if answerIdx < 0 {
		return nil, fmt.Errorf("benchmark: column %q not found (have %s)", cols.Answer, strings.Join(t.Header, ", "))
	}
	questionIdx := t.ColumnIndex(cols.Question)
	if questionIdx < 0 {
		return nil, fmt.Errorf("benchmark: column %q not found (have %s)", cols.Question, strings.Join(t.Header, ", "))
	}
	idIdx := t.ColumnIndex(cols.ID)
	categoryIdx := t.ColumnIndex(cols.Category)
	levelIdx := t.ColumnIndex(cols.Level)
	typeIdx := t.ColumnIndex(cols.Type)

	questions := make([]Question, 0, len(t.Rows))
	for _, row := range t.Rows {
		answerStr := t.Cell(row, answerIdx)
		if answerStr == "" {
			continue
		}

		id := t.Cell(row, idIdx)
		category := t.Cell(row, categoryIdx)
		if category == "" && id != "" {
			category = idPrefixPattern.FindString(id)
		}

		questions = append(questions, Question{
			ID:       id,
			Text:     t.Cell(row, questionIdx),
			Expected: answer.Letters(answerStr),
			Category: category,
			Level:    t.Cell(row, levelIdx),
			Type:     t.Cell(row, typeIdx),
		})
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("benchmark: no valid questions in %q", name)
	}
	return New(name, "", questions)
}
