package scorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hydroworks/hydrobench/internal/tabular"
)

// ErrInvalidPredictions is returned when a prediction payload has a shape
// that cannot be interpreted at all. Per-answer problems inside a valid
// payload never trigger it; those degrade to incorrect items.
var ErrInvalidPredictions = errors.New("scorer: invalid predictions")

// Predictions holds model answers either keyed by question id or as a
// positional sequence aligned with the benchmark's question order.
type Predictions struct {
	byID       map[string]any
	sequence   []any
	positional bool
}

// ParsePredictions interprets a decoded prediction payload. Accepted shapes:
//
//   - map of question id to answer value
//   - list of objects carrying an "id" (or "ID") field and an "answer"
//     (or "prediction"/"output") field
//   - bare list of answer values, matched to questions by position
//
// nil is accepted and yields an empty set, which scores every question
// as missing.
func ParsePredictions(raw any) (*Predictions, error) {
	switch v := raw.(type) {
	case nil:
		return &Predictions{byID: map[string]any{}}, nil
	case map[string]any:
		byID := make(map[string]any, len(v))
		for id, val := range v {
			byID[strings.TrimSpace(id)] = val
		}
		return &Predictions{byID: byID}, nil
	case []any:
		if byID, ok := parseObjectList(v); ok {
			return &Predictions{byID: byID}, nil
		}
		return &Predictions{sequence: v, positional: true}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrInvalidPredictions, raw)
	}
}

// parseObjectList detects the list-of-objects shape. It only claims the
// list when every element is an object with an id; mixed lists fall back
// to positional interpretation.
func parseObjectList(items []any) (map[string]any, bool) {
	byID := make(map[string]any, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		id, ok := objectID(obj)
		if !ok {
			return nil, false
		}
		byID[id] = objectAnswer(obj)
	}
	return byID, true
}

func objectID(obj map[string]any) (string, bool) {
	for _, key := range []string{"id", "ID", "Id"} {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), true
			}
		}
	}
	return "", false
}

func objectAnswer(obj map[string]any) any {
	for _, key := range []string{"answer", "Answer", "prediction", "output"} {
		if v, ok := obj[key]; ok {
			return v
		}
	}
	return nil
}

// Len reports how many predictions the set carries.
func (p *Predictions) Len() int {
	if p == nil {
		return 0
	}
	if p.positional {
		return len(p.sequence)
	}
	return len(p.byID)
}

// lookup returns the raw value for the question at index idx with id.
// The second return is false when no prediction exists for it.
func (p *Predictions) lookup(id string, idx int) (any, bool) {
	if p == nil {
		return nil, false
	}
	if p.positional {
		if idx < 0 || idx >= len(p.sequence) {
			return nil, false
		}
		return p.sequence[idx], true
	}
	v, ok := p.byID[id]
	return v, ok
}

// DefaultIDColumn is the conventional id column of tabular prediction
// files.
const DefaultIDColumn = "ID"

// LoadFile reads a prediction file. JSON files may use any of the shapes
// ParsePredictions accepts; CSV and XLSX files are read through FromTable
// with the given column names.
func LoadFile(path, idColumn, answerColumn string) (*Predictions, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("scorer: empty predictions path")
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scorer: read %q: %w", path, err)
		}
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("scorer: parse %q: %w", path, err)
		}
		return ParsePredictions(raw)
	}

	t, err := tabular.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scorer: read %q: %w", path, err)
	}
	return FromTable(t, idColumn, answerColumn)
}

// FromTable extracts predictions from one column of a table. idColumn
// names the question id column; an empty idColumn disables id matching
// and the rows are taken in order as a positional sequence. When
// answerColumn is empty a conventional answer column is used instead
// (Answer, Model Answer, Prediction, then the first remaining column).
func FromTable(t *tabular.Table, idColumn, answerColumn string) (*Predictions, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidPredictions)
	}

	idCol := -1
	if idColumn = strings.TrimSpace(idColumn); idColumn != "" {
		idCol = t.ColumnIndex(idColumn)
		if idCol < 0 {
			return nil, fmt.Errorf("%w: table has no %q column", ErrInvalidPredictions, idColumn)
		}
	}

	ansCol, err := answerColumnIndex(t, answerColumn, idCol)
	if err != nil {
		return nil, err
	}

	if idCol < 0 {
		sequence := make([]any, 0, len(t.Rows))
		for _, row := range t.Rows {
			sequence = append(sequence, t.Cell(row, ansCol))
		}
		return &Predictions{sequence: sequence, positional: true}, nil
	}

	byID := make(map[string]any, len(t.Rows))
	for _, row := range t.Rows {
		id := t.Cell(row, idCol)
		if id == "" {
			continue
		}
		byID[id] = t.Cell(row, ansCol)
	}
	return &Predictions{byID: byID}, nil
}

func answerColumnIndex(t *tabular.Table, answerColumn string, idCol int) (int, error) {
	if answerColumn = strings.TrimSpace(answerColumn); answerColumn != "" {
		if col := t.ColumnIndex(answerColumn); col >= 0 {
			return col, nil
		}
		return -1, fmt.Errorf("%w: table has no %q column", ErrInvalidPredictions, answerColumn)
	}

	for _, name := range []string{"Answer", "Model Answer", "Prediction"} {
		if col := t.ColumnIndex(name); col >= 0 {
			return col, nil
		}
	}
	for i := range t.Header {
		if i != idCol {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: table has no answer column", ErrInvalidPredictions)
}
