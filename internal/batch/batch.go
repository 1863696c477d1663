// Package batch evaluates several models' predictions against one
// benchmark and builds a cross-model comparison.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/scorer"
	"github.com/hydroworks/hydrobench/internal/tabular"
)

// Column is one model's prediction source: any payload shape the scorer
// accepts.
type Column struct {
	Model       string
	Predictions any
}

// ModelResult pairs a model with its evaluation. Err carries the parse
// failure when the model's prediction column was malformed; its report
// is then fully degraded (every question missing) but still present.
type ModelResult struct {
	Model  string         `json:"model"`
	Report *scorer.Report `json:"report"`
	Err    string         `json:"error,omitempty"`
}

// Summary is the outcome of a batch run: per-model results in input
// order and a comparison table sorted by descending overall accuracy.
type Summary struct {
	Results    []ModelResult
	Comparison *tabular.Table
}

// EvaluateAll scores every column independently. A malformed column
// degrades that model's report only; other models are unaffected.
func EvaluateAll(b *benchmark.Benchmark, columns []Column) (*Summary, error) {
	if b == nil {
		return nil, errors.New("batch: nil benchmark")
	}
	if len(columns) == 0 {
		return nil, errors.New("batch: no prediction columns")
	}

	results := make([]ModelResult, 0, len(columns))
	for _, col := range columns {
		mr := ModelResult{Model: col.Model}

		preds, err := scorer.ParsePredictions(col.Predictions)
		if err != nil {
			mr.Err = err.Error()
			preds = nil
		}

		rep, err := scorer.Score(b, preds)
		if err != nil {
			return nil, err
		}
		rep.Model = col.Model
		mr.Report = rep
		results = append(results, mr)
	}

	return &Summary{
		Results:    results,
		Comparison: comparisonTable(results),
	}, nil
}

// comparisonTable builds one row per model: overall accuracy plus the
// per-category, per-level, and per-type breakdowns. Rows are sorted by
// descending overall accuracy; ties keep input order.
func comparisonTable(results []ModelResult) *tabular.Table {
	catCols := unionKeys(results, func(s scorer.Statistics) map[string]scorer.Group { return s.ByCategory })
	levelCols := unionKeys(results, func(s scorer.Statistics) map[string]scorer.Group { return s.ByLevel })
	typeCols := unionKeys(results, func(s scorer.Statistics) map[string]scorer.Group { return s.ByType })

	header := []string{"Model", "Correct", "Count", "Accuracy"}
	for _, c := range catCols {
		header = append(header, "Category: "+c)
	}
	for _, l := range levelCols {
		header = append(header, "Level: "+l)
	}
	for _, ty := range typeCols {
		header = append(header, "Type: "+ty)
	}

	ordered := make([]ModelResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Report.Stats.Overall.Accuracy > ordered[j].Report.Stats.Overall.Accuracy
	})

	t := &tabular.Table{Header: header, Rows: make([][]string, 0, len(ordered))}
	for _, mr := range ordered {
		s := mr.Report.Stats
		row := []string{
			mr.Model,
			strconv.Itoa(s.Overall.Correct),
			strconv.Itoa(s.Overall.Count),
			percent(s.Overall.Accuracy),
		}
		row = appendGroups(row, s.ByCategory, catCols)
		row = appendGroups(row, s.ByLevel, levelCols)
		row = appendGroups(row, s.ByType, typeCols)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func unionKeys(results []ModelResult, pick func(scorer.Statistics) map[string]scorer.Group) []string {
	seen := make(map[string]struct{})
	for _, mr := range results {
		for k := range pick(mr.Report.Stats) {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendGroups(row []string, groups map[string]scorer.Group, cols []string) []string {
	for _, c := range cols {
		g, ok := groups[c]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, percent(g.Accuracy))
	}
	return row
}

// standardColumns are benchmark columns, never model prediction columns.
var standardColumns = map[string]struct{}{
	"id":             {},
	"question":       {},
	"answer":         {},
	"correct answer": {},
	"expected":       {},
	"category":       {},
	"level":          {},
	"type":           {},
}

// IdentifyModelColumns finds the prediction columns of a multi-model
// table: every column that is neither a benchmark column nor a token or
// cost accounting column.
func IdentifyModelColumns(t *tabular.Table) []string {
	if t == nil {
		return nil
	}
	var models []string
	for _, h := range t.Header {
		name := strings.TrimSpace(h)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := standardColumns[key]; ok {
			continue
		}
		if strings.Contains(key, "token") || strings.Contains(key, "cost") {
			continue
		}
		models = append(models, name)
	}
	return models
}

// ColumnsFromTable extracts one prediction Column per model column of a
// table, keyed by question id. idColumn overrides the id column name;
// empty means the conventional "ID" column.
func ColumnsFromTable(t *tabular.Table, idColumn string) ([]Column, error) {
	if t == nil {
		return nil, errors.New("batch: nil table")
	}
	idColumn = strings.TrimSpace(idColumn)
	if idColumn == "" {
		idColumn = scorer.DefaultIDColumn
	}
	idCol := t.ColumnIndex(idColumn)
	if idCol < 0 {
		return nil, fmt.Errorf("batch: table has no %q column", idColumn)
	}

	models := IdentifyModelColumns(t)

	columns := make([]Column, 0, len(models))
	for _, model := range models {
		col := t.ColumnIndex(model)
		if col == idCol {
			continue
		}
		byID := make(map[string]any, len(t.Rows))
		for _, row := range t.Rows {
			id := t.Cell(row, idCol)
			if id == "" {
				continue
			}
			byID[id] = t.Cell(row, col)
		}
		columns = append(columns, Column{Model: model, Predictions: byID})
	}
	if len(columns) == 0 {
		return nil, errors.New("batch: no model columns found")
	}
	return columns, nil
}

// ColumnsFromJSON reads a prediction-columns object: model name to
// prediction payload. Models are ordered by name since JSON objects
// carry no order.
func ColumnsFromJSON(data []byte) ([]Column, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("batch: parse columns: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("batch: no prediction columns")
	}

	models := make([]string, 0, len(raw))
	for model := range raw {
		models = append(models, model)
	}
	sort.Strings(models)

	columns := make([]Column, 0, len(models))
	for _, model := range models {
		var payload any
		if err := json.Unmarshal(raw[model], &payload); err != nil {
			return nil, fmt.Errorf("batch: parse column %q: %w", model, err)
		}
		columns = append(columns, Column{Model: model, Predictions: payload})
	}
	return columns, nil
}

func percent(a float64) string {
	return strconv.FormatFloat(a*100, 'f', 2, 64) + "%"
}
