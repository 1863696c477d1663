package scorer

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/tabular"
)

func testBenchmark(t *testing.T) *benchmark.Benchmark {
	t.Helper()
	b, err := benchmark.New("hb", "", []benchmark.Question{
		{ID: "BK-1", Text: "q1", Expected: []string{"C"}, Category: "BK", Level: "basic"},
		{ID: "BK-2", Text: "q2", Expected: []string{"A", "B"}, Category: "BK", Level: "basic"},
		{ID: "EA-1", Text: "q3", Expected: []string{"D"}, Category: "EA", Level: "applied"},
		{ID: "EA-2", Text: "q4", Expected: []string{"A", "C"}, Category: "EA", Level: "applied"},
	})
	if err != nil {
		t.Fatalf("benchmark.New: %v", err)
	}
	return b
}

func TestScore_MapPredictions(t *testing.T) {
	b := testBenchmark(t)
	preds, err := ParsePredictions(map[string]any{
		"BK-1": "C",
		"BK-2": "B,A", // order must not matter
		"EA-1": "A",   // wrong
		"EA-2": "A",   // partial match is incorrect
	})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}

	rep, err := Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(rep.Results) != 4 {
		t.Fatalf("results: got %d want 4", len(rep.Results))
	}

	want := map[string]bool{"BK-1": true, "BK-2": true, "EA-1": false, "EA-2": false}
	for _, r := range rep.Results {
		if r.Correct != want[r.ID] {
			t.Errorf("%s: correct = %v, want %v", r.ID, r.Correct, want[r.ID])
		}
		if r.Missing {
			t.Errorf("%s: unexpectedly missing", r.ID)
		}
	}
	if got := rep.Stats.Overall.Accuracy; got != 0.5 {
		t.Fatalf("overall accuracy: got %v want 0.5", got)
	}
}

func TestScore_BenchmarkOrder(t *testing.T) {
	b := testBenchmark(t)
	preds, err := ParsePredictions(map[string]any{"EA-2": "A,C", "BK-1": "C"})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}

	rep, err := Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	got := make([]string, 0, len(rep.Results))
	for _, r := range rep.Results {
		got = append(got, r.ID)
	}
	if !reflect.DeepEqual(got, []string{"BK-1", "BK-2", "EA-1", "EA-2"}) {
		t.Fatalf("order: %v", got)
	}
}

func TestScore_MissingPrediction(t *testing.T) {
	b := testBenchmark(t)
	preds, err := ParsePredictions(map[string]any{"BK-1": "C"})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}

	rep, err := Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for _, r := range rep.Results[1:] {
		if !r.Missing || r.Correct || len(r.Predicted) != 0 {
			t.Fatalf("%s: missing=%v correct=%v predicted=%v", r.ID, r.Missing, r.Correct, r.Predicted)
		}
	}
	if rep.Stats.Missing != 3 {
		t.Fatalf("missing count: got %d want 3", rep.Stats.Missing)
	}
}

func TestScore_PositionalPredictions(t *testing.T) {
	b := testBenchmark(t)
	preds, err := ParsePredictions([]any{"C", "AB", "D"})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}

	rep, err := Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !rep.Results[0].Correct || !rep.Results[1].Correct || !rep.Results[2].Correct {
		t.Fatalf("positional scoring: %+v", rep.Results[:3])
	}
	if !rep.Results[3].Missing {
		t.Fatal("question past sequence end should be missing")
	}
}

func TestScore_ObjectListPredictions(t *testing.T) {
	b := testBenchmark(t)
	preds, err := ParsePredictions([]any{
		map[string]any{"id": "BK-1", "answer": "C"},
		map[string]any{"id": "EA-1", "answer": []any{"D"}},
	})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}

	rep, err := Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !rep.Results[0].Correct {
		t.Fatal("BK-1 should be correct")
	}
	if !rep.Results[2].Correct {
		t.Fatal("EA-1 should be correct")
	}
	if !rep.Results[1].Missing {
		t.Fatal("BK-2 should be missing")
	}
}

func TestScore_BadValueDegrades(t *testing.T) {
	b := testBenchmark(t)
	preds, err := ParsePredictions(map[string]any{
		"BK-1": "C",
		"BK-2": 42.0, // not a valid answer value
	})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}

	rep, err := Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !rep.Results[0].Correct {
		t.Fatal("valid item must still score")
	}
	r := rep.Results[1]
	if r.Correct || r.Missing || len(r.Predicted) != 0 {
		t.Fatalf("bad value: %+v", r)
	}
}

func TestParsePredictions_Invalid(t *testing.T) {
	if _, err := ParsePredictions("not a payload"); !errors.Is(err, ErrInvalidPredictions) {
		t.Fatalf("got %v, want ErrInvalidPredictions", err)
	}
	if _, err := ParsePredictions(7); !errors.Is(err, ErrInvalidPredictions) {
		t.Fatalf("got %v, want ErrInvalidPredictions", err)
	}
}

func TestParsePredictions_Nil(t *testing.T) {
	preds, err := ParsePredictions(nil)
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}
	rep, err := Score(testBenchmark(t), preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if rep.Stats.Missing != 4 || rep.Stats.Overall.Correct != 0 {
		t.Fatalf("stats: %+v", rep.Stats)
	}
}

func TestCompute_Groups(t *testing.T) {
	b := testBenchmark(t)
	preds, err := ParsePredictions(map[string]any{
		"BK-1": "C", "BK-2": "A,B", "EA-1": "A", "EA-2": "B",
	})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}
	rep, err := Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	bk := rep.Stats.ByCategory["BK"]
	if bk.Count != 2 || bk.Correct != 2 || bk.Accuracy != 1.0 {
		t.Fatalf("BK group: %+v", bk)
	}
	ea := rep.Stats.ByCategory["EA"]
	if ea.Count != 2 || ea.Correct != 0 || ea.Accuracy != 0 {
		t.Fatalf("EA group: %+v", ea)
	}
	single := rep.Stats.ByType[benchmark.TypeSingle]
	if single.Count != 2 || single.Correct != 1 {
		t.Fatalf("single group: %+v", single)
	}
	if math.Abs(single.Accuracy-0.5) > 1e-9 {
		t.Fatalf("single accuracy: %v", single.Accuracy)
	}
	basic := rep.Stats.ByLevel["basic"]
	if basic.Count != 2 || basic.Correct != 2 {
		t.Fatalf("basic group: %+v", basic)
	}
}

func TestFromTable(t *testing.T) {
	tab := &tabular.Table{
		Header: []string{"ID", "Model Answer"},
		Rows: [][]string{
			{"BK-1", "C"},
			{"BK-2", "A;B"},
		},
	}
	preds, err := FromTable(tab, DefaultIDColumn, "")
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	rep, err := Score(testBenchmark(t), preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !rep.Results[0].Correct || !rep.Results[1].Correct {
		t.Fatalf("table predictions: %+v", rep.Results[:2])
	}
}

func TestFromTable_NamedColumn(t *testing.T) {
	tab := &tabular.Table{
		Header: []string{"ID", "gpt-4", "claude-3"},
		Rows:   [][]string{{"BK-1", "C", "A"}},
	}
	preds, err := FromTable(tab, DefaultIDColumn, "claude-3")
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	rep, err := Score(testBenchmark(t), preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if rep.Results[0].Correct {
		t.Fatal("claude-3 column answer A must be incorrect for BK-1")
	}
	if !reflect.DeepEqual(rep.Results[0].Predicted, []string{"A"}) {
		t.Fatalf("predicted: %v", rep.Results[0].Predicted)
	}
}

func TestFromTable_CustomColumns(t *testing.T) {
	tab := &tabular.Table{
		Header: []string{"question_id", "response"},
		Rows: [][]string{
			{"BK-1", "C"},
			{"BK-2", "A,B"},
		},
	}
	preds, err := FromTable(tab, "question_id", "response")
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	rep, err := Score(testBenchmark(t), preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !rep.Results[0].Correct || !rep.Results[1].Correct {
		t.Fatalf("custom columns: %+v", rep.Results[:2])
	}
}

func TestFromTable_PositionalWithoutIDColumn(t *testing.T) {
	tab := &tabular.Table{
		Header: []string{"Answer"},
		Rows:   [][]string{{"C"}, {"AB"}, {"D"}},
	}
	preds, err := FromTable(tab, "", "")
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	rep, err := Score(testBenchmark(t), preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i, res := range rep.Results[:3] {
		if !res.Correct {
			t.Fatalf("row %d should match by position: %+v", i, res)
		}
	}
}

func TestFromTable_MissingColumns(t *testing.T) {
	tab := &tabular.Table{
		Header: []string{"ID", "Answer"},
		Rows:   [][]string{{"BK-1", "C"}},
	}
	if _, err := FromTable(tab, "question_id", ""); !errors.Is(err, ErrInvalidPredictions) {
		t.Fatalf("missing id column: %v", err)
	}
	if _, err := FromTable(tab, DefaultIDColumn, "response"); !errors.Is(err, ErrInvalidPredictions) {
		t.Fatalf("missing answer column: %v", err)
	}
}
