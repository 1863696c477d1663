package store

import (
	"context"
	"testing"
	"time"

	"github.com/hydroworks/hydrobench/internal/scorer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRun(model string, correct, count int, at time.Time) *RunRecord {
	stats := scorer.Statistics{
		Overall: scorer.Group{Count: count, Correct: correct, Accuracy: float64(correct) / float64(count)},
		ByCategory: map[string]scorer.Group{
			"BK": {Count: count, Correct: correct, Accuracy: float64(correct) / float64(count)},
		},
	}
	return &RunRecord{
		Model:     model,
		Provider:  "claude",
		Benchmark: "hydrobench",
		Count:     count,
		Correct:   correct,
		Accuracy:  stats.Overall.Accuracy,
		Stats:     stats,
		CreatedAt: at,
	}
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRun("model-a", 3, 4, time.Time{})
	if err := s.SaveRun(ctx, rec); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("id not assigned")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("created_at not assigned")
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs: got %d want 1", len(runs))
	}
	got := runs[0]
	if got.Model != "model-a" || got.Correct != 3 || got.Count != 4 {
		t.Fatalf("run: %+v", got)
	}
	bk := got.Stats.ByCategory["BK"]
	if bk.Count != 4 || bk.Correct != 3 {
		t.Fatalf("stats round trip: %+v", bk)
	}
}

func TestSaveRun_Validation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, nil); err == nil {
		t.Fatal("nil run accepted")
	}
	if err := s.SaveRun(ctx, &RunRecord{Model: "", Benchmark: "hb"}); err == nil {
		t.Fatal("empty model accepted")
	}
	if err := s.SaveRun(nil, testRun("m", 1, 2, time.Time{})); err == nil {
		t.Fatal("nil context accepted")
	}
}

func TestLeaderboard_BestPerModel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// model-a improves over two runs; model-b has one run in between.
	for _, rec := range []*RunRecord{
		testRun("model-a", 2, 4, base),
		testRun("model-b", 3, 4, base.Add(time.Hour)),
		testRun("model-a", 4, 4, base.Add(2*time.Hour)),
	} {
		if err := s.SaveRun(ctx, rec); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	entries, err := s.Leaderboard(ctx, "hydrobench", 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d want 2", len(entries))
	}
	if entries[0].Model != "model-a" || entries[0].Accuracy != 1.0 {
		t.Fatalf("top entry: %+v", entries[0])
	}
	if entries[1].Model != "model-b" {
		t.Fatalf("second entry: %+v", entries[1])
	}
}

func TestModelHistory_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, correct := range []int{1, 2, 3} {
		rec := testRun("model-a", correct, 4, base.Add(time.Duration(i)*time.Hour))
		if err := s.SaveRun(ctx, rec); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	if err := s.SaveRun(ctx, testRun("model-b", 4, 4, base)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	hist, err := s.ModelHistory(ctx, "model-a", "hydrobench")
	if err != nil {
		t.Fatalf("ModelHistory: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("history: got %d want 3", len(hist))
	}
	if hist[0].Correct != 3 || hist[2].Correct != 1 {
		t.Fatalf("history order: %+v", hist)
	}
}

func TestSaveReport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rep := &scorer.Report{
		Benchmark: "hydrobench",
		Stats: scorer.Statistics{
			Overall: scorer.Group{Count: 4, Correct: 2, Accuracy: 0.5},
			Missing: 1,
		},
	}
	rec, err := s.SaveReport(ctx, "model-a", "openai", rep)
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if rec.Accuracy != 0.5 || rec.Missing != 1 || rec.Provider != "openai" {
		t.Fatalf("record: %+v", rec)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("empty path accepted")
	}
}
