package benchmark

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/hydroworks/hydrobench/internal/tabular"
)

func tableOf(t *testing.T, header []string, rows [][]string) *tabular.Table {
	t.Helper()
	return &tabular.Table{Header: header, Rows: rows}
}

func sampleSource(t *testing.T) *Benchmark {
	t.Helper()
	var qs []Question
	for _, cat := range []string{"BK", "EA", "RC"} {
		for i := 1; i <= 10; i++ {
			qs = append(qs, Question{
				ID:       fmt.Sprintf("%s-%03d", cat, i),
				Text:     "q",
				Expected: []string{"A"},
				Category: cat,
			})
		}
	}
	b, err := New("hb", "", qs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestSampleByCategory_Deterministic(t *testing.T) {
	b := sampleSource(t)

	s1, err := b.SampleByCategory(5, 42)
	if err != nil {
		t.Fatalf("SampleByCategory: %v", err)
	}
	s2, err := b.SampleByCategory(5, 42)
	if err != nil {
		t.Fatalf("SampleByCategory: %v", err)
	}

	if !reflect.DeepEqual(idsOf(s1), idsOf(s2)) {
		t.Fatalf("same seed differs: %v vs %v", idsOf(s1), idsOf(s2))
	}
	if s1.Len() != 15 {
		t.Fatalf("len: got %d want 15", s1.Len())
	}
}

func TestSampleByCategory_PreservesSourceOrder(t *testing.T) {
	b := sampleSource(t)

	s, err := b.SampleByCategory(3, 7)
	if err != nil {
		t.Fatalf("SampleByCategory: %v", err)
	}

	pos := make(map[string]int, b.Len())
	for i, q := range b.Questions() {
		pos[q.ID] = i
	}
	last := -1
	for _, q := range s.Questions() {
		if pos[q.ID] < last {
			t.Fatalf("sample out of source order at %s", q.ID)
		}
		last = pos[q.ID]
	}
}

func TestSampleByCategory_SmallCategory(t *testing.T) {
	b, err := New("hb", "", []Question{
		{ID: "BK-1", Expected: []string{"A"}, Category: "BK"},
		{ID: "EA-1", Expected: []string{"A"}, Category: "EA"},
		{ID: "EA-2", Expected: []string{"B"}, Category: "EA"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s, err := b.SampleByCategory(5, 1)
	if err != nil {
		t.Fatalf("SampleByCategory: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len: got %d want all 3", s.Len())
	}
	if b.Len() != 3 {
		t.Fatalf("source mutated: len %d", b.Len())
	}
}

func TestSampleByCategory_Invalid(t *testing.T) {
	b := sampleSource(t)
	if _, err := b.SampleByCategory(0, 1); err == nil {
		t.Fatal("per=0 accepted")
	}
}

func idsOf(b *Benchmark) []string {
	out := make([]string, 0, b.Len())
	for _, q := range b.Questions() {
		out = append(out, q.ID)
	}
	return out
}
