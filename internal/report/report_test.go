package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hydroworks/hydrobench/internal/benchmark"
	"github.com/hydroworks/hydrobench/internal/scorer"
	"github.com/hydroworks/hydrobench/internal/tabular"
)

func testReport(t *testing.T) *scorer.Report {
	t.Helper()
	b, err := benchmark.New("hb", "", []benchmark.Question{
		{ID: "BK-1", Text: "q1", Expected: []string{"C"}, Category: "BK", Level: "basic"},
		{ID: "BK-2", Text: "q2", Expected: []string{"A", "B"}, Category: "BK", Level: "basic"},
		{ID: "EA-1", Text: "q3", Expected: []string{"D"}, Category: "EA", Level: "applied"},
	})
	if err != nil {
		t.Fatalf("benchmark.New: %v", err)
	}
	preds, err := scorer.ParsePredictions(map[string]any{
		"BK-1": "C",
		"BK-2": "A",
	})
	if err != nil {
		t.Fatalf("ParsePredictions: %v", err)
	}
	rep, err := scorer.Score(b, preds)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	return rep
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	rep := testReport(t)
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Write(rep, path, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got scorer.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Results) != 3 {
		t.Fatalf("scores: got %d want 3", len(got.Results))
	}
	if !got.Results[0].Correct || got.Results[1].Correct {
		t.Fatalf("is_correct lost: %+v", got.Results[:2])
	}
	if got.Stats.Overall.Count != 3 || got.Stats.Overall.Correct != 1 {
		t.Fatalf("statistics: %+v", got.Stats.Overall)
	}
}

func TestWriteCSV(t *testing.T) {
	rep := testReport(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := Write(rep, path, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}

	tab, err := tabular.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(tab.Header, detailHeader) {
		t.Fatalf("header: %v", tab.Header)
	}
	// 3 detail rows plus Total and Accuracy summary rows.
	if len(tab.Rows) != 5 {
		t.Fatalf("rows: got %d want 5", len(tab.Rows))
	}
	if tab.Rows[0][0] != "BK-1" || tab.Rows[0][7] != "true" {
		t.Fatalf("detail row: %v", tab.Rows[0])
	}
	if tab.Rows[3][0] != "Total" || tab.Rows[3][7] != "1/3" {
		t.Fatalf("total row: %v", tab.Rows[3])
	}
	if tab.Rows[4][0] != "Accuracy" {
		t.Fatalf("accuracy row: %v", tab.Rows[4])
	}
}

func TestWriteXLSX_Sheets(t *testing.T) {
	rep := testReport(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := Write(rep, path, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	want := []string{"Detail", "By Category", "By Level", "By Type"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets: got %v want %v", got, want)
	}

	rows, err := f.GetRows("By Category")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header plus BK and EA groups, sorted.
	if len(rows) != 3 || rows[1][0] != "BK" || rows[2][0] != "EA" {
		t.Fatalf("by category: %v", rows)
	}
	if rows[1][1] != "2" || rows[1][2] != "1" {
		t.Fatalf("BK group row: %v", rows[1])
	}
}

func TestWriteMarkdown(t *testing.T) {
	rep := testReport(t)
	path := filepath.Join(t.TempDir(), "out.md")
	if err := Write(rep, path, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "| ID | Question |") {
		t.Fatalf("missing table header:\n%s", text)
	}
	if !strings.Contains(text, "| BK-1 |") {
		t.Fatal("missing detail row")
	}
	if !strings.Contains(text, "Accuracy: 1/3 (33.33%)") {
		t.Fatalf("missing accuracy line:\n%s", text)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		path, format string
		want         string
		wantErr      bool
	}{
		{"out.json", "", FormatJSON, false},
		{"out.csv", "", FormatCSV, false},
		{"out.xlsx", "", FormatXLSX, false},
		{"out.md", "", FormatMarkdown, false},
		{"out.markdown", "", FormatMarkdown, false},
		{"out.dat", "json", FormatJSON, false},
		{"out.json", "md", FormatMarkdown, false},
		{"out.dat", "", "", true},
		{"out.json", "yaml", "", true},
	}
	for _, tc := range tests {
		got, err := ResolveFormat(tc.path, tc.format)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ResolveFormat(%q, %q): want error", tc.path, tc.format)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ResolveFormat(%q, %q) = %q, %v; want %q", tc.path, tc.format, got, err, tc.want)
		}
	}
}
