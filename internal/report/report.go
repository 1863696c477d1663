// Package report serializes evaluation reports into JSON, CSV, XLSX,
// and Markdown files.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hydroworks/hydrobench/internal/scorer"
	"github.com/hydroworks/hydrobench/internal/tabular"
)

// Recognized output formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
	FormatMarkdown = "markdown"
)

var detailHeader = []string{"ID", "Question", "Category", "Level", "Type", "Expected", "Predicted", "Is Correct"}

// Write exports a report to path. An empty format is inferred from the
// file extension.
func Write(rep *scorer.Report, path, format string) error {
	if rep == nil {
		return errors.New("report: nil report")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("report: empty output path")
	}

	format, err := ResolveFormat(path, format)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return writeJSON(rep, path)
	case FormatCSV:
		return tabular.WriteFile(detailTable(rep, true), path)
	case FormatXLSX:
		return writeXLSX(rep, path)
	case FormatMarkdown:
		return writeMarkdown(rep, path)
	}
	return fmt.Errorf("report: unsupported format %q", format)
}

// ResolveFormat picks the output format: the explicit one when given,
// otherwise by file extension.
func ResolveFormat(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatJSON, FormatCSV, FormatXLSX, FormatMarkdown:
		return format, nil
	case "md":
		return FormatMarkdown, nil
	case "":
	default:
		return "", fmt.Errorf("report: unknown format %q", format)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("report: cannot infer format from %q", path)
}

func writeJSON(rep *scorer.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}
	return nil
}

// detailTable renders the per-question rows. Summary rows for the
// overall tally are appended when summarize is set.
func detailTable(rep *scorer.Report, summarize bool) *tabular.Table {
	t := &tabular.Table{
		Header: detailHeader,
		Rows:   make([][]string, 0, len(rep.Results)+3),
	}
	for _, r := range rep.Results {
		t.Rows = append(t.Rows, []string{
			r.ID,
			r.Question,
			r.Category,
			r.Level,
			r.Type,
			strings.Join(r.Expected, ","),
			strings.Join(r.Predicted, ","),
			strconv.FormatBool(r.Correct),
		})
	}
	if summarize {
		o := rep.Stats.Overall
		t.Rows = append(t.Rows,
			[]string{},
			[]string{"Total", "", "", "", "", "", "", fmt.Sprintf("%d/%d", o.Correct, o.Count)},
			[]string{"Accuracy", "", "", "", "", "", "", formatAccuracy(o.Accuracy)},
		)
	}
	return t
}

func groupTable(label string, groups map[string]scorer.Group) ([]string, [][]string) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		g := groups[name]
		rows = append(rows, []string{
			name,
			strconv.Itoa(g.Count),
			strconv.Itoa(g.Correct),
			formatAccuracy(g.Accuracy),
		})
	}
	return []string{label, "Count", "Correct", "Accuracy"}, rows
}

func writeXLSX(rep *scorer.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Detail"); err != nil {
		return fmt.Errorf("report: rename sheet: %w", err)
	}
	detail := detailTable(rep, false)
	if err := tabular.WriteSheet(f, "Detail", detail.Header, detail.Rows); err != nil {
		return err
	}

	sheets := []struct {
		name   string
		label  string
		groups map[string]scorer.Group
	}{
		{"By Category", "Category", rep.Stats.ByCategory},
		{"By Level", "Level", rep.Stats.ByLevel},
		{"By Type", "Type", rep.Stats.ByType},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("report: sheet %q: %w", s.name, err)
		}
		header, rows := groupTable(s.label, s.groups)
		if err := tabular.WriteSheet(f, s.name, header, rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %q: %w", path, err)
	}
	return nil
}

func writeMarkdown(rep *scorer.Report, path string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Evaluation Report: %s\n\n", rep.Benchmark)
	if rep.Model != "" {
		fmt.Fprintf(&sb, "Model: %s\n\n", rep.Model)
	}

	t := detailTable(rep, false)
	sb.WriteString("| " + strings.Join(t.Header, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(t.Header)) + "\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = markdownEscape(c)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	o := rep.Stats.Overall
	fmt.Fprintf(&sb, "\n**Accuracy: %d/%d (%s)**\n", o.Correct, o.Count, formatAccuracy(o.Accuracy))

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}
	return nil
}

func markdownEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func formatAccuracy(a float64) string {
	return fmt.Sprintf("%.2f%%", a*100)
}
