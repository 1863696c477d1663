package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/hydroworks/hydrobench/internal/batch"
	"github.com/hydroworks/hydrobench/internal/scorer"
	"github.com/hydroworks/hydrobench/internal/store"
)

func printReportSummary(w io.Writer, rep *scorer.Report) {
	if rep == nil {
		return
	}

	o := rep.Stats.Overall
	if rep.Model != "" {
		fmt.Fprintf(w, "Model: %s\n", rep.Model)
	}
	fmt.Fprintf(w, "Benchmark: %s\n", rep.Benchmark)
	fmt.Fprintf(w, "Score: %d/%d (%.2f%%), %d unanswered\n\n", o.Correct, o.Count, o.Accuracy*100, rep.Stats.Missing)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tCOUNT\tCORRECT\tACCURACY")
	printGroups(tw, "category", rep.Stats.ByCategory)
	printGroups(tw, "level", rep.Stats.ByLevel)
	printGroups(tw, "type", rep.Stats.ByType)
	_ = tw.Flush()
}

func printGroups(w io.Writer, axis string, groups map[string]scorer.Group) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := groups[name]
		fmt.Fprintf(w, "%s: %s\t%d\t%d\t%.2f%%\n", axis, name, g.Count, g.Correct, g.Accuracy*100)
	}
}

func printComparison(w io.Writer, sum *batch.Summary) {
	if sum == nil || sum.Comparison == nil {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	printRow(tw, sum.Comparison.Header)
	for _, row := range sum.Comparison.Rows {
		printRow(tw, row)
	}
	_ = tw.Flush()

	for _, mr := range sum.Results {
		if mr.Err != "" {
			fmt.Fprintf(w, "\nwarning: %s predictions were malformed: %s\n", mr.Model, mr.Err)
		}
	}
}

func printRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

func printRuns(w io.Writer, runs []store.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no recorded runs")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tPROVIDER\tBENCHMARK\tCORRECT\tCOUNT\tACCURACY\tDATE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f%%\t%s\n",
			r.Model, r.Provider, r.Benchmark, r.Correct, r.Count, r.Accuracy*100,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}
