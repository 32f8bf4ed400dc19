package exporter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"ridelens/internal/dataprocessing"
	"ridelens/internal/stats"
)

// RunSummary is everything the console report presents at the end of a run
type RunSummary struct {
	InputPath string
	Clean     *dataprocessing.CleanReport
	Durations stats.Summary
	Report    *dataprocessing.SummaryReport
}

// PrintRunSummary writes the formatted end-of-run tables: the clean report,
// the duration distribution, and every aggregation.
func PrintRunSummary(w io.Writer, summary RunSummary) {
	fmt.Fprintf(w, "\n=== TRIP DATA CLEANING ===\n")
	fmt.Fprintf(w, "Input file:            %s\n", summary.InputPath)
	fmt.Fprintf(w, "Input rows:            %s\n", formatCount(summary.Clean.InputRows))
	fmt.Fprintf(w, "Rows with missing:     %s\n", formatCount(summary.Clean.RowsWithMissing))
	printMissingByColumn(w, summary.Clean.MissingByColumn)
	fmt.Fprintf(w, "Duplicate rows:        %s (reported, not removed)\n", formatCount(summary.Clean.DuplicateRows))
	fmt.Fprintf(w, "Parse-rejected rows:   %s\n", formatCount(len(summary.Clean.Rejected)))
	fmt.Fprintf(w, "Non-positive durations: %s\n", formatCount(summary.Clean.NonPositiveDurations))
	fmt.Fprintf(w, "Clean rows:            %s\n", formatCount(summary.Clean.OutputRows))

	o := summary.Clean.Outliers
	fmt.Fprintf(w, "\n=== DURATION OUTLIERS (IQR fences, diagnostic only) ===\n")
	fmt.Fprintf(w, "Q1 %.2f  Q3 %.2f  IQR %.2f  fences [%.2f, %.2f]\n", o.Q1, o.Q3, o.IQR, o.LowerFence, o.UpperFence)
	if o.Count > 0 {
		fmt.Fprintf(w, "Flagged: %s rows (min %.2f, max %.2f minutes), kept in the working set\n",
			formatCount(o.Count), o.MinFlagged, o.MaxFlagged)
	} else {
		fmt.Fprintf(w, "Flagged: 0 rows\n")
	}

	d := summary.Durations
	fmt.Fprintf(w, "\n=== RIDE DURATION (minutes) ===\n")
	fmt.Fprintf(w, "count %s  mean %.2f  std %.2f  min %.2f  q1 %.2f  median %.2f  q3 %.2f  max %.2f\n",
		formatCount(d.Count), d.Mean, d.StdDev, d.Min, d.Q1, d.Median, d.Q3, d.Max)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "\n=== RIDES BY RIDER CATEGORY ===\n")
	fmt.Fprintln(tw, "category\trides\tmean duration")
	for _, s := range summary.Report.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", s.Category, formatCount(s.TotalRides), s.MeanDuration)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n=== RIDES BY CATEGORY AND HOUR ===\n")
	fmt.Fprintln(tw, "category\thour\trides\tmean duration")
	for _, s := range summary.Report.ByCategoryHour {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\n", s.Category, s.Hour, formatCount(s.TotalRides), s.MeanDuration)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n=== RIDES BY CATEGORY AND DAY ===\n")
	fmt.Fprintln(tw, "category\tday\trides\tmean duration")
	for _, s := range summary.Report.ByCategoryDay {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", s.Category, s.Day, formatCount(s.TotalRides), s.MeanDuration)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n=== RIDES BY CATEGORY AND SEASON ===\n")
	fmt.Fprintln(tw, "category\tseason\trides\tmean duration")
	for _, s := range summary.Report.ByCategorySeason {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", s.Category, s.Season, formatCount(s.TotalRides), s.MeanDuration)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n=== BIKE TYPE SHARE WITHIN CATEGORY ===\n")
	fmt.Fprintln(tw, "category\tbike type\trides\tpercent")
	for _, s := range summary.Report.BikeTypeShares {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\n", s.Category, s.BikeType, formatCount(s.TotalRides), s.Percent)
	}
	tw.Flush()
}

// printMissingByColumn lists per-column missing counts in column-name order
func printMissingByColumn(w io.Writer, missing map[string]int) {
	names := make([]string, 0, len(missing))
	for name, count := range missing {
		if count > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  missing %-18s %s\n", name+":", formatCount(missing[name]))
	}
}
