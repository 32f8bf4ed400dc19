// Command tripcheck runs the load and clean stages against a trip data CSV
// and prints the data quality report, without writing any artifacts. Useful
// as a pre-flight check before a full trip-report run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"ridelens/internal/config"
	"ridelens/internal/dataprocessing"
	"ridelens/internal/files"
	"ridelens/internal/validation"
)

func main() {
	inputPath := flag.String("input", "", "trip data CSV to check")
	dataDir := flag.String("dir", "", "directory to search for the newest *tripdata*.csv when -input is not given")
	configPath := flag.String("config", "", "path to config.yaml (defaults to the usual locations)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fileValidator := validation.NewFileValidator(logger)

	input, err := resolveInput(fileValidator, cfg, *inputPath, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := fileValidator.ValidateInputFile(input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	table, err := dataprocessing.NewLoader(logger).Load(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.CleanerConfig{
		TimestampLayout: cfg.Input.TimestampLayout,
		ParsePolicy:     dataprocessing.ParsePolicy(cfg.Input.OnParseError),
		IQRMultiplier:   cfg.Analysis.IQRMultiplier,
	})
	_, report, err := cleaner.Clean(ctx, table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(input, report)

	if report.OutputRows == 0 {
		fmt.Println("\nNo usable rows; a trip-report run would produce empty summaries.")
		os.Exit(1)
	}
}

func resolveInput(v *validation.FileValidator, cfg *config.Config, inputFlag, dirFlag string) (string, error) {
	if inputFlag != "" {
		return inputFlag, nil
	}
	if dirFlag == "" && cfg.Input.File != "" {
		return cfg.Input.File, nil
	}

	dir := dirFlag
	if dir == "" {
		paths, err := config.ResolvePaths(cfg.Paths)
		if err != nil {
			return "", err
		}
		dir = paths.DataDir
	}
	if err := v.ValidateInputDirectory(dir, "*.csv"); err != nil {
		return "", err
	}

	found, err := files.NewDiscovery(dir).FindTripDataFiles(".")
	if err != nil {
		return "", err
	}
	newest := files.Newest(found)
	if newest == nil {
		return "", fmt.Errorf("no trip data CSV found in %s; pass -input", dir)
	}
	return newest.Path, nil
}

func printReport(input string, report *dataprocessing.CleanReport) {
	fmt.Printf("Checked: %s\n\n", input)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Input rows\t%d\n", report.InputRows)
	fmt.Fprintf(w, "Rows with missing values\t%d\n", report.RowsWithMissing)
	for _, column := range sortedColumns(report.MissingByColumn) {
		fmt.Fprintf(w, "  missing %s\t%d\n", column, report.MissingByColumn[column])
	}
	fmt.Fprintf(w, "Duplicate rows (kept)\t%d\n", report.DuplicateRows)
	fmt.Fprintf(w, "Rejected on parse error\t%d\n", len(report.Rejected))
	fmt.Fprintf(w, "Non-positive durations\t%d\n", report.NonPositiveDurations)
	fmt.Fprintf(w, "Duration outliers flagged\t%d\n", report.Outliers.Count)
	fmt.Fprintf(w, "Usable rows\t%d\n", report.OutputRows)
	w.Flush()

	if len(report.Rejected) > 0 {
		fmt.Println("\nRejected rows:")
		for _, rejected := range report.Rejected {
			fmt.Printf("  row %d, column %s: %q\n", rejected.Row, rejected.Column, rejected.Value)
		}
	}
}

func sortedColumns(counts map[string]int) []string {
	columns := make([]string, 0, len(counts))
	for column := range counts {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
