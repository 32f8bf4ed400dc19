package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"ridelens/internal/charts"
	"ridelens/internal/config"
	"ridelens/internal/dataprocessing"
	"ridelens/internal/exporter"
	"ridelens/internal/files"
	"ridelens/internal/infrastructure"
	"ridelens/internal/pipeline"
	"ridelens/internal/stats"
	"ridelens/internal/validation"
	"ridelens/pkg/contracts/domain"
)

func main() {
	inputPath := flag.String("input", "", "trip data CSV (defaults to the newest *tripdata*.csv in the data directory)")
	outputDir := flag.String("output", "", "base directory for data/reports/charts/logs (defaults to the executable directory)")
	configPath := flag.String("config", "", "path to config.yaml (defaults to the usual locations)")
	chartFormat := flag.String("format", "", "chart image format, png or svg (overrides config)")
	quiet := flag.Bool("quiet", false, "suppress the console summary tables")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *chartFormat != "" {
		if *chartFormat != "png" && *chartFormat != "svg" {
			slog.Error("Invalid chart format, expected png or svg", "format", *chartFormat)
			os.Exit(1)
		}
		cfg.Charts.Format = *chartFormat
	}

	// Resolve paths: the -output flag overrides the configured directories
	var paths *config.Paths
	if *outputDir != "" {
		paths = config.GetPathsFrom(*outputDir)
	} else {
		paths, err = config.ResolvePaths(cfg.Paths)
		if err != nil {
			slog.Error("Failed to initialize paths", "error", err)
			os.Exit(1)
		}
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}

	// Initialize logging. An unset file path lands in the logs directory.
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("ridelens.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution()

	// Each run is stamped with a unique ID in logs and the workbook
	runID := uuid.New().String()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.WithRunID(ctx, runID)

	fileValidator := validation.NewFileValidator(logger)
	for _, dir := range []string{paths.ReportsDir, paths.ChartsDir} {
		if err := fileValidator.ValidateOutputDirectory(dir); err != nil {
			logger.ErrorContext(ctx, "output directory validation failed", "error", err)
			os.Exit(1)
		}
	}

	input, err := resolveInput(ctx, logger, cfg, paths, *inputPath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to resolve input file", "error", err)
		os.Exit(1)
	}

	if err := fileValidator.ValidateInputFile(input); err != nil {
		logger.ErrorContext(ctx, "input validation failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "starting trip report run",
		slog.String("input", input),
		slog.String("reports_dir", paths.ReportsDir))

	run := &reportRun{
		cfg:    cfg,
		paths:  paths,
		logger: logger,
		runID:  runID,
		input:  input,
	}

	runner := pipeline.NewRunner(logger)
	runner.Add(pipeline.Stage{ID: "load", Name: "Load trip data", Run: run.load})
	runner.Add(pipeline.Stage{ID: "clean", Name: "Clean and type rows", Run: run.clean})
	runner.Add(pipeline.Stage{ID: "transform", Name: "Derive time fields", Run: run.transform})
	runner.Add(pipeline.Stage{ID: "aggregate", Name: "Aggregate summaries", Run: run.aggregate})
	runner.Add(pipeline.Stage{ID: "report", Name: "Write report artifacts", Run: run.report})

	results, err := runner.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "run failed", "error", err)
		os.Exit(1)
	}

	if !*quiet {
		exporter.PrintRunSummary(os.Stdout, exporter.RunSummary{
			InputPath: input,
			Clean:     run.cleanReport,
			Durations: run.durations,
			Report:    run.summary,
		})
		printArtifacts(run)
	}

	var total time.Duration
	for _, result := range results {
		total += result.Duration
	}
	logger.InfoContext(ctx, "run completed",
		slog.Int("stages", len(results)),
		slog.Duration("total_duration", total),
		slog.String("workbook", paths.GetWorkbookPath()))
}

// reportRun carries the dataset between pipeline stages
type reportRun struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	runID  string
	input  string

	table       *dataprocessing.RawTable
	records     []domain.TripRecord
	cleanReport *dataprocessing.CleanReport
	summary     *dataprocessing.SummaryReport
	durations   stats.Summary
	chartPaths  []string
	csvFiles    []string
}

func (r *reportRun) load(ctx context.Context) error {
	table, err := dataprocessing.NewLoader(r.logger).Load(ctx, r.input)
	if err != nil {
		return err
	}
	r.table = table
	return nil
}

func (r *reportRun) clean(ctx context.Context) error {
	cleaner := dataprocessing.NewCleaner(r.logger, dataprocessing.CleanerConfig{
		TimestampLayout: r.cfg.Input.TimestampLayout,
		ParsePolicy:     dataprocessing.ParsePolicy(r.cfg.Input.OnParseError),
		IQRMultiplier:   r.cfg.Analysis.IQRMultiplier,
	})

	records, report, err := cleaner.Clean(ctx, r.table)
	if err != nil {
		return err
	}
	r.records = records
	r.cleanReport = report
	return nil
}

func (r *reportRun) transform(ctx context.Context) error {
	r.records = dataprocessing.NewTransformer(r.logger).Transform(ctx, r.records)
	return nil
}

func (r *reportRun) aggregate(ctx context.Context) error {
	r.summary = dataprocessing.NewAggregator(r.logger).Summarize(ctx, r.records)

	durations := make([]float64, len(r.records))
	for i, rec := range r.records {
		durations[i] = rec.DurationMinutes
	}
	r.durations = stats.Describe(durations)
	return nil
}

func (r *reportRun) report(ctx context.Context) error {
	csvFiles, err := exporter.NewSummaryExporter(r.logger, exporter.NewCSVWriter(r.paths)).WriteAll(ctx, r.summary)
	if err != nil {
		return err
	}
	r.csvFiles = csvFiles

	if err := r.renderCharts(ctx); err != nil {
		return err
	}

	workbook := exporter.NewWorkbookBuilder(r.logger)
	return workbook.Build(ctx, r.paths.GetWorkbookPath(), exporter.WorkbookData{
		Meta: exporter.RunMeta{
			RunID:       r.runID,
			InputPath:   r.input,
			GeneratedAt: time.Now(),
		},
		Clean:      r.cleanReport,
		Durations:  r.durations,
		Report:     r.summary,
		Outliers:   r.flaggedOutliers(),
		ChartPaths: r.chartPaths,
	})
}

func (r *reportRun) renderCharts(ctx context.Context) error {
	renderer := charts.NewRenderer(r.logger, r.cfg.Charts)
	aggregator := dataprocessing.NewAggregator(r.logger)

	durations := make([]float64, len(r.records))
	for i, rec := range r.records {
		durations[i] = rec.DurationMinutes
	}
	categories, byCategory := aggregator.DurationsByCategory(r.records)

	renders := []struct {
		base string
		fn   func(path string) error
	}{
		{"duration_box", func(path string) error { return renderer.DurationBox(path, durations) }},
		{"duration_by_category", func(path string) error {
			return renderer.DurationBoxByCategory(path, categories, byCategory)
		}},
		{"rides_by_category", func(path string) error { return renderer.RidesByCategory(path, r.summary.ByCategory) }},
		{"bike_share_by_category", func(path string) error {
			return renderer.BikeShareByCategory(path, r.summary.BikeTypeShares)
		}},
	}

	r.chartPaths = r.chartPaths[:0]
	for _, render := range renders {
		path := r.paths.GetChartPath(renderer.FileName(render.base))
		if err := render.fn(path); err != nil {
			return err
		}
		r.chartPaths = append(r.chartPaths, path)
	}

	r.logger.InfoContext(ctx, "rendered charts", slog.Int("count", len(r.chartPaths)))
	return nil
}

// flaggedOutliers returns the flagged records for the workbook outlier
// sheet, capped by configuration
func (r *reportRun) flaggedOutliers() []domain.TripRecord {
	limit := r.cfg.Analysis.MaxOutlierRows
	var flagged []domain.TripRecord
	for _, rec := range r.records {
		if !rec.Outlier {
			continue
		}
		flagged = append(flagged, rec)
		if limit > 0 && len(flagged) >= limit {
			break
		}
	}
	return flagged
}

// resolveInput picks the input file: the -input flag, then the configured
// file, then the newest monthly export in the data directory
func resolveInput(ctx context.Context, logger *slog.Logger, cfg *config.Config, paths *config.Paths, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Input.File != "" {
		return cfg.Input.File, nil
	}

	found, err := files.NewDiscovery(paths.DataDir).FindTripDataFiles(".")
	if err != nil {
		return "", err
	}
	newest := files.Newest(found)
	if newest == nil {
		return "", fmt.Errorf("no trip data CSV found in %s; pass -input", paths.DataDir)
	}

	logger.InfoContext(ctx, "discovered input file",
		slog.String("path", newest.Path),
		slog.Time("modified", newest.ModTime))
	return newest.Path, nil
}

func printArtifacts(run *reportRun) {
	fmt.Println("\n=== ARTIFACTS ===")
	for _, file := range run.csvFiles {
		fmt.Printf("summary: %s\n", run.paths.GetReportPath(file))
	}
	for _, chart := range run.chartPaths {
		fmt.Printf("chart:   %s\n", chart)
	}
	fmt.Printf("report:  %s\n", run.paths.GetWorkbookPath())
}
