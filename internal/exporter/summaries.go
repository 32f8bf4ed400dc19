package exporter

import (
	"context"
	"log/slog"
	"strconv"

	"ridelens/internal/dataprocessing"
)

// Summary CSV file names, one per aggregation
const (
	FileByCategory       = "by_category.csv"
	FileByCategoryHour   = "by_category_hour.csv"
	FileByCategoryDay    = "by_category_day.csv"
	FileByCategorySeason = "by_category_season.csv"
	FileBikeTypeShares   = "bike_type_share.csv"
)

// SummaryExporter writes one CSV per aggregation with stable headers and
// row order
type SummaryExporter struct {
	logger *slog.Logger
	writer *CSVWriter
}

// NewSummaryExporter creates a new summary exporter.
// A nil logger falls back to slog.Default.
func NewSummaryExporter(logger *slog.Logger, writer *CSVWriter) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{logger: logger, writer: writer}
}

// WriteAll writes every aggregation of the report to its CSV file and
// returns the file names written, in a fixed order.
func (e *SummaryExporter) WriteAll(ctx context.Context, report *dataprocessing.SummaryReport) ([]string, error) {
	e.logger.InfoContext(ctx, "writing summary CSV files")

	writes := []struct {
		file    string
		headers []string
		records [][]string
	}{
		{FileByCategory, []string{"member_casual", "total_rides", "mean_duration_minutes"}, categoryRecords(report.ByCategory)},
		{FileByCategoryHour, []string{"member_casual", "hour", "total_rides", "mean_duration_minutes"}, categoryHourRecords(report.ByCategoryHour)},
		{FileByCategoryDay, []string{"member_casual", "day_of_week", "total_rides", "mean_duration_minutes"}, categoryDayRecords(report.ByCategoryDay)},
		{FileByCategorySeason, []string{"member_casual", "season", "total_rides", "mean_duration_minutes"}, categorySeasonRecords(report.ByCategorySeason)},
		{FileBikeTypeShares, []string{"member_casual", "rideable_type", "total_rides", "percent_of_category"}, bikeShareRecords(report.BikeTypeShares)},
	}

	written := make([]string, 0, len(writes))
	for _, w := range writes {
		if err := e.writer.WriteSimpleCSV(w.file, w.headers, w.records); err != nil {
			return written, err
		}
		written = append(written, w.file)
	}

	e.logger.InfoContext(ctx, "wrote summary CSV files", slog.Int("files", len(written)))
	return written, nil
}

func categoryRecords(summaries []dataprocessing.CategorySummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{string(s.Category), formatInt(s.TotalRides), formatFloat(s.MeanDuration)})
	}
	return records
}

func categoryHourRecords(summaries []dataprocessing.CategoryHourSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{string(s.Category), strconv.Itoa(s.Hour), formatInt(s.TotalRides), formatFloat(s.MeanDuration)})
	}
	return records
}

func categoryDayRecords(summaries []dataprocessing.CategoryDaySummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{string(s.Category), s.Day, formatInt(s.TotalRides), formatFloat(s.MeanDuration)})
	}
	return records
}

func categorySeasonRecords(summaries []dataprocessing.CategorySeasonSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{string(s.Category), string(s.Season), formatInt(s.TotalRides), formatFloat(s.MeanDuration)})
	}
	return records
}

func bikeShareRecords(shares []dataprocessing.BikeTypeShare) [][]string {
	records := make([][]string, 0, len(shares))
	for _, s := range shares {
		records = append(records, []string{string(s.Category), string(s.BikeType), formatInt(s.TotalRides), formatFloat(s.Percent)})
	}
	return records
}
