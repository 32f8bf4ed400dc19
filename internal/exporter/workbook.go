package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ridelens/internal/dataprocessing"
	"ridelens/internal/errors"
	"ridelens/internal/stats"
	"ridelens/pkg/contracts/domain"
)

// RunMeta is the run metadata stamped onto the workbook overview sheet
type RunMeta struct {
	RunID       string
	InputPath   string
	GeneratedAt time.Time
}

// WorkbookData bundles everything the Excel report presents
type WorkbookData struct {
	Meta      RunMeta
	Clean     *dataprocessing.CleanReport
	Durations stats.Summary
	Report    *dataprocessing.SummaryReport
	// Outliers lists flagged records, already capped by the caller
	Outliers []domain.TripRecord
	// ChartPaths are rendered PNG images to embed; SVG charts are listed
	// by path instead since excelize cannot embed them
	ChartPaths []string
}

// WorkbookBuilder assembles the Excel report workbook
type WorkbookBuilder struct {
	logger *slog.Logger
}

// NewWorkbookBuilder creates a new workbook builder.
// A nil logger falls back to slog.Default.
func NewWorkbookBuilder(logger *slog.Logger) *WorkbookBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookBuilder{logger: logger}
}

// Build writes the workbook to path: an overview sheet, one sheet per
// aggregation, the flagged outliers, and the rendered charts.
func (b *WorkbookBuilder) Build(ctx context.Context, path string, data WorkbookData) error {
	b.logger.InfoContext(ctx, "building report workbook", slog.String("path", path))

	f := excelize.NewFile()
	defer f.Close()

	if err := b.writeOverview(f, data); err != nil {
		return err
	}
	if err := b.writeAggregations(f, data.Report); err != nil {
		return err
	}
	if err := b.writeOutliers(f, data.Outliers); err != nil {
		return err
	}
	if err := b.writeCharts(f, data.ChartPaths); err != nil {
		return err
	}

	// The default sheet is replaced by Overview
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.NewStorageError("failed to drop default sheet", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create report directory", err).WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	b.logger.InfoContext(ctx, "report workbook written", slog.String("path", path))
	return nil
}

func (b *WorkbookBuilder) writeOverview(f *excelize.File, data WorkbookData) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create overview sheet", err)
	}

	rows := [][]interface{}{
		{"Run ID", data.Meta.RunID},
		{"Input file", data.Meta.InputPath},
		{"Generated at", data.Meta.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Input rows", data.Clean.InputRows},
		{"Rows with missing values", data.Clean.RowsWithMissing},
		{"Duplicate rows (reported, not removed)", data.Clean.DuplicateRows},
		{"Parse-rejected rows", len(data.Clean.Rejected)},
		{"Non-positive durations", data.Clean.NonPositiveDurations},
		{"Clean rows", data.Clean.OutputRows},
		{},
		{"Duration Q1 (minutes)", data.Clean.Outliers.Q1},
		{"Duration Q3 (minutes)", data.Clean.Outliers.Q3},
		{"Outlier fence lower", data.Clean.Outliers.LowerFence},
		{"Outlier fence upper", data.Clean.Outliers.UpperFence},
		{"Outliers flagged", data.Clean.Outliers.Count},
		{},
		{"Duration mean", data.Durations.Mean},
		{"Duration std dev", data.Durations.StdDev},
		{"Duration min", data.Durations.Min},
		{"Duration median", data.Durations.Median},
		{"Duration max", data.Durations.Max},
	}

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return errors.NewStorageError("failed to compute cell coordinates", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.NewStorageError("failed to write overview cell", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return errors.NewStorageError("failed to size overview columns", err)
	}
	return f.SetColWidth(sheet, "B", "B", 30)
}

func (b *WorkbookBuilder) writeAggregations(f *excelize.File, report *dataprocessing.SummaryReport) error {
	sheets := []struct {
		name   string
		header []string
		rows   [][]interface{}
	}{
		{"By Category", []string{"Category", "Total Rides", "Mean Duration (min)"}, categoryCells(report.ByCategory)},
		{"By Hour", []string{"Category", "Hour", "Total Rides", "Mean Duration (min)"}, categoryHourCells(report.ByCategoryHour)},
		{"By Day", []string{"Category", "Day", "Total Rides", "Mean Duration (min)"}, categoryDayCells(report.ByCategoryDay)},
		{"By Season", []string{"Category", "Season", "Total Rides", "Mean Duration (min)"}, categorySeasonCells(report.ByCategorySeason)},
		{"Bike Types", []string{"Category", "Bike Type", "Total Rides", "% of Category"}, bikeShareCells(report.BikeTypeShares)},
	}

	for _, sheet := range sheets {
		if err := writeSheet(f, sheet.name, sheet.header, sheet.rows); err != nil {
			return err
		}
	}
	return nil
}

func (b *WorkbookBuilder) writeOutliers(f *excelize.File, outliers []domain.TripRecord) error {
	header := []string{"Ride ID", "Category", "Bike Type", "Started At", "Ended At", "Duration (min)"}
	rows := make([][]interface{}, 0, len(outliers))
	for _, rec := range outliers {
		rows = append(rows, []interface{}{
			rec.RideID,
			string(rec.MemberCasual),
			string(rec.RideableType),
			rec.StartedAt.Format(dataprocessing.TimestampLayout),
			rec.EndedAt.Format(dataprocessing.TimestampLayout),
			rec.DurationMinutes,
		})
	}
	return writeSheet(f, "Outliers", header, rows)
}

func (b *WorkbookBuilder) writeCharts(f *excelize.File, chartPaths []string) error {
	const sheet = "Charts"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create charts sheet", err)
	}

	row := 1
	for _, path := range chartPaths {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return errors.NewStorageError("failed to compute chart cell", err)
		}

		if strings.EqualFold(filepath.Ext(path), ".png") {
			if err := f.AddPicture(sheet, cell, path, nil); err != nil {
				return errors.NewStorageError("failed to embed chart image", err).WithContext("chart", path)
			}
		} else {
			// SVG cannot be embedded; record where it was written
			if err := f.SetCellValue(sheet, cell, fmt.Sprintf("chart written to %s", path)); err != nil {
				return errors.NewStorageError("failed to note chart path", err)
			}
		}
		row += 25
	}
	return nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return errors.NewStorageError("failed to create sheet", err).WithContext("sheet", name)
	}

	for j, title := range header {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return errors.NewStorageError("failed to compute header cell", err)
		}
		if err := f.SetCellValue(name, cell, title); err != nil {
			return errors.NewStorageError("failed to write header cell", err).WithContext("sheet", name)
		}
	}

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return errors.NewStorageError("failed to compute cell coordinates", err)
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return errors.NewStorageError("failed to write data cell", err).WithContext("sheet", name)
			}
		}
	}

	endCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return errors.NewStorageError("failed to compute column name", err)
	}
	return f.SetColWidth(name, "A", endCol, 22)
}

func categoryCells(summaries []dataprocessing.CategorySummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{string(s.Category), s.TotalRides, s.MeanDuration})
	}
	return rows
}

func categoryHourCells(summaries []dataprocessing.CategoryHourSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{string(s.Category), s.Hour, s.TotalRides, s.MeanDuration})
	}
	return rows
}

func categoryDayCells(summaries []dataprocessing.CategoryDaySummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{string(s.Category), s.Day, s.TotalRides, s.MeanDuration})
	}
	return rows
}

func categorySeasonCells(summaries []dataprocessing.CategorySeasonSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []interface{}{string(s.Category), string(s.Season), s.TotalRides, s.MeanDuration})
	}
	return rows
}

func bikeShareCells(shares []dataprocessing.BikeTypeShare) [][]interface{} {
	rows := make([][]interface{}, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []interface{}{string(s.Category), string(s.BikeType), s.TotalRides, s.Percent})
	}
	return rows
}
