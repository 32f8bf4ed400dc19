package exporter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ridelens/internal/dataprocessing"
	"ridelens/internal/stats"
	"ridelens/pkg/contracts/domain"
)

func TestWorkbookBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "trip_report.xlsx")

	data := WorkbookData{
		Meta: RunMeta{
			RunID:       "run-123",
			InputPath:   "data/202401-tripdata.csv",
			GeneratedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		},
		Clean: &dataprocessing.CleanReport{
			InputRows:       5,
			RowsWithMissing: 1,
			DuplicateRows:   1,
			OutputRows:      4,
			MissingByColumn: map[string]int{"ended_at": 1},
			Outliers:        dataprocessing.OutlierSummary{Q1: 2.25, Q3: 4.75, Count: 1},
		},
		Durations: stats.Summary{Count: 4, Mean: 12.5},
		Report:    sampleSummaryReport(),
		Outliers: []domain.TripRecord{
			{
				RideID:          "X9",
				MemberCasual:    domain.RiderCasual,
				RideableType:    domain.BikeElectric,
				StartedAt:       time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
				EndedAt:         time.Date(2024, 1, 15, 9, 40, 0, 0, time.UTC),
				DurationMinutes: 100,
				Outlier:         true,
			},
		},
		ChartPaths: []string{filepath.Join(t.TempDir(), "rides.svg")},
	}

	err := NewWorkbookBuilder(nil).Build(context.Background(), path, data)
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{"Overview", "By Category", "By Hour", "By Day", "By Season", "Bike Types", "Outliers", "Charts"} {
		assert.Contains(t, sheets, want)
	}
	assert.NotContains(t, sheets, "Sheet1")

	runID, err := f.GetCellValue("Overview", "B1")
	require.NoError(t, err)
	assert.Equal(t, "run-123", runID)

	category, err := f.GetCellValue("By Category", "A2")
	require.NoError(t, err)
	assert.Equal(t, "casual", category)

	outlierID, err := f.GetCellValue("Outliers", "A2")
	require.NoError(t, err)
	assert.Equal(t, "X9", outlierID)

	// SVG charts are referenced by path, not embedded
	note, err := f.GetCellValue("Charts", "A1")
	require.NoError(t, err)
	assert.Contains(t, note, "rides.svg")
}

func TestWorkbookBuildEmptyOutliers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip_report.xlsx")

	data := WorkbookData{
		Meta:      RunMeta{RunID: "run-1", GeneratedAt: time.Now()},
		Clean:     &dataprocessing.CleanReport{MissingByColumn: map[string]int{}},
		Durations: stats.Summary{},
		Report:    &dataprocessing.SummaryReport{},
	}

	require.NoError(t, NewWorkbookBuilder(nil).Build(context.Background(), path, data))
	assert.FileExists(t, path)
}
