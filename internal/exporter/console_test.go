package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ridelens/internal/dataprocessing"
	"ridelens/internal/stats"
)

func TestPrintRunSummary(t *testing.T) {
	var sb strings.Builder

	PrintRunSummary(&sb, RunSummary{
		InputPath: "data/202401-tripdata.csv",
		Clean: &dataprocessing.CleanReport{
			InputRows:       1250,
			RowsWithMissing: 50,
			MissingByColumn: map[string]int{"ended_at": 30, "ride_id": 20},
			DuplicateRows:   3,
			Rejected:        []dataprocessing.RejectedRow{{Row: 7, Column: "started_at"}},
			OutputRows:      1199,
			Outliers: dataprocessing.OutlierSummary{
				Q1: 5, Q3: 20, IQR: 15, LowerFence: -17.5, UpperFence: 42.5,
				Count: 12, MinFlagged: 43.1, MaxFlagged: 1440,
			},
		},
		Durations: stats.Summary{Count: 1199, Mean: 14.5, StdDev: 9.8, Min: -2, Q1: 5, Median: 11, Q3: 20, Max: 1440},
		Report:    sampleSummaryReport(),
	})

	out := sb.String()
	assert.Contains(t, out, "data/202401-tripdata.csv")
	assert.Contains(t, out, "1,250", "thousands separator on counts")
	assert.Contains(t, out, "missing ended_at:")
	assert.Contains(t, out, "Duplicate rows:        3 (reported, not removed)")
	assert.Contains(t, out, "fences [-17.50, 42.50]")
	assert.Contains(t, out, "RIDES BY RIDER CATEGORY")
	assert.Contains(t, out, "casual")
	assert.Contains(t, out, "member")
	assert.Contains(t, out, "RIDES BY CATEGORY AND HOUR")
	assert.Contains(t, out, "RIDES BY CATEGORY AND DAY")
	assert.Contains(t, out, "Monday")
	assert.Contains(t, out, "BIKE TYPE SHARE WITHIN CATEGORY")
	assert.Contains(t, out, "50.00%")
}

func TestPrintRunSummaryNoOutliers(t *testing.T) {
	var sb strings.Builder

	PrintRunSummary(&sb, RunSummary{
		InputPath: "x.csv",
		Clean: &dataprocessing.CleanReport{
			MissingByColumn: map[string]int{},
		},
		Report: &dataprocessing.SummaryReport{},
	})

	assert.Contains(t, sb.String(), "Flagged: 0 rows")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "7", formatInt(7))
	assert.Equal(t, "1,234,567", formatCount(1234567))
	assert.Equal(t, "42", formatCount(42))
}
