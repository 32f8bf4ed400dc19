package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ridelens/internal/errors"
	"ridelens/internal/stats"
	"ridelens/pkg/contracts/domain"
)

// ParsePolicy selects what a timestamp parse failure does
type ParsePolicy string

const (
	// ParseReject drops the offending row and counts it in the clean report
	ParseReject ParsePolicy = "reject"
	// ParseAbort fails the whole run on the first malformed timestamp
	ParseAbort ParsePolicy = "abort"
)

// CleanerConfig holds configuration options for the Cleaner
type CleanerConfig struct {
	TimestampLayout string
	ParsePolicy     ParsePolicy
	IQRMultiplier   float64
}

// DefaultCleanerConfig returns the configuration matching the original
// monthly analysis: fixed layout, rejected parse failures, 1.5x IQR fences.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		TimestampLayout: TimestampLayout,
		ParsePolicy:     ParseReject,
		IQRMultiplier:   1.5,
	}
}

// Cleaner removes incomplete rows, counts duplicates, converts raw rows into
// typed trip records at a single parsing boundary, derives ride durations and
// flags IQR outliers.
type Cleaner struct {
	logger *slog.Logger
	config CleanerConfig
}

// NewCleaner creates a new cleaner with the given configuration.
// Zero-valued config fields fall back to the defaults.
func NewCleaner(logger *slog.Logger, config CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultCleanerConfig()
	if config.TimestampLayout == "" {
		config.TimestampLayout = defaults.TimestampLayout
	}
	if config.ParsePolicy == "" {
		config.ParsePolicy = defaults.ParsePolicy
	}
	if config.IQRMultiplier <= 0 {
		config.IQRMultiplier = defaults.IQRMultiplier
	}

	return &Cleaner{logger: logger, config: config}
}

// RejectedRow records a row dropped at the parsing boundary
type RejectedRow struct {
	Row    int    // 1-based position in the post-drop table
	Column string // column whose value failed to parse
	Value  string
}

// OutlierSummary describes the IQR fence diagnostics over ride durations
type OutlierSummary struct {
	Q1         float64
	Q3         float64
	IQR        float64
	LowerFence float64
	UpperFence float64
	Count      int
	MinFlagged float64
	MaxFlagged float64
}

// CleanReport is the Cleaner's account of what it did: per-column missing
// counts before removal, how many rows each step removed or flagged, and the
// outlier diagnostics. Duplicates and outliers are reported, never removed.
type CleanReport struct {
	InputRows            int
	MissingByColumn      map[string]int
	RowsWithMissing      int
	DuplicateRows        int
	Rejected             []RejectedRow
	NonPositiveDurations int
	Outliers             OutlierSummary
	OutputRows           int
}

// Clean runs the cleaning steps in order over the raw table and returns the
// typed records plus the report. The output is guaranteed to have no missing
// values and a duration on every record.
func (c *Cleaner) Clean(ctx context.Context, table *RawTable) ([]domain.TripRecord, *CleanReport, error) {
	report := &CleanReport{
		InputRows:       len(table.Rows),
		MissingByColumn: make(map[string]int, len(table.Header)),
	}

	complete := c.dropMissing(ctx, table, report)
	report.DuplicateRows = c.countDuplicates(complete)
	c.logger.InfoContext(ctx, "counted duplicate rows",
		slog.Int("duplicates", report.DuplicateRows))

	records, err := c.parseRows(ctx, table, complete, report)
	if err != nil {
		return nil, nil, err
	}

	c.deriveDurations(records, report)
	c.flagOutliers(ctx, records, report)

	report.OutputRows = len(records)
	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("input_rows", report.InputRows),
		slog.Int("rows_with_missing", report.RowsWithMissing),
		slog.Int("parse_rejected", len(report.Rejected)),
		slog.Int("output_rows", report.OutputRows))

	return records, report, nil
}

// dropMissing removes every row with at least one missing value and records
// the per-column missing counts before removal. A value is missing when the
// cell is empty or whitespace, or the row is shorter than the header.
func (c *Cleaner) dropMissing(ctx context.Context, table *RawTable, report *CleanReport) [][]string {
	complete := make([][]string, 0, len(table.Rows))

	for _, row := range table.Rows {
		hasMissing := false
		for col, name := range table.Header {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				report.MissingByColumn[name]++
				hasMissing = true
			}
		}
		if hasMissing {
			report.RowsWithMissing++
			continue
		}
		complete = append(complete, row)
	}

	for name, count := range report.MissingByColumn {
		if count > 0 {
			c.logger.InfoContext(ctx, "column has missing values",
				slog.String("column", name),
				slog.Int("missing", count))
		}
	}
	c.logger.InfoContext(ctx, "dropped rows with missing values",
		slog.Int("dropped", report.RowsWithMissing),
		slog.Int("remaining", len(complete)))

	return complete
}

// countDuplicates counts exact full-row duplicates beyond the first
// occurrence of each distinct row (two identical rows count as one).
func (c *Cleaner) countDuplicates(rows [][]string) int {
	seen := make(map[string]struct{}, len(rows))
	duplicates := 0

	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}

	return duplicates
}

// parseRows converts complete raw rows into typed records. This is the single
// parsing boundary: downstream stages never see untyped cells. Malformed
// timestamps are handled per the configured policy.
func (c *Cleaner) parseRows(ctx context.Context, table *RawTable, rows [][]string, report *CleanReport) ([]domain.TripRecord, error) {
	rideIdx, _ := table.Column(ColRideID)
	bikeIdx, _ := table.Column(ColRideableType)
	startIdx, _ := table.Column(ColStartedAt)
	endIdx, _ := table.Column(ColEndedAt)
	riderIdx, _ := table.Column(ColMemberCasual)

	records := make([]domain.TripRecord, 0, len(rows))

	for i, row := range rows {
		startedAt, err := ParseTimestamp(c.config.TimestampLayout, row[startIdx])
		if err != nil {
			if rejected, err := c.handleParseFailure(ctx, report, i, ColStartedAt, row[startIdx], err); rejected {
				continue
			} else if err != nil {
				return nil, err
			}
		}
		endedAt, err := ParseTimestamp(c.config.TimestampLayout, row[endIdx])
		if err != nil {
			if rejected, err := c.handleParseFailure(ctx, report, i, ColEndedAt, row[endIdx], err); rejected {
				continue
			} else if err != nil {
				return nil, err
			}
		}

		records = append(records, domain.TripRecord{
			RideID:       row[rideIdx],
			RideableType: domain.BikeType(row[bikeIdx]),
			StartedAt:    startedAt,
			EndedAt:      endedAt,
			MemberCasual: domain.RiderCategory(row[riderIdx]),
		})
	}

	return records, nil
}

// handleParseFailure applies the parse policy. It returns rejected=true when
// the row should be skipped, or a non-nil error when the run must abort.
func (c *Cleaner) handleParseFailure(ctx context.Context, report *CleanReport, row int, column, value string, cause error) (bool, error) {
	if c.config.ParsePolicy == ParseAbort {
		return false, errors.NewParseError(
			fmt.Sprintf("malformed timestamp in column %s", column), cause).
			WithContext("row", row+1).
			WithContext("column", column).
			WithContext("value", value)
	}

	report.Rejected = append(report.Rejected, RejectedRow{Row: row + 1, Column: column, Value: value})
	c.logger.WarnContext(ctx, "rejected row with malformed timestamp",
		slog.Int("row", row+1),
		slog.String("column", column),
		slog.String("value", value))
	return true, nil
}

// deriveDurations fills DurationMinutes = (end - start) in minutes on every
// record. Negative and zero durations from out-of-order timestamps are kept
// as-is; the report counts them so the analyst sees the gap.
func (c *Cleaner) deriveDurations(records []domain.TripRecord, report *CleanReport) {
	for i := range records {
		records[i].DurationMinutes = records[i].EndedAt.Sub(records[i].StartedAt).Minutes()
		if records[i].DurationMinutes <= 0 {
			report.NonPositiveDurations++
		}
	}
}

// flagOutliers marks records whose duration falls outside the IQR fences.
// Diagnostic only: flagged records stay in the working set.
func (c *Cleaner) flagOutliers(ctx context.Context, records []domain.TripRecord, report *CleanReport) {
	if len(records) == 0 {
		return
	}

	durations := make([]float64, len(records))
	for i, rec := range records {
		durations[i] = rec.DurationMinutes
	}

	q1, _, q3 := stats.Quartiles(durations)
	lower, upper := stats.Fences(q1, q3, c.config.IQRMultiplier)

	summary := OutlierSummary{
		Q1:         q1,
		Q3:         q3,
		IQR:        q3 - q1,
		LowerFence: lower,
		UpperFence: upper,
	}

	for i := range records {
		d := records[i].DurationMinutes
		if d < lower || d > upper {
			records[i].Outlier = true
			if summary.Count == 0 || d < summary.MinFlagged {
				summary.MinFlagged = d
			}
			if summary.Count == 0 || d > summary.MaxFlagged {
				summary.MaxFlagged = d
			}
			summary.Count++
		}
	}

	report.Outliers = summary
	c.logger.InfoContext(ctx, "flagged duration outliers",
		slog.Float64("q1", q1),
		slog.Float64("q3", q3),
		slog.Float64("lower_fence", lower),
		slog.Float64("upper_fence", upper),
		slog.Int("flagged", summary.Count))
}
