package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"ridelens/internal/errors"
	"ridelens/pkg/contracts/domain"
)

// TimestampLayout is the fixed layout of started_at/ended_at text in
// monthly trip exports.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp parses trip timestamp text using the given layout.
// The layout is configurable but defaults to TimestampLayout. A mismatch is
// an explicit parse error, never a silent null.
func ParseTimestamp(layout, value string) (time.Time, error) {
	ts, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, errors.NewParseError("timestamp does not match expected layout", err).
			WithContext("layout", layout).
			WithContext("value", value)
	}
	return ts, nil
}

// Transformer derives the descriptive time fields of each trip
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer creates a new transformer. A nil logger falls back to slog.Default.
func NewTransformer(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger}
}

// Transform returns a copy of the records with day-of-week labels for both
// timestamps, the start hour (0-23) and the season of the start month filled
// in. Pure: the input slice is not modified.
func (t *Transformer) Transform(ctx context.Context, records []domain.TripRecord) []domain.TripRecord {
	t.logger.InfoContext(ctx, "deriving time fields", slog.Int("records", len(records)))

	out := make([]domain.TripRecord, len(records))
	copy(out, records)

	for i := range out {
		out[i].StartDay = out[i].StartedAt.Weekday().String()
		out[i].EndDay = out[i].EndedAt.Weekday().String()
		out[i].StartHour = out[i].StartedAt.Hour()
		out[i].Season = domain.SeasonForMonth(out[i].StartedAt.Month())
	}

	return out
}
