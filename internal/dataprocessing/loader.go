package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"ridelens/internal/errors"
)

// Recognized trip CSV column names
const (
	ColRideID       = "ride_id"
	ColRideableType = "rideable_type"
	ColStartedAt    = "started_at"
	ColEndedAt      = "ended_at"
	ColMemberCasual = "member_casual"
)

// RequiredColumns lists the columns a trip CSV must carry.
// Monthly exports contain additional station and coordinate columns; those
// are preserved in the raw table but never interpreted.
func RequiredColumns() []string {
	return []string{ColRideID, ColRideableType, ColStartedAt, ColEndedAt, ColMemberCasual}
}

// RawTable is the untyped in-memory form of the input CSV: the header row,
// every data row as read, and a lookup from recognized column name to index.
// Row order matches the file. Cells stay text until the Cleaner's parsing
// boundary.
type RawTable struct {
	Header  []string
	Rows    [][]string
	Columns map[string]int
}

// Column returns the index of a header column, matched case-insensitively
func (t *RawTable) Column(name string) (int, bool) {
	idx, ok := t.Columns[strings.ToLower(name)]
	return idx, ok
}

// Loader reads a delimited trip file into a RawTable
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the CSV at path into a RawTable preserving row order.
// Ragged rows are tolerated here and surface as missing values for the
// Cleaner. Fails with an IO error when the file is unreadable and a schema
// error when a required column is absent.
func (l *Loader) Load(ctx context.Context, path string) (*RawTable, error) {
	l.logger.InfoContext(ctx, "loading trip data", slog.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("failed to open input file", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows handled by the Cleaner

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewIOError("failed to read header row", err).WithContext("path", path)
	}

	// Tolerate a UTF-8 BOM on the first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, required := range RequiredColumns() {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("required columns missing: %s", strings.Join(missing, ", ")), nil).
			WithContext("path", path).
			WithContext("missing_columns", missing)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIOError("failed to read data row", err).
				WithContext("path", path).
				WithContext("row", len(rows)+2)
		}
		rows = append(rows, record)
	}

	l.logger.InfoContext(ctx, "loaded trip data",
		slog.String("path", path),
		slog.Int("columns", len(header)),
		slog.Int("rows", len(rows)))

	return &RawTable{Header: header, Rows: rows, Columns: columns}, nil
}
