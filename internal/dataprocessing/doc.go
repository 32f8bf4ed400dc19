// Package dataprocessing implements the trip analysis pipeline over monthly
// bike-share exports: loading the raw CSV, cleaning it into typed records,
// deriving descriptive fields, and aggregating rider-segment summaries.
//
// # Architecture
//
// The package is organized into four sequential stages:
//
// 1. Loader: reads the trip CSV into an untyped in-memory table
// 2. Cleaner: drops incomplete rows, counts duplicates, parses rows into
// typed TripRecords, derives durations and flags IQR outliers
// 3. Transformer: derives day-of-week, hour-of-day and season fields
// 4. Aggregator: computes grouped count/mean-duration summaries
//
// # Data Flow
//
// The typical data flow through this package:
//
//	CSV File → Loader → RawTable → Cleaner → TripRecords → Transformer → enriched records → Aggregator → SummaryReport
//
// Each stage is a pure transform: it consumes the previous stage's output
// value and returns a new one, so stages can be tested in isolation.
//
// # Error Handling
//
// Failures carry the internal/errors taxonomy: unreadable input is an IO
// error, a missing required column is a schema error, and a malformed
// timestamp is a parse error handled per the configured policy (reject the
// row or abort the run). Nothing fails silently into null values.
package dataprocessing
