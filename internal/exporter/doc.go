// Package exporter writes the analysis artifacts: one CSV per aggregation,
// the formatted console run summary, and the Excel workbook that bundles
// run metadata, summary sheets, flagged outliers and the rendered charts.
package exporter
