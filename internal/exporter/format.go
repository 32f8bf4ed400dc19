package exporter

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// countPrinter renders integers with thousands separators for the console
// summary (12345 -> "12,345")
var countPrinter = message.NewPrinter(language.English)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatCount formats a row count with thousands separators
func formatCount(i int) string {
	return countPrinter.Sprintf("%d", i)
}
