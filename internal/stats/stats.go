// Package stats provides the small set of descriptive statistics the trip
// analysis needs: linear-interpolation percentiles, quartile fences for
// outlier flagging, and distribution summaries.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile calculates the value at a given percentile (0..1) of a sorted
// slice using linear interpolation between closest ranks (index = p*(n-1)).
func Percentile(sorted []float64, percentile float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 1 {
		return sorted[n-1]
	}

	index := percentile * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quartiles returns Q1, median and Q3 of the values
func Quartiles(values []float64) (q1, median, q3 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Percentile(sorted, 0.25), Percentile(sorted, 0.5), Percentile(sorted, 0.75)
}

// Fences returns the IQR outlier fences [q1 - k*iqr, q3 + k*iqr]
func Fences(q1, q3, k float64) (lower, upper float64) {
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

// Median computes the median of a slice of float64 values
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Percentile(sorted, 0.5)
}

// Summary describes the distribution of a set of values
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes a distribution summary of the values.
// Mean and standard deviation come from gonum; quartiles use the same
// linear-interpolation percentile as the outlier fences.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Q1:     Percentile(sorted, 0.25),
		Median: Percentile(sorted, 0.5),
		Q3:     Percentile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}

	return s
}
