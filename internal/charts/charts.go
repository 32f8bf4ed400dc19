// Package charts renders the comparison figures of the trip report as PNG
// or SVG images: duration box plots, ride-count bars, and the stacked
// bike-type share bars. Charts are presentation only; every number they show
// comes from the aggregator.
package charts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"ridelens/internal/config"
	"ridelens/internal/dataprocessing"
	"ridelens/internal/errors"
	"ridelens/pkg/contracts/domain"
)

// Renderer draws the report charts with a fixed size and output format
type Renderer struct {
	logger *slog.Logger
	width  vg.Length
	height vg.Length
	format string
}

// NewRenderer creates a renderer from the chart configuration.
// A nil logger falls back to slog.Default.
func NewRenderer(logger *slog.Logger, cfg config.ChartsConfig) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		logger: logger,
		width:  vg.Length(cfg.WidthInches) * vg.Inch,
		height: vg.Length(cfg.HeightInches) * vg.Inch,
		format: cfg.Format,
	}
}

// FileName appends the configured format extension to a chart base name
func (r *Renderer) FileName(base string) string {
	return base + "." + r.format
}

// DurationBox renders a box plot of ride duration over all rows
func (r *Renderer) DurationBox(path string, durations []float64) error {
	if len(durations) == 0 {
		return errors.NewValidationError("no durations to plot")
	}

	p := plot.New()
	p.Title.Text = "Ride Duration"
	p.Y.Label.Text = "minutes"

	box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(durations))
	if err != nil {
		return errors.NewStorageError("failed to build duration box plot", err)
	}
	p.Add(box)
	p.NominalX("all rides")

	return r.save(p, path)
}

// DurationBoxByCategory renders duration box plots side by side per rider
// category. Categories and duration groups come from the aggregator in
// matching order.
func (r *Renderer) DurationBoxByCategory(path string, categories []domain.RiderCategory, durations [][]float64) error {
	if len(categories) == 0 || len(categories) != len(durations) {
		return errors.NewValidationError("categories and duration groups must align")
	}

	p := plot.New()
	p.Title.Text = "Ride Duration by Rider Category"
	p.Y.Label.Text = "minutes"

	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = string(category)
		box, err := plotter.NewBoxPlot(vg.Points(60), float64(i), plotter.Values(durations[i]))
		if err != nil {
			return errors.NewStorageError("failed to build category box plot", err).
				WithContext("category", string(category))
		}
		p.Add(box)
	}
	p.NominalX(names...)

	return r.save(p, path)
}

// RidesByCategory renders a bar chart of total rides per rider category
func (r *Renderer) RidesByCategory(path string, summaries []dataprocessing.CategorySummary) error {
	if len(summaries) == 0 {
		return errors.NewValidationError("no category summaries to plot")
	}

	p := plot.New()
	p.Title.Text = "Total Rides by Rider Category"
	p.Y.Label.Text = "rides"

	values := make(plotter.Values, len(summaries))
	names := make([]string, len(summaries))
	for i, s := range summaries {
		values[i] = float64(s.TotalRides)
		names[i] = string(s.Category)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(50))
	if err != nil {
		return errors.NewStorageError("failed to build ride count bars", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)

	return r.save(p, path)
}

// BikeShareByCategory renders a stacked bar chart of bike-type percentage
// within each rider category. Each category's stack sums to 100.
func (r *Renderer) BikeShareByCategory(path string, shares []dataprocessing.BikeTypeShare) error {
	if len(shares) == 0 {
		return errors.NewValidationError("no bike type shares to plot")
	}

	categories, bikeTypes, percent := pivotShares(shares)

	p := plot.New()
	p.Title.Text = "Bike Type Share by Rider Category"
	p.Y.Label.Text = "% of category rides"
	p.Legend.Top = true

	var previous *plotter.BarChart
	for i, bikeType := range bikeTypes {
		values := make(plotter.Values, len(categories))
		for j := range categories {
			values[j] = percent[i][j]
		}

		bars, err := plotter.NewBarChart(values, vg.Points(50))
		if err != nil {
			return errors.NewStorageError("failed to build bike share bars", err).
				WithContext("bike_type", string(bikeType))
		}
		bars.Color = plotutil.Color(i)
		if previous != nil {
			bars.StackOn(previous)
		}
		p.Add(bars)
		p.Legend.Add(string(bikeType), bars)
		previous = bars
	}

	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = string(category)
	}
	p.NominalX(names...)

	return r.save(p, path)
}

// pivotShares turns the flat share rows into a bike-type x category percent
// grid, both axes in the aggregator's sorted order
func pivotShares(shares []dataprocessing.BikeTypeShare) ([]domain.RiderCategory, []domain.BikeType, [][]float64) {
	var categories []domain.RiderCategory
	var bikeTypes []domain.BikeType
	categoryIdx := make(map[domain.RiderCategory]int)
	bikeIdx := make(map[domain.BikeType]int)

	for _, share := range shares {
		if _, ok := categoryIdx[share.Category]; !ok {
			categoryIdx[share.Category] = len(categories)
			categories = append(categories, share.Category)
		}
		if _, ok := bikeIdx[share.BikeType]; !ok {
			bikeIdx[share.BikeType] = len(bikeTypes)
			bikeTypes = append(bikeTypes, share.BikeType)
		}
	}

	percent := make([][]float64, len(bikeTypes))
	for i := range percent {
		percent[i] = make([]float64, len(categories))
	}
	for _, share := range shares {
		percent[bikeIdx[share.BikeType]][categoryIdx[share.Category]] = share.Percent
	}

	return categories, bikeTypes, percent
}

// save writes the plot to path, creating the chart directory if needed
func (r *Renderer) save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create chart directory", err).WithContext("path", path)
	}

	if err := p.Save(r.width, r.height, path); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to render chart %s", filepath.Base(path)), err).
			WithContext("path", path)
	}

	r.logger.Info("rendered chart", slog.String("path", path))
	return nil
}
