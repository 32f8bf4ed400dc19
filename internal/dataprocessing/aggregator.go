package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"ridelens/pkg/contracts/domain"
)

// CategorySummary holds per-rider-category totals
type CategorySummary struct {
	Category     domain.RiderCategory
	TotalRides   int
	MeanDuration float64
}

// CategoryHourSummary holds totals per rider category and start hour
type CategoryHourSummary struct {
	Category     domain.RiderCategory
	Hour         int
	TotalRides   int
	MeanDuration float64
}

// CategoryDaySummary holds totals per rider category and start day-of-week
type CategoryDaySummary struct {
	Category     domain.RiderCategory
	Day          string
	TotalRides   int
	MeanDuration float64
}

// CategorySeasonSummary holds totals per rider category and season
type CategorySeasonSummary struct {
	Category     domain.RiderCategory
	Season       domain.Season
	TotalRides   int
	MeanDuration float64
}

// BikeTypeShare holds the ride count of a bike type within a rider category
// and its percentage of that category's total. Percentages sum to 100 within
// each category, not globally.
type BikeTypeShare struct {
	Category   domain.RiderCategory
	BikeType   domain.BikeType
	TotalRides int
	Percent    float64
}

// SummaryReport bundles every aggregation the report presents
type SummaryReport struct {
	ByCategory       []CategorySummary
	ByCategoryHour   []CategoryHourSummary
	ByCategoryDay    []CategoryDaySummary
	ByCategorySeason []CategorySeasonSummary
	BikeTypeShares   []BikeTypeShare
}

// Aggregator computes grouped summaries over cleaned, transformed records.
// All methods are read-only and return deterministically ordered slices so
// repeated runs diff cleanly.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator. A nil logger falls back to slog.Default.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Summarize computes every aggregation over the records
func (a *Aggregator) Summarize(ctx context.Context, records []domain.TripRecord) *SummaryReport {
	a.logger.InfoContext(ctx, "aggregating trip summaries", slog.Int("records", len(records)))

	report := &SummaryReport{
		ByCategory:       a.ByCategory(records),
		ByCategoryHour:   a.ByCategoryHour(records),
		ByCategoryDay:    a.ByCategoryDay(records),
		ByCategorySeason: a.ByCategorySeason(records),
		BikeTypeShares:   a.BikeTypeShares(records),
	}

	a.logger.InfoContext(ctx, "aggregated trip summaries",
		slog.Int("categories", len(report.ByCategory)),
		slog.Int("category_hours", len(report.ByCategoryHour)),
		slog.Int("bike_type_shares", len(report.BikeTypeShares)))

	return report
}

type groupTotals struct {
	count int
	sum   float64
}

func (g *groupTotals) add(duration float64) {
	g.count++
	g.sum += duration
}

func (g *groupTotals) mean() float64 {
	if g.count == 0 {
		return 0
	}
	return g.sum / float64(g.count)
}

// ByCategory returns ride count and mean duration per rider category,
// sorted by category name.
func (a *Aggregator) ByCategory(records []domain.TripRecord) []CategorySummary {
	groups := make(map[domain.RiderCategory]*groupTotals)
	for _, rec := range records {
		g, ok := groups[rec.MemberCasual]
		if !ok {
			g = &groupTotals{}
			groups[rec.MemberCasual] = g
		}
		g.add(rec.DurationMinutes)
	}

	summaries := make([]CategorySummary, 0, len(groups))
	for category, g := range groups {
		summaries = append(summaries, CategorySummary{
			Category:     category,
			TotalRides:   g.count,
			MeanDuration: g.mean(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Category < summaries[j].Category
	})

	return summaries
}

// ByCategoryHour returns ride count and mean duration for every observed
// rider category and start hour combination, sorted by category then hour.
func (a *Aggregator) ByCategoryHour(records []domain.TripRecord) []CategoryHourSummary {
	type key struct {
		category domain.RiderCategory
		hour     int
	}

	groups := make(map[key]*groupTotals)
	for _, rec := range records {
		k := key{category: rec.MemberCasual, hour: rec.StartHour}
		g, ok := groups[k]
		if !ok {
			g = &groupTotals{}
			groups[k] = g
		}
		g.add(rec.DurationMinutes)
	}

	summaries := make([]CategoryHourSummary, 0, len(groups))
	for k, g := range groups {
		summaries = append(summaries, CategoryHourSummary{
			Category:     k.category,
			Hour:         k.hour,
			TotalRides:   g.count,
			MeanDuration: g.mean(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Category != summaries[j].Category {
			return summaries[i].Category < summaries[j].Category
		}
		return summaries[i].Hour < summaries[j].Hour
	})

	return summaries
}

// ByCategoryDay returns ride count and mean duration per rider category and
// start day-of-week, days in calendar order Monday through Sunday.
func (a *Aggregator) ByCategoryDay(records []domain.TripRecord) []CategoryDaySummary {
	type key struct {
		category domain.RiderCategory
		day      string
	}

	groups := make(map[key]*groupTotals)
	for _, rec := range records {
		k := key{category: rec.MemberCasual, day: rec.StartDay}
		g, ok := groups[k]
		if !ok {
			g = &groupTotals{}
			groups[k] = g
		}
		g.add(rec.DurationMinutes)
	}

	summaries := make([]CategoryDaySummary, 0, len(groups))
	for k, g := range groups {
		summaries = append(summaries, CategoryDaySummary{
			Category:     k.category,
			Day:          k.day,
			TotalRides:   g.count,
			MeanDuration: g.mean(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Category != summaries[j].Category {
			return summaries[i].Category < summaries[j].Category
		}
		return domain.DayIndex(summaries[i].Day) < domain.DayIndex(summaries[j].Day)
	})

	return summaries
}

// ByCategorySeason returns ride count and mean duration per rider category
// and season, seasons ordered Winter, Spring, Summer, Fall.
func (a *Aggregator) ByCategorySeason(records []domain.TripRecord) []CategorySeasonSummary {
	type key struct {
		category domain.RiderCategory
		season   domain.Season
	}

	groups := make(map[key]*groupTotals)
	for _, rec := range records {
		k := key{category: rec.MemberCasual, season: rec.Season}
		g, ok := groups[k]
		if !ok {
			g = &groupTotals{}
			groups[k] = g
		}
		g.add(rec.DurationMinutes)
	}

	summaries := make([]CategorySeasonSummary, 0, len(groups))
	for k, g := range groups {
		summaries = append(summaries, CategorySeasonSummary{
			Category:     k.category,
			Season:       k.season,
			TotalRides:   g.count,
			MeanDuration: g.mean(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Category != summaries[j].Category {
			return summaries[i].Category < summaries[j].Category
		}
		return domain.SeasonIndex(summaries[i].Season) < domain.SeasonIndex(summaries[j].Season)
	})

	return summaries
}

// BikeTypeShares returns ride counts per rider category and bike type with
// each bike type's percentage of its category total, sorted by category then
// bike type.
func (a *Aggregator) BikeTypeShares(records []domain.TripRecord) []BikeTypeShare {
	type key struct {
		category domain.RiderCategory
		bikeType domain.BikeType
	}

	counts := make(map[key]int)
	categoryTotals := make(map[domain.RiderCategory]int)
	for _, rec := range records {
		counts[key{category: rec.MemberCasual, bikeType: rec.RideableType}]++
		categoryTotals[rec.MemberCasual]++
	}

	shares := make([]BikeTypeShare, 0, len(counts))
	for k, count := range counts {
		shares = append(shares, BikeTypeShare{
			Category:   k.category,
			BikeType:   k.bikeType,
			TotalRides: count,
			Percent:    float64(count) / float64(categoryTotals[k.category]) * 100,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Category != shares[j].Category {
			return shares[i].Category < shares[j].Category
		}
		return shares[i].BikeType < shares[j].BikeType
	})

	return shares
}

// DurationsByCategory returns every ride duration grouped by rider category,
// categories sorted by name. Used by the box plot renderer.
func (a *Aggregator) DurationsByCategory(records []domain.TripRecord) ([]domain.RiderCategory, [][]float64) {
	groups := make(map[domain.RiderCategory][]float64)
	for _, rec := range records {
		groups[rec.MemberCasual] = append(groups[rec.MemberCasual], rec.DurationMinutes)
	}

	categories := make([]domain.RiderCategory, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	durations := make([][]float64, len(categories))
	for i, category := range categories {
		durations[i] = groups[category]
	}

	return categories, durations
}
