package domain

import (
	"time"
)

// TripRecord represents a single bike-share trip. The raw CSV fields are
// populated at the parsing boundary; the derived fields are filled in by the
// cleaning and transformation stages.
type TripRecord struct {
	RideID       string        `json:"ride_id" validate:"required"`
	RideableType BikeType      `json:"rideable_type" validate:"required"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      time.Time     `json:"ended_at"`
	MemberCasual RiderCategory `json:"member_casual" validate:"required,oneof=member casual"`

	// Derived fields
	DurationMinutes float64 `json:"duration_minutes"`
	StartDay        string  `json:"start_day,omitempty"`
	EndDay          string  `json:"end_day,omitempty"`
	StartHour       int     `json:"start_hour"`
	Season          Season  `json:"season,omitempty"`
	Outlier         bool    `json:"outlier,omitempty"`
}

// RiderCategory classifies a trip by rider subscription status
type RiderCategory string

const (
	RiderMember RiderCategory = "member"
	RiderCasual RiderCategory = "casual"
)

// Valid reports whether the category is one of the known labels
func (c RiderCategory) Valid() bool {
	return c == RiderMember || c == RiderCasual
}

// BikeType represents the vehicle category of a trip. The label set is open:
// monthly exports have introduced new types over time, so unknown labels are
// carried through rather than rejected.
type BikeType string

const (
	BikeClassic  BikeType = "classic_bike"
	BikeElectric BikeType = "electric_bike"
	BikeDocked   BikeType = "docked_bike"
)

// Season is a coarse four-way bucketing of calendar month
type Season string

const (
	SeasonWinter  Season = "Winter"
	SeasonSpring  Season = "Spring"
	SeasonSummer  Season = "Summer"
	SeasonFall    Season = "Fall"
	SeasonUnknown Season = "Unknown"
)

// SeasonForMonth maps a calendar month to its season. Winter is December
// through February, Spring March through May, Summer June through August,
// Fall September through November. The mapping is total: any value outside
// January..December yields SeasonUnknown.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonUnknown
	}
}

// Seasons lists the four seasons in calendar order starting at Winter,
// the order summary tables and charts present them in.
func Seasons() []Season {
	return []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}
}

// DayNames lists weekday labels Monday first, the order summary tables and
// charts present them in. Labels are Go's fixed English weekday names.
func DayNames() []string {
	return []string{
		time.Monday.String(),
		time.Tuesday.String(),
		time.Wednesday.String(),
		time.Thursday.String(),
		time.Friday.String(),
		time.Saturday.String(),
		time.Sunday.String(),
	}
}

// DayIndex returns the Monday-first position of a weekday label produced by
// DayNames, or len(DayNames()) for anything else so unknown labels sort last.
func DayIndex(day string) int {
	for i, name := range DayNames() {
		if name == day {
			return i
		}
	}
	return 7
}

// SeasonIndex returns the calendar position of a season per Seasons, or
// len(Seasons()) for SeasonUnknown and anything else.
func SeasonIndex(s Season) int {
	for i, season := range Seasons() {
		if season == s {
			return i
		}
	}
	return 4
}
