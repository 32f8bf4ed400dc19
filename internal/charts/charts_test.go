package charts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridelens/internal/config"
	"ridelens/internal/dataprocessing"
	"ridelens/pkg/contracts/domain"
)

func testRenderer(format string) *Renderer {
	return NewRenderer(nil, config.ChartsConfig{Format: format, WidthInches: 6, HeightInches: 4})
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "rides_by_category.png", testRenderer("png").FileName("rides_by_category"))
	assert.Equal(t, "rides_by_category.svg", testRenderer("svg").FileName("rides_by_category"))
}

func TestDurationBox(t *testing.T) {
	for _, format := range []string{"png", "svg"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "duration_box."+format)
			err := testRenderer(format).DurationBox(path, []float64{1, 2, 3, 4, 5, 100})
			require.NoError(t, err)
			assertNonEmptyFile(t, path)
		})
	}
}

func TestDurationBoxEmptyInput(t *testing.T) {
	err := testRenderer("png").DurationBox(filepath.Join(t.TempDir(), "x.png"), nil)
	assert.Error(t, err)
}

func TestDurationBoxByCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duration_by_category.png")
	err := testRenderer("png").DurationBoxByCategory(path,
		[]domain.RiderCategory{domain.RiderCasual, domain.RiderMember},
		[][]float64{{30, 40, 60}, {5, 10, 15}})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)
}

func TestDurationBoxByCategoryMisaligned(t *testing.T) {
	err := testRenderer("png").DurationBoxByCategory(filepath.Join(t.TempDir(), "x.png"),
		[]domain.RiderCategory{domain.RiderCasual}, [][]float64{{1}, {2}})
	assert.Error(t, err)
}

func TestRidesByCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "rides_by_category.png")
	err := testRenderer("png").RidesByCategory(path, []dataprocessing.CategorySummary{
		{Category: domain.RiderCasual, TotalRides: 120, MeanDuration: 31.5},
		{Category: domain.RiderMember, TotalRides: 480, MeanDuration: 12.2},
	})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)
}

func TestBikeShareByCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bike_share.png")
	err := testRenderer("png").BikeShareByCategory(path, []dataprocessing.BikeTypeShare{
		{Category: domain.RiderCasual, BikeType: domain.BikeClassic, TotalRides: 30, Percent: 25},
		{Category: domain.RiderCasual, BikeType: domain.BikeElectric, TotalRides: 90, Percent: 75},
		{Category: domain.RiderMember, BikeType: domain.BikeClassic, TotalRides: 240, Percent: 50},
		{Category: domain.RiderMember, BikeType: domain.BikeElectric, TotalRides: 240, Percent: 50},
	})
	require.NoError(t, err)
	assertNonEmptyFile(t, path)
}

func TestPivotShares(t *testing.T) {
	categories, bikeTypes, percent := pivotShares([]dataprocessing.BikeTypeShare{
		{Category: domain.RiderCasual, BikeType: domain.BikeClassic, Percent: 25},
		{Category: domain.RiderCasual, BikeType: domain.BikeElectric, Percent: 75},
		{Category: domain.RiderMember, BikeType: domain.BikeClassic, Percent: 100},
	})

	require.Equal(t, []domain.RiderCategory{domain.RiderCasual, domain.RiderMember}, categories)
	require.Equal(t, []domain.BikeType{domain.BikeClassic, domain.BikeElectric}, bikeTypes)

	assert.Equal(t, 25.0, percent[0][0])
	assert.Equal(t, 100.0, percent[0][1])
	assert.Equal(t, 75.0, percent[1][0])
	assert.Equal(t, 0.0, percent[1][1], "absent combination stays zero")
}
