// internal/gaps/gaps_test.go
package gaps

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fuelmap/internal/geo"
	"fuelmap/internal/model"
	"fuelmap/internal/resolver"
)

var (
	conusBounds = geo.BBox{MinLon: -125, MinLat: 32, MaxLon: -102, MaxLat: 49}
	region      = geo.BBox{MinLon: -123, MinLat: 39, MaxLon: -122, MaxLat: 40}
)

func buildEngine(t *testing.T, owner uuid.UUID, privateBounds *geo.BBox) *resolver.Engine {
	t.Helper()

	gds, err := model.NewDataset("global-baseline", model.GlobalOwner(), model.KindGlobalBaseline, "FBFM40", 30.0, conusBounds, 0)
	require.NoError(t, err)
	gc, err := model.CoverageFromBounds(gds)
	require.NoError(t, err)

	datasets := []*model.Dataset{gds}
	coverages := []*model.SpatialCoverage{gc}

	if privateBounds != nil {
		pds, err := model.NewDataset("private", model.OwnedBy(owner), model.KindCustomerPrivate, "FBFM40", 10.0, *privateBounds, 1)
		require.NoError(t, err)
		pc, err := model.CoverageFromBounds(pds)
		require.NoError(t, err)
		datasets = append(datasets, pds)
		coverages = append(coverages, pc)
	}
	return resolver.NewEngine(datasets, coverages)
}

func TestAnalyzeFractionsSumToOne(t *testing.T) {
	owner := uuid.New()
	private := geo.BBox{MinLon: -122.8, MinLat: 39.2, MaxLon: -122.3, MaxLat: 39.7}
	e := buildEngine(t, owner, &private)

	stats := Analyze(e, owner, region, 20)
	require.Equal(t, 400, stats.SampleCount)

	sum := stats.PercentPrivate + stats.PercentGlobal + stats.PercentUncovered
	require.InDelta(t, 1.0, sum, 1e-9)
	require.GreaterOrEqual(t, stats.PercentPrivate, 0.0)
	require.GreaterOrEqual(t, stats.PercentGlobal, 0.0)
	require.GreaterOrEqual(t, stats.PercentUncovered, 0.0)
}

func TestAnalyzeClassification(t *testing.T) {
	owner := uuid.New()
	// Private data over roughly the west half of the region.
	private := geo.BBox{MinLon: -123.0, MinLat: 38.9, MaxLon: -122.505, MaxLat: 40.1}
	e := buildEngine(t, owner, &private)

	stats := Analyze(e, owner, region, 50)
	require.InDelta(t, 0.5, stats.PercentPrivate, 0.1)
	require.InDelta(t, 0.5, stats.PercentGlobal, 0.1)
	require.Equal(t, 0.0, stats.PercentUncovered)
}

func TestAnalyzeUncoveredRegion(t *testing.T) {
	owner := uuid.New()
	e := buildEngine(t, owner, nil)

	// Region straddling the eastern edge of the baseline.
	straddle := geo.BBox{MinLon: -103, MinLat: 40, MaxLon: -101, MaxLat: 41}
	stats := Analyze(e, owner, straddle, 50)

	require.InDelta(t, 0.5, stats.PercentGlobal, 0.1)
	require.InDelta(t, 0.5, stats.PercentUncovered, 0.1)
	require.Equal(t, 0.0, stats.PercentPrivate)
}

func TestAnalyzeDeniedPrivateCountsAsGlobal(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	private := geo.BBox{MinLon: -122.8, MinLat: 39.2, MaxLon: -122.3, MaxLat: 39.7}
	e := buildEngine(t, owner, &private)

	// The stranger cannot see the private dataset, so the whole region reads
	// as global-only coverage.
	stats := Analyze(e, stranger, region, 20)
	require.Equal(t, 0.0, stats.PercentPrivate)
	require.InDelta(t, 1.0, stats.PercentGlobal, 1e-9)
}

func TestAnalyzeDefaultGridN(t *testing.T) {
	e := buildEngine(t, uuid.New(), nil)
	stats := Analyze(e, uuid.New(), region, 0)
	require.Equal(t, DefaultGridN*DefaultGridN, stats.SampleCount)
}

// The estimate should track the analytic covered fraction of an axis-aligned
// private footprint to within the grid discretization error.
func TestAnalyzeTracksAnalyticFraction(t *testing.T) {
	owner := uuid.New()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		width := 0.2 + 0.5*rng.Float64()
		height := 0.2 + 0.5*rng.Float64()
		minLon := region.MinLon + (1-width)*rng.Float64()
		minLat := region.MinLat + (1-height)*rng.Float64()
		private := geo.BBox{
			MinLon: minLon,
			MinLat: minLat,
			MaxLon: minLon + width,
			MaxLat: minLat + height,
		}

		e := buildEngine(t, owner, &private)
		stats := Analyze(e, owner, region, 50)

		analytic := width * height
		require.InDelta(t, analytic, stats.PercentPrivate, 0.1,
			"rect %v: estimated %.3f, analytic %.3f", private, stats.PercentPrivate, analytic)
		require.Equal(t, 0.0, stats.PercentUncovered)
	}
}
