// internal/gaps/gaps.go
package gaps

import (
	"github.com/google/uuid"

	"fuelmap/internal/geo"
	"fuelmap/internal/resolver"
)

// DefaultGridN is the sample density used when the caller does not specify
// one. Sample density trades accuracy for cost.
const DefaultGridN = 10

// Statistics is a statistical estimate of coverage over a region, not an
// exact area integral: each grid sample is classified by the priority of
// the coverage that won there.
type Statistics struct {
	PercentPrivate   float64 `json:"percent_private_covered"`
	PercentGlobal    float64 `json:"percent_global_only"`
	PercentUncovered float64 `json:"percent_uncovered"`
	SampleCount      int     `json:"sample_count"`
}

// Analyze drives the resolution engine over a gridN x gridN sample of the
// box. A sample counts as private when the winning priority is above 0,
// global-only when it is exactly 0, and uncovered when nothing won.
func Analyze(e *resolver.Engine, tenantID uuid.UUID, b geo.BBox, gridN int) Statistics {
	if gridN < 1 {
		gridN = DefaultGridN
	}
	grid := e.ResolveBBox(tenantID, b, gridN)

	var private, global, uncovered int
	for _, pr := range grid.Points {
		switch {
		case pr.Primary == nil:
			uncovered++
		case pr.Primary.Priority > 0:
			private++
		default:
			global++
		}
	}

	n := float64(grid.SampleCount)
	return Statistics{
		PercentPrivate:   float64(private) / n,
		PercentGlobal:    float64(global) / n,
		PercentUncovered: float64(uncovered) / n,
		SampleCount:      grid.SampleCount,
	}
}
