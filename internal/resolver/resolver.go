// internal/resolver/resolver.go
package resolver

import (
	"sort"

	"github.com/google/uuid"

	"fuelmap/internal/access"
	"fuelmap/internal/coverage"
	"fuelmap/internal/geo"
	"fuelmap/internal/model"
)

// Engine picks, among all coverages a tenant may see at a location, the one
// that takes precedence. Built per request from a persistence snapshot; it
// holds no locks and mutates nothing.
type Engine struct {
	index    *coverage.Index
	datasets map[uuid.UUID]*model.Dataset
}

func NewEngine(datasets []*model.Dataset, coverages []*model.SpatialCoverage) *Engine {
	byID := make(map[uuid.UUID]*model.Dataset, len(datasets))
	for _, ds := range datasets {
		byID[ds.ID] = ds
	}
	return &Engine{index: coverage.NewIndex(coverages), datasets: byID}
}

func (e *Engine) Dataset(id uuid.UUID) *model.Dataset { return e.datasets[id] }

// Resolution is the outcome at one point: the winning coverage (nil when no
// accessible coverage contains the point) and the accessible losers in
// precedence order.
type Resolution struct {
	Primary  *model.SpatialCoverage
	Shadowed []*model.SpatialCoverage
}

// Resolve finds the authoritative coverage for the tenant at the point.
// Denied candidates are dropped entirely before ranking: denial must be
// invisible, not merely non-winning. Ordering: priority desc, then finer
// resolution, then most recent, then dataset id for a stable total order.
func (e *Engine) Resolve(tenantID uuid.UUID, p geo.Point) Resolution {
	candidates := e.index.IntersectingPoint(p)

	accessible := candidates[:0:0]
	for _, c := range candidates {
		ds, ok := e.datasets[c.DatasetID]
		if !ok {
			continue
		}
		if access.Check(tenantID, ds).HasAccess {
			accessible = append(accessible, c)
		}
	}

	sortByPrecedence(accessible)

	if len(accessible) == 0 {
		return Resolution{}
	}
	return Resolution{Primary: accessible[0], Shadowed: accessible[1:]}
}

func sortByPrecedence(cs []*model.SpatialCoverage) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.ResolutionMeters != b.ResolutionMeters {
			return a.ResolutionMeters < b.ResolutionMeters
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.DatasetID.String() < b.DatasetID.String()
	})
}

// PointResult pairs a sample point with its resolution.
type PointResult struct {
	Point geo.Point
	Resolution
}

// GridResult is the outcome of resolving an n x n sample grid.
type GridResult struct {
	Points      []PointResult
	SampleCount int
	// DominantSource is the dataset selected as primary most often across
	// the grid; nil when no sample had a primary.
	DominantSource *uuid.UUID
}

// ResolveBBox samples an evenly spaced gridN x gridN grid over the box,
// inclusive of the edges, and resolves each point. Uncovered points are not
// errors here; they simply carry a nil primary.
func (e *Engine) ResolveBBox(tenantID uuid.UUID, b geo.BBox, gridN int) GridResult {
	pts := geo.GridPoints(b, gridN)
	res := GridResult{Points: make([]PointResult, 0, len(pts)), SampleCount: len(pts)}

	wins := make(map[uuid.UUID]int)
	winners := make(map[uuid.UUID]*model.SpatialCoverage)
	for _, p := range pts {
		r := e.Resolve(tenantID, p)
		res.Points = append(res.Points, PointResult{Point: p, Resolution: r})
		if r.Primary != nil {
			wins[r.Primary.DatasetID]++
			winners[r.Primary.DatasetID] = r.Primary
		}
	}

	if len(wins) > 0 {
		var tied []*model.SpatialCoverage
		best := 0
		for id, n := range wins {
			switch {
			case n > best:
				best = n
				tied = []*model.SpatialCoverage{winners[id]}
			case n == best:
				tied = append(tied, winners[id])
			}
		}
		sortByPrecedence(tied)
		id := tied[0].DatasetID
		res.DominantSource = &id
	}
	return res
}
