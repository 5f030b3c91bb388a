// internal/coverage/index.go
package coverage

import (
	"fuelmap/internal/geo"
	"fuelmap/internal/model"
)

// Index answers intersection queries over a snapshot of coverage records.
// It does no ranking and no filtering: authorization and priority are
// strictly downstream concerns, so the same index serves private and
// public queries alike.
type Index struct {
	records []*model.SpatialCoverage
}

func NewIndex(records []*model.SpatialCoverage) *Index {
	return &Index{records: records}
}

func (ix *Index) Len() int { return len(ix.records) }

// IntersectingPoint returns every coverage whose footprint contains the point.
func (ix *Index) IntersectingPoint(p geo.Point) []*model.SpatialCoverage {
	var out []*model.SpatialCoverage
	for _, c := range ix.records {
		if c.Footprint.Contains(p) {
			out = append(out, c)
		}
	}
	return out
}

// IntersectingBBox returns every coverage whose footprint overlaps the box.
func (ix *Index) IntersectingBBox(b geo.BBox) []*model.SpatialCoverage {
	var out []*model.SpatialCoverage
	for _, c := range ix.records {
		if c.Footprint.IntersectsBBox(b) {
			out = append(out, c)
		}
	}
	return out
}
