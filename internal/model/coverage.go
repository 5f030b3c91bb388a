// internal/model/coverage.go
package model

import (
	"time"

	"github.com/google/uuid"

	"fuelmap/internal/geo"
)

// SpatialCoverage is the footprint over which a dataset is authoritative.
// One record per dataset; deleted together with it.
type SpatialCoverage struct {
	DatasetID        uuid.UUID   `json:"dataset_id"`
	Footprint        geo.Polygon `json:"footprint"`
	Priority         int         `json:"priority"`
	ResolutionMeters float64     `json:"resolution_meters"`
	CreatedAt        time.Time   `json:"created_at"`
}

// NewCoverage validates the footprint ring before the record can exist.
func NewCoverage(ds *Dataset, footprint geo.Polygon) (*SpatialCoverage, error) {
	if ds == nil {
		return nil, Invalid("dataset", "coverage requires a dataset")
	}
	if err := footprint.Validate(); err != nil {
		return nil, Invalid("footprint", "%v", err)
	}
	return &SpatialCoverage{
		DatasetID:        ds.ID,
		Footprint:        footprint,
		Priority:         ds.Priority,
		ResolutionMeters: ds.ResolutionMeters,
		CreatedAt:        ds.CreatedAt,
	}, nil
}

// CoverageFromBounds derives a rectangular footprint from the dataset bbox,
// the common case for raster tiles.
func CoverageFromBounds(ds *Dataset) (*SpatialCoverage, error) {
	return NewCoverage(ds, geo.FromBBox(ds.Bounds))
}
