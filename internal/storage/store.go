// internal/storage/store.go
package storage

import (
	"errors"

	"github.com/google/uuid"

	"fuelmap/internal/model"
)

var ErrNotFound = errors.New("record not found")

// PurgeResult reports an owner-scoped bulk delete.
type PurgeResult struct {
	DeletedCount  int     `json:"deleted_count"`
	DeletedSizeMB float64 `json:"deleted_size_mb"`
}

// Store is the persistence collaborator. Implementations must provide
// read-your-writes consistency within a single process; serialization of
// writes is the caller's responsibility (per-tenant keyed locks).
type Store interface {
	PutTenant(t *model.Tenant) error
	GetTenant(id uuid.UUID) (*model.Tenant, error)
	DeleteTenant(id uuid.UUID) error
	ListTenants() ([]*model.Tenant, error)

	PutDataset(ds *model.Dataset) error
	GetDataset(id uuid.UUID) (*model.Dataset, error)
	DeleteDataset(id uuid.UUID) error
	ListDatasets() ([]*model.Dataset, error)
	ListDatasetsByOwner(tenantID uuid.UUID) ([]*model.Dataset, error)

	PutCoverage(c *model.SpatialCoverage) error
	GetCoverage(datasetID uuid.UUID) (*model.SpatialCoverage, error)
	ListCoverages() ([]*model.SpatialCoverage, error)

	PutMapping(m *model.ClassMapping) error
	GetMapping(sourceSystem string) (*model.ClassMapping, error)

	// RegisterDataset persists dataset, coverage and mapping as one
	// transaction; partial registration must never be observable.
	RegisterDataset(ds *model.Dataset, c *model.SpatialCoverage, m *model.ClassMapping) error

	// PurgeOwner deletes every dataset owned by the tenant together with
	// its coverage, in one transaction.
	PurgeOwner(tenantID uuid.UUID) (PurgeResult, error)
}
