// internal/storage/memory.go
package storage

import (
	"sync"

	"github.com/google/uuid"

	"fuelmap/internal/model"
)

// Memory is an in-process Store used by tests and standalone runs. It
// mirrors the Postgres semantics: cascading purge, whole-record replace,
// read-your-writes.
type Memory struct {
	mu        sync.RWMutex
	tenants   map[uuid.UUID]*model.Tenant
	datasets  map[uuid.UUID]*model.Dataset
	coverages map[uuid.UUID]*model.SpatialCoverage
	mappings  map[string]*model.ClassMapping
}

func NewMemory() *Memory {
	return &Memory{
		tenants:   make(map[uuid.UUID]*model.Tenant),
		datasets:  make(map[uuid.UUID]*model.Dataset),
		coverages: make(map[uuid.UUID]*model.SpatialCoverage),
		mappings:  make(map[string]*model.ClassMapping),
	}
}

func (s *Memory) PutTenant(t *model.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tenants[t.ID] = &cp
	return nil
}

func (s *Memory) GetTenant(id uuid.UUID) (*model.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Memory) DeleteTenant(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenants, id)
	return nil
}

func (s *Memory) ListTenants() ([]*model.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Memory) PutDataset(ds *model.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ds
	s.datasets[ds.ID] = &cp
	return nil
}

func (s *Memory) GetDataset(id uuid.UUID) (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ds
	return &cp, nil
}

func (s *Memory) DeleteDataset(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, id)
	delete(s.coverages, id)
	return nil
}

func (s *Memory) ListDatasets() ([]*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		cp := *ds
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Memory) ListDatasetsByOwner(tenantID uuid.UUID) ([]*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Dataset
	for _, ds := range s.datasets {
		if ds.Owner.Is(tenantID) {
			cp := *ds
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Memory) PutCoverage(c *model.SpatialCoverage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.coverages[c.DatasetID] = &cp
	return nil
}

func (s *Memory) GetCoverage(datasetID uuid.UUID) (*model.SpatialCoverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.coverages[datasetID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Memory) ListCoverages() ([]*model.SpatialCoverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.SpatialCoverage, 0, len(s.coverages))
	for _, c := range s.coverages {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Memory) PutMapping(m *model.ClassMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[m.SourceSystem] = m.Clone()
	return nil
}

func (s *Memory) GetMapping(sourceSystem string) (*model.ClassMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[sourceSystem]
	if !ok {
		return nil, ErrNotFound
	}
	return m.Clone(), nil
}

func (s *Memory) RegisterDataset(ds *model.Dataset, c *model.SpatialCoverage, m *model.ClassMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dcp := *ds
	s.datasets[ds.ID] = &dcp
	if c != nil {
		ccp := *c
		s.coverages[c.DatasetID] = &ccp
	}
	if m != nil {
		s.mappings[m.SourceSystem] = m.Clone()
	}
	return nil
}

func (s *Memory) PurgeOwner(tenantID uuid.UUID) (PurgeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res PurgeResult
	for id, ds := range s.datasets {
		if ds.Owner.Is(tenantID) {
			res.DeletedCount++
			res.DeletedSizeMB += ds.SizeMB
			delete(s.datasets, id)
			delete(s.coverages, id)
		}
	}
	return res, nil
}
