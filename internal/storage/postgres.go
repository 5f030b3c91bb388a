// internal/storage/postgres.go
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"fuelmap/internal/model"
)

type Postgres struct {
	DB *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *Postgres) EnsureSchema() error {
	_, err := s.DB.Exec(`
		CREATE TABLE IF NOT EXISTS tenants (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			contact_email TEXT NOT NULL DEFAULT '',
			quota_mb DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS datasets (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			owner_global BOOLEAN NOT NULL,
			owner_id UUID,
			kind TEXT NOT NULL,
			classification_system TEXT NOT NULL DEFAULT '',
			resolution_m DOUBLE PRECISION NOT NULL,
			min_lon DOUBLE PRECISION NOT NULL,
			min_lat DOUBLE PRECISION NOT NULL,
			max_lon DOUBLE PRECISION NOT NULL,
			max_lat DOUBLE PRECISION NOT NULL,
			pixel_count BIGINT NOT NULL DEFAULT 0,
			size_mb DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			priority INTEGER NOT NULL,
			cog_ref TEXT NOT NULL DEFAULT '',
			visibility TEXT NOT NULL,
			allowed_tenants JSONB NOT NULL DEFAULT '[]',
			public_access BOOLEAN NOT NULL,
			processing JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_datasets_owner ON datasets (owner_id);
		CREATE TABLE IF NOT EXISTS coverages (
			dataset_id UUID PRIMARY KEY REFERENCES datasets (id) ON DELETE CASCADE,
			footprint JSONB NOT NULL,
			priority INTEGER NOT NULL,
			resolution_m DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS class_mappings (
			source_system TEXT PRIMARY KEY,
			target_system TEXT NOT NULL,
			dataset_id UUID,
			entries JSONB NOT NULL,
			unmapped JSONB NOT NULL,
			auto_mapped INTEGER NOT NULL,
			manual_review INTEGER NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Postgres) PutTenant(t *model.Tenant) error {
	_, err := s.DB.Exec(`
		INSERT INTO tenants (id, name, contact_email, quota_mb, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = $2, contact_email = $3, quota_mb = $4`,
		t.ID, t.Name, t.ContactEmail, t.QuotaMB, t.CreatedAt)
	return err
}

func (s *Postgres) GetTenant(id uuid.UUID) (*model.Tenant, error) {
	t := &model.Tenant{}
	err := s.DB.QueryRow(`
		SELECT id, name, contact_email, quota_mb, created_at
		FROM tenants WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.ContactEmail, &t.QuotaMB, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query tenant: %w", err)
	}
	return t, nil
}

func (s *Postgres) DeleteTenant(id uuid.UUID) error {
	_, err := s.DB.Exec(`DELETE FROM tenants WHERE id = $1`, id)
	return err
}

func (s *Postgres) ListTenants() ([]*model.Tenant, error) {
	rows, err := s.DB.Query(`
		SELECT id, name, contact_email, quota_mb, created_at FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*model.Tenant
	for rows.Next() {
		t := &model.Tenant{}
		if err := rows.Scan(&t.ID, &t.Name, &t.ContactEmail, &t.QuotaMB, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

const datasetColumns = `id, name, owner_global, owner_id, kind, classification_system,
	resolution_m, min_lon, min_lat, max_lon, max_lat, pixel_count, size_mb,
	status, priority, cog_ref, visibility, allowed_tenants, public_access, processing, created_at`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Postgres) PutDataset(ds *model.Dataset) error {
	return putDataset(s.DB, ds)
}

func putDataset(ex execer, ds *model.Dataset) error {
	allowed, err := json.Marshal(ds.Access.AllowedTenants)
	if err != nil {
		return fmt.Errorf("marshal allowed tenants: %w", err)
	}
	var processing []byte
	if ds.Processing != nil {
		if processing, err = json.Marshal(ds.Processing); err != nil {
			return fmt.Errorf("marshal processing meta: %w", err)
		}
	}
	var ownerID any
	if !ds.Owner.IsGlobal() {
		ownerID = ds.Owner.TenantID
	}
	_, err = ex.Exec(`
		INSERT INTO datasets (`+datasetColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			name = $2, classification_system = $6, resolution_m = $7,
			min_lon = $8, min_lat = $9, max_lon = $10, max_lat = $11,
			pixel_count = $12, size_mb = $13, status = $14, priority = $15,
			cog_ref = $16, visibility = $17, allowed_tenants = $18,
			public_access = $19, processing = $20`,
		ds.ID, ds.Name, ds.Owner.IsGlobal(), ownerID, ds.Kind, ds.ClassificationSystem,
		ds.ResolutionMeters, ds.Bounds.MinLon, ds.Bounds.MinLat, ds.Bounds.MaxLon, ds.Bounds.MaxLat,
		ds.PixelCount, ds.SizeMB, ds.Status, ds.Priority, ds.COGRef,
		ds.Access.Visibility, allowed, ds.Access.PublicAccess, processing, ds.CreatedAt)
	if err != nil {
		return fmt.Errorf("put dataset: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*model.Dataset, error) {
	ds := &model.Dataset{}
	var (
		ownerGlobal bool
		ownerID     uuid.NullUUID
		allowed     []byte
		processing  []byte
	)
	err := row.Scan(&ds.ID, &ds.Name, &ownerGlobal, &ownerID, &ds.Kind, &ds.ClassificationSystem,
		&ds.ResolutionMeters, &ds.Bounds.MinLon, &ds.Bounds.MinLat, &ds.Bounds.MaxLon, &ds.Bounds.MaxLat,
		&ds.PixelCount, &ds.SizeMB, &ds.Status, &ds.Priority, &ds.COGRef,
		&ds.Access.Visibility, &allowed, &ds.Access.PublicAccess, &processing, &ds.CreatedAt)
	if err != nil {
		return nil, err
	}
	if ownerGlobal {
		ds.Owner = model.GlobalOwner()
	} else {
		ds.Owner = model.OwnedBy(ownerID.UUID)
	}
	if err := json.Unmarshal(allowed, &ds.Access.AllowedTenants); err != nil {
		return nil, fmt.Errorf("unmarshal allowed tenants: %w", err)
	}
	if len(processing) > 0 {
		ds.Processing = &model.ProcessingMeta{}
		if err := json.Unmarshal(processing, ds.Processing); err != nil {
			return nil, fmt.Errorf("unmarshal processing meta: %w", err)
		}
	}
	return ds, nil
}

func (s *Postgres) GetDataset(id uuid.UUID) (*model.Dataset, error) {
	ds, err := scanDataset(s.DB.QueryRow(`SELECT `+datasetColumns+` FROM datasets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	return ds, nil
}

func (s *Postgres) DeleteDataset(id uuid.UUID) error {
	_, err := s.DB.Exec(`DELETE FROM datasets WHERE id = $1`, id)
	return err
}

func (s *Postgres) listDatasets(where string, args ...any) ([]*model.Dataset, error) {
	rows, err := s.DB.Query(`SELECT `+datasetColumns+` FROM datasets `+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []*model.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (s *Postgres) ListDatasets() ([]*model.Dataset, error) {
	return s.listDatasets("")
}

func (s *Postgres) ListDatasetsByOwner(tenantID uuid.UUID) ([]*model.Dataset, error) {
	return s.listDatasets("WHERE owner_id = $1", tenantID)
}

func (s *Postgres) PutCoverage(c *model.SpatialCoverage) error {
	return putCoverage(s.DB, c)
}

func putCoverage(ex execer, c *model.SpatialCoverage) error {
	footprint, err := json.Marshal(c.Footprint)
	if err != nil {
		return fmt.Errorf("marshal footprint: %w", err)
	}
	_, err = ex.Exec(`
		INSERT INTO coverages (dataset_id, footprint, priority, resolution_m, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (dataset_id) DO UPDATE SET
			footprint = $2, priority = $3, resolution_m = $4`,
		c.DatasetID, footprint, c.Priority, c.ResolutionMeters, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("put coverage: %w", err)
	}
	return nil
}

func (s *Postgres) GetCoverage(datasetID uuid.UUID) (*model.SpatialCoverage, error) {
	c := &model.SpatialCoverage{}
	var footprint []byte
	err := s.DB.QueryRow(`
		SELECT dataset_id, footprint, priority, resolution_m, created_at
		FROM coverages WHERE dataset_id = $1`, datasetID).
		Scan(&c.DatasetID, &footprint, &c.Priority, &c.ResolutionMeters, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}
	if err := json.Unmarshal(footprint, &c.Footprint); err != nil {
		return nil, fmt.Errorf("unmarshal footprint: %w", err)
	}
	return c, nil
}

func (s *Postgres) ListCoverages() ([]*model.SpatialCoverage, error) {
	rows, err := s.DB.Query(`
		SELECT dataset_id, footprint, priority, resolution_m, created_at FROM coverages`)
	if err != nil {
		return nil, fmt.Errorf("query coverages: %w", err)
	}
	defer rows.Close()

	var out []*model.SpatialCoverage
	for rows.Next() {
		c := &model.SpatialCoverage{}
		var footprint []byte
		if err := rows.Scan(&c.DatasetID, &footprint, &c.Priority, &c.ResolutionMeters, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan coverage: %w", err)
		}
		if err := json.Unmarshal(footprint, &c.Footprint); err != nil {
			return nil, fmt.Errorf("unmarshal footprint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Postgres) PutMapping(m *model.ClassMapping) error {
	return putMapping(s.DB, m)
}

func putMapping(ex execer, m *model.ClassMapping) error {
	entries, err := json.Marshal(m.Entries)
	if err != nil {
		return fmt.Errorf("marshal mapping entries: %w", err)
	}
	unmapped, err := json.Marshal(m.Unmapped)
	if err != nil {
		return fmt.Errorf("marshal unmapped classes: %w", err)
	}
	var datasetID any
	if m.DatasetID != nil {
		datasetID = *m.DatasetID
	}
	_, err = ex.Exec(`
		INSERT INTO class_mappings (source_system, target_system, dataset_id,
			entries, unmapped, auto_mapped, manual_review, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_system) DO UPDATE SET
			target_system = $2, dataset_id = $3, entries = $4, unmapped = $5,
			auto_mapped = $6, manual_review = $7, updated_at = $8`,
		m.SourceSystem, m.TargetSystem, datasetID, entries, unmapped,
		m.AutoMapped, m.ManualReview, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put mapping: %w", err)
	}
	return nil
}

func (s *Postgres) GetMapping(sourceSystem string) (*model.ClassMapping, error) {
	m := &model.ClassMapping{}
	var (
		entries   []byte
		unmapped  []byte
		datasetID uuid.NullUUID
	)
	err := s.DB.QueryRow(`
		SELECT source_system, target_system, dataset_id, entries, unmapped,
			auto_mapped, manual_review, updated_at
		FROM class_mappings WHERE source_system = $1`, sourceSystem).
		Scan(&m.SourceSystem, &m.TargetSystem, &datasetID, &entries, &unmapped,
			&m.AutoMapped, &m.ManualReview, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query mapping: %w", err)
	}
	if datasetID.Valid {
		id := datasetID.UUID
		m.DatasetID = &id
	}
	if err := json.Unmarshal(entries, &m.Entries); err != nil {
		return nil, fmt.Errorf("unmarshal mapping entries: %w", err)
	}
	if err := json.Unmarshal(unmapped, &m.Unmapped); err != nil {
		return nil, fmt.Errorf("unmarshal unmapped classes: %w", err)
	}
	return m, nil
}

// RegisterDataset writes dataset, coverage and mapping in one transaction.
func (s *Postgres) RegisterDataset(ds *model.Dataset, c *model.SpatialCoverage, m *model.ClassMapping) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin register: %w", err)
	}
	defer tx.Rollback()

	if err := putDataset(tx, ds); err != nil {
		return err
	}
	if c != nil {
		if err := putCoverage(tx, c); err != nil {
			return err
		}
	}
	if m != nil {
		if err := putMapping(tx, m); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PurgeOwner deletes all of a tenant's datasets in one transaction; the
// coverage rows cascade. A concurrent reader sees either the full pre-delete
// set or nothing.
func (s *Postgres) PurgeOwner(tenantID uuid.UUID) (PurgeResult, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return PurgeResult{}, fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	var res PurgeResult
	err = tx.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(size_mb), 0)
		FROM datasets WHERE owner_id = $1`, tenantID).
		Scan(&res.DeletedCount, &res.DeletedSizeMB)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("count owned datasets: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM datasets WHERE owner_id = $1`, tenantID); err != nil {
		return PurgeResult{}, fmt.Errorf("delete owned datasets: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return PurgeResult{}, fmt.Errorf("commit purge: %w", err)
	}
	return res, nil
}
