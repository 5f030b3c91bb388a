// internal/ingest/pipeline.go
package ingest

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"fuelmap/internal/access"
	"fuelmap/internal/geo"
	"fuelmap/internal/metrics"
	"fuelmap/internal/model"
	"fuelmap/internal/raster"
	"fuelmap/internal/reconciler"
	"fuelmap/internal/storage"
)

// Job is one upload to process for a tenant.
type Job struct {
	TenantID             uuid.UUID         `json:"tenant_id"`
	FileRef              string            `json:"file_ref"`
	Name                 string            `json:"name"`
	ClassificationSystem string            `json:"classification_system"` // or "auto-detect"
	Kind                 model.DatasetKind `json:"kind"`
	EstimatedSizeMB      float64           `json:"estimated_size_mb"`
}

// Pipeline turns an upload job into a registered dataset: quota check,
// raster validation, taxonomy reconciliation, then one transactional write
// of dataset + coverage + mapping. The caller holds the tenant write lock.
type Pipeline struct {
	store     storage.Store
	processor raster.Processor
	rec       *reconciler.Reconciler
}

func NewPipeline(store storage.Store, processor raster.Processor, rec *reconciler.Reconciler) *Pipeline {
	return &Pipeline{store: store, processor: processor, rec: rec}
}

// Process runs the full ingest for one job. The quota check is pure
// accounting and happens before any raster work is triggered.
func (p *Pipeline) Process(job Job) (*model.Dataset, error) {
	tenant, err := p.store.GetTenant(job.TenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, model.Denied("unknown tenant %s", job.TenantID)
		}
		return nil, fmt.Errorf("load tenant: %w", err)
	}

	owned, err := p.store.ListDatasetsByOwner(job.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list owned datasets: %w", err)
	}
	if q := access.CanUpload(tenant, access.CommittedMB(owned), job.EstimatedSizeMB); !q.CanUpload {
		return nil, model.Denied("%s", q.Reason)
	}

	validation, err := p.processor.Validate(job.FileRef, job.Kind)
	if err != nil {
		return nil, fmt.Errorf("validate raster: %w", err)
	}
	if !validation.Valid {
		return nil, model.Invalid("file", "validation failed: %v", validation.Errors)
	}
	for _, w := range validation.Warnings {
		log.Printf("[Ingest] %s: %s", job.FileRef, w)
	}

	system := job.ClassificationSystem
	if system == "" || system == "auto-detect" {
		system = p.rec.DetectSystem(validation.DetectedClasses)
		log.Printf("[Ingest] Detected classification system %s for %s", system, job.FileRef)
	}
	mapping := p.rec.Reconcile(system, validation.DetectedClasses)
	if err := mapping.SyncCounters(); err != nil {
		return nil, err
	}

	kind := job.Kind
	if kind == "" {
		kind = model.KindCustomerPrivate
	}
	owner := model.OwnedBy(job.TenantID)
	priority := 1
	if kind == model.KindGlobalBaseline {
		owner = model.GlobalOwner()
		priority = 0
	}

	ds, err := model.NewDataset(job.Name, owner, kind, system,
		validation.ResolutionMeters, validation.Bounds, priority)
	if err != nil {
		return nil, err
	}
	ds.PixelCount = validation.PixelCount
	ds.SizeMB = job.EstimatedSizeMB

	cog, err := p.processor.ConvertToCOG(job.FileRef)
	if err != nil {
		// The record still registers so the failure is visible to the tenant.
		ds.Status = model.StatusFailed
		if regErr := p.store.RegisterDataset(ds, nil, nil); regErr != nil {
			return nil, fmt.Errorf("register failed dataset: %w", regErr)
		}
		return ds, fmt.Errorf("convert to COG: %w", err)
	}

	ds.Status = model.StatusProcessed
	ds.COGRef = cog.OutputRef
	ds.Processing = &model.ProcessingMeta{
		Format:            validation.Format,
		CompressionRatio:  cog.CompressionRatio,
		ProcessingSeconds: cog.ProcessingSeconds,
	}

	coverage, err := model.CoverageFromBounds(ds)
	if err != nil {
		return nil, err
	}

	if err := p.store.RegisterDataset(ds, coverage, mapping); err != nil {
		return nil, fmt.Errorf("register dataset: %w", err)
	}
	return ds, nil
}

// HandleResult updates the per-tenant ingest counters.
func HandleResult(tenantID uuid.UUID, err error) {
	if err != nil {
		metrics.IngestFailed.WithLabelValues(tenantID.String()).Inc()
		return
	}
	metrics.IngestProcessed.WithLabelValues(tenantID.String()).Inc()
}

// SeedGlobalBaseline registers the shared global dataset when none exists.
// It mirrors an ingest run but is driven at startup rather than by a queue.
func SeedGlobalBaseline(p *Pipeline, store storage.Store, fileRef string) (*model.Dataset, error) {
	datasets, err := store.ListDatasets()
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	for _, ds := range datasets {
		if ds.Kind == model.KindGlobalBaseline {
			return ds, nil
		}
	}

	validation, err := p.processor.Validate(fileRef, model.KindGlobalBaseline)
	if err != nil {
		return nil, fmt.Errorf("validate global baseline: %w", err)
	}
	if !validation.Valid {
		return nil, fmt.Errorf("global baseline rejected: %v", validation.Errors)
	}
	system := p.rec.DetectSystem(validation.DetectedClasses)
	mapping := p.rec.Reconcile(system, validation.DetectedClasses)
	if err := mapping.SyncCounters(); err != nil {
		return nil, err
	}

	ds, err := model.NewDataset("global-baseline", model.GlobalOwner(), model.KindGlobalBaseline,
		system, validation.ResolutionMeters, validation.Bounds, 0)
	if err != nil {
		return nil, err
	}
	ds.PixelCount = validation.PixelCount
	ds.Status = model.StatusProcessed
	ds.COGRef = fileRef

	coverage, err := model.NewCoverage(ds, geo.FromBBox(ds.Bounds))
	if err != nil {
		return nil, err
	}
	if err := store.RegisterDataset(ds, coverage, mapping); err != nil {
		return nil, fmt.Errorf("register global baseline: %w", err)
	}
	log.Printf("[Ingest] Seeded global baseline dataset %s (%s)", ds.ID, system)
	return ds, nil
}
