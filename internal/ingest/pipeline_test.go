// internal/ingest/pipeline_test.go
package ingest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fuelmap/internal/model"
	"fuelmap/internal/raster"
	"fuelmap/internal/reconciler"
	"fuelmap/internal/storage"
)

func newTestPipeline(t *testing.T) (*Pipeline, *storage.Memory, *model.Tenant) {
	t.Helper()
	store := storage.NewMemory()
	tenant, err := model.NewTenant("acme", "ops@acme.test", 1000)
	require.NoError(t, err)
	require.NoError(t, store.PutTenant(tenant))

	rec := reconciler.New(reconciler.DefaultReviewThreshold)
	return NewPipeline(store, raster.NewSimulated(), rec), store, tenant
}

func TestProcessRegistersDataset(t *testing.T) {
	p, store, tenant := newTestPipeline(t)

	ds, err := p.Process(Job{
		TenantID:             tenant.ID,
		FileRef:              "upload.tif",
		Name:                 "norcal-fuel",
		ClassificationSystem: "auto-detect",
		EstimatedSizeMB:      100,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusProcessed, ds.Status)
	require.Equal(t, model.KindCustomerPrivate, ds.Kind)
	require.Equal(t, 1, ds.Priority)
	require.True(t, ds.Owner.Is(tenant.ID))
	require.NotEmpty(t, ds.COGRef)
	require.NotEmpty(t, ds.ClassificationSystem)

	// Dataset, coverage and mapping land together.
	got, err := store.GetDataset(ds.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, got.SizeMB)

	c, err := store.GetCoverage(ds.ID)
	require.NoError(t, err)
	require.Equal(t, 1, c.Priority)
	require.Equal(t, ds.Bounds, c.Footprint.BBox())

	m, err := store.GetMapping(ds.ClassificationSystem)
	require.NoError(t, err)
	require.NoError(t, m.SyncCounters())
}

func TestProcessRejectsUnsupportedFormat(t *testing.T) {
	p, store, tenant := newTestPipeline(t)

	_, err := p.Process(Job{
		TenantID:        tenant.ID,
		FileRef:         "upload.png",
		Name:            "bad",
		EstimatedSizeMB: 10,
	})
	require.Error(t, err)

	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)

	datasets, err := store.ListDatasets()
	require.NoError(t, err)
	require.Empty(t, datasets)
}

func TestProcessEnforcesQuota(t *testing.T) {
	p, store, tenant := newTestPipeline(t)

	_, err := p.Process(Job{
		TenantID:        tenant.ID,
		FileRef:         "huge.tif",
		Name:            "huge",
		EstimatedSizeMB: 1500,
	})
	require.Error(t, err)

	var ae *model.AuthorizationError
	require.ErrorAs(t, err, &ae)

	// Denied before any raster work: nothing registered.
	datasets, err := store.ListDatasets()
	require.NoError(t, err)
	require.Empty(t, datasets)
}

func TestProcessQuotaCountsCommittedStorage(t *testing.T) {
	p, _, tenant := newTestPipeline(t)

	_, err := p.Process(Job{TenantID: tenant.ID, FileRef: "a.tif", Name: "a", EstimatedSizeMB: 600})
	require.NoError(t, err)

	_, err = p.Process(Job{TenantID: tenant.ID, FileRef: "b.tif", Name: "b", EstimatedSizeMB: 600})
	require.Error(t, err)

	var ae *model.AuthorizationError
	require.ErrorAs(t, err, &ae)
}

func TestProcessUnknownTenant(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	_, err := p.Process(Job{TenantID: uuid.New(), FileRef: "a.tif", Name: "a"})
	require.Error(t, err)

	var ae *model.AuthorizationError
	require.ErrorAs(t, err, &ae)
}

func TestSeedGlobalBaselineIdempotent(t *testing.T) {
	p, store, _ := newTestPipeline(t)

	first, err := SeedGlobalBaseline(p, store, "global_baseline.tif")
	require.NoError(t, err)
	require.Equal(t, model.KindGlobalBaseline, first.Kind)
	require.Equal(t, 0, first.Priority)
	require.True(t, first.Owner.IsGlobal())
	require.Equal(t, model.VisibilityPublic, first.Access.Visibility)

	second, err := SeedGlobalBaseline(p, store, "global_baseline.tif")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	datasets, err := store.ListDatasets()
	require.NoError(t, err)
	require.Len(t, datasets, 1)
}
