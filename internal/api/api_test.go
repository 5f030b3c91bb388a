// internal/api/api_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fuelmap/internal/auth"
	"fuelmap/internal/config"
	"fuelmap/internal/geo"
	"fuelmap/internal/model"
	"fuelmap/internal/raster"
	"fuelmap/internal/reconciler"
	"fuelmap/internal/storage"
)

var (
	conusBounds  = geo.BBox{MinLon: -125, MinLat: 32, MaxLon: -102, MaxLat: 49}
	norcalBounds = geo.BBox{MinLon: -123, MinLat: 39, MaxLon: -122, MaxLat: 40}
)

type fixture struct {
	api      *API
	handler  http.Handler
	store    *storage.Memory
	owner    *model.Tenant
	stranger *model.Tenant
	private  *model.Dataset
	global   *model.Dataset
}

// newFixture wires the read path end to end: memory store, simulated raster
// reads, one global baseline and one private dataset. Write endpoints that
// need the queue-backed tenant manager are covered by the integration tests.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	auth.SetSecret("test-secret")

	store := storage.NewMemory()

	owner, err := model.NewTenant("owner", "o@test", 1000)
	require.NoError(t, err)
	stranger, err := model.NewTenant("stranger", "s@test", 1000)
	require.NoError(t, err)
	require.NoError(t, store.PutTenant(owner))
	require.NoError(t, store.PutTenant(stranger))

	global, err := model.NewDataset("global-baseline", model.GlobalOwner(), model.KindGlobalBaseline, "FBFM40", 30.0, conusBounds, 0)
	require.NoError(t, err)
	global.Status = model.StatusProcessed
	global.COGRef = "global.cog.tif"
	gc, err := model.CoverageFromBounds(global)
	require.NoError(t, err)
	require.NoError(t, store.RegisterDataset(global, gc, nil))

	private, err := model.NewDataset("norcal-10m", model.OwnedBy(owner.ID), model.KindCustomerPrivate, "FBFM40", 10.0, norcalBounds, 1)
	require.NoError(t, err)
	private.Status = model.StatusProcessed
	private.SizeMB = 120
	private.COGRef = "norcal.cog.tif"
	pc, err := model.CoverageFromBounds(private)
	require.NoError(t, err)
	require.NoError(t, store.RegisterDataset(private, pc, nil))

	cfg := &config.Config{DefaultGridN: 10, DefaultQuotaMB: 1024, ReviewThreshold: 0.5}
	a := NewAPI(store, nil, reconciler.New(0.5), raster.NewSimulated(), cfg)
	return &fixture{
		api:      a,
		handler:  a.Router(),
		store:    store,
		owner:    owner,
		stranger: stranger,
		private:  private,
		global:   global,
	}
}

func (f *fixture) get(t *testing.T, tenant *model.Tenant, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tenant != nil {
		token, err := auth.GenerateToken(tenant.ID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, nil, "/health")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestPointQueryPrivateWins(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, f.owner, "/query/point?lat=39.5&lon=-122.5")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	require.Equal(t, true, body["data_available"])

	result := body["result"].(map[string]any)
	require.Equal(t, f.private.ID.String(), result["source_dataset_id"])
	require.Equal(t, 10.0, result["resolution_meters"])
	require.Equal(t, "customer_private", result["data_source"])

	shadowed := result["shadowed_sources"].([]any)
	require.Len(t, shadowed, 1)
	require.Equal(t, f.global.ID.String(), shadowed[0])
}

func TestPointQueryDeniedFallsToGlobal(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, f.stranger, "/query/point?lat=39.5&lon=-122.5")
	require.Equal(t, http.StatusOK, rr.Code)

	result := decode(t, rr)["result"].(map[string]any)
	require.Equal(t, f.global.ID.String(), result["source_dataset_id"])
	require.Equal(t, "global_baseline", result["data_source"])
	require.Nil(t, result["shadowed_sources"])
}

func TestPointQueryNoData(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, f.owner, "/query/point?lat=40&lon=-80")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	require.Equal(t, false, body["data_available"])
}

func TestPointQueryValidation(t *testing.T) {
	f := newFixture(t)

	rr := f.get(t, f.owner, "/query/point?lat=39.5")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "lon", decode(t, rr)["field"])

	rr = f.get(t, f.owner, "/query/point?lat=95&lon=-122.5")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPointQueryRequiresToken(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, nil, "/query/point?lat=39.5&lon=-122.5")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegionQuery(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, f.owner, "/query/region?min_lon=-122.9&min_lat=39.1&max_lon=-122.1&max_lat=39.9&grid=3")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	require.Equal(t, 9.0, body["point_count"])
	require.Len(t, body["results"].([]any), 9)

	summary := body["data_source"].(map[string]any)
	require.Equal(t, f.private.ID.String(), summary["primary_source"])
}

func TestRegionQueryGridBounds(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, f.owner, "/query/region?min_lon=-123&min_lat=39&max_lon=-122&max_lat=40&grid=5000")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCoverageFiltersDenied(t *testing.T) {
	f := newFixture(t)

	rr := f.get(t, f.owner, "/coverage")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	require.Equal(t, "FeatureCollection", body["type"])
	require.Len(t, body["features"].([]any), 2)

	// The stranger sees only the global footprint.
	rr = f.get(t, f.stranger, "/coverage")
	features := decode(t, rr)["features"].([]any)
	require.Len(t, features, 1)
	props := features[0].(map[string]any)["properties"].(map[string]any)
	require.Equal(t, "global", props["type"])
}

func TestGapAnalysis(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, f.owner, "/gaps?min_lon=-122.9&min_lat=39.1&max_lon=-122.1&max_lat=39.9&grid=5")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	require.Equal(t, 25.0, body["sample_count"])
	require.Equal(t, 1.0, body["percent_private_covered"])
	require.Equal(t, 0.0, body["percent_uncovered"])
}

func TestListDatasetsVisibility(t *testing.T) {
	f := newFixture(t)

	body := decode(t, f.get(t, f.owner, "/datasets"))
	require.Equal(t, 2.0, body["count"])

	body = decode(t, f.get(t, f.stranger, "/datasets"))
	require.Equal(t, 1.0, body["count"])
}

func TestCheckDatasetAccess(t *testing.T) {
	f := newFixture(t)

	body := decode(t, f.get(t, f.owner, "/datasets/"+f.private.ID.String()+"/access"))
	decision := body["decision"].(map[string]any)
	require.Equal(t, true, decision["has_access"])
	require.Equal(t, "owner", decision["role"])

	// Denial is a 403 carrying the reason, not a 200 with a false flag.
	rrDenied := f.get(t, f.stranger, "/datasets/"+f.private.ID.String()+"/access")
	require.Equal(t, http.StatusForbidden, rrDenied.Code)
	require.NotEmpty(t, decode(t, rrDenied)["error"])

	rr := f.get(t, f.owner, "/datasets/"+uuid.NewString()+"/access")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUploadQuotaDenied(t *testing.T) {
	f := newFixture(t)

	body := `{"file_ref":"huge.tif","name":"huge","estimated_size_mb":5000}`
	req := httptest.NewRequest(http.MethodPost, "/datasets/uploads", strings.NewReader(body))
	token, err := auth.GenerateToken(f.owner.ID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)

	// Denied before anything reaches the queue.
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Contains(t, decode(t, rr)["error"], "quota")
}

func TestTenantStatsOwnerOnly(t *testing.T) {
	f := newFixture(t)

	body := decode(t, f.get(t, f.owner, "/tenants/"+f.owner.ID.String()+"/stats"))
	require.Equal(t, 1.0, body["dataset_count"])
	require.Equal(t, 120.0, body["used_mb"])
	require.Equal(t, 1000.0, body["quota_mb"])

	rr := f.get(t, f.stranger, "/tenants/"+f.owner.ID.String()+"/stats")
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestClassificationSystems(t *testing.T) {
	f := newFixture(t)
	body := decode(t, f.get(t, nil, "/classification-systems"))
	require.Equal(t, "FBFM40", body["canonical_system"])

	systems := body["systems"].(map[string]any)
	require.Contains(t, systems, "ESRI_LULC_2023")
	require.Contains(t, systems, "LANDFIRE_US")
}

func TestGetMappingNotFound(t *testing.T) {
	f := newFixture(t)
	rr := f.get(t, f.owner, "/mappings/NEVER_SEEN")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetMapping(t *testing.T) {
	f := newFixture(t)
	m := f.api.Rec.Reconcile("ESRI_LULC_2023", []int{2, 6})
	require.NoError(t, f.store.PutMapping(m))

	body := decode(t, f.get(t, f.owner, "/mappings/ESRI_LULC_2023"))
	require.Equal(t, false, body["auto_mappable"])

	needsReview := body["needs_review"].([]any)
	require.Equal(t, []any{2.0}, needsReview)

	recs := body["recommendations"].(map[string]any)
	require.Contains(t, recs, "6")
}
