// internal/api/query_handlers.go
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fuelmap/internal/access"
	"fuelmap/internal/auth"
	"fuelmap/internal/gaps"
	"fuelmap/internal/geo"
	"fuelmap/internal/metrics"
	"fuelmap/internal/model"
	"fuelmap/internal/resolver"
)

// maxGridN bounds the cost of a single region or gap request.
const maxGridN = 200

func (a *API) loadEngine() (*resolver.Engine, error) {
	datasets, err := a.Store.ListDatasets()
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	coverages, err := a.Store.ListCoverages()
	if err != nil {
		return nil, fmt.Errorf("list coverages: %w", err)
	}
	return resolver.NewEngine(datasets, coverages), nil
}

func parsePoint(r *http.Request) (geo.Point, error) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		return geo.Point{}, err
	}
	lon, err := queryFloat(r, "lon")
	if err != nil {
		return geo.Point{}, err
	}
	p := geo.Point{Lon: lon, Lat: lat}
	if err := p.Validate(); err != nil {
		return geo.Point{}, model.Invalid("point", "%v", err)
	}
	return p, nil
}

func parseBBox(r *http.Request) (geo.BBox, error) {
	var b geo.BBox
	var err error
	if b.MinLon, err = queryFloat(r, "min_lon"); err != nil {
		return b, err
	}
	if b.MinLat, err = queryFloat(r, "min_lat"); err != nil {
		return b, err
	}
	if b.MaxLon, err = queryFloat(r, "max_lon"); err != nil {
		return b, err
	}
	if b.MaxLat, err = queryFloat(r, "max_lat"); err != nil {
		return b, err
	}
	if err := b.Validate(); err != nil {
		return b, model.Invalid("bbox", "%v", err)
	}
	return b, nil
}

func dataSource(kind model.DatasetKind) string {
	if kind == model.KindGlobalBaseline {
		return "global_baseline"
	}
	return "customer_private"
}

type pointPayload struct {
	FuelClass       int         `json:"fuel_class"`
	FuelClassName   string      `json:"fuel_class_name,omitempty"`
	SourceDatasetID uuid.UUID   `json:"source_dataset_id"`
	Resolution      float64     `json:"resolution_meters"`
	Priority        int         `json:"priority"`
	DataSource      string      `json:"data_source"`
	ShadowedSources []uuid.UUID `json:"shadowed_sources,omitempty"`
}

func (a *API) pointPayload(e *resolver.Engine, p geo.Point, res resolver.Resolution) (*pointPayload, error) {
	ds := e.Dataset(res.Primary.DatasetID)
	if ds == nil {
		return nil, model.Violated("coverage %s has no dataset", res.Primary.DatasetID)
	}
	fuelClass, err := a.Processor.ReadPixel(ds.COGRef, p.Lon, p.Lat)
	if err != nil {
		return nil, fmt.Errorf("read pixel: %w", err)
	}
	payload := &pointPayload{
		FuelClass:       fuelClass,
		FuelClassName:   a.Rec.ClassName(fuelClass),
		SourceDatasetID: ds.ID,
		Resolution:      res.Primary.ResolutionMeters,
		Priority:        res.Primary.Priority,
		DataSource:      dataSource(ds.Kind),
	}
	for _, s := range res.Shadowed {
		payload.ShadowedSources = append(payload.ShadowedSources, s.DatasetID)
	}
	return payload, nil
}

// @Summary Resolve the fuel class at a point
// @Tags Query
// @Security ApiKeyAuth
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} map[string]interface{}
// @Router /query/point [get]
func (a *API) PointQuery(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	p, err := parsePoint(r)
	if err != nil {
		writeError(w, err)
		return
	}

	engine, err := a.loadEngine()
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	res := engine.Resolve(tenantID, p)
	metrics.ResolveDuration.Observe(time.Since(start).Seconds())

	// No accessible coverage here is a normal outcome, distinct from both
	// "denied" and "malformed".
	if res.Primary == nil {
		metrics.PointQueries.WithLabelValues("no_data").Inc()
		writeJSON(w, http.StatusOK, map[string]any{
			"data_available": false,
			"message":        "no data available at this location",
		})
		return
	}

	payload, err := a.pointPayload(engine, p, res)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.PointQueries.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"data_available": true,
		"result":         payload,
	})
}

// @Summary Resolve a sample grid over a region
// @Tags Query
// @Security ApiKeyAuth
// @Produce json
// @Param min_lon query number true "West edge"
// @Param min_lat query number true "South edge"
// @Param max_lon query number true "East edge"
// @Param max_lat query number true "North edge"
// @Param grid query int false "Grid resolution (n x n)"
// @Success 200 {object} map[string]interface{}
// @Router /query/region [get]
func (a *API) RegionQuery(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	b, err := parseBBox(r)
	if err != nil {
		writeError(w, err)
		return
	}
	gridN, err := queryInt(r, "grid", a.Cfg.DefaultGridN)
	if err != nil {
		writeError(w, err)
		return
	}
	if gridN < 1 || gridN > maxGridN {
		writeError(w, model.Invalid("grid", "must be between 1 and %d", maxGridN))
		return
	}

	engine, err := a.loadEngine()
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	grid := engine.ResolveBBox(tenantID, b, gridN)
	metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	metrics.RegionQueries.Inc()

	results := make([]map[string]any, 0, len(grid.Points))
	for _, pr := range grid.Points {
		entry := map[string]any{
			"lat":            pr.Point.Lat,
			"lon":            pr.Point.Lon,
			"data_available": pr.Primary != nil,
		}
		if pr.Primary != nil {
			payload, err := a.pointPayload(engine, pr.Point, pr.Resolution)
			if err != nil {
				writeError(w, err)
				return
			}
			entry["result"] = payload
		}
		results = append(results, entry)
	}

	summary := map[string]any{"primary_source": nil}
	if grid.DominantSource != nil {
		summary["primary_source"] = grid.DominantSource.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results":         results,
		"point_count":     grid.SampleCount,
		"grid_resolution": gridN,
		"data_source":     summary,
	})
}

// @Summary Coverage footprints visible to the tenant as GeoJSON
// @Tags Query
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /coverage [get]
func (a *API) Coverage(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	datasets, err := a.Store.ListDatasets()
	if err != nil {
		writeError(w, err)
		return
	}
	byID := make(map[uuid.UUID]*model.Dataset, len(datasets))
	for _, ds := range datasets {
		byID[ds.ID] = ds
	}

	coverages, err := a.Store.ListCoverages()
	if err != nil {
		writeError(w, err)
		return
	}

	features := make([]map[string]any, 0, len(coverages))
	for _, c := range coverages {
		ds, found := byID[c.DatasetID]
		if !found || !access.Check(tenantID, ds).HasAccess {
			continue
		}
		coords := make([][]float64, 0, len(c.Footprint.Ring))
		for _, v := range c.Footprint.Ring {
			coords = append(coords, []float64{v.Lon, v.Lat})
		}
		dsType := "customer"
		if ds.Kind == model.KindGlobalBaseline {
			dsType = "global"
		}
		features = append(features, map[string]any{
			"type": "Feature",
			"properties": map[string]any{
				"dataset_id":            ds.ID,
				"dataset_name":          ds.Name,
				"type":                  dsType,
				"priority":              c.Priority,
				"resolution":            c.ResolutionMeters,
				"classification_system": ds.ClassificationSystem,
				"status":                ds.Status,
			},
			"geometry": map[string]any{
				"type":        "Polygon",
				"coordinates": [][][]float64{coords},
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	})
}

// @Summary Coverage gap statistics over a region
// @Tags Query
// @Security ApiKeyAuth
// @Produce json
// @Param min_lon query number true "West edge"
// @Param min_lat query number true "South edge"
// @Param max_lon query number true "East edge"
// @Param max_lat query number true "North edge"
// @Param grid query int false "Sample density (n x n)"
// @Success 200 {object} gaps.Statistics
// @Router /gaps [get]
func (a *API) GapAnalysis(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	b, err := parseBBox(r)
	if err != nil {
		writeError(w, err)
		return
	}
	gridN, err := queryInt(r, "grid", a.Cfg.DefaultGridN)
	if err != nil {
		writeError(w, err)
		return
	}
	if gridN < 1 || gridN > maxGridN {
		writeError(w, model.Invalid("grid", "must be between 1 and %d", maxGridN))
		return
	}

	engine, err := a.loadEngine()
	if err != nil {
		writeError(w, err)
		return
	}

	stats := gaps.Analyze(engine, tenantID, b, gridN)
	metrics.GapSamples.Add(float64(stats.SampleCount))
	writeJSON(w, http.StatusOK, stats)
}
