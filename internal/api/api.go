package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"fuelmap/internal/auth"
	"fuelmap/internal/config"
	"fuelmap/internal/manager"
	"fuelmap/internal/metrics"
	"fuelmap/internal/raster"
	"fuelmap/internal/reconciler"
	"fuelmap/internal/storage"
)

type API struct {
	Routers   *chi.Mux
	Store     storage.Store
	TenantMgr *manager.TenantManager
	Rec       *reconciler.Reconciler
	Processor raster.Processor
	Cfg       *config.Config
}

func NewAPI(store storage.Store, tm *manager.TenantManager, rec *reconciler.Reconciler, proc raster.Processor, cfg *config.Config) *API {
	return &API{
		Routers:   chi.NewRouter(),
		Store:     store,
		TenantMgr: tm,
		Rec:       rec,
		Processor: proc,
		Cfg:       cfg,
	}
}

func (a *API) Router() http.Handler {
	// Public
	a.Routers.Get("/health", a.Health)
	a.Routers.Handle("/metrics", metrics.Handler())
	a.Routers.Get("/swagger/*", httpSwagger.WrapHandler)
	a.Routers.Post("/tenants", a.CreateTenant)
	a.Routers.Delete("/tenants/{id}", a.DeleteTenant)
	a.Routers.Get("/classification-systems", a.ClassificationSystems)

	// Secured
	a.Routers.Group(func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware)

		r.Get("/tenants/{id}/stats", a.TenantStats)

		r.Post("/datasets/uploads", a.UploadDataset)
		r.Get("/datasets", a.ListDatasets)
		r.Get("/datasets/{id}/access", a.CheckDatasetAccess)
		r.Delete("/datasets", a.BulkDeleteDatasets)

		r.Get("/query/point", a.PointQuery)
		r.Get("/query/region", a.RegionQuery)
		r.Get("/coverage", a.Coverage)
		r.Get("/gaps", a.GapAnalysis)

		r.Get("/mappings/{source}", a.GetMapping)
		r.Put("/mappings/{source}/{code}", a.ApplyMapping)
		r.Delete("/mappings/{source}/{code}", a.RemoveMapping)
	})

	return a.Routers
}
