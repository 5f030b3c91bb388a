// internal/api/tenant_handlers.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fuelmap/internal/access"
	"fuelmap/internal/auth"
	"fuelmap/internal/model"
	"fuelmap/internal/reconciler"
)

// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createTenantRequest struct {
	Name         string  `json:"name"`
	ContactEmail string  `json:"contact_email"`
	QuotaMB      float64 `json:"quota_mb"`
}

// @Summary Create a tenant and start its ingest consumer
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenant body createTenantRequest true "Tenant to create"
// @Success 201 {object} map[string]interface{}
// @Router /tenants [post]
func (a *API) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.Invalid("body", "invalid JSON: %v", err))
		return
	}
	if req.QuotaMB == 0 {
		req.QuotaMB = a.Cfg.DefaultQuotaMB
	}

	tenant, err := a.TenantMgr.CreateTenant(req.Name, req.ContactEmail, req.QuotaMB)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := auth.GenerateToken(tenant.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"tenant": tenant,
		"token":  token,
	})
}

// @Summary Remove a tenant and its ingest queues
// @Tags Tenants
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} map[string]string
// @Router /tenants/{id} [delete]
func (a *API) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.Invalid("id", "invalid tenant id"))
		return
	}
	if err := a.TenantMgr.RemoveTenant(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// @Summary Storage and dataset statistics for a tenant
// @Tags Tenants
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Router /tenants/{id}/stats [get]
func (a *API) TenantStats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.Invalid("id", "invalid tenant id"))
		return
	}
	if id != callerID {
		writeError(w, model.Denied("stats are visible to the owning tenant only"))
		return
	}

	tenant, err := a.Store.GetTenant(id)
	if err != nil {
		writeError(w, err)
		return
	}
	owned, err := a.Store.ListDatasetsByOwner(id)
	if err != nil {
		writeError(w, err)
		return
	}

	byStatus := map[model.DatasetStatus]int{}
	var pixels int64
	for _, ds := range owned {
		byStatus[ds.Status]++
		pixels += ds.PixelCount
	}
	committed := access.CommittedMB(owned)
	usagePct := 0.0
	if tenant.QuotaMB > 0 {
		usagePct = 100 * committed / tenant.QuotaMB
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id":          tenant.ID,
		"tenant_name":        tenant.Name,
		"dataset_count":      len(owned),
		"datasets_by_status": byStatus,
		"total_pixels":       pixels,
		"used_mb":            committed,
		"quota_mb":           tenant.QuotaMB,
		"quota_used_percent": usagePct,
	})
}

// @Summary Supported classification systems
// @Tags Mappings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /classification-systems [get]
func (a *API) ClassificationSystems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"canonical_system": reconciler.CanonicalSystem,
		"systems":          a.Rec.Systems(),
	})
}
