// internal/api/dataset_handlers.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fuelmap/internal/access"
	"fuelmap/internal/auth"
	"fuelmap/internal/ingest"
	"fuelmap/internal/model"
)

type uploadRequest struct {
	FileRef              string  `json:"file_ref"`
	Name                 string  `json:"name"`
	ClassificationSystem string  `json:"classification_system"`
	EstimatedSizeMB      float64 `json:"estimated_size_mb"`
}

// @Summary Queue a fuel map upload for processing
// @Tags Datasets
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param upload body uploadRequest true "Upload to process"
// @Success 202 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /datasets/uploads [post]
func (a *API) UploadDataset(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.Invalid("body", "invalid JSON: %v", err))
		return
	}
	if req.FileRef == "" {
		writeError(w, model.Invalid("file_ref", "missing file reference"))
		return
	}
	if req.Name == "" {
		writeError(w, model.Invalid("name", "missing dataset name"))
		return
	}

	// Quota is pure accounting, checked here before anything is queued. The
	// pipeline re-checks under the tenant write lock before registering.
	tenant, err := a.Store.GetTenant(tenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	owned, err := a.Store.ListDatasetsByOwner(tenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	if q := access.CanUpload(tenant, access.CommittedMB(owned), req.EstimatedSizeMB); !q.CanUpload {
		writeError(w, model.Denied("%s", q.Reason))
		return
	}

	// Uploads through the API are always customer datasets; the global
	// baseline is seeded at startup, never uploaded by a tenant.
	job := ingest.Job{
		TenantID:             tenantID,
		FileRef:              req.FileRef,
		Name:                 req.Name,
		ClassificationSystem: req.ClassificationSystem,
		Kind:                 model.KindCustomerPrivate,
		EstimatedSizeMB:      req.EstimatedSizeMB,
	}
	if err := a.TenantMgr.EnqueueUpload(job); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "queued",
		"file_ref": req.FileRef,
	})
}

// @Summary List datasets visible to the tenant
// @Tags Datasets
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /datasets [get]
func (a *API) ListDatasets(w http.ResponseWriter, r *http.Request) {
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

	type entry struct {
		*model.Dataset
		Role access.Role `json:"role"`
	}
	visible := make([]entry, 0, len(datasets))
	for _, ds := range datasets {
		d := access.Check(tenantID, ds)
		if !d.HasAccess {
			continue
		}
		visible = append(visible, entry{Dataset: ds, Role: d.Role})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"datasets": visible,
		"count":    len(visible),
	})
}

// @Summary Check the caller's access to one dataset
// @Tags Datasets
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Router /datasets/{id}/access [get]
func (a *API) CheckDatasetAccess(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.Invalid("id", "invalid dataset id"))
		return
	}

	ds, err := a.Store.GetDataset(id)
	if err != nil {
		writeError(w, err)
		return
	}
	decision := access.Check(tenantID, ds)
	if !decision.HasAccess {
		writeError(w, model.Denied("%s", decision.Reason))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dataset_id": ds.ID,
		"tenant_id":  tenantID,
		"decision":   decision,
	})
}

// @Summary Delete every dataset the tenant owns
// @Tags Datasets
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} storage.PurgeResult
// @Router /datasets [delete]
func (a *API) BulkDeleteDatasets(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	res, err := a.TenantMgr.BulkDelete(tenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
