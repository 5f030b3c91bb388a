// internal/api/mapping_handlers.go
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fuelmap/internal/model"
	"fuelmap/internal/reconciler"
)

// @Summary Reconciliation record for a source classification system
// @Tags Mappings
// @Security ApiKeyAuth
// @Produce json
// @Param source path string true "Source classification system"
// @Success 200 {object} map[string]interface{}
// @Router /mappings/{source} [get]
func (a *API) GetMapping(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")

	m, err := a.Store.GetMapping(source)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mapping":         m,
		"auto_mappable":   m.AutoMappable(),
		"needs_review":    m.NeedsReview(a.Rec.ReviewThreshold()),
		"recommendations": a.Rec.Recommendations(m.Unmapped),
	})
}

type applyMappingRequest struct {
	Target int `json:"target"`
}

// @Summary Manually map one source class onto the canonical taxonomy
// @Tags Mappings
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param source path string true "Source classification system"
// @Param code path int true "Source class code"
// @Param mapping body applyMappingRequest true "Canonical target class"
// @Success 200 {object} model.ClassMapping
// @Router /mappings/{source}/{code} [put]
func (a *API) ApplyMapping(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, model.Invalid("code", "source class code must be an integer"))
		return
	}

	var req applyMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.Invalid("body", "invalid JSON: %v", err))
		return
	}
	if a.Rec.ClassName(req.Target) == "" {
		writeError(w, model.Invalid("target", "class %d is not a canonical fuel class", req.Target))
		return
	}

	seed := func() *model.ClassMapping {
		return model.NewClassMapping(source, reconciler.CanonicalSystem)
	}
	m, err := a.TenantMgr.UpdateMapping(source, seed, func(m *model.ClassMapping) error {
		m.ApplyManual(code, req.Target)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// @Summary Remove a mapping entry, returning the class to the unmapped set
// @Tags Mappings
// @Security ApiKeyAuth
// @Produce json
// @Param source path string true "Source classification system"
// @Param code path int true "Source class code"
// @Success 200 {object} model.ClassMapping
// @Router /mappings/{source}/{code} [delete]
func (a *API) RemoveMapping(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, model.Invalid("code", "source class code must be an integer"))
		return
	}

	m, err := a.TenantMgr.UpdateMapping(source, nil, func(m *model.ClassMapping) error {
		return m.RemoveEntry(code)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
