// internal/api/respond.go
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"fuelmap/internal/model"
	"fuelmap/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Validation and
// authorization failures carry their reason; invariant violations are a
// core bug and surface as a generic internal error.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *model.ValidationError
		ae *model.AuthorizationError
		iv *model.InvariantViolation
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": ve.Reason,
			"field": ve.Field,
		})
	case errors.As(err, &ae):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": ae.Reason})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &iv):
		log.Printf("INVARIANT VIOLATION: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	default:
		log.Printf("API error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, model.Invalid(name, "missing required parameter")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, model.Invalid(name, "not a number: %q", raw)
	}
	return v, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.Invalid(name, "not an integer: %q", raw)
	}
	return v, nil
}
