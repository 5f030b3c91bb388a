// internal/model/tenant.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	QuotaMB      float64   `json:"quota_mb"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewTenant(name, contactEmail string, quotaMB float64) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Invalid("name", "tenant name must not be empty")
	}
	if quotaMB <= 0 {
		return nil, Invalid("quota_mb", "storage quota must be positive, got %v", quotaMB)
	}
	return &Tenant{
		ID:           uuid.New(),
		Name:         name,
		ContactEmail: contactEmail,
		QuotaMB:      quotaMB,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
