// internal/model/dataset.go
package model

import (
	"time"

	"github.com/google/uuid"

	"fuelmap/internal/geo"
)

type DatasetKind string

const (
	KindGlobalBaseline  DatasetKind = "global_baseline"
	KindCustomerPrivate DatasetKind = "customer_private"
)

type DatasetStatus string

const (
	StatusProcessing DatasetStatus = "processing"
	StatusProcessed  DatasetStatus = "processed"
	StatusFailed     DatasetStatus = "failed"
)

type OwnerKind int

const (
	OwnerTenant OwnerKind = iota
	OwnerGlobal
)

// Ownership replaces the magic "system tenant" owner value with an explicit
// kind: a dataset is either owned by a tenant or is the global baseline.
type Ownership struct {
	Kind     OwnerKind `json:"kind"`
	TenantID uuid.UUID `json:"tenant_id,omitempty"`
}

func OwnedBy(tenantID uuid.UUID) Ownership {
	return Ownership{Kind: OwnerTenant, TenantID: tenantID}
}

func GlobalOwner() Ownership {
	return Ownership{Kind: OwnerGlobal}
}

func (o Ownership) IsGlobal() bool { return o.Kind == OwnerGlobal }

func (o Ownership) Is(tenantID uuid.UUID) bool {
	return o.Kind == OwnerTenant && o.TenantID == tenantID
}

// ProcessingMeta carries the optional results of the raster pipeline run.
type ProcessingMeta struct {
	Format            string  `json:"format,omitempty"`
	CompressionRatio  float64 `json:"compression_ratio,omitempty"`
	ProcessingSeconds float64 `json:"processing_seconds,omitempty"`
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// AccessControl is maintained alongside each dataset.
type AccessControl struct {
	Visibility     Visibility  `json:"visibility"`
	AllowedTenants []uuid.UUID `json:"allowed_tenants,omitempty"`
	PublicAccess   bool        `json:"public_access"`
}

func NewAccessControl(visibility Visibility, allowed []uuid.UUID) (AccessControl, error) {
	switch visibility {
	case VisibilityPrivate, VisibilityPublic:
	default:
		return AccessControl{}, Invalid("visibility", "unknown visibility %q", visibility)
	}
	ac := AccessControl{Visibility: visibility, AllowedTenants: allowed}
	// A public dataset must always carry public_access = true.
	ac.PublicAccess = visibility == VisibilityPublic
	return ac, nil
}

func (ac AccessControl) Allows(tenantID uuid.UUID) bool {
	for _, id := range ac.AllowedTenants {
		if id == tenantID {
			return true
		}
	}
	return false
}

type Dataset struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Owner                Ownership       `json:"owner"`
	Kind                 DatasetKind     `json:"kind"`
	ClassificationSystem string          `json:"classification_system"`
	ResolutionMeters     float64         `json:"resolution_meters"`
	Bounds               geo.BBox        `json:"bounds"`
	PixelCount           int64           `json:"pixel_count"`
	SizeMB               float64         `json:"size_mb"`
	Status               DatasetStatus   `json:"status"`
	Priority             int             `json:"priority"`
	COGRef               string          `json:"cog_ref,omitempty"`
	Access               AccessControl   `json:"access"`
	Processing           *ProcessingMeta `json:"processing,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// NewDataset enforces the kind/priority/ownership consistency invariant at
// construction time. Global baselines are priority 0 and globally owned;
// customer datasets are priority >= 1 and tenant owned.
func NewDataset(name string, owner Ownership, kind DatasetKind, system string, resolutionMeters float64, bounds geo.BBox, priority int) (*Dataset, error) {
	if name == "" {
		return nil, Invalid("name", "dataset name must not be empty")
	}
	if resolutionMeters <= 0 {
		return nil, Invalid("resolution_meters", "must be positive, got %v", resolutionMeters)
	}
	if err := bounds.Validate(); err != nil {
		return nil, Invalid("bounds", "%v", err)
	}
	switch kind {
	case KindGlobalBaseline:
		if priority != 0 {
			return nil, Violated("global baseline dataset must have priority 0, got %d", priority)
		}
		if !owner.IsGlobal() {
			return nil, Violated("global baseline dataset must be globally owned")
		}
	case KindCustomerPrivate:
		if priority < 1 {
			return nil, Violated("customer dataset must have priority >= 1, got %d", priority)
		}
		if owner.IsGlobal() {
			return nil, Violated("customer dataset must be owned by a tenant")
		}
	default:
		return nil, Invalid("kind", "unknown dataset kind %q", kind)
	}

	visibility := VisibilityPrivate
	if kind == KindGlobalBaseline {
		visibility = VisibilityPublic
	}
	ac, err := NewAccessControl(visibility, nil)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		ID:                   uuid.New(),
		Name:                 name,
		Owner:                owner,
		Kind:                 kind,
		ClassificationSystem: system,
		ResolutionMeters:     resolutionMeters,
		Bounds:               bounds,
		Status:               StatusProcessing,
		Priority:             priority,
		Access:               ac,
		CreatedAt:            time.Now().UTC(),
	}, nil
}
