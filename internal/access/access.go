// internal/access/access.go
package access

import (
	"fmt"

	"github.com/google/uuid"

	"fuelmap/internal/model"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleShared Role = "shared"
	RoleGlobal Role = "global"
	RoleDenied Role = "denied"
)

// Decision is the outcome of an access check. Deterministic and
// side-effect-free; every tenant-scoped read goes through it.
type Decision struct {
	HasAccess bool   `json:"has_access"`
	Role      Role   `json:"role"`
	Reason    string `json:"reason,omitempty"`
}

// Check resolves the role a tenant holds on a dataset. Precedence: owner,
// then global/public, then shared, then denied.
func Check(tenantID uuid.UUID, ds *model.Dataset) Decision {
	switch {
	case ds.Owner.Is(tenantID):
		return Decision{HasAccess: true, Role: RoleOwner}
	case ds.Kind == model.KindGlobalBaseline || ds.Access.Visibility == model.VisibilityPublic:
		return Decision{HasAccess: true, Role: RoleGlobal}
	case ds.Access.Allows(tenantID):
		return Decision{HasAccess: true, Role: RoleShared}
	default:
		return Decision{
			HasAccess: false,
			Role:      RoleDenied,
			Reason:    "private dataset, not owned or shared",
		}
	}
}

// QuotaCheck is the outcome of the pure upload accounting check. It runs
// before any processing is triggered.
type QuotaCheck struct {
	CanUpload bool   `json:"can_upload"`
	Reason    string `json:"reason,omitempty"`
}

// CanUpload compares committed storage plus the estimated upload against the
// tenant quota.
func CanUpload(t *model.Tenant, committedMB, estimatedMB float64) QuotaCheck {
	if estimatedMB < 0 {
		return QuotaCheck{CanUpload: false, Reason: "estimated size must not be negative"}
	}
	if committedMB+estimatedMB > t.QuotaMB {
		return QuotaCheck{
			CanUpload: false,
			Reason: fmt.Sprintf("upload of %.1fMB would exceed quota: %.1fMB of %.1fMB used",
				estimatedMB, committedMB, t.QuotaMB),
		}
	}
	return QuotaCheck{CanUpload: true}
}

// CommittedMB sums the storage the tenant's datasets already occupy. Failed
// datasets do not count against quota.
func CommittedMB(datasets []*model.Dataset) float64 {
	var total float64
	for _, ds := range datasets {
		if ds.Status != model.StatusFailed {
			total += ds.SizeMB
		}
	}
	return total
}
