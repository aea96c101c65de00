// Package rbac centralizes role/capability checks so that individual handlers
// never compare role strings directly.
package rbac

import (
	"github.com/podcastflow/backend/internal/models"
)

// Capability is a named permission in the system.
type Capability string

const (
	CapRead          Capability = "read"
	CapCampaignWrite Capability = "campaign:write"
	CapScheduleWrite Capability = "schedule:write"
	CapRateCardWrite Capability = "ratecard:write"
	CapUserManage    Capability = "user:manage"
	CapMasterManage  Capability = "master:manage"
	CapBillingWrite  Capability = "billing:write"
	CapReportRun     Capability = "report:run"
)

// RBAC maps roles to capability sets.
type RBAC struct {
	roleCapabilities map[models.Role][]Capability
}

// New creates the capability registry with the platform's fixed role grants.
func New() *RBAC {
	r := &RBAC{roleCapabilities: make(map[models.Role][]Capability)}

	all := []Capability{
		CapRead, CapCampaignWrite, CapScheduleWrite, CapRateCardWrite,
		CapUserManage, CapMasterManage, CapBillingWrite, CapReportRun,
	}
	r.roleCapabilities[models.RoleMaster] = all
	r.roleCapabilities[models.RoleAdmin] = all

	r.roleCapabilities[models.RoleSales] = []Capability{
		CapRead, CapCampaignWrite, CapScheduleWrite, CapBillingWrite, CapReportRun,
	}
	r.roleCapabilities[models.RoleProducer] = []Capability{
		CapRead, CapScheduleWrite, CapReportRun,
	}
	r.roleCapabilities[models.RoleTalent] = []Capability{CapRead}
	r.roleCapabilities[models.RoleClient] = []Capability{CapRead}

	return r
}

// Can reports whether the role holds the capability. Unknown roles hold nothing.
func (r *RBAC) Can(role models.Role, cap Capability) bool {
	for _, c := range r.roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// CanManageUsers is a convenience check for the user-administration surface.
func (r *RBAC) CanManageUsers(role models.Role) bool {
	return r.Can(role, CapUserManage)
}
