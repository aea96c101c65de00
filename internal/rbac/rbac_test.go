package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/podcastflow/backend/internal/models"
)

func TestRBAC_Can(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		role models.Role
		cap  Capability
		want bool
	}{
		// Master and admin hold everything
		{"Master can manage master settings", models.RoleMaster, CapMasterManage, true},
		{"Master can write rate cards", models.RoleMaster, CapRateCardWrite, true},
		{"Admin can write rate cards", models.RoleAdmin, CapRateCardWrite, true},
		{"Admin can manage users", models.RoleAdmin, CapUserManage, true},
		{"Admin can write billing", models.RoleAdmin, CapBillingWrite, true},

		// Sales
		{"Sales can write campaigns", models.RoleSales, CapCampaignWrite, true},
		{"Sales can write schedules", models.RoleSales, CapScheduleWrite, true},
		{"Sales can write billing", models.RoleSales, CapBillingWrite, true},
		{"Sales CANNOT write rate cards", models.RoleSales, CapRateCardWrite, false},
		{"Sales CANNOT manage users", models.RoleSales, CapUserManage, false},
		{"Sales CANNOT manage master settings", models.RoleSales, CapMasterManage, false},

		// Producer
		{"Producer can write schedules", models.RoleProducer, CapScheduleWrite, true},
		{"Producer CANNOT write campaigns", models.RoleProducer, CapCampaignWrite, false},
		{"Producer CANNOT write rate cards", models.RoleProducer, CapRateCardWrite, false},

		// Read-only roles
		{"Talent can read", models.RoleTalent, CapRead, true},
		{"Talent CANNOT write schedules", models.RoleTalent, CapScheduleWrite, false},
		{"Client can read", models.RoleClient, CapRead, true},
		{"Client CANNOT run reports", models.RoleClient, CapReportRun, false},
		{"Client CANNOT write campaigns", models.RoleClient, CapCampaignWrite, false},

		// Unknown role
		{"Unknown role holds nothing", models.Role("superuser"), CapRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Can(tt.role, tt.cap))
		})
	}
}

func TestRBAC_CanManageUsers(t *testing.T) {
	r := New()
	assert.True(t, r.CanManageUsers(models.RoleMaster))
	assert.True(t, r.CanManageUsers(models.RoleAdmin))
	assert.False(t, r.CanManageUsers(models.RoleSales))
	assert.False(t, r.CanManageUsers(models.RoleProducer))
	assert.False(t, r.CanManageUsers(models.RoleTalent))
	assert.False(t, r.CanManageUsers(models.RoleClient))
}
