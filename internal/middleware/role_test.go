package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/podcastflow/backend/internal/rbac"
)

func capRouter(role string, cap rbac.Capability) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected",
		func(c *gin.Context) { c.Set(ContextUserRole, role) },
		RequireCapability(rbac.New(), cap),
		func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{"ok": true}) },
	)
	return r
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name string
		role string
		cap  rbac.Capability
		want int
	}{
		{"admin can write campaigns", "admin", rbac.CapCampaignWrite, http.StatusCreated},
		{"sales can write campaigns", "sales", rbac.CapCampaignWrite, http.StatusCreated},
		{"client cannot write campaigns", "client", rbac.CapCampaignWrite, http.StatusForbidden},
		{"talent cannot manage users", "talent", rbac.CapUserManage, http.StatusForbidden},
		{"producer cannot write rate cards", "producer", rbac.CapRateCardWrite, http.StatusForbidden},
		{"master can manage settings", "master", rbac.CapMasterManage, http.StatusCreated},
		{"unknown role denied", "intern", rbac.CapRead, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := capRouter(tt.role, tt.cap)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

// A denied write must not change state, so repeating it yields the same 403.
func TestRequireCapability_DenialIsRepeatable(t *testing.T) {
	router := capRouter("client", rbac.CapCampaignWrite)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	}
}

func TestRequireCapability_MissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected",
		RequireCapability(rbac.New(), rbac.CapRead),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
