package master

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/rbac"
	"github.com/podcastflow/backend/pkg/response"
)

type fakeStore struct {
	settings []models.Setting
	rules    []models.CategoryExclusivity
	err      error
}

func (f *fakeStore) ListSettings(ctx context.Context, schema string) ([]models.Setting, error) {
	return f.settings, f.err
}

func (f *fakeStore) PutSetting(ctx context.Context, schema string, s *models.Setting) error {
	return f.err
}

func (f *fakeStore) ListExclusivity(ctx context.Context, schema string) ([]models.CategoryExclusivity, error) {
	return f.rules, f.err
}

func (f *fakeStore) SetExclusivity(ctx context.Context, schema string, e *models.CategoryExclusivity) error {
	return f.err
}

// Mirrors the server's route wiring: reads open to any authenticated role,
// writes behind master:manage.
func settingsRouter(store Store, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, zap.NewNop())
	perms := rbac.New()
	inject := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New())
		c.Set(middleware.ContextUserRole, role)
		c.Set(middleware.ContextTenantSchema, "org_acme")
	}
	r := gin.New()
	r.GET("/master/settings", inject, h.ListSettings)
	r.PUT("/master/settings/:key", inject, middleware.RequireCapability(perms, rbac.CapMasterManage), h.PutSetting)
	r.GET("/master/exclusivity", inject, h.ListExclusivity)
	r.PUT("/master/exclusivity", inject, middleware.RequireCapability(perms, rbac.CapMasterManage), h.SetExclusivity)
	return r
}

func TestSettings_ReadableByEveryRole(t *testing.T) {
	store := &fakeStore{
		settings: []models.Setting{{Key: "billing_email", Value: "ap@acme.test"}},
		rules:    []models.CategoryExclusivity{{Category: "automotive", Exclusive: true}},
	}
	for _, role := range []string{"master", "admin", "sales", "producer", "talent", "client"} {
		t.Run(role, func(t *testing.T) {
			router := settingsRouter(store, role)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/master/settings", nil))
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/master/exclusivity", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestSettings_WritesRequireMasterManage(t *testing.T) {
	store := &fakeStore{}

	salesRouter := settingsRouter(store, "sales")
	w := httptest.NewRecorder()
	salesRouter.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/master/settings/billing_email",
		bytes.NewBufferString(`{"value":"ap@acme.test"}`)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	salesRouter.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/master/exclusivity",
		bytes.NewBufferString(`{"category":"automotive","exclusive":true}`)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminRouter := settingsRouter(store, "admin")
	w = httptest.NewRecorder()
	adminRouter.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/master/settings/billing_email",
		bytes.NewBufferString(`{"value":"ap@acme.test"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

// A failing tenant read must not masquerade as a genuinely empty list.
func TestListSettings_DegradedOnStoreFailure(t *testing.T) {
	router := settingsRouter(&fakeStore{err: context.DeadlineExceeded}, "client")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/master/settings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Degraded)
	assert.Empty(t, body.Data)
}
