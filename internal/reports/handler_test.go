package reports

import (
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
	"github.com/podcastflow/backend/pkg/response"
)

func downloadRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	inject := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New())
		c.Set(middleware.ContextTenantSchema, "org_acme")
	}
	r.GET("/reports/:id/download-url", inject, h.DownloadURL)
	return r
}

// The server runs without S3 when storage init fails; download requests then
// get a clean error instead of a panic.
func TestDownloadURL_StorageNotConfigured(t *testing.T) {
	router := downloadRouter(NewHandler(nil, nil, nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/"+uuid.New().String()+"/download-url", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "report storage is not configured")
}

func TestDownloadURL_InvalidID(t *testing.T) {
	router := downloadRouter(NewHandler(nil, nil, nil, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/not-a-uuid/download-url", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
