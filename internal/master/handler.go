package master

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
)

// PutSettingRequest is the body for PUT /api/master/settings/:key.
type PutSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// ExclusivityRequest is the body for PUT /api/master/exclusivity.
type ExclusivityRequest struct {
	Category  string `json:"category" binding:"required"`
	Exclusive *bool  `json:"exclusive" binding:"required"`
}

// Store is the settings persistence surface the handler needs. Satisfied by
// *Repository; narrow so handler tests can substitute a fake.
type Store interface {
	ListSettings(ctx context.Context, schema string) ([]models.Setting, error)
	PutSetting(ctx context.Context, schema string, s *models.Setting) error
	ListExclusivity(ctx context.Context, schema string) ([]models.CategoryExclusivity, error)
	SetExclusivity(ctx context.Context, schema string, e *models.CategoryExclusivity) error
}

// Handler handles the master settings surface. Reads are open to every
// authenticated role; writes require master:manage upstream.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates a master-settings handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// ListSettings handles GET /api/master/settings. Executor failures degrade to
// an empty list.
func (h *Handler) ListSettings(c *gin.Context) {
	list, err := h.repo.ListSettings(c.Request.Context(), middleware.TenantSchema(c))
	if err != nil {
		response.OKDegraded(c, []models.Setting{})
		return
	}
	if list == nil {
		list = []models.Setting{}
	}
	response.OK(c, list)
}

// PutSetting handles PUT /api/master/settings/:key.
func (h *Handler) PutSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.BadRequest(c, "missing setting key")
		return
	}
	var req PutSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s := &models.Setting{Key: key, Value: req.Value, UpdatedBy: middleware.UserID(c)}
	if err := h.repo.PutSetting(c.Request.Context(), middleware.TenantSchema(c), s); err != nil {
		response.Internal(c, "failed to save setting")
		return
	}
	response.OK(c, s)
}

// ListExclusivity handles GET /api/master/exclusivity.
func (h *Handler) ListExclusivity(c *gin.Context) {
	list, err := h.repo.ListExclusivity(c.Request.Context(), middleware.TenantSchema(c))
	if err != nil {
		response.OKDegraded(c, []models.CategoryExclusivity{})
		return
	}
	if list == nil {
		list = []models.CategoryExclusivity{}
	}
	response.OK(c, list)
}

// SetExclusivity handles PUT /api/master/exclusivity.
func (h *Handler) SetExclusivity(c *gin.Context) {
	var req ExclusivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e := &models.CategoryExclusivity{Category: req.Category, Exclusive: *req.Exclusive}
	if err := h.repo.SetExclusivity(c.Request.Context(), middleware.TenantSchema(c), e); err != nil {
		response.Internal(c, "failed to save exclusivity rule")
		return
	}
	response.OK(c, e)
}
