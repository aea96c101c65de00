package campaigns

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
)

// Store is the campaign persistence surface the handler needs. Satisfied by
// *Repository; narrow so handler tests can substitute a fake.
type Store interface {
	List(ctx context.Context, schema, status string) ([]models.Campaign, error)
	GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.Campaign, error)
	Create(ctx context.Context, schema string, cm *models.Campaign) error
	Update(ctx context.Context, schema string, cm *models.Campaign) error
	UpdateStatus(ctx context.Context, schema string, id uuid.UUID, status string) error
	CountActiveInCategory(ctx context.Context, schema, category string, exclude uuid.UUID) (int, error)
}

// ExclusivityChecker reports whether a category is marked exclusive.
// Implemented by the master settings repository.
type ExclusivityChecker interface {
	IsCategoryExclusive(ctx context.Context, schema, category string) (bool, error)
}

// CreateCampaignRequest is the body for POST /api/campaigns.
type CreateCampaignRequest struct {
	Name        string    `json:"name" binding:"required"`
	Advertiser  string    `json:"advertiser" binding:"required"`
	Agency      string    `json:"agency"`
	Category    string    `json:"category"`
	BudgetCents int64     `json:"budget_cents" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// UpdateStatusRequest is the body for PUT /api/campaigns/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles campaign HTTP endpoints.
type Handler struct {
	repo        Store
	exclusivity ExclusivityChecker
	logger      *zap.Logger
}

// NewHandler creates a campaigns handler.
func NewHandler(repo Store, exclusivity ExclusivityChecker, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, exclusivity: exclusivity, logger: logger}
}

// List handles GET /api/campaigns. Executor failures degrade to an empty list.
func (h *Handler) List(c *gin.Context) {
	schema := middleware.TenantSchema(c)
	list, err := h.repo.List(c.Request.Context(), schema, c.Query("status"))
	if err != nil {
		response.OKDegraded(c, []models.Campaign{})
		return
	}
	if list == nil {
		list = []models.Campaign{}
	}
	response.OK(c, list)
}

// Get handles GET /api/campaigns/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	cm, err := h.repo.GetByID(c.Request.Context(), middleware.TenantSchema(c), id)
	if err != nil {
		response.NotFound(c, "campaign not found")
		return
	}
	response.OK(c, cm)
}

// Create handles POST /api/campaigns (campaign:write upstream).
func (h *Handler) Create(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.BudgetCents <= 0 {
		response.BadRequest(c, "budget must be positive")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		response.BadRequest(c, "end date must be after start date")
		return
	}

	cm := &models.Campaign{
		Name:        req.Name,
		Advertiser:  req.Advertiser,
		Agency:      req.Agency,
		Category:    req.Category,
		BudgetCents: req.BudgetCents,
		Status:      models.CampaignStatusDraft,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   middleware.UserID(c),
	}
	if err := h.repo.Create(c.Request.Context(), middleware.TenantSchema(c), cm); err != nil {
		response.Internal(c, "failed to create campaign")
		return
	}
	response.Created(c, cm)
}

// Update handles PUT /api/campaigns/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.EndDate.After(req.StartDate) {
		response.BadRequest(c, "end date must be after start date")
		return
	}

	schema := middleware.TenantSchema(c)
	cm, err := h.repo.GetByID(c.Request.Context(), schema, id)
	if err != nil {
		response.NotFound(c, "campaign not found")
		return
	}
	cm.Name = req.Name
	cm.Advertiser = req.Advertiser
	cm.Agency = req.Agency
	cm.Category = req.Category
	cm.BudgetCents = req.BudgetCents
	cm.StartDate = req.StartDate
	cm.EndDate = req.EndDate

	if err := h.repo.Update(c.Request.Context(), schema, cm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "campaign not found")
			return
		}
		response.Internal(c, "failed to update campaign")
		return
	}
	response.OK(c, cm)
}

// UpdateStatus handles PUT /api/campaigns/:id/status. Enforces the lifecycle
// state machine and the category-exclusivity rule on activation.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	schema := middleware.TenantSchema(c)
	cm, err := h.repo.GetByID(c.Request.Context(), schema, id)
	if err != nil {
		response.NotFound(c, "campaign not found")
		return
	}
	if !models.CampaignTransitionAllowed(cm.Status, req.Status) {
		response.BadRequest(c, "illegal status transition "+cm.Status+" -> "+req.Status)
		return
	}

	if req.Status == models.CampaignStatusActive && cm.Category != "" {
		exclusive, err := h.exclusivity.IsCategoryExclusive(c.Request.Context(), schema, cm.Category)
		if err != nil {
			response.Internal(c, "failed to check category exclusivity")
			return
		}
		if exclusive {
			n, err := h.repo.CountActiveInCategory(c.Request.Context(), schema, cm.Category, cm.ID)
			if err != nil {
				response.Internal(c, "failed to check category exclusivity")
				return
			}
			if n > 0 {
				response.Conflict(c, "category "+cm.Category+" is exclusive and already has an active campaign")
				return
			}
		}
	}

	if err := h.repo.UpdateStatus(c.Request.Context(), schema, id, req.Status); err != nil {
		response.Internal(c, "failed to update status")
		return
	}
	cm.Status = req.Status
	response.OK(c, cm)
}
