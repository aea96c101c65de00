package ratecards

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
)

// CreateRateRequest is the body for POST /api/shows/:id/rates.
type CreateRateRequest struct {
	Placement     string     `json:"placement" binding:"required"`
	RateCents     int64      `json:"rate_cents" binding:"required"`
	EffectiveDate time.Time  `json:"effective_date" binding:"required"`
	EndDate       *time.Time `json:"end_date"`
}

// Handler handles rate-card HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a rate-cards handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/shows/:id/rates. Executor failures degrade to an
// empty list.
func (h *Handler) List(c *gin.Context) {
	showID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid show id")
		return
	}
	list, err := h.repo.ListForShow(c.Request.Context(), middleware.TenantSchema(c), showID)
	if err != nil {
		response.OKDegraded(c, []models.RateHistory{})
		return
	}
	if list == nil {
		list = []models.RateHistory{}
	}
	response.OK(c, list)
}

// Create handles POST /api/shows/:id/rates (ratecard:write upstream). A new
// entry must not overlap an existing entry for the same placement.
func (h *Handler) Create(c *gin.Context) {
	showID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid show id")
		return
	}
	var req CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidPlacement(req.Placement) {
		response.BadRequest(c, "unknown placement type "+req.Placement)
		return
	}

	schema := middleware.TenantSchema(c)
	existing, err := h.repo.ListForShow(c.Request.Context(), schema, showID)
	if err != nil {
		response.Internal(c, "failed to load rate history")
		return
	}

	cand := Candidate{
		Placement:     req.Placement,
		RateCents:     req.RateCents,
		EffectiveDate: req.EffectiveDate,
		EndDate:       req.EndDate,
	}
	if err := Validate(cand, existing); err != nil {
		switch {
		case errors.Is(err, ErrOverlap):
			response.BadRequest(c, "rate interval overlaps an existing entry")
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(c, "rate must be positive")
		default:
			response.BadRequest(c, "end date must be after effective date")
		}
		return
	}

	entry := &models.RateHistory{
		ShowID:        showID,
		Placement:     req.Placement,
		RateCents:     req.RateCents,
		EffectiveDate: req.EffectiveDate,
		EndDate:       req.EndDate,
		CreatedBy:     middleware.UserID(c),
	}
	if err := h.repo.Create(c.Request.Context(), schema, entry); err != nil {
		response.Internal(c, "failed to create rate entry")
		return
	}
	response.Created(c, entry)
}

// Delete handles DELETE /api/shows/:id/rates/:rateID (ratecard:write upstream).
func (h *Handler) Delete(c *gin.Context) {
	rateID, err := uuid.Parse(c.Param("rateID"))
	if err != nil {
		response.BadRequest(c, "invalid rate id")
		return
	}
	ok, err := h.repo.Delete(c.Request.Context(), middleware.TenantSchema(c), rateID)
	if err != nil {
		response.Internal(c, "failed to delete rate entry")
		return
	}
	if !ok {
		response.NotFound(c, "rate entry not found")
		return
	}
	response.NoContent(c)
}
