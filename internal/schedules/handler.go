package schedules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/campaigns"
	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/ratecards"
	"github.com/podcastflow/backend/internal/shows"
	"github.com/podcastflow/backend/pkg/response"
)

// CreateItemRequest is the body for POST /api/schedules. NegotiatedCents is
// optional; when omitted the rate-card price in force on the air date is used.
type CreateItemRequest struct {
	CampaignID      uuid.UUID `json:"campaign_id" binding:"required"`
	ShowID          uuid.UUID `json:"show_id" binding:"required"`
	EpisodeID       uuid.UUID `json:"episode_id" binding:"required"`
	AirDate         time.Time `json:"air_date" binding:"required"`
	Placement       string    `json:"placement" binding:"required"`
	NegotiatedCents *int64    `json:"negotiated_cents"`
}

// UpdateNegotiatedRequest is the body for PUT /api/schedules/:id/negotiated.
type UpdateNegotiatedRequest struct {
	NegotiatedCents int64 `json:"negotiated_cents" binding:"required"`
}

// Handler handles schedule HTTP endpoints.
type Handler struct {
	repo      *Repository
	campaigns *campaigns.Repository
	shows     *shows.Repository
	rates     *ratecards.Repository
	logger    *zap.Logger
}

// NewHandler creates a schedules handler.
func NewHandler(repo *Repository, campaignRepo *campaigns.Repository, showRepo *shows.Repository, rateRepo *ratecards.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, campaigns: campaignRepo, shows: showRepo, rates: rateRepo, logger: logger}
}

// ListByCampaign handles GET /api/campaigns/:id/schedule. Executor failures
// degrade to an empty list.
func (h *Handler) ListByCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}
	list, err := h.repo.ListByCampaign(c.Request.Context(), middleware.TenantSchema(c), campaignID)
	if err != nil {
		response.OKDegraded(c, []models.ScheduleItem{})
		return
	}
	if list == nil {
		list = []models.ScheduleItem{}
	}
	response.OK(c, list)
}

// ListByShow handles GET /api/shows/:id/schedule.
func (h *Handler) ListByShow(c *gin.Context) {
	showID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid show id")
		return
	}
	list, err := h.repo.ListByShow(c.Request.Context(), middleware.TenantSchema(c), showID)
	if err != nil {
		response.OKDegraded(c, []models.ScheduleItem{})
		return
	}
	if list == nil {
		list = []models.ScheduleItem{}
	}
	response.OK(c, list)
}

// Create handles POST /api/schedules (schedule:write upstream). The episode
// must belong to the named show, the air date must fall inside the show's
// active window, and a rate-card entry must be in force on the air date.
func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidPlacement(req.Placement) {
		response.BadRequest(c, "unknown placement type "+req.Placement)
		return
	}
	if req.NegotiatedCents != nil && *req.NegotiatedCents <= 0 {
		response.BadRequest(c, "negotiated price must be positive")
		return
	}

	ctx := c.Request.Context()
	schema := middleware.TenantSchema(c)

	cm, err := h.campaigns.GetByID(ctx, schema, req.CampaignID)
	if err != nil {
		response.NotFound(c, "campaign not found")
		return
	}
	if cm.Status == models.CampaignStatusCompleted {
		response.BadRequest(c, "cannot schedule against a completed campaign")
		return
	}

	show, err := h.shows.GetShow(ctx, schema, req.ShowID)
	if err != nil {
		response.NotFound(c, "show not found")
		return
	}
	if !show.WindowContains(req.AirDate) {
		response.BadRequest(c, "air date outside the show's active window")
		return
	}

	ep, err := h.shows.GetEpisode(ctx, schema, req.EpisodeID)
	if err != nil {
		response.NotFound(c, "episode not found")
		return
	}
	if ep.ShowID != req.ShowID {
		response.BadRequest(c, "episode does not belong to the named show")
		return
	}

	rate, err := h.rates.RateFor(ctx, schema, req.ShowID, req.Placement, req.AirDate)
	if err != nil {
		response.Internal(c, "failed to load rate card")
		return
	}
	if rate == nil {
		response.BadRequest(c, "no rate in force for this placement on the air date")
		return
	}

	negotiated := rate.RateCents
	if req.NegotiatedCents != nil {
		negotiated = *req.NegotiatedCents
	}

	it := &models.ScheduleItem{
		CampaignID:      req.CampaignID,
		ShowID:          req.ShowID,
		EpisodeID:       req.EpisodeID,
		AirDate:         req.AirDate,
		Placement:       req.Placement,
		RateCents:       rate.RateCents,
		NegotiatedCents: negotiated,
	}
	if err := h.repo.Create(ctx, schema, it); err != nil {
		response.Internal(c, "failed to create schedule item")
		return
	}
	response.Created(c, it)
}

// UpdateNegotiated handles PUT /api/schedules/:id/negotiated.
func (h *Handler) UpdateNegotiated(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid schedule item id")
		return
	}
	var req UpdateNegotiatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.NegotiatedCents <= 0 {
		response.BadRequest(c, "negotiated price must be positive")
		return
	}
	schema := middleware.TenantSchema(c)
	if err := h.repo.UpdateNegotiated(c.Request.Context(), schema, id, req.NegotiatedCents); err != nil {
		response.NotFound(c, "schedule item not found")
		return
	}
	it, err := h.repo.GetByID(c.Request.Context(), schema, id)
	if err != nil {
		response.Internal(c, "failed to load schedule item")
		return
	}
	response.OK(c, it)
}

// Delete handles DELETE /api/schedules/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid schedule item id")
		return
	}
	ok, err := h.repo.Delete(c.Request.Context(), middleware.TenantSchema(c), id)
	if err != nil {
		response.Internal(c, "failed to delete schedule item")
		return
	}
	if !ok {
		response.NotFound(c, "schedule item not found")
		return
	}
	response.NoContent(c)
}
