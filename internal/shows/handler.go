package shows

import (
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

// ShowRequest is the body for POST/PUT /api/shows.
type ShowRequest struct {
	Name        string     `json:"name" binding:"required"`
	Host        string     `json:"host"`
	Category    string     `json:"category"`
	ActiveFrom  time.Time  `json:"active_from" binding:"required"`
	ActiveUntil *time.Time `json:"active_until"`
}

// EpisodeRequest is the body for POST /api/shows/:id/episodes.
type EpisodeRequest struct {
	Title       string    `json:"title" binding:"required"`
	Number      int       `json:"number"`
	AirDate     time.Time `json:"air_date" binding:"required"`
	DurationSec int       `json:"duration_sec"`
}

// Handler handles show and episode HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a shows handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/shows.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.ListShows(c.Request.Context(), middleware.TenantSchema(c))
	if err != nil {
		response.OKDegraded(c, []models.Show{})
		return
	}
	if list == nil {
		list = []models.Show{}
	}
	response.OK(c, list)
}

// Get handles GET /api/shows/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid show id")
		return
	}
	s, err := h.repo.GetShow(c.Request.Context(), middleware.TenantSchema(c), id)
	if err != nil {
		response.NotFound(c, "show not found")
		return
	}
	response.OK(c, s)
}

// Create handles POST /api/shows.
func (h *Handler) Create(c *gin.Context) {
	var req ShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.ActiveUntil != nil && !req.ActiveUntil.After(req.ActiveFrom) {
		response.BadRequest(c, "active window end must be after start")
		return
	}

	s := &models.Show{
		Name:        req.Name,
		Host:        req.Host,
		Category:    req.Category,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
		Status:      "active",
	}
	if err := h.repo.CreateShow(c.Request.Context(), middleware.TenantSchema(c), s); err != nil {
		response.Internal(c, "failed to create show")
		return
	}
	response.Created(c, s)
}

// Update handles PUT /api/shows/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid show id")
		return
	}
	var req ShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	schema := middleware.TenantSchema(c)
	s, err := h.repo.GetShow(c.Request.Context(), schema, id)
	if err != nil {
		response.NotFound(c, "show not found")
		return
	}
	s.Name = req.Name
	s.Host = req.Host
	s.Category = req.Category
	s.ActiveFrom = req.ActiveFrom
	s.ActiveUntil = req.ActiveUntil

	if err := h.repo.UpdateShow(c.Request.Context(), schema, s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "show not found")
			return
		}
		response.Internal(c, "failed to update show")
		return
	}
	response.OK(c, s)
}

// ListEpisodes handles GET /api/shows/:id/episodes.
func (h *Handler) ListEpisodes(c *gin.Context) {
	showID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid show id")
		return
	}
	list, err := h.repo.ListEpisodes(c.Request.Context(), middleware.TenantSchema(c), showID)
	if err != nil {
		response.OKDegraded(c, []models.Episode{})
		return
	}
	if list == nil {
		list = []models.Episode{}
	}
	response.OK(c, list)
}

// CreateEpisode handles POST /api/shows/:id/episodes. The episode's air date
// must fall inside the show's active window.
func (h *Handler) CreateEpisode(c *gin.Context) {
	showID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid show id")
		return
	}
	var req EpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	schema := middleware.TenantSchema(c)
	show, err := h.repo.GetShow(c.Request.Context(), schema, showID)
	if err != nil {
		response.NotFound(c, "show not found")
		return
	}
	if !show.WindowContains(req.AirDate) {
		response.BadRequest(c, "air date outside the show's active window")
		return
	}

	e := &models.Episode{
		ShowID:      showID,
		Title:       req.Title,
		Number:      req.Number,
		AirDate:     req.AirDate,
		DurationSec: req.DurationSec,
	}
	if err := h.repo.CreateEpisode(c.Request.Context(), schema, e); err != nil {
		response.Internal(c, "failed to create episode")
		return
	}
	response.Created(c, e)
}
