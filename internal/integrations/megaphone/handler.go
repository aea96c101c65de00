package megaphone

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/shows"
	"github.com/podcastflow/backend/pkg/response"
)

// ImportRequest is the body for POST /api/megaphone/import.
type ImportRequest struct {
	ShowID    uuid.UUID `json:"show_id" binding:"required"`
	PodcastID string    `json:"podcast_id" binding:"required"`
}

// Handler exposes the /api/megaphone surface.
type Handler struct {
	client *Client
	shows  *shows.Repository
	logger *zap.Logger
}

// NewHandler creates a Megaphone integration handler.
func NewHandler(client *Client, showRepo *shows.Repository, logger *zap.Logger) *Handler {
	return &Handler{client: client, shows: showRepo, logger: logger}
}

// GetPodcast handles GET /api/megaphone/podcasts/:id.
func (h *Handler) GetPodcast(c *gin.Context) {
	p, err := h.client.FetchPodcast(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Internal(c, "megaphone lookup failed")
		return
	}
	response.OK(c, p)
}

// Import handles POST /api/megaphone/import: fetches a podcast's episodes and
// upserts them into the show, keyed by external ID so re-imports refresh
// rather than duplicate.
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	schema := middleware.TenantSchema(c)
	if _, err := h.shows.GetShow(ctx, schema, req.ShowID); err != nil {
		response.NotFound(c, "show not found")
		return
	}

	episodes, err := h.client.FetchEpisodes(ctx, req.PodcastID)
	if err != nil {
		response.Internal(c, "megaphone episode fetch failed")
		return
	}

	imported := 0
	for _, src := range episodes {
		e := &models.Episode{
			ShowID:      req.ShowID,
			Title:       src.Title,
			Number:      src.Number,
			AirDate:     src.PubDate,
			DurationSec: src.DurationSec,
			ExternalID:  src.ID,
		}
		if err := h.shows.UpsertEpisodeByExternalID(ctx, schema, e); err != nil {
			h.logger.Warn("episode upsert failed",
				zap.String("podcast_id", req.PodcastID),
				zap.String("external_id", src.ID),
				zap.Error(err))
			continue
		}
		imported++
	}
	response.OK(c, gin.H{"imported": imported, "fetched": len(episodes)})
}
