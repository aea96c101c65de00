package youtube

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/pkg/response"
)

// Handler exposes the /api/youtube surface.
type Handler struct {
	client *Client
	quota  *QuotaTracker
	logger *zap.Logger
}

// NewHandler creates a YouTube integration handler.
func NewHandler(client *Client, quota *QuotaTracker, logger *zap.Logger) *Handler {
	return &Handler{client: client, quota: quota, logger: logger}
}

// GetChannel handles GET /api/youtube/channels/:id.
func (h *Handler) GetChannel(c *gin.Context) {
	ch, err := h.client.FetchChannel(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			response.TooManyRequests(c, "youtube quota exceeded, try again tomorrow")
			return
		}
		response.Internal(c, "youtube lookup failed")
		return
	}
	response.OK(c, ch)
}

// GetVideo handles GET /api/youtube/videos/:id.
func (h *Handler) GetVideo(c *gin.Context) {
	v, err := h.client.FetchVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			response.TooManyRequests(c, "youtube quota exceeded, try again tomorrow")
			return
		}
		response.Internal(c, "youtube lookup failed")
		return
	}
	response.OK(c, v)
}

// QuotaStatus handles GET /api/youtube/quota.
func (h *Handler) QuotaStatus(c *gin.Context) {
	used, err := h.quota.Used(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to read quota usage")
		return
	}
	response.OK(c, gin.H{"used": used, "limit": h.quota.Limit()})
}
