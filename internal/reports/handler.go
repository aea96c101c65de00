package reports

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/queue"
	"github.com/podcastflow/backend/pkg/response"
	"github.com/podcastflow/backend/pkg/storage"
)

// CreateReportRequest is the body for POST /api/reports.
type CreateReportRequest struct {
	Type        string    `json:"type" binding:"required"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}

// Handler handles the asynchronous report surface (report:run upstream).
type Handler struct {
	repo   *Repository
	queue  *queue.Queue
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a reports handler.
func NewHandler(repo *Repository, q *queue.Queue, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, queue: q, s3: s3, logger: logger}
}

// List handles GET /api/reports. Executor failures degrade to an empty list.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), middleware.TenantSchema(c))
	if err != nil {
		response.OKDegraded(c, []models.Report{})
		return
	}
	if list == nil {
		list = []models.Report{}
	}
	response.OK(c, list)
}

// Get handles GET /api/reports/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}
	rep, err := h.repo.GetByID(c.Request.Context(), middleware.TenantSchema(c), id)
	if err != nil {
		response.NotFound(c, "report not found")
		return
	}
	response.OK(c, rep)
}

// Create handles POST /api/reports. Inserts a pending record, then enqueues a
// generation job carrying the correlation ID. The report row survives even if
// the enqueue fails; it is marked failed so the caller sees the outcome.
func (h *Handler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidReportType(req.Type) {
		response.BadRequest(c, "unknown report type "+req.Type)
		return
	}
	if !req.PeriodEnd.After(req.PeriodStart) {
		response.BadRequest(c, "period end must be after period start")
		return
	}

	schema := middleware.TenantSchema(c)
	rep := &models.Report{
		Type:          req.Type,
		Status:        models.ReportStatusPending,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
		CorrelationID: uuid.New().String(),
		RequestedBy:   middleware.UserID(c),
	}
	if err := h.repo.Create(c.Request.Context(), schema, rep); err != nil {
		response.Internal(c, "failed to create report")
		return
	}

	payload := queue.ReportPayload{
		ReportID:      rep.ID,
		OrgSlug:       middleware.OrgSlug(c),
		ReportType:    rep.Type,
		PeriodStart:   rep.PeriodStart,
		PeriodEnd:     rep.PeriodEnd,
		CorrelationID: rep.CorrelationID,
	}
	if err := h.queue.EnqueueReport(c.Request.Context(), payload); err != nil {
		h.logger.Error("report enqueue failed",
			zap.String("report_id", rep.ID.String()),
			zap.String("correlation_id", rep.CorrelationID),
			zap.Error(err))
		_ = h.repo.MarkFailed(c.Request.Context(), schema, rep.ID, "enqueue failed")
		response.Internal(c, "failed to queue report generation")
		return
	}
	response.Created(c, rep)
}

// DownloadURL handles GET /api/reports/:id/download-url. Returns a pre-signed
// S3 URL for a completed report.
func (h *Handler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}
	if h.s3 == nil {
		response.Internal(c, "report storage is not configured")
		return
	}
	rep, err := h.repo.GetByID(c.Request.Context(), middleware.TenantSchema(c), id)
	if err != nil {
		response.NotFound(c, "report not found")
		return
	}
	if rep.Status != models.ReportStatusCompleted || rep.S3Key == "" {
		response.BadRequest(c, "report is not ready for download")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.ReportsBucket(), rep.S3Key, h.s3.PresignExpire())
	if err != nil {
		response.Internal(c, "failed to generate download link")
		return
	}
	response.OK(c, gin.H{"url": url, "expires_in_seconds": int(h.s3.PresignExpire().Seconds())})
}
