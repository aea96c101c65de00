package billing

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/podcastflow/backend/internal/campaigns"
	"github.com/podcastflow/backend/internal/middleware"
	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/pkg/response"
)

// CreateOrderRequest is the body for POST /api/orders.
type CreateOrderRequest struct {
	CampaignID  uuid.UUID `json:"campaign_id" binding:"required"`
	Number      string    `json:"number" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"required"`
}

// LineRequest is one invoice line in CreateInvoiceRequest.
type LineRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	UnitCents   int64  `json:"unit_cents" binding:"required"`
}

// CreateInvoiceRequest is the body for POST /api/invoices. TotalCents must
// equal the sum of quantity*unit_cents across lines.
type CreateInvoiceRequest struct {
	CampaignID uuid.UUID     `json:"campaign_id" binding:"required"`
	OrderID    *uuid.UUID    `json:"order_id"`
	Number     string        `json:"number" binding:"required"`
	TotalCents int64         `json:"total_cents" binding:"required"`
	DueDate    *time.Time    `json:"due_date"`
	Lines      []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// StatusRequest is the body for order and invoice status updates.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Handler handles order and invoice HTTP endpoints.
type Handler struct {
	repo      *Repository
	campaigns *campaigns.Repository
	logger    *zap.Logger
}

// NewHandler creates a billing handler.
func NewHandler(repo *Repository, campaignRepo *campaigns.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, campaigns: campaignRepo, logger: logger}
}

// ListOrders handles GET /api/orders. Executor failures degrade to an empty
// list.
func (h *Handler) ListOrders(c *gin.Context) {
	list, err := h.repo.ListOrders(c.Request.Context(), middleware.TenantSchema(c))
	if err != nil {
		response.OKDegraded(c, []models.Order{})
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	response.OK(c, list)
}

// CreateOrder handles POST /api/orders (billing:write upstream).
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.AmountCents <= 0 {
		response.BadRequest(c, "amount must be positive")
		return
	}

	schema := middleware.TenantSchema(c)
	if _, err := h.campaigns.GetByID(c.Request.Context(), schema, req.CampaignID); err != nil {
		response.NotFound(c, "campaign not found")
		return
	}

	o := &models.Order{
		CampaignID:  req.CampaignID,
		Number:      req.Number,
		AmountCents: req.AmountCents,
		Status:      models.OrderStatusPending,
		CreatedBy:   middleware.UserID(c),
	}
	if err := h.repo.CreateOrder(c.Request.Context(), schema, o); err != nil {
		response.Internal(c, "failed to create order")
		return
	}
	response.Created(c, o)
}

// UpdateOrderStatus handles PUT /api/orders/:id/status.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Status != models.OrderStatusConfirmed && req.Status != models.OrderStatusCancelled {
		response.BadRequest(c, "unknown order status "+req.Status)
		return
	}

	schema := middleware.TenantSchema(c)
	o, err := h.repo.GetOrder(c.Request.Context(), schema, id)
	if err != nil {
		response.NotFound(c, "order not found")
		return
	}
	if o.Status != models.OrderStatusPending {
		response.BadRequest(c, "order is already "+o.Status)
		return
	}
	if err := h.repo.UpdateOrderStatus(c.Request.Context(), schema, id, req.Status); err != nil {
		response.Internal(c, "failed to update order")
		return
	}
	o.Status = req.Status
	response.OK(c, o)
}

// ListInvoices handles GET /api/invoices with optional ?campaign_id filter.
func (h *Handler) ListInvoices(c *gin.Context) {
	var campaignID *uuid.UUID
	if s := c.Query("campaign_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid campaign id")
			return
		}
		campaignID = &id
	}
	list, err := h.repo.ListInvoices(c.Request.Context(), middleware.TenantSchema(c), campaignID)
	if err != nil {
		response.OKDegraded(c, []models.Invoice{})
		return
	}
	if list == nil {
		list = []models.Invoice{}
	}
	response.OK(c, list)
}

// GetInvoice handles GET /api/invoices/:id.
func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invoice id")
		return
	}
	inv, err := h.repo.GetInvoice(c.Request.Context(), middleware.TenantSchema(c), id)
	if err != nil {
		response.NotFound(c, "invoice not found")
		return
	}
	response.OK(c, inv)
}

// CreateInvoice handles POST /api/invoices (billing:write upstream). The
// stated total must reconcile against the line items, and the header plus
// lines are written in a single transaction.
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	lines := make([]models.InvoiceLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.Quantity <= 0 || l.UnitCents <= 0 {
			response.BadRequest(c, "line quantity and unit price must be positive")
			return
		}
		lines = append(lines, models.InvoiceLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCents:   l.UnitCents,
		})
	}
	if !models.ReconcileInvoice(req.TotalCents, lines) {
		response.BadRequest(c, "total does not match the sum of line items")
		return
	}

	schema := middleware.TenantSchema(c)
	if _, err := h.campaigns.GetByID(c.Request.Context(), schema, req.CampaignID); err != nil {
		response.NotFound(c, "campaign not found")
		return
	}

	inv := &models.Invoice{
		CampaignID: req.CampaignID,
		OrderID:    req.OrderID,
		Number:     req.Number,
		TotalCents: req.TotalCents,
		Status:     models.InvoiceStatusDraft,
		DueDate:    req.DueDate,
		LineItems:  lines,
	}
	if err := h.repo.CreateInvoice(c.Request.Context(), schema, inv); err != nil {
		response.Internal(c, "failed to create invoice")
		return
	}
	response.Created(c, inv)
}

// UpdateInvoiceStatus handles PUT /api/invoices/:id/status. Reopening a paid
// or void invoice back to draft requires an admin-level caller.
func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invoice id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	schema := middleware.TenantSchema(c)
	inv, err := h.repo.GetInvoice(c.Request.Context(), schema, id)
	if err != nil {
		response.NotFound(c, "invoice not found")
		return
	}

	role := models.Role(middleware.Role(c))
	adminOverride := role == models.RoleAdmin || role == models.RoleMaster
	if !models.InvoiceTransitionAllowed(inv.Status, req.Status, adminOverride) {
		response.BadRequest(c, "illegal invoice transition "+inv.Status+" -> "+req.Status)
		return
	}
	if err := h.repo.UpdateInvoiceStatus(c.Request.Context(), schema, id, req.Status); err != nil {
		response.Internal(c, "failed to update invoice")
		return
	}
	inv.Status = req.Status
	response.OK(c, inv)
}
