package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status values.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// Order is an insertion order referencing a campaign.
type Order struct {
	ID          uuid.UUID `json:"id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	Number      string    `json:"number"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Invoice status values. Transitions are one-directional
// (draft -> sent -> paid/void) except for administrative reopen.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
	InvoiceStatusVoid  = "void"
)

// Invoice is a billing document for a campaign. TotalCents must reconcile
// against the sum of its line items at write time.
type Invoice struct {
	ID         uuid.UUID     `json:"id"`
	CampaignID uuid.UUID     `json:"campaign_id"`
	OrderID    *uuid.UUID    `json:"order_id,omitempty"`
	Number     string        `json:"number"`
	TotalCents int64         `json:"total_cents"`
	Status     string        `json:"status"`
	DueDate    *time.Time    `json:"due_date,omitempty"`
	LineItems  []InvoiceLine `json:"line_items,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// InvoiceLine is one line item on an invoice.
type InvoiceLine struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitCents   int64     `json:"unit_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// AmountCents returns the line total.
func (l InvoiceLine) AmountCents() int64 {
	return int64(l.Quantity) * l.UnitCents
}

// InvoiceTransitionAllowed reports whether an invoice status change is legal.
// adminOverride permits the paid/void -> draft correction path.
func InvoiceTransitionAllowed(from, to string, adminOverride bool) bool {
	switch from {
	case InvoiceStatusDraft:
		return to == InvoiceStatusSent || to == InvoiceStatusVoid
	case InvoiceStatusSent:
		return to == InvoiceStatusPaid || to == InvoiceStatusVoid
	case InvoiceStatusPaid, InvoiceStatusVoid:
		return adminOverride && to == InvoiceStatusDraft
	}
	return false
}

// ReconcileInvoice reports whether total matches the summed line items.
func ReconcileInvoice(total int64, lines []InvoiceLine) bool {
	var sum int64
	for _, l := range lines {
		sum += l.AmountCents()
	}
	return sum == total
}
