package models

import (
	"time"

	"github.com/google/uuid"
)

// Report types.
const (
	ReportCampaignPerformance = "campaign_performance"
	ReportRevenueByShow       = "revenue_by_show"
	ReportInvoiceAging        = "invoice_aging"
)

// ValidReportType reports whether s names a known report type.
func ValidReportType(s string) bool {
	return s == ReportCampaignPerformance || s == ReportRevenueByShow || s == ReportInvoiceAging
}

// Report status values.
const (
	ReportStatusPending   = "pending"
	ReportStatusRunning   = "running"
	ReportStatusCompleted = "completed"
	ReportStatusFailed    = "failed"
)

// Report is an asynchronous report generation request. The worker fills in
// S3Key and flips Status; CorrelationID ties failures back to the request.
type Report struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	PeriodStart   time.Time  `json:"period_start"`
	PeriodEnd     time.Time  `json:"period_end"`
	S3Key         string     `json:"-"`
	Error         string     `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id"`
	RequestedBy   uuid.UUID  `json:"requested_by"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
