package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign status values. Lifecycle: draft -> active -> paused/completed.
// Paused campaigns may resume; completed is terminal.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Campaign is an advertising campaign scoped to one tenant schema.
type Campaign struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Advertiser  string    `json:"advertiser"`
	Agency      string    `json:"agency,omitempty"`
	Category    string    `json:"category,omitempty"`
	BudgetCents int64     `json:"budget_cents"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CampaignTransitionAllowed reports whether a campaign status change is legal.
func CampaignTransitionAllowed(from, to string) bool {
	switch from {
	case CampaignStatusDraft:
		return to == CampaignStatusActive
	case CampaignStatusActive:
		return to == CampaignStatusPaused || to == CampaignStatusCompleted
	case CampaignStatusPaused:
		return to == CampaignStatusActive || to == CampaignStatusCompleted
	}
	return false
}
