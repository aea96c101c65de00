package models

import (
	"time"

	"github.com/google/uuid"
)

// Placement types for schedule items.
const (
	PlacementPreRoll  = "pre_roll"
	PlacementMidRoll  = "mid_roll"
	PlacementPostRoll = "post_roll"
)

// ValidPlacement reports whether s names a known placement type.
func ValidPlacement(s string) bool {
	return s == PlacementPreRoll || s == PlacementMidRoll || s == PlacementPostRoll
}

// ScheduleItem places a campaign ad in a specific episode/date/placement slot.
// RateCents is the rate-card price in force on the air date; NegotiatedCents
// defaults to RateCents when the request omits it.
type ScheduleItem struct {
	ID              uuid.UUID `json:"id"`
	CampaignID      uuid.UUID `json:"campaign_id"`
	ShowID          uuid.UUID `json:"show_id"`
	EpisodeID       uuid.UUID `json:"episode_id"`
	AirDate         time.Time `json:"air_date"`
	Placement       string    `json:"placement"`
	RateCents       int64     `json:"rate_cents"`
	NegotiatedCents int64     `json:"negotiated_cents"`
	Impressions     int64     `json:"impressions"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
