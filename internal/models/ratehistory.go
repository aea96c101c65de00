package models

import (
	"time"

	"github.com/google/uuid"
)

// RateHistory is a time-bounded rate-card entry for a show and placement type.
// Intervals are half-open [EffectiveDate, EndDate); a nil EndDate means the
// rate is open-ended. Intervals for the same show must not overlap.
type RateHistory struct {
	ID            uuid.UUID  `json:"id"`
	ShowID        uuid.UUID  `json:"show_id"`
	Placement     string     `json:"placement"`
	RateCents     int64      `json:"rate_cents"`
	EffectiveDate time.Time  `json:"effective_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Covers reports whether the rate entry is in force on the given date.
func (r *RateHistory) Covers(date time.Time) bool {
	if date.Before(r.EffectiveDate) {
		return false
	}
	if r.EndDate != nil && !date.Before(*r.EndDate) {
		return false
	}
	return true
}
