package ratecards

import (
	"errors"
	"time"

	"github.com/podcastflow/backend/internal/models"
)

// Rejection reasons surfaced to API callers as 400s.
var (
	ErrOverlap       = errors.New("overlap")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidRange  = errors.New("invalid_range")
)

// Candidate is a rate entry being validated against a show's existing entries.
type Candidate struct {
	Placement     string
	RateCents     int64
	EffectiveDate time.Time
	EndDate       *time.Time // nil = open-ended
}

// Validate rejects non-positive amounts, inverted ranges and intervals that
// overlap an existing entry for the same show and placement. Intervals are
// half-open [effective, end): an entry ending 2025-09-01 and one starting
// 2025-09-01 do not overlap.
func Validate(cand Candidate, existing []models.RateHistory) error {
	if cand.RateCents <= 0 {
		return ErrInvalidAmount
	}
	if cand.EndDate != nil && !cand.EndDate.After(cand.EffectiveDate) {
		return ErrInvalidRange
	}
	for i := range existing {
		if existing[i].Placement != cand.Placement {
			continue
		}
		if intervalsOverlap(cand.EffectiveDate, cand.EndDate, existing[i].EffectiveDate, existing[i].EndDate) {
			return ErrOverlap
		}
	}
	return nil
}

// intervalsOverlap reports whether half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A nil end is unbounded.
func intervalsOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && !aEnd.After(bStart) {
		return false
	}
	if bEnd != nil && !bEnd.After(aStart) {
		return false
	}
	return true
}

// RateInForce returns the rate entry covering a date for a placement, or nil.
func RateInForce(entries []models.RateHistory, placement string, date time.Time) *models.RateHistory {
	for i := range entries {
		if entries[i].Placement == placement && entries[i].Covers(date) {
			return &entries[i]
		}
	}
	return nil
}
