package models

import (
	"time"

	"github.com/google/uuid"
)

// Show is a podcast property that carries episodes and rate cards.
type Show struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Host        string     `json:"host"`
	Category    string     `json:"category,omitempty"`
	ActiveFrom  time.Time  `json:"active_from"`
	ActiveUntil *time.Time `json:"active_until,omitempty"` // nil = open-ended
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WindowContains reports whether a date falls inside the show's active window.
func (s *Show) WindowContains(date time.Time) bool {
	if date.Before(s.ActiveFrom) {
		return false
	}
	if s.ActiveUntil != nil && date.After(*s.ActiveUntil) {
		return false
	}
	return true
}

// Episode belongs to a show.
type Episode struct {
	ID          uuid.UUID `json:"id"`
	ShowID      uuid.UUID `json:"show_id"`
	Title       string    `json:"title"`
	Number      int       `json:"number"`
	AirDate     time.Time `json:"air_date"`
	DurationSec int       `json:"duration_sec"`
	ExternalID  string    `json:"external_id,omitempty"` // Megaphone episode ID when imported
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
