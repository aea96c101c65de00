package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is an org-wide key/value setting, writable by master/admin only.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedBy uuid.UUID `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryExclusivity marks an advertiser category as exclusive: at most one
// active campaign in that category at a time.
type CategoryExclusivity struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Exclusive bool      `json:"exclusive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
