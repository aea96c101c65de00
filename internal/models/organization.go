package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization status values. Organizations are never hard-deleted; suspension
// flips the status flag and locks the tenant out at the middleware layer.
const (
	OrgStatusActive    = "active"
	OrgStatusSuspended = "suspended"
)

// Organization is a tenant record in the public schema. Slug derives the
// physical org_<slug> schema name holding the tenant's business tables.
type Organization struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	SchemaName string    `json:"-"`
	Plan       string    `json:"plan"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BillingPlan is a platform-wide plan definition.
type BillingPlan struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	PriceCents   int64     `json:"price_cents"`
	MaxUsers     int       `json:"max_users"`
	MaxCampaigns int       `json:"max_campaigns"`
	CreatedAt    time.Time `json:"created_at"`
}
