package campaigns

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Repository handles campaign persistence inside tenant schemas.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a campaigns repository.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

const columns = `id, name, advertiser, COALESCE(agency,''), COALESCE(category,''), budget_cents, status, start_date, end_date, created_by, created_at, updated_at`

func scan(row pgx.Row) (*models.Campaign, error) {
	var cm models.Campaign
	err := row.Scan(&cm.ID, &cm.Name, &cm.Advertiser, &cm.Agency, &cm.Category, &cm.BudgetCents,
		&cm.Status, &cm.StartDate, &cm.EndDate, &cm.CreatedBy, &cm.CreatedAt, &cm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// Create inserts a new campaign.
func (r *Repository) Create(ctx context.Context, schema string, cm *models.Campaign) error {
	const q = `INSERT INTO {schema}.campaigns (name, advertiser, agency, category, budget_cents, status, start_date, end_date, created_by)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	return r.exec.QueryRow(ctx, schema, q, cm.Name, cm.Advertiser, cm.Agency, cm.Category,
		cm.BudgetCents, cm.Status, cm.StartDate, cm.EndDate, cm.CreatedBy).
		Scan(&cm.ID, &cm.CreatedAt, &cm.UpdatedAt)
}

// GetByID returns a campaign by ID within the tenant schema. A campaign in a
// different organization's schema is simply unreachable from here.
func (r *Repository) GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.Campaign, error) {
	const q = `SELECT ` + columns + ` FROM {schema}.campaigns WHERE id = $1`
	return scan(r.exec.QueryRow(ctx, schema, q, id))
}

// List returns campaigns, optionally filtered by status.
func (r *Repository) List(ctx context.Context, schema, status string) ([]models.Campaign, error) {
	q := `SELECT ` + columns + ` FROM {schema}.campaigns`
	var args []interface{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY start_date DESC`

	rows, err := r.exec.Query(ctx, schema, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Campaign
	for rows.Next() {
		var cm models.Campaign
		if err := rows.Scan(&cm.ID, &cm.Name, &cm.Advertiser, &cm.Agency, &cm.Category, &cm.BudgetCents,
			&cm.Status, &cm.StartDate, &cm.EndDate, &cm.CreatedBy, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// Update updates campaign fields.
func (r *Repository) Update(ctx context.Context, schema string, cm *models.Campaign) error {
	const q = `UPDATE {schema}.campaigns
		SET name = $1, advertiser = $2, agency = NULLIF($3,''), category = NULLIF($4,''),
		    budget_cents = $5, start_date = $6, end_date = $7, updated_at = NOW()
		WHERE id = $8`
	tag, err := r.exec.Exec(ctx, schema, q, cm.Name, cm.Advertiser, cm.Agency, cm.Category,
		cm.BudgetCents, cm.StartDate, cm.EndDate, cm.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus sets the campaign status. Legality of the transition is
// validated by the handler.
func (r *Repository) UpdateStatus(ctx context.Context, schema string, id uuid.UUID, status string) error {
	const q = `UPDATE {schema}.campaigns SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.exec.Exec(ctx, schema, q, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountActiveInCategory counts active campaigns in a category, excluding one
// ID. Backs the category-exclusivity rule.
func (r *Repository) CountActiveInCategory(ctx context.Context, schema, category string, exclude uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM {schema}.campaigns WHERE category = $1 AND status = $2 AND id <> $3`
	var n int
	err := r.exec.QueryRow(ctx, schema, q, category, models.CampaignStatusActive, exclude).Scan(&n)
	return n, err
}
