package organizations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/podcastflow/backend/internal/models"
)

// Repository handles organization persistence in the public schema.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orgColumns = `id, name, slug, schema_name, plan, status, created_at, updated_at`

func scanOrg(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.SchemaName, &org.Plan, &org.Status, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Create inserts an organization row.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	const q = `INSERT INTO organizations (name, slug, schema_name, plan, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, org.Name, org.Slug, org.SchemaName, org.Plan, org.Status).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

// GetBySlug returns an organization by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	const q = `SELECT ` + orgColumns + ` FROM organizations WHERE slug = $1`
	return scanOrg(r.pool.QueryRow(ctx, q, slug))
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	const q = `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	return scanOrg(r.pool.QueryRow(ctx, q, id))
}

// ResolveActiveSchema maps a slug to its schema name. ok is false for unknown
// or suspended organizations. Satisfies both the tenant middleware's
// OrgResolver and the auth handler's OrgDirectory.
func (r *Repository) ResolveActiveSchema(ctx context.Context, slug string) (string, bool, error) {
	const q = `SELECT schema_name, status FROM organizations WHERE slug = $1`
	var schema, status string
	err := r.pool.QueryRow(ctx, q, slug).Scan(&schema, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	if status != models.OrgStatusActive {
		return "", false, nil
	}
	return schema, true, nil
}

// UpdateStatus flips the soft status flag. Organizations are never hard-deleted.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	const q = `UPDATE organizations SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.pool.Exec(ctx, q, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListPlans returns the platform billing plans.
func (r *Repository) ListPlans(ctx context.Context) ([]models.BillingPlan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, price_cents, max_users, max_campaigns, created_at FROM billing_plans ORDER BY price_cents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var plans []models.BillingPlan
	for rows.Next() {
		var p models.BillingPlan
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.PriceCents, &p.MaxUsers, &p.MaxCampaigns, &p.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
