package ratecards

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Repository handles rate-history persistence inside tenant schemas.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a rate-cards repository.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

const rateColumns = `id, show_id, placement, rate_cents, effective_date, end_date, created_by, created_at`

// ListForShow returns every rate entry for a show, oldest first.
func (r *Repository) ListForShow(ctx context.Context, schema string, showID uuid.UUID) ([]models.RateHistory, error) {
	const q = `SELECT ` + rateColumns + ` FROM {schema}.rate_history WHERE show_id = $1 ORDER BY effective_date`
	rows, err := r.exec.Query(ctx, schema, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.RateHistory
	for rows.Next() {
		var e models.RateHistory
		if err := rows.Scan(&e.ID, &e.ShowID, &e.Placement, &e.RateCents, &e.EffectiveDate, &e.EndDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Create inserts a rate entry. Callers validate overlap first; the insert does
// not re-check.
func (r *Repository) Create(ctx context.Context, schema string, e *models.RateHistory) error {
	const q = `INSERT INTO {schema}.rate_history (show_id, placement, rate_cents, effective_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.exec.QueryRow(ctx, schema, q, e.ShowID, e.Placement, e.RateCents, e.EffectiveDate, e.EndDate, e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt)
}

// Delete removes a rate entry.
func (r *Repository) Delete(ctx context.Context, schema string, id uuid.UUID) (bool, error) {
	tag, err := r.exec.Exec(ctx, schema, `DELETE FROM {schema}.rate_history WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RateFor returns the rate in force for a show/placement on a date, or nil.
func (r *Repository) RateFor(ctx context.Context, schema string, showID uuid.UUID, placement string, date time.Time) (*models.RateHistory, error) {
	entries, err := r.ListForShow(ctx, schema, showID)
	if err != nil {
		return nil, err
	}
	return RateInForce(entries, placement, date), nil
}
