package schedules

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Repository handles schedule-item persistence inside tenant schemas.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a schedules repository.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

const itemColumns = `id, campaign_id, show_id, episode_id, air_date, placement, rate_cents, negotiated_cents, impressions, created_at, updated_at`

func scanItem(row pgx.Row) (*models.ScheduleItem, error) {
	var it models.ScheduleItem
	err := row.Scan(&it.ID, &it.CampaignID, &it.ShowID, &it.EpisodeID, &it.AirDate, &it.Placement,
		&it.RateCents, &it.NegotiatedCents, &it.Impressions, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts a schedule item.
func (r *Repository) Create(ctx context.Context, schema string, it *models.ScheduleItem) error {
	const q = `INSERT INTO {schema}.schedule_items
		(campaign_id, show_id, episode_id, air_date, placement, rate_cents, negotiated_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.exec.QueryRow(ctx, schema, q, it.CampaignID, it.ShowID, it.EpisodeID, it.AirDate,
		it.Placement, it.RateCents, it.NegotiatedCents).
		Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

// GetByID returns a schedule item.
func (r *Repository) GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.ScheduleItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM {schema}.schedule_items WHERE id = $1`
	return scanItem(r.exec.QueryRow(ctx, schema, q, id))
}

// ListByCampaign returns a campaign's schedule items in air-date order.
func (r *Repository) ListByCampaign(ctx context.Context, schema string, campaignID uuid.UUID) ([]models.ScheduleItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM {schema}.schedule_items WHERE campaign_id = $1 ORDER BY air_date`
	return r.list(ctx, schema, q, campaignID)
}

// ListByShow returns a show's schedule items in air-date order.
func (r *Repository) ListByShow(ctx context.Context, schema string, showID uuid.UUID) ([]models.ScheduleItem, error) {
	const q = `SELECT ` + itemColumns + ` FROM {schema}.schedule_items WHERE show_id = $1 ORDER BY air_date`
	return r.list(ctx, schema, q, showID)
}

func (r *Repository) list(ctx context.Context, schema, q string, args ...any) ([]models.ScheduleItem, error) {
	rows, err := r.exec.Query(ctx, schema, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ScheduleItem
	for rows.Next() {
		var it models.ScheduleItem
		if err := rows.Scan(&it.ID, &it.CampaignID, &it.ShowID, &it.EpisodeID, &it.AirDate, &it.Placement,
			&it.RateCents, &it.NegotiatedCents, &it.Impressions, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// UpdateNegotiated changes the negotiated price on an item.
func (r *Repository) UpdateNegotiated(ctx context.Context, schema string, id uuid.UUID, cents int64) error {
	const q = `UPDATE {schema}.schedule_items SET negotiated_cents = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.exec.Exec(ctx, schema, q, cents, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddImpressions increments delivered impressions for an item.
func (r *Repository) AddImpressions(ctx context.Context, schema string, id uuid.UUID, delta int64) error {
	const q = `UPDATE {schema}.schedule_items SET impressions = impressions + $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.exec.Exec(ctx, schema, q, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a schedule item.
func (r *Repository) Delete(ctx context.Context, schema string, id uuid.UUID) (bool, error) {
	tag, err := r.exec.Exec(ctx, schema, `DELETE FROM {schema}.schedule_items WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
