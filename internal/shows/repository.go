package shows

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Repository handles show and episode persistence inside tenant schemas.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a shows repository.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

const showColumns = `id, name, host, COALESCE(category,''), active_from, active_until, status, created_at, updated_at`

func scanShow(row pgx.Row) (*models.Show, error) {
	var s models.Show
	err := row.Scan(&s.ID, &s.Name, &s.Host, &s.Category, &s.ActiveFrom, &s.ActiveUntil, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateShow inserts a new show.
func (r *Repository) CreateShow(ctx context.Context, schema string, s *models.Show) error {
	const q = `INSERT INTO {schema}.shows (name, host, category, active_from, active_until, status)
		VALUES ($1, $2, NULLIF($3,''), $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.exec.QueryRow(ctx, schema, q, s.Name, s.Host, s.Category, s.ActiveFrom, s.ActiveUntil, s.Status).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetShow returns a show by ID.
func (r *Repository) GetShow(ctx context.Context, schema string, id uuid.UUID) (*models.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM {schema}.shows WHERE id = $1`
	return scanShow(r.exec.QueryRow(ctx, schema, q, id))
}

// ListShows returns all shows in the tenant schema.
func (r *Repository) ListShows(ctx context.Context, schema string) ([]models.Show, error) {
	rows, err := r.exec.Query(ctx, schema, `SELECT `+showColumns+` FROM {schema}.shows ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Show
	for rows.Next() {
		var s models.Show
		if err := rows.Scan(&s.ID, &s.Name, &s.Host, &s.Category, &s.ActiveFrom, &s.ActiveUntil, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateShow updates show fields.
func (r *Repository) UpdateShow(ctx context.Context, schema string, s *models.Show) error {
	const q = `UPDATE {schema}.shows
		SET name = $1, host = $2, category = NULLIF($3,''), active_from = $4, active_until = $5, status = $6, updated_at = NOW()
		WHERE id = $7`
	tag, err := r.exec.Exec(ctx, schema, q, s.Name, s.Host, s.Category, s.ActiveFrom, s.ActiveUntil, s.Status, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const episodeColumns = `id, show_id, title, number, air_date, duration_sec, COALESCE(external_id,''), created_at, updated_at`

// CreateEpisode inserts a new episode.
func (r *Repository) CreateEpisode(ctx context.Context, schema string, e *models.Episode) error {
	const q = `INSERT INTO {schema}.episodes (show_id, title, number, air_date, duration_sec, external_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6,''))
		RETURNING id, created_at, updated_at`
	return r.exec.QueryRow(ctx, schema, q, e.ShowID, e.Title, e.Number, e.AirDate, e.DurationSec, e.ExternalID).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetEpisode returns an episode by ID.
func (r *Repository) GetEpisode(ctx context.Context, schema string, id uuid.UUID) (*models.Episode, error) {
	const q = `SELECT ` + episodeColumns + ` FROM {schema}.episodes WHERE id = $1`
	var e models.Episode
	err := r.exec.QueryRow(ctx, schema, q, id).
		Scan(&e.ID, &e.ShowID, &e.Title, &e.Number, &e.AirDate, &e.DurationSec, &e.ExternalID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEpisodes returns a show's episodes, newest first.
func (r *Repository) ListEpisodes(ctx context.Context, schema string, showID uuid.UUID) ([]models.Episode, error) {
	const q = `SELECT ` + episodeColumns + ` FROM {schema}.episodes WHERE show_id = $1 ORDER BY air_date DESC`
	rows, err := r.exec.Query(ctx, schema, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Episode
	for rows.Next() {
		var e models.Episode
		if err := rows.Scan(&e.ID, &e.ShowID, &e.Title, &e.Number, &e.AirDate, &e.DurationSec, &e.ExternalID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// UpsertEpisodeByExternalID inserts or refreshes an episode imported from an
// external feed (Megaphone), keyed by (show_id, external_id).
func (r *Repository) UpsertEpisodeByExternalID(ctx context.Context, schema string, e *models.Episode) error {
	const q = `INSERT INTO {schema}.episodes (show_id, title, number, air_date, duration_sec, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (show_id, external_id) DO UPDATE
		SET title = EXCLUDED.title, number = EXCLUDED.number, air_date = EXCLUDED.air_date,
		    duration_sec = EXCLUDED.duration_sec, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	return r.exec.QueryRow(ctx, schema, q, e.ShowID, e.Title, e.Number, e.AirDate, e.DurationSec, e.ExternalID).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}
