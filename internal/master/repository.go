package master

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Repository handles org-wide settings and category exclusivity rules.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a master-settings repository.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

// ListSettings returns all settings for the org.
func (r *Repository) ListSettings(ctx context.Context, schema string) ([]models.Setting, error) {
	rows, err := r.exec.Query(ctx, schema, `SELECT key, value, updated_by, updated_at FROM {schema}.settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetSetting returns one setting by key.
func (r *Repository) GetSetting(ctx context.Context, schema, key string) (*models.Setting, error) {
	const q = `SELECT key, value, updated_by, updated_at FROM {schema}.settings WHERE key = $1`
	var s models.Setting
	if err := r.exec.QueryRow(ctx, schema, q, key).Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// PutSetting upserts a setting.
func (r *Repository) PutSetting(ctx context.Context, schema string, s *models.Setting) error {
	const q = `INSERT INTO {schema}.settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING updated_at`
	return r.exec.QueryRow(ctx, schema, q, s.Key, s.Value, s.UpdatedBy).Scan(&s.UpdatedAt)
}

// ListExclusivity returns all category exclusivity rules.
func (r *Repository) ListExclusivity(ctx context.Context, schema string) ([]models.CategoryExclusivity, error) {
	rows, err := r.exec.Query(ctx, schema,
		`SELECT id, category, exclusive, created_at, updated_at FROM {schema}.category_exclusivity ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.CategoryExclusivity
	for rows.Next() {
		var e models.CategoryExclusivity
		if err := rows.Scan(&e.ID, &e.Category, &e.Exclusive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// SetExclusivity upserts the exclusivity flag for a category.
func (r *Repository) SetExclusivity(ctx context.Context, schema string, e *models.CategoryExclusivity) error {
	const q = `INSERT INTO {schema}.category_exclusivity (category, exclusive)
		VALUES ($1, $2)
		ON CONFLICT (category) DO UPDATE SET exclusive = EXCLUDED.exclusive, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	return r.exec.QueryRow(ctx, schema, q, e.Category, e.Exclusive).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// IsCategoryExclusive reports whether a category is marked exclusive. A
// missing rule means not exclusive. Satisfies campaigns.ExclusivityChecker.
func (r *Repository) IsCategoryExclusive(ctx context.Context, schema, category string) (bool, error) {
	const q = `SELECT exclusive FROM {schema}.category_exclusivity WHERE category = $1`
	var exclusive bool
	err := r.exec.QueryRow(ctx, schema, q, category).Scan(&exclusive)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return exclusive, nil
}
