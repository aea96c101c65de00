package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// ErrDuplicateEmail is returned when an email already exists in the
// organization's schema. The same email in another organization is fine.
var ErrDuplicateEmail = errors.New("email already exists in organization")

// Repository handles user persistence inside tenant schemas.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a user repository backed by the tenant executor.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

const userColumns = `id, email, password_hash, full_name, role, active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID within the organization's schema.
func (r *Repository) GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM {schema}.users WHERE id = $1`
	return scanUser(r.exec.QueryRow(ctx, schema, q, id))
}

// GetByEmail returns a user by email within the organization's schema.
func (r *Repository) GetByEmail(ctx context.Context, schema, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM {schema}.users WHERE email = $1`
	return scanUser(r.exec.QueryRow(ctx, schema, q, email))
}

// Create inserts a new user into the organization's schema. A unique-violation
// on email maps to ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, schema, email, passwordHash, fullName string, role models.Role) (*models.User, error) {
	const q = `INSERT INTO {schema}.users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	u, err := scanUser(r.exec.QueryRow(ctx, schema, q, email, passwordHash, fullName, string(role)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// List returns the organization's users.
func (r *Repository) List(ctx context.Context, schema string) ([]models.UserPublic, error) {
	rows, err := r.exec.Query(ctx, schema,
		`SELECT id, email, full_name, role, active, created_at FROM {schema}.users ORDER BY full_name, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		list = append(list, u)
	}
	return list, rows.Err()
}

// Deactivate marks a user inactive, preserving referential history. Returns
// pgx.ErrNoRows when the user is already inactive or does not exist, so a
// second identical delete surfaces as 404.
func (r *Repository) Deactivate(ctx context.Context, schema string, id uuid.UUID) error {
	const q = `UPDATE {schema}.users SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE`
	tag, err := r.exec.Exec(ctx, schema, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateRole changes a user's role.
func (r *Repository) UpdateRole(ctx context.Context, schema string, id uuid.UUID, role models.Role) error {
	const q = `UPDATE {schema}.users SET role = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.exec.Exec(ctx, schema, q, string(role), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
