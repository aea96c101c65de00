package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Repository handles report records inside tenant schemas.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a reports repository.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

const reportColumns = `id, type, status, period_start, period_end, COALESCE(s3_key,''), COALESCE(error,''), correlation_id, requested_by, completed_at, created_at`

// Create inserts a pending report record.
func (r *Repository) Create(ctx context.Context, schema string, rep *models.Report) error {
	const q = `INSERT INTO {schema}.reports (type, status, period_start, period_end, correlation_id, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.exec.QueryRow(ctx, schema, q, rep.Type, rep.Status, rep.PeriodStart, rep.PeriodEnd, rep.CorrelationID, rep.RequestedBy).
		Scan(&rep.ID, &rep.CreatedAt)
}

// GetByID returns a report record.
func (r *Repository) GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.Report, error) {
	const q = `SELECT ` + reportColumns + ` FROM {schema}.reports WHERE id = $1`
	var rep models.Report
	err := r.exec.QueryRow(ctx, schema, q, id).Scan(&rep.ID, &rep.Type, &rep.Status, &rep.PeriodStart, &rep.PeriodEnd,
		&rep.S3Key, &rep.Error, &rep.CorrelationID, &rep.RequestedBy, &rep.CompletedAt, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// List returns report records, newest first.
func (r *Repository) List(ctx context.Context, schema string) ([]models.Report, error) {
	rows, err := r.exec.Query(ctx, schema, `SELECT `+reportColumns+` FROM {schema}.reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Report
	for rows.Next() {
		var rep models.Report
		if err := rows.Scan(&rep.ID, &rep.Type, &rep.Status, &rep.PeriodStart, &rep.PeriodEnd,
			&rep.S3Key, &rep.Error, &rep.CorrelationID, &rep.RequestedBy, &rep.CompletedAt, &rep.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// MarkRunning flips a pending report to running.
func (r *Repository) MarkRunning(ctx context.Context, schema string, id uuid.UUID) error {
	const q = `UPDATE {schema}.reports SET status = $1 WHERE id = $2 AND status = $3`
	tag, err := r.exec.Exec(ctx, schema, q, models.ReportStatusRunning, id, models.ReportStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkCompleted records the S3 key and completion time.
func (r *Repository) MarkCompleted(ctx context.Context, schema string, id uuid.UUID, s3Key string) error {
	const q = `UPDATE {schema}.reports SET status = $1, s3_key = $2, completed_at = NOW() WHERE id = $3`
	_, err := r.exec.Exec(ctx, schema, q, models.ReportStatusCompleted, s3Key, id)
	return err
}

// MarkFailed records the failure message.
func (r *Repository) MarkFailed(ctx context.Context, schema string, id uuid.UUID, msg string) error {
	const q = `UPDATE {schema}.reports SET status = $1, error = $2, completed_at = NOW() WHERE id = $3`
	_, err := r.exec.Exec(ctx, schema, q, models.ReportStatusFailed, msg, id)
	return err
}
