package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/podcastflow/backend/internal/models"
	"github.com/podcastflow/backend/internal/tenant"
)

// Repository handles order and invoice persistence inside tenant schemas.
type Repository struct {
	exec *tenant.Executor
}

// NewRepository creates a billing repository.
func NewRepository(exec *tenant.Executor) *Repository {
	return &Repository{exec: exec}
}

const orderColumns = `id, campaign_id, number, amount_cents, status, created_by, created_at, updated_at`

// CreateOrder inserts an insertion order.
func (r *Repository) CreateOrder(ctx context.Context, schema string, o *models.Order) error {
	const q = `INSERT INTO {schema}.orders (campaign_id, number, amount_cents, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.exec.QueryRow(ctx, schema, q, o.CampaignID, o.Number, o.AmountCents, o.Status, o.CreatedBy).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// GetOrder returns an order by ID.
func (r *Repository) GetOrder(ctx context.Context, schema string, id uuid.UUID) (*models.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM {schema}.orders WHERE id = $1`
	var o models.Order
	err := r.exec.QueryRow(ctx, schema, q, id).
		Scan(&o.ID, &o.CampaignID, &o.Number, &o.AmountCents, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns all orders, newest first.
func (r *Repository) ListOrders(ctx context.Context, schema string) ([]models.Order, error) {
	rows, err := r.exec.Query(ctx, schema, `SELECT `+orderColumns+` FROM {schema}.orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CampaignID, &o.Number, &o.AmountCents, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateOrderStatus changes an order's status.
func (r *Repository) UpdateOrderStatus(ctx context.Context, schema string, id uuid.UUID, status string) error {
	const q = `UPDATE {schema}.orders SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.exec.Exec(ctx, schema, q, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const invoiceColumns = `id, campaign_id, order_id, number, total_cents, status, due_date, created_at, updated_at`

// CreateInvoice inserts the invoice header and its line items in one
// transaction. Partial failure rolls everything back.
func (r *Repository) CreateInvoice(ctx context.Context, schema string, inv *models.Invoice) error {
	return r.exec.WithTx(ctx, schema, func(q tenant.Queryer) error {
		const head = `INSERT INTO {schema}.invoices (campaign_id, order_id, number, total_cents, status, due_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`
		err := q.QueryRow(ctx, head, inv.CampaignID, inv.OrderID, inv.Number, inv.TotalCents, inv.Status, inv.DueDate).
			Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return err
		}
		const line = `INSERT INTO {schema}.invoice_lines (invoice_id, description, quantity, unit_cents)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`
		for i := range inv.LineItems {
			l := &inv.LineItems[i]
			l.InvoiceID = inv.ID
			if err := q.QueryRow(ctx, line, inv.ID, l.Description, l.Quantity, l.UnitCents).Scan(&l.ID, &l.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetInvoice returns an invoice with its line items.
func (r *Repository) GetInvoice(ctx context.Context, schema string, id uuid.UUID) (*models.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM {schema}.invoices WHERE id = $1`
	var inv models.Invoice
	err := r.exec.QueryRow(ctx, schema, q, id).
		Scan(&inv.ID, &inv.CampaignID, &inv.OrderID, &inv.Number, &inv.TotalCents, &inv.Status, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	lines, err := r.listLines(ctx, schema, id)
	if err != nil {
		return nil, err
	}
	inv.LineItems = lines
	return &inv, nil
}

func (r *Repository) listLines(ctx context.Context, schema string, invoiceID uuid.UUID) ([]models.InvoiceLine, error) {
	const q = `SELECT id, invoice_id, description, quantity, unit_cents, created_at
		FROM {schema}.invoice_lines WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.exec.Query(ctx, schema, q, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []models.InvoiceLine
	for rows.Next() {
		var l models.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Description, &l.Quantity, &l.UnitCents, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListInvoices returns invoice headers, newest first. Line items are loaded
// per-invoice on Get.
func (r *Repository) ListInvoices(ctx context.Context, schema string, campaignID *uuid.UUID) ([]models.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM {schema}.invoices`
	var args []any
	if campaignID != nil {
		q += ` WHERE campaign_id = $1`
		args = append(args, *campaignID)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.exec.Query(ctx, schema, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.CampaignID, &inv.OrderID, &inv.Number, &inv.TotalCents, &inv.Status, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateInvoiceStatus changes an invoice's status.
func (r *Repository) UpdateInvoiceStatus(ctx context.Context, schema string, id uuid.UUID, status string) error {
	const q = `UPDATE {schema}.invoices SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.exec.Exec(ctx, schema, q, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
