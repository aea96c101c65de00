package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SchemaPlaceholder marks the spot in repository SQL where the tenant schema
// is substituted, e.g. `SELECT ... FROM {schema}.campaigns WHERE id = $1`.
const SchemaPlaceholder = "{schema}"

// ErrBadSchema is returned when a query is issued against a schema name that
// did not come from SchemaName.
var ErrBadSchema = errors.New("malformed tenant schema name")

// Executor runs parameterized queries against a tenant's isolated schema.
// Failures are surfaced once per call as errors; there is no retry or backoff
// here. Read handlers degrade to empty results, write handlers propagate 500.
type Executor struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewExecutor creates a tenant query executor.
func NewExecutor(pool *pgxpool.Pool, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{pool: pool, logger: logger}
}

func qualify(schema, sql string) (string, error) {
	if !ValidSchemaName(schema) {
		return "", ErrBadSchema
	}
	return strings.ReplaceAll(sql, SchemaPlaceholder, schema), nil
}

// Query runs a multi-row query against the tenant schema.
func (e *Executor) Query(ctx context.Context, schema, sql string, args ...any) (pgx.Rows, error) {
	q, err := qualify(schema, sql)
	if err != nil {
		return nil, err
	}
	rows, err := e.pool.Query(ctx, q, args...)
	if err != nil {
		e.logger.Error("tenant query failed", zap.String("schema", schema), zap.Error(err))
		return nil, fmt.Errorf("tenant query: %w", err)
	}
	return rows, nil
}

// QueryRow runs a single-row query against the tenant schema. A malformed
// schema name yields a row whose Scan returns ErrBadSchema.
func (e *Executor) QueryRow(ctx context.Context, schema, sql string, args ...any) pgx.Row {
	q, err := qualify(schema, sql)
	if err != nil {
		return errRow{err}
	}
	return e.pool.QueryRow(ctx, q, args...)
}

// Exec runs a statement against the tenant schema.
func (e *Executor) Exec(ctx context.Context, schema, sql string, args ...any) (pgconn.CommandTag, error) {
	q, err := qualify(schema, sql)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	tag, err := e.pool.Exec(ctx, q, args...)
	if err != nil {
		e.logger.Error("tenant exec failed", zap.String("schema", schema), zap.Error(err))
		return tag, fmt.Errorf("tenant exec: %w", err)
	}
	return tag, nil
}

// Queryer is the subset of query operations available inside a transaction.
// SQL passed to it uses the same {schema} placeholder as the executor.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// WithTx runs fn inside an explicit transaction scoped to the tenant schema,
// committing on nil and rolling back on error. Multi-statement writes (invoice
// plus line items) go through here so partial failure cannot orphan rows.
func (e *Executor) WithTx(ctx context.Context, schema string, fn func(q Queryer) error) error {
	if !ValidSchemaName(schema) {
		return ErrBadSchema
	}
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txQueryer{tx: tx, schema: schema}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txQueryer struct {
	tx     pgx.Tx
	schema string
}

func (t *txQueryer) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q, err := qualify(t.schema, sql)
	if err != nil {
		return nil, err
	}
	return t.tx.Query(ctx, q, args...)
}

func (t *txQueryer) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q, err := qualify(t.schema, sql)
	if err != nil {
		return errRow{err}
	}
	return t.tx.QueryRow(ctx, q, args...)
}

func (t *txQueryer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q, err := qualify(t.schema, sql)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return t.tx.Exec(ctx, q, args...)
}

// errRow satisfies pgx.Row for pre-query failures.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
