package tenant

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed ddl/tenant_schema.sql
var ddlFS embed.FS

// Provisioner creates and initializes org_<slug> schemas at signup.
type Provisioner struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewProvisioner creates a tenant schema provisioner.
func NewProvisioner(pool *pgxpool.Pool, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{pool: pool, logger: logger}
}

// Provision creates the schema and all tenant tables in one transaction, so a
// half-created tenant never becomes routable.
func (p *Provisioner) Provision(ctx context.Context, schema string) error {
	if !ValidSchemaName(schema) {
		return ErrBadSchema
	}
	raw, err := ddlFS.ReadFile("ddl/tenant_schema.sql")
	if err != nil {
		return fmt.Errorf("read tenant ddl: %w", err)
	}
	ddl := strings.ReplaceAll(string(raw), SchemaPlaceholder, schema)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("provision schema %s: %w", schema, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit provision: %w", err)
	}

	p.logger.Info("tenant schema provisioned", zap.String("schema", schema))
	return nil
}

// Drop removes a tenant schema. Only used by operational tooling; the API
// never hard-deletes an organization.
func (p *Provisioner) Drop(ctx context.Context, schema string) error {
	if !ValidSchemaName(schema) {
		return ErrBadSchema
	}
	_, err := p.pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema))
	return err
}
