// Package ioschema implements the SchemaManager interface for the
// PostgreSQL snapshot schema. This is an impure I/O package that wraps
// GORM AutoMigrate functionality.
package ioschema

import (
	"context"

	"github.com/edstats/rmpdb/pkg/db"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/edstats/rmpdb/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// manager implements the rmp.SchemaManager interface using
// GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) rmp.SchemaManager {
	return &manager{operator: op}
}

// Create creates the snapshot schema using GORM AutoMigrate and applies
// the foreign-key constraints that keep the five tables referentially
// consistent.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	if err := m.applyForeignKeys(ctx); err != nil {
		return err
	}

	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB); err != nil {
		return MigrateSchemaError(err)
	}

	if err := m.applyForeignKeys(ctx); err != nil {
		return err
	}

	return nil
}

// gorm opens a GORM session over the existing pgx pool.
func (m *manager) gorm() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}

	return gormDB, nil
}

// applyForeignKeys enforces referential integrity: every table keyed by
// teacher_id references teachers. AutoMigrate does not create these.
func (m *manager) applyForeignKeys(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	for _, q := range schema.ForeignKeyDDL() {
		if _, err := pool.Exec(ctx, q); err != nil {
			return ConstraintError(err)
		}
	}

	return nil
}
