package ioschema

import (
	"fmt"

	"github.com/edstats/rmpdb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for schema operations
// attempted without a database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for failed GORM sessions.
func GORMConnectionError(err error) error {
	msg := "Cannot open a GORM session over the database pool"

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("gorm connection failed: %w", err),
	}
}

// CreateSchemaError creates an error for failed schema creation.
func CreateSchemaError(err error) error {
	msg := `Cannot create the snapshot schema

<em>How to fix:</em>
  1. Check that the database user can create tables
  2. Use 'rmpdb create --force' to replace existing tables`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("schema creation failed: %w", err),
	}
}

// MigrateSchemaError creates an error for failed schema migration.
func MigrateSchemaError(err error) error {
	msg := "Cannot migrate the snapshot schema"

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("schema migration failed: %w", err),
	}
}

// ConstraintError creates an error for failed foreign-key setup.
func ConstraintError(err error) error {
	msg := "Cannot apply foreign-key constraints"

	return &gn.Error{
		Code: errcode.SchemaConstraintError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("constraint setup failed: %w", err),
	}
}
