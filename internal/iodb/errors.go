package iodb

import (
	"fmt"

	"github.com/edstats/rmpdb/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError creates an error for failed database connections.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL

<em>Host:</em> %s:%d
<em>Database:</em> %s
<em>User:</em> %s

<em>How to fix:</em>
  1. Check that PostgreSQL is running
  2. Verify connection settings in config.yaml
  3. Check RMPDB_DATABASE_* environment variables`

	vars := []any{host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot connect to database: %w", err),
	}
}

// NotConnectedError creates an error for operations attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError creates an error for failed table
// existence checks.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("table existence check failed: %w", err),
	}
}

// QueryTablesError creates an error for failed table listing.
func QueryTablesError(err error) error {
	msg := "Cannot query tables of the public schema"

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot query tables: %w", err),
	}
}

// ScanTableError creates an error for failed table name scans.
func ScanTableError(err error) error {
	msg := "Cannot read table names from the database"

	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot scan table name: %w", err),
	}
}

// DropTableError creates an error for failed table drops.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot drop table %s: %w", table, err),
	}
}
