package iopersist

import (
	"fmt"

	"github.com/edstats/rmpdb/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for persistence attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Persistence attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TeachersInsertError creates an error for a failed snapshot
// transaction or teachers write.
func TeachersInsertError(err error) error {
	msg := `Cannot write the teachers table

<em>How to fix:</em>
  1. Check that the schema exists: 'rmpdb create'
  2. Check that the database user can write to the public schema`

	return &gn.Error{
		Code: errcode.PersistTeachersError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("teachers write failed: %w", err),
	}
}

// ReviewsInsertError creates an error for a failed ratings_raw write.
func ReviewsInsertError(err error) error {
	msg := "Cannot write the ratings_raw table"

	return &gn.Error{
		Code: errcode.PersistReviewsError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("ratings_raw write failed: %w", err),
	}
}

// CoursesInsertError creates an error for a failed teacher_courses
// write.
func CoursesInsertError(err error) error {
	msg := "Cannot write the teacher_courses table"

	return &gn.Error{
		Code: errcode.PersistCoursesError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("teacher_courses write failed: %w", err),
	}
}

// TagCountsInsertError creates an error for a failed tag-count write.
func TagCountsInsertError(err error) error {
	msg := "Cannot write the tag count tables"

	return &gn.Error{
		Code: errcode.PersistTagCountsError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("tag counts write failed: %w", err),
	}
}

// SQLiteOpenError creates an error for a snapshot file that cannot be
// opened or configured.
func SQLiteOpenError(path string, err error) error {
	msg := `Cannot open SQLite snapshot file <em>%s</em>

<em>How to fix:</em>
  1. Check that the parent directory exists and is writable
  2. Check that no other process holds an exclusive lock on the file`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.PersistSQLiteOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("sqlite open failed: %w", err),
	}
}

// SQLiteSchemaError creates an error for failed snapshot DDL.
func SQLiteSchemaError(table string, err error) error {
	msg := "Cannot create SQLite table <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.PersistSQLiteSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("sqlite schema failed: %w", err),
	}
}

// SQLiteWriteError creates an error for failed snapshot writes.
func SQLiteWriteError(err error) error {
	msg := "Cannot write rows to the SQLite snapshot"

	return &gn.Error{
		Code: errcode.PersistSQLiteWriteError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("sqlite write failed: %w", err),
	}
}

// ErrorLogWriteError creates an error for a CSV audit log that cannot
// be written.
func ErrorLogWriteError(path string, err error) error {
	msg := `Cannot append to error log <em>%s</em>

<em>How to fix:</em>
  1. Check that the file is writable
  2. Point --error-log (or RMPDB_INGEST_ERROR_LOG) at a writable path`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.IngestErrorLogWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("error log write failed: %w", err),
	}
}
