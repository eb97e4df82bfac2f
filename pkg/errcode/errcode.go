// Package errcode enumerates error codes used by rmpdb error messages.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Ingest errors
	IngestReviewsDirError
	IngestFilenameParseError
	IngestFileReadError
	IngestProfessorsLoadError
	IngestErrorLogWriteError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBEmptyDatabaseError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaConstraintError

	// Persistence errors
	PersistTeachersError
	PersistReviewsError
	PersistCoursesError
	PersistTagCountsError
	PersistSQLiteOpenError
	PersistSQLiteSchemaError
	PersistSQLiteWriteError
)
