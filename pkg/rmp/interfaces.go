package rmp

import (
	"context"
)

// Reader loads the two raw inputs of the pipeline.
type Reader interface {
	// LoadProfessors reads the professor directory document. A single
	// object is wrapped into a one-element collection; normalized
	// matching keys are computed for every entry. A missing or
	// malformed document is a fatal error - there is no meaningful
	// empty-directory fallback.
	LoadProfessors(ctx context.Context) ([]ProfessorEntry, error)

	// LoadReviews walks department-named subdirectories under the
	// reviews root and parses every file. Unparseable filenames and
	// unreadable files are recorded in the collector and skipped; the
	// walk itself only fails when the root cannot be traversed.
	LoadReviews(ctx context.Context, errs *Collector) ([]RawReview, error)
}

// Persister writes the assembled dataset into a relational store in
// foreign-key-safe order: teachers before any table referencing
// teacher_id. Implementations own their transactional discipline so
// partial failures never leave foreign-key-violating state.
type Persister interface {
	Persist(ctx context.Context, ds *Dataset, includeRaw bool) error
}

// SchemaManager creates or updates the relational schema.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates the schema and its foreign-key constraints.
	Create(ctx context.Context) error

	// Migrate updates the schema to the latest version.
	Migrate(ctx context.Context) error
}
