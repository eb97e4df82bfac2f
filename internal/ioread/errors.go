package ioread

import (
	"fmt"

	"github.com/edstats/rmpdb/pkg/errcode"
	"github.com/gnames/gn"
)

// ReviewsDirError creates an error for when the reviews root
// directory cannot be traversed.
func ReviewsDirError(dir string, err error) error {
	msg := `Cannot read the reviews directory

<em>Directory:</em> %s

<em>How to fix:</em>
  1. Check that the directory exists
  2. Verify ingest.reviews_dir in config.yaml
  3. Expected layout: one subdirectory per department`

	vars := []any{dir}

	return &gn.Error{
		Code: errcode.IngestReviewsDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read reviews dir: %w", err),
	}
}

// ProfessorsLoadError creates a fatal error for when the professor
// directory document is missing or malformed.
func ProfessorsLoadError(path string, err error) error {
	msg := `Cannot load the professor directory

<em>File:</em> %s

The professor directory is required: without it there is no
authoritative source of teacher names and rating aggregates.

<em>How to fix:</em>
  1. Check that the file exists and is valid JSON
  2. Verify ingest.professors_file in config.yaml`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.IngestProfessorsLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot load professor directory: %w", err),
	}
}

// ProfessorsFormatError creates a fatal error for when the professor
// directory document is valid JSON but not an object or list of objects.
func ProfessorsFormatError(path string) error {
	msg := `Professor directory has an unexpected shape

<em>File:</em> %s

The document must be one JSON object or a list of objects, each with
at least <em>name</em> and <em>department</em> string fields.`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.IngestProfessorsLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("professor directory is not an object or list"),
	}
}
