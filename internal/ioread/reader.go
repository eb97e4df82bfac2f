// Package ioread implements the Reader interface for the raw review tree
// and the professor directory. This is an impure I/O package; per-file
// failures are recorded in an error collector and skipped, never fatal.
package ioread

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/edstats/rmpdb/pkg/config"
	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

// reader implements the rmp.Reader interface.
type reader struct {
	cfg *config.Config
	enc gnfmt.GNjson
}

// New creates a new Reader.
func New(cfg *config.Config) rmp.Reader {
	return &reader{cfg: cfg, enc: gnfmt.GNjson{}}
}

// LoadReviews walks department-named subdirectories under the reviews
// root. Departments are processed concurrently (bounded by JobsNumber),
// each worker with its own error collector; results and errors merge in
// sorted department order, so output is deterministic regardless of
// scheduling. Within a department, files process in sorted name order.
func (r *reader) LoadReviews(
	ctx context.Context,
	errs *rmp.Collector,
) ([]rmp.RawReview, error) {
	root := r.cfg.Ingest.ReviewsDir
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, ReviewsDirError(root, err)
	}

	var depts []string
	for _, e := range entries {
		if e.IsDir() {
			depts = append(depts, e.Name())
		}
	}
	slog.Info("Scanning review tree",
		"root", root, "departments", len(depts))

	deptReviews := make([][]rmp.RawReview, len(depts))
	deptErrs := make([]*rmp.Collector, len(depts))

	g, gCtx := errgroup.WithContext(ctx)
	jobs := r.cfg.JobsNumber
	if jobs < 1 {
		jobs = 1
	}
	g.SetLimit(jobs)

	for i, dept := range depts {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			var c rmp.Collector
			reviews := r.scanDepartment(filepath.Join(root, dept), dept, &c)
			deptReviews[i] = reviews
			deptErrs[i] = &c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var res []rmp.RawReview
	for i := range depts {
		res = append(res, deptReviews[i]...)
		errs.Merge(deptErrs[i])
	}

	slog.Info("Review tree scanned",
		"records", len(res), "skipped_files", errs.Len())

	return res, nil
}

// scanDepartment attempts every file in one department directory.
// Failures go into the collector; the scan itself never fails.
func (r *reader) scanDepartment(
	dir, dept string,
	errs *rmp.Collector,
) []rmp.RawReview {
	entries, err := os.ReadDir(dir)
	if err != nil {
		errs.Add(rmp.ErrorRecord{
			Kind:    rmp.FileReadError,
			Subject: dir,
			Detail:  []string{err.Error()},
		})
		return nil
	}

	var res []rmp.RawReview
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		records, rec := r.processFile(path, dept)
		if rec != nil {
			slog.Warn("Skipping review file",
				"file", path, "kind", rec.Kind, "error", rec.Detail)
			errs.Add(*rec)
			continue
		}
		res = append(res, records...)
	}

	return res
}

// processFile turns one review file into records: identity from the
// filename, content parsed as one review object or a list of them,
// tri-state coercion applied inline, provenance stamped on every record.
func (r *reader) processFile(
	path, dept string,
) ([]rmp.RawReview, *rmp.ErrorRecord) {
	teacherID, teacherName, err := normalize.Identity(path)
	if err != nil {
		return nil, &rmp.ErrorRecord{
			Kind:    rmp.FileParseError,
			Subject: path,
			Detail:  []string{err.Error()},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rmp.ErrorRecord{
			Kind:    rmp.FileReadError,
			Subject: path,
			Detail:  []string{err.Error()},
		}
	}

	var doc any
	if err := r.enc.Decode(data, &doc); err != nil {
		return nil, &rmp.ErrorRecord{
			Kind:    rmp.FileReadError,
			Subject: path,
			Detail:  []string{err.Error()},
		}
	}

	// each file may contain one review or a list of reviews
	var objects []map[string]any
	switch v := doc.(type) {
	case map[string]any:
		objects = []map[string]any{v}
	case []any:
		for _, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, &rmp.ErrorRecord{
					Kind:    rmp.FileReadError,
					Subject: path,
					Detail:  []string{"list element is not an object"},
				}
			}
			objects = append(objects, obj)
		}
	default:
		return nil, &rmp.ErrorRecord{
			Kind:    rmp.FileReadError,
			Subject: path,
			Detail:  []string{"document is neither object nor list"},
		}
	}

	res := make([]rmp.RawReview, 0, len(objects))
	for _, obj := range objects {
		rec := recordFromObject(obj)
		rec.TeacherID = teacherID
		rec.TeacherNameFile = teacherName
		rec.Department = dept
		rec.SourceFile = path
		res = append(res, rec)
	}

	return res, nil
}
