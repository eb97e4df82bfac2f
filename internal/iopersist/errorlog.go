package iopersist

import (
	"encoding/csv"
	"log/slog"
	"os"

	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/google/uuid"
)

// ErrorLog appends recoverable-error records to a CSV audit file.
// The file is append-only across runs; every row carries the run ID
// so a single file can hold the history of many runs.
type ErrorLog struct {
	path  string
	runID string
}

// NewErrorLog creates an error log writer for path with a fresh run ID.
func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path, runID: uuid.New().String()}
}

// RunID returns the identifier stamped on every row of this run.
func (l *ErrorLog) RunID() string {
	return l.runID
}

// Append writes the collected records to the log. Row layout is
// (run_id, error_kind, subject, detail...); detail length varies by
// kind. A nil or empty collector writes nothing and touches no file.
func (l *ErrorLog) Append(errs *rmp.Collector) error {
	if errs == nil || errs.Len() == 0 {
		return nil
	}

	f, err := os.OpenFile(
		l.path,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return ErrorLogWriteError(l.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, rec := range errs.Records() {
		row := append(
			[]string{l.runID, string(rec.Kind), rec.Subject},
			rec.Detail...,
		)
		if err = w.Write(row); err != nil {
			return ErrorLogWriteError(l.path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return ErrorLogWriteError(l.path, err)
	}

	slog.Info("Appended error log",
		"path", l.path,
		"run_id", l.runID,
		"records", errs.Len(),
	)
	return nil
}
