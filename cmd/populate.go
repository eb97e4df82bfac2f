/*
Copyright © 2026 rmpdb authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"

	"github.com/edstats/rmpdb/internal/iodb"
	"github.com/edstats/rmpdb/internal/iopersist"
	"github.com/edstats/rmpdb/internal/ioread"
	"github.com/edstats/rmpdb/pkg/config"
	"github.com/edstats/rmpdb/pkg/errcode"
	"github.com/edstats/rmpdb/pkg/pipeline"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getPopulateCmd returns the populate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getPopulateCmd() *cobra.Command {
	var (
		includeRaw     bool
		sqlitePath     string
		reviewsDir     string
		professorsFile string
		errorLog       string
	)

	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Run the cleaning pipeline and load the snapshot tables",
		Long: `Ingest raw review files and load the snapshot tables.

This command:
  1. Walks the review tree (one directory per department) and parses
     every per-teacher JSON file
  2. Loads the professor directory and resolves teacher identities
  3. Aggregates per-course metrics and tag counts
  4. Bulk-loads teachers, teacher_courses, teacher_tag_counts and
     teacher_course_tag_counts into PostgreSQL
  5. Appends recoverable errors to the CSV error log

Unparseable filenames and unreadable files are skipped and logged;
the run only fails on a missing review tree or professor directory.

Use --include-raw to also write the flattened ratings_raw table.
Use --sqlite to write a self-contained SQLite file instead of
PostgreSQL; no database server is needed in that mode.

Examples:
  rmpdb populate
  rmpdb populate --include-raw
  rmpdb populate --sqlite rmp.sqlite --include-raw
  rmpdb populate -r ./raw_data_rmp/teachers_comments`,
		Aliases: []string{"ingest"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPopulate(cmd, includeRaw, sqlitePath)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	populateCmd.Flags().BoolVar(
		&includeRaw, "include-raw", false,
		"also write the flattened ratings_raw table",
	)
	populateCmd.Flags().StringVar(
		&sqlitePath, "sqlite", "",
		"write a SQLite snapshot file instead of PostgreSQL",
	)
	populateCmd.Flags().StringVarP(
		&reviewsDir, "reviews-dir", "r", "",
		"root of the review tree (one directory per department)",
	)
	populateCmd.Flags().StringVarP(
		&professorsFile, "professors-file", "p", "",
		"path to the professor directory JSON document",
	)
	populateCmd.Flags().StringVar(
		&errorLog, "error-log", "",
		"path of the append-only CSV error log",
	)

	return populateCmd
}

func runPopulate(
	cmd *cobra.Command,
	includeRaw bool,
	sqlitePath string,
) error {
	ctx := context.Background()

	applyIngestFlags(cmd)

	persister, cleanup, err := newPersister(ctx, sqlitePath)
	if err != nil {
		return err
	}
	defer cleanup()

	reader := ioread.New(cfg)
	var errs rmp.Collector

	ds, err := pipeline.Build(ctx, reader, &errs)
	if err != nil {
		return err
	}

	// The error log is written before persistence so a failed load
	// still leaves the audit trail of the cleaning phase.
	errLog := iopersist.NewErrorLog(cfg.Ingest.ErrorLog)
	if err = errLog.Append(&errs); err != nil {
		return err
	}

	if err = persister.Persist(ctx, ds, includeRaw); err != nil {
		return err
	}

	if errs.Len() > 0 {
		gn.Warn("Run <em>%s</em> skipped records: see '%s'",
			errLog.RunID(), cfg.Ingest.ErrorLog)
	}

	gn.Info(`Next steps:
	 - Inspect the tables with '<em>rmpdb preview</em>'
	 - Re-run '<em>rmpdb populate</em>' after refreshing the raw data
`)

	return nil
}

// applyIngestFlags folds explicitly set flags into the config,
// keeping the flags > env > file > defaults precedence.
func applyIngestFlags(cmd *cobra.Command) {
	var ingestOpts []config.Option

	if cmd.Flags().Changed("reviews-dir") {
		s, _ := cmd.Flags().GetString("reviews-dir")
		ingestOpts = append(ingestOpts, config.OptIngestReviewsDir(s))
	}
	if cmd.Flags().Changed("professors-file") {
		s, _ := cmd.Flags().GetString("professors-file")
		ingestOpts = append(ingestOpts, config.OptIngestProfessorsFile(s))
	}
	if cmd.Flags().Changed("error-log") {
		s, _ := cmd.Flags().GetString("error-log")
		ingestOpts = append(ingestOpts, config.OptIngestErrorLog(s))
	}

	if len(ingestOpts) > 0 {
		cfg.Update(ingestOpts)
	}
}

// newPersister picks the persistence target. With --sqlite the run is
// fully local; otherwise it connects to PostgreSQL and refuses to load
// into a database that has no schema yet.
func newPersister(
	ctx context.Context,
	sqlitePath string,
) (rmp.Persister, func(), error) {
	if sqlitePath != "" {
		gn.Info("Writing SQLite snapshot: <em>%s</em>", sqlitePath)
		return iopersist.NewSQLite(cfg, sqlitePath), func() {}, nil
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = op.Close() }

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if !hasTables {
		cleanup()
		err = &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Database appears to be empty.</err>
   Run <em>'rmpdb create'</em> first to initialize the schema.`,
			Err: errors.New("cannot insert data into empty database"),
		}
		return nil, nil, err
	}

	return iopersist.New(cfg, op), cleanup, nil
}
