// Package iopersist implements the Persister interface for writing the
// assembled dataset into PostgreSQL, plus an optional SQLite snapshot
// writer and the append-only CSV error log.
// This is an impure I/O package that performs bulk inserts.
package iopersist

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/edstats/rmpdb/pkg/config"
	"github.com/edstats/rmpdb/pkg/db"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/edstats/rmpdb/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
)

// persister implements the Persister interface over a pgx pool.
type persister struct {
	cfg      *config.Config
	operator db.Operator
	enc      gnfmt.GNjson
}

// New creates a new Persister backed by PostgreSQL.
func New(cfg *config.Config, op db.Operator) rmp.Persister {
	return &persister{cfg: cfg, operator: op}
}

// Persist replaces the snapshot tables with the dataset contents.
// All writes happen in one transaction so a failure never leaves a
// partially replaced snapshot. Write order is foreign-key safe:
// deletes run child-first, inserts run teachers-first.
func (p *persister) Persist(
	ctx context.Context,
	ds *rmp.Dataset,
	includeRaw bool,
) error {
	pool := p.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	start := time.Now()
	slog.Info("Starting snapshot persistence",
		"teachers", len(ds.Teachers),
		"reviews", len(ds.Reviews),
		"include_raw", includeRaw,
	)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return TeachersInsertError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = clearTables(ctx, tx); err != nil {
		return err
	}

	if err = insertTeachers(ctx, tx, ds.Teachers); err != nil {
		return err
	}
	if err = insertCourses(ctx, tx, ds.Courses); err != nil {
		return err
	}
	if err = insertTagCounts(ctx, tx, ds.TagCounts); err != nil {
		return err
	}
	if err = insertCourseTagCounts(ctx, tx, ds.CourseTagCounts); err != nil {
		return err
	}
	if includeRaw {
		if err = p.insertReviews(ctx, tx, ds.Reviews); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return TeachersInsertError(err)
	}

	p.report(ds, includeRaw, time.Since(start))
	return nil
}

// clearTables empties the snapshot tables child-first so foreign keys
// never block the delete.
func clearTables(ctx context.Context, tx pgx.Tx) error {
	// ratings_raw is cleared even when the new run skips it, so a
	// previous run's rows cannot go stale against the new snapshot.
	tables := []string{
		"teacher_course_tag_counts",
		"teacher_tag_counts",
		"teacher_courses",
		"ratings_raw",
		"teachers",
	}
	for _, table := range tables {
		_, err := tx.Exec(ctx, "DELETE FROM "+table)
		if err != nil {
			return TeachersInsertError(err)
		}
	}
	return nil
}

func insertTeachers(
	ctx context.Context,
	tx pgx.Tx,
	teachers []schema.Teacher,
) error {
	columns := []string{
		"teacher_id", "name", "department",
		"avg_rating", "avg_difficulty", "num_ratings",
		"would_take_again_percent",
	}

	rows := make([][]interface{}, len(teachers))
	for i, t := range teachers {
		rows[i] = []interface{}{
			t.TeacherID, t.Name, t.Department,
			t.AvgRating, t.AvgDifficulty, t.NumRatings,
			t.WouldTakeAgainPercent,
		}
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"teachers"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return TeachersInsertError(err)
	}
	return nil
}

func insertCourses(
	ctx context.Context,
	tx pgx.Tx,
	courses []schema.TeacherCourse,
) error {
	columns := []string{
		"teacher_id", "class_code", "n_ratings",
		"avg_clarity", "avg_difficulty", "would_take_again_rate",
	}

	rows := make([][]interface{}, len(courses))
	for i, c := range courses {
		rows[i] = []interface{}{
			c.TeacherID, c.ClassCode, c.NRatings,
			c.AvgClarity, c.AvgDifficulty, c.WouldTakeAgainRate,
		}
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"teacher_courses"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return CoursesInsertError(err)
	}
	return nil
}

func insertTagCounts(
	ctx context.Context,
	tx pgx.Tx,
	counts []schema.TeacherTagCount,
) error {
	columns := []string{"teacher_id", "tag", "n"}

	rows := make([][]interface{}, len(counts))
	for i, c := range counts {
		rows[i] = []interface{}{c.TeacherID, c.Tag, c.N}
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"teacher_tag_counts"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return TagCountsInsertError(err)
	}
	return nil
}

func insertCourseTagCounts(
	ctx context.Context,
	tx pgx.Tx,
	counts []schema.TeacherCourseTagCount,
) error {
	columns := []string{"teacher_id", "class_code", "tag", "n"}

	rows := make([][]interface{}, len(counts))
	for i, c := range counts {
		rows[i] = []interface{}{c.TeacherID, c.ClassCode, c.Tag, c.N}
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"teacher_course_tag_counts"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return TagCountsInsertError(err)
	}
	return nil
}

// insertReviews bulk-loads the cleaned raw review rows. Unrecognized
// fields travel in a single JSON column, so CopyFrom stays a fixed
// column set regardless of what extras the source files carried.
func (p *persister) insertReviews(
	ctx context.Context,
	tx pgx.Tx,
	reviews []rmp.RawReview,
) error {
	columns := []string{
		"teacher_id", "teacher_name_file", "department",
		"class", "date_posted", "difficulty_rating", "clarity_rating",
		"student_grade", "attendance_status", "is_for_credit", "is_online",
		"comment_likes", "comment_dislikes", "textbook_use",
		"would_take_again", "rating_tags", "comment", "source_file",
		"extra",
	}

	rows := make([][]interface{}, len(reviews))
	for i := range reviews {
		row, err := p.reviewRow(&reviews[i])
		if err != nil {
			return err
		}
		rows[i] = row
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"ratings_raw"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return ReviewsInsertError(err)
	}
	return nil
}

func (p *persister) reviewRow(r *rmp.RawReview) ([]interface{}, error) {
	extra, err := p.extraJSON(r)
	if err != nil {
		return nil, err
	}

	return []interface{}{
		r.TeacherID,
		r.TeacherNameFile,
		r.Department,
		r.Class,
		r.DatePosted,
		r.DifficultyRating,
		r.ClarityRating,
		r.StudentGrade,
		r.AttendanceStatus,
		r.IsForCredit.NullInt16(),
		r.IsOnline.NullInt16(),
		r.CommentLikes,
		r.CommentDislikes,
		r.TextbookUse,
		r.WouldTakeAgain.NullInt16(),
		r.RatingTags,
		r.Comment,
		r.SourceFile,
		extra,
	}, nil
}

// extraJSON serializes the pass-through fields of a review. Returns nil
// for reviews with no extras so the column stays NULL instead of "{}".
func (p *persister) extraJSON(r *rmp.RawReview) (interface{}, error) {
	if len(r.Extra) == 0 {
		return nil, nil
	}
	bs, err := p.enc.Encode(r.Extra)
	if err != nil {
		return nil, ReviewsInsertError(err)
	}
	return string(bs), nil
}

func (p *persister) report(
	ds *rmp.Dataset,
	includeRaw bool,
	elapsed time.Duration,
) {
	slog.Info("Snapshot written",
		"teachers", humanize.Comma(int64(len(ds.Teachers))),
		"teacher_courses", humanize.Comma(int64(len(ds.Courses))),
		"teacher_tag_counts", humanize.Comma(int64(len(ds.TagCounts))),
		"teacher_course_tag_counts",
		humanize.Comma(int64(len(ds.CourseTagCounts))),
		"duration", gnfmt.TimeString(elapsed.Seconds()),
	)
	if includeRaw {
		slog.Info("Raw reviews written",
			"ratings_raw", humanize.Comma(int64(len(ds.Reviews))))
	}

	gn.Info("Snapshot complete: <em>%s teachers, %s courses</em> in %s",
		humanize.Comma(int64(len(ds.Teachers))),
		humanize.Comma(int64(len(ds.Courses))),
		gnfmt.TimeString(elapsed.Seconds()),
	)
}
