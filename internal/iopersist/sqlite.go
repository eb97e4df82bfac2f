package iopersist

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/edstats/rmpdb/pkg/config"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/edstats/rmpdb/pkg/schema"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"

	// SQLite driver for the portable snapshot file.
	_ "modernc.org/sqlite"
)

// sqlitePersister writes the dataset into a single-file SQLite
// database. The file is self-contained and portable; schema and
// indexes come from the same models that drive the PostgreSQL side.
type sqlitePersister struct {
	cfg  *config.Config
	path string
	enc  gnfmt.GNjson
}

// NewSQLite creates a Persister writing a SQLite snapshot at path.
func NewSQLite(cfg *config.Config, path string) rmp.Persister {
	return &sqlitePersister{cfg: cfg, path: path}
}

// sqlitePragmas tune the connection for a bulk one-shot load.
// WAL keeps readers unblocked if someone opens the file mid-write.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA synchronous = NORMAL;",
	"PRAGMA temp_store = MEMORY;",
	"PRAGMA foreign_keys = ON;",
}

func (p *sqlitePersister) Persist(
	ctx context.Context,
	ds *rmp.Dataset,
	includeRaw bool,
) error {
	start := time.Now()
	slog.Info("Writing SQLite snapshot", "path", p.path)

	sdb, err := sql.Open("sqlite", p.path)
	if err != nil {
		return SQLiteOpenError(p.path, err)
	}
	defer sdb.Close()

	for _, pragma := range sqlitePragmas {
		if _, err = sdb.ExecContext(ctx, pragma); err != nil {
			return SQLiteOpenError(p.path, err)
		}
	}

	if err = createSQLiteSchema(ctx, sdb); err != nil {
		return err
	}

	tx, err := sdb.BeginTx(ctx, nil)
	if err != nil {
		return SQLiteWriteError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err = p.writeTables(ctx, tx, ds, includeRaw); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return SQLiteWriteError(err)
	}

	gn.Info("SQLite snapshot written to <em>%s</em> in %s",
		p.path, gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}

// createSQLiteSchema creates all tables and indexes. DDL uses
// IF NOT EXISTS, so re-running against an existing snapshot file is
// safe; stale rows are removed by the delete pass in writeTables.
func createSQLiteSchema(ctx context.Context, sdb *sql.DB) error {
	models := []schema.DDLGenerator{
		schema.Teacher{},
		schema.TeacherCourse{},
		schema.TeacherTagCount{},
		schema.TeacherCourseTagCount{},
		schema.RatingRaw{},
	}

	for _, m := range models {
		if _, err := sdb.ExecContext(ctx, m.TableDDL()); err != nil {
			return SQLiteSchemaError(m.TableName(), err)
		}
		for _, idx := range m.IndexDDL() {
			if _, err := sdb.ExecContext(ctx, idx); err != nil {
				return SQLiteSchemaError(m.TableName(), err)
			}
		}
	}
	return nil
}

func (p *sqlitePersister) writeTables(
	ctx context.Context,
	tx *sql.Tx,
	ds *rmp.Dataset,
	includeRaw bool,
) error {
	// Child tables first, teachers last, mirroring the foreign keys.
	clear := []string{
		"teacher_course_tag_counts",
		"teacher_tag_counts",
		"teacher_courses",
		"ratings_raw",
		"teachers",
	}
	for _, table := range clear {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return SQLiteWriteError(err)
		}
	}

	if err := p.writeTeachers(ctx, tx, ds.Teachers); err != nil {
		return err
	}
	if err := p.writeCourses(ctx, tx, ds.Courses); err != nil {
		return err
	}
	if err := p.writeTagCounts(ctx, tx, ds.TagCounts); err != nil {
		return err
	}
	if err := p.writeCourseTagCounts(ctx, tx, ds.CourseTagCounts); err != nil {
		return err
	}
	if includeRaw {
		if err := p.writeReviews(ctx, tx, ds.Reviews); err != nil {
			return err
		}
	}
	return nil
}

func (p *sqlitePersister) writeTeachers(
	ctx context.Context,
	tx *sql.Tx,
	teachers []schema.Teacher,
) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO teachers
		(teacher_id, name, department, avg_rating, avg_difficulty,
		 num_ratings, would_take_again_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return SQLiteWriteError(err)
	}
	defer stmt.Close()

	for _, t := range teachers {
		_, err = stmt.ExecContext(ctx,
			t.TeacherID, t.Name, t.Department,
			t.AvgRating, t.AvgDifficulty, t.NumRatings,
			t.WouldTakeAgainPercent,
		)
		if err != nil {
			return SQLiteWriteError(err)
		}
	}

	slog.Info("Wrote teachers", "count", humanize.Comma(int64(len(teachers))))
	return nil
}

func (p *sqlitePersister) writeCourses(
	ctx context.Context,
	tx *sql.Tx,
	courses []schema.TeacherCourse,
) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO teacher_courses
		(teacher_id, class_code, n_ratings, avg_clarity,
		 avg_difficulty, would_take_again_rate)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return SQLiteWriteError(err)
	}
	defer stmt.Close()

	for _, c := range courses {
		_, err = stmt.ExecContext(ctx,
			c.TeacherID, c.ClassCode, c.NRatings,
			c.AvgClarity, c.AvgDifficulty, c.WouldTakeAgainRate,
		)
		if err != nil {
			return SQLiteWriteError(err)
		}
	}

	slog.Info("Wrote teacher courses",
		"count", humanize.Comma(int64(len(courses))))
	return nil
}

func (p *sqlitePersister) writeTagCounts(
	ctx context.Context,
	tx *sql.Tx,
	counts []schema.TeacherTagCount,
) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO teacher_tag_counts
		(teacher_id, tag, n) VALUES (?, ?, ?)`)
	if err != nil {
		return SQLiteWriteError(err)
	}
	defer stmt.Close()

	for _, c := range counts {
		if _, err = stmt.ExecContext(ctx, c.TeacherID, c.Tag, c.N); err != nil {
			return SQLiteWriteError(err)
		}
	}

	slog.Info("Wrote teacher tag counts",
		"count", humanize.Comma(int64(len(counts))))
	return nil
}

func (p *sqlitePersister) writeCourseTagCounts(
	ctx context.Context,
	tx *sql.Tx,
	counts []schema.TeacherCourseTagCount,
) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO teacher_course_tag_counts
		(teacher_id, class_code, tag, n) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return SQLiteWriteError(err)
	}
	defer stmt.Close()

	for _, c := range counts {
		_, err = stmt.ExecContext(ctx, c.TeacherID, c.ClassCode, c.Tag, c.N)
		if err != nil {
			return SQLiteWriteError(err)
		}
	}

	slog.Info("Wrote teacher course tag counts",
		"count", humanize.Comma(int64(len(counts))))
	return nil
}

// writeReviews inserts the cleaned raw review rows. Reviews dominate
// the row counts by a couple orders of magnitude, so this table gets
// a progress bar.
func (p *sqlitePersister) writeReviews(
	ctx context.Context,
	tx *sql.Tx,
	reviews []rmp.RawReview,
) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ratings_raw
		(teacher_id, teacher_name_file, department, class, date_posted,
		 difficulty_rating, clarity_rating, student_grade,
		 attendance_status, is_for_credit, is_online, comment_likes,
		 comment_dislikes, textbook_use, would_take_again, rating_tags,
		 comment, source_file, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return SQLiteWriteError(err)
	}
	defer stmt.Close()

	bar := pb.Full.Start(len(reviews))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for i := range reviews {
		r := &reviews[i]
		extra, err := p.reviewExtraJSON(r)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			r.TeacherID, r.TeacherNameFile, r.Department,
			r.Class, r.DatePosted,
			r.DifficultyRating, r.ClarityRating,
			r.StudentGrade, r.AttendanceStatus,
			r.IsForCredit.NullInt16(), r.IsOnline.NullInt16(),
			r.CommentLikes, r.CommentDislikes, r.TextbookUse,
			r.WouldTakeAgain.NullInt16(),
			r.RatingTags, r.Comment, r.SourceFile,
			extra,
		)
		if err != nil {
			return SQLiteWriteError(err)
		}
		bar.Increment()
	}

	slog.Info("Wrote raw reviews",
		"count", humanize.Comma(int64(len(reviews))))
	return nil
}

func (p *sqlitePersister) reviewExtraJSON(
	r *rmp.RawReview,
) (interface{}, error) {
	if len(r.Extra) == 0 {
		return nil, nil
	}
	bs, err := p.enc.Encode(r.Extra)
	if err != nil {
		return nil, SQLiteWriteError(err)
	}
	return string(bs), nil
}
