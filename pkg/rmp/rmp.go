// Package rmp holds the domain model of the review-cleaning pipeline:
// raw review records with provenance, professor directory entries, the
// assembled dataset of output tables, and the lifecycle interfaces
// implemented by the impure internal/io* packages.
package rmp

import (
	"database/sql"

	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/schema"
)

// RawReview is one student review, created once per JSON entry at read
// time and immutable afterwards. Reviews are never merged or
// deduplicated - two reviews with identical fields are distinct rows.
type RawReview struct {
	// TeacherID is the opaque token parsed from the source filename.
	TeacherID string

	// TeacherNameFile is the display name parsed from the filename.
	TeacherNameFile string

	// Department is the name of the containing directory.
	Department string

	Class            sql.NullString
	DatePosted       sql.NullString
	DifficultyRating sql.NullFloat64
	ClarityRating    sql.NullFloat64
	StudentGrade     sql.NullString
	AttendanceStatus sql.NullString

	IsForCredit    normalize.Tristate
	IsOnline       normalize.Tristate
	WouldTakeAgain normalize.Tristate

	CommentLikes    sql.NullInt32
	CommentDislikes sql.NullInt32
	TextbookUse     sql.NullFloat64
	RatingTags      sql.NullString
	Comment         sql.NullString

	// SourceFile is the provenance path of the record.
	SourceFile string

	// Extra holds fields beyond the recognized set, passed through
	// untouched and re-emitted at output.
	Extra map[string]any
}

// ProfessorEntry is one authoritative professor record, read-only after
// load. NameNorm and DeptNorm are the normalized matching keys computed
// at load time.
type ProfessorEntry struct {
	Name       string
	Department string

	AvgRating             sql.NullFloat64
	AvgDifficulty         sql.NullFloat64
	NumRatings            sql.NullInt32
	WouldTakeAgainPercent sql.NullFloat64

	NameNorm string
	DeptNorm string
}

// Dataset is the fully-formed output of the cleaning pipeline, handed to
// persistence as a unit so that a persistence failure never requires
// re-running the cleaning logic.
type Dataset struct {
	Teachers        []schema.Teacher
	Reviews         []RawReview
	Courses         []schema.TeacherCourse
	TagCounts       []schema.TeacherTagCount
	CourseTagCounts []schema.TeacherCourseTagCount
}

// PreferredReviewColumns is the fixed column prefix of the flattened
// review set. The ordering is cosmetic, not semantic, but downstream
// consumers expect stable column positions.
var PreferredReviewColumns = []string{
	"teacher_id", "teacher_name_file", "department",
	"class", "date_posted", "difficulty_rating", "clarity_rating",
	"student_grade", "attendance_status", "is_for_credit", "is_online",
	"comment_likes", "comment_dislikes", "textbook_use", "would_take_again",
	"rating_tags", "comment", "source_file",
}

// ReviewColumns returns the deterministic column ordering of the
// flattened review set: the preferred prefix followed by any extra
// fields in their first-seen order across the reviews.
func (d *Dataset) ReviewColumns() []string {
	cols := make([]string, len(PreferredReviewColumns))
	copy(cols, PreferredReviewColumns)

	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		seen[c] = struct{}{}
	}

	for _, r := range d.Reviews {
		for _, k := range r.ExtraKeys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}

	return cols
}
