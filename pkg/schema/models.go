// Package schema provides database models for the review snapshot.
// The same models generate both the PostgreSQL schema (GORM AutoMigrate)
// and the SQLite snapshot DDL (ddl struct tags).
package schema

import (
	"database/sql"
)

// DDLGenerator defines how models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Teacher is the canonical identity row: exactly one per distinct
// teacher_id observed in reviews. Name and department are "best
// available": professor-directory values override file-derived values
// when a normalized (name, department) match exists. The four aggregate
// fields come only from the directory and stay NULL otherwise.
type Teacher struct {
	// TeacherID is the opaque token parsed from review filenames.
	// Assumed-but-not-verified globally unique.
	TeacherID string `db:"teacher_id" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;column:teacher_id"`

	// Name is the display name of the teacher.
	Name string `db:"name" ddl:"TEXT NOT NULL"`

	// Department is the display department label.
	Department string `db:"department" ddl:"TEXT"`

	// Classes is the sorted set of distinct raw course labels taught.
	// Kept on the in-memory row for display; not part of the relational
	// teachers table.
	Classes []string `db:"-" gorm:"-" json:"classes,omitempty"`

	AvgRating             sql.NullFloat64 `db:"avg_rating" ddl:"REAL"`
	AvgDifficulty         sql.NullFloat64 `db:"avg_difficulty" ddl:"REAL"`
	NumRatings            sql.NullInt32   `db:"num_ratings" ddl:"INTEGER"`
	WouldTakeAgainPercent sql.NullFloat64 `db:"would_take_again_percent" ddl:"REAL"`
}

// TeacherCourse holds aggregate metrics for one (teacher_id, class_code)
// pair. ClassCode is the normalized course code, not the raw label.
type TeacherCourse struct {
	TeacherID string `db:"teacher_id" ddl:"TEXT NOT NULL REFERENCES teachers(teacher_id)" gorm:"primaryKey;column:teacher_id"`
	ClassCode string `db:"class_code" ddl:"TEXT NOT NULL" gorm:"primaryKey;column:class_code"`

	// NRatings is the number of reviews in the group.
	NRatings int `db:"n_ratings" ddl:"INTEGER"`

	// AvgClarity is the mean clarity rating; NULL when no review in the
	// group carried a numeric clarity value.
	AvgClarity sql.NullFloat64 `db:"avg_clarity" ddl:"REAL"`

	// AvgDifficulty is the mean difficulty rating over numeric values.
	AvgDifficulty sql.NullFloat64 `db:"avg_difficulty" ddl:"REAL"`

	// WouldTakeAgainRate is the fraction of affirmed-true values among
	// known would_take_again answers. Unknowns count neither way.
	WouldTakeAgainRate sql.NullFloat64 `db:"would_take_again_rate" ddl:"REAL"`
}

// TeacherTagCount is the per-teacher frequency of one rating tag.
// Tag text is preserved verbatim, only whitespace-trimmed.
type TeacherTagCount struct {
	TeacherID string `db:"teacher_id" ddl:"TEXT NOT NULL REFERENCES teachers(teacher_id)" gorm:"primaryKey;column:teacher_id"`
	Tag       string `db:"tag" ddl:"TEXT NOT NULL" gorm:"primaryKey;column:tag"`
	N         int    `db:"n" ddl:"INTEGER NOT NULL"`
}

// TeacherCourseTagCount is the per-(teacher, course) frequency of one
// rating tag.
type TeacherCourseTagCount struct {
	TeacherID string `db:"teacher_id" ddl:"TEXT NOT NULL REFERENCES teachers(teacher_id)" gorm:"primaryKey;column:teacher_id"`
	ClassCode string `db:"class_code" ddl:"TEXT NOT NULL" gorm:"primaryKey;column:class_code"`
	Tag       string `db:"tag" ddl:"TEXT NOT NULL" gorm:"primaryKey;column:tag"`
	N         int    `db:"n" ddl:"INTEGER NOT NULL"`
}

// RatingRaw is the cleaned, flattened review row. Opaque ids are kept
// as-is (they may carry '=' padding from base64). Written only when the
// raw table is requested.
type RatingRaw struct {
	TeacherID        string          `db:"teacher_id" ddl:"TEXT NOT NULL" gorm:"column:teacher_id"`
	TeacherNameFile  sql.NullString  `db:"teacher_name_file" ddl:"TEXT"`
	Department       sql.NullString  `db:"department" ddl:"TEXT"`
	Class            sql.NullString  `db:"class" ddl:"TEXT"`
	DatePosted       sql.NullString  `db:"date_posted" ddl:"TEXT"`
	DifficultyRating sql.NullFloat64 `db:"difficulty_rating" ddl:"REAL"`
	ClarityRating    sql.NullFloat64 `db:"clarity_rating" ddl:"REAL"`
	StudentGrade     sql.NullString  `db:"student_grade" ddl:"TEXT"`
	AttendanceStatus sql.NullString  `db:"attendance_status" ddl:"TEXT"`
	IsForCredit      sql.NullInt16   `db:"is_for_credit" ddl:"INTEGER"`
	IsOnline         sql.NullInt16   `db:"is_online" ddl:"INTEGER"`
	CommentLikes     sql.NullInt32   `db:"comment_likes" ddl:"INTEGER"`
	CommentDislikes  sql.NullInt32   `db:"comment_dislikes" ddl:"INTEGER"`
	TextbookUse      sql.NullFloat64 `db:"textbook_use" ddl:"REAL"`
	WouldTakeAgain   sql.NullInt16   `db:"would_take_again" ddl:"INTEGER"`
	RatingTags       sql.NullString  `db:"rating_tags" ddl:"TEXT"`
	Comment          sql.NullString  `db:"comment" ddl:"TEXT"`
	SourceFile       string          `db:"source_file" ddl:"TEXT"`

	// Extra holds unrecognized fields passed through untouched,
	// serialized as a JSON document.
	Extra sql.NullString `db:"extra" ddl:"TEXT"`
}
