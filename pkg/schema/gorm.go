package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate, in
// foreign-key-safe order: teachers before every table referencing
// teacher_id.
func AllModels() []interface{} {
	return []interface{}{
		&Teacher{},
		&TeacherCourse{},
		&TeacherTagCount{},
		&TeacherCourseTagCount{},
		&RatingRaw{},
	}
}

// Migrate runs GORM AutoMigrate to create or update the schema.
// Foreign-key constraints are added separately by the schema manager.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// ForeignKeyDDL returns the ALTER TABLE statements enforcing referential
// integrity of the snapshot. Applied after AutoMigrate; idempotent on
// PostgreSQL 15+ via the guarded names.
func ForeignKeyDDL() []string {
	return []string{
		`ALTER TABLE teacher_courses
			DROP CONSTRAINT IF EXISTS fk_teacher_courses_teacher,
			ADD CONSTRAINT fk_teacher_courses_teacher
			FOREIGN KEY (teacher_id) REFERENCES teachers(teacher_id)`,
		`ALTER TABLE teacher_tag_counts
			DROP CONSTRAINT IF EXISTS fk_teacher_tag_counts_teacher,
			ADD CONSTRAINT fk_teacher_tag_counts_teacher
			FOREIGN KEY (teacher_id) REFERENCES teachers(teacher_id)`,
		`ALTER TABLE teacher_course_tag_counts
			DROP CONSTRAINT IF EXISTS fk_teacher_course_tag_counts_teacher,
			ADD CONSTRAINT fk_teacher_course_tag_counts_teacher
			FOREIGN KEY (teacher_id) REFERENCES teachers(teacher_id)`,
	}
}
