package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
// IF NOT EXISTS keeps snapshot creation idempotent.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && dbTag != "-" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	// Composite primary keys live in a pk tag on the model level.
	if pk := pkColumns(t); len(pk) > 1 {
		columns = append(columns,
			fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// pkColumns collects db names of fields tagged as gorm primary keys.
func pkColumns(t reflect.Type) []string {
	var res []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if strings.Contains(field.Tag.Get("gorm"), "primaryKey") {
			if db := field.Tag.Get("db"); db != "" && db != "-" {
				res = append(res, db)
			}
		}
	}
	return res
}

// Teacher DDL methods
func (t Teacher) TableDDL() string {
	return generateDDL(t, "teachers")
}

func (t Teacher) IndexDDL() []string {
	return []string{}
}

func (t Teacher) TableName() string {
	return "teachers"
}

// TeacherCourse DDL methods
func (tc TeacherCourse) TableDDL() string {
	return generateDDL(tc, "teacher_courses")
}

func (tc TeacherCourse) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_teacher_courses_class ON teacher_courses(class_code);",
		"CREATE INDEX IF NOT EXISTS idx_teacher_courses_teacher ON teacher_courses(teacher_id);",
	}
}

func (tc TeacherCourse) TableName() string {
	return "teacher_courses"
}

// TeacherTagCount DDL methods
func (tt TeacherTagCount) TableDDL() string {
	return generateDDL(tt, "teacher_tag_counts")
}

func (tt TeacherTagCount) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_teacher_tag_counts_teacher ON teacher_tag_counts(teacher_id);",
	}
}

func (tt TeacherTagCount) TableName() string {
	return "teacher_tag_counts"
}

// TeacherCourseTagCount DDL methods
func (ct TeacherCourseTagCount) TableDDL() string {
	return generateDDL(ct, "teacher_course_tag_counts")
}

func (ct TeacherCourseTagCount) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_teacher_course_tag_counts ON teacher_course_tag_counts(teacher_id, class_code);",
	}
}

func (ct TeacherCourseTagCount) TableName() string {
	return "teacher_course_tag_counts"
}

// RatingRaw DDL methods
func (r RatingRaw) TableDDL() string {
	return generateDDL(r, "ratings_raw")
}

func (r RatingRaw) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_ratings_raw_teacher ON ratings_raw(teacher_id);",
		"CREATE INDEX IF NOT EXISTS idx_ratings_raw_class ON ratings_raw(class);",
	}
}

func (r RatingRaw) TableName() string {
	return "ratings_raw"
}
