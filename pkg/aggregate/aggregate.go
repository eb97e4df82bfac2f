// Package aggregate computes the multi-level aggregates of the pipeline:
// per-(teacher, course) rating metrics and tag frequency tables at the
// teacher and teacher-course levels. All functions are pure and their
// outputs are fully sorted for deterministic downstream diffing.
package aggregate

import (
	"database/sql"
	"sort"
	"strings"

	"github.com/edstats/rmpdb/pkg/config"
	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/edstats/rmpdb/pkg/schema"
)

// courseKey groups reviews by teacher and normalized course code.
type courseKey struct {
	teacherID string
	classCode string
}

type courseAcc struct {
	n             int
	claritySum    float64
	clarityN      int
	difficultySum float64
	difficultyN   int
	wtaTrue       int
	wtaKnown      int
}

// CourseMetrics groups reviews by (teacher_id, normalized class code)
// and computes count, mean clarity, mean difficulty, and the
// would-take-again rate. Missing numeric values are excluded from their
// mean; unknown tri-state values count in neither the numerator nor the
// denominator of the rate. Reviews without a class label are excluded,
// so per teacher the n_ratings sum equals that teacher's count of
// reviews with a class. Output is sorted by (teacher_id, class_code).
func CourseMetrics(reviews []rmp.RawReview) []schema.TeacherCourse {
	acc := make(map[courseKey]*courseAcc)

	for _, r := range reviews {
		if !r.Class.Valid {
			continue
		}
		key := courseKey{
			teacherID: r.TeacherID,
			classCode: normalize.CourseCode(r.Class.String),
		}
		a, ok := acc[key]
		if !ok {
			a = &courseAcc{}
			acc[key] = a
		}

		a.n++
		if r.ClarityRating.Valid {
			a.claritySum += r.ClarityRating.Float64
			a.clarityN++
		}
		if r.DifficultyRating.Valid {
			a.difficultySum += r.DifficultyRating.Float64
			a.difficultyN++
		}
		switch r.WouldTakeAgain {
		case normalize.True:
			a.wtaTrue++
			a.wtaKnown++
		case normalize.False:
			a.wtaKnown++
		}
	}

	res := make([]schema.TeacherCourse, 0, len(acc))
	for key, a := range acc {
		res = append(res, schema.TeacherCourse{
			TeacherID:          key.teacherID,
			ClassCode:          key.classCode,
			NRatings:           a.n,
			AvgClarity:         mean(a.claritySum, a.clarityN),
			AvgDifficulty:      mean(a.difficultySum, a.difficultyN),
			WouldTakeAgainRate: mean(float64(a.wtaTrue), a.wtaKnown),
		})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].TeacherID != res[j].TeacherID {
			return res[i].TeacherID < res[j].TeacherID
		}
		return res[i].ClassCode < res[j].ClassCode
	})

	return res
}

// TagTuple is one extracted (teacher, course, tag) occurrence. Tag text
// is preserved verbatim, only whitespace-trimmed.
type TagTuple struct {
	TeacherID string
	ClassCode string
	Tag       string
}

// ExtractTags splits the raw delimited tag field of every review on the
// fixed delimiter, trims each token, and drops empty ones. Order follows
// review order, then token order within a review. Reviews without a
// class label contribute tuples with an empty class code, per the
// normalization contract for missing course labels.
func ExtractTags(reviews []rmp.RawReview) []TagTuple {
	var res []TagTuple

	for _, r := range reviews {
		if !r.RatingTags.Valid {
			continue
		}
		cls := ""
		if r.Class.Valid {
			cls = normalize.CourseCode(r.Class.String)
		}
		for _, tok := range strings.Split(r.RatingTags.String, config.TagDelimiter) {
			tag := strings.TrimSpace(tok)
			if tag == "" {
				continue
			}
			res = append(res, TagTuple{
				TeacherID: r.TeacherID,
				ClassCode: cls,
				Tag:       tag,
			})
		}
	}

	return res
}

// TagCounts aggregates extracted tuples at two granularities:
// (teacher_id, tag) and (teacher_id, class_code, tag). Within a grouping
// key rows sort descending by count; the grouping key itself sorts
// ascending, with the tag text as the final ascending tie-break so equal
// counts stay stable.
func TagCounts(
	tuples []TagTuple,
) ([]schema.TeacherTagCount, []schema.TeacherCourseTagCount) {
	type teacherTag struct {
		tid, tag string
	}
	type courseTag struct {
		tid, cls, tag string
	}

	byTeacher := make(map[teacherTag]int)
	byCourse := make(map[courseTag]int)
	for _, t := range tuples {
		byTeacher[teacherTag{t.TeacherID, t.Tag}]++
		byCourse[courseTag{t.TeacherID, t.ClassCode, t.Tag}]++
	}

	teacherRes := make([]schema.TeacherTagCount, 0, len(byTeacher))
	for k, n := range byTeacher {
		teacherRes = append(teacherRes, schema.TeacherTagCount{
			TeacherID: k.tid,
			Tag:       k.tag,
			N:         n,
		})
	}
	sort.Slice(teacherRes, func(i, j int) bool {
		a, b := teacherRes[i], teacherRes[j]
		if a.TeacherID != b.TeacherID {
			return a.TeacherID < b.TeacherID
		}
		if a.N != b.N {
			return a.N > b.N
		}
		return a.Tag < b.Tag
	})

	courseRes := make([]schema.TeacherCourseTagCount, 0, len(byCourse))
	for k, n := range byCourse {
		courseRes = append(courseRes, schema.TeacherCourseTagCount{
			TeacherID: k.tid,
			ClassCode: k.cls,
			Tag:       k.tag,
			N:         n,
		})
	}
	sort.Slice(courseRes, func(i, j int) bool {
		a, b := courseRes[i], courseRes[j]
		if a.TeacherID != b.TeacherID {
			return a.TeacherID < b.TeacherID
		}
		if a.ClassCode != b.ClassCode {
			return a.ClassCode < b.ClassCode
		}
		if a.N != b.N {
			return a.N > b.N
		}
		return a.Tag < b.Tag
	})

	return teacherRes, courseRes
}

func mean(sum float64, n int) sql.NullFloat64 {
	if n == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: sum / float64(n), Valid: true}
}
