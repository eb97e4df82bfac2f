package aggregate_test

import (
	"database/sql"
	"testing"

	"github.com/edstats/rmpdb/pkg/aggregate"
	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rev(tid, class string) rmp.RawReview {
	r := rmp.RawReview{TeacherID: tid}
	if class != "" {
		r.Class = sql.NullString{String: class, Valid: true}
	}
	return r
}

func TestCourseMetricsGrouping(t *testing.T) {
	r1 := rev("T1", "ACCT-2102")
	r1.ClarityRating = sql.NullFloat64{Float64: 4, Valid: true}
	r1.DifficultyRating = sql.NullFloat64{Float64: 2, Valid: true}
	r1.WouldTakeAgain = normalize.True

	// cosmetically different label of the same course
	r2 := rev("T1", "acct 2102")
	r2.ClarityRating = sql.NullFloat64{Float64: 2, Valid: true}
	r2.WouldTakeAgain = normalize.False

	// unknown would_take_again counts in neither numerator nor denominator
	r3 := rev("T1", "ACCT_2102")
	r3.WouldTakeAgain = normalize.Unknown

	r4 := rev("T1", "MATH 1551")

	res := aggregate.CourseMetrics([]rmp.RawReview{r1, r2, r3, r4})
	require.Len(t, res, 2)

	acct := res[0]
	assert.Equal(t, "ACCT2102", acct.ClassCode)
	assert.Equal(t, 3, acct.NRatings)
	require.True(t, acct.AvgClarity.Valid)
	assert.InEpsilon(t, 3.0, acct.AvgClarity.Float64, 1e-9)
	require.True(t, acct.AvgDifficulty.Valid)
	assert.InEpsilon(t, 2.0, acct.AvgDifficulty.Float64, 1e-9)
	require.True(t, acct.WouldTakeAgainRate.Valid)
	assert.InEpsilon(t, 0.5, acct.WouldTakeAgainRate.Float64, 1e-9)

	math := res[1]
	assert.Equal(t, "MATH1551", math.ClassCode)
	assert.Equal(t, 1, math.NRatings)
	// no numeric values at all: null, never zero
	assert.False(t, math.AvgClarity.Valid)
	assert.False(t, math.AvgDifficulty.Valid)
	assert.False(t, math.WouldTakeAgainRate.Valid)
}

func TestCourseMetricsPartition(t *testing.T) {
	reviews := []rmp.RawReview{
		rev("T1", "ACCT 2102"),
		rev("T1", "ACCT 2102"),
		rev("T1", "MATH 1551"),
		rev("T1", ""), // no class label: excluded from course metrics
		rev("T2", "PHYS 2211"),
	}

	res := aggregate.CourseMetrics(reviews)

	sums := make(map[string]int)
	for _, m := range res {
		sums[m.TeacherID] += m.NRatings
	}
	// sum of n_ratings equals the count of reviews with a class label
	assert.Equal(t, 3, sums["T1"])
	assert.Equal(t, 1, sums["T2"])
}

func TestCourseMetricsEmpty(t *testing.T) {
	assert.Empty(t, aggregate.CourseMetrics(nil))
}

func TestExtractTags(t *testing.T) {
	r := rev("T1", "ACCT 2102")
	r.RatingTags = sql.NullString{
		String: "Caring--Clear grading criteria--Tough grader",
		Valid:  true,
	}

	tuples := aggregate.ExtractTags([]rmp.RawReview{r})
	require.Len(t, tuples, 3)
	assert.Equal(t, "Caring", tuples[0].Tag)
	assert.Equal(t, "Clear grading criteria", tuples[1].Tag)
	assert.Equal(t, "Tough grader", tuples[2].Tag)
	for _, tu := range tuples {
		assert.Equal(t, "T1", tu.TeacherID)
		assert.Equal(t, "ACCT2102", tu.ClassCode)
	}
}

func TestExtractTagsEdgeCases(t *testing.T) {
	// empty tokens are dropped, case and spelling preserved
	r1 := rev("T1", "ACCT 2102")
	r1.RatingTags = sql.NullString{String: " caring -- --ToUgH grader ", Valid: true}

	// missing tag field contributes nothing
	r2 := rev("T1", "ACCT 2102")

	// missing class groups under the empty class code
	r3 := rev("T2", "")
	r3.RatingTags = sql.NullString{String: "Funny", Valid: true}

	tuples := aggregate.ExtractTags([]rmp.RawReview{r1, r2, r3})
	require.Len(t, tuples, 3)
	assert.Equal(t, "caring", tuples[0].Tag)
	assert.Equal(t, "ToUgH grader", tuples[1].Tag)
	assert.Equal(t, "", tuples[2].ClassCode)
	assert.Equal(t, "Funny", tuples[2].Tag)
}

func TestTagCounts(t *testing.T) {
	tuples := []aggregate.TagTuple{
		{TeacherID: "T1", ClassCode: "ACCT2102", Tag: "Caring"},
		{TeacherID: "T1", ClassCode: "ACCT2102", Tag: "Caring"},
		{TeacherID: "T1", ClassCode: "MATH1551", Tag: "Caring"},
		{TeacherID: "T1", ClassCode: "ACCT2102", Tag: "Tough grader"},
		{TeacherID: "T2", ClassCode: "PHYS2211", Tag: "Funny"},
	}

	byTeacher, byCourse := aggregate.TagCounts(tuples)

	require.Len(t, byTeacher, 3)
	// descending by count within teacher, tag ascending on ties
	assert.Equal(t, "T1", byTeacher[0].TeacherID)
	assert.Equal(t, "Caring", byTeacher[0].Tag)
	assert.Equal(t, 3, byTeacher[0].N)
	assert.Equal(t, "Tough grader", byTeacher[1].Tag)
	assert.Equal(t, 1, byTeacher[1].N)
	assert.Equal(t, "T2", byTeacher[2].TeacherID)

	require.Len(t, byCourse, 4)
	assert.Equal(t, "ACCT2102", byCourse[0].ClassCode)
	assert.Equal(t, "Caring", byCourse[0].Tag)
	assert.Equal(t, 2, byCourse[0].N)
	assert.Equal(t, "Tough grader", byCourse[1].Tag)
	assert.Equal(t, "MATH1551", byCourse[2].ClassCode)
	assert.Equal(t, 1, byCourse[2].N)
}

func TestTagCountsRoundTrip(t *testing.T) {
	r := rev("T1", "ACCT 2102")
	r.RatingTags = sql.NullString{
		String: "Caring--Clear grading criteria--Tough grader",
		Valid:  true,
	}

	byTeacher, _ := aggregate.TagCounts(aggregate.ExtractTags([]rmp.RawReview{r}))
	require.Len(t, byTeacher, 3)
	for _, tc := range byTeacher {
		assert.Equal(t, 1, tc.N)
	}
}
