package pipeline_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/edstats/rmpdb/pkg/pipeline"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	profs   []rmp.ProfessorEntry
	reviews []rmp.RawReview
	profErr error
}

func (f *fakeReader) LoadProfessors(context.Context) ([]rmp.ProfessorEntry, error) {
	return f.profs, f.profErr
}

func (f *fakeReader) LoadReviews(
	_ context.Context, _ *rmp.Collector,
) ([]rmp.RawReview, error) {
	return f.reviews, nil
}

func TestBuild(t *testing.T) {
	r := &fakeReader{
		reviews: []rmp.RawReview{
			{
				TeacherID:       "T1",
				TeacherNameFile: "Amy Hrinsin",
				Department:      "Accounting",
				Class:           sql.NullString{String: "ACCT 2102", Valid: true},
				RatingTags:      sql.NullString{String: "Caring--Funny", Valid: true},
			},
			{
				TeacherID:       "T1",
				TeacherNameFile: "Amy Hrinsin",
				Department:      "Accounting",
				Class:           sql.NullString{String: "ACCT-2102", Valid: true},
			},
		},
	}

	var errs rmp.Collector
	ds, err := pipeline.Build(context.Background(), r, &errs)
	require.NoError(t, err)

	require.Len(t, ds.Teachers, 1)
	assert.Equal(t, "T1", ds.Teachers[0].TeacherID)
	require.Len(t, ds.Courses, 1)
	assert.Equal(t, 2, ds.Courses[0].NRatings)
	assert.Len(t, ds.TagCounts, 2)
	assert.Len(t, ds.CourseTagCounts, 2)
	assert.Len(t, ds.Reviews, 2)
}

func TestBuildEmptyReviews(t *testing.T) {
	var errs rmp.Collector
	ds, err := pipeline.Build(context.Background(), &fakeReader{}, &errs)
	require.NoError(t, err)

	assert.Empty(t, ds.Teachers)
	assert.Empty(t, ds.Courses)
	assert.Empty(t, ds.TagCounts)
}

func TestBuildProfessorsFatal(t *testing.T) {
	r := &fakeReader{profErr: errors.New("boom")}

	var errs rmp.Collector
	_, err := pipeline.Build(context.Background(), r, &errs)
	assert.Error(t, err)
}
