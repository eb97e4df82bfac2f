package iopersist_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/edstats/rmpdb/internal/iopersist"
	"github.com/edstats/rmpdb/pkg/config"
	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/edstats/rmpdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testDataset() *rmp.Dataset {
	return &rmp.Dataset{
		Teachers: []schema.Teacher{
			{
				TeacherID:  "VGlkMQ==",
				Name:       "Ada Lovelace",
				Department: "mathematics",
				AvgRating:  sql.NullFloat64{Float64: 4.5, Valid: true},
			},
			{
				TeacherID: "VGlkMg==",
				Name:      "Alan Turing",
			},
		},
		Reviews: []rmp.RawReview{
			{
				TeacherID:       "VGlkMQ==",
				TeacherNameFile: "Ada Lovelace",
				Department:      "mathematics",
				Class: sql.NullString{
					String: "MATH 101", Valid: true,
				},
				ClarityRating: sql.NullFloat64{
					Float64: 5, Valid: true,
				},
				WouldTakeAgain: normalize.True,
				SourceFile:     "mathematics/Ada_Lovelace_VGlkMQ==.json",
				Extra:          map[string]any{"helpful": 3.0},
			},
			{
				TeacherID:       "VGlkMg==",
				TeacherNameFile: "Alan Turing",
				Department:      "mathematics",
				SourceFile:      "mathematics/Alan_Turing_VGlkMg==.json",
			},
		},
		Courses: []schema.TeacherCourse{
			{
				TeacherID: "VGlkMQ==",
				ClassCode: "MATH101",
				NRatings:  1,
				AvgClarity: sql.NullFloat64{
					Float64: 5, Valid: true,
				},
				WouldTakeAgainRate: sql.NullFloat64{
					Float64: 1, Valid: true,
				},
			},
		},
		TagCounts: []schema.TeacherTagCount{
			{TeacherID: "VGlkMQ==", Tag: "caring", N: 2},
		},
		CourseTagCounts: []schema.TeacherCourseTagCount{
			{TeacherID: "VGlkMQ==", ClassCode: "MATH101", Tag: "caring", N: 2},
		},
	}
}

func TestSQLitePersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rmp.sqlite")

	cfg := config.New()
	p := iopersist.NewSQLite(cfg, path)

	err := p.Persist(ctx, testDataset(), true)
	require.NoError(t, err)

	sdb, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer sdb.Close()

	var count int
	err = sdb.QueryRow("SELECT count(*) FROM teachers").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	err = sdb.QueryRow("SELECT count(*) FROM ratings_raw").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var name string
	var avg sql.NullFloat64
	err = sdb.QueryRow(
		`SELECT name, avg_rating FROM teachers WHERE teacher_id = ?`,
		"VGlkMQ==",
	).Scan(&name, &avg)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)
	require.True(t, avg.Valid)
	assert.InDelta(t, 4.5, avg.Float64, 1e-9)

	// Tristate persists as 1/0/NULL.
	var wta sql.NullInt16
	err = sdb.QueryRow(
		`SELECT would_take_again FROM ratings_raw WHERE teacher_id = ?`,
		"VGlkMQ==",
	).Scan(&wta)
	require.NoError(t, err)
	require.True(t, wta.Valid)
	assert.Equal(t, int16(1), wta.Int16)

	err = sdb.QueryRow(
		`SELECT would_take_again FROM ratings_raw WHERE teacher_id = ?`,
		"VGlkMg==",
	).Scan(&wta)
	require.NoError(t, err)
	assert.False(t, wta.Valid)

	// Extras travel as JSON; absent extras stay NULL.
	var extra sql.NullString
	err = sdb.QueryRow(
		`SELECT extra FROM ratings_raw WHERE teacher_id = ?`,
		"VGlkMQ==",
	).Scan(&extra)
	require.NoError(t, err)
	require.True(t, extra.Valid)
	assert.JSONEq(t, `{"helpful": 3}`, extra.String)

	err = sdb.QueryRow(
		`SELECT extra FROM ratings_raw WHERE teacher_id = ?`,
		"VGlkMg==",
	).Scan(&extra)
	require.NoError(t, err)
	assert.False(t, extra.Valid)
}

func TestSQLitePersistReplacesPreviousRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rmp.sqlite")

	cfg := config.New()
	p := iopersist.NewSQLite(cfg, path)

	require.NoError(t, p.Persist(ctx, testDataset(), true))

	// Second run with the raw table excluded clears the stale rows.
	ds := testDataset()
	ds.Teachers = ds.Teachers[:1]
	require.NoError(t, p.Persist(ctx, ds, false))

	sdb, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer sdb.Close()

	var count int
	err = sdb.QueryRow("SELECT count(*) FROM teachers").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = sdb.QueryRow("SELECT count(*) FROM ratings_raw").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSQLitePersistEmptyDataset(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rmp.sqlite")

	p := iopersist.NewSQLite(config.New(), path)
	require.NoError(t, p.Persist(ctx, &rmp.Dataset{}, true))

	sdb, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer sdb.Close()

	var count int
	err = sdb.QueryRow("SELECT count(*) FROM teachers").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSQLitePersistBadPath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "rmp.sqlite")

	p := iopersist.NewSQLite(config.New(), path)
	err := p.Persist(ctx, testDataset(), false)
	assert.Error(t, err)
}
