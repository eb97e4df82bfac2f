package ioread_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/edstats/rmpdb/internal/ioread"
	"github.com/edstats/rmpdb/pkg/config"
	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t,
		os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	root := t.TempDir()
	reviews := filepath.Join(root, "comments")
	require.NoError(t, os.Mkdir(reviews, 0755))

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptIngestReviewsDir(reviews),
		config.OptIngestProfessorsFile(filepath.Join(root, "professor_list.json")),
		config.OptJobsNumber(2),
	})
	return cfg, root
}

func TestLoadReviews(t *testing.T) {
	cfg, _ := testConfig(t)
	acct := filepath.Join(cfg.Ingest.ReviewsDir, "Accounting")
	require.NoError(t, os.Mkdir(acct, 0755))

	// a list of reviews with messy encodings and an extra field
	writeFile(t, acct, "Amy_Hrinsin_ABC123.json", `[
		{"class": "ACCT-2102", "clarity_rating": 4, "difficulty_rating": "2",
		 "is_online": "Yes", "would_take_again": 1, "comment": "great",
		 "campus": "North"},
		{"class": "acct 2102", "clarity_rating": null,
		 "would_take_again": "maybe", "is_for_credit": true}
	]`)
	// a single review object
	writeFile(t, acct, "Bo_Li_XYZ789.json",
		`{"class": "MATH 1551", "rating_tags": "Caring--Funny"}`)

	var errs rmp.Collector
	reviews, err := ioread.New(cfg).LoadReviews(context.Background(), &errs)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Zero(t, errs.Len())

	r := reviews[0]
	assert.Equal(t, "ABC123", r.TeacherID)
	assert.Equal(t, "Amy Hrinsin", r.TeacherNameFile)
	assert.Equal(t, "Accounting", r.Department)
	assert.Equal(t, "ACCT-2102", r.Class.String)
	require.True(t, r.ClarityRating.Valid)
	assert.InEpsilon(t, 4.0, r.ClarityRating.Float64, 1e-9)
	// numeric string coerces
	require.True(t, r.DifficultyRating.Valid)
	assert.InEpsilon(t, 2.0, r.DifficultyRating.Float64, 1e-9)
	assert.Equal(t, normalize.True, r.IsOnline)
	assert.Equal(t, normalize.True, r.WouldTakeAgain)
	assert.Equal(t, normalize.Unknown, r.IsForCredit)
	// unknown fields pass through untouched
	assert.Equal(t, "North", r.Extra["campus"])
	assert.Contains(t, r.SourceFile, "Amy_Hrinsin_ABC123.json")

	r2 := reviews[1]
	assert.False(t, r2.ClarityRating.Valid)
	// a typo is unknown, never an error
	assert.Equal(t, normalize.Unknown, r2.WouldTakeAgain)
	assert.Equal(t, normalize.True, r2.IsForCredit)

	r3 := reviews[2]
	assert.Equal(t, "XYZ789", r3.TeacherID)
	assert.Equal(t, "Caring--Funny", r3.RatingTags.String)
}

func TestLoadReviewsSkipsBrokenFiles(t *testing.T) {
	cfg, _ := testConfig(t)
	dept := filepath.Join(cfg.Ingest.ReviewsDir, "Math")
	require.NoError(t, os.Mkdir(dept, 0755))

	// unparsable filename: no way to separate name from id
	writeFile(t, dept, "Solo.json", `{"class": "MATH 1551"}`)
	// invalid JSON content
	writeFile(t, dept, "Bo_Li_XYZ789.json", `{"class": `)
	// a healthy file keeps the run alive
	writeFile(t, dept, "Cy_Doe_OK1.json", `{"class": "MATH 1552"}`)

	var errs rmp.Collector
	reviews, err := ioread.New(cfg).LoadReviews(context.Background(), &errs)
	require.NoError(t, err)

	require.Len(t, reviews, 1)
	assert.Equal(t, "OK1", reviews[0].TeacherID)

	require.Equal(t, 2, errs.Len())
	recs := errs.Records()
	// sorted file order: Bo_Li before Solo
	assert.Equal(t, rmp.FileReadError, recs[0].Kind)
	assert.Contains(t, recs[0].Subject, "Bo_Li_XYZ789.json")
	assert.Equal(t, rmp.FileParseError, recs[1].Kind)
	assert.Contains(t, recs[1].Subject, "Solo.json")
}

func TestLoadReviewsDeterministicOrder(t *testing.T) {
	cfg, _ := testConfig(t)
	for _, dept := range []string{"Zoology", "Accounting"} {
		dir := filepath.Join(cfg.Ingest.ReviewsDir, dept)
		require.NoError(t, os.Mkdir(dir, 0755))
		writeFile(t, dir, "A_B_ID"+dept+".json", `{"class": "X 1"}`)
	}

	var errs rmp.Collector
	reviews, err := ioread.New(cfg).LoadReviews(context.Background(), &errs)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	// departments merge in sorted order despite concurrent workers
	assert.Equal(t, "Accounting", reviews[0].Department)
	assert.Equal(t, "Zoology", reviews[1].Department)
}

func TestLoadReviewsMissingRoot(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptIngestReviewsDir(filepath.Join(t.TempDir(), "absent")),
	})

	var errs rmp.Collector
	_, err := ioread.New(cfg).LoadReviews(context.Background(), &errs)
	assert.Error(t, err)
}

func TestLoadProfessors(t *testing.T) {
	cfg, root := testConfig(t)
	writeFile(t, root, "professor_list.json", `[
		{"name": "Amy  Hrinsin", "department": "Accounting",
		 "avg_rating": 4.2, "avg_difficulty": 2.1,
		 "num_ratings": 37, "would_take_again_percent": 88.5},
		{"name": "Bo Li", "department": "Math"}
	]`)

	profs, err := ioread.New(cfg).LoadProfessors(context.Background())
	require.NoError(t, err)
	require.Len(t, profs, 2)

	p := profs[0]
	assert.Equal(t, "Amy  Hrinsin", p.Name)
	assert.Equal(t, "amy hrinsin", p.NameNorm)
	assert.Equal(t, "accounting", p.DeptNorm)
	require.True(t, p.AvgRating.Valid)
	assert.InEpsilon(t, 4.2, p.AvgRating.Float64, 1e-9)
	require.True(t, p.NumRatings.Valid)
	assert.Equal(t, int32(37), p.NumRatings.Int32)

	// missing aggregates stay null
	assert.False(t, profs[1].AvgRating.Valid)
}

func TestLoadProfessorsSingleObject(t *testing.T) {
	cfg, root := testConfig(t)
	writeFile(t, root, "professor_list.json",
		`{"name": "Amy Hrinsin", "department": "Accounting"}`)

	profs, err := ioread.New(cfg).LoadProfessors(context.Background())
	require.NoError(t, err)
	require.Len(t, profs, 1)
}

func TestLoadProfessorsFatal(t *testing.T) {
	cfg, root := testConfig(t)

	// missing file is fatal
	_, err := ioread.New(cfg).LoadProfessors(context.Background())
	assert.Error(t, err)

	// malformed file is fatal too
	writeFile(t, root, "professor_list.json", `not json`)
	_, err = ioread.New(cfg).LoadProfessors(context.Background())
	assert.Error(t, err)
}
