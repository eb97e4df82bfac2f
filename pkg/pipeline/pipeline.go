// Package pipeline composes the cleaning stages into one deterministic
// batch transformation: read raw inputs, resolve teacher identity,
// compute aggregates, and hand the fully-formed tables to persistence.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/edstats/rmpdb/pkg/aggregate"
	"github.com/edstats/rmpdb/pkg/resolve"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/gnames/gn"
)

// Build runs the in-memory part of the pipeline. The professor
// directory is loaded first and is fatal on failure; review files fail
// soft into the collector. An empty review set yields a dataset of
// empty tables - teachers are never fabricated from the directory.
func Build(
	ctx context.Context,
	reader rmp.Reader,
	errs *rmp.Collector,
) (*rmp.Dataset, error) {
	profs, err := reader.LoadProfessors(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := reader.LoadReviews(ctx, errs)
	if err != nil {
		return nil, err
	}

	if len(reviews) == 0 {
		gn.Warn("No review records found, producing empty tables")
		return &rmp.Dataset{}, nil
	}

	teachers := resolve.Teachers(reviews, profs, errs)
	courses := aggregate.CourseMetrics(reviews)
	tagCounts, courseTagCounts := aggregate.TagCounts(
		aggregate.ExtractTags(reviews))

	slog.Info("Dataset assembled",
		"teachers", len(teachers),
		"reviews", len(reviews),
		"courses", len(courses),
		"teacher_tags", len(tagCounts),
		"course_tags", len(courseTagCounts),
	)

	return &rmp.Dataset{
		Teachers:        teachers,
		Reviews:         reviews,
		Courses:         courses,
		TagCounts:       tagCounts,
		CourseTagCounts: courseTagCounts,
	}, nil
}
