// Package resolve builds the canonical teacher table from provisional
// file-derived identities and the authoritative professor directory.
// All functions are pure over their inputs; identity inconsistencies go
// into the supplied error collector instead of stopping the run.
package resolve

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/edstats/rmpdb/pkg/schema"
)

// dirKey is the exact-match join key into the professor directory.
type dirKey struct {
	nameNorm string
	deptNorm string
}

// Teachers resolves the canonical teacher table: exactly one row per
// distinct teacher_id observed in reviews, enriched from the professor
// directory via the normalized (name, department) key.
//
// Tie-breaks are deterministic but arbitrary and pinned to input order:
// when a teacher_id appears with several (name, department) combinations
// the first one in review order wins, and when several directory entries
// share a normalized key the first one in directory order wins. Reviews
// arrive in sorted walk order, so both are reproducible across runs.
//
// An empty review set yields an empty table: teachers are never
// fabricated from directory data alone, since the directory carries no
// teacher_id.
func Teachers(
	reviews []rmp.RawReview,
	profs []rmp.ProfessorEntry,
	errs *rmp.Collector,
) []schema.Teacher {
	if len(reviews) == 0 {
		return []schema.Teacher{}
	}

	dir := directoryIndex(profs)

	var order []string
	base := make(map[string]*schema.Teacher)
	names := make(map[string]map[string]struct{})
	depts := make(map[string]map[string]struct{})
	classes := make(map[string]map[string]struct{})

	for _, r := range reviews {
		tid := r.TeacherID
		if _, ok := base[tid]; !ok {
			order = append(order, tid)
			base[tid] = &schema.Teacher{
				TeacherID:  tid,
				Name:       r.TeacherNameFile,
				Department: r.Department,
			}
			names[tid] = make(map[string]struct{})
			depts[tid] = make(map[string]struct{})
			classes[tid] = make(map[string]struct{})
		}

		names[tid][r.TeacherNameFile] = struct{}{}
		depts[tid][r.Department] = struct{}{}
		if r.Class.Valid {
			if cls := strings.TrimSpace(r.Class.String); cls != "" {
				classes[tid][cls] = struct{}{}
			}
		}
	}

	inconsistent := 0
	res := make([]schema.Teacher, 0, len(order))
	for _, tid := range order {
		t := base[tid]

		// Same id with several names or departments across files:
		// log it, keep the first observed combination, and proceed.
		if len(names[tid]) > 1 || len(depts[tid]) > 1 {
			inconsistent++
			errs.Add(rmp.ErrorRecord{
				Kind:    rmp.TeacherIDInconsistent,
				Subject: tid,
				Detail: []string{
					strconv.Itoa(len(names[tid])),
					strconv.Itoa(len(depts[tid])),
				},
			})
		}

		t.Classes = sortedSet(classes[tid])

		key := dirKey{
			nameNorm: normalize.Text(t.Name),
			deptNorm: normalize.Text(t.Department),
		}
		if p, ok := dir[key]; ok {
			// The directory is authoritative for display identity;
			// filenames stay authoritative only for linkage.
			t.Name = p.Name
			t.Department = p.Department
			t.AvgRating = p.AvgRating
			t.AvgDifficulty = p.AvgDifficulty
			t.NumRatings = p.NumRatings
			t.WouldTakeAgainPercent = p.WouldTakeAgainPercent
		}

		res = append(res, *t)
	}

	if inconsistent > 0 {
		slog.Warn("Teacher ids with inconsistent name/department across files",
			"count", inconsistent)
	}

	return res
}

// directoryIndex builds the exact-match lookup over the professor
// directory. On a normalized-key collision the first entry in document
// order wins; a known limitation of the fan-out join.
func directoryIndex(profs []rmp.ProfessorEntry) map[dirKey]rmp.ProfessorEntry {
	res := make(map[dirKey]rmp.ProfessorEntry, len(profs))
	for _, p := range profs {
		key := dirKey{nameNorm: p.NameNorm, deptNorm: p.DeptNorm}
		if _, ok := res[key]; ok {
			slog.Debug("Duplicate normalized key in professor directory",
				"name", p.Name, "department", p.Department)
			continue
		}
		res[key] = p
	}
	return res
}

func sortedSet(set map[string]struct{}) []string {
	res := make([]string, 0, len(set))
	for s := range set {
		res = append(res, s)
	}
	sort.Strings(res)
	return res
}
