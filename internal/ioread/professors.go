package ioread

import (
	"context"
	"log/slog"
	"os"

	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
)

// LoadProfessors reads the professor directory document. A single object
// wraps into a one-element collection; normalized matching keys are
// computed for every entry. Unlike review files, a missing or malformed
// directory is fatal: there is no empty-directory semantics distinct
// from "directory failed to load".
func (r *reader) LoadProfessors(
	ctx context.Context,
) ([]rmp.ProfessorEntry, error) {
	path := r.cfg.Ingest.ProfessorsFile

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ProfessorsLoadError(path, err)
	}

	var doc any
	if err := r.enc.Decode(data, &doc); err != nil {
		return nil, ProfessorsLoadError(path, err)
	}

	var objects []map[string]any
	switch v := doc.(type) {
	case map[string]any:
		objects = []map[string]any{v}
	case []any:
		for _, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, ProfessorsFormatError(path)
			}
			objects = append(objects, obj)
		}
	default:
		return nil, ProfessorsFormatError(path)
	}

	res := make([]rmp.ProfessorEntry, 0, len(objects))
	for _, obj := range objects {
		name, _ := obj["name"].(string)
		dept, _ := obj["department"].(string)
		entry := rmp.ProfessorEntry{
			Name:                  name,
			Department:            dept,
			AvgRating:             asNullFloat(obj["avg_rating"]),
			AvgDifficulty:         asNullFloat(obj["avg_difficulty"]),
			NumRatings:            asNullInt(obj["num_ratings"]),
			WouldTakeAgainPercent: asNullFloat(obj["would_take_again_percent"]),
			NameNorm:              normalize.Text(name),
			DeptNorm:              normalize.Text(dept),
		}
		res = append(res, entry)
	}

	slog.Info("Professor directory loaded",
		"file", path, "entries", len(res))

	return res, nil
}
