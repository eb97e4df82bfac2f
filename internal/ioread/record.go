package ioread

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/edstats/rmpdb/pkg/normalize"
	"github.com/edstats/rmpdb/pkg/rmp"
)

// recognizedFields are review fields mapped onto the core schema.
// Everything else passes through untouched in Extra.
var recognizedFields = map[string]struct{}{
	"class":             {},
	"date_posted":       {},
	"difficulty_rating": {},
	"clarity_rating":    {},
	"student_grade":     {},
	"attendance_status": {},
	"is_for_credit":     {},
	"is_online":         {},
	"would_take_again":  {},
	"comment_likes":     {},
	"comment_dislikes":  {},
	"textbook_use":      {},
	"rating_tags":       {},
	"comment":           {},
}

// provenanceFields are stamped from the file location; values inside the
// document are ignored, the filename linkage is authoritative.
var provenanceFields = map[string]struct{}{
	"teacher_id":        {},
	"teacher_name_file": {},
	"department":        {},
	"source_file":       {},
}

// recordFromObject coerces one decoded JSON object into a RawReview.
// Boolean-ish fields become tri-states, numeric fields coerce or go
// missing, unknown fields land in Extra verbatim.
func recordFromObject(obj map[string]any) rmp.RawReview {
	rec := rmp.RawReview{
		Class:            asNullString(obj["class"]),
		DatePosted:       asNullString(obj["date_posted"]),
		DifficultyRating: asNullFloat(obj["difficulty_rating"]),
		ClarityRating:    asNullFloat(obj["clarity_rating"]),
		StudentGrade:     asNullString(obj["student_grade"]),
		AttendanceStatus: asNullString(obj["attendance_status"]),
		IsForCredit:      normalize.Tribool(obj["is_for_credit"]),
		IsOnline:         normalize.Tribool(obj["is_online"]),
		WouldTakeAgain:   normalize.Tribool(obj["would_take_again"]),
		CommentLikes:     asNullInt(obj["comment_likes"]),
		CommentDislikes:  asNullInt(obj["comment_dislikes"]),
		TextbookUse:      asNullFloat(obj["textbook_use"]),
		RatingTags:       asNullString(obj["rating_tags"]),
		Comment:          asNullString(obj["comment"]),
	}

	for k, v := range obj {
		if _, ok := recognizedFields[k]; ok {
			continue
		}
		if _, ok := provenanceFields[k]; ok {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[k] = v
	}

	return rec
}

func asNullString(v any) sql.NullString {
	switch x := v.(type) {
	case string:
		return sql.NullString{String: x, Valid: true}
	case float64:
		return sql.NullString{
			String: strconv.FormatFloat(x, 'f', -1, 64),
			Valid:  true,
		}
	default:
		return sql.NullString{}
	}
}

// asNullFloat mirrors to_numeric with errors coerced to missing:
// numbers pass, numeric strings parse, anything else goes missing.
func asNullFloat(v any) sql.NullFloat64 {
	switch x := v.(type) {
	case float64:
		return sql.NullFloat64{Float64: x, Valid: true}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return sql.NullFloat64{}
		}
		return sql.NullFloat64{Float64: f, Valid: true}
	default:
		return sql.NullFloat64{}
	}
}

func asNullInt(v any) sql.NullInt32 {
	f := asNullFloat(v)
	if !f.Valid {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(f.Float64), Valid: true}
}
