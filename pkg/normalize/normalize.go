// Package normalize turns raw strings from independently produced review
// files into canonical comparable forms. All functions are pure and
// idempotent; they produce matching keys, not display values.
package normalize

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Text trims, collapses internal whitespace runs to single spaces, and
// lower-cases a string. Used for name and department comparison keys.
func Text(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// CourseCode converts a raw course label to a canonical code for grouping:
// upper-cased, with all whitespace, hyphens and underscores removed.
// "ACCT-2102", "acct 2102" and "ACCT_2102" all collapse to "ACCT2102".
// An empty or missing label yields an empty string.
func CourseCode(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f', '-', '_':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Identity extracts the (teacher_id, display_name) pair encoded in a
// review filename. The filename without extension is split on underscores;
// the last segment is the opaque teacher_id, the preceding segments joined
// with single spaces form the display name:
//
//	Amy_Hrinsin_VGVhY2hlci0yODY4Nzgw.json -> ("VGVhY2hlci0yODY4Nzgw", "Amy Hrinsin")
//
// Fewer than two segments is an error: the id cannot be separated from the
// name. This is a brittle convention-based extraction; callers must treat
// the result as provisional, not authoritative.
func Identity(path string) (teacherID, displayName string, err error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("unparsable id/name from %q", base)
	}

	teacherID = parts[len(parts)-1]
	displayName = strings.TrimSpace(strings.Join(parts[:len(parts)-1], " "))

	return teacherID, displayName, nil
}
