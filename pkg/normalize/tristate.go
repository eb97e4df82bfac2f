package normalize

import (
	"database/sql"
	"strings"
)

// Tristate is a boolean that is either affirmed true, affirmed false, or
// unknown because the source left it unspecified or textually ambiguous.
type Tristate int8

const (
	// Unknown means the source value was missing or unrecognized.
	Unknown Tristate = iota
	// False is an affirmed false value.
	False
	// True is an affirmed true value.
	True
)

// String implements fmt.Stringer.
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// NullInt16 converts a Tristate to its relational form: 1, 0, or NULL.
func (t Tristate) NullInt16() sql.NullInt16 {
	switch t {
	case True:
		return sql.NullInt16{Int16: 1, Valid: true}
	case False:
		return sql.NullInt16{Int16: 0, Valid: true}
	default:
		return sql.NullInt16{}
	}
}

// Tribool coerces a loosely-typed JSON value into a Tristate. It accepts
// native booleans, numeric 0/1, and a fixed set of case-insensitive string
// tokens. Any other value, including nil, maps to Unknown - inconsistent
// encodings across files are tolerated, never an error.
func Tribool(v any) Tristate {
	switch x := v.(type) {
	case nil:
		return Unknown
	case bool:
		if x {
			return True
		}
		return False
	case float64:
		// encoding/json decodes all numbers as float64.
		if x == 1 {
			return True
		}
		if x == 0 {
			return False
		}
		return Unknown
	case int:
		if x == 1 {
			return True
		}
		if x == 0 {
			return False
		}
		return Unknown
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "yes", "y", "1":
			return True
		case "false", "f", "no", "n", "0":
			return False
		default:
			return Unknown
		}
	default:
		return Unknown
	}
}
