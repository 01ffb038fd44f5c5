package table

import (
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cast"
)

// Kind is the inferred type tag of a column.
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindTemporal Kind = "temporal"
	KindText     Kind = "text"
	KindUnknown  Kind = "unknown"
)

// naValues are cell spellings treated as missing, compared case-insensitively.
// The set covers the NA spellings spreadsheet and dataframe exports emit.
var naValues = map[string]struct{}{
	"na":       {},
	"n/a":      {},
	"#n/a":     {},
	"#n/a n/a": {},
	"#na":      {},
	"<na>":     {},
	"nan":      {},
	"-nan":     {},
	"1.#ind":   {},
	"-1.#ind":  {},
	"1.#qnan":  {},
	"-1.#qnan": {},
	"null":     {},
	"none":     {},
	"<nil>":    {},
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	_, ok := naValues[strings.ToLower(v)]
	return ok
}

// ParseNumber interprets a cell as a finite number.
func ParseNumber(v string) (float64, bool) {
	raw := strings.TrimSpace(v)
	if raw == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006", "02/01/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// ParseTime interprets a cell as a date or timestamp.
func ParseTime(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	// Fall back to the wider layout set cast understands (RFC1123, "02 Jan 2006", ...).
	if _, ok := ParseNumber(s); ok {
		return time.Time{}, false
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Classify returns the kind of a single non-missing cell.
func Classify(v string) Kind {
	if _, ok := ParseNumber(v); ok {
		return KindNumeric
	}
	if _, ok := ParseTime(v); ok {
		return KindTemporal
	}
	return KindText
}

// InferKind classifies a column from its cells. Missing cells are ignored; a column
// whose remaining cells disagree, or that has none, is KindUnknown.
func InferKind(values []string) Kind {
	var kind Kind
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		k := Classify(v)
		if kind == "" {
			kind = k
			continue
		}
		if k != kind {
			return KindUnknown
		}
	}
	if kind == "" {
		return KindUnknown
	}
	return kind
}

// ColumnKind infers the kind of a named column; unknown columns are KindUnknown.
func ColumnKind(df dataframe.DataFrame, name string) Kind {
	vals, ok := Values(df, name)
	if !ok {
		return KindUnknown
	}
	return InferKind(vals)
}
