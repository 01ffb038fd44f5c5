package scrub

import (
	"strings"
	"time"

	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Correction is one exact-match substitution in a typo table.
type Correction struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// StripColumnNames trims surrounding whitespace from every column name.
func StripColumnNames(df dataframe.DataFrame) dataframe.DataFrame {
	names := df.Names()
	changed := false
	cols := make([]series.Series, 0, len(names))
	for _, n := range names {
		s := df.Col(n)
		if trimmed := strings.TrimSpace(n); trimmed != n {
			s.Name = trimmed
			changed = true
		}
		cols = append(cols, s)
	}
	if !changed {
		return df
	}
	return dataframe.New(cols...)
}

// DropDuplicates keeps the first occurrence of every distinct full row.
func DropDuplicates(df dataframe.DataFrame) dataframe.DataFrame {
	keys := rowKeys(df)
	seen := make(map[string]struct{}, len(keys))
	keep := make([]int, 0, len(keys))
	for i, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == len(keys) {
		return df
	}
	return df.Subset(keep)
}

// DropMissing drops rows with a missing value in any of columns, or in any
// column at all when none are named. Unknown column names are ignored.
func DropMissing(df dataframe.DataFrame, columns ...string) dataframe.DataFrame {
	if len(columns) == 0 {
		columns = df.Names()
	}
	var cols [][]string
	for _, c := range columns {
		if vals, ok := table.Values(df, c); ok {
			cols = append(cols, vals)
		}
	}
	keep := make([]int, 0, df.Nrow())
rows:
	for i := 0; i < df.Nrow(); i++ {
		for _, vals := range cols {
			if table.IsMissing(vals[i]) {
				continue rows
			}
		}
		keep = append(keep, i)
	}
	if len(keep) == df.Nrow() {
		return df
	}
	return df.Subset(keep)
}

// ParseDates rewrites temporal cells of the given columns to ISO form: a bare
// date for UTC midnights, RFC3339 otherwise so offsets survive. Cells that
// cannot be parsed become missing.
func ParseDates(df dataframe.DataFrame, columns ...string) dataframe.DataFrame {
	for _, c := range columns {
		vals, ok := table.Values(df, c)
		if !ok {
			continue
		}
		out := make([]string, len(vals))
		for i, v := range vals {
			if table.IsMissing(v) {
				continue
			}
			t, ok := table.ParseTime(v)
			if !ok {
				continue
			}
			midnight := t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
			if midnight && t.Location() == time.UTC {
				out[i] = t.Format("2006-01-02")
			} else {
				out[i] = t.Format("2006-01-02T15:04:05Z07:00")
			}
		}
		df = table.WithColumn(df, c, out)
	}
	return df
}

// NormalizeCategoricalText lower-cases column and strips surrounding whitespace.
// No value substitution happens here; missing cells are left as they are.
func NormalizeCategoricalText(df dataframe.DataFrame, column string) dataframe.DataFrame {
	vals, ok := table.Values(df, column)
	if !ok {
		return df
	}
	lower := cases.Lower(language.Und)
	out := make([]string, len(vals))
	for i, v := range vals {
		if table.IsMissing(v) {
			out[i] = v
			continue
		}
		out[i] = strings.TrimSpace(lower.String(v))
	}
	return table.WithColumn(df, column, out)
}

// ApplyValueCorrections replaces exact matches of each From with To, one
// correction at a time in the given order. A later correction sees the output
// of earlier ones, so {cll->call, call->phone} turns "cll" into "phone".
func ApplyValueCorrections(df dataframe.DataFrame, column string, corrections []Correction) dataframe.DataFrame {
	vals, ok := table.Values(df, column)
	if !ok || len(corrections) == 0 {
		return df
	}
	out := make([]string, len(vals))
	copy(out, vals)
	for _, c := range corrections {
		for i, v := range out {
			if v == c.From {
				out[i] = c.To
			}
		}
	}
	return table.WithColumn(df, column, out)
}

// RestrictToAllowedValues keeps rows whose value in column is one of allowed.
// Everything else, missing cells included, is dropped without error.
func RestrictToAllowedValues(df dataframe.DataFrame, column string, allowed []string) dataframe.DataFrame {
	vals, ok := table.Values(df, column)
	if !ok {
		return df
	}
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	keep := make([]int, 0, len(vals))
	for i, v := range vals {
		if _, ok := set[v]; ok {
			keep = append(keep, i)
		}
	}
	return df.Subset(keep)
}
