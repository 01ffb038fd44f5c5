package scrub

import (
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/go-gota/gota/dataframe"
)

// MissingValueCount returns the number of missing cells per column.
// Every present column appears in the result, including fully populated ones.
func MissingValueCount(df dataframe.DataFrame) map[string]int {
	out := make(map[string]int, df.Ncol())
	for _, name := range df.Names() {
		vals, _ := table.Values(df, name)
		n := 0
		for _, v := range vals {
			if table.IsMissing(v) {
				n++
			}
		}
		out[name] = n
	}
	return out
}

// TotalMissing scans the whole table once and counts missing cells.
func TotalMissing(df dataframe.DataFrame) int {
	n := 0
	for _, row := range table.Rows(df) {
		for _, v := range row {
			if table.IsMissing(v) {
				n++
			}
		}
	}
	return n
}

// DuplicateRowCount counts rows that repeat an earlier row across every column.
// The first occurrence of a row is not a duplicate. Missing cells compare equal,
// and numeric or temporal columns compare by value ("100" equals "1e2").
func DuplicateRowCount(df dataframe.DataFrame) int {
	seen := make(map[string]struct{}, df.Nrow())
	dups := 0
	for _, k := range rowKeys(df) {
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

// ColumnTypeSummary returns the inferred kind of every column.
func ColumnTypeSummary(df dataframe.DataFrame) map[string]table.Kind {
	out := make(map[string]table.Kind, df.Ncol())
	for _, name := range df.Names() {
		out[name] = table.ColumnKind(df, name)
	}
	return out
}

// missingMarker stands in for any missing spelling so "" and "NA" collide.
const missingMarker = "\x00"

// rowKeys returns one comparison key per row of df.
func rowKeys(df dataframe.DataFrame) []string {
	names := df.Names()
	kinds := make([]table.Kind, len(names))
	for j, name := range names {
		kinds[j] = table.ColumnKind(df, name)
	}
	rows := table.Rows(df)
	keys := make([]string, len(rows))
	for i, row := range rows {
		keys[i] = rowKey(row, kinds)
	}
	return keys
}

func rowKey(row []string, kinds []table.Kind) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		if table.IsMissing(v) {
			b.WriteString(missingMarker)
			continue
		}
		b.WriteString(cellKey(v, kinds[i]))
	}
	return b.String()
}

// cellKey canonicalizes a non-missing cell according to its column kind.
func cellKey(v string, kind table.Kind) string {
	switch kind {
	case table.KindNumeric:
		if x, ok := table.ParseNumber(v); ok {
			if x == 0 {
				x = 0 // fold -0
			}
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
	case table.KindTemporal:
		if t, ok := table.ParseTime(v); ok {
			return t.UTC().Format(time.RFC3339Nano)
		}
	}
	return v
}
