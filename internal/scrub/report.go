package scrub

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/go-gota/gota/dataframe"
)

// Stage labels when an audit was taken.
type Stage string

const (
	StageBefore Stage = "before"
	StageAfter  Stage = "after"
	StageAdhoc  Stage = "adhoc"
)

// Report is the consistency snapshot of a dataset. It is diagnostic only.
type Report struct {
	RunID        string                `json:"run_id,omitempty"`
	Name         string                `json:"name,omitempty"`
	Stage        Stage                 `json:"stage"`
	Rows         int                   `json:"rows"`
	Columns      int                   `json:"columns"`
	Missing      map[string]int        `json:"missing"`
	MissingTotal int                   `json:"missing_total"`
	Duplicates   int                   `json:"duplicates"`
	Types        map[string]table.Kind `json:"types"`
	Profiles     []ColumnProfile       `json:"profiles"`
}

// ColumnProfile summarizes one column. Stats is set for numeric columns only.
type ColumnProfile struct {
	Name       string          `json:"name"`
	Kind       table.Kind      `json:"kind"`
	Missing    int             `json:"missing"`
	Duplicates int             `json:"duplicates"`
	Stats      *table.NumStats `json:"stats,omitempty"`
}

// Audit measures df in its current state. It never fails: empty datasets give
// zero counts and inconsistent columns are reported as unknown.
func Audit(df dataframe.DataFrame, stage Stage) *Report {
	rep := &Report{
		Stage:   stage,
		Rows:    df.Nrow(),
		Columns: df.Ncol(),
		Missing: MissingValueCount(df),
		Types:   make(map[string]table.Kind, df.Ncol()),
	}
	if df.Err != nil {
		rep.Rows, rep.Columns = 0, 0
		return rep
	}
	rep.Duplicates = DuplicateRowCount(df)
	for _, name := range df.Names() {
		vals, _ := table.Values(df, name)
		kind := table.InferKind(vals)
		rep.Types[name] = kind
		rep.MissingTotal += rep.Missing[name]
		p := ColumnProfile{Name: name, Kind: kind, Missing: rep.Missing[name], Duplicates: rep.Duplicates}
		if kind == table.KindNumeric {
			if nums, ok := table.Numbers(vals); ok {
				st := table.Summarize(nums)
				p.Stats = &st
			}
		}
		rep.Profiles = append(rep.Profiles, p)
	}
	return rep
}

// Summary is the one-line form used in log entries.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d rows, %d columns, %d duplicate rows, %d missing values", r.Rows, r.Columns, r.Duplicates, r.MissingTotal)
}

// Markdown renders a compact report suitable for the terminal or a file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[CONSISTENCY REPORT: %s]\n", strings.ToUpper(string(r.Stage))))
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.Columns))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n", r.Duplicates))
	b.WriteString(fmt.Sprintf("Missing values: %d\n", r.MissingTotal))
	if len(r.Profiles) == 0 {
		return b.String()
	}
	b.WriteString("\n[COLUMNS]\n")
	for _, p := range r.Profiles {
		missPct := 0.0
		if r.Rows > 0 {
			missPct = float64(p.Missing) * 100.0 / float64(r.Rows)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (missing %d, %.1f%%)", safeName(p.Name), p.Kind, p.Missing, missPct))
		if p.Stats != nil && p.Stats.Count > 0 {
			s := p.Stats
			b.WriteString(fmt.Sprintf("; min %.4g, q1 %.4g, median %.4g, q3 %.4g, max %.4g, mean %.4g, std %.4g",
				s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean, s.Std))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SortedTypes lists column kinds in name order.
func (r *Report) SortedTypes() []string {
	keys := make([]string, 0, len(r.Types))
	for k := range r.Types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s=%s", k, r.Types[k])
	}
	return out
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
