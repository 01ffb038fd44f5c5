package prepare

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/salescrub/internal/rules"
	"github.com/KaramelBytes/salescrub/internal/scrub"
	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options locates raw and prepared files and carries the logger.
type Options struct {
	RawDir      string
	PreparedDir string
	Table       table.Options
	Logger      logrus.FieldLogger
}

// StepResult records the row count around one applied step.
type StepResult struct {
	Op         string   `json:"op"`
	Columns    []string `json:"columns,omitempty"`
	RowsBefore int      `json:"rows_before"`
	RowsAfter  int      `json:"rows_after"`
}

// Result describes one pipeline run.
type Result struct {
	RunID    string        `json:"run_id"`
	Pipeline string        `json:"pipeline"`
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Before   *scrub.Report `json:"before"`
	After    *scrub.Report `json:"after"`
	Steps    []StepResult  `json:"steps"`
}

// Run reads the pipeline's raw extract, audits it, applies the configured steps,
// audits again and writes the prepared file.
func Run(ctx context.Context, p rules.Pipeline, opt Options) (*Result, error) {
	log := opt.Logger
	if log == nil {
		log = logrus.New()
	}
	runID := uuid.NewString()
	log = log.WithFields(logrus.Fields{"pipeline": p.Name, "run_id": runID})

	in := filepath.Join(opt.RawDir, p.Input)
	out := filepath.Join(opt.PreparedDir, p.Output)
	log.Infof("starting data preparation from %s", in)

	df, err := table.ReadFile(in, opt.Table)
	if err != nil {
		return nil, fmt.Errorf("read raw data: %w", err)
	}
	s, err := scrub.New(df, scrub.WithLogger(log), scrub.WithName(p.Name), scrub.WithRunID(runID))
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", p.Name, err)
	}

	res := &Result{RunID: runID, Pipeline: p.Name, Input: in, Output: out}
	res.Before = s.AuditBeforeCleaning(df)

	df, res.Steps, err = Apply(ctx, df, p.Steps, log)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", p.Name, err)
	}

	res.After = s.AuditAfterCleaning(df)

	if err := table.WriteFile(out, df, opt.Table); err != nil {
		return nil, fmt.Errorf("save prepared data: %w", err)
	}
	log.Infof("data saved to %s", out)
	return res, nil
}

// Apply runs steps over df in order. It stops early when ctx is cancelled.
func Apply(ctx context.Context, df dataframe.DataFrame, steps []rules.Step, log logrus.FieldLogger) (dataframe.DataFrame, []StepResult, error) {
	if log == nil {
		log = logrus.New()
	}
	results := make([]StepResult, 0, len(steps))
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return df, results, err
		}
		before := df.Nrow()
		next, err := applyStep(df, st)
		if err != nil {
			return df, results, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		if next.Err != nil {
			return df, results, fmt.Errorf("step %d (%s): %w", i+1, st.Op, next.Err)
		}
		df = next
		r := StepResult{Op: st.Op, Columns: st.Columns, RowsBefore: before, RowsAfter: df.Nrow()}
		results = append(results, r)
		log.WithFields(logrus.Fields{
			"op":      st.Op,
			"columns": strings.Join(st.Columns, ","),
			"rows":    r.RowsAfter,
			"dropped": r.RowsBefore - r.RowsAfter,
		}).Debug("applied step")
	}
	return df, results, nil
}

func applyStep(df dataframe.DataFrame, st rules.Step) (dataframe.DataFrame, error) {
	switch st.Op {
	case rules.OpStripColumnNames:
		return scrub.StripColumnNames(df), nil
	case rules.OpDropMissing:
		return scrub.DropMissing(df, st.Columns...), nil
	case rules.OpDropDuplicates:
		return scrub.DropDuplicates(df), nil
	case rules.OpParseDates:
		return scrub.ParseDates(df, st.Columns...), nil
	case rules.OpNormalizeText:
		for _, c := range st.Columns {
			df = scrub.NormalizeCategoricalText(df, c)
		}
		return df, nil
	case rules.OpTrimOutliers:
		for _, c := range st.Columns {
			var err error
			if df, err = scrub.TrimOutliers(df, c); err != nil {
				return df, err
			}
		}
		return df, nil
	case rules.OpRestrictValues:
		for _, c := range st.Columns {
			df = scrub.RestrictToAllowedValues(df, c, st.Allowed)
		}
		return df, nil
	case rules.OpCorrectValues:
		for _, c := range st.Columns {
			df = scrub.ApplyValueCorrections(df, c, st.Corrections)
		}
		return df, nil
	default:
		return df, fmt.Errorf("unknown op %q", st.Op)
	}
}

// Markdown renders the before/after audits and the per-step row counts.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Preparation: %s\n\n", r.Pipeline))
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Input: %s\n", r.Input))
	b.WriteString(fmt.Sprintf("Output: %s\n\n", r.Output))
	if r.Before != nil {
		b.WriteString(r.Before.Markdown())
		b.WriteString("\n")
	}
	if len(r.Steps) > 0 {
		b.WriteString("[STEPS]\n")
		for i, s := range r.Steps {
			cols := ""
			if len(s.Columns) > 0 {
				cols = " [" + strings.Join(s.Columns, ", ") + "]"
			}
			b.WriteString(fmt.Sprintf("%d. %s%s: %d -> %d rows\n", i+1, s.Op, cols, s.RowsBefore, s.RowsAfter))
		}
		b.WriteString("\n")
	}
	if r.After != nil {
		b.WriteString(r.After.Markdown())
	}
	return b.String()
}
