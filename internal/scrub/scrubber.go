package scrub

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State tracks which checkpoints a Scrubber has passed. It never gates the helpers.
type State int

const (
	StatePending State = iota
	StateBeforeAudited
	StateAfterAudited
)

func (s State) String() string {
	switch s {
	case StateBeforeAudited:
		return "before-audit-run"
	case StateAfterAudited:
		return "after-audit-run"
	default:
		return "before-audit-not-yet-run"
	}
}

// Scrubber brackets one pipeline run with before/after consistency audits.
// Use one per dataset and discard it afterwards.
type Scrubber struct {
	name   string
	runID  string
	logger logrus.FieldLogger
	state  State
	before *Report
	after  *Report
}

// Option customizes a Scrubber.
type Option func(*Scrubber)

// WithLogger routes audit entries to l instead of a fresh logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scrubber) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithName labels reports and log entries with a dataset name.
func WithName(name string) Option {
	return func(s *Scrubber) { s.name = name }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Scrubber) {
		if id != "" {
			s.runID = id
		}
	}
}

// New binds a scrubber to df. It fails with *InvalidInputError when df failed
// to load or has no columns; contents are not inspected.
func New(df dataframe.DataFrame, opts ...Option) (*Scrubber, error) {
	if df.Err != nil {
		return nil, &InvalidInputError{Reason: "dataset failed to load", Err: df.Err}
	}
	if df.Ncol() == 0 {
		return nil, &InvalidInputError{Reason: "dataset has no columns"}
	}
	s := &Scrubber{runID: uuid.NewString()}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = logrus.New()
	}
	return s, nil
}

// RunID identifies this scrubber's audits in logs and reports.
func (s *Scrubber) RunID() string { return s.runID }

// State reports the last checkpoint taken.
func (s *Scrubber) State() State { return s.state }

// Before returns the before-cleaning report, or nil if not yet taken.
func (s *Scrubber) Before() *Report { return s.before }

// After returns the after-cleaning report, or nil if not yet taken.
func (s *Scrubber) After() *Report { return s.after }

// AuditBeforeCleaning measures the raw dataset and logs a summary.
func (s *Scrubber) AuditBeforeCleaning(df dataframe.DataFrame) *Report {
	rep := s.audit(df, StageBefore)
	s.before = rep
	if s.state < StateBeforeAudited {
		s.state = StateBeforeAudited
	}
	s.entry(rep).Infof("consistency check before cleaning: %s", rep.Summary())
	return rep
}

// AuditAfterCleaning re-measures the dataset once the caller has applied its
// cleaning steps. When a before report exists the row delta is logged too.
func (s *Scrubber) AuditAfterCleaning(df dataframe.DataFrame) *Report {
	rep := s.audit(df, StageAfter)
	s.after = rep
	s.state = StateAfterAudited
	e := s.entry(rep)
	if s.before != nil {
		e = e.WithField("rows_dropped", s.before.Rows-rep.Rows)
	}
	e.Infof("consistency check after cleaning: %s", rep.Summary())
	return rep
}

func (s *Scrubber) audit(df dataframe.DataFrame, stage Stage) *Report {
	rep := Audit(df, stage)
	rep.RunID = s.runID
	rep.Name = s.name
	return rep
}

func (s *Scrubber) entry(rep *Report) *logrus.Entry {
	fields := logrus.Fields{
		"run_id":     rep.RunID,
		"stage":      rep.Stage,
		"rows":       rep.Rows,
		"columns":    rep.Columns,
		"duplicates": rep.Duplicates,
		"missing":    rep.MissingTotal,
	}
	if rep.Name != "" {
		fields["dataset"] = rep.Name
	}
	return s.logger.WithFields(fields)
}
