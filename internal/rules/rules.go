package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/salescrub/internal/scrub"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultRules []byte

// Step operations understood by the preparation runner.
const (
	OpStripColumnNames = "strip_column_names"
	OpDropMissing      = "drop_missing"
	OpDropDuplicates   = "drop_duplicates"
	OpParseDates       = "parse_dates"
	OpNormalizeText    = "normalize_text"
	OpTrimOutliers     = "trim_outliers"
	OpRestrictValues   = "restrict_values"
	OpCorrectValues    = "correct_values"
)

// Step is one cleaning operation. Which fields matter depends on Op.
type Step struct {
	Op          string             `yaml:"op"`
	Columns     []string           `yaml:"columns,omitempty"`
	Allowed     []string           `yaml:"allowed,omitempty"`
	Corrections []scrub.Correction `yaml:"corrections,omitempty"`
}

// Pipeline prepares one raw extract into its prepared file.
type Pipeline struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Steps  []Step `yaml:"steps"`
}

// Set is the content of a rules file.
type Set struct {
	Pipelines []Pipeline `yaml:"pipelines"`
}

// Default returns the built-in customers, products and sales rules.
func Default() (*Set, error) {
	s, err := Parse(defaultRules)
	if err != nil {
		return nil, fmt.Errorf("built-in rules: %w", err)
	}
	return s, nil
}

// DefaultYAML returns the raw built-in rules file.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Load reads a rules file; an empty path yields the built-in rules.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a rules document.
func Parse(b []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the set back to YAML.
func (s *Set) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}
	return b, nil
}

// Lookup finds a pipeline by name, case-insensitively.
func (s *Set) Lookup(name string) (Pipeline, bool) {
	for _, p := range s.Pipelines {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Pipeline{}, false
}

// Names lists pipeline names in file order.
func (s *Set) Names() []string {
	out := make([]string, len(s.Pipelines))
	for i, p := range s.Pipelines {
		out[i] = p.Name
	}
	return out
}

// Validate checks pipeline identity and every step's required parameters.
func (s *Set) Validate() error {
	if len(s.Pipelines) == 0 {
		return errors.New("rules: no pipelines defined")
	}
	var errs []error
	seen := map[string]struct{}{}
	for i, p := range s.Pipelines {
		label := fmt.Sprintf("pipeline %d", i+1)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		} else {
			label = fmt.Sprintf("pipeline %q", p.Name)
			key := strings.ToLower(p.Name)
			if _, dup := seen[key]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate name", label))
			}
			seen[key] = struct{}{}
		}
		if p.Input == "" {
			errs = append(errs, fmt.Errorf("%s: input is required", label))
		}
		if p.Output == "" {
			errs = append(errs, fmt.Errorf("%s: output is required", label))
		}
		for j, st := range p.Steps {
			if err := st.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s step %d: %w", label, j+1, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks that Op is recognised and its parameters are present.
func (st Step) Validate() error {
	switch st.Op {
	case OpStripColumnNames, OpDropDuplicates, OpDropMissing:
		return nil
	case OpParseDates, OpNormalizeText, OpTrimOutliers:
		if len(st.Columns) == 0 {
			return fmt.Errorf("%s: columns are required", st.Op)
		}
	case OpRestrictValues:
		if len(st.Columns) == 0 {
			return fmt.Errorf("%s: columns are required", st.Op)
		}
		if len(st.Allowed) == 0 {
			return fmt.Errorf("%s: allowed values are required", st.Op)
		}
	case OpCorrectValues:
		if len(st.Columns) == 0 {
			return fmt.Errorf("%s: columns are required", st.Op)
		}
		if len(st.Corrections) == 0 {
			return fmt.Errorf("%s: corrections are required", st.Op)
		}
		for k, c := range st.Corrections {
			if c.From == c.To {
				return fmt.Errorf("%s: correction %d maps %q onto itself", st.Op, k+1, c.From)
			}
		}
	case "":
		return errors.New("op is required")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
