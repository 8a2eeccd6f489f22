package duplicates

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Report is the YAML-serializable duplicate-code report.
type Report struct {
	DuplicateFunctions []Group  `yaml:"duplicate_functions" json:"duplicate_functions"`
	DuplicateClasses   []Group  `yaml:"duplicate_classes" json:"duplicate_classes"`
	DuplicateTests     []Group  `yaml:"duplicate_tests" json:"duplicate_tests"`
	Suggestions        []string `yaml:"suggestions" json:"suggestions"`
}

// BuildReport splits groups by kind and attaches refactoring suggestions.
// Each suggestion is gated purely on whether its group list is non-empty.
func BuildReport(groups, testGroups []Group) *Report {
	r := &Report{
		DuplicateFunctions: make([]Group, 0),
		DuplicateClasses:   make([]Group, 0),
		DuplicateTests:     testGroups,
		Suggestions:        make([]string, 0),
	}
	if r.DuplicateTests == nil {
		r.DuplicateTests = make([]Group, 0)
	}

	for _, g := range groups {
		switch g.Kind {
		case "class":
			r.DuplicateClasses = append(r.DuplicateClasses, g)
		default:
			r.DuplicateFunctions = append(r.DuplicateFunctions, g)
		}
	}

	if len(r.DuplicateFunctions) > 0 {
		r.Suggestions = append(r.Suggestions,
			"Extract duplicated functions to a shared utility module")
	}
	if len(r.DuplicateClasses) > 0 {
		r.Suggestions = append(r.Suggestions,
			"Create a base class for duplicated class definitions")
	}
	if len(r.DuplicateTests) > 0 {
		r.Suggestions = append(r.Suggestions,
			"Use parametrized tests to collapse duplicated test functions")
	}
	return r
}

// TotalGroups returns the number of duplicate groups across all kinds.
func (r *Report) TotalGroups() int {
	return len(r.DuplicateFunctions) + len(r.DuplicateClasses) + len(r.DuplicateTests)
}

// Encode writes the report as YAML.
func (r *Report) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding duplicate report: %w", err)
	}
	return enc.Close()
}
