package analysis

import "time"

// ClassInfo represents one parsed class definition.
type ClassInfo struct {
	Name         string    `json:"name"`
	Methods      []string  `json:"methods"`
	Docstring    string    `json:"docstring,omitempty"`
	BaseClasses  []string  `json:"base_classes,omitempty"`
	Maturity     string    `json:"maturity,omitempty"`   // placeholder classification, unset by the parser
	AgentType    string    `json:"agent_type,omitempty"` // placeholder classification, unset by the parser
	Complexity   int       `json:"complexity,omitempty"`
	Dependencies StringSet `json:"dependencies,omitempty"`
}

// FileAnalysis represents one analyzed source file. Created once per file
// during a scan and immutable after the dependency pass fills Dependencies.
type FileAnalysis struct {
	Path     string `json:"path"`
	Language string `json:"language"`

	Functions []string              `json:"functions"`
	Classes   map[string]*ClassInfo `json:"classes"`
	Routes    []string              `json:"routes,omitempty"` // reserved for web-route detection

	Complexity   int       `json:"complexity"`
	Dependencies StringSet `json:"dependencies"`
	Imports      []string  `json:"imports"` // raw identifiers as written in source

	TestCoverage         float64 `json:"test_coverage"`
	CyclomaticComplexity int     `json:"cyclomatic_complexity"`
	DuplicateLines       int     `json:"duplicate_lines"`
}

// ProjectAnalysis is the whole-scan result. It is assembled once by the
// scanner and never mutated afterwards.
type ProjectAnalysis struct {
	ProjectRoot string    `json:"project_root"`
	ScanTime    time.Time `json:"scan_time"`

	Files     map[string]*FileAnalysis `json:"files"`
	TestFiles map[string]*FileAnalysis `json:"test_files"`

	Dependencies         map[string]StringSet `json:"dependencies"`
	CircularDependencies [][]string           `json:"circular_dependencies"`
	Modules              map[string]StringSet `json:"modules"`
	CoreComponents       StringSet            `json:"core_components"`
	PeripheralComponents StringSet            `json:"peripheral_components"`

	TotalComplexity  int     `json:"total_complexity"`
	TotalDuplication int     `json:"total_duplication"`
	AverageCoverage  float64 `json:"average_coverage"`

	Errors       []string `json:"errors"`
	SkippedFiles []string `json:"skipped_files"`
}

// NewProjectAnalysis returns an empty result for root with all containers
// initialized, so serialization never emits null for collection fields.
func NewProjectAnalysis(root string) *ProjectAnalysis {
	return &ProjectAnalysis{
		ProjectRoot:          root,
		ScanTime:             time.Now().UTC(),
		Files:                make(map[string]*FileAnalysis),
		TestFiles:            make(map[string]*FileAnalysis),
		Dependencies:         make(map[string]StringSet),
		CircularDependencies: make([][]string, 0),
		Modules:              make(map[string]StringSet),
		CoreComponents:       NewStringSet(),
		PeripheralComponents: NewStringSet(),
		Errors:               make([]string, 0),
		SkippedFiles:         make([]string, 0),
	}
}

// SourcePaths returns the analyzed source file paths in sorted order.
func (p *ProjectAnalysis) SourcePaths() []string {
	set := NewStringSet()
	for path := range p.Files {
		set.Add(path)
	}
	return set.Sorted()
}
