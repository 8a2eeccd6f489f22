package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olehluchkiv/depscan/internal/analysis"
)

// Artifact file names written to the output directory.
const (
	AnalysisFile   = "project_analysis.json"
	TestFile       = "test_analysis.json"
	ContextFile    = "chatgpt_project_context.json"
	DuplicatesFile = "duplication_report.yaml"
)

// WriteArtifacts serializes the scan result: the full analysis, the
// test-only subset, a flattened context document for downstream LLM
// consumption, and the duplicate-code report.
func WriteArtifacts(result *Result, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	pa := result.Analysis
	if err := writeJSON(filepath.Join(outputDir, AnalysisFile), pa); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outputDir, TestFile), testSubset(pa)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outputDir, ContextFile), contextDocument(pa)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := result.Duplicates.Encode(&buf); err != nil {
		return err
	}
	dupPath := filepath.Join(outputDir, DuplicatesFile)
	if err := os.WriteFile(dupPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dupPath, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// testAnalysis is the test_analysis.json document: just the root, scan
// time, and the test-file subset.
type testAnalysis struct {
	ProjectRoot string                            `json:"project_root"`
	ScanTime    time.Time                         `json:"scan_time"`
	TestFiles   map[string]*analysis.FileAnalysis `json:"test_files"`
}

func testSubset(pa *analysis.ProjectAnalysis) testAnalysis {
	return testAnalysis{
		ProjectRoot: pa.ProjectRoot,
		ScanTime:    pa.ScanTime,
		TestFiles:   pa.TestFiles,
	}
}

// contextDocument flattens the analysis into the chatgpt_project_context
// shape consumed by external LLM tooling. Nothing in this repository reads
// it back.
func contextDocument(pa *analysis.ProjectAnalysis) map[string]any {
	return map[string]any{
		"project_root":          pa.ProjectRoot,
		"scan_time":             pa.ScanTime,
		"file_count":            len(pa.Files) + len(pa.TestFiles),
		"analysis":              pa,
		"dependencies":          pa.Dependencies,
		"circular_dependencies": pa.CircularDependencies,
		"modules":               pa.Modules,
		"core_components":       pa.CoreComponents,
		"peripheral_components": pa.PeripheralComponents,
		"quality_metrics": map[string]any{
			"total_complexity":  pa.TotalComplexity,
			"total_duplication": pa.TotalDuplication,
			"average_coverage":  pa.AverageCoverage,
		},
	}
}
