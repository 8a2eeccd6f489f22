// Package scanner orchestrates a project scan: it walks the tree, dispatches
// per-file parsing and metrics over a bounded worker pool, runs the
// dependency and duplication analyses, and serializes the report artifacts.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olehluchkiv/depscan/internal/analysis"
	"github.com/olehluchkiv/depscan/internal/duplicates"
	"github.com/olehluchkiv/depscan/internal/graph"
	"github.com/olehluchkiv/depscan/internal/metrics"
	"github.com/olehluchkiv/depscan/internal/pyparse"
)

// batchSize bounds how many files are dispatched before the orchestrator
// gathers results. Batch N is fully merged before batch N+1 starts.
const batchSize = 50

// Options configures a scan.
type Options struct {
	ProjectRoot    string
	OutputDir      string   // empty disables artifact serialization
	MaxWorkers     int      // bounds the per-batch worker pool
	IgnorePatterns []string // extra glob patterns merged with built-ins
	IncludeDirs    []string // optional top-level directory allow-list
	FuzzyImports   bool
}

// Scanner runs full project scans. Every Run call builds its state from
// scratch; a Scanner holds no per-scan mutable state.
type Scanner struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Scanner for the given options.
func New(opts Options, logger *slog.Logger) *Scanner {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 4
	}
	return &Scanner{opts: opts, logger: logger}
}

// Result bundles the project analysis with the duplicate-code report.
type Result struct {
	Analysis   *analysis.ProjectAnalysis
	Duplicates *duplicates.Report
}

// Run executes a full scan. Per-file failures are downgraded to recorded
// errors; only an unwalkable root or a serialization failure is returned
// as an error.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	root, err := Resolve(s.opts.ProjectRoot, s.logger)
	if err != nil {
		return nil, err
	}

	pa := analysis.NewProjectAnalysis(root)

	candidates, walkErrors, err := Discover(root, s.opts.IgnorePatterns, s.opts.IncludeDirs)
	if err != nil {
		s.logger.Error("walking project tree failed", "root", root, "error", err)
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	pa.Errors = append(pa.Errors, walkErrors...)
	s.logger.Info("discovered source candidates", "count", len(candidates))

	s.processFiles(ctx, candidates, pa)
	s.applyCoverage(pa)

	g := graph.Build(root, pa.Files, graph.Options{FuzzyImports: s.opts.FuzzyImports}, s.logger)
	pa.Dependencies = g.Edges
	pa.CircularDependencies = g.Cycles()
	pa.CoreComponents, pa.PeripheralComponents = g.Classify()
	pa.Modules = graph.Modules(pa.SourcePaths())

	report, err := s.detectDuplicates(ctx, pa)
	if err != nil {
		return nil, err
	}

	s.aggregate(pa)

	result := &Result{Analysis: pa, Duplicates: report}
	if s.opts.OutputDir != "" {
		if err := WriteArtifacts(result, s.opts.OutputDir); err != nil {
			s.logger.Error("writing report artifacts failed", "error", err)
			return nil, err
		}
	}
	return result, nil
}

// Discover walks the tree and returns candidate files in walk order, plus
// the per-entry walk errors that were skipped over. Failing to enumerate
// the root at all is the only fatal condition.
func Discover(root string, ignorePatterns, includeDirs []string) (files, walkErrors []string, err error) {
	matcher := NewIgnoreMatcher(ignorePatterns)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			walkErrors = append(walkErrors, fmt.Sprintf("%s: %v", path, err))
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if matcher.Match(rel) {
				return filepath.SkipDir
			}
			// Top-level allow-list: only named directories are descended
			// into. Files directly under the root always pass.
			if len(includeDirs) > 0 && !strings.Contains(rel, string(filepath.Separator)) &&
				!slices.Contains(includeDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher.Match(rel) || !IsSourceCandidate(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, walkErrors, nil
}

// fileResult is the outcome of processing one candidate file.
type fileResult struct {
	path    string
	fa      *analysis.FileAnalysis
	skipped string // non-empty reason when the file is skipped without error
	err     error
}

// processFiles dispatches candidates in fixed-size batches over a bounded
// worker pool. Within a batch completion order is arbitrary, but every
// batch is merged before the next one starts.
func (s *Scanner) processFiles(ctx context.Context, candidates []string, pa *analysis.ProjectAnalysis) {
	for start := 0; start < len(candidates); start += batchSize {
		end := min(start+batchSize, len(candidates))
		batch := candidates[start:end]
		results := make([]fileResult, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.MaxWorkers)
		for i, path := range batch {
			i, path := i, path
			g.Go(func() error {
				results[i] = s.processFile(gctx, path)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors; failures land in results

		for _, r := range results {
			s.merge(r, pa)
		}
	}
}

func (s *Scanner) merge(r fileResult, pa *analysis.ProjectAnalysis) {
	switch {
	case r.err != nil:
		s.logger.Warn("skipping file", "file", r.path, "error", r.err)
		pa.Errors = append(pa.Errors, fmt.Sprintf("%s: %v", r.path, r.err))
		pa.SkippedFiles = append(pa.SkippedFiles, r.path)
	case r.skipped != "":
		s.logger.Debug("skipping file", "file", r.path, "reason", r.skipped)
		pa.SkippedFiles = append(pa.SkippedFiles, r.path)
	case IsTestFile(r.path):
		pa.TestFiles[r.path] = r.fa
	default:
		pa.Files[r.path] = r.fa
	}
}

func (s *Scanner) processFile(ctx context.Context, path string) fileResult {
	if ext := filepath.Ext(path); ext != ".py" {
		// .js/.ts pass the extension filter but analysis is not wired up.
		return fileResult{path: path, skipped: "unsupported language " + ext}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	text := []byte(DecodeText(raw))

	mod, err := pyparse.Parse(ctx, text)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	defer mod.Close()

	complexity := metrics.Complexity(mod)
	fa := &analysis.FileAnalysis{
		Path:                 path,
		Language:             "python",
		Functions:            mod.Functions(),
		Classes:              mod.Classes(),
		Imports:              mod.Imports(),
		Complexity:           complexity,
		CyclomaticComplexity: complexity,
		DuplicateLines:       metrics.DuplicateLines(text),
		Dependencies:         analysis.NewStringSet(),
	}
	if fa.Functions == nil {
		fa.Functions = []string{}
	}
	return fileResult{path: path, fa: fa}
}

// applyCoverage estimates test coverage for every source file from the
// complexity of a matching "test_<stem>.py" among the test files.
func (s *Scanner) applyCoverage(pa *analysis.ProjectAnalysis) {
	testByBase := make(map[string]*analysis.FileAnalysis, len(pa.TestFiles))
	for path, fa := range pa.TestFiles {
		testByBase[filepath.Base(path)] = fa
	}

	for path, fa := range pa.Files {
		stem := strings.TrimSuffix(filepath.Base(path), ".py")
		test, ok := testByBase["test_"+stem+".py"]
		testComplexity := 0
		if ok {
			testComplexity = test.CyclomaticComplexity
		}
		fa.TestCoverage = metrics.Coverage(fa.CyclomaticComplexity, testComplexity, ok)
	}
}

func (s *Scanner) detectDuplicates(ctx context.Context, pa *analysis.ProjectAnalysis) (*duplicates.Report, error) {
	det := &duplicates.Detector{MaxWorkers: s.opts.MaxWorkers, Logger: s.logger}

	groups, err := det.Scan(ctx, pa.SourcePaths())
	if err != nil {
		return nil, fmt.Errorf("duplicate scan: %w", err)
	}

	testPaths := make([]string, 0, len(pa.TestFiles))
	for path := range pa.TestFiles {
		testPaths = append(testPaths, path)
	}
	slices.Sort(testPaths)
	testGroups, err := det.ScanTests(ctx, testPaths)
	if err != nil {
		return nil, fmt.Errorf("duplicate test scan: %w", err)
	}

	return duplicates.BuildReport(groups, testGroups), nil
}

// aggregate fills in the whole-scan complexity, duplication, and coverage
// numbers.
func (s *Scanner) aggregate(pa *analysis.ProjectAnalysis) {
	for _, fa := range pa.Files {
		pa.TotalComplexity += fa.CyclomaticComplexity
		pa.TotalDuplication += fa.DuplicateLines
	}
	for _, fa := range pa.TestFiles {
		pa.TotalComplexity += fa.CyclomaticComplexity
		pa.TotalDuplication += fa.DuplicateLines
	}

	if len(pa.Files) > 0 {
		var sum float64
		for _, fa := range pa.Files {
			sum += fa.TestCoverage
		}
		pa.AverageCoverage = sum / float64(len(pa.Files))
	}
}
