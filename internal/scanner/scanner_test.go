package scanner

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/depscan/internal/analysis"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func runScan(t *testing.T, root string, opts Options) *Result {
	t.Helper()
	opts.ProjectRoot = root
	result, err := New(opts, testLogger()).Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestScan_ThreeFileImportCycle(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import c\n",
		"c.py": "import a\n",
	})
	pa := runScan(t, root, Options{}).Analysis

	wantFiles := []string{
		filepath.Join(pa.ProjectRoot, "a.py"),
		filepath.Join(pa.ProjectRoot, "b.py"),
		filepath.Join(pa.ProjectRoot, "c.py"),
	}
	assert.ElementsMatch(t, wantFiles, pa.SourcePaths())

	require.Len(t, pa.CircularDependencies, 1)
	assert.ElementsMatch(t, wantFiles, pa.CircularDependencies[0])

	assert.ElementsMatch(t, wantFiles, pa.CoreComponents.Sorted())
	assert.Empty(t, pa.PeripheralComponents)
}

func TestScan_SingleTrivialFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"solo.py": "x = 1\n",
	})
	pa := runScan(t, root, Options{}).Analysis

	path := filepath.Join(pa.ProjectRoot, "solo.py")
	fa := pa.Files[path]
	require.NotNil(t, fa)

	assert.Equal(t, 1, fa.CyclomaticComplexity)
	assert.Empty(t, fa.Dependencies)
	assert.True(t, pa.CoreComponents.Has(path), "single file is forced core by the fallback")
	assert.Empty(t, pa.PeripheralComponents)
}

func TestScan_SyntaxErrorRecorded(t *testing.T) {
	root := writeTree(t, map[string]string{
		"invalid.py": "def f(:\n    pass\n",
		"valid.py":   "def g():\n    return 1\n",
	})
	pa := runScan(t, root, Options{}).Analysis

	invalid := filepath.Join(pa.ProjectRoot, "invalid.py")
	assert.NotContains(t, pa.Files, invalid)
	assert.Contains(t, pa.SkippedFiles, invalid)

	require.NotEmpty(t, pa.Errors)
	found := false
	for _, e := range pa.Errors {
		if strings.Contains(e, "invalid.py") {
			found = true
		}
	}
	assert.True(t, found, "errors must name the unparsable file")

	// The rest of the scan still completed.
	assert.Contains(t, pa.Files, filepath.Join(pa.ProjectRoot, "valid.py"))
}

func TestScan_CoverageBetweenZeroAndOne(t *testing.T) {
	root := writeTree(t, map[string]string{
		"foo.py": `
def f(x):
    if x > 0:
        return 1
    if x > 1:
        return 2
    if x > 2:
        return 3
    return 0
`,
		"tests/test_foo.py": `
def test_f():
    if True:
        assert 1
`,
	})
	pa := runScan(t, root, Options{}).Analysis

	foo := pa.Files[filepath.Join(pa.ProjectRoot, "foo.py")]
	require.NotNil(t, foo)
	assert.Greater(t, foo.TestCoverage, 0.0)
	assert.Less(t, foo.TestCoverage, 1.0)

	// The test file landed in the test set, not the source set.
	assert.Contains(t, pa.TestFiles, filepath.Join(pa.ProjectRoot, "tests", "test_foo.py"))
}

func TestScan_NoMatchingTestMeansZeroCoverage(t *testing.T) {
	root := writeTree(t, map[string]string{
		"foo.py": "def f(x):\n    if x:\n        return 1\n    return 0\n",
	})
	pa := runScan(t, root, Options{}).Analysis
	assert.Equal(t, 0.0, pa.Files[filepath.Join(pa.ProjectRoot, "foo.py")].TestCoverage)
}

func TestScan_JSAndTSSkipped(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.py":  "x = 1\n",
		"web.js":  "const x = 1;\n",
		"site.ts": "let y: number = 2;\n",
	})
	pa := runScan(t, root, Options{}).Analysis

	assert.Len(t, pa.Files, 1)
	assert.Contains(t, pa.SkippedFiles, filepath.Join(pa.ProjectRoot, "web.js"))
	assert.Contains(t, pa.SkippedFiles, filepath.Join(pa.ProjectRoot, "site.ts"))
	assert.Empty(t, pa.Errors)
}

func TestScan_IgnorePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.py":            "x = 1\n",
		"venv/lib/pkg.py":   "x = 2\n",
		"gen/ignored_me.py": "x = 3\n",
	})
	pa := runScan(t, root, Options{IgnorePatterns: []string{"gen"}}).Analysis

	assert.Len(t, pa.Files, 1)
	assert.Contains(t, pa.Files, filepath.Join(pa.ProjectRoot, "app.py"))
}

func TestScan_Idempotent(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import c\n",
		"c.py": "import a\nimport d\n",
		"d.py": "x = 1\n",
	})

	first := runScan(t, root, Options{}).Analysis
	second := runScan(t, root, Options{}).Analysis

	assert.Equal(t, first.Dependencies, second.Dependencies)
	assert.Equal(t, first.CircularDependencies, second.CircularDependencies)
	assert.Equal(t, first.CoreComponents, second.CoreComponents)
	assert.Equal(t, first.PeripheralComponents, second.PeripheralComponents)
}

func TestScan_AggregatesAndDuplicates(t *testing.T) {
	shared := "def shared(x):\n    if x:\n        return x\n    return 0\n"
	root := writeTree(t, map[string]string{
		"a.py": shared,
		"b.py": shared,
	})
	result := runScan(t, root, Options{})
	pa := result.Analysis

	assert.Equal(t, 4, pa.TotalComplexity) // two files, one if each
	require.NotNil(t, result.Duplicates)
	assert.Len(t, result.Duplicates.DuplicateFunctions, 1)
	assert.NotEmpty(t, result.Duplicates.Suggestions)
}

func TestScan_WritesArtifacts(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "def f():\n    return 1\n",
	})
	out := t.TempDir()
	runScan(t, root, Options{OutputDir: out})

	for _, name := range []string{AnalysisFile, TestFile, ContextFile, DuplicatesFile} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}

	data, err := os.ReadFile(filepath.Join(out, AnalysisFile))
	require.NoError(t, err)
	var decoded analysis.ProjectAnalysis
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Files, 2)
	assert.NotZero(t, decoded.ScanTime)
}

func TestScan_MissingRootFails(t *testing.T) {
	_, err := New(Options{ProjectRoot: filepath.Join(t.TempDir(), "nope")}, testLogger()).
		Run(context.Background())
	require.Error(t, err)
}

func TestDecodeText_UTF8PassThrough(t *testing.T) {
	assert.Equal(t, "x = 'héllo'\n", DecodeText([]byte("x = 'héllo'\n")))
}

func TestDecodeText_Latin1Fallback(t *testing.T) {
	// 0xe9 is 'é' in ISO-8859-1 and invalid as standalone UTF-8.
	raw := []byte{'#', ' ', 0xe9, '\n', 'x', ' ', '=', ' ', '1', '\n'}
	decoded := DecodeText(raw)
	assert.True(t, strings.HasSuffix(decoded, "x = 1\n"))
	assert.True(t, len(decoded) > 0)
}
