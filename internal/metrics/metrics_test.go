package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/depscan/internal/pyparse"
)

func complexityOf(t *testing.T, src string) int {
	t.Helper()
	mod, err := pyparse.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	defer mod.Close()
	return Complexity(mod)
}

func TestComplexity_EmptyFloor(t *testing.T) {
	assert.Equal(t, 1, complexityOf(t, ""))
}

func TestComplexity_StraightLine(t *testing.T) {
	assert.Equal(t, 1, complexityOf(t, "x = 1\ny = x + 2\nprint(y)\n"))
}

func TestComplexity_Constructs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"if", "if x:\n    pass\n", 2},
		{"if_elif", "if x:\n    pass\nelif y:\n    pass\n", 3},
		{"for", "for i in xs:\n    pass\n", 2},
		{"while", "while x:\n    pass\n", 2},
		{"try_except", "try:\n    pass\nexcept ValueError:\n    pass\n", 3},
		{"with", "with open(p) as f:\n    pass\n", 2},
		{"assert", "assert x\n", 2},
		{"bool_and", "y = a and b\n", 2},
		{"bool_chain", "y = a and b or c\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, complexityOf(t, tt.src))
		})
	}
}

func TestComplexity_OneMoreIfAddsExactlyOne(t *testing.T) {
	base := "def f(x):\n    if x:\n        return 1\n    return 0\n"
	more := "def f(x):\n    if x:\n        return 1\n    if x > 2:\n        return 2\n    return 0\n"
	assert.Equal(t, complexityOf(t, base)+1, complexityOf(t, more))
}

func TestDuplicateLines_Empty(t *testing.T) {
	assert.Equal(t, 0, DuplicateLines(nil))
	assert.Equal(t, 0, DuplicateLines([]byte("\n\n\n")))
}

func TestDuplicateLines_CommentsAndBlanksIgnored(t *testing.T) {
	src := []byte("# comment\n\n# comment\nx = 1\n")
	assert.Equal(t, 0, DuplicateLines(src))
}

func TestDuplicateLines_NormalizedWhitespace(t *testing.T) {
	// The same statement at different indentation counts as a duplicate.
	src := []byte("x = 1\n    x  =  1\n")
	assert.Equal(t, 1, DuplicateLines(src))
}

func TestDuplicateLines_CountMinusOnePerLine(t *testing.T) {
	src := []byte("a = 1\na = 1\na = 1\nb = 2\nb = 2\n")
	// a: 3 occurrences -> 2, b: 2 occurrences -> 1.
	assert.Equal(t, 3, DuplicateLines(src))
}

func TestCoverage(t *testing.T) {
	assert.Equal(t, 1.0, Coverage(0, 0, false))
	assert.Equal(t, 0.0, Coverage(5, 0, false))
	assert.Equal(t, 0.5, Coverage(4, 2, true))
	assert.Equal(t, 1.0, Coverage(2, 9, true))
}
