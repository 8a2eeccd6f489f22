// Package metrics computes per-file quality metrics: cyclomatic complexity,
// duplicated-line counts, and a test-coverage heuristic.
package metrics

import (
	"bufio"
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/olehluchkiv/depscan/internal/pyparse"
)

// branchNodes are the Python constructs that add an independent control-flow
// path. Every occurrence counts, including each and/or operator.
var branchNodes = map[string]bool{
	"if_statement":     true,
	"elif_clause":      true,
	"for_statement":    true,
	"while_statement":  true,
	"try_statement":    true,
	"except_clause":    true,
	"with_statement":   true,
	"assert_statement": true,
	"boolean_operator": true,
}

// Complexity computes cyclomatic complexity for a parsed module. The floor
// is 1 on every path: a module with no branching, including an empty one,
// scores 1.
func Complexity(mod *pyparse.Module) int {
	complexity := 1
	pyparse.Walk(mod.Root(), func(n *sitter.Node) {
		if branchNodes[n.Type()] {
			complexity++
		}
	})
	return complexity
}

// DuplicateLines counts repeated lines in raw source text. Blank lines and
// full-line comments are dropped, surrounding whitespace is normalized, and
// each line occurring k>1 times contributes k-1 to the count.
func DuplicateLines(src []byte) int {
	counts := make(map[string]int)

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		counts[line]++
	}

	duplicates := 0
	for _, c := range counts {
		if c > 1 {
			duplicates += c - 1
		}
	}
	return duplicates
}

// Coverage estimates test coverage for a source file from the complexity of
// its matching test file. A trivial file counts as covered; a file with no
// matching test counts as uncovered.
func Coverage(sourceComplexity, testComplexity int, hasTest bool) float64 {
	if sourceComplexity == 0 {
		return 1.0
	}
	if !hasTest {
		return 0.0
	}
	ratio := float64(testComplexity) / float64(sourceComplexity)
	if ratio > 1.0 {
		return 1.0
	}
	return ratio
}
