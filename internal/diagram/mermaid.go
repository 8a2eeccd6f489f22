// Package diagram renders the dependency graph as a Mermaid flowchart.
package diagram

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olehluchkiv/depscan/internal/analysis"
)

// GenerateMermaid produces a Mermaid flowchart of the file dependency
// graph. Core components are highlighted, and edges that participate in a
// dependency cycle are drawn in red. Paths are shown relative to the
// project root.
func GenerateMermaid(pa *analysis.ProjectAnalysis) string {
	nodes := pa.SourcePaths()
	ids := make(map[string]string, len(nodes))
	for i, path := range nodes {
		ids[path] = fmt.Sprintf("n%d", i)
	}

	cycleEdges := make(map[string]bool)
	for _, cycle := range pa.CircularDependencies {
		for i, from := range cycle {
			to := cycle[(i+1)%len(cycle)]
			cycleEdges[from+"\x00"+to] = true
		}
	}

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	b.WriteString("    classDef coreStyle fill:#2374ab,stroke:#1a5a8a,color:#fff,stroke-width:2px\n")
	b.WriteString("    classDef peripheralStyle fill:#e9ecef,stroke:#adb5bd,color:#212529\n")

	for _, path := range nodes {
		b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids[path], label(pa.ProjectRoot, path)))
	}

	// Edges in sorted order; remember indices of cycle edges for styling.
	var cycleLinks []int
	link := 0
	for _, from := range nodes {
		for _, to := range pa.Dependencies[from].Sorted() {
			if _, ok := ids[to]; !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("    %s --> %s\n", ids[from], ids[to]))
			if cycleEdges[from+"\x00"+to] {
				cycleLinks = append(cycleLinks, link)
			}
			link++
		}
	}

	for _, idx := range cycleLinks {
		b.WriteString(fmt.Sprintf("    linkStyle %d stroke:#d64545,stroke-width:2px\n", idx))
	}

	writeClass(&b, "coreStyle", pa.CoreComponents, ids)
	writeClass(&b, "peripheralStyle", pa.PeripheralComponents, ids)
	return b.String()
}

func writeClass(b *strings.Builder, style string, members analysis.StringSet, ids map[string]string) {
	var classIDs []string
	for _, path := range members.Sorted() {
		if id, ok := ids[path]; ok {
			classIDs = append(classIDs, id)
		}
	}
	if len(classIDs) == 0 {
		return
	}
	sort.Strings(classIDs)
	b.WriteString(fmt.Sprintf("    class %s %s\n", strings.Join(classIDs, ","), style))
}

func label(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}
