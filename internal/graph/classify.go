package graph

import (
	"path/filepath"

	"github.com/olehluchkiv/depscan/internal/analysis"
)

// Classify partitions the graph's files into core and peripheral
// components. A file is core when it has at least one incoming and one
// outgoing edge. If no file qualifies, the first file in sorted order is
// forced into core so a non-empty file set always has a core component.
func (g *Graph) Classify() (core, peripheral analysis.StringSet) {
	core = analysis.NewStringSet()
	peripheral = analysis.NewStringSet()

	incoming := analysis.NewStringSet()
	for _, deps := range g.Edges {
		for dep := range deps {
			incoming.Add(dep)
		}
	}

	for _, path := range g.Nodes {
		if len(g.Edges[path]) > 0 && incoming.Has(path) {
			core.Add(path)
		} else {
			peripheral.Add(path)
		}
	}

	if len(core) == 0 && len(g.Nodes) > 0 {
		first := g.Nodes[0]
		core.Add(first)
		delete(peripheral, first)
	}
	return core, peripheral
}

// Modules groups file paths by their immediate parent directory. Grouping
// is non-recursive: nested directories form separate groups.
func Modules(paths []string) map[string]analysis.StringSet {
	modules := make(map[string]analysis.StringSet)
	for _, path := range paths {
		dir := filepath.Dir(path)
		if modules[dir] == nil {
			modules[dir] = analysis.NewStringSet()
		}
		modules[dir].Add(path)
	}
	return modules
}
