// Package graph builds a file-level import dependency graph for an analyzed
// Python tree, enumerates its elementary cycles, and classifies files as
// core or peripheral components.
package graph

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olehluchkiv/depscan/internal/analysis"
)

// Options controls dependency resolution behavior.
type Options struct {
	// FuzzyImports enables the lowest-confidence resolution tier: substring
	// containment between an import identifier and known dotted module
	// names. Deliberately permissive and can over-match.
	FuzzyImports bool
}

// Graph is an immutable dependency graph built by Build. An edge A->B means
// "A imports something resolvable to B". A fresh value is returned from
// every Build call; nothing is shared between scans.
type Graph struct {
	// Nodes holds every analyzed file path in sorted order.
	Nodes []string
	// Edges is the adjacency mapping from file path to its dependencies.
	Edges map[string]analysis.StringSet
}

// Build resolves the raw imports of every file against the analyzed file
// set and returns the resulting graph. It also fills in the Dependencies
// set of each FileAnalysis. Self-edges are never created.
func Build(root string, files map[string]*analysis.FileAnalysis, opts Options, logger *slog.Logger) *Graph {
	g := &Graph{Edges: make(map[string]analysis.StringSet, len(files))}
	for path := range files {
		g.Nodes = append(g.Nodes, path)
		g.Edges[path] = analysis.NewStringSet()
	}
	sort.Strings(g.Nodes)

	idx := buildIndex(root, g.Nodes)

	for _, path := range g.Nodes {
		fa := files[path]
		for _, imp := range fa.Imports {
			target, tier, ok := idx.resolve(path, imp, opts)
			if !ok || target == path {
				continue
			}
			g.Edges[path].Add(target)
			logger.Debug("resolved import",
				"file", path, "import", imp, "target", target, "tier", tier)
		}
		fa.Dependencies = g.Edges[path]
	}
	return g
}

// moduleIndex is the lookup table for import resolution: every analyzed
// file keyed by absolute path, filename stem, and root-relative dotted path.
type moduleIndex struct {
	byPath   map[string]bool
	byStem   map[string][]string
	byDotted map[string]string
	dotted   []string // sorted dotted names, for the fuzzy tier
}

func buildIndex(root string, paths []string) *moduleIndex {
	idx := &moduleIndex{
		byPath:   make(map[string]bool, len(paths)),
		byStem:   make(map[string][]string),
		byDotted: make(map[string]string),
	}
	for _, path := range paths {
		idx.byPath[path] = true

		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		idx.byStem[stem] = append(idx.byStem[stem], path)

		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		dotted := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
		idx.byDotted[dotted] = path
		if trimmed := strings.TrimSuffix(dotted, ".py"); trimmed != dotted {
			idx.byDotted[trimmed] = path
			idx.dotted = append(idx.dotted, trimmed)
		}
	}
	sort.Strings(idx.dotted)
	for stem := range idx.byStem {
		sort.Strings(idx.byStem[stem])
	}
	return idx
}

// resolve maps one raw import identifier to an analyzed file. Confidence
// tiers, highest first: relative resolution against the importing file,
// root-relative dotted path, filename stem, and (when enabled) substring
// containment.
func (idx *moduleIndex) resolve(from, imp string, opts Options) (target, tier string, ok bool) {
	if strings.HasPrefix(imp, ".") {
		return idx.resolveRelative(from, imp)
	}
	if path, found := idx.byDotted[imp]; found {
		return path, "dotted", true
	}
	if paths := idx.byStem[imp]; len(paths) > 0 {
		return paths[0], "stem", true
	}
	if opts.FuzzyImports {
		for _, name := range idx.dotted {
			if candidate := idx.byDotted[name]; candidate != from &&
				(strings.Contains(imp, name) || strings.Contains(name, imp)) {
				return candidate, "fuzzy", true
			}
		}
	}
	return "", "", false
}

// resolveRelative handles "from .foo import X" style imports: leading dots
// select how many directory levels to ascend from the importing file.
func (idx *moduleIndex) resolveRelative(from, imp string) (target, tier string, ok bool) {
	dots := 0
	for dots < len(imp) && imp[dots] == '.' {
		dots++
	}
	dir := filepath.Dir(from)
	for i := 0; i < dots-1; i++ {
		dir = filepath.Dir(dir)
	}

	rest := imp[dots:]
	if rest == "" {
		// "from . import x" points at the package itself.
		if pkg := filepath.Join(dir, "__init__.py"); idx.byPath[pkg] {
			return pkg, "relative", true
		}
		return "", "", false
	}

	parts := strings.Split(rest, ".")
	resolved := filepath.Join(append([]string{dir}, parts...)...)
	if candidate := resolved + ".py"; idx.byPath[candidate] {
		return candidate, "relative", true
	}
	if candidate := filepath.Join(resolved, "__init__.py"); idx.byPath[candidate] {
		return candidate, "relative", true
	}
	if paths := idx.byStem[parts[len(parts)-1]]; len(paths) > 0 {
		return paths[0], "stem", true
	}
	return "", "", false
}
