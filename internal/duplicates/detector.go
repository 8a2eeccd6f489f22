// Package duplicates detects cross-file duplicate function and class
// definitions by hashing normalized definition source.
package duplicates

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/olehluchkiv/depscan/internal/pyparse"
)

// Location is one occurrence of a normalized definition.
type Location struct {
	File string `yaml:"file" json:"file"`
	Name string `yaml:"name" json:"name"`
	Line int    `yaml:"line" json:"line"`
}

// Group is a set of 2+ locations whose normalized source hashes
// identically. Singleton hashes are discarded before a Group is built.
type Group struct {
	Hash      string     `yaml:"hash" json:"hash"`
	Kind      string     `yaml:"kind" json:"kind"` // "function" or "class"
	Locations []Location `yaml:"locations" json:"locations"`
}

// Detector finds duplicate definitions across a set of files. Scanning is
// dispatched over a bounded worker pool; MaxWorkers <= 0 falls back to a
// single worker.
type Detector struct {
	MaxWorkers int
	Logger     *slog.Logger
}

// fragment is one definition extracted from a file, pre-hashing.
type fragment struct {
	loc  Location
	kind string
	hash uint64
}

// Scan extracts every function and class definition from the given files
// and groups duplicates. Files that cannot be read or parsed are skipped
// and logged; they never abort the scan.
func (d *Detector) Scan(ctx context.Context, files []string) ([]Group, error) {
	return d.scan(ctx, files, func(kind, name string) bool { return true })
}

// ScanTests runs the test-only pass: it keeps just functions whose name
// begins with "test_", so duplicated test bodies are reported separately.
func (d *Detector) ScanTests(ctx context.Context, files []string) ([]Group, error) {
	return d.scan(ctx, files, func(kind, name string) bool {
		return kind == "function" && strings.HasPrefix(name, "test_")
	})
}

func (d *Detector) scan(ctx context.Context, files []string, keep func(kind, name string) bool) ([]Group, error) {
	var (
		mu        sync.Mutex
		fragments []fragment
	)

	g, ctx := errgroup.WithContext(ctx)
	workers := d.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for _, path := range files {
		path := path
		g.Go(func() error {
			found, err := d.scanFile(ctx, path, keep)
			if err != nil {
				d.Logger.Warn("skipping file in duplicate scan", "file", path, "error", err)
				return nil
			}
			mu.Lock()
			fragments = append(fragments, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return groupFragments(fragments), nil
}

func (d *Detector) scanFile(ctx context.Context, path string, keep func(kind, name string) bool) ([]fragment, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	mod, err := pyparse.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer mod.Close()

	var found []fragment
	pyparse.Walk(mod.Root(), func(n *sitter.Node) {
		var kind string
		switch n.Type() {
		case "function_definition":
			kind = "function"
		case "class_definition":
			kind = "class"
		default:
			return
		}

		name := nodeName(mod, n)
		if name == "" || !keep(kind, name) {
			return
		}

		normalized := Normalize(string(src[n.StartByte():n.EndByte()]))
		if normalized == "" {
			return
		}
		found = append(found, fragment{
			loc: Location{
				File: path,
				Name: name,
				Line: int(n.StartPoint().Row) + 1,
			},
			kind: kind,
			hash: xxhash.Sum64String(normalized),
		})
	})
	return found, nil
}

func nodeName(mod *pyparse.Module, n *sitter.Node) string {
	name := n.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return string(mod.Source()[name.StartByte():name.EndByte()])
}

// groupFragments buckets fragments by content hash and materializes a Group
// for every hash shared by 2+ distinct locations.
func groupFragments(fragments []fragment) []Group {
	buckets := make(map[uint64][]fragment)
	for _, f := range fragments {
		buckets[f.hash] = append(buckets[f.hash], f)
	}

	groups := make([]Group, 0)
	for hash, members := range buckets {
		distinct := make(map[Location]bool, len(members))
		for _, m := range members {
			distinct[m.loc] = true
		}
		if len(distinct) < 2 {
			continue
		}

		group := Group{
			Hash: fmt.Sprintf("%016x", hash),
			Kind: members[0].kind,
		}
		for loc := range distinct {
			group.Locations = append(group.Locations, loc)
		}
		sort.Slice(group.Locations, func(i, j int) bool {
			a, b := group.Locations[i], group.Locations[j]
			if a.File != b.File {
				return a.File < b.File
			}
			return a.Line < b.Line
		})
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Hash < groups[j].Hash })
	return groups
}

var (
	tripleQuoted = regexp.MustCompile(`(?s)""".*?"""|'''.*?'''`)
)

// Normalize strips # comments and triple-quoted docstrings from definition
// source and collapses all whitespace runs to single spaces. Two
// definitions are duplicates when their normalized forms match exactly.
func Normalize(src string) string {
	src = tripleQuoted.ReplaceAllString(src, "")

	var lines []string
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		lines = append(lines, line)
	}
	return strings.Join(strings.Fields(strings.Join(lines, "\n")), " ")
}
