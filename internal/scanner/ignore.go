package scanner

import (
	"path/filepath"
	"strings"
)

// builtinIgnores excludes VCS metadata, virtual environments, build
// artifacts, caches, and agent runtime/log directories from every scan.
var builtinIgnores = []string{
	".git", ".hg", ".svn",
	"__pycache__", "*.pyc.bak",
	".venv", "venv", "env", ".env",
	"node_modules", "bower_components",
	"build", "dist", "*.egg-info",
	".mypy_cache", ".pytest_cache", ".ruff_cache", ".tox",
	".idea", ".vscode",
	"htmlcov", "site-packages",
	"runtime", "logs", "cache", "temp", "chrome_profile",
}

// IgnoreMatcher matches paths against glob ignore patterns. Patterns are
// applied to each path segment and to the path's base name, so a bare
// directory name like "venv" excludes the whole subtree.
type IgnoreMatcher struct {
	patterns []string
}

// NewIgnoreMatcher merges extra user patterns with the built-in ignore list.
func NewIgnoreMatcher(extra []string) *IgnoreMatcher {
	patterns := make([]string, 0, len(builtinIgnores)+len(extra))
	patterns = append(patterns, builtinIgnores...)
	patterns = append(patterns, extra...)
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether path should be excluded from the scan.
func (m *IgnoreMatcher) Match(path string) bool {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for _, pattern := range m.patterns {
		for _, seg := range segments {
			if ok, err := filepath.Match(pattern, seg); err == nil && ok {
				return true
			}
		}
	}
	return false
}
