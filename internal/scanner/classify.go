package scanner

import (
	"path/filepath"
	"strings"
)

// sourceExtensions is the fixed allow-list of extensions the walker
// accepts. JavaScript and TypeScript files pass the filter but are skipped
// during processing; only Python is analyzed today.
var sourceExtensions = map[string]bool{
	".py": true,
	".js": true,
	".ts": true,
}

// IsSourceCandidate reports whether path passes the extension filter.
func IsSourceCandidate(path string) bool {
	return sourceExtensions[filepath.Ext(path)]
}

// IsTestFile classifies a path as test code. A file is a test when it lives
// under a "tests" directory anywhere in its path, carries a _test/_spec/
// _suite suffix, or has a stem that starts with "test" case-insensitively
// without being entirely lowercase. The same rules apply to compiled
// .pyc/.pyo artifacts.
func IsTestFile(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == "tests" {
			return true
		}
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	switch ext {
	case ".py", ".pyc", ".pyo":
	default:
		return false
	}
	stem := strings.TrimSuffix(base, ext)

	if strings.HasSuffix(stem, "_test") || strings.HasSuffix(stem, "_spec") || strings.HasSuffix(stem, "_suite") {
		return true
	}
	lower := strings.ToLower(stem)
	return strings.HasPrefix(lower, "test") && stem != lower
}
