package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// projectMarkers identify a Python project root.
var projectMarkers = []string{"pyproject.toml", "setup.py", "setup.cfg", "requirements.txt"}

// Resolve validates input as a local directory and returns its absolute
// path. The presence or absence of a Python project marker is logged but
// not enforced: plain script directories are scannable too.
func Resolve(input string, logger *slog.Logger) (string, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}

	if marker := projectMarker(abs); marker != "" {
		logger.Info("resolved project root", "root", abs, "marker", marker)
	} else {
		logger.Debug("no python project marker found", "root", abs)
	}
	return abs, nil
}

func projectMarker(dir string) string {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return marker
		}
	}
	return ""
}
