package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSourceCandidate(t *testing.T) {
	assert.True(t, IsSourceCandidate("a/b.py"))
	assert.True(t, IsSourceCandidate("web/app.js"))
	assert.True(t, IsSourceCandidate("web/app.ts"))
	assert.False(t, IsSourceCandidate("README.md"))
	assert.False(t, IsSourceCandidate("config.yaml"))
	assert.False(t, IsSourceCandidate("binary"))
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"proj/tests/test_foo.py", true},
		{"proj/tests/anything.py", true},
		{"proj/foo_test.py", true},
		{"proj/foo_spec.py", true},
		{"proj/foo_suite.py", true},
		{"proj/TestRunner.py", true},  // starts with "test", not all lowercase
		{"proj/test_foo.py", false},   // all-lowercase test_ outside tests/ is source
		{"proj/foo.py", false},
		{"proj/contest.py", false},
		{"proj/TestRunner.pyc", true},
		{"proj/foo_test.pyo", true},
		{"proj/foo_test.js", false}, // suffix rules apply to Python artifacts only
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTestFile(tt.path))
		})
	}
}
