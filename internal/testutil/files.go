package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions checks the state of an output tree. Paths are slash
// separated and relative to the tree root.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a regular file exists.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	st, err := os.Stat(fa.path(rel))
	switch {
	case err != nil:
		fa.t.Errorf("Expected file to exist: %s", rel)
	case st.IsDir():
		fa.t.Errorf("Expected %s to be a file, but it's a directory", rel)
	}
	return fa
}

// AssertNotExists validates that nothing exists at rel.
func (fa *FileAssertions) AssertNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err == nil {
		fa.t.Errorf("Expected %s not to exist", rel)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content.
func (fa *FileAssertions) AssertFileContains(rel, expected string) *FileAssertions {
	fa.t.Helper()
	// #nosec G304 - test helper, paths are controlled by test code
	data, err := os.ReadFile(fa.path(rel))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", rel, err)
		return fa
	}
	if !strings.Contains(string(data), expected) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, string(data))
	}
	return fa
}

// AssertMinFileCount validates that a directory holds at least minCount files.
func (fa *FileAssertions) AssertMinFileCount(rel string, minCount int) *FileAssertions {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(rel))
	if err != nil {
		fa.t.Errorf("Failed to read directory %s: %v", rel, err)
		return fa
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	if n < minCount {
		fa.t.Errorf("Expected at least %d files in %s, found %d", minCount, rel, n)
	}
	return fa
}
