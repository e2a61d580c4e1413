// Package testsupport holds shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with content under dir and returns its path.
// Helpers fail the test on error to keep contract tests concise.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// TemplateDir creates a temp directory populated with the given template
// files and returns it.
func TemplateDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}
