// Package discovery expands a template locator, a single path, a directory,
// or a shell-style wildcard, into an ordered list of candidate files.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNoTemplates reports a locator that matched nothing usable.
var ErrNoTemplates = errors.New("discovery: no templates found")

// Discoverer expands locators using the filesystem.
type Discoverer struct {
	// Allowed filters directory and wildcard candidates by extension (dot
	// included). A nil filter accepts everything.
	Allowed func(ext string) bool
}

func (d Discoverer) allowed(path string) bool {
	if d.Allowed == nil {
		return true
	}
	return d.Allowed(filepath.Ext(path))
}

// Expand resolves the locator. A path naming an existing file returns that
// file unfiltered; a directory returns its allowed-extension files sorted by
// name; anything else is tried as a glob pattern.
func (d Discoverer) Expand(locator string) ([]string, error) {
	if info, err := os.Stat(locator); err == nil {
		if !info.IsDir() {
			return []string{locator}, nil
		}
		return d.expandDir(locator)
	}
	return d.expandGlob(locator)
}

func (d Discoverer) expandDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discovery: read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if d.allowed(path) {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("discovery: no valid template files in %s: %w", dir, ErrNoTemplates)
	}
	sort.Strings(paths)
	return paths, nil
}

func (d Discoverer) expandGlob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("discovery: bad pattern %q: %w", pattern, err)
	}

	var paths []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if d.allowed(match) {
			paths = append(paths, match)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("discovery: nothing matches %q: %w", pattern, ErrNoTemplates)
	}
	sort.Strings(paths)
	return paths, nil
}
