// Package template models a template document, scans its text for
// delimiter-wrapped spans, and caches loaded content per path for the
// lifetime of a run.
package template

import (
	"path/filepath"
	"strings"
)

// Template is one loaded template document. Content is read once and never
// mutated; rendering works on copies.
type Template struct {
	// Path is the source path as given by discovery.
	Path string

	// Name is the base filename.
	Name string

	// Stem is the base filename without extension.
	Stem string

	// Ext is the file extension, dot included, original case.
	Ext string

	// Dir is the directory containing the source file.
	Dir string

	// Content is the decoded template text.
	Content string
}

// New derives the identity fields from path. Content is left for the
// registry to fill.
func New(path string) *Template {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return &Template{
		Path: path,
		Name: name,
		Stem: strings.TrimSuffix(name, ext),
		Ext:  ext,
		Dir:  filepath.Dir(path),
	}
}

// Contains reports whether the literal text occurs in the template content.
func (t *Template) Contains(literal string) bool {
	return strings.Contains(t.Content, literal)
}
