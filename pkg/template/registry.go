package template

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-templfill/pkg/config"
	"github.com/goliatone/go-templfill/pkg/output"
)

// ContentLoader decodes a file into text. The concrete implementation in
// internal/textenc tries a fixed ordered codec list.
type ContentLoader interface {
	Load(path string) (string, error)
}

// Registry caches validated templates by path: write-once on first access,
// read-only afterward. Rendering never mutates the cached content, so every
// row of a template reuses the same copy.
type Registry struct {
	mu     sync.RWMutex
	loaded map[string]*Template

	loader ContentLoader
	limits config.Limits
}

// NewRegistry creates an empty registry backed by the given loader.
func NewRegistry(loader ContentLoader, limits config.Limits) *Registry {
	return &Registry{
		loaded: make(map[string]*Template),
		loader: loader,
		limits: limits,
	}
}

// Load returns the cached template for path, loading and validating it on
// first access: extension allow-list, size cap (unless the extension is
// exempt), filename-length projection, and non-empty content.
func (r *Registry) Load(path string) (*Template, error) {
	r.mu.RLock()
	cached, ok := r.loaded[path]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	tpl := New(path)

	if !r.limits.ExtensionAllowed(tpl.Ext) {
		return nil, &ExtensionError{Path: path, Ext: tpl.Ext}
	}

	// The widest filename this run could produce must still fit the path cap.
	longest := output.Filename(tpl.Stem, tpl.Ext, r.limits.MaxValueRows)
	if excess := len(longest) - r.limits.MaxPathLen; excess > 0 {
		return nil, &NameTooLongError{Path: path, Excess: excess}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("template: stat %s: %w", path, err)
	}
	if !r.limits.SizeCapExempt(tpl.Ext) && info.Size() > r.limits.MaxTemplateBytes {
		return nil, &TooLargeError{Path: path, Size: info.Size(), Limit: r.limits.MaxTemplateBytes}
	}

	content, err := r.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("template: load %s: %w", path, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, &EmptyError{Path: path}
	}
	tpl.Content = content

	r.mu.Lock()
	r.loaded[path] = tpl
	r.mu.Unlock()
	return tpl, nil
}

// Len returns the number of cached templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loaded)
}
