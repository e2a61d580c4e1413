package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Limits bundles the run-wide size and count caps plus the template extension
// policy. DefaultLimits matches the documented defaults; a YAML profile can
// override individual fields.
type Limits struct {
	// MaxTemplateBytes caps the size of a single template document.
	MaxTemplateBytes int64 `yaml:"max_template_bytes"`

	// MaxValueRows caps the number of data rows accepted from a value file.
	MaxValueRows int `yaml:"max_value_rows"`

	// MaxValueBytes caps the byte length of a single value.
	MaxValueBytes int `yaml:"max_value_bytes"`

	// MaxPathLen caps the full output path length.
	MaxPathLen int `yaml:"max_path_len"`

	// MaxTasks caps templates × rows for a run.
	MaxTasks int `yaml:"max_tasks"`

	// AllowedExtensions lists the template extensions accepted by discovery
	// and the template registry (lowercase, dot included).
	AllowedExtensions []string `yaml:"allowed_extensions"`

	// SizeCapExemptExtensions lists extensions exempt from MaxTemplateBytes.
	SizeCapExemptExtensions []string `yaml:"size_cap_exempt_extensions"`
}

// DefaultLimits returns the built-in caps.
func DefaultLimits() Limits {
	return Limits{
		MaxTemplateBytes: 100 * 1024,
		MaxValueRows:     3000,
		MaxValueBytes:    4 * 1024,
		MaxPathLen:       255,
		MaxTasks:         3000,
		AllowedExtensions: []string{
			".txt", ".conf", ".yaml", ".yml", ".json",
			".xml", ".cfg", ".ini", ".template", ".tpl",
		},
	}
}

// LoadLimits merges a YAML profile over the defaults. Fields absent from the
// profile keep their default values.
func LoadLimits(path string) (Limits, error) {
	limits := DefaultLimits()

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("config: read limits profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return limits, fmt.Errorf("config: parse limits profile %s: %w", path, err)
	}
	if err := limits.validate(); err != nil {
		return limits, fmt.Errorf("config: limits profile %s: %w", path, err)
	}
	return limits, nil
}

func (l Limits) validate() error {
	if l.MaxTemplateBytes <= 0 {
		return fmt.Errorf("max_template_bytes must be positive, got %d", l.MaxTemplateBytes)
	}
	if l.MaxValueRows <= 0 {
		return fmt.Errorf("max_value_rows must be positive, got %d", l.MaxValueRows)
	}
	if l.MaxValueBytes <= 0 {
		return fmt.Errorf("max_value_bytes must be positive, got %d", l.MaxValueBytes)
	}
	if l.MaxPathLen <= 0 {
		return fmt.Errorf("max_path_len must be positive, got %d", l.MaxPathLen)
	}
	if l.MaxTasks <= 0 {
		return fmt.Errorf("max_tasks must be positive, got %d", l.MaxTasks)
	}
	return nil
}

// ExtensionAllowed reports whether ext (dot included, any case) is in the
// allow-list.
func (l Limits) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range l.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// SizeCapExempt reports whether ext bypasses the template size cap.
func (l Limits) SizeCapExempt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, exempt := range l.SizeCapExemptExtensions {
		if ext == exempt {
			return true
		}
	}
	return false
}
