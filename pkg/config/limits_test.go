package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-templfill/pkg/config"
)

func TestDefaultLimits(t *testing.T) {
	limits := config.DefaultLimits()

	if limits.MaxTemplateBytes != 100*1024 {
		t.Fatalf("MaxTemplateBytes = %d", limits.MaxTemplateBytes)
	}
	if limits.MaxValueRows != 3000 || limits.MaxValueBytes != 4096 {
		t.Fatalf("caps = %d/%d", limits.MaxValueRows, limits.MaxValueBytes)
	}
	if limits.MaxPathLen != 255 || limits.MaxTasks != 3000 {
		t.Fatalf("path/tasks = %d/%d", limits.MaxPathLen, limits.MaxTasks)
	}
}

func TestExtensionAllowed(t *testing.T) {
	limits := config.DefaultLimits()

	for _, ext := range []string{".yaml", ".YAML", ".conf", ".tpl"} {
		if !limits.ExtensionAllowed(ext) {
			t.Fatalf("%s should be allowed", ext)
		}
	}
	for _, ext := range []string{".sh", ".exe", ""} {
		if limits.ExtensionAllowed(ext) {
			t.Fatalf("%s should be rejected", ext)
		}
	}
}

func TestLoadLimitsProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	profile := "max_value_rows: 10\nallowed_extensions: [\".toml\"]\n"
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatal(err)
	}

	limits, err := config.LoadLimits(path)
	if err != nil {
		t.Fatalf("load limits: %v", err)
	}

	want := config.DefaultLimits()
	want.MaxValueRows = 10
	want.AllowedExtensions = []string{".toml"}
	if diff := cmp.Diff(want, limits); diff != "" {
		t.Fatalf("limits mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLimitsRejectsInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte("max_value_rows: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadLimits(path); err == nil {
		t.Fatal("negative caps must be rejected")
	}

	if _, err := config.LoadLimits(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing profile must be an error")
	}
}
