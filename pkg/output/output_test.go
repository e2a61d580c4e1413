package output_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-templfill/pkg/config"
	"github.com/goliatone/go-templfill/pkg/output"
)

func TestSanitize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"cfg", "cfg"},
		{"my config", "my_config"},
		{"a/b\\c", "a_b_c"},
		{"../escape", ".._escape"},
		{"web-01.prod", "web-01.prod"},
		{"café", "caf__"},
	}
	for _, tc := range cases {
		if got := output.Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFilenameLaw(t *testing.T) {
	if got, want := output.Filename("cfg", ".yaml", 1), "cfg_line0001.yaml"; got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
	if got, want := output.Filename("cfg", ".yaml", 3000), "cfg_line3000.yaml"; got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}

	// Monotonic, collision free.
	seen := make(map[string]struct{})
	prev := ""
	for i := 1; i <= 50; i++ {
		name := output.Filename("cfg", ".yaml", i)
		if _, dup := seen[name]; dup {
			t.Fatalf("collision at index %d: %s", i, name)
		}
		seen[name] = struct{}{}
		if name <= prev {
			t.Fatalf("names not monotonically increasing: %q after %q", name, prev)
		}
		prev = name
	}
}

func newWriter(t *testing.T, dir string, run bool) *output.Writer {
	t.Helper()
	return output.NewWriter(dir, run, config.DefaultLimits(), zap.NewNop())
}

func TestPrepareRejectsOutputInsideTemplateDir(t *testing.T) {
	tplDir := t.TempDir()

	w := newWriter(t, filepath.Join(tplDir, "out"), false)
	err := w.Prepare([]string{tplDir})
	var unsafe *output.UnsafeDirError
	if !errors.As(err, &unsafe) {
		t.Fatalf("error = %v, want UnsafeDirError", err)
	}

	// Identical directories are just as unsafe.
	w = newWriter(t, tplDir, false)
	if err := w.Prepare([]string{tplDir}); !errors.As(err, &unsafe) {
		t.Fatalf("error = %v, want UnsafeDirError for identical dirs", err)
	}
}

func TestPrepareResolvesSymlinkedOutputDir(t *testing.T) {
	base := t.TempDir()
	tplDir := filepath.Join(base, "templates")
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(tplDir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// Spelled through the symlink the output dir lands inside the template
	// tree; the check must see the resolved location.
	w := newWriter(t, filepath.Join(link, "out"), true)
	err := w.Prepare([]string{tplDir})
	var unsafe *output.UnsafeDirError
	if !errors.As(err, &unsafe) {
		t.Fatalf("error = %v, want UnsafeDirError", err)
	}
	if _, statErr := os.Stat(filepath.Join(tplDir, "out")); !os.IsNotExist(statErr) {
		t.Fatal("directory was created inside the template tree")
	}
}

func TestPrepareResolvesSymlinkedTemplateDir(t *testing.T) {
	base := t.TempDir()
	tplDir := filepath.Join(base, "templates")
	outDir := filepath.Join(tplDir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(tplDir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// The template locator side can hide behind a symlink too.
	w := newWriter(t, outDir, false)
	var unsafe *output.UnsafeDirError
	if err := w.Prepare([]string{link}); !errors.As(err, &unsafe) {
		t.Fatalf("error = %v, want UnsafeDirError", err)
	}
}

func TestPrepareAllowsSiblingOutput(t *testing.T) {
	base := t.TempDir()
	tplDir := filepath.Join(base, "templates")
	outDir := filepath.Join(base, "out")
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := newWriter(t, outDir, false).Prepare([]string{tplDir}); err != nil {
		t.Fatalf("sibling output dir must pass: %v", err)
	}
}

func TestPrepareTemplateInsideOutputIsAllowed(t *testing.T) {
	outDir := t.TempDir()
	tplDir := filepath.Join(outDir, "templates")
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := newWriter(t, outDir, false).Prepare([]string{tplDir}); err != nil {
		t.Fatalf("template dir inside output dir is allowed (with a warning): %v", err)
	}
}

func TestPrepareMissingParent(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "deeper", "out")

	err := newWriter(t, missing, false).Prepare(nil)
	var perm *output.PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("error = %v, want PermissionError", err)
	}
}

func TestPrepareRunModeCreatesDirectory(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")

	if err := newWriter(t, outDir, true).Prepare(nil); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		t.Fatalf("output directory not created: %v", err)
	}
}

func TestWriteDryRunTouchesNothing(t *testing.T) {
	outDir := t.TempDir()
	w := newWriter(t, outDir, false)
	if err := w.Prepare(nil); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	path, err := w.Write("cfg_line0001.yaml", []byte("content"))
	if err != nil {
		t.Fatalf("dry-run write: %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("dry run must not create files, stat: %v", statErr)
	}
	if len(w.Created()) != 0 {
		t.Fatal("dry run must not track created files")
	}
}

func TestWriteRealRun(t *testing.T) {
	outDir := t.TempDir()
	w := newWriter(t, outDir, true)
	if err := w.Prepare(nil); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	path, err := w.Write("cfg_line0001.yaml", []byte("server=web01\n"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "server=web01\n" {
		t.Fatalf("content = %q", got)
	}
	if len(w.Created()) != 1 {
		t.Fatalf("created = %v, want one entry", w.Created())
	}
}

func TestWriteRejectsSymlinkTarget(t *testing.T) {
	outDir := t.TempDir()
	elsewhere := filepath.Join(t.TempDir(), "victim")
	if err := os.WriteFile(elsewhere, []byte("precious"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(elsewhere, filepath.Join(outDir, "cfg_line0001.yaml")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	w := newWriter(t, outDir, true)
	if err := w.Prepare(nil); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	_, err := w.Write("cfg_line0001.yaml", []byte("attack"))
	var symErr *output.SymlinkError
	if !errors.As(err, &symErr) {
		t.Fatalf("error = %v, want SymlinkError", err)
	}
	if got, _ := os.ReadFile(elsewhere); string(got) != "precious" {
		t.Fatal("symlink target was overwritten")
	}
}

func TestWritePathTooLong(t *testing.T) {
	outDir := t.TempDir()
	limits := config.DefaultLimits()
	limits.MaxPathLen = len(outDir) + 10

	w := output.NewWriter(outDir, true, limits, zap.NewNop())
	if err := w.Prepare(nil); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	_, err := w.Write("much_too_long_for_the_limit.yaml", []byte("x"))
	var tooLong *output.NameTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("error = %v, want NameTooLongError", err)
	}
}

func TestCleanupAll(t *testing.T) {
	outDir := t.TempDir()
	w := newWriter(t, outDir, true)
	if err := w.Prepare(nil); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	var paths []string
	for i := 1; i <= 3; i++ {
		path, err := w.Write(fmt.Sprintf("cfg_line%04d.yaml", i), []byte("x"))
		if err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		paths = append(paths, path)
	}

	if removed := w.CleanupAll(); removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%s should be gone", path)
		}
	}
	if w.CleanupAll() != 0 {
		t.Fatal("second cleanup must be a no-op")
	}
}
