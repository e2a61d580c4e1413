package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/goliatone/go-templfill/pkg/config"
)

// Writer emits rendered artifacts under a single output directory. In dry-run
// mode (run=false) every safety check still executes but the write itself is
// a no-op, so a dry run surfaces every error a real run would.
type Writer struct {
	dir     string
	run     bool
	maxPath int
	log     *zap.Logger

	created []string
}

// NewWriter builds a writer rooted at dir. The directory is not touched
// until Prepare runs.
func NewWriter(dir string, run bool, limits config.Limits, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{
		dir:     filepath.Clean(dir),
		run:     run,
		maxPath: limits.MaxPathLen,
		log:     log,
	}
}

// Dir returns the cleaned output directory.
func (w *Writer) Dir() string { return w.dir }

// Created returns the paths written so far, in write order.
func (w *Writer) Created() []string { return w.created }

// insideOf reports whether path is dir or a descendant of dir. Both inputs
// must be absolute.
func insideOf(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

// resolvePath returns path made absolute with every symlink resolved, so the
// safety comparison sees where a path really lands rather than how it was
// spelled. For a path that does not exist yet the deepest existing ancestor
// is resolved and the remaining components are reattached.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	remainder := ""
	for probe := abs; ; {
		resolved, err := filepath.EvalSymlinks(probe)
		if err == nil {
			return filepath.Join(resolved, remainder), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return abs, nil
		}
		remainder = filepath.Join(filepath.Base(probe), remainder)
		probe = parent
	}
}

// Prepare runs the once-per-run safety checks: the resolved output directory
// must not be identical to or nested under any template source directory,
// and the run must be able to write there. In run mode the directory is
// created.
func (w *Writer) Prepare(templateDirs []string) error {
	outAbs, err := resolvePath(w.dir)
	if err != nil {
		return fmt.Errorf("output: resolve %s: %w", w.dir, err)
	}

	for _, dir := range templateDirs {
		tplAbs, err := resolvePath(dir)
		if err != nil {
			return fmt.Errorf("output: resolve template dir %s: %w", dir, err)
		}
		if insideOf(outAbs, tplAbs) {
			return &UnsafeDirError{OutputDir: outAbs, TemplateDir: tplAbs}
		}
		if insideOf(tplAbs, outAbs) {
			w.log.Warn("template directory sits inside the output directory, do not reuse outputs as templates",
				zap.String("template_dir", tplAbs),
				zap.String("output_dir", outAbs))
		}
	}

	if info, err := os.Stat(outAbs); err == nil {
		if !info.IsDir() {
			return &PermissionError{Path: outAbs, Reason: "exists and is not a directory"}
		}
		if !writable(outAbs) {
			return &PermissionError{Path: outAbs, Reason: "directory is not writable"}
		}
	} else {
		parent := filepath.Dir(outAbs)
		if _, err := os.Stat(parent); err != nil {
			return &PermissionError{Path: parent, Reason: "parent directory does not exist"}
		}
		if !writable(parent) {
			return &PermissionError{Path: parent, Reason: "cannot create output directory, parent is not writable"}
		}
	}

	if w.run {
		if err := os.MkdirAll(outAbs, 0o755); err != nil {
			return &PermissionError{Path: outAbs, Reason: fmt.Sprintf("cannot create directory: %v", err)}
		}
	}
	w.dir = outAbs
	return nil
}

// Write emits one artifact. The write is transactional: on any error during
// the write the partial file is removed before the error returns, so the
// output directory only ever holds complete artifacts.
func (w *Writer) Write(name string, content []byte) (string, error) {
	path := filepath.Join(w.dir, name)
	if len(path) > w.maxPath {
		return "", &NameTooLongError{Path: path, Limit: w.maxPath}
	}
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", &SymlinkError{Path: path}
	}

	if !w.run {
		w.log.Info("would create", zap.String("path", path))
		return path, nil
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		// Never leave a truncated artifact behind.
		_ = os.Remove(path)
		return "", fmt.Errorf("output: write %s: %w", path, err)
	}
	w.created = append(w.created, path)
	w.log.Info("created", zap.String("path", path))
	return path, nil
}

// CleanupAll removes every artifact written so far and returns how many were
// actually removed. Used on interrupt or fatal mid-run failure.
func (w *Writer) CleanupAll() int {
	if len(w.created) == 0 {
		return 0
	}
	w.log.Info("cleaning up created files", zap.Int("count", len(w.created)))
	removed := 0
	for _, path := range w.created {
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				w.log.Warn("could not remove", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		removed++
	}
	w.created = nil
	return removed
}

// ConfirmCleanup interactively asks whether completed artifacts from an
// interrupted run should be removed, defaulting to keeping them. On a
// non-interactive session the prompt fails and the files are kept.
func (w *Writer) ConfirmCleanup() {
	if !w.run || len(w.created) == 0 {
		return
	}
	cleanup := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Clean up %d partially created file(s)?", len(w.created)),
		Default: false,
	}
	if err := survey.AskOne(prompt, &cleanup); err != nil {
		w.log.Warn("cleanup prompt unavailable, keeping files", zap.Error(err))
		return
	}
	if cleanup {
		w.CleanupAll()
	}
}
