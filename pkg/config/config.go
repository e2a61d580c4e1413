package config

// Config carries the already-parsed run inputs. The CLI (or an embedding
// caller) populates it; the orchestrator treats it as read-only.
type Config struct {
	// Patterns is the comma-separated declared token list, e.g. "@HOST@,@IP@".
	Patterns string

	// Values is either an inline semicolon-separated row or the path to a
	// value file.
	Values string

	// Templates locates the template documents: a single file, a directory,
	// or a shell-style wildcard.
	Templates string

	// OutputDir is the base directory under which the project directory is
	// created. Empty means the current directory.
	OutputDir string

	// Project names the per-run output subdirectory. Empty defaults to
	// "project_<pid>".
	Project string

	// Run enables real writes. The default (false) is a dry run that performs
	// every validation and safety check without touching the filesystem.
	Run bool

	// Force downgrades missing-pattern and unreplaced-pattern failures to
	// warnings, letting token spans survive verbatim in the output.
	Force bool

	// RelaxedCase admits lowercase letters in token names.
	RelaxedCase bool

	// AllowHyphens admits hyphens in token names after the first character.
	AllowHyphens bool
}
