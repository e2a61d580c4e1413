package output

import "fmt"

// UnsafeDirError reports an output directory that is identical to or nested
// inside a template source directory. Fatal for the whole run: the
// configuration is structurally unsafe.
type UnsafeDirError struct {
	OutputDir   string
	TemplateDir string
}

func (e *UnsafeDirError) Error() string {
	return fmt.Sprintf("output: directory %s is inside template directory %s, outputs could overwrite sources",
		e.OutputDir, e.TemplateDir)
}

// PermissionError reports a missing or non-writable output location.
type PermissionError struct {
	Path   string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("output: %s: %s", e.Path, e.Reason)
}

// NameTooLongError reports a full artifact path past the length cap.
type NameTooLongError struct {
	Path  string
	Limit int
}

func (e *NameTooLongError) Error() string {
	return fmt.Sprintf("output: path exceeds %d characters: %s", e.Limit, e.Path)
}

// SymlinkError reports a refused write because the target already exists as
// a symlink; following it could redirect output outside the sanctioned
// directory.
type SymlinkError struct {
	Path string
}

func (e *SymlinkError) Error() string {
	return fmt.Sprintf("output: refusing to write through symlink: %s", e.Path)
}
