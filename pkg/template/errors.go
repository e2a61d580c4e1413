package template

import "fmt"

// TooLargeError reports a template exceeding the size cap.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("template: %s is too large: %d bytes (max %d)", e.Path, e.Size, e.Limit)
}

// ExtensionError reports a template whose extension is not in the allow-list.
type ExtensionError struct {
	Path string
	Ext  string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("template: %s: extension %q is not allowed", e.Path, e.Ext)
}

// EmptyError reports a template with no usable content.
type EmptyError struct {
	Path string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("template: %s is empty or whitespace only", e.Path)
}

// NameTooLongError reports a template whose stem would generate output
// filenames past the path length cap.
type NameTooLongError struct {
	Path   string
	Excess int
}

func (e *NameTooLongError) Error() string {
	return fmt.Sprintf("template: %s: generated filenames would exceed the path limit by %d characters",
		e.Path, e.Excess)
}
