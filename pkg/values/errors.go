package values

import (
	"errors"
	"fmt"
)

// ErrNoValues reports that parsing produced zero rows.
var ErrNoValues = errors.New("values: no values found")

// ErrNullByte reports a NUL byte inside the value source.
var ErrNullByte = errors.New("values: input contains null bytes")

// FileNotFoundError reports a value source that looks like a file reference
// but does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("values: file not found: %s", e.Path)
}

// TooManyLinesError reports a value file exceeding the row cap.
type TooManyLinesError struct {
	Path  string
	Limit int
}

func (e *TooManyLinesError) Error() string {
	return fmt.Sprintf("values: too many value lines in %s (max %d)", e.Path, e.Limit)
}

// ValueTooLargeError reports a single value exceeding the per-value byte cap.
// Row and Col are 1-based.
type ValueTooLargeError struct {
	Row   int
	Col   int
	Size  int
	Limit int
}

func (e *ValueTooLargeError) Error() string {
	return fmt.Sprintf("values: value too large at row %d, column %d: %d bytes (max %d)",
		e.Row, e.Col, e.Size, e.Limit)
}
