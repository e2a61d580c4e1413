// Package output computes canonical artifact filenames, enforces the
// output-location safety rules, and performs transactional per-file writes:
// a failed write never leaves a truncated artifact behind.
package output

import "fmt"

// Sanitize replaces every byte outside [A-Za-z0-9._-] with an underscore so
// a template stem can never smuggle a path separator into the output
// directory.
func Sanitize(stem string) string {
	out := []byte(stem)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Filename returns the canonical artifact name for the 1-based row index:
// {sanitized stem}_line{index:04d}{ext}. Indexes are zero-padded so names
// sort in row order and never collide within a run.
func Filename(stem, ext string, rowIndex int) string {
	return fmt.Sprintf("%s_line%04d%s", Sanitize(stem), rowIndex, ext)
}
