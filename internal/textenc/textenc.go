// Package textenc decodes file content by trying a fixed ordered codec list:
// UTF-8 (with BOM stripping), then Windows-1252, then Latin-1. The first
// codec that decodes without error wins.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUndecodable reports content that no candidate codec could decode.
var ErrUndecodable = errors.New("textenc: content not decodable with any supported encoding")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode runs the codec list over raw and returns the first clean result.
func Decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		// The charmap decoder substitutes U+FFFD for unmapped bytes instead
		// of failing; treat substitution as a decode failure.
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		return string(decoded), nil
	}
	return "", ErrUndecodable
}

// Loader reads a file and decodes it, satisfying the content-loader
// collaborator interfaces in pkg/template and pkg/values.
type Loader struct{}

// Load reads path and decodes its content.
func (Loader) Load(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("textenc: read %s: %w", path, err)
	}
	text, err := Decode(raw)
	if err != nil {
		return "", fmt.Errorf("textenc: %s: %w", path, err)
	}
	return text, nil
}

// Decode satisfies values.Decoder.
func (Loader) Decode(raw []byte) (string, error) {
	return Decode(raw)
}
