// Package transcript loads meeting transcript text from disk.
package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"minutes/internal/docx"
	"minutes/internal/services"
)

// ErrUnsupportedFormat is returned for extensions the reader cannot extract
// text from, including PDF.
var ErrUnsupportedFormat = errors.New("unsupported transcript format")

// ReadFile returns the transcript text stored at path. Plain text and
// markdown are read as UTF-8; .docx paragraphs are joined with newlines.
func ReadFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md", ".markdown", "":
	case ".docx":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	if ext == ".docx" {
		text, err := docx.Text(data)
		if err != nil {
			return "", services.Wrap(services.ErrFormat, "transcript", "read docx", path, err)
		}
		return text, nil
	}
	if !utf8.Valid(data) {
		return "", services.Wrap(services.ErrFormat, "transcript", "read", path+" is not valid UTF-8", nil)
	}
	return strings.TrimPrefix(string(data), "\uFEFF"), nil
}
