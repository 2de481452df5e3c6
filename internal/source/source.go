// Package source loads source files as ordered lines of text.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrDecode is returned when a file is not valid UTF-8 text
var ErrDecode = errors.New("file is not valid UTF-8")

// File is the content of one source file split into lines.
// Line n (1-indexed) is Lines[n-1].
type File struct {
	Path  string
	Lines []string
}

// Load reads the file at path and splits it into lines
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("failed to decode file %s: %w", path, ErrDecode)
	}

	return &File{
		Path:  path,
		Lines: Lines(string(content)),
	}, nil
}

// Lines splits text into lines, accepting \n, \r\n and \r as terminators.
// A trailing terminator does not start a new line, so "" has zero lines.
func Lines(text string) []string {
	if text == "" {
		return nil
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	return strings.Split(text, "\n")
}
