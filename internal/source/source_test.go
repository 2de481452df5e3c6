package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", nil},
		{"single newline", "\n", []string{""}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr", "a\rb", []string{"a", "b"}},
		{"blank lines kept", "a\n\n\nb", []string{"a", "", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lines(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.cpp")
	if err := os.WriteFile(path, []byte("int x = v[0];\nreturn x;\n"), 0644); err != nil {
		t.Fatalf("Failed to write main.cpp: %v", err)
	}

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if file.Path != path {
		t.Errorf("Expected path %s, got %s", path, file.Path)
	}
	if len(file.Lines) != 2 {
		t.Errorf("Expected 2 lines, got %d", len(file.Lines))
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cpp"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.h")
	if err := os.WriteFile(path, []byte{'v', '[', '0', ']', 0xff, 0xfe, '\n'}, 0644); err != nil {
		t.Fatalf("Failed to write latin1.h: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}
