package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("int x = v[0];\n"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func relPaths(t *testing.T, root string, files []FileInfo) []string {
	t.Helper()
	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			t.Fatalf("Rel failed: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		ok       bool
	}{
		{"main.cpp", ".cpp", true},
		{"vector.hpp", ".hpp", true},
		{"config.h", ".h", true},
		{"MAIN.CPP", "", false},
		{"main.c", "", false},
		{"main.cc", "", false},
		{"Makefile", "", false},
	}

	s := NewScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ok := s.matchExtension(tt.name)
			if ext != tt.expected || ok != tt.ok {
				t.Errorf("matchExtension(%q) = %q, %v, want %q, %v", tt.name, ext, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir,
		"src/main.cpp",
		"src/util.h",
		"include/vec.hpp",
		"src/readme.txt",
		"src/legacy.c",
		".git/hooks/pre-commit.h",
		"node_modules/pkg/addon.cpp",
	)

	files, err := NewScanner().Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"include/vec.hpp", "src/main.cpp", "src/util.h"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestScanner_SetExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "a.cc", "b.cpp", "c.cxx")

	s := NewScanner()
	s.SetExtensions([]string{".cc", ".cxx"})

	files, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"a.cc", "c.cxx"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if files[1].Extension != ".cxx" {
		t.Errorf("Expected .cxx extension, got %q", files[1].Extension)
	}
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "main.cpp", "main_test.cpp", "vec.h")

	s := NewScanner()
	s.SetExcludeGlobs([]string{"*_test.cpp"})

	files, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"main.cpp", "vec.h"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestScanner_IncludeGlobsOverrideExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "main.cpp", "vec.h")

	s := NewScanner()
	s.SetExcludeGlobs([]string{"*.h"})
	s.SetIncludeGlobs([]string{"*.h"})

	files, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"vec.h"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestScanner_AddExcludeDirs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir,
		"third_party/lib.h",
		"src/gen/table.h",
		"src/core/vec.h",
		"other/gen/keep.h",
	)

	s := NewScanner()
	s.AddExcludeDirs([]string{"third_party", "src/gen"})

	files, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"other/gen/keep.h", "src/core/vec.h"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestScanner_MaxFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "a.h", "b.h", "c.h")

	s := NewScanner()
	s.SetMaxFiles(2)

	files, err := s.Scan(context.Background(), tmpDir)
	if !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("Expected ErrTooManyFiles, got %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 files before the limit, got %d", len(files))
	}
}

func TestScanner_SingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "main.cpp")
	path := filepath.Join(tmpDir, "main.cpp")

	files, err := NewScanner().Scan(context.Background(), path)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 1 || files[0].Path != path {
		t.Errorf("Expected just %s, got %v", path, files)
	}
}

func TestScanner_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "a.h")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewScanner().Scan(ctx, tmpDir); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestScanner_MissingRoot(t *testing.T) {
	_, err := NewScanner().Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

// lockDir makes dir unreadable for the rest of the test
func lockDir(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for this user")
	}
	if err := os.Chmod(dir, 0); err != nil {
		t.Fatalf("Failed to chmod %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })
}

func TestScanner_UnreadableDirSkipped(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "a.cpp", "locked/b.cpp", "z.h")
	lockDir(t, filepath.Join(tmpDir, "locked"))

	s := NewScanner()
	files, err := s.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan should skip unreadable subdirectories, got %v", err)
	}

	expected := []string{"a.cpp", "z.h"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	walkErrors := s.WalkErrors()
	if len(walkErrors) != 1 {
		t.Fatalf("Expected 1 walk error, got %d", len(walkErrors))
	}
	if walkErrors[0].Path != filepath.Join(tmpDir, "locked") {
		t.Errorf("Unexpected walk error path %s", walkErrors[0].Path)
	}
	if !errors.Is(&walkErrors[0], os.ErrPermission) {
		t.Errorf("Expected os.ErrPermission, got %v", walkErrors[0].Err)
	}
}

func TestScanner_UnreadableRoot(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "root")
	writeFiles(t, root, "a.cpp")
	lockDir(t, root)

	if _, err := NewScanner().Scan(context.Background(), root); !errors.Is(err, os.ErrPermission) {
		t.Errorf("Expected os.ErrPermission for an unreadable root, got %v", err)
	}
}
