package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/jenian/vecguard/internal/config"
)

// ErrTooManyFiles is returned when a scan finds more files than the configured limit
var ErrTooManyFiles = errors.New("too many files to analyze")

// FileInfo contains information about a file to be analyzed
type FileInfo struct {
	Path      string
	Extension string // Matched suffix from the extension set
}

// WalkError is a path below the scan root that could not be read
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return "failed to read " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// Scanner handles file discovery and filtering
type Scanner struct {
	extensions   []string
	excludeDirs  map[string]bool // Directory names to exclude (e.g., "third_party")
	excludePaths []string        // Path patterns relative to the scan root (e.g., "src/gen", "k8s/*")
	excludeGlobs []string
	includeGlobs []string
	maxFiles     int
	scanRoot     string
	walkErrors   []WalkError
}

// NewScanner creates a new scanner with default extensions and exclusions
func NewScanner() *Scanner {
	return &Scanner{
		extensions: config.DefaultExtensions,
		excludeDirs: map[string]bool{
			".git":              true,
			".svn":              true,
			".hg":               true,
			".cache":            true,
			"node_modules":      true,
			"cmake-build-debug": true,
			"CMakeFiles":        true,
		},
	}
}

// SetExtensions sets the file suffixes to analyze
func (s *Scanner) SetExtensions(exts []string) {
	if len(exts) == 0 {
		return
	}
	s.extensions = exts
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// SetIncludeGlobs sets glob patterns to include (overrides excludes)
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// SetMaxFiles limits the number of files a scan may return, 0 for no limit
func (s *Scanner) SetMaxFiles(n int) {
	s.maxFiles = n
}

// AddExcludeDirs adds additional directories to exclude from scanning
// Can be directory names (e.g., "third_party") or paths (e.g., "src/gen")
func (s *Scanner) AddExcludeDirs(dirs []string) {
	for _, dir := range dirs {
		if strings.Contains(dir, "/") || strings.Contains(dir, "\\") {
			s.excludePaths = append(s.excludePaths, dir)
		} else {
			s.excludeDirs[dir] = true
		}
	}
}

// matchExtension returns the first configured suffix the file name ends with
func (s *Scanner) matchExtension(name string) (string, bool) {
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return ext, true
		}
	}
	return "", false
}

// matchesGlob checks if a path matches any of the glob patterns
func matchesGlob(path string, globs []string) bool {
	for _, glob := range globs {
		matched, _ := filepath.Match(glob, filepath.Base(path))
		if matched {
			return true
		}
		// Also try matching against full path
		matched, _ = filepath.Match(glob, path)
		if matched {
			return true
		}
	}
	return false
}

// shouldInclude checks if a file should be included based on include/exclude globs
func (s *Scanner) shouldInclude(path string) bool {
	if len(s.includeGlobs) > 0 {
		return matchesGlob(path, s.includeGlobs)
	}
	if len(s.excludeGlobs) > 0 {
		return !matchesGlob(path, s.excludeGlobs)
	}
	return true
}

// isExcludedPath checks if a directory lies within an excluded path
func (s *Scanner) isExcludedPath(dirPath string) bool {
	if s.scanRoot == "" || len(s.excludePaths) == 0 {
		return false
	}

	relPath, err := filepath.Rel(s.scanRoot, dirPath)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	for _, excludePath := range s.excludePaths {
		excludePath = strings.TrimSuffix(filepath.ToSlash(excludePath), "/*")
		if relPath == excludePath || strings.HasPrefix(relPath, excludePath+"/") {
			return true
		}
	}

	return false
}

// WalkErrors returns the unreadable paths skipped by the last Scan
func (s *Scanner) WalkErrors() []WalkError {
	return s.walkErrors
}

// Scan recursively walks a directory and returns files to analyze in lexical order.
// A single file path is returned as-is if it matches the extension set.
// Unreadable entries below the root are skipped and recorded in WalkErrors;
// only a failure on the root itself is returned.
func (s *Scanner) Scan(ctx context.Context, rootPath string) ([]FileInfo, error) {
	var files []FileInfo

	s.scanRoot = rootPath
	s.walkErrors = nil

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			s.walkErrors = append(s.walkErrors, WalkError{Path: path, Err: err})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			if path == rootPath {
				return nil
			}
			if s.excludeDirs[info.Name()] || s.isExcludedPath(path) {
				return filepath.SkipDir
			}
			return nil
		}

		ext, ok := s.matchExtension(info.Name())
		if !ok {
			return nil
		}

		if !s.shouldInclude(path) {
			return nil
		}

		if s.maxFiles > 0 && len(files) >= s.maxFiles {
			return ErrTooManyFiles
		}

		files = append(files, FileInfo{
			Path:      path,
			Extension: ext,
		})

		return nil
	})

	return files, err
}
