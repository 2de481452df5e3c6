package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jenian/vecguard/internal/analyzer"
	"github.com/jenian/vecguard/internal/config"
	"github.com/jenian/vecguard/internal/logging"
	"github.com/jenian/vecguard/internal/output"
	"github.com/jenian/vecguard/internal/scanner"
	"golang.org/x/sync/errgroup"
)

// Options controls a single scan run. Zero values fall back to the config file.
type Options struct {
	Path         string
	Extensions   []string
	IncludeGlobs []string
	ExcludeGlobs []string
	Jobs         int
	MaxFiles     int
	JSON         bool
	Silent       bool
	Debug        bool
	Strict       bool // Stop at the first unreadable file
	Summary      bool
	Color        bool
}

// Result is the outcome of a run
type Result struct {
	Reports []analyzer.FileReport
	Stats   output.Stats
}

type fileResult struct {
	report analyzer.FileReport
	err    error
}

// Run scans opts.Path, writes reports to stdout and diagnostics to stderr
func Run(ctx context.Context, opts Options, stdout, stderr io.Writer) (*Result, error) {
	logger := logging.NewLogger(stderr, opts.Debug, opts.Silent)

	path := opts.Path
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", path)
		}
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	configDir := path
	if !info.IsDir() {
		configDir = filepath.Dir(path)
	}
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		logger.Warn("failed to load %s: %v", config.FileName, err)
		cfg = &config.Config{}
	} else if cfg.Path() != "" {
		logger.Debug("loaded config from %s", cfg.Path())
	}

	fileScanner := newScanner(opts, cfg)

	logger.Info("Scanning %s...", path)
	files, err := fileScanner.Scan(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	logger.Info("Found %d files to analyze", len(files))

	walkErrors := fileScanner.WalkErrors()
	for i := range walkErrors {
		if opts.Strict {
			return nil, fmt.Errorf("failed to scan directory: %w", &walkErrors[i])
		}
		logger.Warn("%v", &walkErrors[i])
	}

	results, err := analyzeFiles(ctx, files, jobCount(opts, cfg), logger)
	if err != nil {
		return nil, err
	}

	formatter := output.NewFormatter(stdout, opts.Color)
	result := &Result{}
	result.Stats.Failed = len(walkErrors)
	for i, fr := range results {
		if fr.err != nil {
			if opts.Strict {
				return result, fr.err
			}
			logger.Warn("%v", fr.err)
			result.Stats.Failed++
			continue
		}

		report, removed := analyzer.FilterIgnored(fr.report, cfg)
		if removed > 0 {
			logger.Debug("dropped %d ignored issues in %s", removed, files[i].Path)
		}
		result.Stats.Ignored += removed
		result.Reports = append(result.Reports, report)

		if opts.JSON || opts.Silent {
			continue
		}
		if err := formatter.WriteReport(report); err != nil {
			return result, fmt.Errorf("failed to format output: %w", err)
		}
	}

	if opts.JSON && !opts.Silent {
		if err := formatter.WriteJSON(result.Reports); err != nil {
			return result, fmt.Errorf("failed to format output: %w", err)
		}
	}

	stats := output.CollectStats(result.Reports)
	stats.Failed = result.Stats.Failed
	stats.Ignored = result.Stats.Ignored
	result.Stats = stats

	if opts.Summary {
		logger.Info("%s", output.Summary(stats))
	}

	return result, nil
}

func newScanner(opts Options, cfg *config.Config) *scanner.Scanner {
	s := scanner.NewScanner()

	if len(opts.Extensions) > 0 {
		s.SetExtensions(opts.Extensions)
	} else {
		s.SetExtensions(cfg.GetExtensions())
	}
	if len(opts.IncludeGlobs) > 0 {
		s.SetIncludeGlobs(opts.IncludeGlobs)
	}
	if len(opts.ExcludeGlobs) > 0 {
		s.SetExcludeGlobs(opts.ExcludeGlobs)
	}
	if len(cfg.Ignores.Folders) > 0 {
		s.AddExcludeDirs(cfg.Ignores.Folders)
	}

	maxFiles := cfg.Limits.MaxFiles
	if opts.MaxFiles > 0 {
		maxFiles = opts.MaxFiles
	}
	s.SetMaxFiles(maxFiles)

	return s
}

func jobCount(opts Options, cfg *config.Config) int {
	if opts.Jobs > 0 {
		return opts.Jobs
	}
	if cfg.Limits.Jobs > 0 {
		return cfg.Limits.Jobs
	}
	return 1
}

// analyzeFiles analyzes files with at most jobs running at once.
// Results are indexed like files; per-file errors are kept, not returned.
func analyzeFiles(ctx context.Context, files []scanner.FileInfo, jobs int, logger logging.Logger) ([]fileResult, error) {
	results := make([]fileResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Debug("analyzing %s", file.Path)
			report, err := analyzer.AnalyzeFile(file.Path)
			// Index i is unique per goroutine
			results[i] = fileResult{report: report, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
