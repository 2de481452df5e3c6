package analyzer

import (
	"fmt"
	"strings"

	"github.com/jenian/vecguard/internal/config"
	"github.com/jenian/vecguard/internal/patterns"
	"github.com/jenian/vecguard/internal/source"
)

// ScanIndexedAccess reports every literal-index access on every line.
// Per line, name[N] warnings come before name.at(N) infos.
func ScanIndexedAccess(lines []string) []Issue {
	var issues []Issue

	for i, line := range lines {
		lineNum := i + 1
		for _, m := range patterns.FindAccesses(line) {
			kind := KindOutOfRange
			if m.Kind == patterns.KindSafeAccess {
				kind = KindSafeAccess
			}
			issues = append(issues, Issue{
				Kind:      kind,
				Container: m.Container,
				Index:     m.Index,
				Line:      lineNum,
				Snippet:   strings.TrimSpace(line),
			})
		}
	}

	return issues
}

// ScanMissingEmptyChecks reports accesses to containers that never have an
// empty() check anywhere in the file. Any check on any line counts, without
// regard to ordering or reachability.
func ScanMissingEmptyChecks(lines []string) []Issue {
	// Collect distinct (container, line) pairs in first-seen order
	var accessed []AccessRecord
	seen := make(map[AccessRecord]bool)
	for i, line := range lines {
		for _, m := range patterns.FindAccesses(line) {
			record := AccessRecord{Container: m.Container, Line: i + 1}
			if seen[record] {
				continue
			}
			seen[record] = true
			accessed = append(accessed, record)
		}
	}

	if len(accessed) == 0 {
		return nil
	}

	checked := patterns.EmptyCheckedContainers(lines)

	var issues []Issue
	for _, record := range accessed {
		if checked[record.Container] {
			continue
		}
		issues = append(issues, Issue{
			Kind:      KindMissingEmptyCheck,
			Container: record.Container,
			Line:      record.Line,
			Snippet:   strings.TrimSpace(lines[record.Line-1]),
		})
	}

	return issues
}

// AnalyzeLines runs both scans over lines and concatenates their results
func AnalyzeLines(path string, lines []string) FileReport {
	var issues []Issue
	issues = append(issues, ScanIndexedAccess(lines)...)
	issues = append(issues, ScanMissingEmptyChecks(lines)...)

	return FileReport{
		Path:   path,
		Issues: issues,
	}
}

// AnalyzeFile reads the file at path and analyzes it.
// Read or decode failures are returned without a partial report.
func AnalyzeFile(path string) (FileReport, error) {
	file, err := source.Load(path)
	if err != nil {
		return FileReport{}, fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	return AnalyzeLines(file.Path, file.Lines), nil
}

// FilterIgnored drops issues for containers ignored via config
// and returns the number of issues removed
func FilterIgnored(report FileReport, cfg *config.Config) (FileReport, int) {
	if cfg == nil || len(cfg.Ignores.Containers) == 0 {
		return report, 0
	}

	kept := make([]Issue, 0, len(report.Issues))
	for _, issue := range report.Issues {
		if cfg.ShouldIgnoreContainer(issue.Container) {
			continue
		}
		kept = append(kept, issue)
	}

	removed := len(report.Issues) - len(kept)
	report.Issues = kept
	return report, removed
}
