package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jenian/vecguard/internal/analyzer"
	"golang.org/x/term"
)

// ColorSupported reports whether stdout is a terminal that can show colors
func ColorSupported() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Formatter writes reports to an output stream
type Formatter struct {
	out     io.Writer
	header  *color.Color
	warning *color.Color
	info    *color.Color
	clean   *color.Color
}

// NewFormatter creates a formatter writing to out.
// With colorize unset the output is plain text.
func NewFormatter(out io.Writer, colorize bool) *Formatter {
	f := &Formatter{
		out:     out,
		header:  color.New(color.Bold),
		warning: color.New(color.FgYellow),
		info:    color.New(color.FgCyan),
		clean:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{f.header, f.warning, f.info, f.clean} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// WriteReport writes the human-readable report for one file
func (f *Formatter) WriteReport(report analyzer.FileReport) error {
	if len(report.Issues) == 0 {
		_, err := fmt.Fprintln(f.out, f.clean.Sprintf("No issues found in %s", report.Path))
		return err
	}

	if _, err := fmt.Fprintln(f.out, f.header.Sprintf("Issues found in %s:", report.Path)); err != nil {
		return err
	}
	for _, issue := range report.Issues {
		c := f.info
		if issue.Kind.IsWarning() {
			c = f.warning
		}
		if _, err := fmt.Fprintf(f.out, "  %s\n", c.Sprint(issue.Message())); err != nil {
			return err
		}
	}
	return nil
}

// JSONReport represents one file in the JSON output format
type JSONReport struct {
	Path   string      `json:"path"`
	Issues []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in the JSON output format
type JSONIssue struct {
	Kind      string `json:"kind"`
	Container string `json:"container"`
	Index     string `json:"index,omitempty"`
	Line      int    `json:"line"`
	Message   string `json:"message"`
	Snippet   string `json:"snippet,omitempty"`
}

// WriteJSON writes all reports as a single indented JSON array
func (f *Formatter) WriteJSON(reports []analyzer.FileReport) error {
	out := make([]JSONReport, 0, len(reports))
	for _, report := range reports {
		jr := JSONReport{
			Path:   report.Path,
			Issues: make([]JSONIssue, 0, len(report.Issues)),
		}
		for _, issue := range report.Issues {
			jr.Issues = append(jr.Issues, JSONIssue{
				Kind:      string(issue.Kind),
				Container: issue.Container,
				Index:     issue.Index,
				Line:      issue.Line,
				Message:   issue.Message(),
				Snippet:   issue.Snippet,
			})
		}
		out = append(out, jr)
	}

	encoder := json.NewEncoder(f.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// Stats summarizes a whole run
type Stats struct {
	Files      int // Files analyzed successfully
	WithIssues int
	Warnings   int
	Infos      int
	Failed     int // Files that could not be read
	Ignored    int // Issues dropped via config
}

// CollectStats computes run statistics from the reports
func CollectStats(reports []analyzer.FileReport) Stats {
	var stats Stats
	for _, report := range reports {
		stats.Files++
		if len(report.Issues) > 0 {
			stats.WithIssues++
		}
		warnings, infos := report.Counts()
		stats.Warnings += warnings
		stats.Infos += infos
	}
	return stats
}

// Summary renders run statistics as one line
func Summary(stats Stats) string {
	s := fmt.Sprintf("Analyzed %d files (%d with issues, %d warnings, %d info)", stats.Files, stats.WithIssues, stats.Warnings, stats.Infos)
	if stats.Ignored > 0 {
		s += fmt.Sprintf(", %d ignored via config", stats.Ignored)
	}
	if stats.Failed > 0 {
		s += fmt.Sprintf(", %d unreadable", stats.Failed)
	}
	return s
}

// HasWarnings returns true if any report contains a warning.
// Safe access infos do not count.
func HasWarnings(reports []analyzer.FileReport) bool {
	for _, report := range reports {
		for _, issue := range report.Issues {
			if issue.Kind.IsWarning() {
				return true
			}
		}
	}
	return false
}
