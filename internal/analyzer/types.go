package analyzer

import "fmt"

// IssueKind classifies a reported finding
type IssueKind string

const (
	KindOutOfRange        IssueKind = "out_of_range"
	KindSafeAccess        IssueKind = "safe_access"
	KindMissingEmptyCheck IssueKind = "missing_empty_check"
)

// IsWarning reports whether the kind is a warning rather than informational
func (k IssueKind) IsWarning() bool {
	return k == KindOutOfRange || k == KindMissingEmptyCheck
}

// Issue represents a single finding on one line of a file
type Issue struct {
	Kind      IssueKind
	Container string // Container name the access was made on
	Index     string // Literal index as written, empty for missing empty() checks
	Line      int    // 1-indexed line number
	Snippet   string // Trimmed source line
}

// Message renders the issue as a single report line
func (i Issue) Message() string {
	switch i.Kind {
	case KindOutOfRange:
		return fmt.Sprintf("Warning: Potential out-of-range access using '%s[%s]' at line %d", i.Container, i.Index, i.Line)
	case KindSafeAccess:
		return fmt.Sprintf("Info: Safe access found using '%s.at(%s)' at line %d", i.Container, i.Index, i.Line)
	case KindMissingEmptyCheck:
		return fmt.Sprintf("Warning: No empty() check found before accessing '%s' at line %d", i.Container, i.Line)
	default:
		return fmt.Sprintf("Unknown issue '%s' at line %d", i.Container, i.Line)
	}
}

// AccessRecord is a container accessed on a given line
type AccessRecord struct {
	Container string
	Line      int
}

// FileReport contains the analysis results for one file
type FileReport struct {
	Path   string
	Issues []Issue // Pass 1 issues followed by pass 2 issues
}

// Counts returns the number of warnings and informational issues
func (r FileReport) Counts() (warnings int, infos int) {
	for _, issue := range r.Issues {
		if issue.Kind.IsWarning() {
			warnings++
		} else {
			infos++
		}
	}
	return warnings, infos
}
