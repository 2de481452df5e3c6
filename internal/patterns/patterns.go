package patterns

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Kind identifies one of the textual access patterns
type Kind string

const (
	KindIndexedAccess Kind = "indexed_access" // name[3]
	KindSafeAccess    Kind = "safe_access"    // name.at(3)
	KindEmptyCheck    Kind = "empty_check"    // name.empty()
)

// Character classes follow Unicode word, digit and space semantics.
// RE2 has no Unicode \b, so the leading word boundary is checked in Find.
const (
	ident  = `([a-zA-Z_][\p{L}\p{N}_]*)`
	digits = `(\p{Nd}+)`
	space  = `[\t\n\v\f\r \x{1c}-\x{1f}\x{85}\p{Z}]*`
)

// Compiled once and shared; *regexp.Regexp is safe for concurrent use.
var (
	indexedAccessRe = regexp.MustCompile(ident + space + `\[` + space + digits + space + `\]`)
	safeAccessRe    = regexp.MustCompile(ident + `\.at` + space + `\(` + space + digits + space + `\)`)
	emptyCheckRe    = regexp.MustCompile(ident + `\.empty` + space + `\(` + space + `\)`)
)

// Match is a single occurrence of a pattern on one line
type Match struct {
	Kind      Kind
	Container string // Identifier the pattern was applied to
	Index     string // Literal digits as written; empty for empty checks
}

// PatternInfo pairs a pattern kind with its expression
type PatternInfo struct {
	Kind   Kind
	Regexp *regexp.Regexp
}

// GetPatternInfo returns the pattern for a given kind, or nil if unknown
func GetPatternInfo(kind Kind) *PatternInfo {
	switch kind {
	case KindIndexedAccess:
		return &PatternInfo{Kind: kind, Regexp: indexedAccessRe}
	case KindSafeAccess:
		return &PatternInfo{Kind: kind, Regexp: safeAccessRe}
	case KindEmptyCheck:
		return &PatternInfo{Kind: kind, Regexp: emptyCheckRe}
	default:
		return nil
	}
}

// isWordRune reports whether r continues an identifier
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Find returns all non-overlapping matches of kind in line, left to right.
// A match must not start in the middle of a word.
func Find(kind Kind, line string) []Match {
	info := GetPatternInfo(kind)
	if info == nil {
		return nil
	}

	var matches []Match
	pos := 0
	for pos < len(line) {
		loc := info.Regexp.FindStringSubmatchIndex(line[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		if prev, _ := utf8.DecodeLastRuneInString(line[:start]); start > 0 && isWordRune(prev) {
			// Retry from the next rune
			_, size := utf8.DecodeRuneInString(line[start:])
			pos = start + size
			continue
		}

		m := Match{
			Kind:      kind,
			Container: line[pos+loc[2] : pos+loc[3]],
		}
		// Empty checks have no index group
		if len(loc) >= 6 && loc[4] >= 0 {
			m.Index = line[pos+loc[4] : pos+loc[5]]
		}
		matches = append(matches, m)
		pos = end
	}
	return matches
}

// FindAccesses returns indexed accesses followed by safe accesses found in line
func FindAccesses(line string) []Match {
	indexed := Find(KindIndexedAccess, line)
	safe := Find(KindSafeAccess, line)
	if len(safe) == 0 {
		return indexed
	}
	return append(indexed, safe...)
}

// EmptyCheckedContainers returns the set of container names that have an
// empty() check on any of the given lines
func EmptyCheckedContainers(lines []string) map[string]bool {
	checked := make(map[string]bool)
	for _, line := range lines {
		for _, m := range Find(KindEmptyCheck, line) {
			checked[m.Container] = true
		}
	}
	return checked
}
