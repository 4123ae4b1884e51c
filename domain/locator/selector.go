package locator

import (
	"fmt"
	"regexp"
	"strings"
)

type selectorKind int

const (
	kindUnset selectorKind = iota
	kindID
	kindExactName
	kindNameContains
	kindNameRegex
)

// Selector describes one way of picking a file: by ID, by exact name,
// by name substring, or by a regular expression the whole name must
// satisfy. Build one with ByID, ByExactName, ByNameContains or
// ByNameRegex and hand it to a Locator. The zero Selector selects
// nothing.
type Selector struct {
	kind selectorKind
	term string
	expr *regexp.Regexp
}

// ByID selects the file with the given Drive file ID.
func ByID(fileID string) Selector {
	return Selector{kind: kindID, term: fileID}
}

// ByExactName selects the first file whose name equals name, in the
// order the remote listing returns candidates.
func ByExactName(name string) Selector {
	return Selector{kind: kindExactName, term: name}
}

// ByNameContains selects the first file whose name contains the given
// substring (case-sensitive).
func ByNameContains(substring string) Selector {
	return Selector{kind: kindNameContains, term: substring}
}

// ByNameRegex selects the first file whose entire name matches pattern.
// The pattern is anchored on both ends, so "backup" matches only a file
// literally named "backup"; use "backup.*" to match prefixes.
func ByNameRegex(pattern string) (Selector, error) {
	expr, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid name pattern %q: %w", pattern, err)
	}
	return Selector{kind: kindNameRegex, term: pattern, expr: expr}, nil
}

// FileID returns the target file ID and true when the selector was
// built with ByID.
func (s Selector) FileID() (string, bool) {
	return s.term, s.kind == kindID
}

// MatchesName reports whether a file with the given name satisfies the
// selector. ID selectors never match by name.
func (s Selector) MatchesName(name string) bool {
	switch s.kind {
	case kindExactName:
		return name == s.term
	case kindNameContains:
		return strings.Contains(name, s.term)
	case kindNameRegex:
		return s.expr.MatchString(name)
	default:
		return false
	}
}

// String describes the selector for log and error messages.
func (s Selector) String() string {
	switch s.kind {
	case kindID:
		return fmt.Sprintf("id %q", s.term)
	case kindExactName:
		return fmt.Sprintf("name %q", s.term)
	case kindNameContains:
		return fmt.Sprintf("name containing %q", s.term)
	case kindNameRegex:
		return fmt.Sprintf("name matching %q", s.term)
	default:
		return "empty selector"
	}
}
