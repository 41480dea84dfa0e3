package etag

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher filters object keys against a compiled pattern. A nil *Matcher
// matches every key.
type Matcher struct {
	re *regexp.Regexp
}

// CompileMatcher joins the raw pattern fragments with alternation and
// compiles the result. No fragments yields a nil Matcher, which matches
// everything.
func CompileMatcher(fragments []string) (*Matcher, error) {
	if len(fragments) == 0 {
		return nil, nil
	}
	re, err := regexp.Compile(strings.Join(fragments, "|"))
	if err != nil {
		return nil, fmt.Errorf("etag: compile pattern: %w", err)
	}
	return &Matcher{re: re}, nil
}

// MatchKey reports whether key matches the pattern.
func (m *Matcher) MatchKey(key string) bool {
	if m == nil {
		return true
	}
	return m.re.MatchString(key)
}
