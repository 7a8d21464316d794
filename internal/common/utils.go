package common

import "strings"

// HasAny returns true if s contains any of the substrings, ignoring case.
// Empty substrings never match.
func HasAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if sub == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// SplitList splits a comma separated list, trimming blanks and dropping empty entries.
func SplitList(s string) []string {
	return SplitOn(s, ",")
}

// SplitOn is SplitList with a custom separator.
func SplitOn(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
