// internal/nodeid/match.go
package nodeid

import "strings"

// HasWildcard reports whether any segment name contains `*`.
func (a Address) HasWildcard() bool {
	for _, s := range a.Path {
		if strings.Contains(s.Name, "*") {
			return true
		}
	}
	return false
}

// Matches reports whether the canonical form of a matches pattern, where `*`
// matches any run of characters, dots included.
func (a Address) Matches(pattern string) bool {
	return wildcardMatch(pattern, a.String())
}

// MatchesAddress reports whether a, read as a pattern, matches other.
func (a Address) MatchesAddress(other Address) bool {
	return wildcardMatch(a.String(), other.String())
}

// wildcardMatch is a linear-time glob with `*` as the only metacharacter.
func wildcardMatch(pattern, s string) bool {
	p, i := 0, 0
	star, mark := -1, 0
	for i < len(s) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			star, mark = p, i
			p++
		case p < len(pattern) && pattern[p] == s[i]:
			p++
			i++
		case star >= 0:
			p = star + 1
			mark++
			i = mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
