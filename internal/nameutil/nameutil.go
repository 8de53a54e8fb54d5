// Package nameutil validates identifiers and provides fuzzy matching helpers.
package nameutil

import (
	"fmt"
	"regexp"
	"strings"
)

var domainRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateDomain checks that a manifest domain identifier is well formed:
// lower-case letters, digits and underscores only.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("invalid domain: domain cannot be empty")
	}
	if !domainRe.MatchString(domain) {
		return fmt.Errorf("invalid domain %q: only lower-case letters, digits and underscores are allowed", domain)
	}
	return nil
}

// FuzzyMatch returns true if query fuzzy-matches target.
// Matching is case-insensitive and succeeds on substring match or if
// the query characters appear as a subsequence in the target.
func FuzzyMatch(target, query string) bool {
	if query == "" {
		return true
	}
	t := strings.ToLower(target)
	q := strings.ToLower(query)
	if strings.Contains(t, q) {
		return true
	}
	// subsequence match (rune-aware)
	qr := []rune(q)
	i := 0
	for _, ch := range t {
		if i < len(qr) && qr[i] == ch {
			i++
			if i >= len(qr) {
				return true
			}
		}
	}
	return false
}
