// Package search implements the name filters used by the guest and gift lists.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Match reports whether term occurs in s, ignoring case.
// The term is trimmed; a blank term matches everything.
func Match(s, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(term))
}

// Filter returns the elements of items whose key matches term.
// A blank term returns items unchanged.
func Filter[T any](items []T, term string, key func(T) string) []T {
	if strings.TrimSpace(term) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Match(key(it), term) {
			out = append(out, it)
		}
	}
	return out
}
