package calculator

import "strings"

// Filter narrows calculator listings.
type Filter struct {
	// Category matches case-insensitively; empty matches all.
	Category string
	// Search matches id, title or description case-insensitively.
	Search string
}

// Match reports whether m passes the filter.
func (f Filter) Match(m Metadata) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, m.Category) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return strings.Contains(strings.ToLower(m.ID), q) ||
			strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Description), q)
	}
	return true
}
