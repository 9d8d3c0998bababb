package models

import (
	"fmt"
	"strings"
)

// MatchMode selects how multiple tags combine in an image query
type MatchMode string

const (
	// MatchAny returns images carrying at least one of the tags
	MatchAny MatchMode = "any"
	// MatchAll returns images carrying every tag
	MatchAll MatchMode = "all"
)

// ParseMatchMode maps a raw mode parameter to a MatchMode. Anything other
// than "all" is treated as "any".
func ParseMatchMode(raw string) MatchMode {
	if strings.TrimSpace(raw) == string(MatchAll) {
		return MatchAll
	}
	return MatchAny
}

// ImageQuery is a normalized request for a page of published images
type ImageQuery struct {
	// Filtered is false when no tag filter was requested at all.
	Filtered bool
	// Slugs holds the de-duplicated, trimmed tag slugs. It may be empty
	// while Filtered is true, which matches nothing.
	Slugs []string
	Mode  MatchMode
	Page  int
	Limit int
}

// Offset returns the zero-based index of the first row of the page
func (q ImageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// CacheKey identifies the query result for response caching
func (q ImageQuery) CacheKey() string {
	tags := "-"
	if q.Filtered {
		tags = strings.Join(q.Slugs, ",")
	}
	return fmt.Sprintf("images:tags=%s:mode=%s:page=%d:limit=%d", tags, q.Mode, q.Page, q.Limit)
}

// ParseSlugs splits a comma-separated tag parameter, trimming blanks and
// dropping duplicates while keeping first-seen order.
func ParseSlugs(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	slugs := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		slugs = append(slugs, s)
	}
	return slugs
}
