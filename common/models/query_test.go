package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSlugs(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"streets,night", []string{"streets", "night"}},
		{" streets , night ,", []string{"streets", "night"}},
		{"night,night,streets", []string{"night", "streets"}},
		{",,", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSlugs(tt.raw))
		})
	}
}

func TestParseMatchMode(t *testing.T) {
	assert.Equal(t, MatchAll, ParseMatchMode("all"))
	assert.Equal(t, MatchAny, ParseMatchMode("any"))
	assert.Equal(t, MatchAny, ParseMatchMode(""))
	assert.Equal(t, MatchAny, ParseMatchMode("ALL"))
}

func TestImageQuery_OffsetAndCacheKey(t *testing.T) {
	q := ImageQuery{Page: 3, Limit: 20, Mode: MatchAny}
	assert.Equal(t, 40, q.Offset())
	assert.Equal(t, "images:tags=-:mode=any:page=3:limit=20", q.CacheKey())

	filtered := ImageQuery{Filtered: true, Slugs: []string{"streets", "night"}, Mode: MatchAll, Page: 1, Limit: 10}
	assert.Equal(t, "images:tags=streets,night:mode=all:page=1:limit=10", filtered.CacheKey())

	empty := ImageQuery{Filtered: true, Mode: MatchAny, Page: 1, Limit: 10}
	assert.NotEqual(t, q.CacheKey(), empty.CacheKey())
}

func TestDataSourceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list tags: %w", NewDataSourceError("list_tags", cause))

	var dsErr *DataSourceError
	assert.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "connection refused", dsErr.Error())
	assert.ErrorIs(t, err, cause)
}
