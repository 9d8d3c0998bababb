package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/altarsite/gallery/common/models"
	"github.com/labstack/echo/v4"
)

// paramBound keeps absurd numeric params from overflowing offset math
const paramBound = 1e9

// parseIntParam reads a numeric query parameter. Empty, non-numeric and
// non-finite values yield def; fractional values are truncated.
func parseIntParam(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}

	f = math.Max(-paramBound, math.Min(paramBound, math.Trunc(f)))
	return int(f)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// parseTagFilter reads the tags and mode parameters. An empty tags value
// means no filter; a value made only of separators filters on nothing and
// so matches nothing.
func parseTagFilter(c echo.Context, q *models.ImageQuery) {
	q.Mode = models.ParseMatchMode(c.QueryParam("mode"))

	raw := c.QueryParam("tags")
	if strings.TrimSpace(raw) == "" {
		return
	}
	q.Filtered = true
	q.Slugs = models.ParseSlugs(raw)
}
