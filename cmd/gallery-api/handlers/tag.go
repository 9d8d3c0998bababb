package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/altarsite/gallery/cmd/gallery-api/service"
	"github.com/altarsite/gallery/common/logger"
	"github.com/labstack/echo/v4"
)

// TagHandler serves the tag catalog
type TagHandler struct {
	tags   *service.TagService
	maxAge time.Duration
	log    *logger.Logger
}

// NewTagHandler creates a new tag handler. maxAge sets the Cache-Control
// lifetime of successful responses.
func NewTagHandler(tags *service.TagService, maxAge time.Duration, log *logger.Logger) *TagHandler {
	return &TagHandler{
		tags:   tags,
		maxAge: maxAge,
		log:    log,
	}
}

// ListTags lists all tags ordered by label
// GET /api/tags
func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tags.ListTags(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}

	setCacheControl(c, h.maxAge)
	return c.JSON(http.StatusOK, tags)
}

func setCacheControl(c echo.Context, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	c.Response().Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
}
