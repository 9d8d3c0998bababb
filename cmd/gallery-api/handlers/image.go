package handlers

import (
	"net/http"
	"time"

	"github.com/altarsite/gallery/cmd/gallery-api/service"
	"github.com/altarsite/gallery/common/config"
	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/models"
	"github.com/labstack/echo/v4"
)

// ImageHandler serves paginated image listings
type ImageHandler struct {
	images *service.ImageService
	limits config.GalleryConfig
	maxAge time.Duration
	log    *logger.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(images *service.ImageService, limits config.GalleryConfig, maxAge time.Duration, log *logger.Logger) *ImageHandler {
	return &ImageHandler{
		images: images,
		limits: limits,
		maxAge: maxAge,
		log:    log,
	}
}

// ListImages returns one page of published images
// GET /api/images?tags=streets,night&mode=all&page=2&limit=20
func (h *ImageHandler) ListImages(c echo.Context) error {
	q := models.ImageQuery{
		Page:  clamp(parseIntParam(c.QueryParam("page"), 1), 1, paramBound),
		Limit: clamp(parseIntParam(c.QueryParam("limit"), h.limits.DefaultLimit), 1, h.limits.MaxLimit),
	}
	parseTagFilter(c, &q)

	return h.respond(c, q)
}

// ListImagesLegacy returns the first slice of published images with a
// larger limit and no paging, for clients predating pagination
// GET /api/images/legacy?tags=streets&mode=any&limit=50
func (h *ImageHandler) ListImagesLegacy(c echo.Context) error {
	q := models.ImageQuery{
		Page:  1,
		Limit: clamp(parseIntParam(c.QueryParam("limit"), h.limits.LegacyDefaultLimit), 1, h.limits.LegacyMaxLimit),
	}
	parseTagFilter(c, &q)

	return h.respond(c, q)
}

func (h *ImageHandler) respond(c echo.Context, q models.ImageQuery) error {
	images, err := h.images.Query(c.Request().Context(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}

	setCacheControl(c, h.maxAge)
	return c.JSON(http.StatusOK, images)
}
