package routes

import (
	"github.com/altarsite/gallery/cmd/gallery-api/container"
	"github.com/altarsite/gallery/cmd/gallery-api/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterTagRoutes registers the tag catalog routes
func RegisterTagRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewTagHandler(c.TagService, c.Components.Config.Cache.TagTTL, c.Components.Logger)

	e.GET("/api/tags", h.ListTags) // GET /api/tags
}

// RegisterImageRoutes registers the image listing routes
func RegisterImageRoutes(e *echo.Echo, c *container.Container) {
	cfg := c.Components.Config
	h := handlers.NewImageHandler(c.ImageService, cfg.Gallery, cfg.Cache.ImageTTL, c.Components.Logger)

	images := e.Group("/api/images")
	{
		images.GET("", h.ListImages)              // GET /api/images?tags=a,b&mode=all&page=1&limit=20
		images.GET("/legacy", h.ListImagesLegacy) // GET /api/images/legacy?tags=a&limit=50
	}
}
