package handlers

import (
	"errors"
	"net/http"

	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/models"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError converts a service failure into the 500 contract. Store
// failures carry their message through; anything else is masked.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	ctx := c.Request().Context()

	var dsErr *models.DataSourceError
	if errors.As(err, &dsErr) {
		log.WithContext(ctx).Error("data source failure",
			"op", dsErr.Op,
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: dsErr.Error()})
	}

	log.WithContext(ctx).Error("unexpected failure", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Unexpected error"})
}
