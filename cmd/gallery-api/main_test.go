package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/altarsite/gallery/cmd/gallery-api/container"
	"github.com/altarsite/gallery/common/bootstrap"
	"github.com/altarsite/gallery/common/config"
	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/repository/repotest"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*echo.Echo, *repotest.Fixture) {
	store, fx := repotest.NewStore(t)

	components, err := bootstrap.Setup(context.Background(), serviceName,
		bootstrap.WithCustomConfig(config.Defaults(serviceName)),
		bootstrap.WithCustomLogger(logger.Discard()),
		bootstrap.WithStore(store),
		bootstrap.WithoutTelemetry(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { components.Shutdown(context.Background()) })

	c, err := container.NewContainer(components)
	require.NoError(t, err)

	e := setupEcho()
	setupMiddleware(e, components)
	setupHealthCheck(e, components)
	registerRoutes(e, c)
	return e, fx
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	e, fx := newTestServer(t)
	fx.Tag("streets", "Streets")
	fx.Images(3)

	for _, target := range []string{"/api/tags", "/api/images", "/api/images/legacy"} {
		rec := get(e, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), target)
	}
}

func TestHealth(t *testing.T) {
	e, fx := newTestServer(t)

	rec := get(e, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"gallery-api","cache":{"entries":0,"type":"memory"}}`, rec.Body.String())

	require.Equal(t, http.StatusOK, get(e, "/api/tags").Code)
	rec = get(e, "/health")
	assert.JSONEq(t, `{"status":"ok","service":"gallery-api","cache":{"entries":1,"type":"memory"}}`, rec.Body.String())

	require.NoError(t, fx.DB.Close())
	rec = get(e, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
