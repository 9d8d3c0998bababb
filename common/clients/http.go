package clients

import (
	"context"
	"io"
	"net/http"

	"github.com/altarsite/gallery/common/logger"
	"github.com/labstack/echo/v4"
)

// Logger interface for HTTP client logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// HTTPClient wraps http.Client with context-aware helpers
// It extracts request metadata from context and forwards it as headers
type HTTPClient struct {
	client *http.Client
	logger Logger
}

// NewHTTPClient creates a new HTTP client wrapper
func NewHTTPClient(client *http.Client, logger Logger) *HTTPClient {
	return &HTTPClient{
		client: client,
		logger: logger,
	}
}

// DoRequest creates and executes an HTTP request, extracting metadata from context
func (c *HTTPClient) DoRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)

	// Forward the caller's request id so both sides log the same id
	if requestID, ok := logger.RequestIDFromContext(ctx); ok {
		req.Header.Set(echo.HeaderXRequestID, requestID)
		c.logger.Debug("added request id header from context", "request_id", requestID)
	}

	return c.client.Do(req)
}
