package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/altarsite/gallery/common/media"
	"github.com/altarsite/gallery/common/models"
)

// Image is an image as returned by the gallery API
type Image models.ImageView

// RenderURL returns a resized rendition of the image served by the
// object store's transformation endpoint
func (i Image) RenderURL(width, height int, opts media.RenderOptions) (string, error) {
	return media.RenderURL(i.URL, width, height, opts)
}

// ImageFilter is the tag filter of an image listing. No tags means the
// unfiltered listing.
type ImageFilter struct {
	Tags []string
	Mode models.MatchMode
}

// Key identifies the filter; equal filters have equal keys
func (f ImageFilter) Key() string {
	mode := f.Mode
	if mode == "" {
		mode = models.MatchAny
	}
	return strings.Join(f.Tags, ",") + "|" + string(mode)
}

// APIError is a non-2xx response from the gallery API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gallery api: status=%d: %s", e.StatusCode, e.Message)
}

// GalleryClient handles communication with the gallery API
type GalleryClient struct {
	baseURL string
	http    *HTTPClient
	logger  Logger
}

// NewGalleryClient creates a new gallery client. A nil httpClient gets a
// client with a 30s timeout.
func NewGalleryClient(baseURL string, httpClient *http.Client, logger Logger) *GalleryClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &GalleryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(httpClient, logger),
		logger:  logger,
	}
}

// ListTags fetches the tag catalog ordered by label
func (c *GalleryClient) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.getJSON(ctx, c.baseURL+"/api/tags", &tags); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// ListImages fetches one page of images matching filter
func (c *GalleryClient) ListImages(ctx context.Context, filter ImageFilter, page, limit int) ([]Image, error) {
	params := url.Values{}
	if len(filter.Tags) > 0 {
		params.Set("tags", strings.Join(filter.Tags, ","))
		if filter.Mode != "" {
			params.Set("mode", string(filter.Mode))
		}
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var images []Image
	if err := c.getJSON(ctx, c.baseURL+"/api/images?"+params.Encode(), &images); err != nil {
		return nil, fmt.Errorf("failed to list images page %d: %w", page, err)
	}

	c.logger.Debug("fetched image page",
		"filter", filter.Key(),
		"page", page,
		"count", len(images))

	return images, nil
}

func (c *GalleryClient) getJSON(ctx context.Context, target string, dst any) error {
	resp, err := c.http.DoRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readAPIError prefers the {error} message of a JSON body and falls back
// to the raw body text
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
