package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/media"
	"github.com/altarsite/gallery/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryClient_ListImages(t *testing.T) {
	var gotQuery, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/images", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a1","storage_path":"images/a.jpg","alt":"A","width":800,"height":null,"created_at":"2024-11-01T12:00:00Z","position":null,"url":"https://x.supabase.co/storage/v1/object/public/images/a.jpg"}]`))
	}))
	defer srv.Close()

	client := NewGalleryClient(srv.URL+"/", nil, logger.Discard())
	ctx := logger.ContextWithRequestID(context.Background(), "req-9")

	images, err := client.ListImages(ctx, ImageFilter{Tags: []string{"streets", "night"}, Mode: models.MatchAll}, 2, 20)
	require.NoError(t, err)
	require.Len(t, images, 1)

	assert.Equal(t, "limit=20&mode=all&page=2&tags=streets%2Cnight", gotQuery)
	assert.Equal(t, "req-9", gotRequestID)
	assert.Equal(t, "a1", images[0].ID)
	assert.Equal(t, 800, *images[0].Width)
	assert.Nil(t, images[0].Height)

	rendered, err := images[0].RenderURL(400, 300, media.RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, rendered, "/storage/v1/render/image/public/images/a.jpg?")
}

func TestGalleryClient_UnfilteredOmitsTags(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewGalleryClient(srv.URL, nil, logger.Discard())
	images, err := client.ListImages(context.Background(), ImageFilter{Mode: models.MatchAll}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Equal(t, "limit=20&page=1", gotQuery)
}

func TestGalleryClient_ListTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"t1","slug":"night","label":"Night"}]`))
	}))
	defer srv.Close()

	tags, err := NewGalleryClient(srv.URL, nil, logger.Discard()).ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: "t1", Slug: "night", Label: "Night"}}, tags)
}

func TestGalleryClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json error body", http.StatusInternalServerError, `{"error":"relation \"images\" does not exist"}`, `relation "images" does not exist`},
		{"plain text body", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGalleryClient(srv.URL, nil, logger.Discard()).ListImages(context.Background(), ImageFilter{}, 1, 20)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestImageFilter_Key(t *testing.T) {
	assert.Equal(t, ImageFilter{Mode: models.MatchAny}.Key(), ImageFilter{}.Key())
	assert.NotEqual(t,
		ImageFilter{Tags: []string{"streets"}}.Key(),
		ImageFilter{Tags: []string{"streets"}, Mode: models.MatchAll}.Key())
}
