package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	b := NewURLBuilder("https://demo.supabase.co/storage/v1/object/public/")

	assert.Equal(t,
		"https://demo.supabase.co/storage/v1/object/public/images/gallery/People/People1.jpg",
		b.PublicURL("images/gallery/People/People1.jpg"))
	assert.Equal(t,
		"https://demo.supabase.co/storage/v1/object/public/images/a.jpg",
		b.PublicURL("/images/a.jpg"))

	// Pure function of the path
	assert.Equal(t, b.PublicURL("images/a.jpg"), b.PublicURL("images/a.jpg"))
}

func TestRenderURL_Defaults(t *testing.T) {
	got, err := RenderURL(
		"https://demo.supabase.co/storage/v1/object/public/images/gallery/People/People1.jpg",
		620, 540, RenderOptions{})
	require.NoError(t, err)

	assert.Equal(t,
		"https://demo.supabase.co/storage/v1/render/image/public/images/gallery/People/People1.jpg?height=540&quality=85&resize=cover&width=620",
		got)
}

func TestRenderURL_Options(t *testing.T) {
	got, err := RenderURL(
		"https://demo.supabase.co/storage/v1/object/public/images/a.jpg",
		100, 200, RenderOptions{Resize: ResizeContain, Quality: 60, OriginFormat: true})
	require.NoError(t, err)

	assert.Contains(t, got, "/storage/v1/render/image/public/images/a.jpg?")
	assert.Contains(t, got, "resize=contain")
	assert.Contains(t, got, "quality=60")
	assert.Contains(t, got, "format=origin")
}

func TestRenderURL_RejectsForeignURL(t *testing.T) {
	_, err := RenderURL("https://cdn.example.com/a.jpg", 10, 10, RenderOptions{})
	assert.Error(t, err)
}
