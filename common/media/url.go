package media

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	objectPublicSegment = "/storage/v1/object/public/"
	renderPublicSegment = "/storage/v1/render/image/public/"
)

// URLBuilder maps stored object paths to public URLs. It holds no state
// beyond the configured base, so a single value is shared by all requests.
type URLBuilder struct {
	base string
}

// NewURLBuilder creates a builder for the given public object base, e.g.
// https://<project>.supabase.co/storage/v1/object/public
func NewURLBuilder(publicBase string) URLBuilder {
	return URLBuilder{base: strings.TrimRight(publicBase, "/")}
}

// PublicURL concatenates the public base with the stored path
func (b URLBuilder) PublicURL(storagePath string) string {
	return b.base + "/" + strings.TrimLeft(storagePath, "/")
}

// Resize controls how the transform endpoint fits an image into the box
type Resize string

const (
	ResizeCover   Resize = "cover"
	ResizeContain Resize = "contain"
	ResizeFill    Resize = "fill"
)

// RenderOptions tune the storage transform URL
type RenderOptions struct {
	Resize  Resize
	Quality int
	// OriginFormat keeps the source format instead of letting the CDN pick one
	OriginFormat bool
}

// RenderURL converts a public object URL into a storage transform (render)
// URL for a width x height box. Defaults: cover, quality 85.
func RenderURL(publicURL string, width, height int, opts RenderOptions) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse public url: %w", err)
	}

	idx := strings.Index(u.Path, objectPublicSegment)
	if idx < 0 {
		return "", fmt.Errorf("not a public object url: %s", publicURL)
	}
	key := u.Path[idx+len(objectPublicSegment):]

	resize := opts.Resize
	if resize == "" {
		resize = ResizeCover
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = 85
	}

	params := url.Values{}
	params.Set("width", strconv.Itoa(width))
	params.Set("height", strconv.Itoa(height))
	params.Set("resize", string(resize))
	params.Set("quality", strconv.Itoa(quality))
	if opts.OriginFormat {
		params.Set("format", "origin")
	}

	render := url.URL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     u.Path[:idx] + renderPublicSegment + key,
		RawQuery: params.Encode(),
	}
	return render.String(), nil
}
