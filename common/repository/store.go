package repository

import (
	"context"

	"github.com/altarsite/gallery/common/models"
)

// ImageSet restricts a published image listing. A nil set means every
// published image; a non-nil empty set matches nothing.
type ImageSet []string

// Page is a zero-based row range over the ordered image sequence
type Page struct {
	Offset int
	Limit  int
}

// GalleryStore is the read-only view of the gallery tables. Every image
// listing is ordered by position ascending with nulls last, then created_at
// descending, then id ascending.
type GalleryStore interface {
	// ListTags returns every tag ordered by label ascending
	ListTags(ctx context.Context) ([]models.Tag, error)

	// TagIDsBySlugs resolves slugs to tag ids; unknown slugs are dropped
	TagIDsBySlugs(ctx context.Context, slugs []string) ([]string, error)

	// ImageIDsWithAnyTag returns distinct image ids tagged with at least one
	// of tagIDs, ascending by id, strictly after afterID (empty for the
	// first batch), at most limit ids.
	ImageIDsWithAnyTag(ctx context.Context, tagIDs []string, afterID string, limit int) ([]string, error)

	// ImageIDsWithAllTags returns the ids of images carrying every slug,
	// resolved by a single aggregate query. slugs must be de-duplicated.
	ImageIDsWithAllTags(ctx context.Context, slugs []string) ([]string, error)

	// ListPublishedImages returns a page of published images in set
	ListPublishedImages(ctx context.Context, set ImageSet, page Page) ([]models.Image, error)

	// Ping checks connectivity
	Ping(ctx context.Context) error
}
