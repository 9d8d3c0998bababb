package service

import (
	"context"
	"time"

	"github.com/altarsite/gallery/common/cache"
	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/media"
	"github.com/altarsite/gallery/common/models"
	"github.com/altarsite/gallery/common/repository"
	"github.com/altarsite/gallery/common/telemetry"
)

// ImageServiceConfig holds query tuning for ImageService
type ImageServiceConfig struct {
	// TagJoinBatchSize bounds each read of the image/tag association table
	// when resolving an any-tag filter. Batches are read until exhausted.
	TagJoinBatchSize int
	CacheTTL         time.Duration
}

// ImageService answers tag-filtered, paginated image queries
type ImageService struct {
	store     repository.GalleryStore
	cache     cache.Cache
	urls      media.URLBuilder
	cfg       ImageServiceConfig
	telemetry *telemetry.Telemetry
	log       *logger.Logger
}

// NewImageService creates a new image service. cache may be nil.
func NewImageService(
	store repository.GalleryStore,
	c cache.Cache,
	urls media.URLBuilder,
	cfg ImageServiceConfig,
	tel *telemetry.Telemetry,
	log *logger.Logger,
) *ImageService {
	if cfg.TagJoinBatchSize <= 0 {
		cfg.TagJoinBatchSize = 2000
	}
	return &ImageService{
		store:     store,
		cache:     c,
		urls:      urls,
		cfg:       cfg,
		telemetry: tel,
		log:       log.WithComponent("image-service"),
	}
}

// Query returns one page of published images matching q. q must already be
// normalized: Page >= 1 and Limit >= 1.
func (s *ImageService) Query(ctx context.Context, q models.ImageQuery) ([]models.ImageView, error) {
	defer s.telemetry.RecordDuration(ctx, "images.query", time.Now(),
		"filtered", q.Filtered,
		"mode", q.Mode,
		"page", q.Page,
		"limit", q.Limit,
	)

	key := q.CacheKey()
	var cached []models.ImageView
	if readCached(ctx, s.cache, s.log, key, &cached) {
		return nonNilViews(cached), nil
	}

	set, err := s.resolveSet(ctx, q)
	if err != nil {
		return nil, err
	}

	// Nothing can match, skip the images query
	if set != nil && len(set) == 0 {
		return []models.ImageView{}, nil
	}

	images, err := s.store.ListPublishedImages(ctx, set, repository.Page{
		Offset: q.Offset(),
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, models.NewDataSourceError("list images", err)
	}

	views := s.project(images)
	writeCached(ctx, s.cache, s.log, key, views, s.cfg.CacheTTL)

	return views, nil
}

// resolveSet returns the image ids q is restricted to, or nil for an
// unfiltered query.
func (s *ImageService) resolveSet(ctx context.Context, q models.ImageQuery) (repository.ImageSet, error) {
	if !q.Filtered {
		return nil, nil
	}
	if len(q.Slugs) == 0 {
		return repository.ImageSet{}, nil
	}

	if q.Mode == models.MatchAll {
		ids, err := s.store.ImageIDsWithAllTags(ctx, q.Slugs)
		if err != nil {
			return nil, models.NewDataSourceError("resolve images with all tags", err)
		}
		return append(repository.ImageSet{}, ids...), nil
	}

	tagIDs, err := s.store.TagIDsBySlugs(ctx, q.Slugs)
	if err != nil {
		return nil, models.NewDataSourceError("resolve tags", err)
	}
	if len(tagIDs) == 0 {
		return repository.ImageSet{}, nil
	}

	return s.imagesWithAnyTag(ctx, tagIDs)
}

// imagesWithAnyTag walks the distinct image ids for tagIDs in keyset
// batches. Ids arrive ascending and distinct, so the union needs no
// further de-duplication.
func (s *ImageService) imagesWithAnyTag(ctx context.Context, tagIDs []string) (repository.ImageSet, error) {
	set := repository.ImageSet{}
	after := ""
	batches := 0

	for {
		batch, err := s.store.ImageIDsWithAnyTag(ctx, tagIDs, after, s.cfg.TagJoinBatchSize)
		if err != nil {
			return nil, models.NewDataSourceError("resolve images with any tag", err)
		}
		batches++
		set = append(set, batch...)

		if len(batch) < s.cfg.TagJoinBatchSize {
			break
		}
		after = batch[len(batch)-1]
	}

	if batches > 1 {
		s.log.WithContext(ctx).Debug("any-tag filter spanned several batches",
			"batches", batches,
			"images", len(set),
		)
	}

	return set, nil
}

func (s *ImageService) project(images []models.Image) []models.ImageView {
	views := make([]models.ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, models.ImageView{
			ID:          img.ID,
			StoragePath: img.StoragePath,
			Alt:         img.Alt,
			Width:       img.Width,
			Height:      img.Height,
			CreatedAt:   img.CreatedAt,
			Position:    img.Position,
			URL:         s.urls.PublicURL(img.StoragePath),
		})
	}
	return views
}

func nonNilViews(views []models.ImageView) []models.ImageView {
	if views == nil {
		return []models.ImageView{}
	}
	return views
}
