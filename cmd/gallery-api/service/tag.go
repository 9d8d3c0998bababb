package service

import (
	"context"
	"time"

	"github.com/altarsite/gallery/common/cache"
	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/models"
	"github.com/altarsite/gallery/common/repository"
	"github.com/altarsite/gallery/common/telemetry"
)

const tagCatalogKey = "tags:all"

// TagService serves the tag catalog
type TagService struct {
	store     repository.GalleryStore
	cache     cache.Cache
	ttl       time.Duration
	telemetry *telemetry.Telemetry
	log       *logger.Logger
}

// NewTagService creates a new tag service. cache may be nil.
func NewTagService(store repository.GalleryStore, c cache.Cache, ttl time.Duration, tel *telemetry.Telemetry, log *logger.Logger) *TagService {
	return &TagService{
		store:     store,
		cache:     c,
		ttl:       ttl,
		telemetry: tel,
		log:       log.WithComponent("tag-service"),
	}
}

// ListTags returns every tag ordered by label
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	defer s.telemetry.RecordDuration(ctx, "tags.list", time.Now())

	var tags []models.Tag
	if readCached(ctx, s.cache, s.log, tagCatalogKey, &tags) {
		return nonNilTags(tags), nil
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, models.NewDataSourceError("list tags", err)
	}
	tags = nonNilTags(tags)

	writeCached(ctx, s.cache, s.log, tagCatalogKey, tags, s.ttl)

	return tags, nil
}

func nonNilTags(tags []models.Tag) []models.Tag {
	if tags == nil {
		return []models.Tag{}
	}
	return tags
}
