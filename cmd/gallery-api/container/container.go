package container

import (
	"errors"

	"github.com/altarsite/gallery/cmd/gallery-api/service"
	"github.com/altarsite/gallery/common/bootstrap"
	"github.com/altarsite/gallery/common/media"
)

// Container holds all initialized services (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Services
	TagService   *service.TagService
	ImageService *service.ImageService
}

// NewContainer initializes all services once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	if components.Store == nil {
		return nil, errors.New("gallery store is not initialized")
	}

	cfg := components.Config

	tagService := service.NewTagService(
		components.Store,
		components.Cache,
		cfg.Cache.TagTTL,
		components.Telemetry,
		components.Logger,
	)

	imageService := service.NewImageService(
		components.Store,
		components.Cache,
		media.NewURLBuilder(cfg.Storage.PublicBaseURL),
		service.ImageServiceConfig{
			TagJoinBatchSize: cfg.Gallery.TagJoinBatchSize,
			CacheTTL:         cfg.Cache.ImageTTL,
		},
		components.Telemetry,
		components.Logger,
	)

	return &Container{
		Components:   components,
		TagService:   tagService,
		ImageService: imageService,
	}, nil
}
