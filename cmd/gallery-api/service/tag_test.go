package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/altarsite/gallery/common/cache"
	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/models"
	"github.com/altarsite/gallery/common/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTags(t *testing.T) {
	store, fx := repotest.NewStore(t)
	fx.Tag("streets", "Streets")
	fx.Tag("architecture", "Architecture")
	fx.Tag("night", "Night")

	svc := NewTagService(store, nil, time.Hour, nil, logger.Discard())
	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)

	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		labels = append(labels, tag.Label)
	}
	assert.Equal(t, []string{"Architecture", "Night", "Streets"}, labels)
}

func TestListTags_EmptyCatalog(t *testing.T) {
	store, _ := repotest.NewStore(t)

	svc := NewTagService(store, nil, time.Hour, nil, logger.Discard())
	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestListTags_ServedFromCache(t *testing.T) {
	store, fx := repotest.NewStore(t)
	fx.Tag("streets", "Streets")

	c := cache.NewMemoryCache(logger.Discard())
	defer c.Close()
	svc := NewTagService(store, c, time.Hour, nil, logger.Discard())

	_, err := svc.ListTags(context.Background())
	require.NoError(t, err)

	// A cached catalog survives the store going away
	require.NoError(t, fx.DB.Close())
	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "streets", tags[0].Slug)
}

func TestListTags_StoreFailure(t *testing.T) {
	store, fx := repotest.NewStore(t)
	require.NoError(t, fx.DB.Close())

	svc := NewTagService(store, nil, time.Hour, nil, logger.Discard())
	_, err := svc.ListTags(context.Background())

	var dsErr *models.DataSourceError
	assert.True(t, errors.As(err, &dsErr))
}
