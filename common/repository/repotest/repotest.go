// Package repotest seeds in-memory sqlite gallery stores for tests.
package repotest

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/altarsite/gallery/common/db"
	"github.com/altarsite/gallery/common/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixture inserts gallery rows into a test database
type Fixture struct {
	t     testing.TB
	DB    *sql.DB
	clock time.Time
}

// ImageSpec describes a seeded image. Zero CreatedAt takes the next tick of
// the fixture clock, so later images are newer.
type ImageSpec struct {
	Path      string
	Alt       string
	Width     *int
	Height    *int
	Position  *int
	Draft     bool
	CreatedAt time.Time
	TagIDs    []string
}

// NewStore opens an in-memory sqlite store and its fixture
func NewStore(t testing.TB) (*repository.SQLiteStore, *Fixture) {
	t.Helper()

	sqlDB, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return repository.NewSQLiteStore(sqlDB), &Fixture{
		t:     t,
		DB:    sqlDB,
		clock: time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Tag inserts a tag and returns its id
func (f *Fixture) Tag(slug, label string) string {
	f.t.Helper()

	id := uuid.NewString()
	_, err := f.DB.Exec(`INSERT INTO tags (id, slug, label) VALUES (?, ?, ?)`, id, slug, label)
	require.NoError(f.t, err)
	return id
}

// Image inserts an image with its tag links and returns its id
func (f *Fixture) Image(spec ImageSpec) string {
	f.t.Helper()

	id := uuid.NewString()
	if spec.Path == "" {
		spec.Path = fmt.Sprintf("images/gallery/%s.jpg", id)
	}
	if spec.CreatedAt.IsZero() {
		f.clock = f.clock.Add(time.Minute)
		spec.CreatedAt = f.clock
	}

	published := 1
	if spec.Draft {
		published = 0
	}

	_, err := f.DB.Exec(`
		INSERT INTO images (id, storage_path, alt, width, height, position, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, spec.Path, spec.Alt, spec.Width, spec.Height, spec.Position, published, spec.CreatedAt.UnixNano())
	require.NoError(f.t, err)

	for _, tagID := range spec.TagIDs {
		_, err := f.DB.Exec(`INSERT INTO image_tags (image_id, tag_id) VALUES (?, ?)`, id, tagID)
		require.NoError(f.t, err)
	}

	return id
}

// Images inserts n untagged published images and returns their ids in
// insertion order (oldest first)
func (f *Fixture) Images(n int) []string {
	f.t.Helper()

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, f.Image(ImageSpec{Alt: fmt.Sprintf("image %d", i)}))
	}
	return ids
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}
