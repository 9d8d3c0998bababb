package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/altarsite/gallery/common/models"
)

var _ GalleryStore = (*SQLiteStore)(nil)

// SQLiteStore implements GalleryStore on an embedded sqlite database. Id
// lists are passed as a single JSON array parameter and expanded with
// json_each, so set size is not bound by the host parameter limit.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a gallery store from an opened sqlite database
func NewSQLiteStore(sqlDB *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: sqlDB}
}

const sqliteImageColumns = `id, storage_path, alt, width, height, created_at, position`

const sqliteImageOrder = `ORDER BY position IS NULL, position ASC, created_at DESC, id ASC`

// ListTags retrieves all tags ordered by label
func (r *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, slug, label FROM tags ORDER BY label ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Slug, &tag.Label); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// TagIDsBySlugs resolves slugs to tag ids
func (r *SQLiteStore) TagIDsBySlugs(ctx context.Context, slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return []string{}, nil
	}

	arg, err := jsonArray(slugs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM tags WHERE slug IN (SELECT value FROM json_each(?))`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag slugs: %w", err)
	}
	return scanIDs(rows, "tag")
}

// ImageIDsWithAnyTag returns one keyset batch of image ids tagged with any tag id
func (r *SQLiteStore) ImageIDsWithAnyTag(ctx context.Context, tagIDs []string, afterID string, limit int) ([]string, error) {
	if len(tagIDs) == 0 {
		return []string{}, nil
	}

	arg, err := jsonArray(tagIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT image_id
		FROM image_tags
		WHERE tag_id IN (SELECT value FROM json_each(?))
		  AND image_id > ?
		ORDER BY image_id ASC
		LIMIT ?
	`, arg, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tagged image ids: %w", err)
	}
	return scanIDs(rows, "image")
}

// ImageIDsWithAllTags intersects tag memberships with a single GROUP BY
func (r *SQLiteStore) ImageIDsWithAllTags(ctx context.Context, slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return []string{}, nil
	}

	arg, err := jsonArray(slugs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT it.image_id
		FROM image_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE t.slug IN (SELECT value FROM json_each(?))
		GROUP BY it.image_id
		HAVING COUNT(DISTINCT t.slug) = ?
	`, arg, len(slugs))
	if err != nil {
		return nil, fmt.Errorf("failed to intersect tag memberships: %w", err)
	}
	return scanIDs(rows, "image")
}

// ListPublishedImages returns one ordered page of published images
func (r *SQLiteStore) ListPublishedImages(ctx context.Context, set ImageSet, page Page) ([]models.Image, error) {
	if set != nil && len(set) == 0 {
		return []models.Image{}, nil
	}

	var (
		rows *sql.Rows
		err  error
	)

	if set == nil {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sqliteImageColumns+`
			FROM images
			WHERE published = 1
			`+sqliteImageOrder+`
			LIMIT ? OFFSET ?`, page.Limit, page.Offset)
	} else {
		arg, jerr := jsonArray(set)
		if jerr != nil {
			return nil, jerr
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+sqliteImageColumns+`
			FROM images
			WHERE published = 1 AND id IN (SELECT value FROM json_each(?))
			`+sqliteImageOrder+`
			LIMIT ? OFFSET ?`, arg, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := make([]models.Image, 0, page.Limit)
	for rows.Next() {
		var (
			img                     models.Image
			width, height, position sql.NullInt64
			createdAt               int64
		)
		if err := rows.Scan(&img.ID, &img.StoragePath, &img.Alt, &width, &height, &createdAt, &position); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		img.Width = nullableInt(width)
		img.Height = nullableInt(height)
		img.Position = nullableInt(position)
		img.CreatedAt = time.Unix(0, createdAt).UTC()
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}

// Ping checks database connectivity
func (r *SQLiteStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanIDs(rows *sql.Rows, kind string) ([]string, error) {
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s id: %w", kind, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s ids: %w", kind, err)
	}
	return ids, nil
}

func jsonArray(values []string) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode id list: %w", err)
	}
	return string(data), nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
