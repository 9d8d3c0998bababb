package repository

import (
	"context"
	"fmt"

	"github.com/altarsite/gallery/common/db"
	"github.com/altarsite/gallery/common/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ GalleryStore = (*PostgresStore)(nil)

// PostgresStore implements GalleryStore on a pgx pool
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a new Postgres-backed gallery store
func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const pgImageColumns = `id::text, storage_path, alt, width, height, created_at, position`

const pgImageOrder = `ORDER BY position ASC NULLS LAST, created_at DESC, id ASC`

// ListTags retrieves all tags ordered by label
func (r *PostgresStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	query := `
		SELECT id::text, slug, label
		FROM tags
		ORDER BY label ASC
	`

	rows, err := r.db.Query(ctx, query)
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
func (r *PostgresStore) TagIDsBySlugs(ctx context.Context, slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return []string{}, nil
	}

	query := `SELECT id::text FROM tags WHERE slug = ANY($1)`

	rows, err := r.db.Query(ctx, query, slugs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag slugs: %w", err)
	}
	return collectIDs(rows, "tag")
}

// ImageIDsWithAnyTag returns one keyset batch of image ids tagged with any tag id
func (r *PostgresStore) ImageIDsWithAnyTag(ctx context.Context, tagIDs []string, afterID string, limit int) ([]string, error) {
	if len(tagIDs) == 0 {
		return []string{}, nil
	}

	ids, err := parseUUIDs(tagIDs)
	if err != nil {
		return nil, fmt.Errorf("invalid tag id: %w", err)
	}

	var after *uuid.UUID
	if afterID != "" {
		parsed, err := uuid.Parse(afterID)
		if err != nil {
			return nil, fmt.Errorf("invalid image id %q: %w", afterID, err)
		}
		after = &parsed
	}

	query := `
		SELECT DISTINCT image_id
		FROM image_tags
		WHERE tag_id = ANY($1)
		  AND ($2::uuid IS NULL OR image_id > $2::uuid)
		ORDER BY image_id ASC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, ids, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tagged image ids: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan image id: %w", err)
		}
		out = append(out, id.String())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image ids: %w", err)
	}

	return out, nil
}

// ImageIDsWithAllTags intersects tag memberships with a single GROUP BY
func (r *PostgresStore) ImageIDsWithAllTags(ctx context.Context, slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return []string{}, nil
	}

	query := `
		SELECT it.image_id::text
		FROM image_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE t.slug = ANY($1)
		GROUP BY it.image_id
		HAVING COUNT(DISTINCT t.slug) = $2
	`

	rows, err := r.db.Query(ctx, query, slugs, len(slugs))
	if err != nil {
		return nil, fmt.Errorf("failed to intersect tag memberships: %w", err)
	}
	return collectIDs(rows, "image")
}

// ListPublishedImages returns one ordered page of published images
func (r *PostgresStore) ListPublishedImages(ctx context.Context, set ImageSet, page Page) ([]models.Image, error) {
	if set != nil && len(set) == 0 {
		return []models.Image{}, nil
	}

	var (
		rows pgx.Rows
		err  error
	)

	if set == nil {
		query := `SELECT ` + pgImageColumns + `
			FROM images
			WHERE published = TRUE
			` + pgImageOrder + `
			OFFSET $1 LIMIT $2`
		rows, err = r.db.Query(ctx, query, page.Offset, page.Limit)
	} else {
		ids, perr := parseUUIDs(set)
		if perr != nil {
			return nil, fmt.Errorf("invalid image id: %w", perr)
		}
		query := `SELECT ` + pgImageColumns + `
			FROM images
			WHERE published = TRUE AND id = ANY($1)
			` + pgImageOrder + `
			OFFSET $2 LIMIT $3`
		rows, err = r.db.Query(ctx, query, ids, page.Offset, page.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := make([]models.Image, 0, page.Limit)
	for rows.Next() {
		var img models.Image
		err := rows.Scan(
			&img.ID,
			&img.StoragePath,
			&img.Alt,
			&img.Width,
			&img.Height,
			&img.CreatedAt,
			&img.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}

// Ping checks database connectivity
func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.db.Health(ctx)
}

func collectIDs(rows pgx.Rows, kind string) ([]string, error) {
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

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
