package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Ciale/internal/core/media"
)

type postgresImageRepo struct {
	db *sql.DB
}

// NewImageRepository creates a new PostgreSQL image repository
func NewImageRepository(db *sql.DB) media.ImageRepository {
	return &postgresImageRepo{db: db}
}

const imageColumns = `id, owner_id, username, title, description, image_url, file_id, created_at, updated_at`

func (r *postgresImageRepo) Create(ctx context.Context, image *media.Image) error {
	query := `
		INSERT INTO images (id, owner_id, username, title, description, image_url, file_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		image.ID, image.Owner, image.Username, image.Title, image.Description,
		image.ImageURL, image.FileID, image.CreatedAt, image.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

func (r *postgresImageRepo) GetByID(ctx context.Context, id string) (*media.Image, error) {
	image, err := scanImage(r.db.QueryRowContext(ctx, `SELECT `+imageColumns+` FROM images WHERE id = $1`, id))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, media.ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return image, nil
}

func (r *postgresImageRepo) List(ctx context.Context) ([]*media.Image, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+imageColumns+` FROM images ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*media.Image{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		result = append(result, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return result, nil
}

func (r *postgresImageRepo) Update(ctx context.Context, image *media.Image) (*media.Image, error) {
	query := `
		UPDATE images
		SET title = $2, description = $3, image_url = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + imageColumns

	updated, err := scanImage(r.db.QueryRowContext(ctx, query,
		image.ID, image.Title, image.Description, image.ImageURL, image.UpdatedAt))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, media.ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update image: %w", err)
	}
	return updated, nil
}

func (r *postgresImageRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM images WHERE id = $1`, id, media.ErrImageNotFound)
}

func scanImage(row rowScanner) (*media.Image, error) {
	var image media.Image
	err := row.Scan(&image.ID, &image.Owner, &image.Username, &image.Title, &image.Description,
		&image.ImageURL, &image.FileID, &image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return nil, err
	}
	image.CreatedAt = image.CreatedAt.UTC()
	image.UpdatedAt = image.UpdatedAt.UTC()
	return &image, nil
}

type postgresVideoRepo struct {
	db *sql.DB
}

// NewVideoRepository creates a new PostgreSQL video repository
func NewVideoRepository(db *sql.DB) media.VideoRepository {
	return &postgresVideoRepo{db: db}
}

const videoColumns = `
	id, owner_id, username, title, description, video_url, file_id, thumbnail_url, controls,
	transform_height, transform_width, transform_quality, created_at, updated_at`

func (r *postgresVideoRepo) Create(ctx context.Context, video *media.Video) error {
	query := `
		INSERT INTO videos (
			id, owner_id, username, title, description, video_url, file_id, thumbnail_url, controls,
			transform_height, transform_width, transform_quality, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		video.ID, video.Owner, video.Username, video.Title, video.Description,
		video.VideoURL, video.FileID, video.ThumbnailURL, video.Controls,
		video.Transformation.Height, video.Transformation.Width, video.Transformation.Quality,
		video.CreatedAt, video.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

func (r *postgresVideoRepo) GetByID(ctx context.Context, id string) (*media.Video, error) {
	video, err := scanVideo(r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, media.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

func (r *postgresVideoRepo) List(ctx context.Context) ([]*media.Video, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*media.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		result = append(result, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}
	return result, nil
}

func (r *postgresVideoRepo) Update(ctx context.Context, video *media.Video) (*media.Video, error) {
	query := `
		UPDATE videos
		SET title = $2, description = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + videoColumns

	updated, err := scanVideo(r.db.QueryRowContext(ctx, query,
		video.ID, video.Title, video.Description, video.UpdatedAt))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, media.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	return updated, nil
}

func (r *postgresVideoRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, `DELETE FROM videos WHERE id = $1`, id, media.ErrVideoNotFound)
}

func scanVideo(row rowScanner) (*media.Video, error) {
	var video media.Video
	err := row.Scan(&video.ID, &video.Owner, &video.Username, &video.Title, &video.Description,
		&video.VideoURL, &video.FileID, &video.ThumbnailURL, &video.Controls,
		&video.Transformation.Height, &video.Transformation.Width, &video.Transformation.Quality,
		&video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return nil, err
	}
	video.CreatedAt = video.CreatedAt.UTC()
	video.UpdatedAt = video.UpdatedAt.UTC()
	return &video, nil
}

func deleteRow(ctx context.Context, db *sql.DB, query, id string, notFound error) error {
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		if isInvalidID(err) {
			return notFound
		}
		return fmt.Errorf("failed to delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
