package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Ciale/internal/core/posts"
	"Ciale/internal/core/users"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

const postColumns = `
	id, owner_id, username, content,
	media_type, media_url, media_file_id,
	likes_count, share_count, comment_count,
	created_at, updated_at`

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (
			id, owner_id, username, content,
			media_type, media_url, media_file_id,
			likes_count, share_count, comment_count,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	var mediaType, mediaURL, mediaFileID sql.NullString
	if post.Media != nil {
		mediaType = nullString(string(post.Media.Type))
		mediaURL = nullString(post.Media.URL)
		mediaFileID = nullString(post.Media.FileID)
	}

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Owner, post.Username, post.Content,
		mediaType, mediaURL, mediaFileID,
		post.LikesCount, post.ShareCount, post.CommentCount,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if code, _ := pqCode(err); code == codeForeignKeyViolation {
			return fmt.Errorf("owner %s: %w", post.Owner, users.ErrUserNotFound)
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its id
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// List returns every post, newest first
func (r *postgresPostRepo) List(ctx context.Context) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`
	return r.queryPosts(ctx, query)
}

// Search matches the query as a literal, case-insensitive substring of username or content.
// strpos keeps LIKE wildcards in the query from having any special meaning.
func (r *postgresPostRepo) Search(ctx context.Context, query string) ([]*posts.Post, error) {
	q := posts.NormalizeQuery(query)
	if q == "" {
		return r.List(ctx)
	}

	sqlQuery := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE strpos(lower(username), lower($1)) > 0
		   OR strpos(lower(content), lower($1)) > 0
		ORDER BY created_at DESC, id DESC`

	return r.queryPosts(ctx, sqlQuery, q)
}

// UpdateContent overwrites the body and updatedAt of a post
func (r *postgresPostRepo) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*posts.Post, error) {
	query := `
		UPDATE posts
		SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id, content, updatedAt))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// Delete removes a post
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return posts.ErrNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}

	return nil
}

func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*posts.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return result, nil
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var post posts.Post
	var mediaType, mediaURL, mediaFileID sql.NullString

	err := row.Scan(
		&post.ID, &post.Owner, &post.Username, &post.Content,
		&mediaType, &mediaURL, &mediaFileID,
		&post.LikesCount, &post.ShareCount, &post.CommentCount,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if mediaType.Valid && mediaURL.Valid {
		post.Media = &posts.Media{
			Type:   posts.MediaType(mediaType.String),
			URL:    mediaURL.String,
			FileID: mediaFileID.String,
		}
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()

	return &post, nil
}
