package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Ciale/internal/core/users"

	"github.com/lib/pq"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

const userColumns = `id, username, email, avatar, password_hash, post_ids, created_at, updated_at`

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (id, username, email, avatar, password_hash, post_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.Avatar, user.PasswordHash,
		pq.Array(nonNil(user.PostIDs)), user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID retrieves a user by id
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by normalized email
func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByUsername retrieves a user by username, ignoring case
func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username)
}

// Update persists profile fields. The post list is never touched here.
func (r *postgresUserRepo) Update(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		UPDATE users
		SET username = $2, email = $3, avatar = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.Avatar, user.UpdatedAt))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// AppendPostID adds postID once. The row lock taken by UPDATE serializes concurrent appends.
func (r *postgresUserRepo) AppendPostID(ctx context.Context, userID, postID string) error {
	query := `
		UPDATE users
		SET post_ids = CASE
				WHEN $2::uuid = ANY(post_ids) THEN post_ids
				ELSE array_append(post_ids, $2::uuid)
			END,
			updated_at = NOW()
		WHERE id = $1`

	return r.execOnUser(ctx, "append post id", query, userID, postID)
}

// RemovePostID drops every occurrence of postID
func (r *postgresUserRepo) RemovePostID(ctx context.Context, userID, postID string) error {
	query := `
		UPDATE users
		SET post_ids = array_remove(post_ids, $2::uuid), updated_at = NOW()
		WHERE id = $1`

	return r.execOnUser(ctx, "remove post id", query, userID, postID)
}

// ListPostIDs returns the recorded post list of every user
func (r *postgresUserRepo) ListPostIDs(ctx context.Context) (users.Ownership, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, post_ids FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to list post ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ownership := users.Ownership{}
	for rows.Next() {
		var id string
		var postIDs []string
		if err := rows.Scan(&id, pq.Array(&postIDs)); err != nil {
			return nil, fmt.Errorf("failed to scan post ids: %w", err)
		}
		ownership[id] = nonNil(postIDs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return ownership, nil
}

func (r *postgresUserRepo) getOne(ctx context.Context, query string, arg string) (*users.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows || isInvalidID(err) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepo) execOnUser(ctx context.Context, op, query, userID, postID string) error {
	result, err := r.db.ExecContext(ctx, query, userID, postID)
	if err != nil {
		if isInvalidID(err) {
			return fmt.Errorf("failed to %s: invalid id", op)
		}
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s result: %w", op, err)
	}
	if rowsAffected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}

func scanUser(row rowScanner) (*users.User, error) {
	var user users.User
	var postIDs []string

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Avatar, &user.PasswordHash,
		pq.Array(&postIDs), &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.PostIDs = nonNil(postIDs)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// uniqueConflict maps a unique violation to the matching domain error, or nil
func uniqueConflict(err error) error {
	code, constraint := pqCode(err)
	if code != codeUniqueViolation {
		return nil
	}
	switch constraint {
	case "users_email_key":
		return users.ErrEmailTaken
	case "users_username_lower_key":
		return users.ErrUsernameTaken
	default:
		return fmt.Errorf("user already exists: %w", err)
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
