package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Ciale/internal/core/posts"
	"Ciale/internal/core/users"

	"github.com/dgraph-io/badger/v4"
)

type badgerPostRepo struct {
	posts collection[posts.Post]
}

// NewPostRepository creates a Badger-backed post repository
func NewPostRepository(store *badger.DB) posts.Repository {
	return &badgerPostRepo{
		posts: collection[posts.Post]{db: store, prefix: postPrefix, notFound: posts.ErrNotFound},
	}
}

// Create stores a post. The owner must already exist.
func (r *badgerPostRepo) Create(ctx context.Context, post *posts.Post) error {
	stored := *post
	stored.Author = nil

	return update(r.posts.db, func(txn *badger.Txn) error {
		found, err := exists(txn, userPrefix+post.Owner)
		if err != nil {
			return fmt.Errorf("failed to check owner: %w", err)
		}
		if !found {
			return fmt.Errorf("owner %s: %w", post.Owner, users.ErrUserNotFound)
		}
		return setJSON(txn, r.posts.key(post.ID), &stored)
	})
}

func (r *badgerPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	return r.posts.get(id)
}

func (r *badgerPostRepo) List(ctx context.Context) ([]*posts.Post, error) {
	list, err := r.posts.list()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	posts.SortNewestFirst(list)
	return list, nil
}

// Search filters the full scan with posts.Matches
func (r *badgerPostRepo) Search(ctx context.Context, query string) ([]*posts.Post, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	q := posts.NormalizeQuery(query)
	if q == "" {
		return list, nil
	}

	matched := []*posts.Post{}
	for _, p := range list {
		if posts.Matches(p, q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (r *badgerPostRepo) UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*posts.Post, error) {
	var updated posts.Post
	err := update(r.posts.db, func(txn *badger.Txn) error {
		if err := getJSON(txn, r.posts.key(id), &updated); err != nil {
			return err
		}
		updated.Content = content
		updated.UpdatedAt = updatedAt
		return setJSON(txn, r.posts.key(id), &updated)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return &updated, nil
}

func (r *badgerPostRepo) Delete(ctx context.Context, id string) error {
	return r.posts.delete(id)
}
