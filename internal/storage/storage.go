// Package storage opens the configured backend and hands out its repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"Ciale/internal/config"
	"Ciale/internal/core/media"
	"Ciale/internal/core/posts"
	"Ciale/internal/core/users"
	"Ciale/internal/db/badgerstore"
	"Ciale/internal/db/postgres"

	"github.com/dgraph-io/badger/v4"
)

// Repositories is one backend's set of repositories
type Repositories struct {
	Posts  posts.Repository
	Users  users.UserRepository
	Images media.ImageRepository
	Videos media.VideoRepository
	close  func() error
}

// Close releases the backend's connection pool or database files
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open connects to the backend named by cfg.StoreDriver.
// The connection is made once, here, and shared by every repository.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool := postgres.NewPool(postgres.Options{
			URL:          cfg.DatabaseURL,
			MaxOpenConns: cfg.DBMaxOpenConns,
		})
		conn, err := pool.Get(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to postgres", "max_open_conns", cfg.DBMaxOpenConns)

		return &Repositories{
			Posts:  postgres.NewPostRepository(conn),
			Users:  postgres.NewUserRepository(conn),
			Images: postgres.NewImageRepository(conn),
			Videos: postgres.NewVideoRepository(conn),
			close:  func() error { return pool.Close(func(db *sql.DB) error { return db.Close() }) },
		}, nil

	case config.DriverBadger:
		lazy := badgerstore.NewStore(badgerstore.Options{Path: cfg.BadgerPath, Logger: logger})
		store, err := lazy.Get(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("opened badger store", "path", cfg.BadgerPath)

		return &Repositories{
			Posts:  badgerstore.NewPostRepository(store),
			Users:  badgerstore.NewUserRepository(store),
			Images: badgerstore.NewImageRepository(store),
			Videos: badgerstore.NewVideoRepository(store),
			close:  func() error { return lazy.Close(func(db *badger.DB) error { return db.Close() }) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
