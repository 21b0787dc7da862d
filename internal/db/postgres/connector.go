package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"Ciale/internal/db"
	"Ciale/internal/db/migrations"

	"github.com/lib/pq"
)

// Options configures the shared connection pool
type Options struct {
	URL          string
	MaxOpenConns int
	// SkipMigrations leaves the schema untouched; tools that only read use it
	SkipMigrations bool
}

// NewPool returns a lazily opened connection pool.
// The first Get opens the pool, pings the server and applies pending migrations.
func NewPool(opts Options) *db.Lazy[*sql.DB] {
	return db.NewLazy(func(ctx context.Context) (*sql.DB, error) {
		return Open(ctx, opts)
	})
}

// Open connects to PostgreSQL and prepares the schema
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	conn, err := sql.Open("postgres", opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
		conn.SetMaxIdleConns(opts.MaxOpenConns)
	}
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if !opts.SkipMigrations {
		if err := migrations.Up(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	return conn, nil
}

// Postgres error codes the repositories translate into domain errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

func pqCode(err error) (pq.ErrorCode, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, pqErr.Constraint
	}
	return "", ""
}

// isInvalidID reports a malformed uuid reaching the server
func isInvalidID(err error) bool {
	code, _ := pqCode(err)
	return code == codeInvalidText
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
