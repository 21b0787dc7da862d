// Package badgerstore keeps Ciale's records as JSON documents in an embedded Badger database.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"Ciale/internal/db"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for each record kind
const (
	postPrefix      = "post:"
	userPrefix      = "user:"
	userEmailPrefix = "user-email:"
	userNamePrefix  = "user-name:"
	imagePrefix     = "image:"
	videoPrefix     = "video:"
)

// conflictRetries bounds how often a transaction is replayed after a write conflict
const conflictRetries = 64

// Options configures the embedded store
type Options struct {
	Logger   *slog.Logger
	Path     string
	InMemory bool
}

// NewStore returns a lazily opened Badger database
func NewStore(opts Options) *db.Lazy[*badger.DB] {
	return db.NewLazy(func(ctx context.Context) (*badger.DB, error) {
		return Open(opts)
	})
}

// Open opens the database at opts.Path, or in memory when opts.InMemory is set
func Open(opts Options) (*badger.DB, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(&slogAdapter{logger: opts.Logger.With("component", "badger")})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	store, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return store, nil
}

// slogAdapter routes Badger's printf-style logging into slog
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a *slogAdapter) Warningf(format string, args ...interface{}) {
	a.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a *slogAdapter) Infof(format string, args ...interface{}) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a *slogAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// update runs fn in a read-write transaction, replaying it on write conflicts
func update(store *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = store.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("transaction kept conflicting: %w", err)
}

func getJSON(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", key, err)
		}
		return nil
	})
}

func setJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func getString(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// collection stores one JSON document per id under a key prefix
type collection[T any] struct {
	db       *badger.DB
	notFound error
	prefix   string
}

func (c collection[T]) key(id string) string {
	return c.prefix + id
}

func (c collection[T]) get(id string) (*T, error) {
	var v T
	err := c.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, c.key(id), &v)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, c.notFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c collection[T]) list() ([]*T, error) {
	result := []*T{}
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(c.prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var v T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal %s: %w", it.Item().Key(), err)
			}
			result = append(result, &v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c collection[T]) create(id string, v *T) error {
	return update(c.db, func(txn *badger.Txn) error {
		return setJSON(txn, c.key(id), v)
	})
}

// replace overwrites an existing document; a missing id returns notFound
func (c collection[T]) replace(id string, v *T) error {
	return update(c.db, func(txn *badger.Txn) error {
		found, err := exists(txn, c.key(id))
		if err != nil {
			return err
		}
		if !found {
			return c.notFound
		}
		return setJSON(txn, c.key(id), v)
	})
}

func (c collection[T]) delete(id string) error {
	return update(c.db, func(txn *badger.Txn) error {
		found, err := exists(txn, c.key(id))
		if err != nil {
			return err
		}
		if !found {
			return c.notFound
		}
		return txn.Delete([]byte(c.key(id)))
	})
}

// sortNewestFirst orders by createdAt desc, then id desc
func sortNewestFirst[T any](list []*T, createdAt func(*T) time.Time, id func(*T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, tj := createdAt(list[i]), createdAt(list[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(list[i]) > id(list[j])
	})
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
