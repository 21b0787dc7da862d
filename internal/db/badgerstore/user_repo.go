package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"Ciale/internal/core/users"

	"github.com/dgraph-io/badger/v4"
)

// userRecord persists the password hash, which users.User hides from JSON
type userRecord struct {
	users.User
	PasswordHash string `json:"passwordHash"`
}

func newRecord(u *users.User) *userRecord {
	rec := &userRecord{User: *u.Clone(), PasswordHash: u.PasswordHash}
	if rec.PostIDs == nil {
		rec.PostIDs = []string{}
	}
	return rec
}

func (rec *userRecord) toUser() *users.User {
	u := rec.User.Clone()
	u.PasswordHash = rec.PasswordHash
	if u.PostIDs == nil {
		u.PostIDs = []string{}
	}
	return u
}

func emailKey(email string) string { return userEmailPrefix + email }

func usernameKey(username string) string { return userNamePrefix + strings.ToLower(username) }

type badgerUserRepo struct {
	db *badger.DB
}

// NewUserRepository creates a Badger-backed user repository.
// Email and lowercased username are kept as index keys pointing at the user id.
func NewUserRepository(store *badger.DB) users.UserRepository {
	return &badgerUserRepo{db: store}
}

func (r *badgerUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	rec := newRecord(user)

	err := update(r.db, func(txn *badger.Txn) error {
		if err := claimIndexes(txn, rec.ID, rec.Email, rec.Username); err != nil {
			return err
		}
		return setJSON(txn, userPrefix+rec.ID, rec)
	})
	if err != nil {
		if users.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return rec.toUser(), nil
}

func (r *badgerUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userPrefix+id, &rec)
	})
	return r.result(&rec, err)
}

func (r *badgerUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getByIndex(emailKey(email))
}

func (r *badgerUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getByIndex(usernameKey(username))
}

// Update rewrites profile fields and moves the email and username indexes when they change
func (r *badgerUserRepo) Update(ctx context.Context, user *users.User) (*users.User, error) {
	var rec userRecord
	err := update(r.db, func(txn *badger.Txn) error {
		rec = userRecord{}
		if err := getJSON(txn, userPrefix+user.ID, &rec); err != nil {
			return err
		}

		if rec.Email != user.Email {
			if err := claimIndex(txn, emailKey(user.Email), user.ID, users.ErrEmailTaken); err != nil {
				return err
			}
			if err := txn.Delete([]byte(emailKey(rec.Email))); err != nil {
				return err
			}
		}
		if !strings.EqualFold(rec.Username, user.Username) {
			if err := claimIndex(txn, usernameKey(user.Username), user.ID, users.ErrUsernameTaken); err != nil {
				return err
			}
			if err := txn.Delete([]byte(usernameKey(rec.Username))); err != nil {
				return err
			}
		}

		rec.Username = user.Username
		rec.Email = user.Email
		rec.Avatar = user.Avatar
		rec.UpdatedAt = user.UpdatedAt
		return setJSON(txn, userPrefix+user.ID, &rec)
	})
	if err != nil && users.IsConflict(err) {
		return nil, err
	}
	return r.result(&rec, err)
}

func (r *badgerUserRepo) AppendPostID(ctx context.Context, userID, postID string) error {
	return r.mutatePostIDs(userID, func(ids []string) ([]string, bool) {
		for _, id := range ids {
			if id == postID {
				return ids, false
			}
		}
		return append(ids, postID), true
	})
}

func (r *badgerUserRepo) RemovePostID(ctx context.Context, userID, postID string) error {
	return r.mutatePostIDs(userID, func(ids []string) ([]string, bool) {
		kept := make([]string, 0, len(ids))
		for _, id := range ids {
			if id != postID {
				kept = append(kept, id)
			}
		}
		return kept, len(kept) != len(ids)
	})
}

func (r *badgerUserRepo) ListPostIDs(ctx context.Context) (users.Ownership, error) {
	ownership := users.Ownership{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(userPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec userRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal %s: %w", it.Item().Key(), err)
			}
			ids := rec.PostIDs
			if ids == nil {
				ids = []string{}
			}
			ownership[rec.ID] = ids
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list post ids: %w", err)
	}
	return ownership, nil
}

// mutatePostIDs applies fn to the stored list inside one transaction; a conflicting writer causes a replay
func (r *badgerUserRepo) mutatePostIDs(userID string, fn func([]string) ([]string, bool)) error {
	err := update(r.db, func(txn *badger.Txn) error {
		var rec userRecord
		if err := getJSON(txn, userPrefix+userID, &rec); err != nil {
			return err
		}

		ids, changed := fn(rec.PostIDs)
		if !changed {
			return nil
		}
		rec.PostIDs = ids
		rec.UpdatedAt = now()
		return setJSON(txn, userPrefix+userID, &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return users.ErrUserNotFound
	}
	return err
}

func (r *badgerUserRepo) getByIndex(key string) (*users.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, key)
		if err != nil {
			return err
		}
		return getJSON(txn, userPrefix+id, &rec)
	})
	return r.result(&rec, err)
}

func (r *badgerUserRepo) result(rec *userRecord, err error) (*users.User, error) {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return rec.toUser(), nil
}

func claimIndexes(txn *badger.Txn, id, email, username string) error {
	if err := claimIndex(txn, emailKey(email), id, users.ErrEmailTaken); err != nil {
		return err
	}
	return claimIndex(txn, usernameKey(username), id, users.ErrUsernameTaken)
}

// claimIndex points key at id unless another user already holds it
func claimIndex(txn *badger.Txn, key, id string, taken error) error {
	owner, err := getString(txn, key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return txn.Set([]byte(key), []byte(id))
	case err != nil:
		return err
	case owner != id:
		return taken
	default:
		return nil
	}
}
