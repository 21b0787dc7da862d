package users

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachingRepository serves GetByID from a bounded, expiring LRU.
// Every write that goes through it evicts the affected user once the write returns.
type CachingRepository struct {
	UserRepository
	byID *expirable.LRU[string, *User]
}

// NewCachingRepository wraps next with a cache of at most size users kept for ttl
func NewCachingRepository(next UserRepository, size int, ttl time.Duration) *CachingRepository {
	if size < 1 {
		size = 1
	}
	return &CachingRepository{
		UserRepository: next,
		byID:           expirable.NewLRU[string, *User](size, nil, ttl),
	}
}

func (c *CachingRepository) GetByID(ctx context.Context, id string) (*User, error) {
	if cached, ok := c.byID.Get(id); ok {
		return cached.Clone(), nil
	}

	user, err := c.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.byID.Add(id, user.Clone())
	return user, nil
}

func (c *CachingRepository) Update(ctx context.Context, user *User) (*User, error) {
	defer c.byID.Remove(user.ID)
	return c.UserRepository.Update(ctx, user)
}

func (c *CachingRepository) AppendPostID(ctx context.Context, userID, postID string) error {
	defer c.byID.Remove(userID)
	return c.UserRepository.AppendPostID(ctx, userID, postID)
}

func (c *CachingRepository) RemovePostID(ctx context.Context, userID, postID string) error {
	defer c.byID.Remove(userID)
	return c.UserRepository.RemovePostID(ctx, userID, postID)
}

// Len reports the number of cached users
func (c *CachingRepository) Len() int {
	return c.byID.Len()
}
