package servicetest

import (
	"context"
	"sync"

	"github.com/userapi/userapi/internal/cache"
	"github.com/userapi/userapi/internal/model"
)

// MemoryUserCache is an in-memory UserCache with the Redis cache's
// versioning: SetUser is rejected once the user has been invalidated
// after the caller read its version.
type MemoryUserCache struct {
	mu       sync.Mutex
	users    map[string]model.User
	versions map[string]int64

	// InvalidateErr, when set, makes InvalidateUser fail without touching state.
	InvalidateErr error
}

// NewMemoryUserCache returns an empty cache.
func NewMemoryUserCache() *MemoryUserCache {
	return &MemoryUserCache{
		users:    make(map[string]model.User),
		versions: make(map[string]int64),
	}
}

// Cached reports whether id currently has an entry.
func (c *MemoryUserCache) Cached(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.users[id]
	return ok
}

func (c *MemoryUserCache) GetUser(ctx context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &u, nil
}

func (c *MemoryUserCache) UserVersion(ctx context.Context, id string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[id], nil
}

func (c *MemoryUserCache) SetUser(ctx context.Context, user *model.User, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[user.ID] != version {
		return cache.ErrStaleVersion
	}
	c.users[user.ID] = *user
	return nil
}

func (c *MemoryUserCache) InvalidateUser(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.InvalidateErr != nil {
		return c.InvalidateErr
	}
	c.versions[id]++
	delete(c.users, id)
	return nil
}
