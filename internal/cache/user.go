package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userapi/userapi/internal/model"
)

const (
	userKeyPrefix        = "user:"
	userVersionKeyPrefix = "user_version:"
)

// DefaultUserTTL is used when no TTL is configured.
const DefaultUserTTL = 10 * time.Minute

// userVersionTTL must outlive any in-flight read that captured a version.
const userVersionTTL = time.Hour

var (
	// ErrCacheMiss is returned when a key is not cached.
	ErrCacheMiss = errors.New("cache miss")
	// ErrStaleVersion is returned by SetUser when the user was invalidated
	// after the caller read its version.
	ErrStaleVersion = errors.New("cached user version is stale")
)

// GetUser retrieves a cached user by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	key := userKey(id)

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	user, err := userFromFields(id, result)
	if err != nil {
		// Drop entries we cannot decode so the next read repopulates them.
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("failed to evict corrupt user entry: %w", delErr)
		}
		return nil, ErrCacheMiss
	}

	return user, nil
}

// UserVersion returns the invalidation counter for id.
// Read it before loading the user from the database and pass it to SetUser.
func (c *Cache) UserVersion(ctx context.Context, id string) (int64, error) {
	version, err := c.client.Get(ctx, userVersionKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get version failed: %w", err)
	}
	return version, nil
}

// SetUser stores a user in cache if it has not been invalidated since version was read.
// Returns ErrStaleVersion otherwise, leaving the cache untouched.
func (c *Cache) SetUser(ctx context.Context, user *model.User, version int64) error {
	key := userKey(user.ID)
	versionKey := userVersionKey(user.ID)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrStaleVersion
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, userToFields(user))
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}

	err := c.client.Watch(ctx, txf, versionKey)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleVersion), errors.Is(err, redis.TxFailedErr):
		return ErrStaleVersion
	default:
		return fmt.Errorf("failed to cache user: %w", err)
	}
}

// InvalidateUser removes a user from cache and bumps its version so
// concurrent readers holding an older version cannot write it back.
func (c *Cache) InvalidateUser(ctx context.Context, id string) error {
	versionKey := userVersionKey(id)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, versionKey)
	pipe.Expire(ctx, versionKey, userVersionTTL)
	pipe.Del(ctx, userKey(id))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate cached user: %w", err)
	}
	return nil
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func userVersionKey(id string) string {
	return userVersionKeyPrefix + id
}

func userToFields(user *model.User) map[string]any {
	return map[string]any{
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func userFromFields(id string, fields map[string]string) (*model.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fields["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &model.User{
		ID:        id,
		Name:      fields["name"],
		Email:     fields["email"],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
