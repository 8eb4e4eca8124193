// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/mo"

	"github.com/userapi/userapi/internal/cache"
	"github.com/userapi/userapi/internal/metrics"
	"github.com/userapi/userapi/internal/model"
	"github.com/userapi/userapi/internal/repository"
)

// Service errors.
var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the persistence gateway for users.
// *repository.Repository implements it.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (mo.Option[*model.User], error)
	FindUserByID(ctx context.Context, id string) (mo.Option[*model.User], error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	CreateUser(ctx context.Context, fields model.UserFields) (*model.User, error)
	UpdateUser(ctx context.Context, id string, fields model.UserFields) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserCache is an optional read cache for get-by-id.
// SetUser must reject writes whose version was invalidated after it was read.
// *cache.Cache implements it.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	UserVersion(ctx context.Context, id string) (int64, error)
	SetUser(ctx context.Context, user *model.User, version int64) error
	InvalidateUser(ctx context.Context, id string) error
}

// UserService handles user business logic.
type UserService struct {
	store   UserStore
	cache   UserCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
// userCache may be nil to disable caching.
func NewUserService(store UserStore, userCache UserCache, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		cache:   userCache,
		metrics: recorder,
		logger:  logger,
	}
}

// CreateUserInput defines input for creating a user.
// Missing fields are stored as NULL.
type CreateUserInput struct {
	Name  *string
	Email *string
}

// CreateUser creates a user unless another user already has the email.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if input.Email != nil {
		existing, err := s.store.FindUserByEmail(ctx, *input.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing.IsPresent() {
			s.metrics.IncEmailConflict()
			return nil, ErrEmailExists
		}
	}

	user, err := s.store.CreateUser(ctx, model.UserFields{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		// Lost a race with a concurrent create for the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncEmailConflict()
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.metrics.IncUserCreated()
	return user, nil
}

// ListUsers returns all users in store order.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

// GetUser returns the user with the given ID.
// Reads go through the cache when one is configured. The cache version is
// captured before the database read so a concurrent update or delete
// turns the write-back into a no-op.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, id)
		switch {
		case err == nil:
			s.metrics.IncUserCacheHit()
			return cached, nil
		case errors.Is(err, cache.ErrCacheMiss):
			s.metrics.IncUserCacheMiss()
		default:
			s.metrics.IncUserCacheMiss()
			s.logger.Warn("user cache read failed", "user_id", id, "error", err)
		}

		version, err = s.cache.UserVersion(ctx, id)
		if err != nil {
			s.logger.Warn("user cache version read failed", "user_id", id, "error", err)
		} else {
			cacheable = true
		}
	}

	found, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, ok := found.Get()
	if !ok {
		return nil, ErrUserNotFound
	}

	if cacheable {
		err := s.cache.SetUser(ctx, user, version)
		switch {
		case errors.Is(err, cache.ErrStaleVersion):
			s.logger.Debug("skipped stale user cache write", "user_id", id)
		case err != nil:
			s.logger.Warn("user cache write failed", "user_id", id, "error", err)
		}
	}

	return user, nil
}

// UpdateUserInput defines input for updating a user.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	ID    string
	Name  *string
	Email *string
}

// UpdateUser applies the given fields to an existing user.
// An input with no fields writes nothing and returns the stored user.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*model.User, error) {
	fields := model.UserFields{
		Name:  input.Name,
		Email: input.Email,
	}
	if fields.IsEmpty() {
		found, err := s.store.FindUserByID(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		user, ok := found.Get()
		if !ok {
			return nil, ErrUserNotFound
		}
		return user, nil
	}

	user, err := s.store.UpdateUser(ctx, input.ID, fields)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrEmailExists):
			s.metrics.IncEmailConflict()
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.evict(ctx, user.ID)
	s.metrics.IncUserUpdated()
	return user, nil
}

// DeleteUser removes an existing user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	found, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if found.IsAbsent() {
		return ErrUserNotFound
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		// Deleted concurrently between the lookup and the delete.
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.evict(ctx, id)
	s.metrics.IncUserDeleted()
	return nil
}

func (s *UserService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, id); err != nil {
		s.metrics.IncUserCacheEvictFailed()
		s.logger.Warn("user cache eviction failed", "user_id", id, "error", err)
	}
}
