// Package servicetest provides in-memory and mock collaborators for service and handler tests.
package servicetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/userapi/userapi/internal/model"
	"github.com/userapi/userapi/internal/repository"
)

// MemoryUserStore is an in-memory UserStore that mirrors the Postgres
// repository's behavior, including the unique email index.
type MemoryUserStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	order  []string
	nextID int
	now    func() time.Time

	// IDs whose email column is NULL; NULL never matches a lookup.
	nullEmail map[string]bool
}

// NewMemoryUserStore returns an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:     make(map[string]*model.User),
		nullEmail: make(map[string]bool),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Count returns the number of stored users.
func (s *MemoryUserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Seed inserts a user directly, bypassing uniqueness checks.
func (s *MemoryUserStore) Seed(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.ID] = &copied
	s.order = append(s.order, user.ID)
}

func (s *MemoryUserStore) FindUserByEmail(ctx context.Context, email string) (mo.Option[*model.User], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if u := s.users[id]; !s.nullEmail[id] && u.Email == email {
			copied := *u
			return mo.Some(&copied), nil
		}
	}
	return mo.None[*model.User](), nil
}

func (s *MemoryUserStore) FindUserByID(ctx context.Context, id string) (mo.Option[*model.User], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return mo.None[*model.User](), nil
	}
	copied := *u
	return mo.Some(&copied), nil
}

func (s *MemoryUserStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*model.User, 0, len(s.order))
	for _, id := range s.order {
		copied := *s.users[id]
		users = append(users, &copied)
	}
	return users, nil
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, fields model.UserFields) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fields.Email != nil && s.emailTakenLocked(*fields.Email, "") {
		return nil, repository.ErrEmailExists
	}

	s.nextID++
	now := s.now()
	user := &model.User{
		ID:        fmt.Sprintf("user-%04d", s.nextID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Email != nil {
		user.Email = *fields.Email
	} else {
		s.nullEmail[user.ID] = true
	}

	s.users[user.ID] = user
	s.order = append(s.order, user.ID)

	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) UpdateUser(ctx context.Context, id string, fields model.UserFields) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if fields.Email != nil && s.emailTakenLocked(*fields.Email, id) {
		return nil, repository.ErrEmailExists
	}

	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Email != nil {
		user.Email = *fields.Email
		delete(s.nullEmail, id)
	}
	user.UpdatedAt = s.now()

	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.nullEmail, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryUserStore) emailTakenLocked(email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && !s.nullEmail[id] && u.Email == email {
			return true
		}
	}
	return false
}
