package servicetest

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/userapi/userapi/internal/model"
)

// MockUserStore is a testify mock of the user persistence gateway.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindUserByEmail(ctx context.Context, email string) (mo.Option[*model.User], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(mo.Option[*model.User]), args.Error(1)
}

func (m *MockUserStore) FindUserByID(ctx context.Context, id string) (mo.Option[*model.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*model.User]), args.Error(1)
}

func (m *MockUserStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserStore) CreateUser(ctx context.Context, fields model.UserFields) (*model.User, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) UpdateUser(ctx context.Context, id string, fields model.UserFields) (*model.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserCache is a testify mock of the user read cache.
type MockUserCache struct {
	mock.Mock
}

func (m *MockUserCache) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserCache) UserVersion(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserCache) SetUser(ctx context.Context, user *model.User, version int64) error {
	args := m.Called(ctx, user, version)
	return args.Error(0)
}

func (m *MockUserCache) InvalidateUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
