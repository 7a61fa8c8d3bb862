package test

import (
	"context"

	"github.com/polkiloo/usersvc/internal/domain/model"
)

// UsersFacadeStub provides controllable behaviour for user endpoints.
type UsersFacadeStub struct {
	ListFn     func(context.Context) ([]model.User, error)
	CreateFn   func(context.Context, model.User) (*model.User, error)
	ValidateFn func(context.Context, model.User) (*model.User, error)
	GetFn      func(context.Context, int64) (*model.User, error)
	UpdateFn   func(context.Context, int64, model.User) (*model.User, error)
	RemoveFn   func(context.Context, int64) error
	HealthFn   func(context.Context) error
}

// ListUsers delegates to override or returns a single user.
func (s UsersFacadeStub) ListUsers(ctx context.Context) ([]model.User, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.User{{ID: 1, Username: "user", Roles: []string{"admin"}}}, nil
}

// CreateUser echoes the user back with id 1.
func (s UsersFacadeStub) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user)
	}
	user.ID = 1
	return &user, nil
}

// ValidateUser echoes the credentials back with id 1.
func (s UsersFacadeStub) ValidateUser(ctx context.Context, user model.User) (*model.User, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, user)
	}
	user.ID = 1
	return &user, nil
}

// GetUser returns a user with the requested id.
func (s UsersFacadeStub) GetUser(ctx context.Context, id int64) (*model.User, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.User{ID: id, Username: "user", Roles: []string{}}, nil
}

// UpdateUser echoes the user back under the requested id.
func (s UsersFacadeStub) UpdateUser(ctx context.Context, id int64, user model.User) (*model.User, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, user)
	}
	user.ID = id
	return &user, nil
}

// RemoveUser executes override when provided.
func (s UsersFacadeStub) RemoveUser(ctx context.Context, id int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, id)
	}
	return nil
}

// Health executes override when provided.
func (s UsersFacadeStub) Health(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}
