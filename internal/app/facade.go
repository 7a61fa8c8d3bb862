package app

import (
	"context"

	"github.com/polkiloo/usersvc/internal/domain/model"
	"github.com/polkiloo/usersvc/internal/usecase"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type UsersFacade struct {
	users  *usecase.UserUseCase
	health HealthChecker
}

func NewUsersFacade(users *usecase.UserUseCase, health HealthChecker) *UsersFacade {
	return &UsersFacade{users: users, health: health}
}

func (f *UsersFacade) ListUsers(ctx context.Context) ([]model.User, error) {
	return f.users.List(ctx)
}

func (f *UsersFacade) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	return f.users.Create(ctx, user)
}

func (f *UsersFacade) ValidateUser(ctx context.Context, user model.User) (*model.User, error) {
	return f.users.Validate(ctx, user)
}

func (f *UsersFacade) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return f.users.Get(ctx, id)
}

func (f *UsersFacade) UpdateUser(ctx context.Context, id int64, user model.User) (*model.User, error) {
	return f.users.Update(ctx, id, user)
}

func (f *UsersFacade) RemoveUser(ctx context.Context, id int64) error {
	return f.users.Remove(ctx, id)
}

func (f *UsersFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
