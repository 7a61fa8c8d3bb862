package handlers

import (
	"context"

	"github.com/polkiloo/usersvc/internal/domain/model"
)

// UsersFacade describes user operations exposed via HTTP.
type UsersFacade interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	ValidateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, user model.User) (*model.User, error)
	RemoveUser(ctx context.Context, id int64) error
}

// HealthFacade reports backend availability.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	UsersFacade
	HealthFacade
}
