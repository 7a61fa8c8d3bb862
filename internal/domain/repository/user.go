package repository

import (
	"context"

	"github.com/polkiloo/usersvc/internal/domain/model"
)

// UserRepository describes persistence operations for users and their roles.
type UserRepository interface {
	FetchAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
	ValidateUser(ctx context.Context, user model.User) (*model.User, error)
	FetchByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, id int64, user model.User) (*model.User, error)
	Remove(ctx context.Context, id int64) error
}

// RoleLoader populates Roles of every user in the batch in place.
type RoleLoader interface {
	Load(ctx context.Context, users []model.User) error
}
