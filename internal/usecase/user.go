package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/usersvc/internal/domain/errors"
	"github.com/polkiloo/usersvc/internal/domain/model"
	"github.com/polkiloo/usersvc/internal/domain/repository"
)

// UserUseCase exposes user CRUD and credential lookup. Errors from the
// repository are returned untouched.
type UserUseCase struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository, logger *slog.Logger) *UserUseCase {
	return &UserUseCase{users: users, logger: logger}
}

// List returns every user with roles.
func (u *UserUseCase) List(ctx context.Context) ([]model.User, error) {
	users, err := u.users.FetchAll(ctx)
	if err != nil {
		u.logFailure("list users", err)
		return nil, err
	}
	return users, nil
}

// Create stores a new user together with its roles.
func (u *UserUseCase) Create(ctx context.Context, user model.User) (*model.User, error) {
	created, err := u.users.Create(ctx, user)
	if err != nil {
		u.logFailure("create user", err)
		return nil, err
	}
	u.logger.Info("user created", slog.Int64("id", created.ID), slog.Int("roles", len(created.Roles)))
	return created, nil
}

// Validate looks a user up by exact username and password.
//
// TODO: move credential checks behind a hashing verifier once passwords stop being stored verbatim.
func (u *UserUseCase) Validate(ctx context.Context, user model.User) (*model.User, error) {
	found, err := u.users.ValidateUser(ctx, user)
	if err != nil {
		u.logFailure("validate user", err)
		return nil, err
	}
	return found, nil
}

// Get fetches user by identifier.
func (u *UserUseCase) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := u.users.FetchByID(ctx, id)
	if err != nil {
		u.logFailure("get user", err, slog.Int64("id", id))
		return nil, err
	}
	return user, nil
}

// Update replaces credentials and roles of user id.
func (u *UserUseCase) Update(ctx context.Context, id int64, user model.User) (*model.User, error) {
	updated, err := u.users.Update(ctx, id, user)
	if err != nil {
		u.logFailure("update user", err, slog.Int64("id", id))
		return nil, err
	}
	u.logger.Info("user updated", slog.Int64("id", id), slog.Int("roles", len(updated.Roles)))
	return updated, nil
}

// Remove deletes user id and its roles.
func (u *UserUseCase) Remove(ctx context.Context, id int64) error {
	if err := u.users.Remove(ctx, id); err != nil {
		u.logFailure("remove user", err, slog.Int64("id", id))
		return err
	}
	u.logger.Info("user removed", slog.Int64("id", id))
	return nil
}

func (u *UserUseCase) logFailure(op string, err error, attrs ...any) {
	if errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Debug(op+" failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	u.logger.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
}
