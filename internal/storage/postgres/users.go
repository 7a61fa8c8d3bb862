package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/usersvc/internal/domain/errors"
	"github.com/polkiloo/usersvc/internal/domain/model"
	"github.com/polkiloo/usersvc/internal/domain/repository"
)

const (
	selectAllUsers        = `SELECT id, username, password FROM users ORDER BY id`
	selectUserByID        = `SELECT id, username, password FROM users WHERE id=$1`
	selectUserCredentials = `SELECT id, username, password FROM users WHERE username=$1 AND password=$2 ORDER BY id LIMIT 1`
	insertUser            = `INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`
	updateUser            = `UPDATE users SET username=$1, password=$2 WHERE id=$3`
	deleteUser            = `DELETE FROM users WHERE id=$1`
	deleteUserRoles       = `DELETE FROM users_roles WHERE user_id=$1`
)

var userRolesColumns = []string{"user_id", "roles"}

type userRepository struct {
	storage *Storage
	roles   repository.RoleLoader
}

func (r *userRepository) FetchAll(ctx context.Context) ([]model.User, error) {
	return r.queryUsers(ctx, selectAllUsers)
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	var id int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertUser, user.Username, user.Password).Scan(&id); err != nil {
			return err
		}
		return insertRoles(ctx, tx, model.NewUserRoles(id, user.Roles))
	})
	if err != nil {
		return nil, err
	}
	return r.FetchByID(ctx, id)
}

func (r *userRepository) ValidateUser(ctx context.Context, user model.User) (*model.User, error) {
	users, err := r.queryUsers(ctx, selectUserCredentials, user.Username, user.Password)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domainErrors.NewNotFound("User not found")
	}
	return &users[0], nil
}

func (r *userRepository) FetchByID(ctx context.Context, id int64) (*model.User, error) {
	users, err := r.queryUsers(ctx, selectUserByID, id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domainErrors.NewNotFound("User resource with given id %d not found", id)
	}
	return &users[0], nil
}

// Update replaces credentials and the whole role set. The returned user is
// read after commit, so a concurrent writer may already be visible in it.
func (r *userRepository) Update(ctx context.Context, id int64, user model.User) (*model.User, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, updateUser, user.Username, user.Password, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteUserRoles, id); err != nil {
			return err
		}
		return insertRoles(ctx, tx, model.NewUserRoles(id, user.Roles))
	})
	if err != nil {
		return nil, err
	}
	return r.FetchByID(ctx, id)
}

// Remove deletes role rows before the user row. Missing ids are not an error.
func (r *userRepository) Remove(ctx context.Context, id int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteUserRoles, id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, deleteUser, id)
		return err
	})
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]model.User, error) {
	result, err := r.scanUsers(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.roles.Load(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// scanUsers releases its connection before returning so role loading can
// use the pool.
func (r *userRepository) scanUsers(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func insertRoles(ctx context.Context, tx pgx.Tx, payload []model.UserRole) error {
	if len(payload) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(payload))
	for _, ur := range payload {
		rows = append(rows, []any{ur.UserID, ur.Role})
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{usersRolesTable}, userRolesColumns, pgx.CopyFromRows(rows))
	return err
}
