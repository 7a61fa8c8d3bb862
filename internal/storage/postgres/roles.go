package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/usersvc/internal/domain/model"
)

const (
	selectRolesByUser = `SELECT users_roles.roles FROM users_roles
                         JOIN users ON users.id = users_roles.user_id
                         WHERE users_roles.user_id = $1`
	selectRolesByUsers = `SELECT users_roles.user_id, users_roles.roles FROM users_roles
                          JOIN users ON users.id = users_roles.user_id
                          WHERE users_roles.user_id = ANY($1)`
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PerUserRoleLoader issues one roles query per user, all in flight at once
// up to limit. A limit of zero or less means no limit.
type PerUserRoleLoader struct {
	db    querier
	limit int
}

// NewPerUserRoleLoader creates the one-query-per-user loader.
func NewPerUserRoleLoader(db querier, limit int) *PerUserRoleLoader {
	return &PerUserRoleLoader{db: db, limit: limit}
}

// Load attaches roles to every user. The first failing query fails the batch.
func (l *PerUserRoleLoader) Load(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}
	for i := range users {
		i := i
		g.Go(func() error {
			roles, err := l.rolesFor(gctx, users[i].ID)
			if err != nil {
				return err
			}
			users[i].Roles = roles
			return nil
		})
	}
	return g.Wait()
}

func (l *PerUserRoleLoader) rolesFor(ctx context.Context, userID int64) ([]string, error) {
	rows, err := l.db.Query(ctx, selectRolesByUser, userID)
	if err != nil {
		return nil, err
	}
	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []string{}
	}
	return roles, nil
}

// JoinedRoleLoader fetches roles for the whole batch in a single query.
type JoinedRoleLoader struct {
	db querier
}

// NewJoinedRoleLoader creates the single-query loader.
func NewJoinedRoleLoader(db querier) *JoinedRoleLoader {
	return &JoinedRoleLoader{db: db}
}

// Load attaches roles to every user.
func (l *JoinedRoleLoader) Load(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, len(users))
	index := make(map[int64]int, len(users))
	for i := range users {
		ids[i] = users[i].ID
		index[users[i].ID] = i
		users[i].Roles = []string{}
	}

	rows, err := l.db.Query(ctx, selectRolesByUsers, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID int64
			role   string
		)
		if err := rows.Scan(&userID, &role); err != nil {
			return err
		}
		if i, ok := index[userID]; ok {
			users[i].Roles = append(users[i].Roles, role)
		}
	}
	return rows.Err()
}
