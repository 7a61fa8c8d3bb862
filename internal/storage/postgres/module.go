package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/usersvc/internal/config"
	"github.com/polkiloo/usersvc/internal/domain/repository"
)

// Module wires PostgreSQL storage, the role loading strategy and the user repository.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(newRoleLoader),
	fx.Provide(func(s *Storage, roles repository.RoleLoader) repository.UserRepository { return s.Users(roles) }),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func newRoleLoader(s *Storage, cfg *config.Config) repository.RoleLoader {
	if cfg.RoleLoader == config.RoleLoaderJoined {
		return NewJoinedRoleLoader(s.pool)
	}
	return NewPerUserRoleLoader(s.pool, cfg.RoleFetchConcurrency)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
