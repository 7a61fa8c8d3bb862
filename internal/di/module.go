package di

import (
	"github.com/polkiloo/usersvc/internal/app"
	"github.com/polkiloo/usersvc/internal/config"
	"github.com/polkiloo/usersvc/internal/logger"
	"github.com/polkiloo/usersvc/internal/server/http/router"
	"github.com/polkiloo/usersvc/internal/storage/postgres"
	"github.com/polkiloo/usersvc/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
