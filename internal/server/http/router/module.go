package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/usersvc/internal/app"
	"github.com/polkiloo/usersvc/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.UsersFacade) handlers.Facade { return f }),
	fx.Provide(Setup),
)
