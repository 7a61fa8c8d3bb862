package config

import "go.uber.org/fx"

// Module loads Config once from process flags and environment.
var Module = fx.Options(
	fx.Provide(Load),
)
