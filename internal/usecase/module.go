package usecase

import "go.uber.org/fx"

// Module provides the user use case.
var Module = fx.Provide(NewUserUseCase)
