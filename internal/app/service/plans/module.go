package plans

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewCatalog),
	fx.Provide(NewService),
)
