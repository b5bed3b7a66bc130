package pickup

import (
	"github.com/daurulang/daurulang/internal/pickup/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("pickup.store",
	fx.Provide(repository.Provide),
)
