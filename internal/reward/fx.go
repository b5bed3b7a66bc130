package reward

import (
	"go.uber.org/fx"

	"github.com/daurulang/daurulang/internal/reward/repository"
	"github.com/daurulang/daurulang/internal/reward/service"
)

var Module = fx.Module("reward.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
