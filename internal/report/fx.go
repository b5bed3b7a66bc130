package report

import (
	"github.com/daurulang/daurulang/internal/report/repository"
	"github.com/daurulang/daurulang/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
