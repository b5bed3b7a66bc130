package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/daurulang/daurulang/internal/config"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
	"github.com/daurulang/daurulang/internal/seed"
	"github.com/daurulang/daurulang/internal/session"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned migrations target postgres; local sqlite and
			// mysql deployments fall back to schema sync.
			if err := conn.AutoMigrate(
				&pickupdomain.PickupRecord{},
				&reportdomain.ReportSnapshot{},
				&rewarddomain.Reward{},
				&rewarddomain.RedemptionClaim{},
				&session.Session{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedRewardCatalog {
			return seed.EnsureRewardCatalog(conn)
		}
		return nil
	}),
)
