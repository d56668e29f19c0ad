package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/michelevens/insureflow/internal/config"
	ratingdomain "github.com/michelevens/insureflow/internal/rating/domain"
	ratetabledomain "github.com/michelevens/insureflow/internal/ratetable/domain"
	"github.com/michelevens/insureflow/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs rely on gorm's schema sync.
			if err := conn.AutoMigrate(
				&ratetabledomain.Carrier{},
				&ratetabledomain.RateTable{},
				&ratetabledomain.RateTableEntry{},
				&ratetabledomain.RateFactor{},
				&ratetabledomain.RateRider{},
				&ratetabledomain.RateFee{},
				&ratetabledomain.RateModalFactor{},
				&ratingdomain.RatingRun{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoRates {
			return seed.EnsureDemoRates(conn, genID)
		}
		return nil
	}),
)
