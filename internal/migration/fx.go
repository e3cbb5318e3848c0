package migration

import (
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/internal/config"
	pricehistorydomain "github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Versioned SQL migrations target postgres; other dialects
			// (local dev on sqlite, mysql) get the schema from the models.
			return conn.AutoMigrate(
				&categorydomain.Category{},
				&productdomain.Product{},
				&pricehistorydomain.PriceHistory{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
