package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/internal/config"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureDemoCatalog inserts a small demo catalog on an empty database.
// Intended for local development only.
func EnsureDemoCatalog(conn *gorm.DB, genID *snowflake.Node) error {
	var count int64
	if err := conn.Model(&categorydomain.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	demo := map[string][]struct {
		title string
		sku   string
		price int64
	}{
		"Phone": {
			{title: "Demo Phone A", sku: "PHN-001", price: 499},
			{title: "Demo Phone B", sku: "PHN-002", price: 899},
		},
		"Laptop": {
			{title: "Demo Laptop", sku: "LPT-001", price: 1299},
		},
	}

	for name, products := range demo {
		category := categorydomain.Category{
			ID:        genID.Generate(),
			Name:      name,
			Slug:      slug.Make(name),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := conn.Create(&category).Error; err != nil {
			return err
		}
		for _, item := range products {
			price := decimal.NewFromInt(item.price)
			product := productdomain.Product{
				ID:           genID.Generate(),
				Title:        item.title,
				SKU:          item.sku,
				CategoryID:   category.ID,
				MarketPrice:  price,
				CurrentPrice: price,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := conn.Omit(clause.Associations).Create(&product).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

var Module = fx.Module("seed",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node, log *zap.Logger) error {
		if !cfg.SeedDemo || cfg.IsProduction() {
			return nil
		}
		if err := EnsureDemoCatalog(conn, genID); err != nil {
			return err
		}
		log.Info("demo catalog ensured")
		return nil
	}),
)
