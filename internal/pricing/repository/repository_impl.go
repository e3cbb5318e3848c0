package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	pricehistorydomain "github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	"github.com/smallbiznis/pricebook/internal/pricing/domain"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CurrentPricesInWindow(ctx context.Context, db *gorm.DB, categoryID snowflake.ID, start, end time.Time) ([]decimal.Decimal, error) {
	var prices []decimal.Decimal
	err := db.WithContext(ctx).
		Model(&productdomain.Product{}).
		Where("category_id = ?", categoryID).
		Where("start_date BETWEEN ? AND ?", start, end).
		Where("end_date BETWEEN ? AND ?", start, end).
		Pluck("current_price", &prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *repo) HistoryPricesInWindow(ctx context.Context, db *gorm.DB, categoryID snowflake.ID, start, end time.Time) ([]decimal.Decimal, error) {
	var prices []decimal.Decimal
	err := db.WithContext(ctx).
		Model(&pricehistorydomain.PriceHistory{}).
		Joins("JOIN products ON products.id = price_histories.product_id").
		Where("products.category_id = ?", categoryID).
		Where("price_histories.start_date BETWEEN ? AND ?", start, end).
		Where("price_histories.end_date BETWEEN ? AND ?", start, end).
		Pluck("price_histories.price", &prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}
