package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	// CurrentPricesInWindow returns current_price for every product in the
	// category whose start_date and end_date both fall inside [start, end].
	CurrentPricesInWindow(ctx context.Context, db *gorm.DB, categoryID snowflake.ID, start, end time.Time) ([]decimal.Decimal, error)

	// HistoryPricesInWindow returns the snapshot price for every history
	// row of the category's products under the same containment rule.
	HistoryPricesInWindow(ctx context.Context, db *gorm.DB, categoryID snowflake.ID, start, end time.Time) ([]decimal.Decimal, error)
}
