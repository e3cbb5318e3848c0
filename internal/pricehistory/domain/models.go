package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
)

// PriceHistory is an immutable snapshot of a product's active price window,
// appended after every product update. Rows are never updated or deleted
// except through the cascade when the owning product goes away.
type PriceHistory struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID snowflake.ID `json:"product_id" gorm:"not null;index"`

	Product productdomain.Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	StartDate *time.Time      `json:"start_date,omitempty" gorm:"type:date"`
	EndDate   *time.Time      `json:"end_date,omitempty" gorm:"type:date"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PriceHistory) TableName() string { return "price_histories" }
