package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"gorm.io/datatypes"
)

type Product struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"type:text;not null"`
	SKU         string       `json:"sku" gorm:"column:sku;type:text;not null"`
	Description *string      `json:"description,omitempty" gorm:"type:text"`
	CategoryID  snowflake.ID `json:"category_id" gorm:"not null;index"`

	Category categorydomain.Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`

	// MarketPrice is the baseline list price. CurrentPrice is the active
	// sale price valid during [StartDate, EndDate]; it is filled from
	// MarketPrice at creation when the caller leaves it unset.
	MarketPrice  decimal.Decimal `json:"market_price" gorm:"type:decimal(10,2);not null"`
	CurrentPrice decimal.Decimal `json:"current_price" gorm:"type:decimal(10,2);not null"`
	StartDate    *time.Time      `json:"start_date,omitempty" gorm:"type:date"`
	EndDate      *time.Time      `json:"end_date,omitempty" gorm:"type:date"`

	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
