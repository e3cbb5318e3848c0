package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pricebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	CategoryID snowflake.ID
	SKU        string
	Cursor     *pagination.Cursor
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindByCategory(ctx context.Context, db *gorm.DB, categoryID snowflake.ID) ([]Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Product, error)

	// Update persists the full row through the ORM update pipeline so the
	// registered after-update hooks observe it. Raw SQL would bypass them.
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
