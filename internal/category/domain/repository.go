package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pricebook/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Name   string
	Cursor *pagination.Cursor
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, category *Category) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Category, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Category, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Category, error)
	Update(ctx context.Context, db *gorm.DB, category *Category) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
