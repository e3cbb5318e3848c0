package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/pricebook/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	GetBySlug(ctx context.Context, slug string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, slug string) error

	// SetMarketPrice overwrites market_price on every product in the
	// category. Each product is saved individually, so the generic
	// post-update history hook fires per row. There is no cross-product
	// transaction: a mid-loop failure leaves earlier rows updated.
	SetMarketPrice(ctx context.Context, req SetMarketPriceRequest) (*SetMarketPriceResponse, error)
}

type CreateRequest struct {
	Name string `json:"name"`
}

type UpdateRequest struct {
	Slug string
	Name string `json:"name"`
}

type ListRequest struct {
	pagination.Pagination
	Name string
}

type ListResponse struct {
	pagination.PageInfo
	Categories []Response `json:"categories"`
}

type SetMarketPriceRequest struct {
	Slug  string
	Price decimal.Decimal `json:"price"`
}

type SetMarketPriceResponse struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Updated      int             `json:"updated"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNotFound         = errors.New("not_found")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrSlugConflict     = errors.New("slug_conflict")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)
