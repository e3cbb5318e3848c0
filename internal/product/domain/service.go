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
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// ChangePrice sets the active price window and relies on the
	// persistence-layer hook to append the matching history snapshot.
	// It is deliberately not idempotent: every call is a pricing event.
	ChangePrice(ctx context.Context, req ChangePriceRequest) (*Response, error)
}

type CreateRequest struct {
	Title        string           `json:"title"`
	SKU          string           `json:"sku"`
	Description  *string          `json:"description"`
	CategoryID   string           `json:"category_id"`
	MarketPrice  *decimal.Decimal `json:"market_price"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	StartDate    *time.Time       `json:"start_date"`
	EndDate      *time.Time       `json:"end_date"`
	Metadata     map[string]any   `json:"metadata"`
}

type UpdateRequest struct {
	ID          string
	Title       *string          `json:"title"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	MarketPrice *decimal.Decimal `json:"market_price"`
	Metadata    map[string]any   `json:"metadata"`
}

type ChangePriceRequest struct {
	ID           string
	CurrentPrice *decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
}

type ListRequest struct {
	pagination.Pagination
	CategoryID string
	SKU        string
}

type ListResponse struct {
	pagination.PageInfo
	Products []Response `json:"products"`
}

type Response struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	SKU          string          `json:"sku"`
	Description  *string         `json:"description,omitempty"`
	CategoryID   string          `json:"category_id"`
	MarketPrice  decimal.Decimal `json:"market_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	StartDate    *string         `json:"start_date"`
	EndDate      *string         `json:"end_date"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidSKU      = errors.New("invalid_sku")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidWindow   = errors.New("invalid_window")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)
