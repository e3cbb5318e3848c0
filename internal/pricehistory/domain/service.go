package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	ListByProduct(ctx context.Context, productID string) (*ListResponse, error)
}

type ListResponse struct {
	ProductID string     `json:"product_id"`
	Records   []Response `json:"records"`
}

type Response struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	StartDate *string         `json:"start_date"`
	EndDate   *string         `json:"end_date"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

var (
	ErrNotFound  = errors.New("not_found")
	ErrInvalidID = errors.New("invalid_id")
)
