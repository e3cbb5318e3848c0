package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	// AveragePrice combines live sale prices and historical snapshots
	// whose windows are fully nested in the query window.
	AveragePrice(ctx context.Context, req AveragePriceRequest) (*AveragePriceResponse, error)
}

type AveragePriceRequest struct {
	CategoryID string
	StartDate  time.Time
	EndDate    time.Time
}

type AveragePriceResponse struct {
	CategoryID      string          `json:"category_id"`
	CategoryName    string          `json:"category_name"`
	CurrentAvgPrice decimal.Decimal `json:"current_avg_price"`
	HistoryAvgPrice decimal.Decimal `json:"history_avg_price"`
	OverallAvgPrice decimal.Decimal `json:"overall_avg_price"`
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidCategory = errors.New("invalid_category")
)
