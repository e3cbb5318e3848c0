package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Repo         domain.Repository
	CategoryRepo categorydomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         domain.Repository
	categoryRepo categorydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("pricing.service"),
		repo:         p.Repo,
		categoryRepo: p.CategoryRepo,
	}
}

// AveragePrice averages the two sources independently and then takes the
// plain mean of the two averages when both have rows. The combination
// ignores relative row counts between the sources; that is the documented
// contract, not a weighted mean over all rows.
func (s *Service) AveragePrice(ctx context.Context, req domain.AveragePriceRequest) (*domain.AveragePriceResponse, error) {
	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}

	category, err := s.categoryRepo.FindByID(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	current, err := s.repo.CurrentPricesInWindow(ctx, s.db, categoryID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.HistoryPricesInWindow(ctx, s.db, categoryID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	currentAvg := average(current)
	historyAvg := average(history)

	divisor := int64(1)
	if len(current) > 0 && len(history) > 0 {
		divisor = 2
	}
	overall := currentAvg.Add(historyAvg).Div(decimal.NewFromInt(divisor))

	return &domain.AveragePriceResponse{
		CategoryID:      category.ID.String(),
		CategoryName:    category.Name,
		CurrentAvgPrice: currentAvg.Round(2),
		HistoryAvgPrice: historyAvg.Round(2),
		OverallAvgPrice: overall.Round(2),
	}, nil
}

func average(prices []decimal.Decimal) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}
	return decimal.Avg(prices[0], prices[1:]...)
}
