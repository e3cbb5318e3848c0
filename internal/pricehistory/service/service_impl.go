package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        domain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	productRepo productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("pricehistory.service"),
		repo:        p.Repo,
		productRepo: p.ProductRepo,
	}
}

func (s *Service) ListByProduct(ctx context.Context, productID string) (*domain.ListResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(productID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	product, err := s.productRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.ListByProduct(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	resp := &domain.ListResponse{
		ProductID: id.String(),
		Records:   make([]domain.Response, 0, len(items)),
	}
	for i := range items {
		resp.Records = append(resp.Records, toResponse(&items[i]))
	}
	return resp, nil
}

func toResponse(h *domain.PriceHistory) domain.Response {
	return domain.Response{
		ID:        h.ID.String(),
		ProductID: h.ProductID.String(),
		StartDate: formatDate(h.StartDate),
		EndDate:   formatDate(h.EndDate),
		Price:     h.Price,
		CreatedAt: h.CreatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}
