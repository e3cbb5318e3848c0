package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/internal/config"
	"github.com/smallbiznis/pricebook/internal/product/domain"
	"github.com/smallbiznis/pricebook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	CategoryRepo categorydomain.Repository
	Catalog      *config.CatalogConfigHolder
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	categoryRepo categorydomain.Repository
	catalog      *config.CatalogConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("product.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		categoryRepo: p.CategoryRepo,
		catalog:      p.Catalog,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, domain.ErrInvalidSKU
	}
	if req.MarketPrice == nil {
		return nil, domain.ErrInvalidPrice
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}
	category, err := s.categoryRepo.FindByID(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrInvalidCategory
	}

	description := strings.TrimSpace(ptrToString(req.Description))
	var descriptionPtr *string
	if description != "" {
		descriptionPtr = &description
	}

	// An unset current price falls back to the market price at creation.
	currentPrice := *req.MarketPrice
	if req.CurrentPrice != nil {
		currentPrice = *req.CurrentPrice
	}

	if err := s.checkWindow(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:           s.genID.Generate(),
		Title:        title,
		SKU:          sku,
		Description:  descriptionPtr,
		CategoryID:   categoryID,
		MarketPrice:  *req.MarketPrice,
		CurrentPrice: currentPrice,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("sku", p.SKU),
		zap.String("category_id", p.CategoryID.String()),
	)
	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	limit := req.PageSize
	if limit <= 0 {
		limit = 10
	}
	if max := s.catalog.Current().MaxPageSize; limit > max {
		limit = max
	}

	filter := domain.ListFilter{
		SKU:   strings.TrimSpace(req.SKU),
		Limit: limit,
	}
	if raw := strings.TrimSpace(req.CategoryID); raw != "" {
		categoryID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidCategory
		}
		filter.CategoryID = categoryID
	}
	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		filter.Cursor = cursor
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	items, pageInfo := pagination.BuildPageInfo(items, limit, func(p domain.Product) pagination.Cursor {
		return pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	resp := &domain.ListResponse{PageInfo: pageInfo, Products: make([]domain.Response, 0, len(items))}
	for i := range items {
		resp.Products = append(resp.Products, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	p, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	p, err := s.findByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		p.Title = title
	}
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if sku == "" {
			return nil, domain.ErrInvalidSKU
		}
		p.SKU = sku
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			p.Description = nil
		} else {
			p.Description = &description
		}
	}
	if req.MarketPrice != nil {
		p.MarketPrice = *req.MarketPrice
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, p); err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, p.ID); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("product_id", p.ID.String()))
	return nil
}

func (s *Service) ChangePrice(ctx context.Context, req domain.ChangePriceRequest) (*domain.Response, error) {
	p, err := s.findByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.CurrentPrice == nil {
		return nil, domain.ErrInvalidPrice
	}
	if err := s.checkWindow(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	p.CurrentPrice = *req.CurrentPrice
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.log.Info("product price changed",
		zap.String("product_id", p.ID.String()),
		zap.String("current_price", p.CurrentPrice.String()),
	)
	resp := toResponse(p)
	return &resp, nil
}

// checkWindow rejects start_date > end_date only when the catalog config
// turns the check on. The historical behavior accepts inverted windows.
func (s *Service) checkWindow(start, end *time.Time) error {
	if !s.catalog.Current().EnforceWindowOrder {
		return nil
	}
	if start != nil && end != nil && start.After(*end) {
		return domain.ErrInvalidWindow
	}
	return nil
}

func (s *Service) findByID(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	p, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:           p.ID.String(),
		Title:        p.Title,
		SKU:          p.SKU,
		Description:  p.Description,
		CategoryID:   p.CategoryID.String(),
		MarketPrice:  p.MarketPrice,
		CurrentPrice: p.CurrentPrice,
		StartDate:    formatDate(p.StartDate),
		EndDate:      formatDate(p.EndDate),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
