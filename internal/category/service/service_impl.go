package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/internal/config"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"github.com/smallbiznis/pricebook/pkg/db"
	"github.com/smallbiznis/pricebook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	ProductRepo productdomain.Repository
	Catalog     *config.CatalogConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	productRepo productdomain.Repository
	catalog     *config.CatalogConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("category.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		productRepo: p.ProductRepo,
		catalog:     p.Catalog,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	derived := slug.Make(name)
	existing, err := s.repo.FindBySlug(ctx, s.db, derived)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlugConflict
	}

	now := time.Now().UTC()
	c := &domain.Category{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      derived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, c); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugConflict
		}
		return nil, err
	}

	s.log.Info("category created", zap.String("category_id", c.ID.String()), zap.String("slug", c.Slug))
	resp := toResponse(c)
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
		Name:  strings.TrimSpace(req.Name),
		Limit: limit,
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

	items, pageInfo := pagination.BuildPageInfo(items, limit, func(c domain.Category) pagination.Cursor {
		return pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	resp := &domain.ListResponse{PageInfo: pageInfo, Categories: make([]domain.Response, 0, len(items))}
	for i := range items {
		resp.Categories = append(resp.Categories, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetBySlug(ctx context.Context, rawSlug string) (*domain.Response, error) {
	c, err := s.findBySlug(ctx, rawSlug)
	if err != nil {
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}

// Update renames a category. The slug is always recomputed from the new
// name, so a rename changes the category's public identifier; no alias to
// the previous slug is kept.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	c, err := s.findBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	derived := slug.Make(name)
	if derived != c.Slug {
		existing, err := s.repo.FindBySlug(ctx, s.db, derived)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != c.ID {
			return nil, domain.ErrSlugConflict
		}
	}

	c.Name = name
	c.Slug = derived
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, c); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugConflict
		}
		return nil, err
	}

	resp := toResponse(c)
	return &resp, nil
}

// Delete removes the category. Products in the category and their price
// history rows go with it through the store-level cascade.
func (s *Service) Delete(ctx context.Context, rawSlug string) error {
	c, err := s.findBySlug(ctx, rawSlug)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, c.ID); err != nil {
		return err
	}
	s.log.Info("category deleted", zap.String("category_id", c.ID.String()), zap.String("slug", c.Slug))
	return nil
}

func (s *Service) SetMarketPrice(ctx context.Context, req domain.SetMarketPriceRequest) (*domain.SetMarketPriceResponse, error) {
	if req.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	c, err := s.findBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByCategory(ctx, s.db, c.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := 0
	for i := range products {
		p := &products[i]
		p.MarketPrice = req.Price
		p.UpdatedAt = now
		if err := s.productRepo.Update(ctx, s.db, p); err != nil {
			return nil, err
		}
		updated++
	}

	s.log.Info("category market price reset",
		zap.String("category_id", c.ID.String()),
		zap.String("price", req.Price.String()),
		zap.Int("updated", updated),
	)

	return &domain.SetMarketPriceResponse{
		CategoryID:   c.ID.String(),
		CategoryName: c.Name,
		Price:        req.Price,
		Updated:      updated,
	}, nil
}

func (s *Service) findBySlug(ctx context.Context, rawSlug string) (*domain.Category, error) {
	value := strings.TrimSpace(rawSlug)
	if value == "" {
		return nil, domain.ErrNotFound
	}
	c, err := s.repo.FindBySlug(ctx, s.db, value)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func toResponse(c *domain.Category) domain.Response {
	return domain.Response{
		ID:        c.ID.String(),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
