package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	categoryrepository "github.com/smallbiznis/pricebook/internal/category/repository"
	"github.com/smallbiznis/pricebook/internal/config"
	pricehistorydomain "github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	"github.com/smallbiznis/pricebook/internal/pricehistory/recorder"
	"github.com/smallbiznis/pricebook/internal/product/domain"
	productrepository "github.com/smallbiznis/pricebook/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc     domain.Service
	conn    *gorm.DB
	node    *snowflake.Node
	catalog *config.CatalogConfigHolder
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&categorydomain.Category{},
		&domain.Product{},
		&pricehistorydomain.PriceHistory{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	require.NoError(t, recorder.Register(recorder.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
	}))

	catalog := &config.CatalogConfigHolder{}
	svc := New(Params{
		DB:           conn,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         productrepository.Provide(),
		CategoryRepo: categoryrepository.Provide(),
		Catalog:      catalog,
	})
	return &fixture{svc: svc, conn: conn, node: node, catalog: catalog}
}

func (f *fixture) seedCategory(t *testing.T, name string) *categorydomain.Category {
	t.Helper()

	now := time.Now().UTC()
	c := &categorydomain.Category{
		ID:        f.node.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.conn.Create(c).Error)
	return c
}

func (f *fixture) historyCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.conn.Model(&pricehistorydomain.PriceHistory{}).Count(&count).Error)
	return count
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func date(t *testing.T, value string) *time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &parsed
}

func TestCreateDefaultsCurrentPriceToMarketPrice(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")

	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)
	assert.True(t, resp.CurrentPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.MarketPrice.Equal(decimal.NewFromInt(100)))
}

func TestCreateHonorsExplicitCurrentPrice(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")

	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Title:        "Handset",
		SKU:          "SKU-1",
		CategoryID:   c.ID.String(),
		MarketPrice:  dec(100),
		CurrentPrice: dec(80),
		StartDate:    date(t, "2026-01-01"),
		EndDate:      date(t, "2026-01-31"),
	})
	require.NoError(t, err)
	assert.True(t, resp.CurrentPrice.Equal(decimal.NewFromInt(80)))
	require.NotNil(t, resp.StartDate)
	assert.Equal(t, "2026-01-01", *resp.StartDate)
}

func TestCreateWritesNoHistory(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)
	assert.Zero(t, f.historyCount(t), "creation is not a pricing event")
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{
			name: "missing title",
			req:  domain.CreateRequest{SKU: "S", CategoryID: c.ID.String(), MarketPrice: dec(1)},
			want: domain.ErrInvalidTitle,
		},
		{
			name: "missing sku",
			req:  domain.CreateRequest{Title: "T", CategoryID: c.ID.String(), MarketPrice: dec(1)},
			want: domain.ErrInvalidSKU,
		},
		{
			name: "missing market price",
			req:  domain.CreateRequest{Title: "T", SKU: "S", CategoryID: c.ID.String()},
			want: domain.ErrInvalidPrice,
		},
		{
			name: "malformed category id",
			req:  domain.CreateRequest{Title: "T", SKU: "S", CategoryID: "abc", MarketPrice: dec(1)},
			want: domain.ErrInvalidCategory,
		},
		{
			name: "unknown category",
			req:  domain.CreateRequest{Title: "T", SKU: "S", CategoryID: f.node.Generate().String(), MarketPrice: dec(1)},
			want: domain.ErrInvalidCategory,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestChangePriceAppendsHistory(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)

	resp, err := f.svc.ChangePrice(ctx, domain.ChangePriceRequest{
		ID:           created.ID,
		CurrentPrice: dec(70),
		StartDate:    date(t, "2026-02-01"),
		EndDate:      date(t, "2026-02-28"),
	})
	require.NoError(t, err)
	assert.True(t, resp.CurrentPrice.Equal(decimal.NewFromInt(70)))

	var histories []pricehistorydomain.PriceHistory
	require.NoError(t, f.conn.Order("created_at asc").Find(&histories).Error)
	require.Len(t, histories, 1)
	assert.True(t, histories[0].Price.Equal(decimal.NewFromInt(70)))
	require.NotNil(t, histories[0].StartDate)
	assert.Equal(t, "2026-02-01", histories[0].StartDate.Format("2006-01-02"))
	require.NotNil(t, histories[0].EndDate)
	assert.Equal(t, "2026-02-28", histories[0].EndDate.Format("2006-01-02"))
}

func TestChangePriceTwiceAppendsTwice(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)

	req := domain.ChangePriceRequest{
		ID:           created.ID,
		CurrentPrice: dec(70),
		StartDate:    date(t, "2026-02-01"),
		EndDate:      date(t, "2026-02-28"),
	}
	_, err = f.svc.ChangePrice(ctx, req)
	require.NoError(t, err)
	_, err = f.svc.ChangePrice(ctx, req)
	require.NoError(t, err)

	// Identical arguments still append: every call is a pricing event.
	assert.EqualValues(t, 2, f.historyCount(t))
}

func TestChangePriceRequiresCurrentPrice(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)

	_, err = f.svc.ChangePrice(ctx, domain.ChangePriceRequest{ID: created.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestChangePriceClearsWindowWhenOmitted(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
		StartDate:   date(t, "2026-01-01"),
		EndDate:     date(t, "2026-01-31"),
	})
	require.NoError(t, err)

	resp, err := f.svc.ChangePrice(ctx, domain.ChangePriceRequest{
		ID:           created.ID,
		CurrentPrice: dec(50),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.StartDate)
	assert.Nil(t, resp.EndDate)
}

func TestInvertedWindowAcceptedByDefault(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)

	_, err = f.svc.ChangePrice(ctx, domain.ChangePriceRequest{
		ID:           created.ID,
		CurrentPrice: dec(70),
		StartDate:    date(t, "2026-03-01"),
		EndDate:      date(t, "2026-02-01"),
	})
	assert.NoError(t, err)
}

func TestInvertedWindowRejectedWhenEnforced(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)

	f.catalog.Store(config.CatalogConfig{EnforceWindowOrder: true})

	_, err = f.svc.ChangePrice(ctx, domain.ChangePriceRequest{
		ID:           created.ID,
		CurrentPrice: dec(70),
		StartDate:    date(t, "2026-03-01"),
		EndDate:      date(t, "2026-02-01"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestGenericUpdateAlsoRecordsHistory(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)

	newTitle := "Handset Pro"
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Title: &newTitle})
	require.NoError(t, err)

	// A title edit is still an update, so the hook snapshots the
	// unchanged sale price.
	var h pricehistorydomain.PriceHistory
	require.NoError(t, f.conn.First(&h).Error)
	assert.True(t, h.Price.Equal(decimal.NewFromInt(100)))
}

func TestGetAndDelete(t *testing.T) {
	f := setup(t)
	c := f.seedCategory(t, "Phone")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		Title:       "Handset",
		SKU:         "SKU-1",
		CategoryID:  c.ID.String(),
		MarketPrice: dec(100),
	})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Get(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
