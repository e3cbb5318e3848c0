package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	"github.com/smallbiznis/pricebook/internal/pricehistory/repository"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	productrepository "github.com/smallbiznis/pricebook/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func setup(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&categorydomain.Category{},
		&productdomain.Product{},
		&domain.PriceHistory{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Repo:        repository.Provide(),
		ProductRepo: productrepository.Provide(),
	})
	return svc, conn, node
}

func seedProduct(t *testing.T, conn *gorm.DB, node *snowflake.Node) *productdomain.Product {
	t.Helper()

	now := time.Now().UTC()
	c := &categorydomain.Category{
		ID:        node.Generate(),
		Name:      "Phone",
		Slug:      "phone",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, conn.Create(c).Error)

	p := &productdomain.Product{
		ID:           node.Generate(),
		Title:        "Handset",
		SKU:          "SKU-1",
		CategoryID:   c.ID,
		MarketPrice:  decimal.NewFromInt(100),
		CurrentPrice: decimal.NewFromInt(100),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, conn.Omit(clause.Associations).Create(p).Error)
	return p
}

func TestListByProductInsertionOrder(t *testing.T) {
	svc, conn, node := setup(t)
	p := seedProduct(t, conn, node)

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	base := time.Now().UTC()
	for i, price := range []int64{70, 60, 80} {
		h := &domain.PriceHistory{
			ID:        node.Generate(),
			ProductID: p.ID,
			StartDate: &start,
			Price:     decimal.NewFromInt(price),
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		require.NoError(t, conn.Omit(clause.Associations).Create(h).Error)
	}

	resp, err := svc.ListByProduct(context.Background(), p.ID.String())
	require.NoError(t, err)
	require.Len(t, resp.Records, 3)

	assert.Equal(t, "70", resp.Records[0].Price.String())
	assert.Equal(t, "60", resp.Records[1].Price.String())
	assert.Equal(t, "80", resp.Records[2].Price.String())
	require.NotNil(t, resp.Records[0].StartDate)
	assert.Equal(t, "2026-02-01", *resp.Records[0].StartDate)
	assert.Nil(t, resp.Records[0].EndDate)
}

func TestListByProductEmpty(t *testing.T) {
	svc, conn, node := setup(t)
	p := seedProduct(t, conn, node)

	resp, err := svc.ListByProduct(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.Empty(t, resp.Records)
}

func TestListByProductUnknown(t *testing.T) {
	svc, _, node := setup(t)

	_, err := svc.ListByProduct(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByProductMalformedID(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.ListByProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
