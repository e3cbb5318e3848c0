package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
)

type fakeCategoryService struct {
	createErr    error
	created      *categorydomain.Response
	priceCalls   int
	lastPriceReq categorydomain.SetMarketPriceRequest
	priceResp    *categorydomain.SetMarketPriceResponse
	priceErr     error
}

func (f *fakeCategoryService) Create(ctx context.Context, req categorydomain.CreateRequest) (*categorydomain.Response, error) {
	_ = ctx
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeCategoryService) List(ctx context.Context, req categorydomain.ListRequest) (*categorydomain.ListResponse, error) {
	_ = ctx
	_ = req
	return &categorydomain.ListResponse{}, nil
}

func (f *fakeCategoryService) GetBySlug(ctx context.Context, slug string) (*categorydomain.Response, error) {
	_ = ctx
	_ = slug
	return f.created, nil
}

func (f *fakeCategoryService) Update(ctx context.Context, req categorydomain.UpdateRequest) (*categorydomain.Response, error) {
	_ = ctx
	_ = req
	return f.created, nil
}

func (f *fakeCategoryService) Delete(ctx context.Context, slug string) error {
	_ = ctx
	_ = slug
	return nil
}

func (f *fakeCategoryService) SetMarketPrice(ctx context.Context, req categorydomain.SetMarketPriceRequest) (*categorydomain.SetMarketPriceResponse, error) {
	f.priceCalls++
	f.lastPriceReq = req
	_ = ctx
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return f.priceResp, nil
}

func newCategoryTestRouter(svc categorydomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{categorySvc: svc}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/category/", srv.CreateCategory)
	router.POST("/category/:slug/change_price/", srv.ChangeCategoryPrice)
	return router
}

func TestCreateCategoryHandler(t *testing.T) {
	svc := &fakeCategoryService{
		created: &categorydomain.Response{ID: "1", Name: "Phone", Slug: "phone"},
	}
	router := newCategoryTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/category/", bytes.NewBufferString(`{"name":"Phone"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateCategoryHandlerMapsValidation(t *testing.T) {
	svc := &fakeCategoryService{createErr: categorydomain.ErrInvalidName}
	router := newCategoryTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/category/", bytes.NewBufferString(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCreateCategoryHandlerMapsConflict(t *testing.T) {
	svc := &fakeCategoryService{createErr: categorydomain.ErrSlugConflict}
	router := newCategoryTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/category/", bytes.NewBufferString(`{"name":"Phone"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestChangeCategoryPriceHandler(t *testing.T) {
	svc := &fakeCategoryService{
		priceResp: &categorydomain.SetMarketPriceResponse{
			CategoryID:   "1",
			CategoryName: "Phone",
			Price:        decimal.RequireFromString("500"),
			Updated:      3,
		},
	}
	router := newCategoryTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/category/phone/change_price/", bytes.NewBufferString(`{"price":500}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.priceCalls != 1 {
		t.Fatalf("expected one service call, got %d", svc.priceCalls)
	}
	if svc.lastPriceReq.Slug != "phone" {
		t.Fatalf("unexpected slug %q", svc.lastPriceReq.Slug)
	}
	if !svc.lastPriceReq.Price.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("unexpected price %s", svc.lastPriceReq.Price)
	}
}

func TestChangeCategoryPriceRequiresPrice(t *testing.T) {
	svc := &fakeCategoryService{}
	router := newCategoryTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/category/phone/change_price/", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.priceCalls != 0 {
		t.Fatal("expected service not to be called")
	}
}

func TestChangeCategoryPriceUnknownSlug(t *testing.T) {
	svc := &fakeCategoryService{priceErr: categorydomain.ErrNotFound}
	router := newCategoryTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/category/missing/change_price/", bytes.NewBufferString(`{"price":500}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
