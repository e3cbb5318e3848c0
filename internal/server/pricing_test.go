package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	pricingdomain "github.com/smallbiznis/pricebook/internal/pricing/domain"
)

type fakePricingService struct {
	lastReq  pricingdomain.AveragePriceRequest
	response *pricingdomain.AveragePriceResponse
	err      error
	calls    int
}

func (f *fakePricingService) AveragePrice(ctx context.Context, req pricingdomain.AveragePriceRequest) (*pricingdomain.AveragePriceResponse, error) {
	f.calls++
	f.lastReq = req
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func newPricingTestRouter(svc pricingdomain.Service) (*gin.Engine, *Server) {
	gin.SetMode(gin.TestMode)

	srv := &Server{pricingSvc: svc}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/calculate_price/", srv.PricingRateLimit(), srv.CalculateAveragePrice)
	return router, srv
}

func TestCalculateAveragePriceHandler(t *testing.T) {
	svc := &fakePricingService{
		response: &pricingdomain.AveragePriceResponse{
			CategoryID:      "42",
			CategoryName:    "Phone",
			CurrentAvgPrice: decimal.RequireFromString("750"),
			HistoryAvgPrice: decimal.RequireFromString("700"),
			OverallAvgPrice: decimal.RequireFromString("725"),
		},
	}
	router, _ := newPricingTestRouter(svc)

	body := `{"category_id":"42","start_date":"2026-01-01","end_date":"2026-01-31"}`
	req := httptest.NewRequest(http.MethodPost, "/calculate_price/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected one service call, got %d", svc.calls)
	}
	if svc.lastReq.CategoryID != "42" {
		t.Fatalf("unexpected category id %q", svc.lastReq.CategoryID)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !svc.lastReq.StartDate.Equal(want) {
		t.Fatalf("unexpected start date %v", svc.lastReq.StartDate)
	}

	var payload struct {
		Data struct {
			OverallAvgPrice string `json:"overall_avg_price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.OverallAvgPrice != "725" {
		t.Fatalf("expected overall average 725, got %q", payload.Data.OverallAvgPrice)
	}
}

func TestCalculateAveragePriceRejectsBadDate(t *testing.T) {
	svc := &fakePricingService{}
	router, _ := newPricingTestRouter(svc)

	body := `{"category_id":"42","start_date":"01/01/2026","end_date":"2026-01-31"}`
	req := httptest.NewRequest(http.MethodPost, "/calculate_price/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.calls != 0 {
		t.Fatal("expected service not to be called")
	}
}

func TestCalculateAveragePriceUnknownCategory(t *testing.T) {
	svc := &fakePricingService{err: pricingdomain.ErrNotFound}
	router, _ := newPricingTestRouter(svc)

	body := `{"category_id":"42","start_date":"2026-01-01","end_date":"2026-01-31"}`
	req := httptest.NewRequest(http.MethodPost, "/calculate_price/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestCalculateAveragePriceMalformedCategory(t *testing.T) {
	svc := &fakePricingService{err: pricingdomain.ErrInvalidCategory}
	router, _ := newPricingTestRouter(svc)

	body := `{"category_id":"nope","start_date":"2026-01-01","end_date":"2026-01-31"}`
	req := httptest.NewRequest(http.MethodPost, "/calculate_price/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
