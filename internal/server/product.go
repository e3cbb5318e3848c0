package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	pricehistorydomain "github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"github.com/smallbiznis/pricebook/pkg/db/pagination"
)

const dateLayout = "2006-01-02"

type createProductRequest struct {
	Title        string           `json:"title"`
	SKU          string           `json:"sku"`
	Description  *string          `json:"description"`
	CategoryID   string           `json:"category_id"`
	MarketPrice  *decimal.Decimal `json:"market_price"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
	Metadata     map[string]any   `json:"metadata"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "expected YYYY-MM-DD"))
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "expected YYYY-MM-DD"))
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Title:        strings.TrimSpace(req.Title),
		SKU:          strings.TrimSpace(req.SKU),
		Description:  req.Description,
		CategoryID:   strings.TrimSpace(req.CategoryID),
		MarketPrice:  req.MarketPrice,
		CurrentPrice: req.CurrentPrice,
		StartDate:    startDate,
		EndDate:      endDate,
		Metadata:     req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CategoryID string `form:"category_id"`
		SKU        string `form:"sku"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Pagination: query.Pagination,
		CategoryID: strings.TrimSpace(query.CategoryID),
		SKU:        strings.TrimSpace(query.SKU),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateProductRequest struct {
	Title       *string          `json:"title"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	MarketPrice *decimal.Decimal `json:"market_price"`
	Metadata    map[string]any   `json:"metadata"`
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Title:       req.Title,
		SKU:         req.SKU,
		Description: req.Description,
		MarketPrice: req.MarketPrice,
		Metadata:    req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.productSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type addProductPriceRequest struct {
	CurrentPrice *decimal.Decimal `json:"current_price"`
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
}

// AddProductPrice opens a new sale-price window on the product. The
// persistence layer records the resulting row in the price history.
func (s *Server) AddProductPrice(c *gin.Context) {
	var req addProductPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "expected YYYY-MM-DD"))
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "expected YYYY-MM-DD"))
		return
	}

	resp, err := s.productSvc.ChangePrice(c.Request.Context(), productdomain.ChangePriceRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		CurrentPrice: req.CurrentPrice,
		StartDate:    startDate,
		EndDate:      endDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProductPriceHistory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.priceHistorySvc.ListByProduct(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func isProductValidationError(err error) bool {
	switch err {
	case productdomain.ErrInvalidID,
		productdomain.ErrInvalidTitle,
		productdomain.ErrInvalidSKU,
		productdomain.ErrInvalidCategory,
		productdomain.ErrInvalidPrice,
		productdomain.ErrInvalidWindow,
		productdomain.ErrInvalidPageToken:
		return true
	default:
		return false
	}
}

func isPriceHistoryValidationError(err error) bool {
	return err == pricehistorydomain.ErrInvalidID
}
