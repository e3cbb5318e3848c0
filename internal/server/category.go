package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/pkg/db/pagination"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.categorySvc.Create(c.Request.Context(), categorydomain.CreateRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCategories(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name string `form:"name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.categorySvc.List(c.Request.Context(), categorydomain.ListRequest{
		Pagination: query.Pagination,
		Name:       strings.TrimSpace(query.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCategoryBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	resp, err := s.categorySvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.categorySvc.Update(c.Request.Context(), categorydomain.UpdateRequest{
		Slug: strings.TrimSpace(c.Param("slug")),
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if err := s.categorySvc.Delete(c.Request.Context(), slug); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type changeCategoryPriceRequest struct {
	Price *decimal.Decimal `json:"price"`
}

// ChangeCategoryPrice resets market_price on every product in the category.
func (s *Server) ChangeCategoryPrice(c *gin.Context) {
	var req changeCategoryPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Price == nil {
		AbortWithError(c, newValidationError("price", "invalid_price", "price is required"))
		return
	}

	resp, err := s.categorySvc.SetMarketPrice(c.Request.Context(), categorydomain.SetMarketPriceRequest{
		Slug:  strings.TrimSpace(c.Param("slug")),
		Price: *req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCategoryValidationError(err error) bool {
	switch err {
	case categorydomain.ErrInvalidName,
		categorydomain.ErrInvalidPrice,
		categorydomain.ErrInvalidPageToken:
		return true
	default:
		return false
	}
}
