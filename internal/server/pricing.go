package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/smallbiznis/pricebook/internal/pricing/domain"
)

const (
	pricingRateLimitPerSec = 5.0
	pricingRateLimitBurst  = 10
)

type calculatePriceRequest struct {
	CategoryID string `json:"category_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (s *Server) CalculateAveragePrice(c *gin.Context) {
	var req calculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "expected YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "expected YYYY-MM-DD"))
		return
	}

	resp, err := s.pricingSvc.AveragePrice(c.Request.Context(), pricingdomain.AveragePriceRequest{
		CategoryID: strings.TrimSpace(req.CategoryID),
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PricingRateLimit throttles the aggregation endpoint per client IP.
// Without a configured Redis backend it is a no-op.
func (s *Server) PricingRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.pricingLimiter == nil {
			c.Next()
			return
		}

		key := "ratelimit:calculate_price:" + c.ClientIP()
		res, err := s.pricingLimiter.Allow(c.Request.Context(), key, pricingRateLimitPerSec, pricingRateLimitBurst)
		if err != nil {
			// Limiter failures never block pricing reads.
			c.Next()
			return
		}
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter/time.Second)))
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}

func isPricingValidationError(err error) bool {
	return err == pricingdomain.ErrInvalidCategory
}
