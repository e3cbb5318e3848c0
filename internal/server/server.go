package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/pricebook/internal/category"
	categorydomain "github.com/smallbiznis/pricebook/internal/category/domain"
	"github.com/smallbiznis/pricebook/internal/config"
	"github.com/smallbiznis/pricebook/internal/observability"
	obsmiddleware "github.com/smallbiznis/pricebook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/pricebook/internal/observability/metrics"
	obstracing "github.com/smallbiznis/pricebook/internal/observability/tracing"
	"github.com/smallbiznis/pricebook/internal/pricehistory"
	pricehistorydomain "github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	"github.com/smallbiznis/pricebook/internal/pricing"
	pricingdomain "github.com/smallbiznis/pricebook/internal/pricing/domain"
	"github.com/smallbiznis/pricebook/internal/product"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"github.com/smallbiznis/pricebook/internal/ratelimit"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	category.Module,
	product.Module,
	pricehistory.Module,
	pricing.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	categorySvc     categorydomain.Service
	productSvc      productdomain.Service
	priceHistorySvc pricehistorydomain.Service
	pricingSvc      pricingdomain.Service
	pricingLimiter  *ratelimit.TokenBucket
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	CategorySvc     categorydomain.Service
	ProductSvc      productdomain.Service
	PriceHistorySvc pricehistorydomain.Service
	PricingSvc      pricingdomain.Service
	PricingLimiter  *ratelimit.TokenBucket `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		categorySvc:     p.CategorySvc,
		productSvc:      p.ProductSvc,
		priceHistorySvc: p.PriceHistorySvc,
		pricingSvc:      p.PricingSvc,
		pricingLimiter:  p.PricingLimiter,
	}

	svc.registerCatalogRoutes()
	svc.registerPricingRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerCatalogRoutes() {
	category := s.engine.Group("/category")
	{
		category.GET("/", s.ListCategories)
		category.POST("/", s.CreateCategory)
		category.GET("/:slug/", s.GetCategoryBySlug)
		category.PUT("/:slug/", s.UpdateCategory)
		category.PATCH("/:slug/", s.UpdateCategory)
		category.DELETE("/:slug/", s.DeleteCategory)
		category.POST("/:slug/change_price/", s.ChangeCategoryPrice)
	}

	product := s.engine.Group("/product")
	{
		product.GET("/", s.ListProducts)
		product.POST("/", s.CreateProduct)
		product.GET("/:id/", s.GetProductByID)
		product.PUT("/:id/", s.UpdateProduct)
		product.PATCH("/:id/", s.UpdateProduct)
		product.DELETE("/:id/", s.DeleteProduct)
		product.POST("/:id/add_price/", s.AddProductPrice)
		product.GET("/:id/history/", s.ListProductPriceHistory)
	}
}

func (s *Server) registerPricingRoutes() {
	s.engine.POST("/calculate_price/", s.PricingRateLimit(), s.CalculateAveragePrice)
}
