package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/performile/courier-platform/internal/api/handler"
	"github.com/performile/courier-platform/internal/api/middleware"
	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
	"github.com/performile/courier-platform/internal/core/service"
	mongodb "github.com/performile/courier-platform/internal/infrastructure/db/mongo"
)

// RouterConfig carries everything the router needs beyond its backing clients.
type RouterConfig struct {
	JWTSecret       string
	DevMode         bool
	RateLimit       int
	RateLimitWindow time.Duration
	RankingQueue    ports.RankingQueue
	Logger          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger, cfg.DevMode)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("pricing"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	credRepo := mongodb.NewCredentialRepository(db)
	courierRepo := mongodb.NewCourierRepository(db)
	engine := mongodb.NewRateCardEngine(db)

	identityService := service.NewIdentityService(userRepo, credRepo, cfg.JWTSecret, 24*time.Hour)
	rankingService := service.NewRankingService(cfg.RankingQueue, cfg.Logger)
	pricingService := service.NewPricingService(engine, rankingService, cfg.Logger)
	courierService := service.NewCourierService(courierRepo, cfg.Logger)

	authHandler := handler.NewAuthHandler(identityService)
	pricingHandler := handler.NewPricingHandler(pricingService, identityService)
	courierHandler := handler.NewCourierHandler(courierService, identityService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- Courier routes (checkout-facing: cross-origin, API key or token) ---
	couriers := e.Group("/v1/couriers")
	couriers.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-API-Key"},
	}))
	couriers.Use(limiter.Middleware())
	couriers.POST("/calculate-shipping-price", pricingHandler.CalculateShippingPrice)
	couriers.GET("/merchant-couriers", courierHandler.MerchantCouriers)

	// --- Merchant routes (bearer token required) ---
	merchant := e.Group("/v1/merchant", authMiddleware, middleware.RBAC(domain.RoleMerchant, domain.RoleAdmin))
	merchant.POST("/calculate-price", pricingHandler.CalculatePrice)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
