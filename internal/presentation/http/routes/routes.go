package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/config"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/handler"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/middleware"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Promotion *handler.PromotionHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Shift     *handler.ShiftHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-operator rate limiter
		rateLimiter := middleware.NewOperatorRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/profile", h.Auth.GetProfile)

	// Operator administration
	protected.POST("/auth/register", middleware.RequireRole("admin"), h.Auth.Register)

	// Catalog
	registerProductRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Promotions
	registerPromotionRoutes(protected, h)

	// Carts and settlement
	registerCartRoutes(protected, h, deps)

	// Orders
	registerOrderRoutes(protected, h)

	// Shifts
	registerShiftRoutes(protected, h)
}

func registerProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.POST("/:id/units", h.Product.AddUnit)
		products.DELETE("/:id/units/:unitId", h.Product.RemoveUnit)
		products.POST("/:id/stock", h.Product.AdjustStock)
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.POST("/:id/points", h.Customer.AwardPoints)
	}
}

func registerPromotionRoutes(rg *gin.RouterGroup, h *Handlers) {
	promotions := rg.Group("/promotions")
	{
		promotions.GET("", h.Promotion.List)
		promotions.POST("", middleware.RequireRole("admin"), h.Promotion.Create)
		promotions.GET("/:id", h.Promotion.Get)
		promotions.PATCH("/:id/active", middleware.RequireRole("admin"), h.Promotion.SetActive)
		promotions.DELETE("/:id", middleware.RequireRole("admin"), h.Promotion.Delete)
	}
}

func registerCartRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	carts := rg.Group("/carts")
	{
		carts.POST("", h.Cart.Open)
		carts.GET("/:id", h.Cart.Get)
		carts.POST("/:id/scan", h.Cart.Scan)
		carts.POST("/:id/scan/select", h.Cart.SelectCandidate)
		carts.POST("/:id/scan/cancel", h.Cart.CancelScan)
		carts.POST("/:id/lines", h.Cart.AddLine)
		carts.PUT("/:id/lines/:lineId/unit", h.Cart.ChangeUnit)
		carts.PUT("/:id/lines/:lineId/quantity", h.Cart.SetQuantity)
		carts.PUT("/:id/lines/:lineId/discount", h.Cart.ApplyDiscount)
		carts.DELETE("/:id/lines/:lineId", h.Cart.RemoveLine)
		carts.PUT("/:id/customer", h.Cart.SetCustomer)
		carts.POST("/:id/preview", h.Order.Preview)

		// Settlement replays through the idempotency store
		carts.POST("/:id/checkout",
			middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
			h.Order.Checkout)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
	}
}

func registerShiftRoutes(rg *gin.RouterGroup, h *Handlers) {
	shifts := rg.Group("/shifts")
	{
		shifts.GET("", h.Shift.List)
		shifts.POST("", h.Shift.ClockIn)
		shifts.GET("/active", h.Shift.GetActive)
		shifts.GET("/:id", h.Shift.Get)
		shifts.POST("/:id/expenses", h.Shift.RecordExpense)
		shifts.POST("/:id/returns", h.Shift.RecordReturn)
		shifts.POST("/:id/debt-collections", h.Shift.RecordDebtCollection)
		shifts.POST("/:id/reconciliation", h.Shift.BeginReconciliation)
		shifts.DELETE("/:id/reconciliation", h.Shift.CancelReconciliation)
		shifts.POST("/:id/close", h.Shift.ConfirmClose)
	}
}
