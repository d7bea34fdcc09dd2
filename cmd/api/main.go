package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/database"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/repository"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/handler"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/routes"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderLineRepo := repository.NewOrderLineRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	txManager := repository.NewTxManager(db)

	// In-memory cart sessions
	sessions := session.NewStore()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	promotionService := service.NewPromotionService(promotionRepo, productRepo)
	cartService := service.NewCartService(sessions, productRepo, promotionRepo, customerRepo, cfg.POS.ScanDebounce)
	checkoutService := service.NewCheckoutService(
		sessions, orderRepo, orderLineRepo, productRepo, customerRepo, shiftRepo, txManager, cfg.POS)
	shiftService := service.NewShiftService(shiftRepo, userRepo, customerRepo, txManager, cfg.POS)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		Promotion: handler.NewPromotionHandler(promotionService),
		Cart:      handler.NewCartHandler(cartService),
		Order:     handler.NewOrderHandler(checkoutService),
		Shift:     handler.NewShiftHandler(shiftService),
	}

	// Setup router and start server
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s (env: %s)", cfg.App.Name, addr, cfg.App.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
