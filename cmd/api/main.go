package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/config"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/cache"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/database"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/realtime"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/repository"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/handler"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/routes"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/validation"
	"github.com/primekad/laundry-management-system-sub002/pkg/logger"
	"github.com/primekad/laundry-management-system-sub002/pkg/oauth"
	"github.com/primekad/laundry-management-system-sub002/pkg/printer"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheSweepInterval       = time.Minute
	idempotencySweepInterval = time.Hour
	shutdownTimeout          = 10 * time.Second
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.App.Env, cfg.App.Debug)

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Register(v)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.RefreshExpiry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	serviceTypeRepo := repository.NewServiceTypeRepository(db)
	categoryRepo := repository.NewServiceCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	uow := repository.NewUnitOfWork(db)

	// Realtime hub and order view cache
	hub := realtime.NewHub()
	go hub.Run(ctx)

	views := cache.NewViewCache(cfg.Cache.OrderTTL)
	go every(ctx, cacheSweepInterval, func() {
		if n := views.Sweep(); n > 0 {
			log.Debug().Int("evicted", n).Msg("order view cache swept")
		}
	})
	go every(ctx, idempotencySweepInterval, func() {
		n, err := idempotencyRepo.DeleteExpired(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to delete expired idempotency keys")
			return
		}
		log.Debug().Int64("deleted", n).Msg("expired idempotency keys deleted")
	})

	// Initialize Google OAuth
	google := oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Initialize receipt printer
	device, err := printer.Open(printer.Config{
		Kind:    cfg.Printer.Kind,
		Address: cfg.Printer.Address,
		Path:    cfg.Printer.Path,
		Width:   cfg.Printer.Width,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize printer, printing disabled")
		device = nil
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, branchRepo, jwtManager, google)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo, branchRepo)
	branchService := service.NewBranchService(branchRepo, userRepo)
	customerService := service.NewCustomerService(customerRepo)
	catalogService := service.NewCatalogService(serviceTypeRepo, categoryRepo)
	orderService := service.NewOrderService(
		orderRepo,
		paymentRepo,
		customerRepo,
		serviceTypeRepo,
		categoryRepo,
		uow,
		views,
		service.NewOrderEvents(views, hub),
	)
	paymentService := service.NewPaymentService(paymentRepo)
	expenseService := service.NewExpenseService(expenseRepo)
	reportService := service.NewReportService(reportRepo)
	receiptService := service.NewReceiptService(orderRepo, branchRepo, device, cfg.Printer.Width)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth: handler.NewAuthHandler(authService, google, handler.OAuthRedirects{
			SuccessURL: cfg.OAuth.FrontendSuccessURL,
			ErrorURL:   cfg.OAuth.FrontendErrorURL,
		}),
		User:     handler.NewUserHandler(userService),
		Branch:   handler.NewBranchHandler(branchService),
		Customer: handler.NewCustomerHandler(customerService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Order:    handler.NewOrderHandler(orderService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Expense:  handler.NewExpenseHandler(expenseService),
		Report:   handler.NewReportHandler(reportService),
		Receipt:  handler.NewReceiptHandler(receiptService),
		WS:       handler.NewWSHandler(hub, jwtManager, branchService, cfg.Realtime.AllowedOrigins),
	}

	// Setup routes
	router := routes.Setup(ctx, handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Branches:        branchService,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("app", cfg.App.Name).Str("port", port).Str("env", cfg.App.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shut down")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// every runs fn on each tick until ctx is done
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
