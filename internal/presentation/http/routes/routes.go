package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/config"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/database"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/handler"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/middleware"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Branch   *handler.BranchHandler
	Customer *handler.CustomerHandler
	Catalog  *handler.CatalogHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Expense  *handler.ExpenseHandler
	Report   *handler.ReportHandler
	Receipt  *handler.ReceiptHandler
	WS       *handler.WSHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Branches        middleware.BranchResolver
}

// Setup creates the Gin router and registers all routes. ctx bounds the
// background work the middleware starts.
func Setup(ctx context.Context, h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	rateLimiter := middleware.NewBranchRateLimiter(ctx, middleware.RateLimiterConfig{
		Requests:        deps.Cfg.RateLimit.Requests,
		Window:          time.Duration(deps.Cfg.RateLimit.Duration) * time.Second,
		CleanupInterval: 5 * time.Minute,
		EntryTTL:        10 * time.Minute,
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"service":      deps.Cfg.App.Name,
			"rate_limiter": rateLimiter.Stats(),
		})
	})

	// Websocket authenticates with the token query parameter
	router.GET("/ws", h.WS.Connect)

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerAccountRoutes(protected, h)
		registerAdminRoutes(protected, h)
		registerCatalogRoutes(protected, h)

		// Branch-owned data: resolve the branch, then throttle per branch
		scoped := protected.Group("")
		scoped.Use(middleware.BranchMiddleware(deps.Branches))
		scoped.Use(rateLimiter.Middleware())
		scoped.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))

		registerOrderRoutes(scoped, h, deps)
		registerCustomerRoutes(scoped, h)
		registerPaymentRoutes(scoped, h)
		registerExpenseRoutes(scoped, h)
		registerReportRoutes(scoped, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleRedirect)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerAccountRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/branches/mine", h.Branch.Mine)
	protected.POST("/branches/:id/switch", h.Branch.Switch)

	protected.GET("/printer/status", h.Receipt.PrinterStatus)
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(database.PermManageUsers))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}

	protected.GET("/roles", middleware.RequirePermission(database.PermManageUsers), h.User.ListRoles)
	protected.GET("/permissions", middleware.RequirePermission(database.PermManageUsers), h.User.ListPermissions)

	branches := protected.Group("/branches")
	branches.Use(middleware.RequirePermission(database.PermManageBranches))
	{
		branches.GET("", h.Branch.List)
		branches.POST("", h.Branch.Create)
		branches.GET("/:id", h.Branch.Get)
		branches.PUT("/:id", h.Branch.Update)
		branches.DELETE("/:id", h.Branch.Delete)
		branches.GET("/:id/members", h.Branch.Members)
		branches.POST("/:id/members", h.Branch.AddMember)
		branches.DELETE("/:id/members/:user_id", h.Branch.RemoveMember)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	manage := middleware.RequirePermission(database.PermManageServices)

	serviceTypes := protected.Group("/service-types")
	{
		serviceTypes.GET("", h.Catalog.ListServiceTypes)
		serviceTypes.GET("/:id", h.Catalog.GetServiceType)
		serviceTypes.POST("", manage, h.Catalog.CreateServiceType)
		serviceTypes.PUT("/:id", manage, h.Catalog.UpdateServiceType)
		serviceTypes.DELETE("/:id", manage, h.Catalog.DeleteServiceType)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Catalog.ListCategories)
		categories.GET("/:id", h.Catalog.GetCategory)
		categories.POST("", manage, h.Catalog.CreateCategory)
		categories.PUT("/:id", manage, h.Catalog.UpdateCategory)
		categories.DELETE("/:id", manage, h.Catalog.DeleteCategory)
	}
}

func registerOrderRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := scoped.Group("/orders")
	orders.Use(middleware.RequirePermission(database.PermManageOrders))
	{
		orders.GET("", h.Order.List)
		orders.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:     deps.IdempotencyRepo,
			Required: true,
		}), h.Order.Create)
		orders.GET("/due", h.Order.Due)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id", h.Order.Update)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.DELETE("/:id", middleware.RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), h.Order.Delete)
		orders.GET("/:id/payments", h.Order.Payments)
		orders.GET("/:id/receipt", h.Receipt.Get)
		orders.POST("/:id/receipt/print", h.Receipt.Print)
	}
}

func registerCustomerRoutes(scoped *gin.RouterGroup, h *Handlers) {
	customers := scoped.Group("/customers")
	customers.Use(middleware.RequirePermission(database.PermManageCustomers, database.PermManageOrders))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerPaymentRoutes(scoped *gin.RouterGroup, h *Handlers) {
	scoped.GET("/payments", middleware.RequirePermission(database.PermManageOrders, database.PermViewReports), h.Payment.List)
}

func registerExpenseRoutes(scoped *gin.RouterGroup, h *Handlers) {
	expenses := scoped.Group("/expenses")
	expenses.Use(middleware.RequirePermission(database.PermManageExpenses))
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", h.Expense.Create)
		expenses.GET("/:id", h.Expense.Get)
		expenses.PUT("/:id", h.Expense.Update)
		expenses.DELETE("/:id", h.Expense.Delete)
	}
}

func registerReportRoutes(scoped *gin.RouterGroup, h *Handlers) {
	scoped.GET("/dashboard", middleware.RequirePermission(database.PermViewDashboard), h.Report.Dashboard)

	reports := scoped.Group("/reports")
	reports.Use(middleware.RequirePermission(database.PermViewReports))
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/daily-sales", h.Report.DailySales)
		reports.GET("/top-services", h.Report.TopServices)
		reports.GET("/payment-methods", h.Report.PaymentMethods)
	}
}
