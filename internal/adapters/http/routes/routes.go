package routes

import (
	"simple-invoice/internal/adapters/http/handlers"
	"simple-invoice/internal/adapters/http/middleware"
	"simple-invoice/internal/adapters/persistence/repositories"
	"simple-invoice/internal/config"
	"simple-invoice/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, notifier services.Notifier, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, notifier, cfg)
	userService := services.NewUserService(userRepo)
	clientService := services.NewClientService(clientRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, clientRepo, notifier, cfg)
	reportService := services.NewReportService(invoiceRepo, clientRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler)

	clientRoutes := apiV1.Group("/clients")
	clientRoutes.Use(middleware.AuthMiddleware(cfg))
	setupClientRoutes(clientRoutes, clientHandler)

	invoiceRoutes := apiV1.Group("/invoices")
	invoiceRoutes.Use(middleware.AuthMiddleware(cfg))
	setupInvoiceRoutes(invoiceRoutes, invoiceHandler)

	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	setupReportRoutes(reportRoutes, reportHandler)
}

// setupAuthRoutes configures authentication routes. Credential and
// code endpoints carry stricter per-IP rate limits.
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (5 req/min/IP)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/verify-email", middleware.AuthRateLimiter(), handler.VerifyEmail)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.Refresh)

	// Code issuance (3 req/min/IP)
	router.Post("/resend-code/:email", middleware.StrictRateLimiter(), handler.ResendVerificationCode)
	router.Post("/forgot-password", middleware.StrictRateLimiter(), handler.ForgotPassword)
	router.Post("/reset-password", middleware.StrictRateLimiter(), handler.ResetPassword)

	// Protected routes
	router.Post("/logout", middleware.AuthMiddleware(cfg), handler.Logout)
}

// setupUserRoutes configures account self-service routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/me", handler.Me)
	router.Put("/me", handler.Update)
	router.Patch("/me/password", handler.ChangePassword)
	router.Delete("/me", handler.Delete)
}

// setupClientRoutes configures client directory routes
func setupClientRoutes(router fiber.Router, handler *handlers.ClientHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupInvoiceRoutes configures invoice ledger routes
func setupInvoiceRoutes(router fiber.Router, handler *handlers.InvoiceHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Patch("/:id/status", handler.UpdateStatus)
	router.Delete("/:id", handler.Delete)
	router.Post("/:id/send", handler.Send)
	router.Post("/:id/remind", handler.Remind)
}

// setupReportRoutes configures report routes
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/invoices", handler.Invoices)
	router.Get("/clients/:id", handler.Client)
}
