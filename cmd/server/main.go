package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"simple-invoice/internal/adapters/http/middleware"
	"simple-invoice/internal/adapters/http/routes"
	"simple-invoice/internal/adapters/notification"
	"simple-invoice/internal/adapters/persistence/models"
	"simple-invoice/internal/adapters/persistence/repositories"
	"simple-invoice/internal/config"
	"simple-invoice/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title Simple Invoice API
// @version 1.0
// @description Multi-tenant invoicing API: accounts, clients, invoices and reports.

// @contact.name API Support
// @contact.email support@simpleinvoice.app

// @license.name MIT

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Outbound mail
	mailer := notification.NewMailer(cfg.SMTP)

	// Daily payment reminder job (08:30)
	reminderService := services.NewReminderService(repositories.NewInvoiceRepository(db), mailer)
	reminderService.Start()
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Simple Invoice API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, mailer and cfg for dependency injection)
	routes.Setup(app, db, mailer, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
