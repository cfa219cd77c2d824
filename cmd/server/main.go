package main

import (
	"log"
	"time"

	"asha_connect_go/config"
	"asha_connect_go/db"
	"asha_connect_go/handlers"
	"asha_connect_go/middleware"
	"asha_connect_go/models"
	"asha_connect_go/realtime"
	"asha_connect_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Contact{},
		&models.HelpRequest{},
		&models.Applicant{},
		&models.Donation{},
		&models.AdminUser{},
		&models.AdminSession{},
		&models.ContentEntry{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed bootstrap data
	if err := services.SeedAdminUser(db.DB, cfg); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := services.SeedDefaultContent(db.DB); err != nil {
		log.Fatalf("Failed to seed content: %v", err)
	}

	// Initialize file storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Realtime push hub
	handlers.PushHub = realtime.NewHub(cfg.AllowedOrigins)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files (local uploads)
	e.Static("/static", "static")

	// Realtime push channel
	e.GET("/ws", handlers.WebSocketHandler)

	api := e.Group("/api")

	// Public form routes (rate limited)
	forms := api.Group("", middleware.PublicFormRateLimiter.Middleware())
	forms.POST("/forms/contact", handlers.SubmitContactHandler)
	forms.POST("/forms/help", handlers.SubmitHelpRequestHandler)
	forms.POST("/forms/donate", handlers.SubmitDonationHandler)
	forms.POST("/join", handlers.SubmitApplicationHandler)

	// Public content routes
	api.GET("/content/:page", handlers.GetPageContentHandler)

	// Admin login (rate limited)
	api.POST("/admin/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Protected routes
	protected := api.Group("", middleware.RequireAuth())
	{
		protected.PUT("/content/update/:page/:section/:key", handlers.UpdateContentHandler)
		protected.POST("/content/upload", handlers.UploadContentImageHandler)

		protected.POST("/admin/logout", handlers.LogoutHandler)
		protected.GET("/admin/dashboard", handlers.DashboardHandler)
		protected.GET("/admin/export", handlers.ExportHandler)
		protected.GET("/admin/donations/:id/receipt", handlers.DonationReceiptHandler)
		protected.PATCH("/admin/:type/:id/status", handlers.UpdateStatusHandler)
		protected.DELETE("/admin/:type/:id", handlers.DeleteSubmissionHandler)

		protected.GET("/admin/admins", handlers.ListAdminsHandler)

		// Superadmin-only admin management
		superadmin := protected.Group("", middleware.RequireRole(models.RoleSuperAdmin))
		superadmin.POST("/admin/admins", handlers.CreateAdminHandler)
		superadmin.DELETE("/admin/admins/:id", handlers.DeleteAdminHandler)
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
