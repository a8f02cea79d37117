package main

import (
	"log"
	"os"

	"bazaar/cache"
	"bazaar/config"
	"bazaar/db"
	"bazaar/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize database
	db.InitDatabase(cfg)

	// Optional featured-products cache
	cache.Init(cfg)

	// Create uploads directory if it doesn't exist
	if _, err := os.Stat(cfg.UploadDir); os.IsNotExist(err) {
		os.MkdirAll(cfg.UploadDir, 0755)
	}

	// Create Fiber app; every handler error is reshaped into the
	// response envelope by routes.ErrorHandler
	app := fiber.New(fiber.Config{
		ErrorHandler: routes.ErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
	}))

	// Serve uploaded product images
	app.Static("/uploads", cfg.UploadDir)

	// Setup routes
	routes.SetupRoutes(app, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.Port))
}
