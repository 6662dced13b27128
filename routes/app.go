package routes

import (
	"errors"
	"log"
	"time"

	config "github.com/anjiri1684/neighborhood_hub/configs"
	"github.com/anjiri1684/neighborhood_hub/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the HTTP application with global middleware and every route
// mounted.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Neighborhood Hub",
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     10 * 1024 * 1024,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			message := err.Error()
			if code == fiber.StatusInternalServerError {
				message = "Server Error"
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.ConfigDefault("CORS_ORIGINS", "*"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metrics.Middleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "Welcome to Neighborhood Hub API"})
	})
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().UTC(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	Register(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route " + c.OriginalURL() + " not found",
		})
	})
	return app
}
