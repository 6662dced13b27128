package routes

import "github.com/gofiber/fiber/v2"

// Register mounts every API route group on app.
func Register(app *fiber.App) {
	AuthRoutes(app)
	ServiceRoutes(app)
	PostRoutes(app)
	MarketplaceRoutes(app)
	BookingRoutes(app)
	UploadRoutes(app)
	RealtimeRoutes(app)
}
