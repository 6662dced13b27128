package routes

import (
	"github.com/anjiri1684/neighborhood_hub/handlers"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Post("", handlers.CreateBooking)
	booking.Get("/my-bookings", handlers.GetMyBookings)
	booking.Get("/my-services", handlers.GetProviderBookings)
	booking.Get("/:id", handlers.GetBooking)
	booking.Put("/:id", handlers.UpdateBooking)
	booking.Put("/:id/status", handlers.UpdateBookingStatus)
	booking.Post("/:id/review", handlers.AddBookingReview)
	booking.Get("/:id/receipt", handlers.GetBookingReceipt)
}
