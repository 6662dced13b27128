package routes

import (
	"github.com/anjiri1684/neighborhood_hub/handlers"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/gofiber/fiber/v2"
)

func ServiceRoutes(app *fiber.App) {
	api := app.Group("/api")

	svc := api.Group("/services")
	svc.Get("", handlers.GetServices)
	svc.Get("/my-services", middleware.Protected(), handlers.GetMyServices)
	svc.Get("/provider/:id", handlers.GetProviderServices)
	svc.Get("/:id", handlers.GetService)
	svc.Get("/:id/reviews", handlers.GetServiceReviews)

	svc.Post("", middleware.Protected(), middleware.RoleRequired(models.RoleServiceProvider), handlers.CreateService)
	svc.Put("/:id", middleware.Protected(), handlers.UpdateService)
	svc.Delete("/:id", middleware.Protected(), handlers.DeleteService)
	svc.Post("/:id/images", middleware.Protected(), handlers.UploadServiceImages)
	svc.Post("/:id/reviews", middleware.Protected(), handlers.AddServiceReview)
}
