package routes

import (
	"github.com/anjiri1684/neighborhood_hub/handlers"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/gofiber/fiber/v2"
)

func MarketplaceRoutes(app *fiber.App) {
	api := app.Group("/api")

	market := api.Group("/marketplace")
	market.Get("", handlers.GetItems)
	market.Get("/my-items", middleware.Protected(), handlers.GetMyItems)
	market.Get("/my-items/count", middleware.Protected(), handlers.GetMyItemsCount)
	market.Get("/:id", handlers.GetItem)

	market.Post("", middleware.Protected(), handlers.CreateItem)
	market.Put("/:id", middleware.Protected(), handlers.UpdateItem)
	market.Put("/:id/status", middleware.Protected(), handlers.UpdateItemStatus)
	market.Delete("/:id", middleware.Protected(), handlers.DeleteItem)
}
