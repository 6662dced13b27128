package routes

import (
	"github.com/anjiri1684/neighborhood_hub/handlers"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/gofiber/fiber/v2"
)

func PostRoutes(app *fiber.App) {
	api := app.Group("/api")

	posts := api.Group("/posts", middleware.Protected())
	posts.Get("", handlers.GetPosts)
	posts.Post("", handlers.CreatePost)
	posts.Get("/my-posts/count", handlers.GetMyPostsCount)
	posts.Get("/:id", handlers.GetPost)
	posts.Put("/:id", handlers.UpdatePost)
	posts.Delete("/:id", handlers.DeletePost)
	posts.Put("/:id/like", handlers.LikePost)
	posts.Put("/:id/unlike", handlers.UnlikePost)
	posts.Post("/:id/comment", handlers.AddComment)
	posts.Delete("/:id/comment/:commentId", handlers.DeleteComment)
}
