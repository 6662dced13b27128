package routes

import (
	"github.com/anjiri1684/neighborhood_hub/handlers"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.AuthLimiter(), handlers.RegisterUser)
	auth.Post("/login", middleware.AuthLimiter(), handlers.LoginUser)
	auth.Post("/forgot-password", middleware.AuthLimiter(), handlers.ForgotPassword)
	auth.Post("/reset-password", middleware.AuthLimiter(), handlers.ResetPassword)

	auth.Get("/me", middleware.Protected(), handlers.GetMe)
	auth.Put("/me", middleware.Protected(), handlers.UpdateMe)
	auth.Put("/me/avatar", middleware.Protected(), handlers.UpdateAvatar)
	auth.Delete("/me", middleware.Protected(), handlers.DeleteMe)
	auth.Put("/updatepassword", middleware.Protected(), handlers.UpdatePassword)

	api.Get("/users/:id", handlers.GetUserProfile)
	api.Put("/users/:id/status", middleware.Protected(), middleware.AdminRequired(), handlers.SetUserStatus)
}
