package middleware

import (
	"time"

	config "github.com/anjiri1684/neighborhood_hub/configs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// AuthLimiter throttles credential endpoints per client IP.
func AuthLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.ConfigInt("AUTH_RATE_LIMIT", 20),
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later",
			})
		},
	})
}
