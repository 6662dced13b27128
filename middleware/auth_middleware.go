package middleware

import (
	"errors"
	"slices"

	config "github.com/anjiri1684/neighborhood_hub/configs"
	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const currentUserKey = "currentUser"

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(config.Config("JWT_SECRET")),
		SuccessHandler: loadUser,
		ErrorHandler:   jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"success": false, "message": "Not authorized, no token"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "message": "Not authorized, token failed"})
}

// loadUser resolves the token subject to a live account and stores it for
// handlers. Deleted or deactivated accounts are rejected even with a valid
// token.
func loadUser(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return jwtError(c, errors.New("invalid token"))
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwtError(c, errors.New("invalid claims"))
	}
	userID, err := services.UserIDFromClaims(claims)
	if err != nil {
		return jwtError(c, err)
	}

	user, err := services.GetUser(database.DB, userID)
	if errors.Is(err, services.ErrUserNotFound) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"success": false, "message": "User not found"})
	}
	if err != nil {
		return err
	}
	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"success": false, "message": "Account is deactivated"})
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// CurrentUser returns the account loaded by Protected, or nil on public
// routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !slices.Contains(roles, user.Role) {
			role := ""
			if user != nil {
				role = user.Role
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "User role " + role + " is not authorized to access this route",
			})
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin)
}
