package handlers

import (
	"errors"
	"log"

	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/anjiri1684/neighborhood_hub/notifications"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string         `json:"name" validate:"required,max=50"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Role     string         `json:"role" validate:"omitempty,oneof=resident service_provider"`
	Phone    string         `json:"phone" validate:"omitempty,max=30"`
	Address  models.Address `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name    *string         `json:"name" validate:"omitempty,min=1,max=50"`
	Phone   *string         `json:"phone" validate:"omitempty,max=30"`
	Bio     *string         `json:"bio" validate:"omitempty,max=500"`
	Address *models.Address `json:"address"`
	Skills  *[]string       `json:"skills"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func sendToken(c *fiber.Ctx, status int, user *models.User) error {
	token, err := services.IssueToken(user)
	if err != nil {
		log.Printf("Failed to sign token for %s: %v", user.ID, err)
		return fail(c, fiber.StatusInternalServerError, "Failed to create token")
	}
	return c.Status(status).JSON(fiber.Map{"success": true, "token": token, "data": user})
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := services.RegisterUser(database.DB, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if errors.Is(err, services.ErrEmailTaken) {
		return fail(c, fiber.StatusBadRequest, "User already exists")
	}
	if err != nil {
		return respondError(c, err)
	}

	go notifications.SendWelcomeEmail(user.Name, user.Email)
	return sendToken(c, fiber.StatusCreated, user)
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := services.Authenticate(database.DB, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return sendToken(c, fiber.StatusOK, user)
}

func GetMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": middleware.CurrentUser(c)})
}

func UpdateMe(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := services.UpdateProfile(database.DB, middleware.CurrentUser(c).ID, services.ProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Bio:     req.Bio,
		Address: req.Address,
		Skills:  req.Skills,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

func UpdateAvatar(c *fiber.Ctx) error {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Please upload a file")
	}

	me := middleware.CurrentUser(c)
	url, err := services.UploadFormFile(fh, services.FolderAvatars, me.ID.String())
	if err != nil {
		return respondError(c, err)
	}
	user, err := services.UpdateProfile(database.DB, me.ID, services.ProfileInput{Avatar: &url})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

func UpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	me := middleware.CurrentUser(c)
	if err := services.ChangePassword(database.DB, me.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return sendToken(c, fiber.StatusOK, me)
}

// ForgotPassword answers the same way whether or not the email exists.
func ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, token, err := services.CreatePasswordReset(database.DB, req.Email)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		log.Printf("Password reset requested for unknown email %s", req.Email)
	case err != nil:
		return respondError(c, err)
	default:
		go notifications.SendPasswordResetEmail(user.Name, user.Email, token)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If an account with that email exists, a password reset link has been sent.",
	})
}

func ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if err := services.ResetPassword(database.DB, req.Token, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password has been reset. You can now log in."})
}

func DeleteMe(c *fiber.Ctx) error {
	if err := services.DeleteUserCascade(database.DB, middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetUserProfile is the public view of an account with its active services.
func GetUserProfile(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrUserNotFound)
	}
	user, err := services.GetUser(database.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	offered, err := services.ListProviderServices(database.DB, id, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"user": user.Public(), "services": offered}})
}

// SetUserStatus is the admin switch for deactivating or restoring an account.
func SetUserStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrUserNotFound)
	}
	var req UserStatusRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if id == middleware.CurrentUser(c).ID {
		return fail(c, fiber.StatusBadRequest, "You cannot change the status of your own account")
	}

	user, err := services.SetUserActive(database.DB, id, *req.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
