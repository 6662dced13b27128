package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

var errorStatus = []struct {
	status int
	errs   []error
}{
	{fiber.StatusNotFound, []error{
		services.ErrUserNotFound, services.ErrServiceNotFound, services.ErrBookingNotFound,
		services.ErrPostNotFound, services.ErrCommentNotFound, services.ErrItemNotFound,
	}},
	{fiber.StatusForbidden, []error{
		services.ErrNotAuthorized, services.ErrNotBookingParty, services.ErrNotCustomer,
		services.ErrProviderOnly, models.ErrActorNotAllowed,
	}},
	{fiber.StatusConflict, []error{services.ErrSchedulingConflict}},
	{fiber.StatusUnauthorized, []error{services.ErrInvalidCredentials, services.ErrIncorrectPassword}},
	{fiber.StatusServiceUnavailable, []error{services.ErrUploaderUnconfigured}},
	{fiber.StatusBadRequest, []error{
		services.ErrServiceInactive, services.ErrOwnService, services.ErrBookingInPast,
		services.ErrBookingNotEditable, services.ErrBookingNotCompleted, services.ErrAlreadyReviewed,
		services.ErrServiceReviewed, services.ErrNoCompletedBooking, services.ErrAlreadyLiked,
		services.ErrNotLiked, services.ErrInvalidItemStatus, services.ErrEmailTaken,
		services.ErrInvalidResetToken, services.ErrInvalidUploadFolder, models.ErrUnknownStatus,
		models.ErrIllegalTransition,
	}},
}

func statusFor(err error) int {
	for _, group := range errorStatus {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// respondError maps a service error onto the error envelope. Unknown errors
// are logged and reported as a bare 500.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
		return fail(c, status, "Server Error")
	}
	msg := err.Error()
	return fail(c, status, strings.ToUpper(msg[:1])+msg[1:])
}

// parseBody decodes and validates the request body into req. The returned
// error is meant for the client.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("Cannot parse request body")
	}
	if err := validate.Struct(req); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of: "+fe.Param())
		default:
			msgs = append(msgs, fe.Field()+" failed "+fe.Tag()+" validation")
		}
	}
	return strings.Join(msgs, ", ")
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func listResponse(c *fiber.Ctx, data interface{}, count int, page services.Pagination) error {
	return c.JSON(fiber.Map{"success": true, "count": count, "pagination": page, "data": data})
}
