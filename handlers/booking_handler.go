package handlers

import (
	"fmt"
	"time"

	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/anjiri1684/neighborhood_hub/notifications"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/anjiri1684/neighborhood_hub/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	Service         string    `json:"service" validate:"required,uuid"`
	BookingDateTime time.Time `json:"bookingDateTime" validate:"required"`
	Duration        float64   `json:"duration" validate:"omitempty,gt=0,lte=24"`
	Address         string    `json:"address" validate:"required,max=255"`
	Message         string    `json:"message" validate:"max=500"`
}

type UpdateBookingRequest struct {
	BookingDateTime *time.Time `json:"bookingDateTime"`
	Duration        *float64   `json:"duration" validate:"omitempty,gt=0,lte=24"`
	Address         *string    `json:"address" validate:"omitempty,min=1,max=255"`
	Message         *string    `json:"message" validate:"omitempty,max=500"`
}

type BookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type BookingReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"max=500"`
}

func serviceTitle(b *models.Booking) string {
	if b.Service == nil {
		return ""
	}
	return b.Service.Title
}

func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	serviceID, _ := uuid.Parse(req.Service)

	booking, err := services.CreateBooking(database.DB, middleware.CurrentUser(c).ID, services.CreateBookingInput{
		ServiceID:       serviceID,
		BookingDateTime: req.BookingDateTime,
		Duration:        req.Duration,
		Address:         req.Address,
		Message:         req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}

	websocket.Notify([]uuid.UUID{booking.ProviderID}, "booking:created", booking)
	if booking.Provider != nil {
		go notifications.SendBookingRequestEmail(booking.Provider.Name, booking.Provider.Email, serviceTitle(booking), booking.BookingDateTime)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": booking})
}

func GetMyBookings(c *fiber.Ctx) error {
	bookings, err := services.ListCustomerBookings(database.DB, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(bookings), "data": bookings})
}

func GetProviderBookings(c *fiber.Ctx) error {
	bookings, err := services.ListProviderBookings(database.DB, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(bookings), "data": bookings})
}

func GetBooking(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrBookingNotFound)
	}
	booking, err := services.GetBookingForParty(database.DB, id, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": booking})
}

func UpdateBooking(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrBookingNotFound)
	}
	var req UpdateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	booking, err := services.UpdateBooking(database.DB, id, middleware.CurrentUser(c).ID, services.UpdateBookingInput{
		BookingDateTime: req.BookingDateTime,
		Duration:        req.Duration,
		Address:         req.Address,
		Message:         req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}
	websocket.Notify([]uuid.UUID{booking.ProviderID}, "booking:updated", booking)
	return c.JSON(fiber.Map{"success": true, "data": booking})
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrBookingNotFound)
	}
	var req BookingStatusRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	me := middleware.CurrentUser(c)
	booking, from, err := services.UpdateBookingStatus(database.DB, id, me.ID, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	// the other party hears about the change
	other := booking.UserID
	recipient := booking.User
	if me.ID == booking.UserID {
		other = booking.ProviderID
		recipient = booking.Provider
	}
	websocket.Notify([]uuid.UUID{other}, "booking:status", fiber.Map{
		"id":   booking.ID,
		"from": from,
		"to":   booking.Status,
	})
	if recipient != nil {
		go notifications.SendBookingStatusEmail(recipient.Name, recipient.Email, serviceTitle(booking), string(booking.Status))
	}
	return c.JSON(fiber.Map{"success": true, "data": booking})
}

func AddBookingReview(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrBookingNotFound)
	}
	var req BookingReviewRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	booking, err := services.AddBookingReview(database.DB, id, middleware.CurrentUser(c).ID, req.Rating, req.Review)
	if err != nil {
		return respondError(c, err)
	}
	websocket.Notify([]uuid.UUID{booking.ProviderID}, "booking:reviewed", fiber.Map{"id": booking.ID, "rating": req.Rating})
	return c.JSON(fiber.Map{"success": true, "data": booking})
}

func GetBookingReceipt(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrBookingNotFound)
	}
	booking, err := services.GetBookingForParty(database.DB, id, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	pdf, err := services.GenerateReceiptPDF(booking)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=receipt-%s.pdf", booking.ID))
	return c.Send(pdf)
}
