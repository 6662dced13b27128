package handlers

import (
	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateServiceRequest struct {
	Title        string   `json:"title" form:"title" validate:"required,max=100"`
	Description  string   `json:"description" form:"description" validate:"required,max=1000"`
	Category     string   `json:"category" form:"category" validate:"required,oneof=plumbing electrical cleaning tutoring gardening carpentry painting moving pet_care beauty fitness other"`
	Price        float64  `json:"price" form:"price" validate:"gte=0"`
	PriceType    string   `json:"priceType" form:"priceType" validate:"omitempty,oneof=fixed hourly negotiable"`
	Availability string   `json:"availability" form:"availability" validate:"max=255"`
	Images       []string `json:"images" form:"images"`
	Tags         []string `json:"tags" form:"tags"`
}

type UpdateServiceRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Description  *string   `json:"description" validate:"omitempty,min=1,max=1000"`
	Category     *string   `json:"category" validate:"omitempty,oneof=plumbing electrical cleaning tutoring gardening carpentry painting moving pet_care beauty fitness other"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	PriceType    *string   `json:"priceType" validate:"omitempty,oneof=fixed hourly negotiable"`
	Availability *string   `json:"availability" validate:"omitempty,max=255"`
	Images       *[]string `json:"images"`
	Tags         *[]string `json:"tags"`
	IsActive     *bool     `json:"isActive"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

func GetServices(c *fiber.Ctx) error {
	filter := services.ServiceFilter{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		MinPrice:  queryFloat(c, "minPrice"),
		MaxPrice:  queryFloat(c, "maxPrice"),
		PriceType: c.Query("priceType"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Sort:      c.Query("sort"),
	}
	if raw := c.Query("provider"); raw != "" {
		providerID, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid provider id")
		}
		filter.ProviderID = &providerID
	}

	list, page, err := services.ListServices(database.DB, filter)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, list, len(list), page)
}

func GetService(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrServiceNotFound)
	}
	service, err := services.GetService(database.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": service})
}

func GetMyServices(c *fiber.Ctx) error {
	list, err := services.ListProviderServices(database.DB, middleware.CurrentUser(c).ID, false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(list), "data": list})
}

func GetProviderServices(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrUserNotFound)
	}
	list, err := services.ListProviderServices(database.DB, id, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(list), "data": list})
}

func CreateService(c *fiber.Ctx) error {
	var req CreateServiceRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	uploaded, err := uploadFormFiles(c, "images", services.FolderServices)
	if err != nil {
		return respondError(c, err)
	}

	service := &models.Service{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		PriceType:    req.PriceType,
		Availability: req.Availability,
		Images:       append(req.Images, uploaded...),
		Tags:         req.Tags,
	}
	if err := services.CreateService(database.DB, middleware.CurrentUser(c), service); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": service})
}

func UpdateService(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrServiceNotFound)
	}
	var req UpdateServiceRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	service, err := services.UpdateService(database.DB, id, middleware.CurrentUser(c).ID, services.ServiceInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		PriceType:    req.PriceType,
		Availability: req.Availability,
		Images:       req.Images,
		Tags:         req.Tags,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": service})
}

func DeleteService(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrServiceNotFound)
	}
	if err := services.DeleteService(database.DB, id, middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func UploadServiceImages(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrServiceNotFound)
	}
	urls, err := uploadFormFiles(c, "images", services.FolderServices)
	if err != nil {
		return respondError(c, err)
	}
	if len(urls) == 0 {
		return fail(c, fiber.StatusBadRequest, "Please upload at least one image")
	}
	service, err := services.AppendServiceImages(database.DB, id, middleware.CurrentUser(c).ID, urls)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": service})
}

func GetServiceReviews(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrServiceNotFound)
	}
	reviews, err := services.ListServiceReviews(database.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(reviews), "data": reviews})
}

func AddServiceReview(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrServiceNotFound)
	}
	var req ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	reviews, err := services.AddServiceReview(database.DB, id, middleware.CurrentUser(c).ID, req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": reviews})
}
