package handlers

import (
	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/gofiber/fiber/v2"
)

type CreateItemRequest struct {
	Title       string         `json:"title" form:"title" validate:"required,max=100"`
	Description string         `json:"description" form:"description" validate:"required,max=1000"`
	Price       float64        `json:"price" form:"price" validate:"gte=0"`
	Category    string         `json:"category" form:"category" validate:"required,oneof=furniture electronics clothing sports home books vehicles other"`
	Condition   string         `json:"condition" form:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	Images      []string       `json:"images" form:"images"`
	Location    string         `json:"location" form:"location" validate:"required,max=255"`
	Address     models.Address `json:"address"`
	Tags        []string       `json:"tags" form:"tags"`
}

type UpdateItemRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string         `json:"description" validate:"omitempty,min=1,max=1000"`
	Price       *float64        `json:"price" validate:"omitempty,gte=0"`
	Category    *string         `json:"category" validate:"omitempty,oneof=furniture electronics clothing sports home books vehicles other"`
	Condition   *string         `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	Images      *[]string       `json:"images"`
	Location    *string         `json:"location" validate:"omitempty,min=1,max=255"`
	Address     *models.Address `json:"address"`
	Tags        *[]string       `json:"tags"`
}

type ItemStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func GetItems(c *fiber.Ctx) error {
	items, page, err := services.ListItems(database.DB, services.ItemFilter{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		MinPrice:  queryFloat(c, "minPrice"),
		MaxPrice:  queryFloat(c, "maxPrice"),
		Condition: c.Query("condition"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 12),
		Sort:      c.Query("sort"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, items, len(items), page)
}

// GetItem counts as a view.
func GetItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrItemNotFound)
	}
	item, err := services.ViewItem(database.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func CreateItem(c *fiber.Ctx) error {
	var req CreateItemRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	uploaded, err := uploadFormFiles(c, "images", services.FolderMarketplace)
	if err != nil {
		return respondError(c, err)
	}

	item, err := services.CreateItem(database.DB, middleware.CurrentUser(c).ID, &models.MarketplaceItem{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      append(req.Images, uploaded...),
		Location:    req.Location,
		Address:     req.Address,
		Tags:        req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func UpdateItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrItemNotFound)
	}
	var req UpdateItemRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := services.UpdateItem(database.DB, id, middleware.CurrentUser(c).ID, services.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      req.Images,
		Location:    req.Location,
		Address:     req.Address,
		Tags:        req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func UpdateItemStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrItemNotFound)
	}
	var req ItemStatusRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := services.UpdateItemStatus(database.DB, id, middleware.CurrentUser(c).ID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func DeleteItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrItemNotFound)
	}
	if err := services.DeleteItem(database.DB, id, middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func GetMyItems(c *fiber.Ctx) error {
	items, err := services.ListSellerItems(database.DB, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(items), "data": items})
}

func GetMyItemsCount(c *fiber.Ctx) error {
	count, err := services.CountSellerItems(database.DB, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": count})
}
