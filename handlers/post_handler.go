package handlers

import (
	"time"

	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/anjiri1684/neighborhood_hub/models"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/anjiri1684/neighborhood_hub/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Content   string     `json:"content" form:"content" validate:"required,max=1000"`
	Image     string     `json:"image" form:"image"`
	Type      string     `json:"type" form:"type" validate:"omitempty,oneof=general event alert question"`
	EventDate *time.Time `json:"eventDate" form:"eventDate"`
	Location  string     `json:"location" form:"location" validate:"max=255"`
}

type UpdatePostRequest struct {
	Content   *string    `json:"content" validate:"omitempty,min=1,max=1000"`
	Image     *string    `json:"image"`
	Type      *string    `json:"type" validate:"omitempty,oneof=general event alert question"`
	EventDate *time.Time `json:"eventDate"`
	Location  *string    `json:"location" validate:"omitempty,max=255"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

func GetPosts(c *fiber.Ctx) error {
	posts, page, err := services.ListPosts(database.DB, services.PostFilter{
		Type:  c.Query("type"),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	})
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, posts, len(posts), page)
}

func GetPost(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrPostNotFound)
	}
	post, err := services.GetPost(database.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": post})
}

// CreatePost accepts JSON or a multipart form with an optional "image" file.
func CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	me := middleware.CurrentUser(c)
	if fh, err := c.FormFile("image"); err == nil {
		url, err := services.UploadFormFile(fh, services.FolderPosts, me.ID.String())
		if err != nil {
			return respondError(c, err)
		}
		req.Image = url
	}

	post, err := services.CreatePost(database.DB, me.ID, &models.Post{
		Content:   req.Content,
		Image:     req.Image,
		Type:      req.Type,
		EventDate: req.EventDate,
		Location:  req.Location,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": post})
}

func UpdatePost(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrPostNotFound)
	}
	var req UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	post, err := services.UpdatePost(database.DB, id, middleware.CurrentUser(c), services.PostInput{
		Content:   req.Content,
		Image:     req.Image,
		Type:      req.Type,
		EventDate: req.EventDate,
		Location:  req.Location,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": post})
}

func DeletePost(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrPostNotFound)
	}
	if err := services.DeletePost(database.DB, id, middleware.CurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// notifyAuthor pushes a feed event to the post's author unless they caused it.
func notifyAuthor(postID, actorID uuid.UUID, eventType string, data interface{}) {
	post, err := services.GetPost(database.DB, postID)
	if err != nil || post.AuthorID == actorID {
		return
	}
	websocket.Notify([]uuid.UUID{post.AuthorID}, eventType, data)
}

func LikePost(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrPostNotFound)
	}
	me := middleware.CurrentUser(c)
	likes, err := services.LikePost(database.DB, id, me.ID)
	if err != nil {
		return respondError(c, err)
	}
	notifyAuthor(id, me.ID, "post:liked", fiber.Map{"postId": id, "userId": me.ID, "name": me.Name})
	return c.JSON(fiber.Map{"success": true, "data": likes})
}

func UnlikePost(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrPostNotFound)
	}
	likes, err := services.UnlikePost(database.DB, id, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": likes})
}

func AddComment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrPostNotFound)
	}
	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	me := middleware.CurrentUser(c)
	comments, err := services.AddComment(database.DB, id, me.ID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	notifyAuthor(id, me.ID, "post:commented", fiber.Map{"postId": id, "userId": me.ID, "name": me.Name, "text": req.Text})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": comments})
}

func DeleteComment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return respondError(c, services.ErrPostNotFound)
	}
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return respondError(c, services.ErrCommentNotFound)
	}
	comments, err := services.DeleteComment(database.DB, id, commentID, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": comments})
}

func GetMyPostsCount(c *fiber.Ctx) error {
	count, err := services.CountUserPosts(database.DB, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": count})
}
