package handlers

import (
	"github.com/anjiri1684/neighborhood_hub/middleware"
	"github.com/anjiri1684/neighborhood_hub/services"
	"github.com/gofiber/fiber/v2"
)

const maxUploadFiles = 5

// GenerateUploadSignature signs a direct browser upload into the folder named
// by ?folder=.
func GenerateUploadSignature(c *fiber.Ctx) error {
	sig, err := services.SignUpload(c.Query("folder", services.FolderPosts))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": sig})
}

// uploadFormFiles uploads every file under field, up to maxUploadFiles. A
// non-multipart request yields no URLs.
func uploadFormFiles(c *fiber.Ctx, field, folder string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File[field]
	if len(files) > maxUploadFiles {
		files = files[:maxUploadFiles]
	}

	prefix := middleware.CurrentUser(c).ID.String()
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := services.UploadFormFile(fh, folder, prefix)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
