package routes

import (
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Image upload handler
func uploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return BadRequest("Failed to get uploaded file")
	}

	// Generate unique filename
	ext := filepath.Ext(file.Filename)
	filename := uuid.New().String() + ext
	dest := filepath.Join(uploadDir, filename)

	if err := c.SaveFile(file, dest); err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	// Return the URL that can be stored as a product image
	return respond(c, fiber.StatusCreated, fiber.Map{
		"filename": filename,
		"url":      "/uploads/" + filename,
	}, "Image uploaded successfully")
}
