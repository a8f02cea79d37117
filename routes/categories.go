package routes

import (
	"errors"
	"strings"

	"bazaar/db"
	"bazaar/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
	Total      int               `json:"total"`
	Skip       int               `json:"skip"`
	Limit      int               `json:"limit"`
}

func createCategory(c *fiber.Ctx) error {
	req := new(CreateCategoryRequest)
	if err := c.BodyParser(req); err != nil {
		return BadRequest("Failed to parse request body")
	}

	if err := validate.Struct(req); err != nil {
		fields := invalidFields(err)
		return ValidationError("Missing or invalid fields: "+strings.Join(fields, ", "), fields)
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := db.DB.Create(&category).Error; err != nil {
		return err
	}

	publishEvent("category", "created", category.ID)

	return respond(c, fiber.StatusCreated, category, "Category created successfully")
}

// GetAllCategories - GET /api/categories?skip=&limit=
func getAllCategories(c *fiber.Ctx) error {
	var total int64
	var categories []models.Category

	limit, skip, err := parsePagination(c)
	if err != nil {
		return err
	}

	if err := db.DB.Model(&models.Category{}).Count(&total).Error; err != nil {
		return err
	}

	dbQuery := db.DB.Order("created_at").Offset(skip)
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	if err := dbQuery.Find(&categories).Error; err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, CategoryListResponse{
		Categories: categories,
		Total:      int(total),
		Skip:       skip,
		Limit:      limit,
	}, "")
}

// GetCategory - GET /api/categories/:id, includes the category's products
func getCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	var category models.Category

	if err := db.DB.Preload("Products").First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Category not found")
		}
		return err
	}

	return respond(c, fiber.StatusOK, category, "")
}

// UpdateCategory - PUT /api/categories/:id
func updateCategory(c *fiber.Ctx) error {
	id := c.Params("id")

	req := new(UpdateCategoryRequest)
	if err := c.BodyParser(req); err != nil {
		return BadRequest("Failed to parse request body")
	}

	var existing models.Category
	if err := db.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Category not found")
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return ValidationError("Missing or invalid fields: name", []string{"name"})
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		publishEvent("category", "updated", existing.ID)
	}

	return respond(c, fiber.StatusOK, existing, "Category updated successfully")
}

// DeleteCategory - DELETE /api/categories/:id
// A category that still owns products is not deletable; callers must move or
// delete the products first.
func deleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")

	var category models.Category
	if err := db.DB.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Category not found")
		}
		return err
	}

	var productCount int64
	if err := db.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return Conflict("Category still has products and cannot be deleted")
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		return err
	}

	publishEvent("category", "deleted", category.ID)

	return respond(c, fiber.StatusOK, fiber.Map{"id": category.ID}, "Category deleted successfully")
}
