package routes

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"bazaar/cache"
	"bazaar/db"
	"bazaar/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateProductRequest is the POST /api/products body. Price is a pointer so
// that an absent price can be told apart from a free product.
type CreateProductRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	Stock        *uint    `json:"stock"`
	IsFeatured   bool     `json:"isFeatured"`
	ProductImage string   `json:"productImage"`
	CategoryID   string   `json:"categoryId" validate:"required"`
}

type UpdateProductRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Stock        *uint    `json:"stock"`
	IsFeatured   *bool    `json:"isFeatured"`
	ProductImage *string  `json:"productImage"`
	CategoryID   *string  `json:"categoryId"`
}

type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// CategoryProductsResponse shapes GET /api/products/category/:categoryId.
type CategoryProductsResponse struct {
	CategoryID   string           `json:"categoryId"`
	CategoryName string           `json:"categoryName"`
	Products     []models.Product `json:"products"`
}

// invalidFields extracts the offending json field names from a validator error.
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// Product handlers
func createProduct(c *fiber.Ctx) error {
	req := new(CreateProductRequest)
	if err := c.BodyParser(req); err != nil {
		return BadRequest("Failed to parse request body")
	}

	if err := validate.Struct(req); err != nil {
		fields := invalidFields(err)
		return ValidationError("Missing or invalid fields: "+strings.Join(fields, ", "), fields)
	}

	// The referenced category must exist before anything is persisted
	var category models.Category
	if err := db.DB.First(&category, "id = ?", req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Category not found")
		}
		return err
	}

	product := models.Product{
		Title:        req.Title,
		Description:  req.Description,
		Price:        *req.Price,
		IsFeatured:   req.IsFeatured,
		ProductImage: req.ProductImage,
		CategoryID:   req.CategoryID,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := db.DB.Create(&product).Error; err != nil {
		return err
	}

	cache.InvalidateFeatured()
	publishEvent("product", "created", product.ID)

	return respond(c, fiber.StatusCreated, product, "Product created successfully")
}

// GetAllProducts - GET /api/products?categoryId=&featured=&skip=&limit=
func getAllProducts(c *fiber.Ctx) error {
	var total int64
	var products []models.Product

	categoryID := c.Query("categoryId")
	featured := c.Query("featured")

	limit, skip, err := parsePagination(c)
	if err != nil {
		return err
	}

	dbQuery := db.DB.Model(&models.Product{})
	if categoryID != "" {
		dbQuery = dbQuery.Where("category_id = ?", categoryID)
	}
	if featured != "" {
		want, err := strconv.ParseBool(featured)
		if err != nil {
			return BadRequest("Invalid featured parameter")
		}
		dbQuery = dbQuery.Where("is_featured = ?", want)
	}

	if err := dbQuery.Count(&total).Error; err != nil {
		return err
	}

	// created_at ordering keeps pagination stable
	dbQuery = dbQuery.Order("created_at").Offset(skip)
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	if err := dbQuery.Find(&products).Error; err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, ProductListResponse{
		Products: products,
		Total:    int(total),
		Skip:     skip,
		Limit:    limit,
	}, "")
}

// SearchProducts - GET /api/products/search?q=
// Matches product titles first, then falls back to category names.
func searchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return BadRequest("Query parameter 'q' is required")
	}

	var products []models.Product
	if err := db.DB.Where("title LIKE ?", "%"+query+"%").Order("created_at").Find(&products).Error; err != nil {
		return err
	}
	if len(products) > 0 {
		return respond(c, fiber.StatusOK, ProductListResponse{
			Products: products,
			Total:    len(products),
			Limit:    -1,
		}, "")
	}

	var categoryIDs []string
	if err := db.DB.Model(&models.Category{}).
		Where("name LIKE ?", "%"+query+"%").
		Pluck("id", &categoryIDs).Error; err != nil {
		return err
	}
	if len(categoryIDs) > 0 {
		if err := db.DB.Where("category_id IN ?", categoryIDs).Order("created_at").Find(&products).Error; err != nil {
			return err
		}
	}

	return respond(c, fiber.StatusOK, ProductListResponse{
		Products: products,
		Total:    len(products),
		Limit:    -1,
	}, "")
}

// GetFeaturedProducts - GET /api/products/featured, served from redis when warm
func getFeaturedProducts(c *fiber.Ctx) error {
	if cached, ok := cache.GetFeatured(); ok {
		return respond(c, fiber.StatusOK, json.RawMessage(cached), "")
	}

	var products []models.Product
	if err := db.DB.Where("is_featured = ?", true).Order("created_at").Find(&products).Error; err != nil {
		return err
	}

	if payload, err := json.Marshal(products); err == nil {
		cache.SetFeatured(payload)
	}

	return respond(c, fiber.StatusOK, products, "")
}

// GetProductsByCategory - GET /api/products/category/:categoryId
// A missing category is a 404, never an empty 200.
func getProductsByCategory(c *fiber.Ctx) error {
	categoryID := c.Params("categoryId")

	var category models.Category
	if err := db.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Category not found")
		}
		return err
	}

	var products []models.Product
	if err := db.DB.Where("category_id = ?", categoryID).Order("created_at").Find(&products).Error; err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, CategoryProductsResponse{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Products:     products,
	}, "")
}

// GetProduct - GET /api/products/:id
func getProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var product models.Product

	if err := db.DB.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Product not found")
		}
		return err
	}

	return respond(c, fiber.StatusOK, product, "")
}

// UpdateProduct - PUT /api/products/:id, absent fields stay untouched
func updateProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	req := new(UpdateProductRequest)
	if err := c.BodyParser(req); err != nil {
		return BadRequest("Failed to parse request body")
	}

	var existing models.Product
	if err := db.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Product not found")
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return ValidationError("Missing or invalid fields: title", []string{"title"})
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return ValidationError("Missing or invalid fields: price", []string{"price"})
		}
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.ProductImage != nil {
		updates["product_image"] = *req.ProductImage
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := db.DB.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Category not found")
			}
			return err
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		cache.InvalidateFeatured()
		publishEvent("product", "updated", existing.ID)
	}

	return respond(c, fiber.StatusOK, existing, "Product updated successfully")
}

// DeleteProduct - DELETE /api/products/:id
func deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var product models.Product
	if err := db.DB.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Product not found")
		}
		return err
	}

	if err := db.DB.Delete(&product).Error; err != nil {
		return err
	}

	cache.InvalidateFeatured()
	publishEvent("product", "deleted", product.ID)

	return respond(c, fiber.StatusOK, fiber.Map{"id": product.ID}, "Product deleted successfully")
}
