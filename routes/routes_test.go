package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/config"
	"bazaar/db"
	"bazaar/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnvelope mirrors the wire envelope for assertions.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	db.DB = gdb

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, &config.Config{
		Port:       "3000",
		CORSOrigin: "*",
		UploadDir:  t.TempDir(),
	})
	return app
}

func createTestCategory(t *testing.T, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name, Description: name + " things"}
	if err := db.DB.Create(&category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return category
}

func createTestProduct(t *testing.T, title, categoryID string, price float64, featured bool) models.Product {
	t.Helper()
	product := models.Product{
		Title:      title,
		Price:      price,
		CategoryID: categoryID,
		IsFeatured: featured,
	}
	if err := db.DB.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

func countProducts(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := db.DB.Model(&models.Product{}).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count products: %v", err)
	}
	return n
}

// doRequest runs one request against the app and decodes the envelope.
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}

	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode envelope for %s %s: %v", method, path, err)
	}
	return resp, env
}
