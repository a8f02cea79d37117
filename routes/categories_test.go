package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"bazaar/db"
	"bazaar/models"
)

func TestCreateCategory(t *testing.T) {
	app := setupTestApp(t)

	resp, env := doRequest(t, app, http.MethodPost, "/api/categories", map[string]interface{}{
		"name":        "Kitchen",
		"description": "Pots and pans",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var category models.Category
	if err := json.Unmarshal(env.Data, &category); err != nil {
		t.Fatalf("Failed to decode category: %v", err)
	}
	if !strings.HasPrefix(category.ID, "cat_") {
		t.Errorf("Expected generated cat_ id, got %q", category.ID)
	}
	if category.Name != "Kitchen" || category.Description != "Pots and pans" {
		t.Errorf("Unexpected category: %+v", category)
	}
	if category.CreatedAt.IsZero() {
		t.Error("Expected server-assigned createdAt")
	}
}

func TestCreateCategoryMissingName(t *testing.T) {
	app := setupTestApp(t)

	resp, env := doRequest(t, app, http.MethodPost, "/api/categories", map[string]interface{}{
		"description": "no name",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != CodeValidation {
		t.Fatalf("Expected validation_error, got %+v", env.Error)
	}
}

func TestListCategories(t *testing.T) {
	app := setupTestApp(t)
	createTestCategory(t, "Kitchen")
	createTestCategory(t, "Garden")

	resp, env := doRequest(t, app, http.MethodGet, "/api/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var list CategoryListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if list.Total != 2 || len(list.Categories) != 2 {
		t.Errorf("Expected 2 categories, got total=%d len=%d", list.Total, len(list.Categories))
	}

	t.Run("non-numeric pagination", func(t *testing.T) {
		for _, path := range []string{"/api/categories?limit=abc", "/api/categories?skip=abc"} {
			resp, _ := doRequest(t, app, http.MethodGet, path, nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400 for %s, got %d", path, resp.StatusCode)
			}
		}
	})
}

func TestGetCategory(t *testing.T) {
	app := setupTestApp(t)
	kitchen := createTestCategory(t, "Kitchen")
	createTestProduct(t, "Mug", kitchen.ID, 9.99, false)

	resp, env := doRequest(t, app, http.MethodGet, "/api/categories/"+kitchen.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var category models.Category
	if err := json.Unmarshal(env.Data, &category); err != nil {
		t.Fatalf("Failed to decode category: %v", err)
	}
	if len(category.Products) != 1 || category.Products[0].Title != "Mug" {
		t.Errorf("Expected preloaded products, got %+v", category.Products)
	}

	resp, _ = doRequest(t, app, http.MethodGet, "/api/categories/cat_missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown category, got %d", resp.StatusCode)
	}
}

func TestUpdateCategory(t *testing.T) {
	app := setupTestApp(t)
	kitchen := createTestCategory(t, "Kitchen")

	resp, _ := doRequest(t, app, http.MethodPut, "/api/categories/"+kitchen.ID, map[string]interface{}{
		"name": "Kitchenware",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var updated models.Category
	if err := db.DB.First(&updated, "id = ?", kitchen.ID).Error; err != nil {
		t.Fatalf("Failed to reload category: %v", err)
	}
	if updated.Name != "Kitchenware" {
		t.Errorf("Expected renamed category, got %q", updated.Name)
	}
	if updated.Description != kitchen.Description {
		t.Errorf("Absent field overwritten, description now %q", updated.Description)
	}
}

func TestDeleteCategory(t *testing.T) {
	app := setupTestApp(t)
	kitchen := createTestCategory(t, "Kitchen")
	garden := createTestCategory(t, "Garden")
	createTestProduct(t, "Shovel", garden.ID, 19.99, false)

	t.Run("empty category deletes", func(t *testing.T) {
		resp, env := doRequest(t, app, http.MethodDelete, "/api/categories/"+kitchen.ID, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if !env.Success {
			t.Fatal("Expected success envelope")
		}
	})

	t.Run("referenced category is rejected", func(t *testing.T) {
		resp, env := doRequest(t, app, http.MethodDelete, "/api/categories/"+garden.ID, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("Expected 409, got %d", resp.StatusCode)
		}
		if env.Error == nil || env.Error.Code != CodeConflict {
			t.Fatalf("Expected conflict error, got %+v", env.Error)
		}

		// The category and its product must survive the rejected delete
		var category models.Category
		if err := db.DB.First(&category, "id = ?", garden.ID).Error; err != nil {
			t.Errorf("Category vanished after rejected delete: %v", err)
		}
		if n := countProducts(t); n != 1 {
			t.Errorf("Expected product to survive, found %d", n)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		resp, _ := doRequest(t, app, http.MethodDelete, "/api/categories/cat_missing", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})
}
