// Package client is a Go client for the catalog API. It decodes the fixed
// response envelope and surfaces API failures as *APIError values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bazaar/models"
)

// APIError is an error reported by the server inside the envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("catalog api: %s (%s)", e.Message, e.Code)
	}
	return "catalog api: " + e.Message
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

// Client talks to one catalog server.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New returns a Client for the given base URL, e.g. "http://localhost:3000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateProductInput mirrors the POST /api/products body.
type CreateProductInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	Stock        *uint   `json:"stock,omitempty"`
	IsFeatured   bool    `json:"isFeatured,omitempty"`
	ProductImage string  `json:"productImage,omitempty"`
	CategoryID   string  `json:"categoryId"`
}

type productList struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
}

type categoryList struct {
	Categories []models.Category `json:"categories"`
	Total      int               `json:"total"`
}

// CategoryProducts is the payload of ProductsByCategory.
type CategoryProducts struct {
	CategoryID   string           `json:"categoryId"`
	CategoryName string           `json:"categoryName"`
	Products     []models.Product `json:"products"`
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list categoryList
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &list); err != nil {
		return nil, err
	}
	return list.Categories, nil
}

// ListProducts fetches products, optionally filtered by category id.
func (c *Client) ListProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	path := "/api/products"
	if categoryID != "" {
		path += "?categoryId=" + categoryID
	}
	var list productList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Products, nil
}

// FeaturedProducts fetches the homepage product list.
func (c *Client) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/featured", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByCategory fetches a category's name and products. A category that
// does not exist yields an *APIError with Status 404.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) (*CategoryProducts, error) {
	var out CategoryProducts
	if err := c.do(ctx, http.MethodGet, "/api/products/category/"+categoryID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct persists a new product and returns the server-side record.
func (c *Client) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// do runs one request/response round trip and unwraps the envelope.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: "unknown error"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
