package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"bazaar/config"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// Connected clients map with mutex for thread safety
var wsClients = make(map[*websocket.Conn]bool)
var events = make(chan CatalogEvent, 100) // Buffered channel to prevent blocking
var wsMutex = &sync.Mutex{}
var broadcastOnce sync.Once

var validate = newValidator()

// newValidator reports field names by their json tag so validation errors
// match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// uploadDir is where product images land, set from config in SetupRoutes.
var uploadDir = "uploads"

// parsePagination reads the optional skip/limit query parameters. A limit of
// -1 means unlimited; anything non-numeric or negative is rejected.
func parsePagination(c *fiber.Ctx) (limit, skip int, err error) {
	limit = -1

	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, BadRequest("Invalid limit parameter")
		}
	}
	if raw := c.Query("skip"); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, BadRequest("Invalid skip parameter")
		}
	}
	return limit, skip, nil
}

// CatalogEvent is pushed to every /ws subscriber whenever the catalog changes.
type CatalogEvent struct {
	Entity string `json:"entity"` // "product" or "category"
	Action string `json:"action"` // "created", "updated", "deleted"
	ID     string `json:"id"`
}

// publishEvent never blocks a request handler; if no subscriber keeps up the
// event is dropped.
func publishEvent(entity, action, id string) {
	select {
	case events <- CatalogEvent{Entity: entity, Action: action, ID: id}:
	default:
	}
}

func SetupRoutes(app *fiber.App, cfg *config.Config) {
	uploadDir = cfg.UploadDir

	wsHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("Error upgrading:", err)
			return
		}
		defer conn.Close()

		wsMutex.Lock()
		wsClients[conn] = true
		wsMutex.Unlock()
		log.Println("Client connected:", conn.RemoteAddr())

		// Subscribers only listen; a read error means the client left.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket read error: %v", err)
				}
				wsMutex.Lock()
				delete(wsClients, conn)
				wsMutex.Unlock()
				log.Println("Client disconnected:", conn.RemoteAddr())
				break
			}
		}
	})

	// Handle broadcasting catalog events to all clients
	broadcastOnce.Do(func() {
		go func() {
			for event := range events {
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				wsMutex.Lock()
				for client := range wsClients {
					if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
						log.Printf("WebSocket write error: %v", err)
						client.Close()
						delete(wsClients, client)
					}
				}
				wsMutex.Unlock()
			}
		}()
	})

	// Mount WebSocket endpoint
	app.Get("/ws", wsHandler)

	api := app.Group("/api")

	// Image upload route
	api.Post("/upload", uploadImage)

	// Product routes
	products := api.Group("/products")
	products.Get("/search", searchProducts)
	products.Get("/featured", getFeaturedProducts)
	products.Get("/category/:categoryId", getProductsByCategory)
	products.Post("/", createProduct)
	products.Get("/", getAllProducts)
	products.Get("/:id", getProduct)
	products.Put("/:id", updateProduct)
	products.Delete("/:id", deleteProduct)

	// Category routes
	categories := api.Group("/categories")
	categories.Post("/", createCategory)
	categories.Get("/", getAllCategories)
	categories.Get("/:id", getCategory)
	categories.Put("/:id", updateCategory)
	categories.Delete("/:id", deleteCategory)
}
