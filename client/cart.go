package client

import (
	"errors"
	"sort"
	"sync"

	"bazaar/models"
)

var ErrItemNotInCart = errors.New("item not in cart")
var ErrInvalidQuantity = errors.New("quantity must be positive")

// CartAction is the closed set of cart mutations.
type CartAction interface {
	isCartAction()
}

// AddItem puts a product in the cart or bumps its quantity.
type AddItem struct {
	Product  models.Product
	Quantity int
}

// RemoveItem drops a product from the cart entirely.
type RemoveItem struct {
	ProductID string
}

// SetQuantity overwrites the quantity of an item already in the cart.
// A quantity of zero removes the item.
type SetQuantity struct {
	ProductID string
	Quantity  int
}

// ClearCart empties the cart.
type ClearCart struct{}

func (AddItem) isCartAction()     {}
func (RemoveItem) isCartAction()  {}
func (SetQuantity) isCartAction() {}
func (ClearCart) isCartAction()   {}

// CartItem is one cart line.
type CartItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart is the client-side cart state. It lives purely in memory and is never
// synchronized with the server. Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items map[string]*CartItem
}

func NewCart() *Cart {
	return &Cart{items: make(map[string]*CartItem)}
}

// Apply runs one action against the cart and returns the resulting item, or
// nil for removals and clears.
func (c *Cart) Apply(action CartAction) (*CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch a := action.(type) {
	case AddItem:
		if a.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		item, ok := c.items[a.Product.ID]
		if !ok {
			item = &CartItem{Product: a.Product}
			c.items[a.Product.ID] = item
		}
		item.Quantity += a.Quantity
		snapshot := *item
		return &snapshot, nil

	case RemoveItem:
		if _, ok := c.items[a.ProductID]; !ok {
			return nil, ErrItemNotInCart
		}
		delete(c.items, a.ProductID)
		return nil, nil

	case SetQuantity:
		if a.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		item, ok := c.items[a.ProductID]
		if !ok {
			return nil, ErrItemNotInCart
		}
		if a.Quantity == 0 {
			delete(c.items, a.ProductID)
			return nil, nil
		}
		item.Quantity = a.Quantity
		snapshot := *item
		return &snapshot, nil

	case ClearCart:
		c.items = make(map[string]*CartItem)
		return nil, nil

	default:
		return nil, errors.New("unknown cart action")
	}
}

// Items returns the cart lines sorted by product id.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]CartItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Product.ID < items[j].Product.ID
	})
	return items
}

// Total is the cart's price total.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Len is the number of distinct products in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
