package usecase

import (
	"sync"

	"github.com/otakucart/storefront/internal/domain"
)

// Cart holds one shopper session's line items in memory, keyed by product id,
// and mirrors the collection to storage after every mutation. Items keep
// insertion order.
type Cart struct {
	mu        sync.Mutex
	key       string
	sessionID string
	storage   Storage
	items     []domain.CartItem
}

func NewCart(storage Storage, sessionID string) *Cart {
	c := &Cart{key: "cart:" + sessionID, sessionID: sessionID, storage: storage}
	// Missing or corrupt snapshot starts an empty cart.
	storage.Load(c.key, &c.items)
	return c
}

func (c *Cart) SessionID() string { return c.sessionID }

// Add inserts the item with quantity 1, or bumps the quantity when the id is
// already in the cart. The item's own Quantity field is ignored.
func (c *Cart) Add(item domain.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity++
			c.persist()
			return
		}
	}
	item.Quantity = 1
	c.items = append(c.items, item)
	c.persist()
}

// UpdateQuantity sets the line's quantity; zero or less removes the line
// entirely.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(id)
		c.persist()
		return
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			break
		}
	}
	c.persist()
}

func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
	c.persist()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (c *Cart) removeLocked(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) persist() {
	if c.items == nil {
		c.items = []domain.CartItem{}
	}
	_ = c.storage.Save(c.key, c.items)
}

// CartManager hands out the cart for a session, hydrating it from storage the
// first time the session shows up.
type CartManager struct {
	mu      sync.Mutex
	storage Storage
	carts   map[string]*Cart
}

func NewCartManager(storage Storage) *CartManager {
	return &CartManager{storage: storage, carts: make(map[string]*Cart)}
}

func (m *CartManager) Get(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[sessionID]
	if !ok {
		cart = NewCart(m.storage, sessionID)
		m.carts[sessionID] = cart
	}
	return cart
}
