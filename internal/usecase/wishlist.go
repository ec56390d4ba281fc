package usecase

import (
	"sync"

	"github.com/otakucart/storefront/internal/domain"
)

// Wishlist is the session's saved-for-later set, keyed by product id. Unlike
// the cart there is no quantity: adding an existing id is a no-op.
type Wishlist struct {
	mu      sync.Mutex
	key     string
	storage Storage
	items   []domain.WishlistItem
}

func NewWishlist(storage Storage, sessionID string) *Wishlist {
	w := &Wishlist{key: "wishlist:" + sessionID, storage: storage}
	storage.Load(w.key, &w.items)
	return w
}

func (w *Wishlist) Add(item domain.WishlistItem) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.items {
		if w.items[i].ID == item.ID {
			return
		}
	}
	w.items = append(w.items, item)
	w.persist()
}

func (w *Wishlist) Remove(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.items {
		if w.items[i].ID == id {
			w.items = append(w.items[:i], w.items[i+1:]...)
			break
		}
	}
	w.persist()
}

func (w *Wishlist) Contains(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.items {
		if w.items[i].ID == id {
			return true
		}
	}
	return false
}

func (w *Wishlist) Items() []domain.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	items := make([]domain.WishlistItem, len(w.items))
	copy(items, w.items)
	return items
}

func (w *Wishlist) persist() {
	if w.items == nil {
		w.items = []domain.WishlistItem{}
	}
	_ = w.storage.Save(w.key, w.items)
}

type WishlistManager struct {
	mu        sync.Mutex
	storage   Storage
	wishlists map[string]*Wishlist
}

func NewWishlistManager(storage Storage) *WishlistManager {
	return &WishlistManager{storage: storage, wishlists: make(map[string]*Wishlist)}
}

func (m *WishlistManager) Get(sessionID string) *Wishlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wishlists[sessionID]
	if !ok {
		w = NewWishlist(m.storage, sessionID)
		m.wishlists[sessionID] = w
	}
	return w
}
