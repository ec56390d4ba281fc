package usecase

import (
	"testing"

	"github.com/otakucart/storefront/internal/domain"
)

func luffyFigure() domain.CartItem {
	return domain.CartItem{ID: "p1", Name: "Luffy Figure", Price: 1500, Category: "Figurines"}
}

func TestCart_AddIncrementsExisting(t *testing.T) {
	cart := NewCart(newMemStorage(), "s1")

	cart.Add(luffyFigure())
	cart.Add(luffyFigure())

	items := cart.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line item, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
	if cart.TotalItems() != 2 {
		t.Fatalf("expected 2 total items, got %d", cart.TotalItems())
	}
}

func TestCart_AddIgnoresCallerQuantity(t *testing.T) {
	cart := NewCart(newMemStorage(), "s1")
	item := luffyFigure()
	item.Quantity = 99
	cart.Add(item)

	if got := cart.Items()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity 1, got %d", got)
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := NewCart(newMemStorage(), "s1")
	cart.Add(luffyFigure())

	cart.UpdateQuantity("p1", 5)
	if got := cart.Items()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}

	cart.UpdateQuantity("p1", 0)
	if len(cart.Items()) != 0 {
		t.Fatal("expected zero quantity to remove the line entirely")
	}
}

func TestCart_UpdateQuantityNegativeRemoves(t *testing.T) {
	cart := NewCart(newMemStorage(), "s1")
	cart.Add(luffyFigure())
	cart.UpdateQuantity("p1", -3)
	if len(cart.Items()) != 0 {
		t.Fatal("expected negative quantity to remove the line")
	}
}

func TestCart_Totals(t *testing.T) {
	cart := NewCart(newMemStorage(), "s1")
	cart.Add(luffyFigure())
	cart.Add(luffyFigure())
	cart.Add(domain.CartItem{ID: "p3", Name: "Naruto Vol. 1", Price: 450})

	if cart.TotalItems() != 3 {
		t.Fatalf("expected 3 items, got %d", cart.TotalItems())
	}
	if got := cart.TotalPrice(); got != 3450 {
		t.Fatalf("expected total 3450, got %v", got)
	}
}

func TestCart_RoundTripThroughStorage(t *testing.T) {
	store := newMemStorage()

	cart := NewCart(store, "s1")
	cart.Add(luffyFigure())
	cart.Add(luffyFigure())
	cart.Add(domain.CartItem{ID: "p3", Name: "Naruto Vol. 1", Price: 450})

	// A fresh cart for the same session hydrates the same lines.
	rehydrated := NewCart(store, "s1")
	items := rehydrated.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines after rehydration, got %d", len(items))
	}
	if items[0].ID != "p1" || items[0].Quantity != 2 {
		t.Fatalf("unexpected first line: %+v", items[0])
	}
	if rehydrated.TotalPrice() != cart.TotalPrice() {
		t.Fatalf("totals diverge: %v vs %v", rehydrated.TotalPrice(), cart.TotalPrice())
	}
}

func TestCart_CorruptSnapshotStartsEmpty(t *testing.T) {
	store := newMemStorage()
	store.data["cart:s1"] = []byte("{not json")

	cart := NewCart(store, "s1")
	if len(cart.Items()) != 0 {
		t.Fatal("expected empty cart from corrupt snapshot")
	}
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	store := newMemStorage()
	manager := NewCartManager(store)

	manager.Get("a").Add(luffyFigure())
	if len(manager.Get("b").Items()) != 0 {
		t.Fatal("expected session b to start empty")
	}
	if manager.Get("a") != manager.Get("a") {
		t.Fatal("expected the same cart instance per session")
	}
}

func TestWishlist_AddIsIdempotent(t *testing.T) {
	w := NewWishlist(newMemStorage(), "s1")
	item := domain.WishlistItem{ID: "p1", Name: "Luffy Figure", Price: 1500, Rating: 4.8}

	w.Add(item)
	w.Add(item)

	if len(w.Items()) != 1 {
		t.Fatalf("expected one item, got %d", len(w.Items()))
	}
	if !w.Contains("p1") {
		t.Fatal("expected membership for p1")
	}
}

func TestWishlist_RemoveAndContains(t *testing.T) {
	w := NewWishlist(newMemStorage(), "s1")
	w.Add(domain.WishlistItem{ID: "p1"})
	w.Add(domain.WishlistItem{ID: "p2"})

	w.Remove("p1")
	if w.Contains("p1") {
		t.Fatal("expected p1 removed")
	}
	if !w.Contains("p2") {
		t.Fatal("expected p2 kept")
	}
}

func TestWishlist_RoundTripThroughStorage(t *testing.T) {
	store := newMemStorage()
	w := NewWishlist(store, "s1")
	w.Add(domain.WishlistItem{ID: "p1", Name: "Luffy Figure", Rating: 4.8})

	rehydrated := NewWishlist(store, "s1")
	if !rehydrated.Contains("p1") {
		t.Fatal("expected wishlist to survive rehydration")
	}
}
