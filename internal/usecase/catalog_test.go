package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/otakucart/storefront/internal/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Luffy Figure", Category: "Figurines", Price: 1500, Rating: 4.8,
			Sizes: []string{"Medium (15cm)"}, Materials: []string{"PVC"}, Brand: "Banpresto"},
		{ID: "p2", Name: "Gundam Model", Category: "Figurines", Price: 2500, Rating: 4.5,
			Sizes: []string{"Large (20cm)"}, Materials: []string{"ABS Plastic"}, Brand: "Bandai", Featured: true},
		{ID: "p3", Name: "Naruto Vol. 1", Category: "Manga", Price: 450, Rating: 4.9,
			Badges: []string{"new"}, Brand: "Shueisha"},
		{ID: "p4", Name: "AOT Poster", Category: "Posters", Price: 300, Rating: 3.9, Brand: "Generic"},
		{ID: "p5", Name: "Chibi Keychain", Category: "Accessories", Price: 150, Rating: 4.2,
			Badges: []string{"new", "sale"}, Materials: []string{"Metal"}, Brand: "Banpresto", Featured: true},
		{ID: "p6", Name: "Zoro Figure", Category: "Figurines", Price: 1800, Rating: 4.0,
			Sizes: []string{"Medium (15cm)", "Large (20cm)"}, Materials: []string{"PVC"}, Brand: "MegaHouse"},
	}
}

func openFilter() CatalogFilter {
	return CatalogFilter{PriceMax: math.MaxFloat64}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a []domain.Product, want ...string) bool {
	got := ids(a)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFilterAndSort_CategoryAndPrice(t *testing.T) {
	f := openFilter()
	f.Category = "figurines"
	f.PriceMax = 2000

	result := FilterAndSort(testProducts(), f)
	if !equalIDs(result, "p1", "p6") {
		t.Fatalf("expected figurines under 2000, got %v", ids(result))
	}
	for _, p := range result {
		if domain.CategorySlug(p.Category) != "figurines" || p.Price > 2000 {
			t.Fatalf("product %s escapes the filter", p.ID)
		}
	}
}

func TestFilterAndSort_CategorySlugMatching(t *testing.T) {
	products := []domain.Product{
		{ID: "t1", Category: "Tech Gadgets", Price: 100, Rating: 4},
	}
	f := openFilter()
	f.Category = "tech-gadgets"
	if result := FilterAndSort(products, f); !equalIDs(result, "t1") {
		t.Fatalf("expected slug match, got %v", ids(result))
	}
}

func TestFilterAndSort_AllCategoryPassesEverything(t *testing.T) {
	for _, category := range []string{"", "all"} {
		f := openFilter()
		f.Category = category
		if got := len(FilterAndSort(testProducts(), f)); got != len(testProducts()) {
			t.Fatalf("category %q: expected all products, got %d", category, got)
		}
	}
}

func TestFilterAndSort_MinRating(t *testing.T) {
	f := openFilter()
	f.MinRating = 4.5
	// Default sort partitions featured (p2) to the front.
	result := FilterAndSort(testProducts(), f)
	if !equalIDs(result, "p2", "p1", "p3") {
		t.Fatalf("expected rating >= 4.5, got %v", ids(result))
	}
}

func TestFilterAndSort_Facets(t *testing.T) {
	f := openFilter()
	f.Sizes = []string{"Large (20cm)"}
	if result := FilterAndSort(testProducts(), f); !equalIDs(result, "p2", "p6") {
		t.Fatalf("size facet: got %v", ids(result))
	}

	f = openFilter()
	f.Materials = []string{"PVC", "Metal"}
	if result := FilterAndSort(testProducts(), f); !equalIDs(result, "p5", "p1", "p6") {
		t.Fatalf("material facet: got %v", ids(result))
	}

	f = openFilter()
	f.Brands = []string{"Banpresto"}
	if result := FilterAndSort(testProducts(), f); !equalIDs(result, "p5", "p1") {
		t.Fatalf("brand facet: got %v", ids(result))
	}
}

func TestFilterAndSort_PriceLowIsMonotonic(t *testing.T) {
	f := openFilter()
	f.Sort = SortPriceLow
	result := FilterAndSort(testProducts(), f)
	for i := 1; i < len(result); i++ {
		if result[i].Price < result[i-1].Price {
			t.Fatalf("price sequence decreases at %d: %v", i, ids(result))
		}
	}
}

func TestFilterAndSort_PriceHigh(t *testing.T) {
	f := openFilter()
	f.Sort = SortPriceHigh
	result := FilterAndSort(testProducts(), f)
	for i := 1; i < len(result); i++ {
		if result[i].Price > result[i-1].Price {
			t.Fatalf("price sequence increases at %d: %v", i, ids(result))
		}
	}
}

func TestFilterAndSort_RatingDescending(t *testing.T) {
	f := openFilter()
	f.Sort = SortRating
	result := FilterAndSort(testProducts(), f)
	for i := 1; i < len(result); i++ {
		if result[i].Rating > result[i-1].Rating {
			t.Fatalf("rating sequence increases at %d: %v", i, ids(result))
		}
	}
}

func TestFilterAndSort_NewestNarrowsToNewBadge(t *testing.T) {
	// "newest" filters rather than reorders: only badge-"new" products remain.
	f := openFilter()
	f.Sort = SortNewest
	result := FilterAndSort(testProducts(), f)
	if !equalIDs(result, "p3", "p5") {
		t.Fatalf("expected only new-badged products, got %v", ids(result))
	}
}

func TestFilterAndSort_FeaturedStablePartition(t *testing.T) {
	f := openFilter()
	f.Sort = SortFeatured
	result := FilterAndSort(testProducts(), f)
	// Featured first in original order, then the rest in original order.
	if !equalIDs(result, "p2", "p5", "p1", "p3", "p4", "p6") {
		t.Fatalf("expected stable featured partition, got %v", ids(result))
	}
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	products := testProducts()
	f := openFilter()
	f.Sort = SortPriceHigh
	FilterAndSort(products, f)
	if products[0].ID != "p1" || products[len(products)-1].ID != "p6" {
		t.Fatal("input slice order changed")
	}
}

func TestCatalogService_ListUsesSnapshot(t *testing.T) {
	calls := 0
	store := &mockStore{
		listProductsFn: func(ctx context.Context) ([]domain.Product, error) {
			calls++
			return testProducts(), nil
		},
	}
	svc := NewCatalogService(store, &feedStub{})

	for i := 0; i < 3; i++ {
		if _, err := svc.List(context.Background(), openFilter()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}

	svc.Invalidate()
	if _, err := svc.List(context.Background(), openFilter()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d", calls)
	}
}
