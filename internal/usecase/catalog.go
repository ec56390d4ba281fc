package usecase

import (
	"context"
	"log"
	"sort"

	"github.com/otakucart/storefront/internal/cache"
	"github.com/otakucart/storefront/internal/domain"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// CatalogFilter narrows and orders the product list. Category is the
// slugified route segment ("tech-gadgets"); "all" or empty matches
// everything. Empty facet slices mean the facet is not applied.
type CatalogFilter struct {
	Category  string
	PriceMin  float64
	PriceMax  float64
	MinRating float64
	Sizes     []string
	Materials []string
	Brands    []string
	Sort      SortKey
}

// FilterAndSort applies the filter predicate then the sort, stably. The
// "newest" key narrows the result to products badged "new" rather than
// reordering; that is long-standing storefront behavior, kept as is.
func FilterAndSort(products []domain.Product, f CatalogFilter) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matches(p, f) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch f.Sort {
	case SortPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortRating:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Rating > filtered[j].Rating })
	case SortNewest:
		newOnly := filtered[:0]
		for _, p := range filtered {
			if p.HasBadge("new") {
				newOnly = append(newOnly, p)
			}
		}
		filtered = newOnly
	default:
		// Featured first, original relative order preserved within each group.
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Featured && !filtered[j].Featured })
	}

	return filtered
}

func matches(p domain.Product, f CatalogFilter) bool {
	if f.Category != "" && f.Category != "all" && domain.CategorySlug(p.Category) != f.Category {
		return false
	}
	if p.Price < f.PriceMin || p.Price > f.PriceMax {
		return false
	}
	if p.Rating < f.MinRating {
		return false
	}
	if len(f.Sizes) > 0 && !intersects(p.Sizes, f.Sizes) {
		return false
	}
	if len(f.Materials) > 0 && !intersects(p.Materials, f.Materials) {
		return false
	}
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	return true
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// CatalogService serves the product list from a snapshot and owns the
// admin-side product writes.
type CatalogService struct {
	store    Store
	feed     ChangeFeed
	snapshot *cache.Snapshot[[]domain.Product]
}

func NewCatalogService(store Store, feed ChangeFeed) *CatalogService {
	s := &CatalogService{store: store, feed: feed}
	s.snapshot = cache.NewSnapshot(store.ListProducts)
	return s
}

func (s *CatalogService) List(ctx context.Context, f CatalogFilter) ([]domain.Product, error) {
	products, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAndSort(products, f), nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, p domain.Product) error {
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.changed(ctx, EventInsert, p)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, p domain.Product) error {
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.changed(ctx, EventUpdate, p)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EventDelete, map[string]string{"id": id})
	return nil
}

func (s *CatalogService) Invalidate() {
	s.snapshot.Invalidate()
}

func (s *CatalogService) changed(ctx context.Context, event string, payload any) {
	s.snapshot.Invalidate()
	if err := s.feed.Publish(ctx, event, TableProducts, payload); err != nil {
		log.Printf("Failed to publish %s on %s: %v", event, TableProducts, err)
	}
}
