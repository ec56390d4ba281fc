package usecase

import (
	"context"
	"sort"

	"github.com/otakucart/storefront/internal/domain"
)

type CategorySales struct {
	Category string  `json:"category"`
	Units    int     `json:"units"`
	Revenue  float64 `json:"revenue"`
}

type SalesSummary struct {
	TotalOrders   int             `json:"total_orders"`
	PendingOrders int             `json:"pending_orders"`
	TotalRevenue  float64         `json:"total_revenue"`
	TotalDiscount float64         `json:"total_discount"`
	TopCategories []CategorySales `json:"top_categories"`
}

// SummarizeSales aggregates the admin dashboard numbers from the order list.
// Cancelled orders count toward the order total but not toward revenue.
func SummarizeSales(orders []domain.Order) SalesSummary {
	summary := SalesSummary{TopCategories: []CategorySales{}}
	byCategory := make(map[string]*CategorySales)

	for _, o := range orders {
		summary.TotalOrders++
		if o.Status == domain.OrderStatusPending {
			summary.PendingOrders++
		}
		if o.Status == domain.OrderStatusCancelled {
			continue
		}
		summary.TotalRevenue += o.Total
		summary.TotalDiscount += o.Discount
		for _, item := range o.Items {
			cs, ok := byCategory[item.Category]
			if !ok {
				cs = &CategorySales{Category: item.Category}
				byCategory[item.Category] = cs
			}
			cs.Units += item.Quantity
			cs.Revenue += item.Price * float64(item.Quantity)
		}
	}

	for _, cs := range byCategory {
		summary.TopCategories = append(summary.TopCategories, *cs)
	}
	sort.Slice(summary.TopCategories, func(i, j int) bool {
		a, b := summary.TopCategories[i], summary.TopCategories[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Category < b.Category
	})
	if len(summary.TopCategories) > 5 {
		summary.TopCategories = summary.TopCategories[:5]
	}
	return summary
}

type AnalyticsService struct {
	store Store
}

func NewAnalyticsService(store Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) Summary(ctx context.Context) (SalesSummary, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return SalesSummary{}, err
	}
	return SummarizeSales(orders), nil
}
