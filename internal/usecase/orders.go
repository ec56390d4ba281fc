package usecase

import (
	"context"
	"log"

	"github.com/otakucart/storefront/internal/domain"
)

// OrderService is the admin/back-office view over orders.
type OrderService struct {
	store Store
	feed  ChangeFeed
}

func NewOrderService(store Store, feed ChangeFeed) *OrderService {
	return &OrderService{store: store, feed: feed}
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	return s.store.ListOrdersBySession(ctx, sessionID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	if err := s.store.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	payload := map[string]string{"id": id, "status": status}
	if err := s.feed.Publish(ctx, EventUpdate, TableOrders, payload); err != nil {
		log.Printf("Failed to publish %s on %s: %v", EventUpdate, TableOrders, err)
	}
	return nil
}
