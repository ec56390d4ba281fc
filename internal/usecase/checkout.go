package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/otakucart/storefront/internal/domain"
)

const (
	shippingFee           = 5.99
	freeShippingThreshold = 50
)

// InvalidCouponError carries the shopper-facing rejection message from the
// evaluator through to the checkout response.
type InvalidCouponError struct {
	Message string
}

func (e *InvalidCouponError) Error() string { return e.Message }

// CheckoutService turns a session's cart into an order.
type CheckoutService struct {
	store   Store
	coupons *CouponService
	storage Storage
	feed    ChangeFeed
	nowFn   func() time.Time
}

func NewCheckoutService(store Store, coupons *CouponService, storage Storage, feed ChangeFeed) *CheckoutService {
	return &CheckoutService{
		store:   store,
		coupons: coupons,
		storage: storage,
		feed:    feed,
		nowFn:   time.Now,
	}
}

// PlaceOrder validates the coupon (if any) against the cart subtotal, writes
// the order, consumes one coupon use in the same transaction, mirrors the
// order list to storage, and clears the cart. Shipping is waived once the
// subtotal reaches the free-shipping threshold.
func (s *CheckoutService) PlaceOrder(ctx context.Context, cart *Cart, couponCode string, addr domain.Address) (domain.Order, error) {
	items := cart.Items()
	if len(items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	subtotal := cart.TotalPrice()

	var discount float64
	appliedCode := ""
	if couponCode != "" {
		result, err := s.coupons.Validate(ctx, couponCode, subtotal)
		if err != nil {
			return domain.Order{}, err
		}
		if !result.Valid {
			return domain.Order{}, &InvalidCouponError{Message: result.Message}
		}
		discount = result.Discount
		appliedCode = couponCode
	}

	shipping := shippingFee
	if subtotal >= freeShippingThreshold {
		shipping = 0
	}

	now := s.nowFn()
	order := domain.Order{
		ID:              fmt.Sprintf("ORD-%d", now.UnixMilli()),
		SessionID:       cart.SessionID(),
		Date:            now.UTC(),
		Items:           items,
		Subtotal:        subtotal,
		Shipping:        shipping,
		Discount:        discount,
		Total:           subtotal + shipping - discount,
		Status:          domain.OrderStatusPending,
		CouponCode:      appliedCode,
		ShippingAddress: addr,
	}

	if err := s.store.InsertOrder(ctx, order, appliedCode); err != nil {
		return domain.Order{}, err
	}
	if appliedCode != "" {
		// used_count moved under us; the next validation must see it.
		s.coupons.Invalidate()
	}

	s.mirrorOrder(order)
	cart.Clear()

	if err := s.feed.Publish(ctx, EventInsert, TableOrders, order); err != nil {
		log.Printf("Failed to publish %s on %s: %v", EventInsert, TableOrders, err)
	}
	return order, nil
}

func (s *CheckoutService) mirrorOrder(order domain.Order) {
	var orders []domain.Order
	s.storage.Load("orders", &orders)
	orders = append(orders, order)
	if err := s.storage.Save("orders", orders); err != nil {
		log.Printf("Failed to mirror order %s: %v", order.ID, err)
	}
}
