package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/otakucart/storefront/internal/cache"
	"github.com/otakucart/storefront/internal/domain"
	"github.com/otakucart/storefront/pkg/currency"
)

// CouponResult is the outcome of evaluating a coupon code against an order
// subtotal. Discount is 0 whenever Valid is false.
type CouponResult struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}

// EvaluateCoupon checks a candidate code against the coupon snapshot and
// computes the discount for the given order subtotal. It is a pure function:
// the first failing check wins, nothing is mutated, and consuming a use of
// the coupon is the store's concern at order time.
func EvaluateCoupon(coupons []domain.Coupon, code string, orderTotal float64, now time.Time) CouponResult {
	var coupon *domain.Coupon
	for i := range coupons {
		if strings.EqualFold(coupons[i].Code, code) {
			coupon = &coupons[i]
			break
		}
	}
	if coupon == nil {
		return CouponResult{Message: "Invalid coupon code"}
	}

	if !coupon.IsActive {
		return CouponResult{Message: "This coupon is no longer active"}
	}
	if coupon.ValidFrom != nil && coupon.ValidFrom.After(now) {
		return CouponResult{Message: "This coupon is not yet valid"}
	}
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(now) {
		return CouponResult{Message: "This coupon has expired"}
	}
	if orderTotal < coupon.MinOrderValue {
		return CouponResult{Message: "Minimum order value is " + currency.Format(coupon.MinOrderValue)}
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return CouponResult{Message: "This coupon has reached its usage limit"}
	}

	var discount float64
	if coupon.DiscountType == domain.DiscountPercentage {
		discount = orderTotal * coupon.DiscountValue / 100
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
	} else {
		// A fixed discount can never push the total negative.
		discount = coupon.DiscountValue
		if discount > orderTotal {
			discount = orderTotal
		}
	}

	return CouponResult{
		Valid:    true,
		Discount: discount,
		Message:  "Coupon applied! You save " + currency.Format(discount),
	}
}

// CouponService serves coupon validation from a snapshot of active coupons
// and owns the admin-side coupon writes.
type CouponService struct {
	store    Store
	feed     ChangeFeed
	snapshot *cache.Snapshot[[]domain.Coupon]
}

func NewCouponService(store Store, feed ChangeFeed) *CouponService {
	s := &CouponService{store: store, feed: feed}
	s.snapshot = cache.NewSnapshot(store.ListActiveCoupons)
	return s
}

func (s *CouponService) Validate(ctx context.Context, code string, orderTotal float64) (CouponResult, error) {
	coupons, err := s.snapshot.Get(ctx)
	if err != nil {
		return CouponResult{Message: "Failed to fetch coupons"}, err
	}
	return EvaluateCoupon(coupons, code, orderTotal, time.Now()), nil
}

// ListForDisplay returns the coupons a shopper may currently see, using the
// same validity window the evaluator applies.
func (s *CouponService) ListForDisplay(ctx context.Context) ([]domain.Coupon, error) {
	coupons, err := s.snapshot.Get(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	visible := make([]domain.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if c.DisplayValid(now) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *CouponService) ListAll(ctx context.Context) ([]domain.Coupon, error) {
	return s.store.ListCoupons(ctx)
}

func (s *CouponService) Create(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	if err := checkDiscountRange(c); err != nil {
		return domain.Coupon{}, err
	}
	created, err := s.store.CreateCoupon(ctx, c)
	if err != nil {
		return domain.Coupon{}, err
	}
	s.changed(ctx, EventInsert, created)
	return created, nil
}

func (s *CouponService) Update(ctx context.Context, c domain.Coupon) error {
	if err := checkDiscountRange(c); err != nil {
		return err
	}
	if err := s.store.UpdateCoupon(ctx, c); err != nil {
		return err
	}
	s.changed(ctx, EventUpdate, c)
	return nil
}

func (s *CouponService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteCoupon(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EventDelete, map[string]int64{"id": id})
	return nil
}

// Invalidate marks the snapshot stale. The change feed consumer calls this
// when another instance touches the coupons table.
func (s *CouponService) Invalidate() {
	s.snapshot.Invalidate()
}

func (s *CouponService) changed(ctx context.Context, event string, payload any) {
	s.snapshot.Invalidate()
	if err := s.feed.Publish(ctx, event, TableCoupons, payload); err != nil {
		log.Printf("Failed to publish %s on %s: %v", event, TableCoupons, err)
	}
}

// Percentage values outside [0,100] are an admin input error; the evaluator
// itself trusts its snapshot.
func checkDiscountRange(c domain.Coupon) error {
	if c.DiscountType == domain.DiscountPercentage && (c.DiscountValue < 0 || c.DiscountValue > 100) {
		return domain.ErrInvalidDiscount
	}
	return nil
}
