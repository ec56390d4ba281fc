package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/otakucart/storefront/internal/domain"
)

type mockStore struct {
	listCouponsFn          func(ctx context.Context) ([]domain.Coupon, error)
	listActiveCouponsFn    func(ctx context.Context) ([]domain.Coupon, error)
	createCouponFn         func(ctx context.Context, c domain.Coupon) (domain.Coupon, error)
	updateCouponFn         func(ctx context.Context, c domain.Coupon) error
	deleteCouponFn         func(ctx context.Context, id int64) error
	incrementCouponUsageFn func(ctx context.Context, code string) error

	listProductsFn  func(ctx context.Context) ([]domain.Product, error)
	getProductFn    func(ctx context.Context, id string) (domain.Product, error)
	createProductFn func(ctx context.Context, p domain.Product) error
	updateProductFn func(ctx context.Context, p domain.Product) error
	deleteProductFn func(ctx context.Context, id string) error

	insertOrderFn         func(ctx context.Context, o domain.Order, couponCode string) error
	listOrdersFn          func(ctx context.Context) ([]domain.Order, error)
	listOrdersBySessionFn func(ctx context.Context, sessionID string) ([]domain.Order, error)
	updateOrderStatusFn   func(ctx context.Context, id, status string) error

	listUsersFn          func(ctx context.Context) ([]domain.User, error)
	getSiteSettingsFn    func(ctx context.Context) (domain.SiteSettings, error)
	updateSiteSettingsFn func(ctx context.Context, s domain.SiteSettings) (domain.SiteSettings, error)
}

func (m *mockStore) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	if m.listCouponsFn != nil {
		return m.listCouponsFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) ListActiveCoupons(ctx context.Context) ([]domain.Coupon, error) {
	if m.listActiveCouponsFn != nil {
		return m.listActiveCouponsFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) CreateCoupon(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	if m.createCouponFn != nil {
		return m.createCouponFn(ctx, c)
	}
	return c, nil
}

func (m *mockStore) UpdateCoupon(ctx context.Context, c domain.Coupon) error {
	if m.updateCouponFn != nil {
		return m.updateCouponFn(ctx, c)
	}
	return nil
}

func (m *mockStore) DeleteCoupon(ctx context.Context, id int64) error {
	if m.deleteCouponFn != nil {
		return m.deleteCouponFn(ctx, id)
	}
	return nil
}

func (m *mockStore) IncrementCouponUsage(ctx context.Context, code string) error {
	if m.incrementCouponUsageFn != nil {
		return m.incrementCouponUsageFn(ctx, code)
	}
	return nil
}

func (m *mockStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(ctx, id)
	}
	return domain.Product{}, domain.ErrNotFound
}

func (m *mockStore) CreateProduct(ctx context.Context, p domain.Product) error {
	if m.createProductFn != nil {
		return m.createProductFn(ctx, p)
	}
	return nil
}

func (m *mockStore) UpdateProduct(ctx context.Context, p domain.Product) error {
	if m.updateProductFn != nil {
		return m.updateProductFn(ctx, p)
	}
	return nil
}

func (m *mockStore) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteProductFn != nil {
		return m.deleteProductFn(ctx, id)
	}
	return nil
}

func (m *mockStore) InsertOrder(ctx context.Context, o domain.Order, couponCode string) error {
	if m.insertOrderFn != nil {
		return m.insertOrderFn(ctx, o, couponCode)
	}
	return nil
}

func (m *mockStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if m.listOrdersFn != nil {
		return m.listOrdersFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) ListOrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	if m.listOrdersBySessionFn != nil {
		return m.listOrdersBySessionFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockStore) UpdateOrderStatus(ctx context.Context, id, status string) error {
	if m.updateOrderStatusFn != nil {
		return m.updateOrderStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetSiteSettings(ctx context.Context) (domain.SiteSettings, error) {
	if m.getSiteSettingsFn != nil {
		return m.getSiteSettingsFn(ctx)
	}
	return domain.SiteSettings{}, nil
}

func (m *mockStore) UpdateSiteSettings(ctx context.Context, s domain.SiteSettings) (domain.SiteSettings, error) {
	if m.updateSiteSettingsFn != nil {
		return m.updateSiteSettingsFn(ctx, s)
	}
	return s, nil
}

// memStorage is an in-memory Storage that round-trips through JSON the same
// way the file store does.
type memStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (s *memStorage) Load(key string, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *memStorage) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func (s *memStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// feedStub records published change events.
type feedStub struct {
	mu     sync.Mutex
	events []string
}

func (f *feedStub) Publish(_ context.Context, event, table string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event+" "+table)
	return nil
}
