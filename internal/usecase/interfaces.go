package usecase

import (
	"context"

	"github.com/otakucart/storefront/internal/domain"
)

// Tables the service persists to and announces changes for.
const (
	TableCoupons      = "coupons"
	TableProducts     = "products"
	TableOrders       = "orders"
	TableUsers        = "users"
	TableSiteSettings = "site_settings"
)

// Change feed event kinds, matching what the storefront clients receive from
// the realtime channel.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Store is the Postgres-backed system of record.
type Store interface {
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	ListActiveCoupons(ctx context.Context) ([]domain.Coupon, error)
	CreateCoupon(ctx context.Context, c domain.Coupon) (domain.Coupon, error)
	UpdateCoupon(ctx context.Context, c domain.Coupon) error
	DeleteCoupon(ctx context.Context, id int64) error
	IncrementCouponUsage(ctx context.Context, code string) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// InsertOrder writes the order and, when couponCode is set, consumes one
	// use of the coupon in the same transaction.
	InsertOrder(ctx context.Context, o domain.Order, couponCode string) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error

	ListUsers(ctx context.Context) ([]domain.User, error)

	GetSiteSettings(ctx context.Context) (domain.SiteSettings, error)
	UpdateSiteSettings(ctx context.Context, s domain.SiteSettings) (domain.SiteSettings, error)
}

// Storage mirrors collections to local key-value snapshots, the server-side
// stand-in for the clients' local storage.
type Storage interface {
	Load(key string, v any) bool
	Save(key string, v any) error
	Delete(key string) error
}

// ChangeFeed announces table mutations so every instance can invalidate its
// snapshots.
type ChangeFeed interface {
	Publish(ctx context.Context, event, table string, payload any) error
}
