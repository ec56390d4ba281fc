package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateCoupon = errors.New("coupon already exists")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDiscount = errors.New("percentage discount must be between 0 and 100")
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID            int64        `json:"id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	MinOrderValue float64      `json:"min_order_value"`
	MaxDiscount   *float64     `json:"max_discount"`
	UsageLimit    *int         `json:"usage_limit"`
	UsedCount     int          `json:"used_count"`
	ValidFrom     *time.Time   `json:"valid_from"`
	ValidUntil    *time.Time   `json:"valid_until"`
	IsActive      bool         `json:"is_active"`
	Description   string       `json:"description"`
}

// DisplayValid reports whether the coupon may be shown to shoppers at the
// given instant. The coupon evaluator and the listing endpoint must agree on
// this, so both go through here.
func (c Coupon) DisplayValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidFrom != nil && c.ValidFrom.After(now) {
		return false
	}
	if c.ValidUntil != nil && c.ValidUntil.Before(now) {
		return false
	}
	return true
}

type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Stock         int      `json:"stock"`
	InStock       bool     `json:"in_stock"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating"`
	Badges        []string `json:"badges,omitempty"`
	Featured      bool     `json:"featured"`
	Sizes         []string `json:"sizes,omitempty"`
	Materials     []string `json:"materials,omitempty"`
	Brand         string   `json:"brand,omitempty"`
}

func (p Product) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// CategorySlug returns the category in route form: lowercase with spaces
// replaced by hyphens ("Tech Gadgets" -> "tech-gadgets").
func CategorySlug(category string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-")
}

type CartItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Quantity      int      `json:"quantity"`
}

type WishlistItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Rating        float64  `json:"rating"`
}

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type Order struct {
	ID              string     `json:"id"`
	SessionID       string     `json:"session_id"`
	Date            time.Time  `json:"date"`
	Items           []CartItem `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	Shipping        float64    `json:"shipping"`
	Discount        float64    `json:"discount"`
	Total           float64    `json:"total"`
	Status          string     `json:"status"`
	CouponCode      string     `json:"coupon_code,omitempty"`
	ShippingAddress Address    `json:"shipping_address"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SiteSettings struct {
	ID             int64     `json:"id"`
	HeroTitle      string    `json:"hero_title"`
	HeroSubtitle   string    `json:"hero_subtitle"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	ShowOfferBar   bool      `json:"show_offer_bar"`
	OfferText      string    `json:"offer_text"`
	UpdatedAt      time.Time `json:"updated_at"`
}
