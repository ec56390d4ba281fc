package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/otakucart/storefront/internal/domain"
	"github.com/otakucart/storefront/internal/usecase"
)

const sessionCookie = "session_id"

type Handler struct {
	catalog   *usecase.CatalogService
	coupons   *usecase.CouponService
	carts     *usecase.CartManager
	wishlists *usecase.WishlistManager
	checkout  *usecase.CheckoutService
	orders    *usecase.OrderService
	analytics *usecase.AnalyticsService
	settings  *usecase.SettingsService
	store     usecase.Store
}

func NewHandler(
	catalog *usecase.CatalogService,
	coupons *usecase.CouponService,
	carts *usecase.CartManager,
	wishlists *usecase.WishlistManager,
	checkout *usecase.CheckoutService,
	orders *usecase.OrderService,
	analytics *usecase.AnalyticsService,
	settings *usecase.SettingsService,
	store usecase.Store,
) *Handler {
	return &Handler{
		catalog:   catalog,
		coupons:   coupons,
		carts:     carts,
		wishlists: wishlists,
		checkout:  checkout,
		orders:    orders,
		analytics: analytics,
		settings:  settings,
		store:     store,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)

		r.Get("/coupons", h.ListCoupons)
		r.Post("/coupons/validate", h.ValidateCoupon)

		r.Get("/settings", h.GetSettings)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddToCart)
			r.Patch("/items/{id}", h.UpdateCartItem)
			r.Delete("/items/{id}", h.RemoveFromCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.Post("/items", h.AddToWishlist)
			r.Get("/items/{id}", h.WishlistContains)
			r.Delete("/items/{id}", h.RemoveFromWishlist)
		})

		r.Post("/checkout", h.Checkout)
		r.Get("/orders", h.ListSessionOrders)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/coupons", h.AdminListCoupons)
			r.Post("/coupons", h.AdminCreateCoupon)
			r.Put("/coupons/{id}", h.AdminUpdateCoupon)
			r.Delete("/coupons/{id}", h.AdminDeleteCoupon)

			r.Post("/products", h.AdminCreateProduct)
			r.Put("/products/{id}", h.AdminUpdateProduct)
			r.Delete("/products/{id}", h.AdminDeleteProduct)

			r.Get("/orders", h.AdminListOrders)
			r.Patch("/orders/{id}/status", h.AdminUpdateOrderStatus)

			r.Get("/customers", h.AdminListCustomers)
			r.Get("/analytics/summary", h.AdminAnalyticsSummary)
			r.Put("/settings", h.AdminUpdateSettings)
		})
	})
}

// sessionID returns the shopper's session id, minting one on first contact.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// --- catalog ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCatalogFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func parseCatalogFilter(r *http.Request) (usecase.CatalogFilter, error) {
	q := r.URL.Query()
	filter := usecase.CatalogFilter{
		Category:  q.Get("category"),
		Sizes:     splitParam(q.Get("sizes")),
		Materials: splitParam(q.Get("materials")),
		Brands:    splitParam(q.Get("brands")),
		Sort:      usecase.SortKey(q.Get("sort")),
	}

	var err error
	if filter.PriceMin, err = parseFloat(q.Get("price_min"), 0); err != nil {
		return filter, errors.New("invalid price_min")
	}
	if filter.PriceMax, err = parseFloat(q.Get("price_max"), math.MaxFloat64); err != nil {
		return filter, errors.New("invalid price_max")
	}
	if filter.MinRating, err = parseFloat(q.Get("min_rating"), 0); err != nil {
		return filter, errors.New("invalid min_rating")
	}
	return filter, nil
}

func parseFloat(s string, fallback float64) (float64, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(s, 64)
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// --- coupons ---

type ValidateCouponRequest struct {
	Code       string  `json:"code"`
	OrderTotal float64 `json:"order_total"`
}

func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.coupons.Validate(r.Context(), req.Code, req.OrderTotal)
	if err != nil {
		http.Error(w, result.Message, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.ListForDisplay(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

// --- cart ---

type CartResponse struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

func cartResponse(cart *usecase.Cart) CartResponse {
	return CartResponse{
		Items:      cart.Items(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Get(h.sessionID(w, r))
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cart := h.carts.Get(h.sessionID(w, r))
	cart.Add(item)
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cart := h.carts.Get(h.sessionID(w, r))
	cart.UpdateQuantity(chi.URLParam(r, "id"), req.Quantity)
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Get(h.sessionID(w, r))
	cart.Remove(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, cartResponse(cart))
}

// --- wishlist ---

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	wishlist := h.wishlists.Get(h.sessionID(w, r))
	writeJSON(w, http.StatusOK, wishlist.Items())
}

func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var item domain.WishlistItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	wishlist := h.wishlists.Get(h.sessionID(w, r))
	wishlist.Add(item)
	writeJSON(w, http.StatusOK, wishlist.Items())
}

func (h *Handler) WishlistContains(w http.ResponseWriter, r *http.Request) {
	wishlist := h.wishlists.Get(h.sessionID(w, r))
	writeJSON(w, http.StatusOK, map[string]bool{
		"in_wishlist": wishlist.Contains(chi.URLParam(r, "id")),
	})
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	wishlist := h.wishlists.Get(h.sessionID(w, r))
	wishlist.Remove(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, wishlist.Items())
}

// --- checkout & orders ---

type CheckoutRequest struct {
	CouponCode      string         `json:"coupon_code"`
	ShippingAddress domain.Address `json:"shipping_address"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cart := h.carts.Get(h.sessionID(w, r))
	order, err := h.checkout.PlaceOrder(r.Context(), cart, req.CouponCode, req.ShippingAddress)
	if err != nil {
		var couponErr *usecase.InvalidCouponError
		if errors.As(err, &couponErr) {
			http.Error(w, couponErr.Message, http.StatusUnprocessableEntity)
			return
		}
		if errors.Is(err, domain.ErrEmptyCart) {
			http.Error(w, "cart is empty", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) ListSessionOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListBySession(r.Context(), h.sessionID(w, r))
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// --- admin: coupons ---

func (h *Handler) AdminListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.ListAll(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *Handler) AdminCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var coupon domain.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil || coupon.Code == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.coupons.Create(r.Context(), coupon)
	if err != nil {
		h.couponWriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) AdminUpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid coupon id", http.StatusBadRequest)
		return
	}

	var coupon domain.Coupon
	if err := json.NewDecoder(r.Body).Decode(&coupon); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	coupon.ID = id

	if err := h.coupons.Update(r.Context(), coupon); err != nil {
		h.couponWriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

func (h *Handler) couponWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDiscount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrDuplicateCoupon):
		http.Error(w, "coupon already exists", http.StatusConflict)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "coupon not found", http.StatusNotFound)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) AdminDeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid coupon id", http.StatusBadRequest)
		return
	}

	if err := h.coupons.Delete(r.Context(), id); err != nil {
		h.couponWriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- admin: products ---

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil || product.ID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.catalog.Create(r.Context(), product); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	product.ID = chi.URLParam(r, "id")

	if err := h.catalog.Update(r.Context(), product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- admin: orders, customers, analytics, settings ---

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

var validStatuses = map[string]bool{
	domain.OrderStatusPending:    true,
	domain.OrderStatusProcessing: true,
	domain.OrderStatusShipped:    true,
	domain.OrderStatusDelivered:  true,
	domain.OrderStatusCancelled:  true,
}

func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validStatuses[req.Status] {
		http.Error(w, "invalid order status", http.StatusBadRequest)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) AdminListCustomers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) AdminAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summary(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) AdminUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.SiteSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.settings.Update(r.Context(), settings)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
