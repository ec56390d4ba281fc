package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otakucart/storefront/internal/domain"
	"github.com/otakucart/storefront/internal/usecase"
)

type store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) usecase.Store {
	return &store{pool: pool}
}

func (s *store) execTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const couponColumns = `id, code, discount_type, discount_value, min_order_value,
	max_discount, usage_limit, used_count, valid_from, valid_until, is_active, description`

func scanCoupon(row pgx.Row) (domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderValue,
		&c.MaxDiscount,
		&c.UsageLimit,
		&c.UsedCount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.IsActive,
		&c.Description,
	)
	return c, err
}

func (s *store) listCoupons(ctx context.Context, query string, args ...any) ([]domain.Coupon, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (s *store) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.listCoupons(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY id`)
}

func (s *store) ListActiveCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.listCoupons(ctx, `SELECT `+couponColumns+` FROM coupons WHERE is_active ORDER BY id`)
}

func (s *store) CreateCoupon(ctx context.Context, c domain.Coupon) (domain.Coupon, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO coupons (code, discount_type, discount_value, min_order_value,
			max_discount, usage_limit, used_count, valid_from, valid_until, is_active, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+couponColumns,
		c.Code, c.DiscountType, c.DiscountValue, c.MinOrderValue,
		c.MaxDiscount, c.UsageLimit, c.UsedCount, c.ValidFrom, c.ValidUntil, c.IsActive, c.Description,
	)
	created, err := scanCoupon(row)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return domain.Coupon{}, domain.ErrDuplicateCoupon
		}
		return domain.Coupon{}, err
	}
	return created, nil
}

func (s *store) UpdateCoupon(ctx context.Context, c domain.Coupon) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE coupons SET code = $2, discount_type = $3, discount_value = $4,
			min_order_value = $5, max_discount = $6, usage_limit = $7, used_count = $8,
			valid_from = $9, valid_until = $10, is_active = $11, description = $12
		WHERE id = $1`,
		c.ID, c.Code, c.DiscountType, c.DiscountValue, c.MinOrderValue,
		c.MaxDiscount, c.UsageLimit, c.UsedCount, c.ValidFrom, c.ValidUntil, c.IsActive, c.Description,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store) DeleteCoupon(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store) IncrementCouponUsage(ctx context.Context, code string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE coupons SET used_count = used_count + 1 WHERE LOWER(code) = LOWER($1)`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const productColumns = `id, name, category, subcategory, price, original_price, stock,
	in_stock, image, description, rating, badges, featured, sizes, materials, brand`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Subcategory,
		&p.Price,
		&p.OriginalPrice,
		&p.Stock,
		&p.InStock,
		&p.Image,
		&p.Description,
		&p.Rating,
		&p.Badges,
		&p.Featured,
		&p.Sizes,
		&p.Materials,
		&p.Brand,
	)
	return p, err
}

func (s *store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *store) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (s *store) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (id, name, category, subcategory, price, original_price, stock,
			in_stock, image, description, rating, badges, featured, sizes, materials, brand)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Category, p.Subcategory, p.Price, p.OriginalPrice, p.Stock,
		p.InStock, p.Image, p.Description, p.Rating, p.Badges, p.Featured, p.Sizes, p.Materials, p.Brand,
	)
	return err
}

func (s *store) UpdateProduct(ctx context.Context, p domain.Product) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET name = $2, category = $3, subcategory = $4, price = $5,
			original_price = $6, stock = $7, in_stock = $8, image = $9, description = $10,
			rating = $11, badges = $12, featured = $13, sizes = $14, materials = $15, brand = $16
		WHERE id = $1`,
		p.ID, p.Name, p.Category, p.Subcategory, p.Price, p.OriginalPrice, p.Stock,
		p.InStock, p.Image, p.Description, p.Rating, p.Badges, p.Featured, p.Sizes, p.Materials, p.Brand,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store) InsertOrder(ctx context.Context, o domain.Order, couponCode string) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}

	return s.execTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, session_id, placed_at, items, subtotal, shipping,
				discount, total, status, coupon_code, shipping_address)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			o.ID, o.SessionID, o.Date, items, o.Subtotal, o.Shipping,
			o.Discount, o.Total, o.Status, o.CouponCode, address,
		)
		if err != nil {
			return err
		}
		if couponCode != "" {
			tag, err := tx.Exec(ctx,
				`UPDATE coupons SET used_count = used_count + 1 WHERE LOWER(code) = LOWER($1)`, couponCode)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return domain.ErrNotFound
			}
		}
		return nil
	})
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var items, address []byte
	err := row.Scan(
		&o.ID,
		&o.SessionID,
		&o.Date,
		&items,
		&o.Subtotal,
		&o.Shipping,
		&o.Discount,
		&o.Total,
		&o.Status,
		&o.CouponCode,
		&address,
	)
	if err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return domain.Order{}, fmt.Errorf("decode shipping address: %w", err)
	}
	return o, nil
}

const orderColumns = `id, session_id, placed_at, items, subtotal, shipping, discount,
	total, status, coupon_code, shipping_address`

func (s *store) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.listOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY placed_at DESC`)
}

func (s *store) ListOrdersBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	return s.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE session_id = $1 ORDER BY placed_at DESC`, sessionID)
}

func (s *store) UpdateOrderStatus(ctx context.Context, id, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, email, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const settingsColumns = `id, hero_title, hero_subtitle, primary_color, secondary_color,
	show_offer_bar, offer_text, updated_at`

func scanSettings(row pgx.Row) (domain.SiteSettings, error) {
	var s domain.SiteSettings
	err := row.Scan(
		&s.ID,
		&s.HeroTitle,
		&s.HeroSubtitle,
		&s.PrimaryColor,
		&s.SecondaryColor,
		&s.ShowOfferBar,
		&s.OfferText,
		&s.UpdatedAt,
	)
	return s, err
}

func (s *store) GetSiteSettings(ctx context.Context) (domain.SiteSettings, error) {
	settings, err := scanSettings(s.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM site_settings ORDER BY id LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SiteSettings{}, domain.ErrNotFound
		}
		return domain.SiteSettings{}, err
	}
	return settings, nil
}

func (s *store) UpdateSiteSettings(ctx context.Context, in domain.SiteSettings) (domain.SiteSettings, error) {
	settings, err := scanSettings(s.pool.QueryRow(ctx, `
		UPDATE site_settings SET hero_title = $1, hero_subtitle = $2, primary_color = $3,
			secondary_color = $4, show_offer_bar = $5, offer_text = $6, updated_at = now()
		WHERE id = (SELECT id FROM site_settings ORDER BY id LIMIT 1)
		RETURNING `+settingsColumns,
		in.HeroTitle, in.HeroSubtitle, in.PrimaryColor, in.SecondaryColor, in.ShowOfferBar, in.OfferText,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SiteSettings{}, domain.ErrNotFound
		}
		return domain.SiteSettings{}, err
	}
	return settings, nil
}
