package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Orders persists the append-only purchase ledger.
type Orders struct {
	db *sqlx.DB
}

// NewOrders returns the order repository.
func NewOrders(db *sqlx.DB) *Orders {
	return &Orders{db: db}
}

// Create inserts a completed order. Rows are immutable after this point and
// the single-statement insert guarantees no partially written order is ever
// visible. The unique index on payload turns a concurrent duplicate
// confirmation into ErrDuplicate instead of a second row.
func (r *Orders) Create(ctx context.Context, o Order) error {
	const q = `
		INSERT INTO orders (id, user_id, offer_id, status, payload, is_demo, paid_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, q,
		o.ID, o.UserID, o.OfferID, o.Status, o.Payload, o.IsDemo, o.PaidAmount, o.CreatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("orders insert: %w", err)
	}
	return nil
}

// ListByUser returns the user's own orders, newest first, capped at limit.
func (r *Orders) ListByUser(ctx context.Context, userID int64, limit int) ([]Order, error) {
	const q = `
		SELECT id, user_id, offer_id, status, payload, is_demo, paid_amount, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	var out []Order
	if err := r.db.SelectContext(ctx, &out, q, userID, limit); err != nil {
		return nil, fmt.Errorf("orders list: %w", err)
	}
	return out, nil
}

// GetByPayload fetches an order by its payload token (the charge id for paid
// orders). Used to deduplicate repeated payment confirmations.
func (r *Orders) GetByPayload(ctx context.Context, payload string) (Order, error) {
	const q = `
		SELECT id, user_id, offer_id, status, payload, is_demo, paid_amount, created_at
		FROM orders WHERE payload = $1`
	var o Order
	if err := r.db.GetContext(ctx, &o, q, payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("orders get by payload: %w", err)
	}
	return o, nil
}

// Stats aggregates paid orders overall and since dayStart. An empty ledger
// yields zeros, not an error.
func (r *Orders) Stats(ctx context.Context, dayStart time.Time) (OrderStats, error) {
	const q = `
		SELECT
			COUNT(*)                                                  AS total_orders,
			COALESCE(SUM(paid_amount), 0)                             AS total_revenue,
			COUNT(*)    FILTER (WHERE created_at >= $1)               AS today_orders,
			COALESCE(SUM(paid_amount) FILTER (WHERE created_at >= $1), 0) AS today_revenue
		FROM orders
		WHERE status = $2`
	var s OrderStats
	if err := r.db.GetContext(ctx, &s, q, dayStart, StatusPaid); err != nil {
		return OrderStats{}, fmt.Errorf("orders stats: %w", err)
	}
	return s, nil
}
