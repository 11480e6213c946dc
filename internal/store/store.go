// Package store provides sqlx-backed persistence for offers, orders and
// demo grants. The schema is managed by the migrations directory.
package store

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when an insert loses to a concurrent writer on a
// unique column.
var ErrDuplicate = errors.New("store: duplicate")

// StatusPaid is the only order status this bot ever persists. In-flight
// invoices have no row until confirmation.
const StatusPaid = "paid"

// Offer is a purchasable catalog item. The description stays hidden from
// buyers until payment or a demo grant.
type Offer struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
}

// Order is an immutable record of a completed purchase. For paid orders the
// payload holds the external charge id; for demo orders a generated token.
type Order struct {
	ID         string    `db:"id"`
	UserID     int64     `db:"user_id"`
	OfferID    string    `db:"offer_id"`
	Status     string    `db:"status"`
	Payload    string    `db:"payload"`
	IsDemo     bool      `db:"is_demo"`
	PaidAmount int64     `db:"paid_amount"`
	CreatedAt  time.Time `db:"created_at"`
}

// DemoGrant is a standing fee-free access grant for a single user.
type DemoGrant struct {
	UserID    int64     `db:"user_id"`
	GrantedBy int64     `db:"granted_by"`
	GrantedAt time.Time `db:"granted_at"`
}

// OrderStats aggregates the paid ledger for the admin dashboard.
type OrderStats struct {
	TotalOrders  int64 `db:"total_orders"`
	TotalRevenue int64 `db:"total_revenue"`
	TodayOrders  int64 `db:"today_orders"`
	TodayRevenue int64 `db:"today_revenue"`
}

// Store bundles the repositories sharing one connection pool.
type Store struct {
	Offers *Offers
	Orders *Orders
	Demo   *DemoGrants
}

// New constructs the repository set on top of an established pool.
func New(db *sqlx.DB) *Store {
	return &Store{
		Offers: NewOffers(db),
		Orders: NewOrders(db),
		Demo:   NewDemoGrants(db),
	}
}
