package service

import (
	"context"
	"fmt"

	"github.com/m3rciful/offerbot/internal/store"
)

// ordersPageSize caps the order history read path.
const ordersPageSize = 50

// OrderReader lists the purchase ledger per user.
type OrderReader interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]store.Order, error)
}

// OrderLedger serves the user-facing order history. It is a pure read path
// scoped to the requesting user; it never exposes other users' orders.
type OrderLedger struct {
	orders OrderReader
}

// NewOrderLedger constructs the ledger read service.
func NewOrderLedger(orders OrderReader) *OrderLedger {
	return &OrderLedger{orders: orders}
}

// ListMine returns the caller's own orders, newest first, one capped page.
func (l *OrderLedger) ListMine(ctx context.Context, userID int64) ([]store.Order, error) {
	orders, err := l.orders.ListByUser(ctx, userID, ordersPageSize)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return orders, nil
}
