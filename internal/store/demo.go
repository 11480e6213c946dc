package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// DemoGrants persists the fee-free access allow-list.
type DemoGrants struct {
	db *sqlx.DB
}

// NewDemoGrants returns the demo grant repository.
func NewDemoGrants(db *sqlx.DB) *DemoGrants {
	return &DemoGrants{db: db}
}

// Allowed reports whether the user holds a standing grant. Primary-key
// lookup, consulted on every purchase attempt.
func (r *DemoGrants) Allowed(ctx context.Context, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM demo_exceptions WHERE user_id = $1)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, q, userID); err != nil {
		return false, fmt.Errorf("demo exists: %w", err)
	}
	return ok, nil
}

// List enumerates all grants with grantor and timestamp for admin auditing.
func (r *DemoGrants) List(ctx context.Context) ([]DemoGrant, error) {
	const q = `SELECT user_id, granted_by, granted_at FROM demo_exceptions`
	var out []DemoGrant
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("demo list: %w", err)
	}
	return out, nil
}

// Grant upserts a grant; a user holds at most one.
func (r *DemoGrants) Grant(ctx context.Context, userID, grantedBy int64, grantedAt time.Time) error {
	const q = `
		INSERT INTO demo_exceptions (user_id, granted_by, granted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET granted_by = EXCLUDED.granted_by, granted_at = EXCLUDED.granted_at`
	if _, err := r.db.ExecContext(ctx, q, userID, grantedBy, grantedAt); err != nil {
		return fmt.Errorf("demo grant: %w", err)
	}
	return nil
}

// Revoke removes a grant if present and reports whether one existed.
func (r *DemoGrants) Revoke(ctx context.Context, userID int64) (bool, error) {
	const q = `DELETE FROM demo_exceptions WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return false, fmt.Errorf("demo revoke: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("demo revoke: %w", err)
	}
	return n > 0, nil
}
