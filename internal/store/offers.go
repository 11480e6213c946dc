package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Offers persists catalog items.
type Offers struct {
	db *sqlx.DB
}

// NewOffers returns the offer repository.
func NewOffers(db *sqlx.DB) *Offers {
	return &Offers{db: db}
}

// Create inserts a new offer. The insert is a single statement so the row is
// either fully visible or absent.
func (r *Offers) Create(ctx context.Context, o Offer) error {
	const q = `INSERT INTO offers (id, title, description, price) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, q, o.ID, o.Title, o.Description, o.Price); err != nil {
		return fmt.Errorf("offers insert: %w", err)
	}
	return nil
}

// GetByID fetches a single offer or ErrNotFound.
func (r *Offers) GetByID(ctx context.Context, id string) (Offer, error) {
	const q = `SELECT id, title, description, price FROM offers WHERE id = $1`
	var o Offer
	if err := r.db.GetContext(ctx, &o, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Offer{}, ErrNotFound
		}
		return Offer{}, fmt.Errorf("offers get: %w", err)
	}
	return o, nil
}

// List returns all offers in stable title order.
func (r *Offers) List(ctx context.Context) ([]Offer, error) {
	const q = `SELECT id, title, description, price FROM offers ORDER BY title`
	var out []Offer
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("offers list: %w", err)
	}
	return out, nil
}

// Delete removes an offer. Orders referencing it are left untouched and
// keep the stale id.
func (r *Offers) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM offers WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("offers delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports the catalog size.
func (r *Offers) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM offers`
	var n int64
	if err := r.db.GetContext(ctx, &n, q); err != nil {
		return 0, fmt.Errorf("offers count: %w", err)
	}
	return n, nil
}
