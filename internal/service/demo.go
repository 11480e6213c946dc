package service

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/offerbot/core/logger"
	"github.com/m3rciful/offerbot/internal/store"
	"log/slog"
)

const demoComponent = "service.demo"

// DemoStore is the persistence surface of the grant registry.
type DemoStore interface {
	Allowed(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]store.DemoGrant, error)
	Grant(ctx context.Context, userID, grantedBy int64, grantedAt time.Time) error
	Revoke(ctx context.Context, userID int64) (bool, error)
}

// Demo answers fee-free access checks and manages the allow-list. Grants
// never expire; presence is binary.
type Demo struct {
	grants DemoStore
	now    func() time.Time
}

// NewDemo constructs the registry service.
func NewDemo(grants DemoStore, clock func() time.Time) *Demo {
	if clock == nil {
		clock = time.Now
	}
	return &Demo{grants: grants, now: clock}
}

// Allowed reports whether the user holds a standing grant.
func (d *Demo) Allowed(ctx context.Context, userID int64) (bool, error) {
	ok, err := d.grants.Allowed(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("demo: lookup: %w", err)
	}
	return ok, nil
}

// List enumerates all grants for admin auditing.
func (d *Demo) List(ctx context.Context) ([]store.DemoGrant, error) {
	grants, err := d.grants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("demo: list: %w", err)
	}
	return grants, nil
}

// Grant gives the user fee-free access; repeated grants refresh the record.
func (d *Demo) Grant(ctx context.Context, userID, adminID int64) error {
	if userID == 0 {
		return invalidInput("user id must not be zero")
	}
	if err := d.grants.Grant(ctx, userID, adminID, d.now()); err != nil {
		return fmt.Errorf("demo: grant: %w", err)
	}
	logger.Info(ctx, demoComponent, "demo.granted",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	return nil
}

// Revoke withdraws a grant and reports whether one existed.
func (d *Demo) Revoke(ctx context.Context, userID int64) (bool, error) {
	removed, err := d.grants.Revoke(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("demo: revoke: %w", err)
	}
	logger.Info(ctx, demoComponent, "demo.revoked",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Bool("removed", removed),
	)
	return removed, nil
}
