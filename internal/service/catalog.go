package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/offerbot/core/logger"
	"github.com/m3rciful/offerbot/internal/store"
	"log/slog"
)

const catalogComponent = "service.catalog"

// OfferStore is the persistence surface the catalog needs.
type OfferStore interface {
	Create(ctx context.Context, o store.Offer) error
	GetByID(ctx context.Context, id string) (store.Offer, error)
	List(ctx context.Context) ([]store.Offer, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// OrderStatsReader aggregates the paid ledger.
type OrderStatsReader interface {
	Stats(ctx context.Context, dayStart time.Time) (store.OrderStats, error)
}

// Catalog manages offers (create from the authoring dialogue, delete,
// list) and serves the admin stats view. Offers are never edited in place;
// the model is delete-and-recreate.
type Catalog struct {
	offers OfferStore
	orders OrderStatsReader
	now    func() time.Time
}

// NewCatalog constructs the catalog service.
func NewCatalog(offers OfferStore, orders OrderStatsReader, clock func() time.Time) *Catalog {
	if clock == nil {
		clock = time.Now
	}
	return &Catalog{offers: offers, orders: orders, now: clock}
}

// CreateOffer validates and persists a new offer with a fresh id.
func (c *Catalog) CreateOffer(ctx context.Context, title, description string, price int64) (store.Offer, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return store.Offer{}, invalidInput("offer title must not be empty")
	}
	if description == "" {
		return store.Offer{}, invalidInput("offer description must not be empty")
	}
	if price < 0 {
		return store.Offer{}, invalidInput("offer price must be a non-negative amount in minor units")
	}

	offer := store.Offer{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Price:       price,
	}
	if err := c.offers.Create(ctx, offer); err != nil {
		return store.Offer{}, fmt.Errorf("catalog: create offer: %w", err)
	}
	logger.Info(ctx, catalogComponent, "offer.created",
		slog.String("status", "ok"),
		slog.String("offer_id", offer.ID),
		slog.Int64("price", offer.Price),
	)
	return offer, nil
}

// DeleteOffer removes an offer. Existing orders keep their soft reference.
func (c *Catalog) DeleteOffer(ctx context.Context, id string) error {
	if err := c.offers.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("catalog: delete offer: %w", err)
	}
	logger.Info(ctx, catalogComponent, "offer.deleted",
		slog.String("status", "ok"),
		slog.String("offer_id", id),
	)
	return nil
}

// ListOffers returns the full catalog.
func (c *Catalog) ListOffers(ctx context.Context) ([]store.Offer, error) {
	offers, err := c.offers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list offers: %w", err)
	}
	return offers, nil
}

// Stats is the admin dashboard aggregate: paid totals overall and for the
// current UTC calendar date, plus catalog size. Empty sets read as zeros.
type Stats struct {
	Orders store.OrderStats
	Offers int64
}

// Stats computes the dashboard aggregate.
func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	dayStart := c.now().UTC().Truncate(24 * time.Hour)
	orderStats, err := c.orders.Stats(ctx, dayStart)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog: order stats: %w", err)
	}
	offerCount, err := c.offers.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog: offer count: %w", err)
	}
	return Stats{Orders: orderStats, Offers: offerCount}, nil
}
