package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/offerbot/core/bootstrap"
	"github.com/m3rciful/offerbot/core/logger"
	"log/slog"
)

// SampleOffers returns a seeder that fills an empty catalog with a couple of
// starter offers so a fresh deployment has something to sell.
func SampleOffers() bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
		var n int64
		if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM offers`); err != nil {
			return fmt.Errorf("seed offers count: %w", err)
		}
		if n > 0 {
			logger.SEED.Debug("sample offers skipped",
				slog.String("event", "seed.offers"),
				slog.Int64("count", n),
			)
			return nil
		}

		samples := []Offer{
			{ID: uuid.NewString(), Title: "Express 3 picks", Description: "Three curated football outcomes", Price: 70000},
			{ID: uuid.NewString(), Title: "Express 5 picks", Description: "Five carefully selected outcomes", Price: 120000},
		}
		for _, o := range samples {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO offers (id, title, description, price) VALUES ($1, $2, $3, $4)`,
				o.ID, o.Title, o.Description, o.Price,
			); err != nil {
				return fmt.Errorf("seed offers insert: %w", err)
			}
		}
		logger.SEED.Info("sample offers seeded",
			slog.String("event", "seed.offers"),
			slog.Int("count", len(samples)),
		)
		return nil
	})
}
