// Package app assembles the offer bot: storage, services, handlers and the
// Telegram runtime options consumed by the shared runner.
package app

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/offerbot/core/bootstrap"
	coretelegram "github.com/m3rciful/offerbot/core/telegram"
	"github.com/m3rciful/offerbot/core/telegram/state"
	"github.com/m3rciful/offerbot/internal/bot"
	"github.com/m3rciful/offerbot/internal/config"
	"github.com/m3rciful/offerbot/internal/service"
	"github.com/m3rciful/offerbot/internal/store"
)

// App holds everything needed to serve updates.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	purchase *service.Purchase
	handlers *bot.Bot
}

// Bootstrap connects infrastructure and wires the service graph.
func Bootstrap(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	if err := bootstrap.RunSeeders(context.Background(), res.DB, []bootstrap.Seeder{
		store.SampleOffers(),
	}); err != nil {
		_ = res.DB.Close()
		return nil, err
	}

	st := store.New(res.DB)

	purchase := service.NewPurchase(st.Offers, st.Orders, st.Demo, service.PurchaseOptions{
		Cooldown:      cfg.Cooldown(),
		Currency:      cfg.Payments.Currency,
		MaxTip:        cfg.Payments.MaxTipAmount,
		SuggestedTips: cfg.Payments.SuggestedTipAmounts,
		Clock:         time.Now,
	})
	catalog := service.NewCatalog(st.Offers, st.Orders, time.Now)
	demo := service.NewDemo(st.Demo, time.Now)
	ledger := service.NewOrderLedger(st.Orders)

	handlers := bot.New(cfg, state.NewMemoryManager(), purchase, catalog, demo, ledger)

	return &App{
		cfg:      cfg,
		db:       res.DB,
		purchase: purchase,
		handlers: handlers,
	}, nil
}

// TelegramRunOptions builds the runtime options for the shared runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := a.handlers.BuildRegistry()

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      a.handlers.Routes(reg),
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.purchase.SetInvoiceSender(bot.NewInvoiceSender(rt.Bot, a.cfg.Payments.ProviderToken))
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
