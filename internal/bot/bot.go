// Package bot wires the commerce domain to the Telegram transport: menus,
// offer browsing, the buy flow, order history, the admin panel and the
// offer-authoring dialogue.
package bot

import (
	"github.com/m3rciful/offerbot/core/telegram/format"
	"github.com/m3rciful/offerbot/core/telegram/state"
	"github.com/m3rciful/offerbot/internal/config"
	"github.com/m3rciful/offerbot/internal/service"
)

// Bot groups the handler dependencies.
type Bot struct {
	cfg      *config.Config
	states   state.Manager
	purchase *service.Purchase
	catalog  *service.Catalog
	demo     *service.Demo
	ledger   *service.OrderLedger
}

// New constructs the handler set.
func New(
	cfg *config.Config,
	states state.Manager,
	purchase *service.Purchase,
	catalog *service.Catalog,
	demo *service.Demo,
	ledger *service.OrderLedger,
) *Bot {
	return &Bot{
		cfg:      cfg,
		states:   states,
		purchase: purchase,
		catalog:  catalog,
		demo:     demo,
		ledger:   ledger,
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.cfg.Core.Telegram.IsAdmin(userID)
}

// mdEscape makes admin-entered text safe for Markdown messages.
func mdEscape(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1)
	if err != nil {
		return s
	}
	return out
}
