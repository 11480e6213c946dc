package bot

import (
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/offerbot/core/telegram"
	"github.com/m3rciful/offerbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/offerbot/core/telegram/helpers"
	"github.com/m3rciful/offerbot/core/telegram/middleware"
	"github.com/m3rciful/offerbot/core/telegram/router"
)

// BuildRegistry declares every command and callback the bot answers to.
func (b *Bot) BuildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Main menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     b.handleHelp,
		Description: "How the bot works",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     b.handleCancel,
		Description: "Cancel the current dialogue",
	})
	reg.RegisterCommand("/back", commands.Command{
		Handler:     b.handleBack,
		Description: "Previous dialogue step",
		Hidden:      true,
	})
	reg.RegisterCommand("/demo_grant", commands.Command{
		Handler:     b.handleDemoGrant,
		Description: "Grant demo access",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/demo_revoke", commands.Command{
		Handler:     b.handleDemoRevoke,
		Description: "Revoke demo access",
		AdminOnly:   true,
		Hidden:      true,
	})

	for key, h := range map[string]tele.HandlerFunc{
		"show_offers":   b.handleShowOffers,
		"buy":           b.handleBuy,
		"my_orders":     b.handleMyOrders,
		"back_to_main":  b.handleBackToMain,
		"help":          b.handleHelp,
		"admin_menu":    b.handleAdminMenu,
		"manage_offers": b.handleManageOffers,
		"add_offer":     b.handleAddOffer,
		"list_offers":   b.handleListOffers,
		"delete_offer":  b.handleDeleteOffer,
		"edit_offer":    b.handleEditOffer,
		"manage_demo":   b.handleManageDemo,
		"revoke_demo":   b.handleRevokeDemoButton,
		"admin_stats":   b.handleStats,
	} {
		_ = reg.RegisterCallback(key, h)
	}

	reg.SetCallbackNotFound(func(c tele.Context) error {
		return tghelpers.SendText(c, "⚠️ This button is stale, use /start.")
	})

	b.registerDialogStates()
	return reg
}

// Routes assembles the full route table: commands, callbacks, dialogue text
// and the two payment endpoints.
func (b *Bot) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs:      b.cfg.Core.Telegram.AdminIDs,
		OnAdminReject: rejectNonAdmin,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(b.states, reg, router.TextOptions{})...)
	routes = append(routes,
		tg.Route{Endpoint: tele.OnCheckout, Handler: wrap(b.handleCheckout)},
		tg.Route{Endpoint: tele.OnPayment, Handler: wrap(b.handlePayment)},
	)
	return routes
}

func wrap(h tele.HandlerFunc) tele.HandlerFunc {
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
}
