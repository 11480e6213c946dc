package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/offerbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/offerbot/core/telegram/helpers"
	"github.com/m3rciful/offerbot/core/telegram/keyboard"
	"github.com/m3rciful/offerbot/internal/service"
)

const accessDeniedText = "❌ Access denied"

// rejectNonAdmin answers the user and returns the coded error so handler
// summary logs carry PERMISSION_DENIED.
func rejectNonAdmin(c tele.Context) error {
	_ = tghelpers.SendText(c, accessDeniedText)
	return service.ErrPermissionDenied
}

func (b *Bot) handleAdminMenu(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🛠 Manage offers", Unique: "manage_offers"}},
		[]keyboard.InlineBtn{{Text: "🎁 Demo access", Unique: "manage_demo"}},
		[]keyboard.InlineBtn{{Text: "📊 Stats", Unique: "admin_stats"}},
		[]keyboard.InlineBtn{{Text: "🔙 Back", Unique: "back_to_main"}},
	)
	return tghelpers.EditOrSendMD(c, "⚙️ *Admin panel*", markup)
}

func (b *Bot) handleManageOffers(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "➕ Add offer", Unique: "add_offer"}},
		[]keyboard.InlineBtn{{Text: "📋 List offers", Unique: "list_offers"}},
		[]keyboard.InlineBtn{{Text: "🔙 Back", Unique: "admin_menu"}},
	)
	return tghelpers.EditOrSendMD(c, "🛠 *Offer management*", markup)
}

func (b *Bot) handleListOffers(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	ctx := tghelpers.BuildContext(c)
	offers, err := b.catalog.ListOffers(ctx)
	if err != nil {
		return err
	}
	if len(offers) == 0 {
		markup := keyboard.InlineButtons([]keyboard.InlineBtn{{Text: "🔙 Back", Unique: "manage_offers"}})
		return tghelpers.EditOrSendMD(c, "📭 No offers yet", markup)
	}

	rows := make([][]keyboard.InlineBtn, 0, len(offers)*2+1)
	for _, o := range offers {
		rows = append(rows,
			[]keyboard.InlineBtn{{
				Text:   fmt.Sprintf("%s — %d %s", o.Title, o.Price/100, b.cfg.Payments.Currency),
				Unique: "edit_offer",
				Data:   o.ID,
			}},
			[]keyboard.InlineBtn{{Text: "🗑 Delete", Unique: "delete_offer", Data: o.ID}},
		)
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "🔙 Back", Unique: "manage_offers"}})
	return tghelpers.EditOrSendMD(c, "📋 *Offers:*", keyboard.InlineButtonsRows(rows...))
}

func (b *Bot) handleDeleteOffer(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	ctx := tghelpers.BuildContext(c)
	id := callbacks.CallbackPayload(c)
	if err := b.catalog.DeleteOffer(ctx, id); err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			_ = tghelpers.SendText(c, "⚠️ Offer is already gone.")
			return b.handleListOffers(c)
		}
		return err
	}
	_ = tghelpers.SendText(c, "🗑 Offer deleted.")
	return b.handleListOffers(c)
}

// Editing is intentionally a delete-and-recreate flow; offers are small
// enough that in-place field editing is not worth a second dialogue.
func (b *Bot) handleEditOffer(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	return tghelpers.SendText(c, "✏️ To change an offer, delete it and create a new one.")
}

func (b *Bot) handleStats(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	ctx := tghelpers.BuildContext(c)
	stats, err := b.catalog.Stats(ctx)
	if err != nil {
		return err
	}
	cur := b.cfg.Payments.Currency
	text := fmt.Sprintf(
		"📊 *Stats*\n\nOffers: %d\nPaid orders: %d\nRevenue: %d %s\n\nToday: %d orders, %d %s",
		stats.Offers,
		stats.Orders.TotalOrders, stats.Orders.TotalRevenue/100, cur,
		stats.Orders.TodayOrders, stats.Orders.TodayRevenue/100, cur,
	)
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{{Text: "🔙 Back", Unique: "admin_menu"}})
	return tghelpers.EditOrSendMD(c, text, markup)
}

func (b *Bot) handleManageDemo(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	ctx := tghelpers.BuildContext(c)
	grants, err := b.demo.List(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("🎁 *Demo access*\n\n")
	if len(grants) == 0 {
		sb.WriteString("No users have demo access.\n")
	} else {
		for _, g := range grants {
			sb.WriteString(fmt.Sprintf("• `%d` since %s\n", g.UserID, g.GrantedAt.Format("02.01.2006")))
		}
	}
	sb.WriteString("\nUse /demo\\_grant <user\\_id> to add someone.")

	rows := make([][]keyboard.InlineBtn, 0, len(grants)+1)
	for _, g := range grants {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("🚫 Revoke %d", g.UserID),
			Unique: "revoke_demo",
			Data:   strconv.FormatInt(g.UserID, 10),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "🔙 Back", Unique: "admin_menu"}})
	return tghelpers.EditOrSendMD(c, sb.String(), keyboard.InlineButtonsRows(rows...))
}

// handleRevokeDemoButton serves the per-grant revoke buttons on the demo
// panel; /demo_revoke stays available for ids no longer listed.
func (b *Bot) handleRevokeDemoButton(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return rejectNonAdmin(c)
	}
	userID, err := callbacks.PayloadInt64(c)
	if err != nil || userID <= 0 {
		_ = tghelpers.SendText(c, "⚠️ This button is stale, reopen the demo panel.")
		return b.handleManageDemo(c)
	}
	ctx := tghelpers.BuildContext(c)
	removed, err := b.demo.Revoke(ctx, userID)
	if err != nil {
		return err
	}
	if !removed {
		_ = tghelpers.SendText(c, fmt.Sprintf("ℹ️ User %d had no demo access.", userID))
	}
	return b.handleManageDemo(c)
}

func (b *Bot) handleDemoGrant(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, ok := argUserID(c)
	if !ok {
		return tghelpers.SendText(c, "Usage: /demo_grant <user_id>")
	}
	if err := b.demo.Grant(ctx, userID, c.Sender().ID); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return tghelpers.SendText(c, "Usage: /demo_grant <user_id>")
		}
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf("✅ Demo access granted to %d.", userID))
}

func (b *Bot) handleDemoRevoke(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID, ok := argUserID(c)
	if !ok {
		return tghelpers.SendText(c, "Usage: /demo_revoke <user_id>")
	}
	removed, err := b.demo.Revoke(ctx, userID)
	if err != nil {
		return err
	}
	if !removed {
		return tghelpers.SendText(c, fmt.Sprintf("ℹ️ User %d had no demo access.", userID))
	}
	return tghelpers.SendText(c, fmt.Sprintf("✅ Demo access revoked from %d.", userID))
}

func argUserID(c tele.Context) (int64, bool) {
	args := c.Args()
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
