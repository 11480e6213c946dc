package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/offerbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/offerbot/core/telegram/helpers"
	"github.com/m3rciful/offerbot/core/telegram/keyboard"
	"github.com/m3rciful/offerbot/internal/service"
	"github.com/m3rciful/offerbot/internal/store"
)

// Buyers see only the title and price here; descriptions stay hidden until
// payment or a demo grant.
func (b *Bot) handleShowOffers(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	offers, err := b.catalog.ListOffers(ctx)
	if err != nil {
		return err
	}

	if len(offers) == 0 {
		markup := keyboard.InlineButtons([]keyboard.InlineBtn{{Text: "🔙 Back", Unique: "back_to_main"}})
		return tghelpers.EditOrSendMD(c, "📭 No offers yet", markup)
	}

	rows := make([][]keyboard.InlineBtn, 0, len(offers)+1)
	for _, o := range offers {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("%s (%d %s)", o.Title, o.Price/100, b.cfg.Payments.Currency),
			Unique: "buy",
			Data:   o.ID,
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "🔙 Back", Unique: "back_to_main"}})
	return tghelpers.EditOrSendMD(c, "🎯 Available offers:", keyboard.InlineButtonsRows(rows...))
}

func (b *Bot) handleBuy(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	offerID := callbacks.CallbackPayload(c)
	if strings.TrimSpace(offerID) == "" {
		return tghelpers.SendText(c, "⚠️ This offer button is broken, try reopening the list.")
	}

	res, err := b.purchase.Initiate(ctx, c.Sender().ID, offerID)
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return tghelpers.SendText(c, "⏳ Too many attempts, give it a few seconds and try again.")
	case errors.Is(err, service.ErrOfferNotFound):
		return tghelpers.SendText(c, "😔 This offer is no longer available.")
	case err != nil:
		var coded *service.Error
		if errors.As(err, &coded) && coded.Code() == "INVOICE_CREATION_FAILED" {
			_ = tghelpers.SendText(c, "💳 Could not start the checkout. Please try again.")
		}
		return err
	}

	if res.Demo {
		return tghelpers.SendMD(c, demoReleaseText(res.Offer))
	}
	// The invoice itself has been sent; nothing else to disclose yet.
	return nil
}

func demoReleaseText(o store.Offer) string {
	return fmt.Sprintf("🎁 Demo access granted!\n\n*%s*\n\n%s",
		mdEscape(o.Title), mdEscape(o.Description))
}
