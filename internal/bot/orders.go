package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/offerbot/core/telegram/helpers"
	"github.com/m3rciful/offerbot/core/telegram/keyboard"
	"github.com/m3rciful/offerbot/internal/store"
)

func (b *Bot) handleMyOrders(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	orders, err := b.ledger.ListMine(ctx, c.Sender().ID)
	if err != nil {
		return err
	}

	backRow := keyboard.InlineButtons([]keyboard.InlineBtn{{Text: "🔙 Back", Unique: "back_to_main"}})
	if len(orders) == 0 {
		return tghelpers.EditOrSendMD(c, "📭 You have no orders yet", backRow)
	}

	titles := map[string]string{}
	if offers, err := b.catalog.ListOffers(ctx); err == nil {
		for _, o := range offers {
			titles[o.ID] = o.Title
		}
	}

	var sb strings.Builder
	sb.WriteString("🧾 *Your orders:*\n")
	for _, ord := range orders {
		sb.WriteString("\n")
		sb.WriteString(orderLine(ord, titles))
	}
	return tghelpers.EditOrSendMD(c, sb.String(), backRow)
}

func orderLine(ord store.Order, titles map[string]string) string {
	label := titles[ord.OfferID]
	if label == "" {
		// Offer deleted since purchase, or the payment never matched one.
		label = "unavailable offer"
	}
	suffix := ""
	if ord.IsDemo {
		suffix = " (demo)"
	} else if ord.Status != store.StatusPaid {
		suffix = fmt.Sprintf(" [%s]", ord.Status)
	}
	return fmt.Sprintf("• %s — %s%s", ord.CreatedAt.Format("02.01.2006 15:04"), mdEscape(label), suffix)
}
