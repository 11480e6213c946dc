package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/offerbot/core/telegram/helpers"
	"github.com/m3rciful/offerbot/internal/service"
)

// invoiceSender adapts the live bot API to the purchase orchestrator.
type invoiceSender struct {
	bot   *tele.Bot
	token string
}

// NewInvoiceSender builds an InvoiceSender backed by the running bot and
// the payment provider token from config.
func NewInvoiceSender(bot *tele.Bot, providerToken string) service.InvoiceSender {
	return &invoiceSender{bot: bot, token: providerToken}
}

func (s *invoiceSender) SendInvoice(ctx context.Context, userID int64, inv service.Invoice) error {
	tips := make([]int, 0, len(inv.SuggestedTips))
	for _, t := range inv.SuggestedTips {
		tips = append(tips, int(t))
	}
	out := tele.Invoice{
		Title:       inv.Title,
		Description: inv.Description,
		Payload:     inv.Payload,
		Currency:    inv.Currency,
		Token:       s.token,
		Prices: []tele.Price{
			{Label: inv.Title, Amount: int(inv.Price)},
		},
		MaxTipAmount:        int(inv.MaxTip),
		SuggestedTipAmounts: tips,
	}
	if _, err := s.bot.Send(&tele.User{ID: userID}, &out); err != nil {
		return fmt.Errorf("send invoice: %w", err)
	}
	return nil
}

func (b *Bot) handleCheckout(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	q := c.PreCheckoutQuery()
	if q == nil {
		return nil
	}
	if err := b.purchase.Authorize(ctx, service.PreAuthorization{
		UserID:   q.Sender.ID,
		Payload:  q.Payload,
		Currency: q.Currency,
		Total:    int64(q.Total),
	}); err != nil {
		return c.Accept("Payment could not be processed, please try again.")
	}
	return c.Accept()
}

func (b *Bot) handlePayment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	pay := c.Message().Payment
	if pay == nil {
		return nil
	}

	receipt, err := b.purchase.Confirm(ctx, service.Confirmation{
		UserID:   c.Sender().ID,
		Payload:  pay.Payload,
		ChargeID: pay.TelegramChargeID,
		Amount:   int64(pay.Total),
		Currency: pay.Currency,
	})
	if err != nil {
		_ = tghelpers.SendText(c, "⚠️ Payment received, but recording it failed. Support has the charge id.")
		return err
	}
	if receipt.Duplicate {
		return nil
	}
	return tghelpers.SendMD(c, receiptText(receipt))
}

func receiptText(r *service.Receipt) string {
	if !r.Attributed || r.Offer == nil {
		return "✅ *Payment received!*\n\nWe could not match it to an offer automatically; support will follow up."
	}
	desc := r.Description
	if desc == "" {
		desc = "No description available."
	}
	return fmt.Sprintf("✅ *Payment received!*\n\n*%s*\n\n%s",
		mdEscape(r.Offer.Title), mdEscape(desc))
}
