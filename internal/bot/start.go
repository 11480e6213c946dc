package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/offerbot/core/telegram/helpers"
	"github.com/m3rciful/offerbot/core/telegram/keyboard"
)

const helpText = "This bot sells access to curated offers.\n\n" +
	"🎯 Browse the available offers and pick one to buy.\n" +
	"💳 Payment runs through the secure Telegram checkout.\n" +
	"📦 The full content is revealed right after payment.\n" +
	"📋 Your purchases are always available under \"My orders\"."

func (b *Bot) mainMenu(userID int64) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{
		{{Text: "🎯 Available offers", Unique: "show_offers"}},
		{{Text: "📋 My orders", Unique: "my_orders"}},
	}
	if b.isAdmin(userID) {
		rows = append(rows, []keyboard.InlineBtn{{Text: "⚙️ Admin panel", Unique: "admin_menu"}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "❓ Help", Unique: "help"}})
	return keyboard.InlineButtonsRows(rows...)
}

func (b *Bot) handleStart(c tele.Context) error {
	user := c.Sender()
	text := fmt.Sprintf("Hi, %s!\nWelcome aboard!\n\nPick a section:", mdEscape(user.FirstName))
	return tghelpers.EditOrSendMD(c, text, b.mainMenu(user.ID))
}

func (b *Bot) handleBackToMain(c tele.Context) error {
	return b.handleStart(c)
}

func (b *Bot) handleHelp(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{{Text: "🔙 Back", Unique: "back_to_main"}})
	return tghelpers.EditOrSendMD(c, helpText, markup)
}
